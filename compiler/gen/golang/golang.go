// Package golang renders the Go entity bindings with Jennifer.
//
// It implements gen.EntityGenerator. Every table gets a primary key wrapper
// and an entity struct; lookup tables additionally get an enum type, one
// package variable per seed row and lookup functions.
//
// Usage:
//
//	g := gen.NewGenerator(graph)
//	g.WithEntity(golang.New(g))
//	out, err := g.Generate(ctx)
//
// Generated code structure:
//
//	{target}/
//	├── entities.go                 # Package doc and shared helpers
//	├── {entity}.go                 # Entity struct, constructor, lookups
//	└── {entity}_primary_key.go     # Primary key wrapper type
package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// Generator implements gen.EntityGenerator.
type Generator struct {
	h gen.GeneratorHelper
}

var _ gen.EntityGenerator = (*Generator)(nil)

// New returns an entity generator rendering through h.
func New(h gen.GeneratorHelper) *Generator {
	return &Generator{h: h}
}

// GenPrimaryKey generates the primary key wrapper ({entity}_primary_key.go).
func (g *Generator) GenPrimaryKey(t *gen.Type) *jen.File {
	return genPrimaryKey(g.h, t)
}

// GenEntity generates the entity binding ({entity}.go).
func (g *Generator) GenEntity(t *gen.Type) *jen.File {
	return genEntity(g.h, t)
}

// GenPackage generates the shared package file (entities.go).
func (g *Generator) GenPackage() *jen.File {
	return genPackage(g.h)
}
