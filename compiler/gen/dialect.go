package gen

import "github.com/dave/jennifer/jen"

// EntityGenerator renders the Go entity bindings.
// GenPrimaryKey and GenEntity are called once per type, GenPackage once
// per generation run.
type EntityGenerator interface {
	// GenPrimaryKey generates the primary key wrapper ({entity}_primary_key.go).
	GenPrimaryKey(t *Type) *jen.File
	// GenEntity generates the entity binding ({entity}.go).
	GenEntity(t *Type) *jen.File
	// GenPackage generates the shared package file (entities.go).
	GenPackage() *jen.File
}

// ScriptGenerator renders the front-end enum definitions.
// GenEnum is called once per lookup type, GenShared once per generation
// run.
type ScriptGenerator interface {
	// GenEnum generates the enum module of a lookup type.
	GenEnum(t *Type) ([]byte, error)
	// GenShared generates the module declaring the shared row types.
	GenShared() ([]byte, error)
	// EnumFileName returns the file name of the enum module of t.
	EnumFileName(t *Type) string
	// SharedFileName returns the file name of the shared module.
	SharedFileName() string
}

// GeneratorHelper provides helper methods for generator implementations.
// Generator implements this interface, allowing target packages to use
// the configured settings without holding the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile() *jen.File
	// Graph returns the schema graph.
	Graph() *Graph
	// Pkg returns the output package name.
	Pkg() string
	// Header returns the generated-file header line.
	Header() string
}
