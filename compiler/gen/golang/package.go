package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// genPackage generates the shared package file (entities.go).
func genPackage(h gen.GeneratorHelper) *jen.File {
	f := h.NewFile()
	g := h.Graph()
	f.PackageComment("Package " + h.Pkg() + " holds the entity bindings of the SQL schema.")
	f.PackageComment("")
	f.PackageComment("Tables with seed data are lookup tables: each seed row is a package")
	f.PackageComment("variable, enumerated by the table's Enum type.")

	f.Comment("Tables lists the table names bound in this package.")
	f.Var().Id("Tables").Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
		for _, t := range g.Types {
			grp.Line().Lit(t.Table.Name)
		}
		if len(g.Types) > 0 {
			grp.Line()
		}
	})

	f.Comment("ptr returns a pointer to a copy of v.")
	f.Func().Id("ptr").Types(jen.Id("T").Any()).Params(jen.Id("v").Id("T")).Op("*").Id("T").Block(
		jen.Return(jen.Op("&").Id("v")),
	)
	return f
}
