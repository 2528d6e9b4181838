package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// genPrimaryKey generates the primary key wrapper file ({entity}_primary_key.go).
func genPrimaryKey(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile()
	name := t.PrimaryKeyName()

	f.Commentf("%s is the primary key of the %s table (%s).", name, t.Table.QualifiedName(), t.ID.Name)
	f.Type().Id(name).Add(baseType(t.ID))

	f.Commentf("Value returns the %s value of the key.", t.ID.Name)
	f.Func().Params(jen.Id("k").Id(name)).Id("Value").Params().Add(baseType(t.ID)).Block(
		jen.Return(baseType(t.ID).Call(jen.Id("k"))),
	)

	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(jen.Id("k").Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprint").Call(jen.Id("k").Dot("Value").Call())),
	)
	return f
}
