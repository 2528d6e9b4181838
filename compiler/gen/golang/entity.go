package golang

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// genEntity generates the entity file ({entity}.go).
func genEntity(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile()

	genEntityStruct(f, t)
	genMaxLengths(f, t)
	genConstructor(f, t)

	f.Comment("PrimaryKey returns the primary key of the row.")
	f.Func().Params(jen.Id("e").Op("*").Id(t.Name)).Id("PrimaryKey").Params().Id(t.PrimaryKeyName()).Block(
		jen.Return(jen.Id(t.PrimaryKeyName()).Call(jen.Id("e").Dot(t.ID.StructField))),
	)

	for _, n := range t.Navigations {
		genNavigation(f, t, n)
	}
	if t.IsLookup() {
		genEnum(f, t)
		genRows(f, t)
	}
	return f
}

// genEntityStruct generates the entity struct.
func genEntityStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the %s entity of the %s table.", t.Name, t.Label(), t.Table.QualifiedName())
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		for _, field := range t.Fields {
			group.Id(field.StructField).Add(goType(field)).Tag(map[string]string{"db": field.Name}).Comment(columnComment(field))
		}
	})
}

func columnComment(f *gen.Field) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(f.Type))
	switch {
	case f.Unbounded():
		b.WriteString("(max)")
	case f.HasMaxLength():
		fmt.Fprintf(&b, "(%d)", f.MaxLength)
	}
	if f.PrimaryKey {
		b.WriteString(", primary key")
	}
	if f.Identity {
		b.WriteString(", identity")
	}
	if f.IsNullable() {
		b.WriteString(", null")
	}
	return b.String()
}

// genMaxLengths generates the length constants of bounded text columns.
func genMaxLengths(f *jen.File, t *gen.Type) {
	var defs []jen.Code
	for _, field := range t.Fields {
		if field.HasMaxLengthConst() {
			defs = append(defs, jen.Id(field.MaxLengthName()).Op("=").Lit(field.MaxLength))
		}
	}
	if len(defs) == 0 {
		return
	}
	f.Commentf("Maximum lengths of the %s text columns.", t.Name)
	f.Const().Defs(defs...)
}

// genConstructor generates New{entity}, taking every column in declaration order.
func genConstructor(f *jen.File, t *gen.Type) {
	f.Commentf("%s returns a %s with every column set.", t.ConstructorName(), t.Name)
	f.Func().Id(t.ConstructorName()).ParamsFunc(func(grp *jen.Group) {
		for _, field := range t.Fields {
			grp.Id(field.Param).Add(goType(field))
		}
	}).Id(t.Name).Block(
		jen.Return(jen.Id(t.Name).ValuesFunc(func(grp *jen.Group) {
			for _, field := range t.Fields {
				grp.Line().Id(field.StructField).Op(":").Id(field.Param)
			}
			grp.Line()
		})),
	)
}

// genNavigation generates the accessor of a reference column.
func genNavigation(f *jen.File, t *gen.Type, n *gen.Navigation) {
	target := n.Target
	ref := jen.Id("e").Dot(n.Field.StructField)
	f.Commentf("%s returns the %s row referenced by %s.", n.Name, target.Name, n.Field.Name)
	f.Func().Params(jen.Id("e").Op("*").Id(t.Name)).Id(n.Name).Params().Params(jen.Id(target.Name), jen.Bool()).BlockFunc(func(grp *jen.Group) {
		if nilable(n.Field) {
			grp.If(ref.Clone().Op("==").Nil()).Block(
				jen.Return(jen.Id(target.Name).Values(), jen.False()),
			)
			ref = jen.Op("*").Add(ref)
		}
		grp.Return(jen.Id(target.ByPrimaryKeyName()).Call(jen.Id(target.PrimaryKeyName()).Call(ref)))
	})
}

// genEnum generates the enum type of a lookup table.
func genEnum(f *jen.File, t *gen.Type) {
	enum := t.EnumName()
	f.Commentf("%s enumerates the %s rows by primary key.", enum, t.Name)
	f.Type().Id(enum).Add(baseType(t.ID))

	f.Const().DefsFunc(func(grp *jen.Group) {
		for _, r := range t.Rows {
			grp.Id(r.Const).Id(enum).Op("=").Lit(r.Value)
		}
	})

	accessor := t.EnumAccessorName()
	f.Commentf("%s returns the row of the enum value.", accessor)
	f.Func().Params(jen.Id("v").Id(enum)).Id(accessor).Params().Params(jen.Id(t.Name), jen.Bool()).Block(
		jen.Return(jen.Id(t.ByPrimaryKeyName()).Call(jen.Id(t.PrimaryKeyName()).Call(jen.Id("v")))),
	)

	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(jen.Id("v").Id(enum)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("v")).BlockFunc(func(grp *jen.Group) {
			for _, r := range t.Rows {
				grp.Case(jen.Id(r.Const)).Block(jen.Return(jen.Lit(r.Symbol)))
			}
		}),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(enum+"(%v)"), baseType(t.ID).Call(jen.Id("v")))),
	)
}

// genRows generates one variable per seed row, the row list and the
// primary key index.
func genRows(f *jen.File, t *gen.Type) {
	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, r := range t.Rows {
			grp.Commentf("%s is the %q row.", r.Var, r.DisplayName)
			grp.Id(r.Var).Op("=").Id(t.Name).ValuesFunc(func(vals *jen.Group) {
				for _, field := range t.Fields {
					if v, ok := literal(field, r.Cell(field)); ok {
						vals.Line().Id(field.StructField).Op(":").Add(v)
					}
				}
				vals.Line()
			})
		}
	})

	all := t.AllName()
	f.Commentf("%s lists the %s rows in seed order.", all, t.Name)
	f.Var().Id(all).Op("=").Index().Id(t.Name).ValuesFunc(func(grp *jen.Group) {
		for _, r := range t.Rows {
			grp.Line().Id(r.Var)
		}
		grp.Line()
	})

	index := t.IndexName()
	f.Var().Id(index).Op("=").Map(jen.Id(t.PrimaryKeyName())).Id(t.Name).ValuesFunc(func(grp *jen.Group) {
		for _, r := range t.Rows {
			grp.Line().Lit(r.Value).Op(":").Id(r.Var)
		}
		grp.Line()
	})

	byKey := t.ByPrimaryKeyName()
	f.Commentf("%s returns the %s row with the given key.", byKey, t.Name)
	f.Func().Id(byKey).Params(jen.Id("k").Id(t.PrimaryKeyName())).Params(jen.Id(t.Name), jen.Bool()).Block(
		jen.List(jen.Id("e"), jen.Id("ok")).Op(":=").Id(index).Index(jen.Id("k")),
		jen.Return(jen.Id("e"), jen.Id("ok")),
	)
}
