package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/esassoc/SqlCodeGen/schema"
)

// The following types and their exported methods are used by the
// generators to render the assets.
type (
	// Type is one generated table binding.
	Type struct {
		*Config
		// Table is the parsed table definition.
		Table *schema.Table
		// Name is the exported Go and TypeScript name of the table.
		Name string
		// ID is the primary key field.
		ID *Field
		// Fields holds every column in declaration order.
		Fields []*Field
		fields map[string]*Field
		// identifiers taken by fields, methods and navigations.
		names map[string]struct{}
		// Seed is the joined seed data. Nil for a plain table.
		Seed *schema.LookupTableData
		// Rows are the seed rows accepted for binding, in seed order. A type
		// with at least one row is a lookup table.
		Rows []*Row
		// Navigations are the accessors of reference columns that resolve
		// to a lookup table.
		Navigations []*Navigation
		decl        decl
	}

	// Field holds one column of a type.
	Field struct {
		schema.Column
		typ *Type
		// StructField is the exported Go field name.
		StructField string
		// Param is the constructor parameter name.
		Param string
		// Index is the declaration position of the column.
		Index int
		// maxLengthConst is the declared name of the length constant.
		maxLengthConst string
	}

	// Navigation is an accessor from a reference column to the lookup row
	// it holds.
	Navigation struct {
		// Field is the reference column.
		Field *Field
		// Name is the accessor name.
		Name string
		// Target is the referenced lookup type.
		Target *Type
		// Explicit is set when a foreign-key clause named the target.
		Explicit bool
	}

	// Row is one bound seed row of a lookup type.
	Row struct {
		// Symbol is the unique identifier of the row within its type.
		Symbol string
		// Name is the raw name value, or Symbol when the seed has none.
		Name string
		// DisplayName is the label shown for the row.
		DisplayName string
		// Value is the primary key value.
		Value int
		// SortOrder is the declared sort order, or the 1-based row number.
		SortOrder int
		// Var is the package variable holding the row.
		Var string
		// Const is the enum constant of the row.
		Const string
		// Cells are aligned with the fields of the type.
		Cells []Cell
	}

	// Cell is one field value of a row.
	Cell struct {
		// Raw is the literal as written, quotes removed.
		Raw string
		// Null is set for NULL literals and for columns the seed omits.
		Null bool
	}
)

// decl holds the package-level Go identifiers of a type, assigned by the
// graph once every type is known. Empty names fall back to the plain
// derivation from the type name.
type decl struct {
	primaryKey   string
	constructor  string
	enum         string
	enumAccessor string
	all          string
	byKey        string
	index        string
}

// integerTypes are the column types a lookup key or reference may have.
var integerTypes = []string{"int", "bigint", "smallint", "tinyint"}

// stringTypes hold textual data.
var stringTypes = []string{"varchar", "nvarchar", "char", "nchar", "text", "ntext", "sysname"}

// NewType creates the binding of t. The primary key is the declared key,
// else the {Table}{IDSuffix} column, else decided by PrimaryKeyFallback.
func NewType(c *Config, t *schema.Table) (*Type, error) {
	if len(t.Columns) == 0 {
		return nil, NewSchemaError(t.QualifiedName(), "", "table has no columns", nil)
	}
	typ := &Type{
		Config: c,
		Table:  t,
		Name:   exported(t.Name),
		Fields: make([]*Field, 0, len(t.Columns)),
		fields: make(map[string]*Field, len(t.Columns)),
		names:  map[string]struct{}{"PrimaryKey": {}},
	}
	for i, col := range t.Columns {
		f := &Field{
			Column:      col,
			typ:         typ,
			StructField: unique(exported(col.Name), typ.names),
			Index:       i,
		}
		f.Param = paramName(f.StructField)
		typ.Fields = append(typ.Fields, f)
		typ.fields[strings.ToLower(col.Name)] = f
	}
	id, err := typ.primaryKey()
	if err != nil {
		return nil, err
	}
	typ.ID = id
	typ.ID.PrimaryKey = true
	return typ, nil
}

func (t *Type) primaryKey() (*Field, error) {
	if pk := t.Table.PrimaryKeyColumn; pk != "" {
		if f, ok := t.Field(pk); ok {
			return f, nil
		}
		return nil, NewSchemaError(t.Table.QualifiedName(), pk, "primary key names an unknown column", nil)
	}
	if f, ok := t.Field(t.Table.Name + t.IDSuffix); ok {
		return f, nil
	}
	switch t.PrimaryKeyFallback {
	case FallbackFirstColumn:
		return t.Fields[0], nil
	default:
		return nil, NewSchemaError(t.Table.QualifiedName(), "", "no primary key and no "+t.Table.Name+t.IDSuffix+" column", nil)
	}
}

// unique returns name, or name followed by the smallest number that is not
// yet used, and records the result.
func unique(name string, used map[string]struct{}) string {
	s := name
	for i := 2; ; i++ {
		if _, ok := used[s]; !ok {
			break
		}
		s = name + strconv.Itoa(i)
	}
	used[s] = struct{}{}
	return s
}

func declared(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// Field returns the field of the named column, ignoring case.
func (t *Type) Field(column string) (*Field, bool) {
	f, ok := t.fields[strings.ToLower(column)]
	return f, ok
}

// IsLookup reports whether the type has bound seed rows.
func (t *Type) IsLookup() bool { return len(t.Rows) > 0 }

// Label returns the human readable name of the type.
func (t *Type) Label() string { return Describe(t.Name) }

// PrimaryKeyName returns the name of the primary key wrapper type.
func (t *Type) PrimaryKeyName() string {
	return declared(t.decl.primaryKey, t.Name+"PrimaryKey")
}

// ConstructorName returns the name of the entity constructor.
func (t *Type) ConstructorName() string {
	return declared(t.decl.constructor, "New"+t.Name)
}

// EnumName returns the name of the enum type of a lookup table.
func (t *Type) EnumName() string {
	return declared(t.decl.enum, t.Name+"Enum")
}

// EnumAccessorName returns the name of the enum method returning its row.
func (t *Type) EnumAccessorName() string {
	return declared(t.decl.enumAccessor, t.Name)
}

// AllName returns the name of the row list of a lookup table.
func (t *Type) AllName() string {
	return declared(t.decl.all, "All"+t.PluralName())
}

// ByPrimaryKeyName returns the name of the row lookup function.
func (t *Type) ByPrimaryKeyName() string {
	return declared(t.decl.byKey, t.Name+"ByPrimaryKey")
}

// IndexName returns the name of the unexported map behind ByPrimaryKeyName.
func (t *Type) IndexName() string {
	return declared(t.decl.index, unexported(t.Name)+"ByPrimaryKey")
}

// PluralName returns the name of the collection of a lookup table.
func (t *Type) PluralName() string { return Plural(t.Name) }

// FileStem returns the base name of the Go files of the type.
func (t *Type) FileStem() string { return FileStem(t.Name, "_") }

// ScriptStem returns the base name of the TypeScript file of the type.
func (t *Type) ScriptStem() string { return FileStem(t.Name, "-") }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.Name }

// Owner returns the type owning the field.
func (f *Field) Owner() *Type { return f.typ }

// IsInteger reports whether the column holds an integer.
func (f *Field) IsInteger() bool { return f.IsType(integerTypes...) }

// IsString reports whether the column holds text.
func (f *Field) IsString() bool { return f.IsType(stringTypes...) }

// IsNullable reports whether the generated field is a pointer. The primary
// key is never nullable.
func (f *Field) IsNullable() bool { return f.Nullable && !f.PrimaryKey }

// MaxLengthName returns the name of the length constant of the field.
func (f *Field) MaxLengthName() string {
	return declared(f.maxLengthConst, f.typ.Name+f.StructField+"MaxLength")
}

// HasMaxLengthConst reports whether a length constant is generated: only
// bounded text columns have one.
func (f *Field) HasMaxLengthConst() bool {
	return f.IsString() && f.HasMaxLength()
}

// Description returns the doc comment label of the field.
func (f *Field) Description() string {
	return fmt.Sprintf("%s (%s)", Describe(f.StructField), f.sqlType())
}

func (f *Field) sqlType() string {
	switch {
	case f.Unbounded():
		return strings.ToLower(f.Type) + "(max)"
	case f.HasMaxLength():
		return fmt.Sprintf("%s(%d)", strings.ToLower(f.Type), f.MaxLength)
	default:
		return strings.ToLower(f.Type)
	}
}

// Cell returns the value of field f in the row.
func (r *Row) Cell(f *Field) Cell {
	if f.Index < 0 || f.Index >= len(r.Cells) {
		return Cell{Null: true}
	}
	return r.Cells[f.Index]
}
