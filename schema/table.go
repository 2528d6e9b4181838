package schema

import "strings"

// MaxLengthUnbounded is the MaxLength of a column declared with a `max` length.
const MaxLengthUnbounded = -1

// Column describes a single column of a table definition.
type Column struct {
	// Name is the column name with bracket or quote decoration removed.
	Name string `json:"name" msgpack:"name"`
	// Type is the declared SQL type name as written (compare case-insensitively).
	Type string `json:"type" msgpack:"type"`
	// Nullable is false only when the definition carries NOT NULL.
	Nullable bool `json:"nullable,omitempty" msgpack:"nullable"`
	// MaxLength is the declared length or precision. Zero means none was
	// declared and MaxLengthUnbounded means `max`.
	MaxLength int `json:"max_length,omitempty" msgpack:"max_length"`
	// Identity marks an identity-generated column.
	Identity bool `json:"identity,omitempty" msgpack:"identity"`
	// PrimaryKey marks the column as the table primary key.
	PrimaryKey bool `json:"primary_key,omitempty" msgpack:"primary_key"`
	// References is the table named by an explicit foreign-key clause,
	// without schema qualification.
	References string `json:"references,omitempty" msgpack:"references"`
}

// HasMaxLength reports whether the column declares a bounded length.
func (c Column) HasMaxLength() bool { return c.MaxLength > 0 }

// Unbounded reports whether the column was declared with a `max` length.
func (c Column) Unbounded() bool { return c.MaxLength == MaxLengthUnbounded }

// IsType reports whether the declared type equals any of the given names,
// ignoring case.
func (c Column) IsType(names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(c.Type, n) {
			return true
		}
	}
	return false
}

// Table is the model of one table-definition statement.
type Table struct {
	Schema string `json:"schema" msgpack:"schema"`
	Name   string `json:"name" msgpack:"name"`
	// Columns are kept in declaration order. Generated constructors take
	// their parameters in this order.
	Columns []Column `json:"columns" msgpack:"columns"`
	// PrimaryKeyColumn is empty when neither an inline marker nor a
	// standalone constraint named a primary key.
	PrimaryKeyColumn string `json:"primary_key_column,omitempty" msgpack:"primary_key_column"`
}

// QualifiedName returns the two-part schema.table name.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column returns the column with the given name, ignoring case.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnIndex returns the declaration index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// HasPrimaryKey reports whether a primary key was declared.
func (t *Table) HasPrimaryKey() bool { return t.PrimaryKeyColumn != "" }

// Equal reports whether t and o are value-equal.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Schema != o.Schema || t.Name != o.Name || t.PrimaryKeyColumn != o.PrimaryKeyColumn || len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	return true
}
