package schema

import (
	"strconv"
	"strings"
)

// NullLiteral is the bare token a seed row uses for SQL NULL.
const NullLiteral = "NULL"

// LookupRow is one literal row of a seed statement. Values are positionally
// aligned with LookupTableData.ColumnNames.
type LookupRow struct {
	Values []string `json:"values" msgpack:"values"`
}

// Len returns the number of values in the row.
func (r LookupRow) Len() int { return len(r.Values) }

// Value returns the raw value at i.
func (r LookupRow) Value(i int) (string, bool) {
	if i < 0 || i >= len(r.Values) {
		return "", false
	}
	return r.Values[i], true
}

// IsNull reports whether the value at i is the SQL NULL marker. Out of range
// positions are reported as NULL.
//
// Values carry no quoting, so the string literal 'NULL' is
// indistinguishable from NULL and is also reported as NULL.
func (r LookupRow) IsNull(i int) bool {
	v, ok := r.Value(i)
	return !ok || strings.EqualFold(strings.TrimSpace(v), NullLiteral)
}

// Int parses the value at i as an integer. It reports false for NULL,
// out of range positions and values that are not integers.
func (r LookupRow) Int(i int) (int, bool) {
	if r.IsNull(i) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.Values[i]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// LookupTableData is the model of one bulk-seed statement.
type LookupTableData struct {
	Schema      string      `json:"schema" msgpack:"schema"`
	TableName   string      `json:"table_name" msgpack:"table_name"`
	ColumnNames []string    `json:"column_names" msgpack:"column_names"`
	Rows        []LookupRow `json:"rows" msgpack:"rows"`
}

// ColumnIndex returns the position of the named column, ignoring case, or -1.
func (d *LookupTableData) ColumnIndex(name string) int {
	for i, n := range d.ColumnNames {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// MisalignedRows returns the indexes of rows whose value count differs from
// the number of columns.
func (d *LookupTableData) MisalignedRows() []int {
	var bad []int
	for i, r := range d.Rows {
		if len(r.Values) != len(d.ColumnNames) {
			bad = append(bad, i)
		}
	}
	return bad
}
