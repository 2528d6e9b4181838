package load

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/esassoc/SqlCodeGen/schema"
)

// ident matches a bare, bracketed or double-quoted identifier.
const ident = `(\[[^\]]+\]|"[^"]+"|[\w@#$]+)`

var (
	createTableRE = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+` + ident + `\s*\.\s*` + ident + `\s*\(`)
	columnRE      = regexp.MustCompile(`(?is)^` + ident + `\s+` + ident + `(?:\s*\(\s*(max|\d+)\s*(?:,\s*\d+\s*)?\))?(.*)$`)
	notNullRE     = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	identityRE    = regexp.MustCompile(`(?i)\bIDENTITY\b`)
	primaryKeyRE  = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
	referencesRE  = regexp.MustCompile(`(?i)\bREFERENCES\s+(?:` + ident + `\s*\.\s*)?` + ident)
	// A standalone primary key naming exactly one column.
	pkConstraintRE = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY(?:\s+(?:NON)?CLUSTERED)?\s*\(\s*` + ident + `(?:\s+(?:ASC|DESC))?\s*\)`)
	// A standalone foreign key naming exactly one column.
	fkConstraintRE = regexp.MustCompile(`(?i)\bFOREIGN\s+KEY\s*\(\s*` + ident + `\s*\)\s*REFERENCES\s+(?:` + ident + `\s*\.\s*)?` + ident)
)

// reserved holds keywords that must never be read as a column name or type.
// A bracketed identifier is never treated as a keyword.
var reserved = names(
	"ADD", "AS", "ASC", "CHECK", "CLUSTERED", "CONSTRAINT", "DEFAULT", "DESC",
	"FOREIGN", "INDEX", "KEY", "NONCLUSTERED", "ON", "PERIOD", "PRIMARY",
	"REFERENCES", "TEXTIMAGE_ON", "UNIQUE", "WITH",
)

// constraintPrefixes open a table-level constraint rather than a column.
var constraintPrefixes = []string{
	"CONSTRAINT ", "PRIMARY KEY", "FOREIGN KEY", "UNIQUE ", "UNIQUE(", "CHECK ", "CHECK(", "INDEX ", "PERIOD FOR",
}

// ParseTable parses one table-definition statement.
//
// The returned table lists its columns in declaration order. Failures are
// reported as *ParseError with Kind ErrNoTable, ErrUnbalanced or
// ErrEmptyTable.
func ParseTable(text string) (*schema.Table, error) {
	text = stripComments(text)
	header := firstOutside(text, createTableRE.FindAllStringSubmatchIndex(text, -1))
	if header == nil {
		return nil, newParseError(ErrNoTable, "missing CREATE TABLE schema.table header")
	}
	t := &schema.Table{
		Schema: unquoteIdent(text[header[2]:header[3]]),
		Name:   unquoteIdent(text[header[4]:header[5]]),
	}
	start := header[1]
	end, ok := closingParen(text, start)
	if !ok {
		return nil, newParseError(ErrUnbalanced, "table "+t.QualifiedName())
	}

	var (
		pk   string
		refs = make(map[string]string)
	)
	for _, def := range splitTopLevel(text[start:end]) {
		def = strings.Join(strings.Fields(def), " ")
		if def == "" {
			continue
		}
		if isConstraint(def) {
			masked := blankLiterals(def)
			if m := pkConstraintRE.FindStringSubmatch(masked); m != nil && pk == "" {
				pk = unquoteIdent(m[1])
			}
			if m := fkConstraintRE.FindStringSubmatch(masked); m != nil {
				refs[strings.ToLower(unquoteIdent(m[1]))] = unquoteIdent(m[3])
			}
			continue
		}
		c, ok := parseColumn(def)
		if !ok {
			continue
		}
		if c.PrimaryKey && pk == "" {
			pk = c.Name
		}
		t.Columns = append(t.Columns, c)
	}
	if len(t.Columns) == 0 {
		return nil, newParseError(ErrEmptyTable, "table "+t.QualifiedName())
	}
	// Constraints declared outside the column block, for example by a
	// trailing ALTER TABLE, are only visible in the whole statement.
	if pk == "" {
		if m := pkConstraintRE.FindStringSubmatch(blankLiterals(text)); m != nil {
			pk = unquoteIdent(m[1])
		}
	}
	for i := range t.Columns {
		c := &t.Columns[i]
		if ref, ok := refs[strings.ToLower(c.Name)]; ok && c.References == "" {
			c.References = ref
		}
		if pk != "" && strings.EqualFold(c.Name, pk) {
			c.PrimaryKey = true
			pk = c.Name
		}
	}
	t.PrimaryKeyColumn = pk
	return t, nil
}

func isConstraint(def string) bool {
	upper := strings.ToUpper(def)
	for _, p := range constraintPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// parseColumn parses a single column definition. It reports false for text
// that only looks like a column, such as the inner lines of a constraint.
func parseColumn(def string) (schema.Column, bool) {
	m := columnRE.FindStringSubmatch(def)
	if m == nil {
		return schema.Column{}, false
	}
	rawName, rawType := m[1], m[2]
	if isReserved(rawName) || isReserved(rawType) {
		return schema.Column{}, false
	}
	c := schema.Column{
		Name: unquoteIdent(rawName),
		Type: unquoteIdent(rawType),
	}
	switch length := m[3]; {
	case strings.EqualFold(length, "max"):
		c.MaxLength = schema.MaxLengthUnbounded
	case length != "":
		c.MaxLength, _ = strconv.Atoi(length)
	}
	rest := blankLiterals(m[4])
	c.Nullable = !notNullRE.MatchString(rest)
	c.Identity = identityRE.MatchString(rest)
	c.PrimaryKey = primaryKeyRE.MatchString(rest)
	if r := referencesRE.FindStringSubmatch(rest); r != nil {
		c.References = unquoteIdent(r[2])
	}
	return c, true
}

func isReserved(raw string) bool {
	if isDecorated(raw) {
		return false
	}
	_, ok := reserved[strings.ToUpper(raw)]
	return ok
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
