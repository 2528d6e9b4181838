package load

import (
	"regexp"
	"strings"

	"github.com/esassoc/SqlCodeGen/schema"
)

var (
	mergeRE       = regexp.MustCompile(`(?i)\bMERGE\s+(?:TOP\s*\(\s*\d+\s*\)\s*(?:PERCENT\s+)?)?(?:INTO\s+)?` + ident + `\s*\.\s*` + ident)
	usingValuesRE = regexp.MustCompile(`(?i)\bUSING\s*\(\s*VALUES\b`)
	valuesRE      = regexp.MustCompile(`(?i)\bVALUES\b`)
	// The source alias and its column list, e.g. `) AS Source (A, B)`.
	columnListRE = regexp.MustCompile(`(?i)\)\s*(?:AS\s+)?` + ident + `\s*\(([^()]*)\)`)
)

// aliasKeywords can follow the rows but are never a source alias.
var aliasKeywords = names("AS", "ON", "WHEN", "THEN", "VALUES", "USING", "OUTPUT", "WHERE", "SELECT")

// ParseSeed parses one bulk-seed statement.
//
// Rows are returned in declaration order. A row whose value count differs
// from the column list is kept; consumers decide how to treat it. Failures
// are reported as *ParseError with Kind ErrNoSeed, ErrNoColumnList,
// ErrNoValues, ErrClauseOrder or ErrNoRows.
func ParseSeed(text string) (*schema.LookupTableData, error) {
	text = stripComments(text)
	header := firstOutside(text, mergeRE.FindAllStringSubmatchIndex(text, -1))
	if header == nil {
		return nil, newParseError(ErrNoSeed, "missing MERGE schema.table header")
	}
	d := &schema.LookupTableData{
		Schema:    unquoteIdent(text[header[2]:header[3]]),
		TableName: unquoteIdent(text[header[4]:header[5]]),
	}
	qualified := d.Schema + "." + d.TableName

	body := text[header[1]:]
	list := sourceColumnList(body)
	if list == nil {
		return nil, newParseError(ErrNoColumnList, "seed "+qualified)
	}
	for _, c := range strings.Split(body[list[4]:list[5]], ",") {
		if c = unquoteIdent(c); c != "" {
			d.ColumnNames = append(d.ColumnNames, c)
		}
	}
	if len(d.ColumnNames) == 0 {
		return nil, newParseError(ErrNoColumnList, "seed "+qualified+" declares no columns")
	}

	values := firstOutside(body, usingValuesRE.FindAllStringIndex(body, -1))
	if values == nil {
		values = firstOutside(body, valuesRE.FindAllStringIndex(body, -1))
	}
	if values == nil {
		return nil, newParseError(ErrNoValues, "seed "+qualified)
	}
	if list[0] < values[1] {
		return nil, newParseError(ErrClauseOrder, "seed "+qualified)
	}

	d.Rows = scanRows(body[values[1]:list[0]])
	if len(d.Rows) == 0 {
		return nil, newParseError(ErrNoRows, "seed "+qualified)
	}
	return d, nil
}

// sourceColumnList returns the submatch indexes of the first column list
// clause outside literals whose alias is not a keyword.
func sourceColumnList(body string) []int {
	mask := quoted(body)
	for _, m := range columnListRE.FindAllStringSubmatchIndex(body, -1) {
		if mask[m[0]] {
			continue
		}
		alias := body[m[2]:m[3]]
		if _, ok := aliasKeywords[strings.ToUpper(alias)]; ok && !isDecorated(alias) {
			continue
		}
		return m
	}
	return nil
}

// scanRows extracts every top-level parenthesized group of region as one
// row. Literal content is never scanned for parentheses. Unmatched closing
// parentheses are ignored and an unterminated trailing group is dropped.
func scanRows(region string) []schema.LookupRow {
	var (
		rows    []schema.LookupRow
		depth   int
		start   int
		inQuote bool
	)
	for i := 0; i < len(region); i++ {
		ch := region[i]
		if inQuote {
			if ch == '\'' {
				if i+1 < len(region) && region[i+1] == '\'' {
					i++
					continue
				}
				inQuote = false
			}
			continue
		}
		switch ch {
		case '\'':
			inQuote = true
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if vals := SplitValues(region[start:i]); len(vals) > 0 {
					rows = append(rows, schema.LookupRow{Values: vals})
				}
			}
		}
	}
	return rows
}
