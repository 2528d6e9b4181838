package gen

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unnamed replaces a symbol that sanitizes to the empty string.
const Unnamed = "Unnamed"

// SymbolName sanitizes s into an identifier: every rune that is not a
// letter, digit or underscore is dropped, and a leading digit gets an
// underscore prefix. An empty result becomes Unnamed.
func SymbolName(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if b.Len() == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return Unnamed
	}
	return b.String()
}

// FileStem lower-cases s and inserts sep before every upper-case rune
// except the first. Runs of capitals are not treated as one word:
//
//	FileStem("TreatmentBMPType", "-") == "treatment-b-m-p-type"
func FileStem(s, sep string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteString(sep)
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Plural returns the collection name of s.
func Plural(s string) string {
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return s
	case strings.HasSuffix(lower, "y"):
		if len(lower) > 1 && strings.ContainsRune("aeou", rune(lower[len(lower)-2])) {
			return s + "s"
		}
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

var titleCaser = cases.Title(language.English)

// Describe returns the human readable form of an identifier, used in
// generated doc comments: "ProjectStage" becomes "Project Stage".
func Describe(name string) string {
	return titleCaser.String(inflect.Humanize(inflect.Underscore(name)))
}

// exported returns the exported identifier for a column or table name.
func exported(name string) string {
	s := SymbolName(name)
	r := []rune(s)
	switch {
	case unicode.IsUpper(r[0]):
		return s
	case unicode.IsLetter(r[0]):
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	default:
		return "X" + s
	}
}

// unexported lower-cases the first rune of an exported identifier.
func unexported(name string) string {
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// paramName returns an unexported parameter name for an exported
// identifier. The leading run of capitals is lowered as one unit, keeping
// the last one when it starts the next word: "ProjectID" becomes
// "projectID" and "BMPType" becomes "bmpType". Go keywords and predeclared
// identifiers get an underscore prefix.
func paramName(name string) string {
	r := []rune(name)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	if n == 0 && len(r) > 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	s := string(r)
	if token.Lookup(s).IsKeyword() || types.Universe.Lookup(s) != nil {
		return "_" + s
	}
	if _, ok := shadowed[s]; ok {
		return "_" + s
	}
	return s
}

// shadowed holds package names and helpers referenced by generated code.
var shadowed = map[string]struct{}{
	"ptr":  {},
	"time": {},
	"uuid": {},
}
