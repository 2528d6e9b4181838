// Package typescript renders the TypeScript enum modules of lookup tables.
//
// Every lookup type yields one <stem>.enum.ts module exporting the enum,
// the row list and the select options derived from it. The row and option
// interfaces live in the shared lookup-table-entry.ts module.
package typescript

import (
	"bytes"
	"embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// SharedFile is the module declaring LookupTableEntry and SelectDropdownOption.
const SharedFile = "lookup-table-entry.ts"

//go:embed template/*.tmpl
var files embed.FS

var templates = template.Must(template.New("typescript").
	Funcs(template.FuncMap{"quote": quote}).
	ParseFS(files, "template/*.tmpl"))

// Generator implements gen.ScriptGenerator.
type Generator struct {
	h gen.GeneratorHelper
}

// New creates a TypeScript generator.
func New(h gen.GeneratorHelper) *Generator {
	return &Generator{h: h}
}

type enumData struct {
	Header string
	Shared string
	Enum   string
	Plural string
	Rows   []*gen.Row
}

// GenEnum renders the enum module of a lookup type.
func (g *Generator) GenEnum(t *gen.Type) ([]byte, error) {
	return execute("enum.tmpl", enumData{
		Header: g.h.Header(),
		Shared: strings.TrimSuffix(SharedFile, ".ts"),
		Enum:   t.EnumName(),
		Plural: t.PluralName(),
		Rows:   t.Rows,
	})
}

// GenShared renders the shared interface module.
func (g *Generator) GenShared() ([]byte, error) {
	return execute("shared.tmpl", struct{ Header string }{g.h.Header()})
}

// EnumFileName returns <stem>.enum.ts, e.g. project-stage.enum.ts.
func (g *Generator) EnumFileName(t *gen.Type) string {
	return t.ScriptStem() + ".enum.ts"
}

// SharedFileName returns SharedFile.
func (g *Generator) SharedFileName() string { return SharedFile }

func execute(name string, data any) ([]byte, error) {
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// quote returns s as a double-quoted string literal.
func quote(s string) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
