package load

import (
	"fmt"

	"github.com/esassoc/SqlCodeGen/schema"
)

// Kind is a bit set of the statement kinds found in a file.
type Kind uint

const (
	// KindTable marks a table-definition statement.
	KindTable Kind = 1 << iota
	// KindSeed marks a bulk-seed statement.
	KindSeed
)

// Has reports whether k includes kind.
func (k Kind) Has(kind Kind) bool { return k&kind != 0 }

// Classify reports which statement kinds text contains.
func Classify(text string) Kind {
	text = stripComments(text)
	var k Kind
	if firstOutside(text, createTableRE.FindAllStringIndex(text, -1)) != nil {
		k |= KindTable
	}
	if firstOutside(text, mergeRE.FindAllStringIndex(text, -1)) != nil {
		k |= KindSeed
	}
	return k
}

// File is the parse result of one source file. Err is nil when every
// statement the file holds was parsed.
type File struct {
	Path  string
	Table *schema.Table
	Seed  *schema.LookupTableData
	Err   error
}

// Parse classifies text and runs the matching parsers. It never panics; a
// panic inside a parser is returned as a *ParseError.
func Parse(path string, text string) (f File) {
	f.Path = path
	defer func() {
		if r := recover(); r != nil {
			f.Table, f.Seed = nil, nil
			f.Err = &ParseError{Path: path, Kind: ErrMalformedInput, Message: fmt.Sprintf("parser panic: %v", r)}
		}
	}()
	kind := Classify(text)
	if kind == 0 {
		f.Err = &ParseError{Path: path, Kind: ErrUnknownStatement}
		return f
	}
	if kind.Has(KindTable) {
		t, err := ParseTable(text)
		if err != nil {
			f.Err = withPath(err, path)
			return f
		}
		f.Table = t
	}
	if kind.Has(KindSeed) {
		d, err := ParseSeed(text)
		if err != nil {
			f.Table = nil
			f.Err = withPath(err, path)
			return f
		}
		f.Seed = d
	}
	return f
}

func withPath(err error, path string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Path = path
		return pe
	}
	return &ParseError{Path: path, Kind: ErrMalformedInput, Cause: err}
}
