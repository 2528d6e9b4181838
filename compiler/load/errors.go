package load

import (
	"errors"
	"strings"
)

// ErrMalformedInput is matched by every *ParseError.
var ErrMalformedInput = errors.New("sqlcodegen: malformed input")

// Sentinel errors describing why a statement could not be parsed.
var (
	// ErrNoTable indicates that no CREATE TABLE header was found.
	ErrNoTable = errors.New("no table found")
	// ErrUnbalanced indicates that parentheses never balance.
	ErrUnbalanced = errors.New("unbalanced parentheses")
	// ErrEmptyTable indicates a table definition without columns.
	ErrEmptyTable = errors.New("empty table")
	// ErrNoSeed indicates that no MERGE target header was found.
	ErrNoSeed = errors.New("no seed target found")
	// ErrNoColumnList indicates a seed statement without a source column list.
	ErrNoColumnList = errors.New("no source column list found")
	// ErrNoValues indicates a seed statement without a VALUES clause.
	ErrNoValues = errors.New("no VALUES clause found")
	// ErrClauseOrder indicates a source column list declared before the rows.
	ErrClauseOrder = errors.New("source column list precedes VALUES")
	// ErrNoRows indicates a seed statement whose VALUES clause has no rows.
	ErrNoRows = errors.New("no rows")
	// ErrUnknownStatement indicates a file holding neither statement kind.
	ErrUnknownStatement = errors.New("no table or seed statement found")
)

// ParseError is returned for a single file or statement that could not be
// parsed. Kind is one of the sentinel errors above.
type ParseError struct {
	Path    string
	Kind    error
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("sqlcodegen: parse error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the kind and the underlying cause.
func (e *ParseError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Is reports whether the target is ErrMalformedInput.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

func newParseError(kind error, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message}
}

// IsParseError reports whether err is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
