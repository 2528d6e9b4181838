package gen

import (
	"bytes"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/esassoc/SqlCodeGen/internal/logger"
)

// WriteStatus is the outcome of writing one file.
type WriteStatus int

const (
	// Unchanged means the file on disk already held the content.
	Unchanged WriteStatus = iota
	// Written means the file was created or replaced.
	Written
	// Failed means the file could not be persisted.
	Failed
)

func (s WriteStatus) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Written:
		return "written"
	default:
		return "failed"
	}
}

// WriteResult reports the outcome for one file.
type WriteResult struct {
	Path   string
	Status WriteStatus
	// Err is a *WriteError when Status is Failed.
	Err error
}

// Writer persists generated files, rewriting only those whose content
// differs from what is on disk so unchanged files keep their timestamps.
type Writer struct {
	fs  afero.Fs
	log *logger.Logger
}

// NewWriter returns a writer on fsys.
func NewWriter(fsys afero.Fs) *Writer {
	return &Writer{fs: fsys, log: logger.Nop()}
}

// WithLogger sets the logger reporting each write.
func (w *Writer) WithLogger(l *logger.Logger) *Writer {
	w.log = logger.OrNop(l)
	return w
}

// Write persists every file with an output directory, in order. A failed
// file never stops the others; its result carries the error.
func (w *Writer) Write(files []*File) []WriteResult {
	results := make([]WriteResult, 0, len(files))
	for _, f := range files {
		if f.Dir == "" {
			continue
		}
		results = append(results, w.WriteFile(f))
	}
	return results
}

// WriteFile persists f when its content changed.
func (w *Writer) WriteFile(f *File) WriteResult {
	name := filepath.Join(filepath.FromSlash(f.Dir), f.Name)
	res := WriteResult{Path: name}
	if current, err := afero.ReadFile(w.fs, name); err == nil && bytes.Equal(current, f.Content) {
		res.Status = Unchanged
		return res
	}
	if err := w.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return w.failed(res, err)
	}
	if err := afero.WriteFile(w.fs, name, f.Content, 0o644); err != nil {
		return w.failed(res, err)
	}
	res.Status = Written
	w.log.With().Str("path", name).Logger().Debug("wrote file")
	return res
}

func (w *Writer) failed(res WriteResult, err error) WriteResult {
	res.Status = Failed
	res.Err = &WriteError{Path: res.Path, Cause: err}
	w.log.With().Str("path", res.Path).Err(err).Logger().Warn("write failed")
	return res
}

// Failures returns the errors of failed results.
func Failures(results []WriteResult) []error {
	var errs []error
	for _, r := range results {
		if r.Status == Failed {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Count returns the number of results with status s.
func Count(results []WriteResult, s WriteStatus) int {
	n := 0
	for _, r := range results {
		if r.Status == s {
			n++
		}
	}
	return n
}
