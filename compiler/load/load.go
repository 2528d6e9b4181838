package load

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/esassoc/SqlCodeGen/internal/logger"
	"github.com/esassoc/SqlCodeGen/schema"
)

// Option configures Load.
type Option func(*options)

type options struct {
	workers int
	cache   *Cache
	log     *logger.Logger
}

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCache reuses and records parse results in c.
func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithLogger reports skipped files to l.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Result holds every model parsed by Load. Files are ordered by path and
// Tables and Seeds follow that order.
type Result struct {
	Files       []File
	Tables      []*schema.Table
	Seeds       []*schema.LookupTableData
	Diagnostics []error
}

// Load parses every .sql file found under paths on fsys. Directories are
// walked recursively.
//
// A file that cannot be read or parsed contributes a diagnostic and is
// otherwise skipped. The returned error is only set when paths cannot be
// walked or ctx is done; cancellation is checked between files.
func Load(ctx context.Context, fsys afero.Fs, paths []string, opts ...Option) (*Result, error) {
	o := &options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(o)
	}
	o.log = logger.OrNop(o.log)

	files, err := discover(fsys, paths)
	if err != nil {
		return nil, err
	}

	parsed := make([]File, len(files))
	keys := make([]string, len(files))
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(o.workers)
	for i, path := range files {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i], keys[i] = parseFile(fsys, path, o.cache)
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	if o.cache != nil {
		keep := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			keep[k] = struct{}{}
		}
		o.cache.Prune(keep)
	}

	res := &Result{Files: parsed}
	seen := make(map[string]string)
	for _, f := range parsed {
		if f.Err != nil {
			o.log.With().Str("path", f.Path).Err(f.Err).Logger().Warn("skipping file")
			res.Diagnostics = append(res.Diagnostics, f.Err)
			continue
		}
		if f.Table != nil {
			key := strings.ToLower(f.Table.Name)
			if prev, ok := seen[key]; ok {
				err := &ParseError{Path: f.Path, Kind: ErrMalformedInput, Message: fmt.Sprintf("table %s is already defined in %s", f.Table.QualifiedName(), prev)}
				o.log.With().Str("path", f.Path).Err(err).Logger().Warn("skipping duplicate table")
				res.Diagnostics = append(res.Diagnostics, err)
			} else {
				seen[key] = f.Path
				res.Tables = append(res.Tables, f.Table)
			}
		}
		if f.Seed != nil {
			res.Seeds = append(res.Seeds, f.Seed)
		}
		o.log.With().Str("path", f.Path).Logger().Debug("parsed file")
	}
	return res, nil
}

// parseFile reads and parses one file. It also returns the content key
// of the file, empty when it could not be read.
func parseFile(fsys afero.Fs, path string, cache *Cache) (File, string) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return File{Path: path, Err: &ParseError{Path: path, Kind: ErrMalformedInput, Message: "read failed", Cause: err}}, ""
	}
	if cache == nil {
		return Parse(path, string(data)), ""
	}
	key := Key(data)
	if f, ok := cache.Get(data); ok {
		f.Path = path
		return f, key
	}
	f := Parse(path, string(data))
	cache.Put(data, f)
	return f, key
}

// discover expands paths into a sorted, duplicate-free list of .sql files.
func discover(fsys afero.Fs, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = afero.Walk(fsys, p, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
