package gen

import (
	"errors"
	"go/token"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the Go package of the generated entity code. Either a
// package name or an import path may be given; the last path element is
// used as the package clause.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(packageName(pkg)) {
			return NewConfigError("Package", pkg, "package name is not a valid identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory of the generated entity code.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithScriptTarget sets the output directory of the generated TypeScript.
func WithScriptTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ScriptTarget", nil, "script target directory cannot be empty")
		}
		c.ScriptTarget = dir
		return nil
	}
}

// WithExclude excludes tables from generation. Names are compared
// case-insensitively.
func WithExclude(tables ...string) Option {
	return func(c *Config) error {
		for _, t := range tables {
			if t = strings.TrimSpace(t); t != "" {
				c.Exclude = append(c.Exclude, t)
			}
		}
		return nil
	}
}

// WithPrimaryKeyFallback sets how a table without a declared primary key
// and without an {Table}ID column is bound.
func WithPrimaryKeyFallback(f PrimaryKeyFallback) Option {
	return func(c *Config) error {
		if !f.valid() {
			return NewConfigError("PrimaryKeyFallback", f, "unsupported fallback; use first_column or none")
		}
		c.PrimaryKeyFallback = f
		return nil
	}
}

// WithIDSuffix sets the column-name suffix that marks a reference.
func WithIDSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" {
			return NewConfigError("IDSuffix", nil, "suffix cannot be empty")
		}
		c.IDSuffix = suffix
		return nil
	}
}

// WithWorkers sets the number of tables rendered concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithSources sets the files and directories scanned for .sql files.
func WithSources(paths ...string) Option {
	return func(c *Config) error {
		c.Sources = append(c.Sources, paths...)
		return nil
	}
}

// WithCache sets the path of the parse cache. An empty path disables it.
func WithCache(path string) Option {
	return func(c *Config) error {
		c.Cache = path
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
