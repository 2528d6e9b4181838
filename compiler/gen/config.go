package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up in the working
// directory when none is given.
const DefaultConfigFile = "sqlcodegen.yaml"

// Defaults applied by NewConfig.
const (
	DefaultPackage  = "entities"
	DefaultIDSuffix = "ID"
	DefaultHeader   = "Code generated by sqlcodegen. DO NOT EDIT."
)

// PrimaryKeyFallback selects how a table without a declared primary key
// and without an {Table}ID column is bound.
type PrimaryKeyFallback int

const (
	// FallbackFirstColumn binds the first declared column as the key.
	FallbackFirstColumn PrimaryKeyFallback = iota
	// FallbackNone reports the table as a SchemaError and skips it.
	FallbackNone
)

var fallbackNames = [...]string{
	FallbackFirstColumn: "first_column",
	FallbackNone:        "none",
}

func (f PrimaryKeyFallback) valid() bool {
	return f >= 0 && int(f) < len(fallbackNames)
}

// String returns the configuration name of the fallback.
func (f PrimaryKeyFallback) String() string {
	if !f.valid() {
		return fmt.Sprintf("PrimaryKeyFallback(%d)", int(f))
	}
	return fallbackNames[f]
}

// ParsePrimaryKeyFallback parses a fallback name as written in configuration.
func ParsePrimaryKeyFallback(s string) (PrimaryKeyFallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first_column", "first-column", "first":
		return FallbackFirstColumn, nil
	case "none":
		return FallbackNone, nil
	default:
		return 0, NewConfigError("PrimaryKeyFallback", s, "unsupported fallback; use first_column or none")
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *PrimaryKeyFallback) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("primary_key_fallback: expected string, got %v", node.Kind)
	}
	v, err := ParsePrimaryKeyFallback(node.Value)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f PrimaryKeyFallback) MarshalYAML() (any, error) {
	return f.String(), nil
}

// Config holds the generation settings. The zero value is not usable;
// build one with NewConfig or LoadConfig.
type Config struct {
	// Package is the Go package of the generated entity code. It may be a
	// full import path; the last element is the package clause.
	Package string `yaml:"package,omitempty"`
	// Target is the entity output directory. Empty disables Go emission
	// to disk.
	Target string `yaml:"target,omitempty"`
	// ScriptTarget is the TypeScript output directory. Empty disables
	// TypeScript emission to disk.
	ScriptTarget string `yaml:"script_target,omitempty"`
	// Header is the first comment line of every generated file.
	Header string `yaml:"header,omitempty"`
	// Exclude lists table names left out of generation entirely.
	Exclude []string `yaml:"exclude,omitempty"`
	// PrimaryKeyFallback applies when a table has no key and no
	// {Table}ID column.
	PrimaryKeyFallback PrimaryKeyFallback `yaml:"primary_key_fallback,omitempty"`
	// IDSuffix marks a column as a reference to another table.
	IDSuffix string `yaml:"id_suffix,omitempty"`
	// Workers bounds the number of types rendered concurrently.
	Workers int `yaml:"workers,omitempty"`
	// Sources are the files and directories scanned for .sql files.
	Sources []string `yaml:"sources,omitempty"`
	// Cache is the path of the parse cache. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`
}

// NewConfig returns a Config with defaults applied and then opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	c.defaults()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) defaults() {
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	if c.IDSuffix == "" {
		c.IDSuffix = DefaultIDSuffix
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// LoadConfig reads a YAML configuration file from fsys and applies opts on
// top of it. Options win over file values.
func LoadConfig(fsys afero.Fs, name string, opts ...Option) (*Config, error) {
	buf, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sqlcodegen: decode %s: %w", name, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.defaults()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values that options would have rejected.
func (c *Config) Validate() error {
	if c.Package != "" {
		if err := WithPackage(c.Package)(&Config{}); err != nil {
			return err
		}
	}
	if !c.PrimaryKeyFallback.valid() {
		return NewConfigError("PrimaryKeyFallback", c.PrimaryKeyFallback, "unsupported fallback")
	}
	if c.Workers < 0 {
		return NewConfigError("Workers", c.Workers, "workers cannot be negative")
	}
	return nil
}

// PackageName returns the package clause of the generated entity code.
func (c *Config) PackageName() string {
	return packageName(c.Package)
}

// Excluded reports whether table is excluded, ignoring case.
func (c *Config) Excluded(table string) bool {
	for _, e := range c.Exclude {
		if strings.EqualFold(e, table) {
			return true
		}
	}
	return false
}

func packageName(pkg string) string {
	return path.Base(strings.TrimSuffix(pkg, "/"))
}
