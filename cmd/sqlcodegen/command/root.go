// Package command implements the sqlcodegen command line.
package command

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
	"github.com/esassoc/SqlCodeGen/internal/logger"
)

// EnvPrefix prefixes the environment variables read by every flag, e.g.
// SQLCODEGEN_SCRIPT_TARGET for --script-target.
const EnvPrefix = "SQLCODEGEN"

// Flag names, shared with the viper keys.
const (
	flagConfig       = "config"
	flagPackage      = "package"
	flagTarget       = "target"
	flagScriptTarget = "script-target"
	flagExclude      = "exclude"
	flagHeader       = "header"
	flagFallback     = "primary-key-fallback"
	flagIDSuffix     = "id-suffix"
	flagWorkers      = "workers"
	flagCache        = "cache"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
)

// Command holds the state shared by the sqlcodegen subcommands.
type Command struct {
	v   *viper.Viper
	fs  afero.Fs
	log *logger.Logger
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand() (*cobra.Command, *Command) {
	c := &Command{
		v:   viper.New(),
		fs:  afero.NewOsFs(),
		log: logger.Nop(),
	}

	root := &cobra.Command{
		Use:   "sqlcodegen",
		Short: "Generate entity bindings from SQL schema files",
		Long: `sqlcodegen parses CREATE TABLE and MERGE seed statements and generates
Go entity bindings plus TypeScript enums for lookup tables. No database
connection is made.

Settings come from sqlcodegen.yaml, then SQLCODEGEN_* environment
variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.log = logger.New(&logger.Config{
				Level:  c.v.GetString(flagLogLevel),
				Format: c.v.GetString(flagLogFormat),
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringP(flagConfig, "c", gen.DefaultConfigFile, "Path to the YAML config file")
	flags.StringP(flagPackage, "p", "", "Go package of the generated entities (default \""+gen.DefaultPackage+"\")")
	flags.StringP(flagTarget, "o", "", "Output directory of the Go entity files")
	flags.String(flagScriptTarget, "", "Output directory of the TypeScript enum files")
	flags.StringSlice(flagExclude, nil, "Tables excluded from generation, ignoring case")
	flags.String(flagHeader, "", "Header line of generated files")
	flags.String(flagFallback, "", "Primary key of tables without one: first_column or none")
	flags.String(flagIDSuffix, "", "Suffix of key and reference columns (default \""+gen.DefaultIDSuffix+"\")")
	flags.Int(flagWorkers, 0, "Number of files parsed and rendered concurrently (0 = GOMAXPROCS)")
	flags.String(flagCache, "", "Path of the parse cache file")
	flags.String(flagLogLevel, "info", "Log level: debug, info, warn or error")
	flags.String(flagLogFormat, "console", "Log format: console or json")
	bindFlags(c.v, flags)

	root.AddCommand(newGenerateCommand(c))
	root.AddCommand(newWatchCommand(c))
	return root, c
}

// bindFlags makes every flag readable through v, with its environment
// variable taking precedence over the flag default.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(flags)
}

// config loads the config file and applies the environment and flag
// overrides on top of it. A missing config file is only an error when its
// path was set explicitly. Positional arguments replace the sources.
func (c *Command) config(args []string) (*gen.Config, error) {
	path := c.v.GetString(flagConfig)
	cfg, err := gen.LoadConfig(c.fs, path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !c.v.IsSet(flagConfig):
		c.log.With().Str("path", path).Logger().Debug("no config file")
		if cfg, err = gen.NewConfig(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	opts := c.overrides()
	if len(args) > 0 {
		cfg.Sources = nil
		opts = append(opts, gen.WithSources(args...))
	}
	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if len(cfg.Sources) == 0 {
		return nil, gen.NewConfigError("Sources", nil, "no sources: pass .sql files or directories, or set sources in "+path)
	}
	return cfg, nil
}

// overrides returns the options of every flag or environment variable
// that was set.
func (c *Command) overrides() []gen.Option {
	var opts []gen.Option
	set := func(key string, opt func() gen.Option) {
		if c.v.IsSet(key) {
			opts = append(opts, opt())
		}
	}
	set(flagPackage, func() gen.Option { return gen.WithPackage(c.v.GetString(flagPackage)) })
	set(flagTarget, func() gen.Option { return gen.WithTarget(c.v.GetString(flagTarget)) })
	set(flagScriptTarget, func() gen.Option { return gen.WithScriptTarget(c.v.GetString(flagScriptTarget)) })
	set(flagExclude, func() gen.Option { return gen.WithExclude(c.v.GetStringSlice(flagExclude)...) })
	set(flagHeader, func() gen.Option { return gen.WithHeader(c.v.GetString(flagHeader)) })
	set(flagIDSuffix, func() gen.Option { return gen.WithIDSuffix(c.v.GetString(flagIDSuffix)) })
	set(flagWorkers, func() gen.Option { return gen.WithWorkers(c.v.GetInt(flagWorkers)) })
	set(flagCache, func() gen.Option { return gen.WithCache(c.v.GetString(flagCache)) })
	set(flagFallback, func() gen.Option {
		return func(cfg *gen.Config) error {
			f, err := gen.ParsePrimaryKeyFallback(c.v.GetString(flagFallback))
			if err != nil {
				return err
			}
			return gen.WithPrimaryKeyFallback(f)(cfg)
		}
	})
	return opts
}
