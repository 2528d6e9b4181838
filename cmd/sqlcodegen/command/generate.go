package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
	"github.com/esassoc/SqlCodeGen/compiler/gen/golang"
	"github.com/esassoc/SqlCodeGen/compiler/gen/typescript"
	"github.com/esassoc/SqlCodeGen/compiler/load"
)

func newGenerateCommand(c *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [sources...]",
		Short: "Generate entity bindings once",
		Long: `Parse every .sql file under the sources and write the generated files.

Files whose content did not change are left untouched. Unparseable files
and unresolvable tables are reported as warnings; the command only fails
when a file cannot be written.

Examples:
  # Use sqlcodegen.yaml in the current directory
  sqlcodegen generate

  # Explicit sources and targets
  sqlcodegen generate ./Database --target ./entities --script-target ./web/src/generated`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(args)
			if err != nil {
				return err
			}
			report, err := c.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return report.Err()
		},
	}
}

// Report summarizes one generation run.
type Report struct {
	Files       int
	Tables      int
	Lookups     int
	Written     int
	Unchanged   int
	Failed      int
	Diagnostics []error
}

// String implements fmt.Stringer.
func (r *Report) String() string {
	return fmt.Sprintf("%d files parsed, %d tables (%d lookup): %d written, %d unchanged, %d failed, %d warnings",
		r.Files, r.Tables, r.Lookups, r.Written, r.Unchanged, r.Failed, len(r.Diagnostics))
}

// Err reports the write failures of the run.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d generated files could not be written", r.Failed)
}

// Run loads the sources of cfg, generates every target that has an output
// directory and writes the files that changed. Per-file problems are
// collected in the report; the error is only set when the run could not
// complete.
func (c *Command) Run(ctx context.Context, cfg *gen.Config) (*Report, error) {
	var cache *load.Cache
	if cfg.Cache != "" {
		var err error
		if cache, err = load.OpenCache(c.fs, cfg.Cache); err != nil {
			c.log.With().Str("path", cfg.Cache).Err(err).Logger().Warn("ignoring parse cache")
			cache = nil
		}
	}

	res, err := load.Load(ctx, c.fs, cfg.Sources,
		load.WithWorkers(cfg.Workers),
		load.WithCache(cache),
		load.WithLogger(c.log),
	)
	if err != nil {
		return nil, err
	}
	report := &Report{Files: len(res.Files), Diagnostics: res.Diagnostics}

	graph, err := gen.NewGraph(cfg, res.Tables, res.Seeds)
	if err != nil {
		return nil, err
	}
	report.Tables = len(graph.Types)
	report.Lookups = len(graph.Lookups())
	report.Diagnostics = append(report.Diagnostics, graph.Diagnostics...)

	g := gen.NewGenerator(graph).WithLogger(c.log)
	if cfg.Target != "" {
		g.WithEntity(golang.New(g))
	}
	if cfg.ScriptTarget != "" {
		g.WithScript(typescript.New(g))
	}
	out, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	report.Diagnostics = append(report.Diagnostics, out.Diagnostics...)

	results := gen.NewWriter(c.fs).WithLogger(c.log).Write(out.Files)
	report.Written = gen.Count(results, gen.Written)
	report.Unchanged = gen.Count(results, gen.Unchanged)
	report.Failed = gen.Count(results, gen.Failed)
	report.Diagnostics = append(report.Diagnostics, gen.Failures(results)...)

	if cache != nil {
		if err := cache.Save(); err != nil {
			c.log.With().Str("path", cfg.Cache).Err(err).Logger().Warn("parse cache not saved")
		}
	}
	for _, d := range graph.Diagnostics {
		c.log.With().Err(d).Logger().Warn("schema diagnostic")
	}
	c.log.With().
		Int("written", report.Written).
		Int("unchanged", report.Unchanged).
		Int("failed", report.Failed).
		Logger().Info("generation finished")
	return report, nil
}
