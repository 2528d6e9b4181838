package command

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

// DefaultDebounce is the quiet period after the last change before
// regenerating.
const DefaultDebounce = 300 * time.Millisecond

func newWatchCommand(c *Command) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [sources...]",
		Short: "Regenerate whenever a .sql source changes",
		Long: `Generate once, then watch the source directories and regenerate after
every burst of .sql file changes. New subdirectories are watched as they
appear. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			out := cmd.OutOrStdout()
			return c.Watch(ctx, cfg, debounce, func(r *Report) {
				fmt.Fprintln(out, r)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Quiet period before regenerating")
	return cmd
}

// Watch runs a generation, then reruns it after changes to the .sql files
// under the sources of cfg until ctx is done. Every completed run is
// passed to report. Failed runs are logged and do not stop watching.
func (c *Command) Watch(ctx context.Context, cfg *gen.Config, debounce time.Duration, report func(*Report)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(c.fs, cfg.Sources)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	c.log.With().Int("dirs", len(dirs)).Logger().Info("watching sources")

	run := func() {
		r, err := c.Run(ctx, cfg)
		if err != nil {
			if ctx.Err() == nil {
				c.log.With().Err(err).Logger().Error("generation failed")
			}
			return
		}
		report(r)
	}
	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				c.watchNewDir(w, ev.Name)
			}
			if !relevant(ev) {
				continue
			}
			c.log.With().Str("path", ev.Name).Str("op", ev.Op.String()).Logger().Debug("source changed")
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.With().Err(err).Logger().Warn("watcher error")
		case <-timer.C:
			run()
		}
	}
}

// watchNewDir adds a directory created under a watched one.
func (c *Command) watchNewDir(w *fsnotify.Watcher, name string) {
	if info, err := c.fs.Stat(name); err != nil || !info.IsDir() {
		return
	}
	dirs, err := watchDirs(c.fs, []string{name})
	if err != nil {
		return
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			c.log.With().Str("path", d).Err(err).Logger().Warn("cannot watch directory")
		}
	}
}

// relevant reports whether ev changes the content of a .sql file.
func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".sql") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// watchDirs returns the sorted directories to watch for sources: every
// directory below a directory source and the parent of a file source.
func watchDirs(fsys afero.Fs, sources []string) ([]string, error) {
	var dirs []string
	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", src, err)
		}
		if !info.IsDir() {
			dirs = append(dirs, filepath.Dir(src))
			continue
		}
		err = afero.Walk(fsys, src, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", src, err)
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}
