package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/policy-compare/internal/export"
	"github.com/sells-group/policy-compare/internal/watch"
)

// resultInfix marks files written by the watcher so they are not picked up
// again when the output directory is the watched one.
const resultInfix = ".result."

var (
	watchDir       string
	watchOutputDir string
	watchFormat    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process illustration files as they land in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if watchDir != "" {
			cfg.Watch.Dir = watchDir
		}
		if watchOutputDir != "" {
			cfg.Watch.OutputDir = watchOutputDir
		}
		if watchFormat != "" {
			cfg.Watch.Format = watchFormat
		}

		env, err := initEngine(cfg, "watch", 0)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(cfg.Watch.Format)
		if err != nil {
			return err
		}

		handle := func(ctx context.Context, path string) {
			if err := processWatched(ctx, env, path, cfg.Watch.OutputDir, format); err != nil {
				zap.L().Error("watch: process file failed", zap.String("file", path), zap.Error(err))
			}
		}

		w, err := watch.Start(cfg.Watch.Dir, handle, watch.Options{
			Debounce: time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
			Ignore:   isResultFile,
		})
		if err != nil {
			return err
		}
		return w.Run(ctx)
	},
}

// processWatched normalizes one file (or bundle) and writes the results
// next to it, or into outputDir when set.
func processWatched(ctx context.Context, env *engineEnv, path, outputDir string, format export.Format) error {
	sources, err := resolveSources(ctx, env.Reader, []string{path})
	if err != nil {
		return err
	}
	results := env.Pipeline.ProcessAll(ctx, sources)

	out := resultPath(path, outputDir, format)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return eris.Wrap(err, "create output dir")
	}
	f, err := os.Create(out)
	if err != nil {
		return eris.Wrap(err, "create result file")
	}
	defer f.Close() //nolint:errcheck

	if err := writeResults(f, format, results); err != nil {
		return err
	}
	zap.L().Info("watch: results written",
		zap.String("file", path),
		zap.String("output", out),
		zap.Int("results", len(results)),
	)
	return nil
}

func resultPath(path, outputDir string, format export.Format) string {
	dir := filepath.Dir(path)
	if outputDir != "" {
		dir = outputDir
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+resultInfix+string(format))
}

func isResultFile(path string) bool {
	return strings.Contains(filepath.Base(path), resultInfix)
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default from config)")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "where results are written (default next to each file)")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "result format: json, yaml, csv or xlsx (default from config)")
	rootCmd.AddCommand(watchCmd)
}
