package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/policy-compare/internal/export"
	"github.com/sells-group/policy-compare/internal/model"
)

var (
	processFormat      string
	processOutput      string
	processConcurrency int
)

var processCmd = &cobra.Command{
	Use:   "process <file|url>...",
	Short: "Normalize illustration files and write the results",
	Long:  "Reads each file, local path or http(s)/ftp URL, and writes the normalized policy tables. ZIP bundles are expanded. Files without a recognizable header row produce empty results.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		format, err := export.ParseFormat(processFormat)
		if err != nil {
			return err
		}

		results, err := processRefs(ctx, args, processConcurrency)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if processOutput != "" {
			f, err := os.Create(processOutput)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		return writeResults(out, format, results)
	},
}

// processRefs runs every reference through the pipeline, results in
// argument order.
func processRefs(ctx context.Context, refs []string, concurrency int) ([]model.ProcessedData, error) {
	env, err := initEngine(cfg, "process", concurrency)
	if err != nil {
		return nil, err
	}

	sources, err := resolveSources(ctx, env.Reader, refs)
	if err != nil {
		return nil, err
	}

	results := env.Pipeline.ProcessAll(ctx, sources)

	var empty int
	for _, r := range results {
		if r.IsEmpty() {
			empty++
		}
	}
	zap.L().Info("processing complete",
		zap.Int("files", len(results)),
		zap.Int("empty", empty),
	)
	return results, nil
}

func writeResults(w io.Writer, format export.Format, results []model.ProcessedData) error {
	if err := export.Write(w, format, results); err != nil {
		return eris.Wrap(err, "write results")
	}
	return nil
}

func init() {
	processCmd.Flags().StringVar(&processFormat, "format", "json", "output format: json, yaml, csv or xlsx")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file (default stdout)")
	processCmd.Flags().IntVar(&processConcurrency, "concurrency", 0, "files processed at once (default from config)")
	rootCmd.AddCommand(processCmd)
}
