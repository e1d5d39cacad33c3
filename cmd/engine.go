package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policy-compare/internal/config"
	"github.com/sells-group/policy-compare/internal/fetcher"
	"github.com/sells-group/policy-compare/internal/monitoring"
	"github.com/sells-group/policy-compare/internal/pipeline"
	"github.com/sells-group/policy-compare/internal/registry"
	"github.com/sells-group/policy-compare/internal/workbook"
)

// engineEnv holds what the process/summary/serve/watch commands share.
type engineEnv struct {
	Reader   *fetcher.Reader
	Pipeline *pipeline.Pipeline
	Metrics  *monitoring.Metrics
}

// initEngine validates cfg for mode and builds the reader and pipeline.
// A positive concurrency overrides batch.concurrency.
func initEngine(c *config.Config, mode string, concurrency int) (*engineEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	parser, err := workbook.NewParser(c.Workbook.Codec)
	if err != nil {
		return nil, eris.Wrap(err, "init parser")
	}

	reg, err := registry.Load(c.Registry.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load registry")
	}

	if concurrency <= 0 {
		concurrency = c.Batch.Concurrency
	}

	metrics := monitoring.NewMetrics()
	p := pipeline.New(parser, reg,
		pipeline.WithRecorder(metrics),
		pipeline.WithConcurrency(concurrency),
	)

	timeout := time.Duration(c.Fetch.TimeoutSecs) * time.Second
	reader := fetcher.NewReader(fetcher.Options{
		HTTP: fetcher.HTTPOptions{
			UserAgent:         c.Fetch.UserAgent,
			Timeout:           timeout,
			MaxRetries:        c.Fetch.MaxRetries,
			RequestsPerSecond: c.Fetch.RequestsPerSecond,
		},
		FTP:      fetcher.FTPOptions{Timeout: timeout},
		MaxBytes: c.Fetch.MaxBytes,
	})

	zap.L().Debug("engine initialized",
		zap.String("codec", c.Workbook.Codec),
		zap.Int("concurrency", concurrency),
		zap.String("registry", c.Registry.Path),
	)

	return &engineEnv{Reader: reader, Pipeline: p, Metrics: metrics}, nil
}

// resolveSources turns references into pipeline sources. ZIP bundles are
// expanded eagerly; everything else is read when processed.
func resolveSources(ctx context.Context, reader *fetcher.Reader, refs []string) ([]pipeline.Source, error) {
	sources := make([]pipeline.Source, 0, len(refs))
	for _, ref := range refs {
		if !fetcher.IsBundle(ref) {
			sources = append(sources, reader.Lazy(ref))
			continue
		}
		files, err := reader.ReadBundle(ctx, ref)
		if err != nil {
			return nil, eris.Wrapf(err, "expand bundle %s", ref)
		}
		if len(files) == 0 {
			zap.L().Warn("bundle holds no spreadsheets", zap.String("bundle", ref))
		}
		for _, f := range files {
			sources = append(sources, f)
		}
	}
	return sources, nil
}
