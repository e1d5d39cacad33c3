// Package pipeline normalizes insurer illustration spreadsheets into the
// canonical policy table.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/policy-compare/internal/model"
	"github.com/sells-group/policy-compare/internal/registry"
	"github.com/sells-group/policy-compare/internal/workbook"
)

// Outcome labels passed to Recorder.FileProcessed.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
)

const defaultConcurrency = 4

// Source is a named file whose bytes can be read on demand.
type Source interface {
	FileName() string
	Read(ctx context.Context) ([]byte, error)
}

// Recorder receives processing measurements.
type Recorder interface {
	FileProcessed(outcome string, elapsed time.Duration)
	RowsNormalized(n int)
	FieldUnmapped(f model.Field)
}

type nopRecorder struct{}

func (nopRecorder) FileProcessed(string, time.Duration) {}
func (nopRecorder) RowsNormalized(int)                  {}
func (nopRecorder) FieldUnmapped(model.Field)           {}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder sets the measurement sink.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.rec = r
		}
	}
}

// WithConcurrency bounds how many files ProcessAll handles at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// Pipeline turns spreadsheet files into ProcessedData. It holds no per-file
// state and is safe for concurrent use.
type Pipeline struct {
	parser      *workbook.Parser
	reg         *registry.Registry
	rec         Recorder
	concurrency int
}

// New creates a Pipeline. A nil registry selects registry.Default().
func New(parser *workbook.Parser, reg *registry.Registry, opts ...Option) *Pipeline {
	if reg == nil {
		reg = registry.Default()
	}
	p := &Pipeline{
		parser:      parser,
		reg:         reg,
		rec:         nopRecorder{},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process normalizes one file. It never fails: unreadable files and sheets
// without a header row yield model.EmptyProcessedData.
func (p *Pipeline) Process(name string, data []byte) model.ProcessedData {
	start := time.Now()
	log := zap.L().With(zap.String("file", name))

	wb, err := p.parser.Parse(name, data)
	if err != nil {
		return p.empty(start, log, "unreadable workbook", err)
	}
	sheet, ok := wb.First()
	if !ok {
		return p.empty(start, log, "workbook has no sheets", nil)
	}
	hdr, ok := LocateHeader(sheet)
	if !ok {
		return p.empty(start, log, "no header row", nil)
	}

	cmap := MapColumns(hdr.Headers, p.reg.Synonyms)
	for _, f := range cmap.Unmapped() {
		p.rec.FieldUnmapped(f)
		log.Debug("pipeline: field unmapped, using literal key", zap.String("field", string(f)))
	}

	rows := NormalizeRows(hdr.Headers, sheet.Rows[hdr.Index+1:], cmap)
	pd := Assemble(ClassifyCompany(name, p.reg.Companies), rows, name)

	p.rec.RowsNormalized(len(rows))
	p.rec.FileProcessed(OutcomeOK, time.Since(start))
	log.Debug("pipeline: file processed",
		zap.String("company", pd.Company),
		zap.Int("header_row", hdr.Index),
		zap.Int("rows", len(rows)),
	)
	return pd
}

func (p *Pipeline) empty(start time.Time, log *zap.Logger, reason string, err error) model.ProcessedData {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	log.Warn("pipeline: returning empty result", fields...)
	p.rec.FileProcessed(OutcomeEmpty, time.Since(start))
	return model.EmptyProcessedData()
}

// Run reads src and processes it. Read failures degrade to the empty result.
func (p *Pipeline) Run(ctx context.Context, src Source) model.ProcessedData {
	start := time.Now()
	data, err := src.Read(ctx)
	if err != nil {
		log := zap.L().With(zap.String("file", src.FileName()))
		return p.empty(start, log, "read failed", eris.Wrap(err, "pipeline: read source"))
	}
	return p.Process(src.FileName(), data)
}

// Assemble builds the result for one file from its normalized rows.
func Assemble(company string, rows []model.StandardizedRow, filename string) model.ProcessedData {
	if rows == nil {
		rows = []model.StandardizedRow{}
	}
	return model.ProcessedData{
		Company:   company,
		Columns:   model.CanonicalColumns(),
		AgeColumn: model.ColumnAge,
		TableData: rows,
		Filename:  strings.ToLower(filename),
	}
}

// Future is the pending result of a submitted file. It resolves exactly once.
type Future struct {
	done   chan struct{}
	result model.ProcessedData
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the result is available.
func (f *Future) Result() model.ProcessedData {
	<-f.done
	return f.result
}

// Await waits for the result or for ctx to end. The error only reports that
// the wait was abandoned; processing itself never fails.
func (f *Future) Await(ctx context.Context) (model.ProcessedData, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return model.ProcessedData{}, eris.Wrap(ctx.Err(), "pipeline: await result")
	}
}

// Submit reads and processes src in its own goroutine.
func (p *Pipeline) Submit(ctx context.Context, src Source) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.result = p.Run(ctx, src)
	}()
	return f
}

// ProcessAll processes sources with bounded concurrency. Results are in
// input order.
func (p *Pipeline) ProcessAll(ctx context.Context, sources []Source) []model.ProcessedData {
	results := make([]model.ProcessedData, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = p.Run(gCtx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
