package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/policy-compare/internal/model"
	"github.com/sells-group/policy-compare/internal/registry"
	"github.com/sells-group/policy-compare/internal/workbook"
)

// sheetOf builds a sheet from literal rows. Strings are classified like
// decoded csv text, numbers become numeric cells and nil is blank.
func sheetOf(rows ...[]any) *workbook.Sheet {
	s := &workbook.Sheet{Name: "Sheet1"}
	for _, r := range rows {
		cells := make([]workbook.Cell, len(r))
		for i, v := range r {
			switch val := v.(type) {
			case string:
				cells[i] = workbook.ParseCell(val)
			case int:
				cells[i] = workbook.NumberCell(float64(val))
			case float64:
				cells[i] = workbook.NumberCell(val)
			default:
				cells[i] = workbook.EmptyCell()
			}
		}
		s.Rows = append(s.Rows, cells)
	}
	return s
}

// buildXLSX writes rows to a single-sheet xlsx file in memory.
func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Illustration")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, v := range rowData {
			cell := row.AddCell()
			switch val := v.(type) {
			case string:
				cell.SetString(val)
			case int:
				cell.SetInt(val)
			case float64:
				cell.SetFloat(val)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	parser, err := workbook.NewParser(workbook.CodecXLSX)
	require.NoError(t, err)
	return New(parser, registry.Default(), opts...)
}

// memSource serves fixed bytes, optionally waiting on gate first.
type memSource struct {
	name string
	data []byte
	err  error
	gate <-chan struct{}
}

func (s memSource) FileName() string { return s.name }

func (s memSource) Read(ctx context.Context) ([]byte, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	rows     int
	unmapped []model.Field
}

func (r *fakeRecorder) FileProcessed(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) RowsNormalized(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows += n
}

func (r *fakeRecorder) FieldUnmapped(f model.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmapped = append(r.unmapped, f)
}
