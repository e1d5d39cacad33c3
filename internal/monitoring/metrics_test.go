package monitoring

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policy-compare/internal/model"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Recorded(t *testing.T) {
	m := NewMetrics()
	m.FileProcessed("ok", 5*time.Millisecond)
	m.FileProcessed("ok", 7*time.Millisecond)
	m.FileProcessed("empty", time.Millisecond)
	m.RowsNormalized(40)
	m.RowsNormalized(2)
	m.FieldUnmapped(model.FieldTDB)

	out := scrape(t, m)
	assert.Contains(t, out, `policy_files_processed_total{outcome="ok"} 2`)
	assert.Contains(t, out, `policy_files_processed_total{outcome="empty"} 1`)
	assert.Contains(t, out, `policy_rows_normalized_total 42`)
	assert.Contains(t, out, `policy_unmapped_fields_total{field="tdb"} 1`)
	assert.Contains(t, out, `policy_processing_seconds_count 3`)
	assert.Contains(t, out, `go_goroutines`)
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.RowsNormalized(5)

	assert.Contains(t, scrape(t, a), "policy_rows_normalized_total 5")
	assert.Contains(t, scrape(t, b), "policy_rows_normalized_total 0")
	assert.NotSame(t, a.Registry(), b.Registry())
}
