package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(maxBytes int64) *Reader {
	return NewReader(Options{
		HTTP:     HTTPOptions{UserAgent: "test-agent", Timeout: 5 * time.Second, RequestsPerSecond: 1000, BackoffBase: time.Millisecond},
		FTP:      FTPOptions{Timeout: time.Second},
		MaxBytes: maxBytes,
	})
}

func TestReader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sun_Life.csv")
	require.NoError(t, os.WriteFile(path, []byte("Age,Premium\n"), 0o644))

	r := newTestReader(0)
	data, err := r.ReadBytes(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Age,Premium\n", string(data))

	data, err = r.ReadBytes(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "Age,Premium\n", string(data))
}

func TestReader_MissingFile(t *testing.T) {
	_, err := newTestReader(0).ReadBytes(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open local file")
}

func TestReader_SizeGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	_, err := newTestReader(32).ReadBytes(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
}

func TestReader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote")) //nolint:errcheck
	}))
	defer srv.Close()

	src := newTestReader(0).Lazy(srv.URL + "/files/Equitable%20Plan.xlsx")
	assert.Equal(t, "Equitable Plan.xlsx", src.FileName())

	data, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))
}

func TestReader_UnsupportedScheme(t *testing.T) {
	_, err := newTestReader(0).ReadBytes(context.Background(), "s3://bucket/key.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestReader_ReadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.zip")
	require.NoError(t, os.WriteFile(path, buildZIP(t,
		zipEntry{"canada.csv", "Age\n1\n"},
		zipEntry{"manulife.xlsx", "x"},
	), 0o644))

	files, err := newTestReader(0).ReadBundle(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "canada.csv", files[0].FileName())

	data, err := files[0].Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Age\n1\n", string(data))
}

func TestFileName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"/tmp/Manulife_2024.xlsx", "Manulife_2024.xlsx"},
		{"relative/sun.csv", "sun.csv"},
		{"https://example.com/a/b/Canada.xlsx?token=1", "Canada.xlsx"},
		{"ftp://ftp.example.com/pub/equitable.xlsx", "equitable.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.ref))
		})
	}
}

func TestIsBundle(t *testing.T) {
	assert.True(t, IsBundle("/tmp/batch.ZIP"))
	assert.True(t, IsBundle("https://example.com/illustrations.zip"))
	assert.False(t, IsBundle("manulife.xlsx"))
}
