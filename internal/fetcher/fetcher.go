// Package fetcher reads illustration files from local paths, HTTP(S) and
// FTP URLs, and ZIP bundles.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultMaxBytes caps a single read at 50 MiB.
const DefaultMaxBytes int64 = 50 << 20

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// File is a fully read file. It satisfies pipeline.Source.
type File struct {
	Name string
	Data []byte
}

// FileName returns the file's base name.
func (f File) FileName() string { return f.Name }

// Read returns the file contents.
func (f File) Read(context.Context) ([]byte, error) { return f.Data, nil }

// Options configures a Reader.
type Options struct {
	HTTP     HTTPOptions
	FTP      FTPOptions
	MaxBytes int64
}

// Reader resolves a reference (local path or URL) to file bytes.
type Reader struct {
	http     Fetcher
	ftp      Fetcher
	maxBytes int64
}

// NewReader creates a Reader with HTTP and FTP fetchers built from opts.
func NewReader(opts Options) *Reader {
	return NewReaderWith(NewHTTPFetcher(opts.HTTP), NewFTPFetcher(opts.FTP), opts.MaxBytes)
}

// NewReaderWith creates a Reader around existing fetchers. A non-positive
// maxBytes selects DefaultMaxBytes.
func NewReaderWith(httpFetcher, ftpFetcher Fetcher, maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{http: httpFetcher, ftp: ftpFetcher, maxBytes: maxBytes}
}

// ReadBytes returns the full contents of ref.
func (r *Reader) ReadBytes(ctx context.Context, ref string) ([]byte, error) {
	rc, err := r.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := readLimited(rc, r.maxBytes)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", ref)
	}
	return data, nil
}

func (r *Reader) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	switch scheme(ref) {
	case "http", "https":
		return r.http.Download(ctx, ref)
	case "ftp":
		return r.ftp.Download(ctx, ref)
	case "file":
		u, err := url.Parse(ref)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: parse file url")
		}
		return openLocal(u.Path)
	case "":
		return openLocal(ref)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme in %q", ref)
	}
}

func openLocal(p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open local file")
	}
	return f, nil
}

// Lazy returns a source that reads ref only when asked.
func (r *Reader) Lazy(ref string) *Ref {
	return &Ref{reader: r, ref: ref}
}

// ReadBundle reads a ZIP bundle and returns its spreadsheet entries.
func (r *Reader) ReadBundle(ctx context.Context, ref string) ([]File, error) {
	data, err := r.ReadBytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	files, err := ExpandZIP(data, r.maxBytes)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: expand %s", ref)
	}
	return files, nil
}

// Ref is a lazily read reference. It satisfies pipeline.Source.
type Ref struct {
	reader *Reader
	ref    string
}

// FileName returns the base name of the reference.
func (s *Ref) FileName() string { return FileName(s.ref) }

// Read fetches the referenced bytes.
func (s *Ref) Read(ctx context.Context) ([]byte, error) {
	return s.reader.ReadBytes(ctx, s.ref)
}

// IsBundle reports whether ref names a ZIP bundle.
func IsBundle(ref string) bool {
	return strings.EqualFold(path.Ext(FileName(ref)), ".zip")
}

// FileName returns the base file name of a local path or URL.
func FileName(ref string) string {
	if s := scheme(ref); s != "" {
		if u, err := url.Parse(ref); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(ref)
}

// scheme returns the lower-cased URL scheme of ref, or "" for plain paths.
// Single-letter schemes are treated as Windows drive letters.
func scheme(ref string) string {
	i := strings.Index(ref, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(ref[:i])
}
