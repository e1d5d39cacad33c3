package fetcher

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// spreadsheetExts are the bundle entries worth handing to the pipeline.
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// ExpandZIP returns the spreadsheet entries of an in-memory ZIP bundle in
// archive order. Directories, macOS resource forks and hidden files are
// skipped. Entries larger than maxBytes are rejected (0 disables the check).
func ExpandZIP(data []byte, maxBytes int64) ([]File, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	var files []File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || !spreadsheetExts[strings.ToLower(path.Ext(base))] {
			continue
		}
		if maxBytes > 0 && f.UncompressedSize64 > uint64(maxBytes) {
			return nil, eris.Errorf("zip: entry %q is %d bytes, limit is %d", f.Name, f.UncompressedSize64, maxBytes)
		}

		body, err := readZIPEntry(f, maxBytes)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: base, Data: body})
	}

	return files, nil
}

func readZIPEntry(f *zip.File, maxBytes int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "zip: open entry %q", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := readLimited(rc, maxBytes)
	if err != nil {
		return nil, eris.Wrapf(err, "zip: read entry %q", f.Name)
	}
	return data, nil
}

// readLimited reads all of r, failing once more than maxBytes arrive.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, eris.Errorf("file exceeds %d byte limit", maxBytes)
	}
	return data, nil
}
