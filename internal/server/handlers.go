package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policy-compare/internal/pipeline"
	"github.com/sells-group/policy-compare/internal/portfolio"
	"github.com/sells-group/policy-compare/internal/summary"
)

const uploadField = "files"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPolicies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.portfolio.List())
}

// handleUpload processes every file in the multipart "files" field
// concurrently. Entries are appended in completion order.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.opts.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	type done struct {
		name   string
		future *pipeline.Future
	}
	completed := make(chan done, len(headers))
	for _, fh := range headers {
		f := s.pipeline.Submit(r.Context(), uploadSource{fh})
		go func(name string) {
			<-f.Done()
			completed <- done{name: name, future: f}
		}(fh.Filename)
	}

	added := make([]portfolio.Entry, 0, len(headers))
	for range headers {
		d := <-completed
		e := s.portfolio.Add(d.name, d.future.Result())
		if e.Failed {
			zap.L().Warn("server: upload produced no data", zap.String("file", d.name))
		}
		added = append(added, e)
	}

	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleRemovePolicy(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	e, err := s.portfolio.Remove(idx)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summary.Build(s.portfolio.Policies(), s.opts.Intervals))
}

func (s *Server) handleSeries(w http.ResponseWriter, _ *http.Request) {
	series := summary.BuildSeries(s.portfolio.Policies())
	if series == nil {
		series = []summary.Series{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Collect())
}

// uploadSource adapts a multipart file to pipeline.Source.
type uploadSource struct {
	fh *multipart.FileHeader
}

func (u uploadSource) FileName() string { return u.fh.Filename }

func (u uploadSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "server: read upload")
	}
	f, err := u.fh.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "server: open upload %q", u.fh.Filename)
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrapf(err, "server: read upload %q", u.fh.Filename)
	}
	return data, nil
}
