package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/dashboard"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type searchRequest struct {
	Query string `json:"query" validate:"required,max=64"`
}

type selectionRequest struct {
	Query dashboard.Query `json:"query"`
	Code  string          `json:"code" validate:"required,max=64"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) uploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.fail(w, r, badRequest(eris.Wrap(err, "server: parse upload")))
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, badRequest(eris.Wrap(err, "server: form file")))
		return
	}
	defer file.Close() //nolint:errcheck

	b, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, badRequest(eris.Wrap(err, "server: read upload")))
		return
	}
	ds, err := s.svc.Load(r.Context(), hdr.Filename, b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ds)
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.svc.Dataset()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, ds)
}

func (s *Server) getOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.svc.Options()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

func (s *Server) postDashboard(w http.ResponseWriter, r *http.Request) {
	var q dashboard.Query
	if !s.decode(w, r, &q) {
		return
	}
	v, err := s.svc.View(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (s *Server) postSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Search(req.Query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) getSearch(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Dataset(); err != nil {
		s.fail(w, r, err)
		return
	}
	res, ok := s.svc.LastSearch()
	if !ok {
		s.fail(w, r, notFound(eris.New("no search has been run")))
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) postSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Selection(req.Query, strings.TrimSpace(req.Code))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, p)
}

func (s *Server) postExport(w http.ResponseWriter, r *http.Request) {
	var q dashboard.Query
	if !s.decode(w, r, &q) {
		return
	}
	s.download(w, r, q, "")
}

func (s *Server) postSelectionExport(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.download(w, r, req.Query, strings.TrimSpace(req.Code))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, q dashboard.Query, code string) {
	d, err := s.svc.Export(q, code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("write download", zap.String("file", d.FileName), zap.Error(err))
	}
}

// decode reads a JSON body into v and validates it. An empty body decodes
// to the zero value.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, badRequest(eris.Wrap(err, "server: decode body")))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.fail(w, r, badRequest(validationError(err)))
		return false
	}
	return true
}
