package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/dashboard"
	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/sheet"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// statusError pins an HTTP status to an error raised by the server itself.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func badRequest(err error) error { return &statusError{status: http.StatusBadRequest, err: err} }
func notFound(err error) error   { return &statusError{status: http.StatusNotFound, err: err} }

// statusFor maps service errors to HTTP statuses and user-facing messages.
func statusFor(err error) (int, string) {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return se.status, rootMessage(se.err)
	case eris.Is(err, dashboard.ErrNoInput):
		return http.StatusPreconditionFailed, dashboard.ErrNoInput.Error()
	case eris.Is(err, dashboard.ErrEmptyExport):
		return http.StatusNotFound, dashboard.ErrEmptyExport.Error()
	case eris.Is(err, engine.ErrNoData):
		return http.StatusNotFound, engine.ErrNoData.Error()
	case eris.Is(err, engine.ErrInvalidRange):
		return http.StatusBadRequest, rootMessage(err)
	case eris.Is(err, engine.ErrEmptyQuery):
		return http.StatusBadRequest, engine.ErrEmptyQuery.Error()
	case eris.Is(err, sheet.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, sheet.ErrUnsupportedFormat.Error()
	case engine.IsUnavailable(err):
		return http.StatusUnprocessableEntity, rootMessage(err)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Status: status, Error: msg})
}

// rootMessage returns the innermost error text, without wrap context.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return eris.Wrap(err, "server: validate")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+": failed "+fe.Tag())
	}
	return eris.New(strings.Join(msgs, "; "))
}
