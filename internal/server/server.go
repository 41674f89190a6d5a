// Package server exposes the dashboard over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/dashboard"
)

// Config configures the HTTP surface.
type Config struct {
	MaxUploadMB int
	CORSOrigins []string
}

// Server routes HTTP requests to a dashboard.Service.
type Server struct {
	svc       *dashboard.Service
	validate  *validator.Validate
	maxUpload int64
	origins   []string
	log       *zap.Logger
}

// New creates a Server for svc.
func New(svc *dashboard.Service, cfg Config) *Server {
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	return &Server{
		svc:       svc,
		validate:  newValidator(),
		maxUpload: int64(cfg.MaxUploadMB) << 20,
		origins:   cfg.CORSOrigins,
		log:       zap.L().With(zap.String("component", "server")),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/dataset", s.uploadDataset)
		r.Get("/dataset", s.getDataset)
		r.Get("/options", s.getOptions)
		r.Post("/dashboard", s.postDashboard)
		r.Post("/search", s.postSearch)
		r.Get("/search", s.getSearch)
		r.Post("/selection", s.postSelection)
		r.Post("/export", s.postExport)
		r.Post("/selection/export", s.postSelectionExport)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
