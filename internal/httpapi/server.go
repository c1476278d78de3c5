// Package httpapi exposes the map editor's boundary operations over
// HTTP for host applications: document load/save, idea expansion, and
// asset upload. The interaction layer itself stays in-process; this
// surface only carries documents and boundary calls.
package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ideamap/ideamap/pkg/assets"
	"github.com/ideamap/ideamap/pkg/expand"
	"github.com/ideamap/ideamap/pkg/store"
)

// Expander produces related ideas for a topic. *expand.Client satisfies
// it; tests substitute a local fake.
type Expander interface {
	Expand(ctx context.Context, topic string) ([]expand.Idea, error)
}

// Server bundles the boundary collaborators behind an HTTP router.
type Server struct {
	store    store.Store
	assets   *assets.Store
	expander Expander
	logger   *log.Logger

	// expanding gates POST /api/expand to one in-flight request, matching
	// the editor's single-flight expansion rule.
	expanding atomic.Bool
}

// New creates a server. The expander may be nil, in which case the
// expand endpoint reports UNSUPPORTED.
func New(st store.Store, as *assets.Store, ex Expander, logger *log.Logger) *Server {
	return &Server{store: st, assets: as, expander: ex, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Get("/documents", s.handleListDocuments)
		api.Get("/documents/{name}", s.handleGetDocument)
		api.Put("/documents/{name}", s.handlePutDocument)
		api.Delete("/documents/{name}", s.handleDeleteDocument)

		api.Post("/expand", s.handleExpand)

		api.Post("/assets", s.handleUploadAsset)
		api.Get("/assets/{ref}", s.handleGetAsset)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
