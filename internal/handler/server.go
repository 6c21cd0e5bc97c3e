// Package handler implements the HTTP surface of the live map. All handlers
// are methods on Server. They are split into files by resource (health.go,
// view.go, overlay.go, page.go) but share the same Server struct so they can
// reach its dependencies.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/livemap/internal/mapview"
	"github.com/pkordes/livemap/internal/render"
	"github.com/pkordes/livemap/internal/theme"
)

// ViewRegistry is the view bookkeeping the handlers depend on.
// Defining the interface here, in the consumer package, keeps the handlers
// decoupled from how views are stored and expired.
type ViewRegistry interface {
	Open() *mapview.View
	Get(id uuid.UUID) (*mapview.View, error)
	Close(id uuid.UUID) error
}

// PageRenderer writes the HTML the browser shows.
type PageRenderer interface {
	Page(w io.Writer, snap mapview.Snapshot, t theme.Theme) error
	Overlay(w io.Writer, o mapview.Overlay) error
}

// Server serves every live map endpoint. Wire it in main.go via Routes.
type Server struct {
	views ViewRegistry
	pages PageRenderer
	theme string
	log   *slog.Logger

	// icons caches rendered marker icons by theme and hover state.
	icons sync.Map
}

// NewServer constructs the Server with all its dependencies. defaultTheme is
// used when a request does not name one.
func NewServer(views ViewRegistry, pages PageRenderer, defaultTheme string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{views: views, pages: pages, theme: defaultTheme, log: log}
}

// Routes returns a router serving the whole API. Middleware is left to the
// caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/", s.GetPage)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(render.Assets()))))
	r.Get("/markers/icon.png", s.GetMarkerIcon)

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.CreateView)
		r.Route("/{viewId}", func(r chi.Router) {
			r.Get("/", s.GetView)
			r.Delete("/", s.DeleteView)
			r.Post("/map", s.AttachMap)
			r.Put("/selection", s.SelectBusiness)
			r.Delete("/selection", s.DeselectBusiness)
			r.Put("/hover", s.HoverBusiness)
			r.Delete("/hover", s.UnhoverBusiness)
			r.Get("/overlay", s.GetOverlay)
			r.Get("/overlay.png", s.GetOverlayImage)
		})
	})
	return r
}
