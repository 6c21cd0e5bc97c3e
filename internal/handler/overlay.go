package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/livemap/internal/render"
	"github.com/pkordes/livemap/internal/theme"
)

// GetOverlay handles GET /views/{viewId}/overlay.
// It answers 404 while nothing is selected.
func (s *Server) GetOverlay(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	o := v.Overlay()
	if o == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "no business selected")
		return
	}
	var buf bytes.Buffer
	if err := s.pages.Overlay(&buf, *o); err != nil {
		s.writeViewError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// GetOverlayImage handles GET /views/{viewId}/overlay.png.
func (s *Server) GetOverlayImage(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	o := v.Overlay()
	if o == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "no business selected")
		return
	}
	img, err := render.OverlayCard(*o)
	if err != nil {
		s.writeViewError(w, r, err, "")
		return
	}
	writePNG(w, img, "no-store")
}

type iconKey struct {
	theme string
	hover bool
}

// GetMarkerIcon handles GET /markers/icon.png.
func (s *Server) GetMarkerIcon(w http.ResponseWriter, r *http.Request) {
	t, ok := s.themeParam(w, r)
	if !ok {
		return
	}
	var hover *bool
	if err := runtime.BindQueryParameter("form", true, false, "hover", r.URL.Query(), &hover); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, fmt.Sprintf("invalid format for parameter hover: %v", err))
		return
	}
	key := iconKey{theme: t.Name, hover: hover != nil && *hover}

	if cached, ok := s.icons.Load(key); ok {
		writePNG(w, cached.([]byte), "public, max-age=86400")
		return
	}
	img, err := render.MarkerIcon(t, key.hover)
	if err != nil {
		s.writeViewError(w, r, err, "")
		return
	}
	s.icons.Store(key, img)
	writePNG(w, img, "public, max-age=86400")
}

// themeParam binds the optional ?theme= query parameter, falling back to the
// server's default theme. On failure it writes a 422.
func (s *Server) themeParam(w http.ResponseWriter, r *http.Request) (theme.Theme, bool) {
	var name *string
	if err := runtime.BindQueryParameter("form", true, false, "theme", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, fmt.Sprintf("invalid format for parameter theme: %v", err))
		return theme.Theme{}, false
	}
	chosen := s.theme
	if name != nil && *name != "" {
		chosen = *name
	}
	t, err := theme.Lookup(chosen)
	if err != nil {
		s.writeViewError(w, r, err, "")
		return theme.Theme{}, false
	}
	return t, true
}

func writePNG(w http.ResponseWriter, img []byte, cacheControl string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	_, _ = w.Write(img)
}
