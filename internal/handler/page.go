package handler

import (
	"bytes"
	"net/http"
)

// GetPage handles GET /. It opens a view for the visit, waits for the
// business list (or for the client to give up), and renders the map page.
// The page's script drives the view through the /views endpoints from then on.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	t, ok := s.themeParam(w, r)
	if !ok {
		return
	}

	v := s.views.Open()
	select {
	case <-v.Load():
	case <-r.Context().Done():
		_ = s.views.Close(v.ID())
		return
	}

	var buf bytes.Buffer
	if err := s.pages.Page(&buf, v.Snapshot(), t); err != nil {
		_ = s.views.Close(v.ID())
		s.writeViewError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
