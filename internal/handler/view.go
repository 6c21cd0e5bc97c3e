package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/livemap/internal/mapview"
)

// ViewCreated is the body of POST /views.
type ViewCreated struct {
	ID openapi_types.UUID `json:"id"`
}

// BusinessRef is the request body of the selection and hover endpoints.
type BusinessRef struct {
	BusinessID string `json:"businessId"`
}

// SelectionAccepted is returned by PUT /views/{viewId}/selection without wait.
type SelectionAccepted struct {
	Seq uint64 `json:"seq"`
}

// CreateView handles POST /views.
// With ?wait=true the response is held until the business list has loaded,
// so the caller can select right away; a page whose view was dropped reopens
// this way.
func (s *Server) CreateView(w http.ResponseWriter, r *http.Request) {
	var wait *bool
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &wait); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, fmt.Sprintf("invalid format for parameter wait: %v", err))
		return
	}
	v := s.views.Open()
	if wait != nil && *wait {
		select {
		case <-v.Load():
		case <-r.Context().Done():
			_ = s.views.Close(v.ID())
			return
		}
	}
	w.Header().Set("Location", "/views/"+v.ID().String())
	writeJSON(w, http.StatusCreated, ViewCreated{ID: v.ID()})
}

// GetView handles GET /views/{viewId}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// DeleteView handles DELETE /views/{viewId}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	if err := s.views.Close(id); err != nil {
		s.writeViewError(w, r, err, "view not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachMap handles POST /views/{viewId}/map.
func (s *Server) AttachMap(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	if err := v.AttachMap(); err != nil {
		s.writeViewError(w, r, err, "view not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectBusiness handles PUT /views/{viewId}/selection.
// Without ?wait=true it answers 202 as soon as the lookup has started. With
// it, the response is the snapshot once the lookup resolved, whether or not
// it became the visible selection.
func (s *Server) SelectBusiness(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	var wait *bool
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &wait); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, fmt.Sprintf("invalid format for parameter wait: %v", err))
		return
	}
	ref, ok := decodeBusinessRef(w, r)
	if !ok {
		return
	}

	p, err := v.Select(ref.BusinessID)
	if err != nil {
		s.writeViewError(w, r, err, "business not found")
		return
	}
	if wait == nil || !*wait {
		writeJSON(w, http.StatusAccepted, SelectionAccepted{Seq: p.Seq})
		return
	}
	if err := p.Wait(r.Context()); err != nil {
		// The client went away; the lookup carries on for the view.
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// DeselectBusiness handles DELETE /views/{viewId}/selection.
func (s *Server) DeselectBusiness(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	if err := v.Deselect(); err != nil {
		s.writeViewError(w, r, err, "view not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HoverBusiness handles PUT /views/{viewId}/hover.
func (s *Server) HoverBusiness(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	ref, ok := decodeBusinessRef(w, r)
	if !ok {
		return
	}
	if err := v.Hover(ref.BusinessID); err != nil {
		s.writeViewError(w, r, err, "business not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnhoverBusiness handles DELETE /views/{viewId}/hover.
func (s *Server) UnhoverBusiness(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	if err := v.Unhover(); err != nil {
		s.writeViewError(w, r, err, "view not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ----------------------------------------------------------------

// viewID binds the {viewId} path parameter. On failure it writes a 422.
func viewID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "viewId", chi.URLParam(r, "viewId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, fmt.Sprintf("invalid format for parameter viewId: %v", err))
		return id, false
	}
	return id, true
}

// viewFor resolves the {viewId} path parameter to an open view, writing the
// error response when it cannot.
func (s *Server) viewFor(w http.ResponseWriter, r *http.Request) (*mapview.View, bool) {
	id, ok := viewID(w, r)
	if !ok {
		return nil, false
	}
	v, err := s.views.Get(id)
	if err != nil {
		s.writeViewError(w, r, err, "view not found")
		return nil, false
	}
	return v, true
}

// decodeBusinessRef reads a {"businessId": ...} body. On failure it writes
// 413 for an oversized body and 422 for anything else.
func decodeBusinessRef(w http.ResponseWriter, r *http.Request) (BusinessRef, bool) {
	var ref BusinessRef
	err := json.NewDecoder(r.Body).Decode(&ref)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
		return ref, false
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body is required")
		return ref, false
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "malformed request body")
		return ref, false
	}
	if strings.TrimSpace(ref.BusinessID) == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "businessId is required")
		return ref, false
	}
	return ref, true
}
