// Package testutil provides shared helpers for tests: in-process stand-ins
// for the business directory and the reverse-geocoding API.
// Servers are closed automatically when the test finishes.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// DirectoryServer is a fake business directory.
type DirectoryServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits int
}

// NewDirectoryServer serves body as JSON (status 200) on every request.
// body may be a []byte of raw JSON or any value accepted by json.Marshal.
func NewDirectoryServer(t *testing.T, body any) *DirectoryServer {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("testutil.NewDirectoryServer: marshal: %v", err)
		}
	}
	return NewDirectoryServerFunc(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}

// NewDirectoryServerFunc serves every request with h.
func NewDirectoryServerFunc(t *testing.T, h http.HandlerFunc) *DirectoryServer {
	t.Helper()
	d := &DirectoryServer{}
	d.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.hits++
		d.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(d.Close)
	return d
}

// Hits returns the number of requests served so far.
func (d *DirectoryServer) Hits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hits
}

// GeocodeRequest is one request received by a GeocodeServer.
type GeocodeRequest struct {
	LatLng string
	Key    string
}

// GeocodeReply is what a GeocodeServer answers with.
type GeocodeReply struct {
	// HTTPStatus defaults to 200.
	HTTPStatus int
	// Status defaults to "OK", or "ZERO_RESULTS" when Addresses is empty.
	Status    string
	Addresses []string
}

// GeocodeServer is a fake Google Geocoding endpoint.
type GeocodeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GeocodeRequest
}

// NewGeocodeServer answers each request with reply(latlng).
func NewGeocodeServer(t *testing.T, reply func(latlng string) GeocodeReply) *GeocodeServer {
	t.Helper()
	g := &GeocodeServer{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := GeocodeRequest{LatLng: r.URL.Query().Get("latlng"), Key: r.URL.Query().Get("key")}
		g.mu.Lock()
		g.requests = append(g.requests, req)
		g.mu.Unlock()

		rep := reply(req.LatLng)
		if rep.HTTPStatus == 0 {
			rep.HTTPStatus = http.StatusOK
		}
		if rep.Status == "" {
			rep.Status = "OK"
			if len(rep.Addresses) == 0 {
				rep.Status = "ZERO_RESULTS"
			}
		}

		type result struct {
			FormattedAddress string `json:"formatted_address"`
		}
		results := make([]result, len(rep.Addresses))
		for i, a := range rep.Addresses {
			results[i] = result{FormattedAddress: a}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.HTTPStatus)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": rep.Status, "results": results})
	}))
	t.Cleanup(g.Close)
	return g
}

// Requests returns a copy of the requests received so far.
func (g *GeocodeServer) Requests() []GeocodeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GeocodeRequest(nil), g.requests...)
}
