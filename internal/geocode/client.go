// Package geocode resolves coordinates into human-readable addresses using a
// Google Geocoding compatible reverse-geocoding endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkordes/livemap/internal/domain"
)

// Status values reported in the response body.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
)

var (
	ErrQuotaExceeded  = errors.New("geocode: query quota exceeded")
	ErrRequestDenied  = errors.New("geocode: request denied")
	ErrInvalidRequest = errors.New("geocode: invalid request")
	ErrUnknown        = errors.New("geocode: unknown error")
)

// Result is one entry of the result list. Only the formatted address is consumed.
type Result struct {
	FormattedAddress string `json:"formatted_address"`
	PlaceID          string `json:"place_id,omitempty"`
}

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []Result `json:"results"`
}

// Client performs reverse-geocoding lookups.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a Client for endpoint that authenticates with apiKey.
// A nil httpClient uses http.DefaultClient.
func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, httpClient: httpClient}
}

// Reverse looks up the addresses at pos. An empty result list is a valid,
// non-error answer.
func (c *Client) Reverse(ctx context.Context, pos domain.Position) ([]Result, error) {
	reqURL, err := c.buildURL(pos)
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Reverse: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Reverse: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Reverse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode.Client.Reverse: status %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("geocode.Client.Reverse: decode: %w", err)
	}

	switch r.Status {
	case StatusOK, "":
		return r.Results, nil
	case StatusZeroResults:
		return []Result{}, nil
	}
	return nil, fmt.Errorf("geocode.Client.Reverse: %w: %s", statusErr(r.Status), r.ErrorMessage)
}

func (c *Client) buildURL(pos domain.Position) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("latlng", pos.LatLng())
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func statusErr(status string) error {
	switch status {
	case StatusOverQueryLimit:
		return ErrQuotaExceeded
	case StatusRequestDenied:
		return ErrRequestDenied
	case StatusInvalidRequest:
		return ErrInvalidRequest
	}
	return ErrUnknown
}

// FirstAddress returns the first result's formatted address, or "" when the
// list is empty.
func FirstAddress(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	return results[0].FormattedAddress
}
