// Package directory fetches business records from the remote business
// directory API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkordes/livemap/internal/domain"
)

// StatusError reports a non-2xx response from the directory.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directory returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the directory's list endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a Client for endpoint. A nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// ListBusinesses issues a GET against the fixed endpoint, without query
// parameters, and decodes the JSON array in the response body.
func (c *Client) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("directory.Client.ListBusinesses: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory.Client.ListBusinesses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directory.Client.ListBusinesses: %w", &StatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	var businesses []domain.Business
	if err := json.NewDecoder(resp.Body).Decode(&businesses); err != nil {
		return nil, fmt.Errorf("directory.Client.ListBusinesses: decode: %w", err)
	}
	if businesses == nil {
		businesses = []domain.Business{}
	}
	return businesses, nil
}
