package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPSearcher queries a user directory with GET <endpoint>?q=<query> and
// decodes a JSON array of {id, fullname}.
type HTTPSearcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSearcher returns a searcher for endpoint.
func NewHTTPSearcher(endpoint string) *HTTPSearcher {
	return &HTTPSearcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: searchTimeout},
	}
}

func (s *HTTPSearcher) requestURL(query string) string {
	sep := "?"
	if strings.Contains(s.endpoint, "?") {
		sep = "&"
	}
	return s.endpoint + sep + url.Values{"q": {query}}.Encode()
}

// Search implements Searcher.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if s.endpoint == "" {
		return nil, ErrSearchDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("user search: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out []Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("user search: decode: %w", err)
	}
	return out, nil
}

var _ Searcher = (*HTTPSearcher)(nil)
