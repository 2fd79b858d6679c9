package retrieve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/factlens/factlens/internal/model"
)

// HTTPRetriever queries a vector-search service over its JSON API.
type HTTPRetriever struct {
	baseURL    string
	topK       int
	httpClient *http.Client
}

// NewHTTPRetriever creates a retriever for the search service at baseURL.
func NewHTTPRetriever(cfg model.RetrievalConfig) *HTTPRetriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 20
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPRetriever{
		baseURL: cfg.BaseURL,
		topK:    topK,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Retrieve fetches up to TopK evidence passages for the claim. Transport
// errors and non-2xx responses map to ErrRetrievalFailed.
func (r *HTTPRetriever) Retrieve(ctx context.Context, claim string) ([]model.EvidenceItem, error) {
	body, err := json.Marshal(searchRequest{Query: claim, TopK: r.topK})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRetrievalFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: search service returned %d", ErrRetrievalFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRetrievalFailed, err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRetrievalFailed, err)
	}

	items := make([]model.EvidenceItem, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		items = append(items, model.EvidenceItem{
			Title:        hit.Title,
			URL:          hit.URL,
			Snippet:      hit.Snippet,
			SourceDomain: DomainFromURL(hit.URL),
			Relevance:    clamp01(hit.Score),
		})
	}
	return items, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
