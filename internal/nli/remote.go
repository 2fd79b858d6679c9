package nli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/factlens/factlens/internal/model"
	"golang.org/x/time/rate"
)

// RemoteScorer calls a self-hosted NLI inference service over JSON.
// Outbound calls are rate limited so a burst of concurrent requests cannot
// overwhelm the model server.
type RemoteScorer struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRemoteScorer creates a scorer for the NLI service at cfg.BaseURL.
func NewRemoteScorer(cfg model.NLIConfig) *RemoteScorer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &RemoteScorer{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 8,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type scoreRequest struct {
	Claim   string `json:"claim"`
	Snippet string `json:"snippet"`
}

// Score sends one (claim, snippet) pair to the service. Transport errors,
// non-2xx responses and out-of-range values all map to ErrScoringUnavailable.
func (s *RemoteScorer) Score(ctx context.Context, claim, snippet string) (Scores, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return Scores{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	body, err := json.Marshal(scoreRequest{Claim: claim, Snippet: snippet})
	if err != nil {
		return Scores{}, fmt.Errorf("%w: encode request: %v", ErrScoringUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return Scores{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Scores{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Scores{}, fmt.Errorf("%w: nli service returned %d", ErrScoringUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Scores{}, fmt.Errorf("%w: read response: %v", ErrScoringUnavailable, err)
	}

	var scores Scores
	if err := json.Unmarshal(data, &scores); err != nil {
		return Scores{}, fmt.Errorf("%w: decode response: %v", ErrScoringUnavailable, err)
	}
	if !inUnitRange(scores.Entailment) || !inUnitRange(scores.Contradiction) {
		return Scores{}, fmt.Errorf("%w: scores out of range: entailment=%.3f contradiction=%.3f",
			ErrScoringUnavailable, scores.Entailment, scores.Contradiction)
	}
	return scores, nil
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
