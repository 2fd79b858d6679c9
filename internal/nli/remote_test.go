package nli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/factlens/factlens/internal/cache"
	"github.com/factlens/factlens/internal/model"
)

func newTestCache() cache.Cache {
	return cache.NewMemoryCache(time.Minute, time.Minute)
}

func testConfig(baseURL string) model.NLIConfig {
	return model.NLIConfig{
		BaseURL:           baseURL,
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
	}
}

func TestRemoteScorer_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/score" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Claim == "" || req.Snippet == "" {
			t.Errorf("incomplete request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(Scores{Entailment: 0.85, Contradiction: 0.1})
	}))
	defer srv.Close()

	scorer := NewRemoteScorer(testConfig(srv.URL))
	scores, err := scorer.Score(context.Background(), "the sky is blue", "the sky appears blue due to Rayleigh scattering")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if scores.Entailment != 0.85 || scores.Contradiction != 0.1 {
		t.Errorf("unexpected scores: %+v", scores)
	}
}

func TestRemoteScorer_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model loading", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "scores out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(Scores{Entailment: 1.7, Contradiction: 0.1})
			},
		},
		{
			name: "negative score",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(Scores{Entailment: 0.3, Contradiction: -0.2})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			scorer := NewRemoteScorer(testConfig(srv.URL))
			_, err := scorer.Score(context.Background(), "claim", "snippet")
			if !errors.Is(err, ErrScoringUnavailable) {
				t.Errorf("error = %v, want ErrScoringUnavailable", err)
			}
		})
	}
}

func TestRemoteScorer_Unreachable(t *testing.T) {
	scorer := NewRemoteScorer(testConfig("http://127.0.0.1:1"))
	_, err := scorer.Score(context.Background(), "claim", "snippet")
	if !errors.Is(err, ErrScoringUnavailable) {
		t.Errorf("error = %v, want ErrScoringUnavailable", err)
	}
}

type countingScorer struct {
	calls int
}

func (s *countingScorer) Score(ctx context.Context, claim, snippet string) (Scores, error) {
	s.calls++
	return Scores{Entailment: 0.5, Contradiction: 0.25}, nil
}

type failingScorer struct{}

func (failingScorer) Score(ctx context.Context, claim, snippet string) (Scores, error) {
	return Scores{}, ErrScoringUnavailable
}

func TestCachedScorer(t *testing.T) {
	inner := &countingScorer{}
	scorer := NewCachedScorer(inner, newTestCache(), time.Minute)

	for i := 0; i < 3; i++ {
		scores, err := scorer.Score(context.Background(), "claim", "snippet")
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if scores.Entailment != 0.5 {
			t.Errorf("unexpected scores: %+v", scores)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner scorer called %d times, want 1", inner.calls)
	}

	// Distinct pairs do not share entries.
	if _, err := scorer.Score(context.Background(), "claim", "other snippet"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner scorer called %d times, want 2", inner.calls)
	}
}

func TestCachedScorer_NeverCachesFailures(t *testing.T) {
	scorer := NewCachedScorer(failingScorer{}, newTestCache(), time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := scorer.Score(context.Background(), "claim", "snippet"); !errors.Is(err, ErrScoringUnavailable) {
			t.Fatalf("error = %v, want ErrScoringUnavailable", err)
		}
	}
}
