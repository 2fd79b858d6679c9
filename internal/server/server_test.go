package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/retrieve"
)

// stubVerifier replays canned results without touching external services.
type stubVerifier struct {
	result *model.FactCheckResult
	err    error
	calls  int
	hints  []string
}

func (v *stubVerifier) VerifyClaim(ctx context.Context, claim, providerHint string) (*model.FactCheckResult, error) {
	v.calls++
	v.hints = append(v.hints, providerHint)
	if strings.TrimSpace(claim) == "" {
		return nil, model.ErrEmptyClaim
	}
	return v.result, v.err
}

func newTestServer(t *testing.T, verifier *stubVerifier) (*Server, *registry.Registry) {
	t.Helper()
	reg, err := registry.New(model.ProviderOpenAI, false)
	if err != nil {
		t.Fatal(err)
	}
	return New(verifier, reg, model.ServerConfig{RequestTimeout: 5 * time.Second}), reg
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestCheck_Success(t *testing.T) {
	verifier := &stubVerifier{result: &model.FactCheckResult{
		Claim:       "the Moon landing occurred in 1969",
		Verdict:     model.VerdictSupported,
		Score:       83,
		Explanation: "Multiple sources confirm the landing.",
		Provider:    model.ProviderOpenAI,
	}}
	s, _ := newTestServer(t, verifier)

	w := doJSON(t, s, http.MethodPost, "/api/check", `{"claim": "the Moon landing occurred in 1969"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var result model.FactCheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Verdict != model.VerdictSupported || result.Score != 83 {
		t.Errorf("got (%s, %d), want (Supported, 83)", result.Verdict, result.Score)
	}
	if verifier.calls != 1 {
		t.Errorf("verifier called %d times, want 1", verifier.calls)
	}
}

func TestCheck_EmptyClaimRejectedBeforeWork(t *testing.T) {
	verifier := &stubVerifier{}
	s, _ := newTestServer(t, verifier)

	w := doJSON(t, s, http.MethodPost, "/api/check", `{"claim": "   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("400 response must carry an error message")
	}
}

func TestCheck_MalformedBody(t *testing.T) {
	s, _ := newTestServer(t, &stubVerifier{})

	w := doJSON(t, s, http.MethodPost, "/api/check", `{"claim": `)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCheck_RetrievalFailureIs502WithResultBody(t *testing.T) {
	verifier := &stubVerifier{
		result: &model.FactCheckResult{
			Claim:       "the claim",
			Verdict:     model.VerdictError,
			Score:       0,
			Explanation: "Evidence retrieval failed; the claim could not be assessed.",
		},
		err: retrieve.ErrRetrievalFailed,
	}
	s, _ := newTestServer(t, verifier)

	w := doJSON(t, s, http.MethodPost, "/api/check", `{"claim": "the claim"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var result model.FactCheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Verdict != model.VerdictError || result.Score != 0 {
		t.Errorf("got (%s, %d), want (Error, 0)", result.Verdict, result.Score)
	}
}

func TestCheck_ProviderHintForwarded(t *testing.T) {
	verifier := &stubVerifier{result: &model.FactCheckResult{Verdict: model.VerdictNotEnoughEvidence}}
	s, _ := newTestServer(t, verifier)

	doJSON(t, s, http.MethodPost, "/api/check", `{"claim": "c", "provider": "ollama"}`)
	if len(verifier.hints) != 1 || verifier.hints[0] != model.ProviderOllama {
		t.Errorf("hints = %v, want [ollama]", verifier.hints)
	}
}

func TestProvider_GetAndSwitch(t *testing.T) {
	s, reg := newTestServer(t, &stubVerifier{})

	w := doJSON(t, s, http.MethodGet, "/api/provider", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state model.ProviderState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Provider != model.ProviderOpenAI {
		t.Errorf("provider = %s, want openai", state.Provider)
	}

	w = doJSON(t, s, http.MethodPost, "/api/provider", `{"provider": "ollama"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if got := reg.GetActive().Provider; got != model.ProviderOllama {
		t.Errorf("active provider = %s, want ollama", got)
	}
}

func TestProvider_InvalidSwitchLeavesStateUnchanged(t *testing.T) {
	s, reg := newTestServer(t, &stubVerifier{})

	w := doJSON(t, s, http.MethodPost, "/api/provider", `{"provider": "gemini"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := reg.GetActive().Provider; got != model.ProviderOpenAI {
		t.Errorf("active provider = %s, want openai untouched", got)
	}
}

func TestReasoning_Toggle(t *testing.T) {
	s, reg := newTestServer(t, &stubVerifier{})

	w := doJSON(t, s, http.MethodPost, "/api/reasoning", `{"enabled": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if !reg.GetActive().ReasoningEnabled {
		t.Error("reasoning must be enabled after the toggle")
	}

	// The flag is required, not defaulted.
	w = doJSON(t, s, http.MethodPost, "/api/reasoning", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a missing flag", w.Code)
	}
	if !reg.GetActive().ReasoningEnabled {
		t.Error("rejected toggle must not change state")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &stubVerifier{})

	w := doJSON(t, s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
