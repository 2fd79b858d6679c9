package explain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
)

type fakeProvider struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (p *fakeProvider) Name() string                        { return "fake" }
func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return p.err == nil }

func (p *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.calls++
	p.prompts = append(p.prompts, req.Prompt)
	if p.err != nil {
		return nil, p.err
	}
	text := "The cited passages consistently describe the event."
	if len(p.responses) > 0 {
		text = p.responses[0]
		if len(p.responses) > 1 {
			p.responses = p.responses[1:]
		}
	}
	return &llm.GenerateResponse{Text: text, Model: "fake-model"}, nil
}

func supportedRequest() Request {
	return Request{
		Claim:   "the Moon landing occurred in 1969",
		Verdict: model.VerdictSupported,
		Score:   83,
		Features: model.FeatureVector{
			EntailMax: 0.9, ContradictMax: 0.1, AgreeDomainCount: 2, RelevanceAvg: 0.75,
		},
		Citations: []model.EvidenceItem{
			{Title: "Apollo 11", URL: "https://nasa.gov/a11", SourceDomain: "nasa.gov", Snippet: "Apollo 11 landed on the Moon in July 1969."},
		},
	}
}

func TestCompose_UsesProviderText(t *testing.T) {
	provider := &fakeProvider{}
	result := NewComposer(provider).Compose(context.Background(), supportedRequest())

	if result.Raw == nil {
		t.Fatal("expected raw model response to be set")
	}
	if result.Explanation != *result.Raw {
		t.Errorf("explanation %q differs from raw %q", result.Explanation, *result.Raw)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestCompose_PromptCarriesVerdictAndCitations(t *testing.T) {
	provider := &fakeProvider{}
	NewComposer(provider).Compose(context.Background(), supportedRequest())

	prompt := provider.prompts[0]
	if !strings.Contains(prompt, string(model.VerdictSupported)) {
		t.Error("prompt must carry the already-decided verdict")
	}
	if !strings.Contains(prompt, "nasa.gov") {
		t.Error("prompt must carry the supplied citations")
	}
}

func TestCompose_FallsBackOnFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	result := NewComposer(provider).Compose(context.Background(), supportedRequest())

	if result.Raw != nil {
		t.Error("raw model response must be nil on fallback")
	}
	if strings.TrimSpace(result.Explanation) == "" {
		t.Error("fallback explanation must be non-empty")
	}
}

func TestCompose_FallsBackOnEmptyResponse(t *testing.T) {
	provider := &fakeProvider{responses: []string{"   "}}
	result := NewComposer(provider).Compose(context.Background(), supportedRequest())

	if result.Raw != nil || strings.TrimSpace(result.Explanation) == "" {
		t.Errorf("expected template fallback, got %+v", result)
	}
}

func TestCompose_NilProviderUsesTemplate(t *testing.T) {
	result := NewComposer(nil).Compose(context.Background(), supportedRequest())

	if result.Raw != nil {
		t.Error("raw model response must be nil without a provider")
	}
	if !strings.Contains(result.Explanation, "0.90") {
		t.Errorf("template must embed feature values, got %q", result.Explanation)
	}
}

func TestCompose_ReasoningRunsTwoSteps(t *testing.T) {
	provider := &fakeProvider{responses: []string{"analysis of excerpts", "final explanation"}}
	req := supportedRequest()
	req.Reasoning = true

	result := NewComposer(provider).Compose(context.Background(), req)

	if provider.calls != 2 {
		t.Fatalf("provider called %d times, want 2", provider.calls)
	}
	if result.Explanation != "final explanation" {
		t.Errorf("explanation = %q, want the second-step output", result.Explanation)
	}
	if !strings.Contains(provider.prompts[1], "analysis of excerpts") {
		t.Error("second step must be grounded in the first-step analysis")
	}
}

func TestTemplate_AllVerdicts(t *testing.T) {
	for _, v := range []model.Verdict{
		model.VerdictSupported,
		model.VerdictRefuted,
		model.VerdictContested,
		model.VerdictNotEnoughEvidence,
		model.VerdictError,
	} {
		req := supportedRequest()
		req.Verdict = v
		if strings.TrimSpace(Template(req)) == "" {
			t.Errorf("empty template for verdict %s", v)
		}
	}
}
