// Package explain turns a computed verdict into prose.
//
// The composer explains a decision, it never makes one: the verdict and
// score are fixed inputs, and a failing or disagreeing model response is
// replaced by a templated explanation built from the feature values.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
)

// ErrExplanationUnavailable indicates the explanation model failed.
// Recovered locally by the templated fallback; never surfaced to callers.
var ErrExplanationUnavailable = errors.New("explanation generation unavailable")

const systemInstruction = `You are explaining the outcome of an automated fact check.
The verdict and score are already decided and must not be questioned or revised.
Justify the verdict using ONLY the numbered evidence excerpts supplied.
Do not introduce outside knowledge, do not cite sources beyond the excerpts,
and never state that the claim is true or false - describe what the evidence shows.
Answer in 2-4 sentences.`

// Request carries everything the composer needs for one explanation.
type Request struct {
	Claim     string
	Verdict   model.Verdict
	Score     int
	Features  model.FeatureVector
	Citations []model.EvidenceItem
	Reasoning bool // Run the two-step analyze-then-compose chain
}

// Result is the composed explanation. Raw is nil when the fallback
// template produced the text.
type Result struct {
	Explanation string
	Raw         *string
}

// Composer phrases explanations through an LLM provider.
type Composer struct {
	provider llm.Provider
}

// NewComposer creates a composer backed by the given provider.
// A nil provider always falls back to the template.
func NewComposer(provider llm.Provider) *Composer {
	return &Composer{provider: provider}
}

// Compose generates the explanation text. Provider failure is non-fatal:
// the result degrades to the templated explanation and a nil Raw.
func (c *Composer) Compose(ctx context.Context, req Request) Result {
	if c.provider == nil {
		return Result{Explanation: Template(req)}
	}

	text, err := c.generate(ctx, req)
	if err != nil || strings.TrimSpace(text) == "" {
		return Result{Explanation: Template(req)}
	}
	return Result{Explanation: text, Raw: &text}
}

func (c *Composer) generate(ctx context.Context, req Request) (string, error) {
	prompt := buildPrompt(req)

	if req.Reasoning {
		// Two-step chain: an analysis pass over the evidence, then the
		// final phrasing grounded in that analysis.
		analysis, err := c.call(ctx, fmt.Sprintf(
			"Before writing the explanation, list the key agreements and conflicts between the claim and each evidence excerpt, one line per excerpt.\n\n%s", prompt))
		if err != nil {
			return "", err
		}
		return c.call(ctx, fmt.Sprintf("%s\n\nEvidence analysis:\n%s\n\nNow write the final explanation.", prompt, analysis))
	}

	return c.call(ctx, prompt)
}

func (c *Composer) call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Generate(ctx, llm.GenerateRequest{
		System: systemInstruction,
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExplanationUnavailable, err)
	}
	return resp.Text, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %q\n", req.Claim)
	fmt.Fprintf(&b, "Verdict: %s (confidence %d/100)\n", req.Verdict, req.Score)
	fmt.Fprintf(&b, "Evidence summary: max support %.2f, max contradiction %.2f, %d agreeing sources, mean relevance %.2f\n\n",
		req.Features.EntailMax, req.Features.ContradictMax, req.Features.AgreeDomainCount, req.Features.RelevanceAvg)

	if len(req.Citations) == 0 {
		b.WriteString("No evidence excerpts are available.\n")
	} else {
		b.WriteString("Evidence excerpts:\n")
		for i, cite := range req.Citations {
			snippet := cite.Snippet
			if len(snippet) > 400 {
				snippet = snippet[:400] + "..."
			}
			fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, cite.SourceDomain, cite.Title, snippet)
		}
	}

	b.WriteString("\nExplain why the evidence led to this verdict.")
	return b.String()
}
