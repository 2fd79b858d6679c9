// Package pipeline orchestrates the claim verification flow:
// retrieval, concurrent NLI scoring, feature aggregation, verdict
// classification and explanation composition.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/factlens/factlens/internal/cache"
	"github.com/factlens/factlens/internal/explain"
	"github.com/factlens/factlens/internal/features"
	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/nli"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/retrieve"
	"github.com/factlens/factlens/internal/verdict"
	"github.com/factlens/factlens/internal/worker"
)

// State names a pipeline stage. A request moves through the states in
// order; Failed is terminal and reachable from any stage.
type State string

const (
	StateReceived           State = "received"
	StateEvidenceGathered   State = "evidence_gathered"
	StateScored             State = "scored"
	StateFeaturesAggregated State = "features_aggregated"
	StateClassified         State = "classified"
	StateExplained          State = "explained"
	StateCompleted          State = "completed"
	StateFailed             State = "failed"
)

// Pipeline wires the collaborators into the end-to-end claim flow.
// Safe for concurrent use; per-request state lives on the stack.
type Pipeline struct {
	retriever  retrieve.Retriever
	scorer     nli.Scorer
	aggregator *features.Aggregator
	classifier *verdict.Classifier
	providers  map[string]llm.Provider
	registry   *registry.Registry
	pool       *worker.Pool
	config     *model.Config
}

// NewPipeline creates a pipeline from the configuration. Explanation
// providers that cannot be constructed (e.g. missing API key) are skipped
// with a warning; requests routed to them degrade to the templated
// explanation.
func NewPipeline(cfg *model.Config, reg *registry.Registry) *Pipeline {
	var retriever retrieve.Retriever = retrieve.NewHTTPRetriever(cfg.Retrieval)
	var scorer nli.Scorer = nli.NewRemoteScorer(cfg.NLI)

	if cfg.Cache.Enabled {
		mem := cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
		retriever = retrieve.NewCachedRetriever(retriever, mem, cfg.Cache.TTL)
		scorer = nli.NewCachedScorer(scorer, mem, cfg.Cache.TTL)
	}

	providers := make(map[string]llm.Provider)
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	for _, id := range []string{model.ProviderOpenAI, model.ProviderOllama} {
		p, err := llm.NewProvider(id, llmCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: explanation provider %s unavailable: %v\n", id, err)
			continue
		}
		providers[id] = p
	}

	return &Pipeline{
		retriever:  retriever,
		scorer:     scorer,
		aggregator: features.NewAggregator(cfg.Thresholds.Support),
		classifier: verdict.NewClassifier(cfg.Thresholds),
		providers:  providers,
		registry:   reg,
		pool:       worker.NewPool(cfg.Concurrency.ScoringWorkers),
		config:     cfg,
	}
}

// VerifyClaim runs the full verification flow for one claim.
//
// The returned error is non-nil only for invalid input (model.ErrEmptyClaim,
// no result) and retrieval failure (retrieve.ErrRetrievalFailed, alongside a
// well-formed Error-verdict result). Scoring and explanation failures are
// absorbed into a degraded result.
func (p *Pipeline) VerifyClaim(ctx context.Context, rawClaim, providerHint string) (*model.FactCheckResult, error) {
	claim, err := model.ValidateClaim(rawClaim)
	if err != nil {
		return nil, err
	}

	// Snapshot the provider state exactly once; a switch mid-flight does
	// not affect this request.
	snapshot := p.registry.GetActive()
	if providerHint != "" && model.KnownProvider(providerHint) {
		snapshot.Provider = providerHint
	}
	p.trace(StateReceived, claim)

	items, err := p.retriever.Retrieve(ctx, claim)
	if err != nil {
		p.trace(StateFailed, claim)
		result := &model.FactCheckResult{
			Claim:   claim,
			Verdict: model.VerdictError,
			Score:   0,
			Explanation: explain.Template(explain.Request{
				Claim:   claim,
				Verdict: model.VerdictError,
			}),
			Citations: []model.EvidenceItem{},
			Provider:  snapshot.Provider,
		}
		return result, fmt.Errorf("retrieve evidence: %w", err)
	}
	p.trace(StateEvidenceGathered, claim)

	if len(items) == 0 {
		// Empty retrieval is not a failure: the claim simply has no
		// evidence to judge it by.
		return &model.FactCheckResult{
			Claim:   claim,
			Verdict: model.VerdictNotEnoughEvidence,
			Score:   0,
			Explanation: explain.Template(explain.Request{
				Claim:   claim,
				Verdict: model.VerdictNotEnoughEvidence,
			}),
			Citations: []model.EvidenceItem{},
			Provider:  snapshot.Provider,
		}, nil
	}

	p.scoreItems(ctx, claim, items)
	p.trace(StateScored, claim)

	fv := p.aggregator.Aggregate(items)
	p.trace(StateFeaturesAggregated, claim)

	v, score := p.classifier.Classify(fv)
	p.trace(StateClassified, claim)

	citations := p.selectCitations(items)

	composed := explain.NewComposer(p.providers[snapshot.Provider]).Compose(ctx, explain.Request{
		Claim:     claim,
		Verdict:   v,
		Score:     score,
		Features:  fv,
		Citations: citations,
		Reasoning: snapshot.ReasoningEnabled,
	})
	p.trace(StateExplained, claim)

	result := &model.FactCheckResult{
		Claim:             claim,
		Verdict:           v,
		Score:             score,
		Explanation:       composed.Explanation,
		Citations:         citations,
		Features:          &fv,
		ModelResponseText: composed.Raw,
		Provider:          snapshot.Provider,
	}
	p.trace(StateCompleted, claim)
	return result, nil
}

// scoreJob scores a single evidence item. Each job owns its item; a
// failure leaves the item unscored and never aborts sibling jobs.
type scoreJob struct {
	claim  string
	item   *model.EvidenceItem
	scorer nli.Scorer
}

type scoreResult struct {
	err error
}

func (r *scoreResult) GetError() error { return r.err }

func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	scores, err := j.scorer.Score(ctx, j.claim, j.item.Snippet)
	if err != nil {
		return &scoreResult{err: err}
	}
	j.item.SetScores(scores.Entailment, scores.Contradiction)
	return &scoreResult{}
}

// scoreItems fans the per-item scoring calls out across the pool and
// waits for every one to complete or fail before returning: aggregation
// never runs on a partially-scored set.
func (p *Pipeline) scoreItems(ctx context.Context, claim string, items []model.EvidenceItem) {
	jobs := make([]worker.Job, len(items))
	for i := range items {
		jobs[i] = &scoreJob{claim: claim, item: &items[i], scorer: p.scorer}
	}

	results := p.pool.Run(ctx, jobs)

	if p.config.Output.Verbose {
		failed := 0
		for _, r := range results {
			if r == nil || r.GetError() != nil {
				failed++
			}
		}
		if failed > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d/%d evidence items failed scoring\n", failed, len(items))
		}
	}
}

// selectCitations ranks items by combined entailment and relevance and
// keeps the top K. The sort is stable, so ties keep retrieval order;
// unscored items rank with entailment 0.
func (p *Pipeline) selectCitations(items []model.EvidenceItem) []model.EvidenceItem {
	ranked := make([]model.EvidenceItem, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return citationRank(ranked[i]) > citationRank(ranked[j])
	})

	max := p.config.Thresholds.Citations
	if max <= 0 {
		max = 5
	}
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

func citationRank(item model.EvidenceItem) float64 {
	entail := 0.0
	if item.Entailment != nil {
		entail = *item.Entailment
	}
	return 0.6*entail + 0.4*item.Relevance
}

func (p *Pipeline) trace(state State, claim string) {
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "pipeline %-20s %.60q\n", state, claim)
	}
}
