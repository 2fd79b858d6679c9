package model

// EvidenceItem represents one retrieved source passage for a claim.
// Entailment and Contradiction are nil until the item has been scored;
// once set they are never revised.
type EvidenceItem struct {
	Title         string   `json:"title"`                    // Passage title
	URL           string   `json:"url"`                      // Full source URL
	Snippet       string   `json:"snippet"`                  // Passage text
	SourceDomain  string   `json:"source_domain,omitempty"`  // Registrable domain derived from URL
	Relevance     float64  `json:"relevance"`                // Retrieval relevance, 0-1
	Entailment    *float64 `json:"entailment,omitempty"`     // NLI support probability, 0-1
	Contradiction *float64 `json:"contradiction,omitempty"`  // NLI refutation probability, 0-1
}

// Scored reports whether the item has been through NLI scoring.
// Entailment and contradiction are set together or not at all.
func (e *EvidenceItem) Scored() bool {
	return e.Entailment != nil && e.Contradiction != nil
}

// SetScores records the NLI scores for the item. Scores are set exactly
// once; a second call is ignored.
func (e *EvidenceItem) SetScores(entailment, contradiction float64) {
	if e.Scored() {
		return
	}
	e.Entailment = &entailment
	e.Contradiction = &contradiction
}

// FeatureVector is the aggregate over a scored evidence set.
// Maxima and the domain count are computed only over successfully scored
// items; RelevanceAvg covers every item supplied, since relevance is
// retrieval-time information independent of scoring success.
//
// The JSON name relevance_avg is canonical (an earlier payload revision
// called the same mean reliability_avg).
type FeatureVector struct {
	EntailMax        float64 `json:"entail_max"`         // Max entailment across scored items
	ContradictMax    float64 `json:"contradict_max"`     // Max contradiction across scored items
	AgreeDomainCount int     `json:"agree_domain_count"` // Distinct domains whose best item supports the claim
	RelevanceAvg     float64 `json:"relevance_avg"`      // Mean retrieval relevance over all items
}

// Verdict is the final categorical judgment for a claim.
type Verdict string

const (
	VerdictSupported         Verdict = "Supported"
	VerdictRefuted           Verdict = "Refuted"
	VerdictContested         Verdict = "Contested"
	VerdictNotEnoughEvidence Verdict = "Not enough evidence"
	VerdictError             Verdict = "Error"
)

// FactCheckResult is the complete outcome of one verification request.
// Immutable once built; never persisted.
type FactCheckResult struct {
	Claim             string         `json:"claim"`
	Verdict           Verdict        `json:"verdict"`
	Score             int            `json:"score"` // 0-100
	Explanation       string         `json:"explanation"`
	Citations         []EvidenceItem `json:"citations"`
	Features          *FeatureVector `json:"features,omitempty"`  // nil when no evidence was available
	ModelResponseText *string        `json:"model_response_text"` // Raw explainer output; nil on fallback
	Provider          string         `json:"provider,omitempty"`  // Provider snapshot the request ran with
}
