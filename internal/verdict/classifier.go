// Package verdict maps feature vectors to verdicts with a confidence score.
package verdict

import (
	"math"

	"github.com/factlens/factlens/internal/model"
)

// Classifier is a deterministic, total rule engine over feature vectors.
// Rules are evaluated in declaration order; the first match wins, so the
// dominant-signal rules take precedence over the symmetric Contested rule.
type Classifier struct {
	rules []rule
}

type rule struct {
	name    string
	verdict model.Verdict
	match   func(f model.FeatureVector) bool
	score   func(f model.FeatureVector) int
}

// NewClassifier builds the rule table from the configured thresholds.
func NewClassifier(cfg model.ThresholdConfig) *Classifier {
	high := cfg.High
	low := cfg.Low
	minDomains := cfg.MinDomains

	return &Classifier{rules: []rule{
		{
			name:    "no_signal",
			verdict: model.VerdictNotEnoughEvidence,
			match: func(f model.FeatureVector) bool {
				return f.EntailMax == 0 && f.ContradictMax == 0 && f.AgreeDomainCount == 0
			},
			score: func(model.FeatureVector) int { return 0 },
		},
		{
			name:    "supported",
			verdict: model.VerdictSupported,
			match: func(f model.FeatureVector) bool {
				return f.EntailMax >= high && f.ContradictMax < low && f.AgreeDomainCount >= minDomains
			},
			score: func(f model.FeatureVector) int {
				return relevanceAdjusted(f.EntailMax, f.RelevanceAvg)
			},
		},
		{
			name:    "refuted",
			verdict: model.VerdictRefuted,
			match: func(f model.FeatureVector) bool {
				return f.ContradictMax >= high && f.EntailMax < low
			},
			score: func(f model.FeatureVector) int {
				return relevanceAdjusted(f.ContradictMax, f.RelevanceAvg)
			},
		},
		{
			name:    "contested",
			verdict: model.VerdictContested,
			match: func(f model.FeatureVector) bool {
				return f.EntailMax >= low && f.ContradictMax >= low
			},
			// Contested claims score by the strength of the weaker of the
			// two conflicting signals.
			score: func(f model.FeatureVector) int {
				s := int(math.Round(100*math.Min(f.EntailMax, f.ContradictMax))) + 10
				if s > 100 {
					s = 100
				}
				return s
			},
		},
	}}
}

// Classify maps a feature vector to (verdict, score). Identical input
// always yields identical output.
func (c *Classifier) Classify(f model.FeatureVector) (model.Verdict, int) {
	for _, r := range c.rules {
		if r.match(f) {
			return r.verdict, r.score(f)
		}
	}
	// Signals exist but are all weak, or too few domains agree for a
	// Supported call.
	return model.VerdictNotEnoughEvidence, int(math.Round(100 * math.Max(f.EntailMax, f.ContradictMax) * 0.5))
}

// relevanceAdjusted scales a dominant signal by the mean evidence
// relevance: round(100 * min(1, signal * (0.7 + 0.3*relevanceAvg))).
func relevanceAdjusted(signal, relevanceAvg float64) int {
	v := signal * (0.7 + 0.3*relevanceAvg)
	if v > 1 {
		v = 1
	}
	return int(math.Round(100 * v))
}
