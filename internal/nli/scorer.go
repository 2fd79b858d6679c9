// Package nli provides the entailment/contradiction scoring collaborator
// interface and its HTTP adapter.
package nli

import (
	"context"
	"errors"
)

// ErrScoringUnavailable indicates the NLI service could not be reached or
// returned malformed output. Each item's failure is independent: one failed
// item never aborts scoring of the rest.
var ErrScoringUnavailable = errors.New("nli scoring unavailable")

// Scores holds one scoring outcome. Both values are independently bounded
// in [0,1] and do not need to sum to 1.
type Scores struct {
	Entailment    float64 `json:"entailment"`
	Contradiction float64 `json:"contradiction"`
}

// Scorer scores one (claim, snippet) pair. Implementations are pure with
// respect to the pipeline.
type Scorer interface {
	Score(ctx context.Context, claim, snippet string) (Scores, error)
}
