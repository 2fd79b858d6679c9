// Package features reduces a scored evidence set to a feature vector.
package features

import "github.com/factlens/factlens/internal/model"

// Aggregator computes feature vectors from evidence sets.
type Aggregator struct {
	supportThreshold float64 // Per-domain entailment cutoff for agreement
}

// NewAggregator creates an aggregator with the given support threshold.
func NewAggregator(supportThreshold float64) *Aggregator {
	return &Aggregator{supportThreshold: supportThreshold}
}

// Aggregate reduces the evidence set to one FeatureVector.
//
// Maxima and the agreeing-domain count cover only items that were
// successfully scored. RelevanceAvg covers every item supplied, scored or
// not, because relevance is retrieval-time information. The reduction has
// multiset semantics: permuting the input never changes the output.
func (a *Aggregator) Aggregate(items []model.EvidenceItem) model.FeatureVector {
	var fv model.FeatureVector
	if len(items) == 0 {
		return fv
	}

	relevanceSum := 0.0
	for _, item := range items {
		relevanceSum += item.Relevance
	}
	fv.RelevanceAvg = relevanceSum / float64(len(items))

	// Per-domain best entailment among scored items. Ties may resolve to
	// any qualifying item; only the numeric value is observed downstream.
	bestByDomain := make(map[string]float64)
	scored := 0
	for _, item := range items {
		if !item.Scored() {
			continue
		}
		scored++
		if *item.Entailment > fv.EntailMax {
			fv.EntailMax = *item.Entailment
		}
		if *item.Contradiction > fv.ContradictMax {
			fv.ContradictMax = *item.Contradiction
		}
		if *item.Entailment > bestByDomain[item.SourceDomain] {
			bestByDomain[item.SourceDomain] = *item.Entailment
		}
	}
	if scored == 0 {
		return fv
	}

	for _, best := range bestByDomain {
		if best > a.supportThreshold {
			fv.AgreeDomainCount++
		}
	}
	return fv
}
