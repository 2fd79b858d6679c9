package explain

import (
	"fmt"

	"github.com/factlens/factlens/internal/model"
)

// Template builds the fallback explanation from the verdict and feature
// values when no model response is available.
func Template(req Request) string {
	n := len(req.Citations)
	f := req.Features

	switch req.Verdict {
	case model.VerdictSupported:
		return fmt.Sprintf(
			"Evidence across %d source(s) shows maximal support %.2f against maximal contradiction %.2f, with %d independent domain(s) agreeing. The retrieved passages consistently align with the claim.",
			n, f.EntailMax, f.ContradictMax, f.AgreeDomainCount)
	case model.VerdictRefuted:
		return fmt.Sprintf(
			"Evidence across %d source(s) shows maximal contradiction %.2f against maximal support %.2f. The retrieved passages conflict with the claim.",
			n, f.ContradictMax, f.EntailMax)
	case model.VerdictContested:
		return fmt.Sprintf(
			"Evidence across %d source(s) is conflicting: maximal support %.2f and maximal contradiction %.2f are both substantial. Sources disagree about this claim.",
			n, f.EntailMax, f.ContradictMax)
	case model.VerdictError:
		return "Evidence retrieval failed, so the claim could not be verified."
	default:
		if n == 0 {
			return "No relevant evidence was found for this claim."
		}
		return fmt.Sprintf(
			"Evidence across %d source(s) is too weak to judge the claim: maximal support %.2f, maximal contradiction %.2f, %d agreeing domain(s).",
			n, f.EntailMax, f.ContradictMax, f.AgreeDomainCount)
	}
}
