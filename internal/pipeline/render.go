package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/factlens/factlens/internal/model"
)

var verdictMarkers = map[model.Verdict]string{
	model.VerdictSupported:         "✓",
	model.VerdictRefuted:           "✗",
	model.VerdictContested:         "~",
	model.VerdictNotEnoughEvidence: "?",
	model.VerdictError:             "!",
}

// RenderText formats a result for terminal display.
func RenderText(result *model.FactCheckResult) string {
	marker, ok := verdictMarkers[result.Verdict]
	if !ok {
		marker = "?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (Score: %d/100)\n\n", marker, strings.ToUpper(string(result.Verdict)), result.Score)
	fmt.Fprintf(&b, "Claim: %q\n\n", result.Claim)

	if result.Features != nil {
		b.WriteString("Evidence Summary:\n")
		fmt.Fprintf(&b, "- Max Support: %.2f\n", result.Features.EntailMax)
		fmt.Fprintf(&b, "- Max Contradiction: %.2f\n", result.Features.ContradictMax)
		fmt.Fprintf(&b, "- Agreeing Sources: %d\n", result.Features.AgreeDomainCount)
		fmt.Fprintf(&b, "- Avg Relevance: %.2f\n\n", result.Features.RelevanceAvg)
	}

	fmt.Fprintf(&b, "Explanation:\n%s\n", result.Explanation)

	if len(result.Citations) > 0 {
		b.WriteString("\nCitations:\n")
		for i, cite := range result.Citations {
			snippet := cite.Snippet
			if len(snippet) > 150 {
				snippet = snippet[:150] + "..."
			}
			fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, cite.Title, cite.URL, snippet)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// WriteJSON writes the result as indented JSON to the given path.
func WriteJSON(result *model.FactCheckResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
