// Package retrieve provides the evidence retrieval collaborator interface
// and its HTTP adapter.
package retrieve

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/factlens/factlens/internal/model"
	"golang.org/x/net/publicsuffix"
)

// ErrRetrievalFailed indicates the retrieval service was unreachable or
// returned an error. An empty result set is not a failure.
var ErrRetrievalFailed = errors.New("evidence retrieval failed")

// Retriever produces candidate evidence passages for a claim.
type Retriever interface {
	Retrieve(ctx context.Context, claim string) ([]model.EvidenceItem, error)
}

// DomainFromURL derives the registrable source domain from a raw URL.
// Falls back to the bare host, then "unknown".
func DomainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	host := strings.ToLower(u.Hostname())
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}
