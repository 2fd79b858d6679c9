package llm

import (
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/model"
)

// NewProvider creates a provider for the given identifier.
func NewProvider(id string, config Config) (Provider, error) {
	switch strings.ToLower(id) {
	case model.ProviderOpenAI:
		return NewOpenAIProvider(config)

	case model.ProviderOllama:
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: %s, %s)", id, model.ProviderOpenAI, model.ProviderOllama)
	}
}
