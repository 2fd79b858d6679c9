package model

// Known explanation providers. The hosted API and the self-hosted runtime
// are the only two the system switches between.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ProviderState is the process-wide explanation-provider configuration.
// It is replaced atomically on switch; each request snapshots it once at
// pipeline start.
type ProviderState struct {
	Provider         string `json:"provider"`
	ReasoningEnabled bool   `json:"reasoning_enabled"`
}

// KnownProvider reports whether id names a supported provider.
func KnownProvider(id string) bool {
	switch id {
	case ProviderOpenAI, ProviderOllama:
		return true
	}
	return false
}
