package model

import "time"

// Config holds the complete FactLens configuration
type Config struct {
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	NLI         NLIConfig         `yaml:"nli" mapstructure:"nli"`
	Thresholds  ThresholdConfig   `yaml:"thresholds" mapstructure:"thresholds"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// RetrievalConfig configures the evidence retrieval service client
type RetrievalConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"` // Vector search service endpoint
	TopK    int           `yaml:"top_k" mapstructure:"top_k"`       // Passages to retrieve per claim
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// NLIConfig configures the entailment/contradiction scoring service client
type NLIConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-item scoring timeout
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// ThresholdConfig holds the verdict classification thresholds
type ThresholdConfig struct {
	High       float64 `yaml:"high" mapstructure:"high"`               // Strong signal cutoff
	Low        float64 `yaml:"low" mapstructure:"low"`                 // Weak signal cutoff
	Support    float64 `yaml:"support" mapstructure:"support"`         // Per-domain agreement cutoff
	MinDomains int     `yaml:"min_domains" mapstructure:"min_domains"` // Distinct agreeing domains for Supported
	Citations  int     `yaml:"citations" mapstructure:"citations"`     // Max citations in a result
}

// LLMConfig configures the explanation provider
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"` // Custom endpoint (e.g. Ollama)
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Reasoning bool          `yaml:"reasoning" mapstructure:"reasoning"` // Multi-step reasoning chain
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"` // Whole-pipeline budget per request
}

// CacheConfig configures the in-memory retrieval/scoring caches
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds the per-request scoring fan-out
type ConcurrencyConfig struct {
	ScoringWorkers int `yaml:"scoring_workers" mapstructure:"scoring_workers"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Retrieval: RetrievalConfig{
			BaseURL: "http://localhost:6333",
			TopK:    20,
			Timeout: 15 * time.Second,
		},
		NLI: NLIConfig{
			BaseURL:           "http://localhost:8090",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
		},
		Thresholds: ThresholdConfig{
			High:       0.75,
			Low:        0.35,
			Support:    0.5,
			MinDomains: 2,
			Citations:  5,
		},
		LLM: LLMConfig{
			Provider:  ProviderOpenAI,
			Model:     "",
			Timeout:   30 * time.Second,
			MaxTokens: 1000,
			Reasoning: false,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			ScoringWorkers: 8,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
