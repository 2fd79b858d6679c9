package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/pipeline"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/retrieve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON      string
	timeout      time.Duration
	retrievalURL string
	nliURL       string
	noCache      bool
	llmProvider  string
	llmModel     string
	reasoning    bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single claim against retrieved evidence",
	Long: `Check runs one claim through the full verification flow:
- Retrieve candidate evidence passages
- Score each passage for entailment and contradiction
- Aggregate the signals into a feature vector
- Classify the verdict with a transparent rule table
- Phrase an explanation grounded in the cited passages

Example:
  factlens check "The Moon landing occurred in 1969"
  factlens check "Water boils at 90C at sea level" --json result.json
  factlens check "..." --llm-provider ollama --llm-model llama3.1:8b --reasoning`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write result JSON to path (optional)")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall verification timeout")
	checkCmd.Flags().StringVar(&retrievalURL, "retrieval-url", "", "evidence retrieval service base URL")
	checkCmd.Flags().StringVar(&nliURL, "nli-url", "", "NLI scoring service base URL")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable retrieval/scoring caches")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "explanation provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "explanation model name")
	checkCmd.Flags().BoolVar(&reasoning, "reasoning", false, "enable multi-step reasoning for explanations")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	reg, err := registry.New(cfg.LLM.Provider, cfg.LLM.Reasoning)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, reg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %q\n", claim)
		fmt.Fprintf(os.Stderr, "Provider: %s (reasoning: %v)\n\n", cfg.LLM.Provider, cfg.LLM.Reasoning)
	}

	result, err := p.VerifyClaim(ctx, claim, "")
	if err != nil && !errors.Is(err, retrieve.ErrRetrievalFailed) {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n\n", err)
	}

	fmt.Println(pipeline.RenderText(result))

	if outJSON != "" {
		if err := pipeline.WriteJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "\n✓ Wrote JSON: %s\n", outJSON)
		}
	}
	return nil
}

// buildConfig layers defaults, config file, environment and flags.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	// Config file / environment via viper
	if v := viper.GetString("retrieval.base_url"); v != "" {
		cfg.Retrieval.BaseURL = v
	}
	if v := viper.GetInt("retrieval.top_k"); v > 0 {
		cfg.Retrieval.TopK = v
	}
	if v := viper.GetString("nli.base_url"); v != "" {
		cfg.NLI.BaseURL = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if viper.IsSet("llm.reasoning") {
		cfg.LLM.Reasoning = viper.GetBool("llm.reasoning")
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetInt("concurrency.scoring_workers"); v > 0 {
		cfg.Concurrency.ScoringWorkers = v
	}

	// Flags override
	if retrievalURL != "" {
		cfg.Retrieval.BaseURL = retrievalURL
	}
	if nliURL != "" {
		cfg.NLI.BaseURL = nliURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if reasoning {
		cfg.LLM.Reasoning = true
	}
	cfg.Output.Verbose = verbose

	// API keys from environment
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}
