package cli

import (
	"fmt"
	"os"

	"github.com/factlens/factlens/internal/pipeline"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Serve exposes the verification engine over HTTP:

  POST /api/check      {"claim": "...", "provider": "..."} -> verification result
  GET  /api/provider   -> active provider state
  POST /api/provider   {"provider": "openai"|"ollama"} -> switch provider
  POST /api/reasoning  {"enabled": true|false} -> toggle reasoning mode
  GET  /healthz

A provider switch takes effect for requests that start after the switch;
requests already in flight keep the provider they started with.

Example:
  factlens serve --addr :8080 --llm-provider openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringVar(&retrievalURL, "retrieval-url", "", "evidence retrieval service base URL")
	serveCmd.Flags().StringVar(&nliURL, "nli-url", "", "NLI scoring service base URL")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable retrieval/scoring caches")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "initial explanation provider (openai, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "explanation model name")
	serveCmd.Flags().BoolVar(&reasoning, "reasoning", false, "start with reasoning mode enabled")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	reg, err := registry.New(cfg.LLM.Provider, cfg.LLM.Reasoning)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, reg)
	srv := server.New(p, reg, cfg.Server)

	fmt.Fprintf(os.Stderr, "factlens listening on %s (provider: %s)\n", cfg.Server.Addr, cfg.LLM.Provider)
	return srv.Run(cfg.Server.Addr)
}
