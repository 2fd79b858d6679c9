package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/pipeline"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOut         string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify a list of claims concurrently",
	Long: `Batch reads one claim per line from the given file (or stdin when the
file is "-") and verifies each claim concurrently. Lines that are empty or
start with # are skipped.

Example:
  factlens batch claims.txt --concurrency 4
  cat claims.txt | factlens batch - --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "claims verified in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchOut, "json", "", "write all results as a JSON array to path")
	batchCmd.Flags().StringVar(&retrievalURL, "retrieval-url", "", "evidence retrieval service base URL")
	batchCmd.Flags().StringVar(&nliURL, "nli-url", "", "NLI scoring service base URL")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "explanation provider (openai, ollama)")
}

// verifyJob runs one claim through the pipeline.
type verifyJob struct {
	claim    string
	pipeline *pipeline.Pipeline
}

type verifyResult struct {
	claim  string
	result *model.FactCheckResult
	err    error
}

func (r *verifyResult) GetError() error { return r.err }

func (j *verifyJob) Execute(ctx context.Context) worker.Result {
	result, err := j.pipeline.VerifyClaim(ctx, j.claim, "")
	return &verifyResult{claim: j.claim, result: result, err: err}
}

func runBatch(cmd *cobra.Command, args []string) error {
	claims, err := readClaims(args[0])
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	reg, err := registry.New(cfg.LLM.Provider, cfg.LLM.Reasoning)
	if err != nil {
		return err
	}
	p := pipeline.NewPipeline(cfg, reg)

	jobs := make([]worker.Job, len(claims))
	for i, claim := range claims {
		jobs[i] = &verifyJob{claim: claim, pipeline: p}
	}

	fmt.Fprintf(os.Stderr, "Verifying %d claims (concurrency %d)...\n\n", len(claims), batchConcurrency)
	results := worker.NewPool(batchConcurrency).Run(ctx, jobs)

	var (
		collected []*model.FactCheckResult
		failed    int
	)
	for i, r := range results {
		vr, ok := r.(*verifyResult)
		if !ok || vr.result == nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %q: %v\n", claims[i], errOrCanceled(r))
			continue
		}
		collected = append(collected, vr.result)
		fmt.Printf("%s\n\n", pipeline.RenderText(vr.result))
	}

	if batchOut != "" {
		if err := writeBatchJSON(collected, batchOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", batchOut)
	}

	fmt.Fprintf(os.Stderr, "Done: %d verified, %d failed\n", len(collected), failed)
	return nil
}

func errOrCanceled(r worker.Result) error {
	if r == nil {
		return context.Canceled
	}
	return r.GetError()
}

func writeBatchJSON(results []*model.FactCheckResult, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readClaims reads one claim per line, skipping blanks and # comments.
func readClaims(path string) ([]string, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open claims file: %w", err)
		}
		defer func() { _ = f.Close() }()
	}

	var claims []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	return claims, nil
}
