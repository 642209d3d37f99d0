package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/pipeline"
	"github.com/KajetanPoliak/proklep/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	checkTimeout time.Duration
	rps          float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check multiple listing URLs from a file in parallel",
	Long: `Batch reads listing URLs from a file (one per line, # comments and
blank lines skipped, duplicates dropped) and checks them concurrently.
Each listing produces its own result files; the run ends with a single
summary.json.

Example:
  proklep batch urls.txt
  proklep batch urls.txt --concurrency 8 --output-dir ./results
  proklep batch urls.txt --llm --rps 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addListingFlags(batchCmd)

	defaults := model.DefaultConfig()
	batchCmd.Flags().IntVar(&concurrency, "concurrency", defaults.Concurrency.Workers, "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch run")
	batchCmd.Flags().DurationVar(&checkTimeout, "check-timeout", 30*time.Second, "HTTP timeout for individual fetches")
	batchCmd.Flags().Float64Var(&rps, "rps", defaults.RateLimit.RequestsPerSecond, "max requests per second per domain")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig(checkTimeout)
	cfg.Concurrency.Workers = concurrency
	cfg.RateLimit.RequestsPerSecond = rps

	p, renderer, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	urls, err := worker.ReadURLsFromFile(file)
	if err != nil {
		return fmt.Errorf("read URLs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d URLs, %d workers, output %s\n", len(urls), concurrency, cfg.Output.Dir)

	processor := worker.NewBatchProcessor(p, concurrency)
	outcomes := processor.ProcessURLs(ctx, urls)

	aggregator := pipeline.NewAggregator(cfg)
	for _, outcome := range outcomes {
		aggregator.Record(outcome)
		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.URL, outcome.Err)
			continue
		}
		if err := renderer.WriteOutcome(outcome); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write results: %v\n", outcome.URL, err)
			continue
		}
		if verbose {
			printOutcome(outcome)
		}
	}

	summary := aggregator.Summary()
	if err := renderer.WriteSummary(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d, failed %d, partial %d\n",
		summary.TotalURLsProcessed, summary.FailedListings, summary.PartialExtractions)
	if summary.UseLLM {
		fmt.Fprintf(os.Stderr, "Consistent %d, inconsistent %d, degraded %d, avg findings %.2f\n",
			summary.ConsistentListings, summary.InconsistentListings,
			summary.DegradedAnalyses, summary.AvgFindingsPerListing)
	}
	return nil
}
