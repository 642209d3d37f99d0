package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/fetch"
	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/pipeline"
	"github.com/KajetanPoliak/proklep/internal/worker"
)

var (
	outputDir      string
	timeout        time.Duration
	userAgent      string
	maxBytes       int64
	noCache        bool
	cacheDir       string
	llmEnabled     bool
	llmModel       string
	llmTemperature float32
	mockLLM        bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check a single listing URL",
	Long: `Check fetches one listing page, extracts and normalizes its data,
enriches it with district statistics and writes the result files into the
output directory.

With --llm the description is additionally converted into structured facts
and cross-checked for inconsistencies.

Example:
  proklep check https://www.bezrealitky.cz/nemovitosti-byty-domy/12345-nabidka-prodej-bytu
  proklep check https://www.sreality.cz/detail/prodej/byt/3+kk/praha/67890 --llm`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addListingFlags(checkCmd)
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")
}

// addListingFlags registers the flags shared by check and batch.
func addListingFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()

	cmd.Flags().StringVar(&outputDir, "output-dir", defaults.Output.Dir, "output directory for result files")
	cmd.Flags().StringVar(&userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page and response caching")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", defaults.Cache.Dir, "disk cache directory")

	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM fact conversion and consistency checking")
	cmd.Flags().StringVar(&llmModel, "llm-model", "auto", "LLM model name (\"auto\" for the default)")
	cmd.Flags().Float32Var(&llmTemperature, "llm-temperature", defaults.LLM.Temperature, "LLM sampling temperature")
	cmd.Flags().BoolVar(&mockLLM, "mock-inconsistencies", false, "emit a fixed mock consistency report (test path)")
}

// buildConfig assembles the effective configuration from defaults and flags.
func buildConfig(httpTimeout time.Duration) *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = httpTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Dir = outputDir
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Enabled = true
		cfg.LLM.Model = llmModel
		cfg.LLM.Temperature = llmTemperature
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.LLM.MockInconsistencies = mockLLM
	return cfg
}

// buildPipeline wires the cache, rate limiter, fetcher and pipeline.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *pipeline.Renderer, error) {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	fetcher := fetch.New(cfg.HTTP, limiter, store)

	p, err := pipeline.New(cfg, fetcher, store)
	if err != nil {
		return nil, nil, err
	}
	return p, pipeline.NewRenderer(cfg.Output), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig(timeout)
	p, renderer, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", url)
	}

	outcome := p.CheckURL(ctx, url)
	if outcome.Err != nil {
		return fmt.Errorf("check failed: %w", outcome.Err)
	}

	if err := renderer.WriteOutcome(outcome); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	printOutcome(outcome)
	return nil
}

// printOutcome writes a short human-readable result to stderr.
func printOutcome(o *pipeline.Outcome) {
	listing := o.Listing
	fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", listing.ListingID, listing.Address())
	if len(listing.MissingCritical) > 0 {
		fmt.Fprintf(os.Stderr, "  partial extraction, missing: %v\n", listing.MissingCritical)
	}
	if o.Stats != nil {
		fmt.Fprintf(os.Stderr, "  district: %s (avg %d Kč/m², tier %s)\n",
			o.Stats.AdminDistrict, o.Stats.AvgPricePerM2, o.Stats.PriceTier)
	}
	if o.Report != nil {
		if o.Report.IsConsistent {
			fmt.Fprintf(os.Stderr, "  consistent: no findings\n")
		} else {
			fmt.Fprintf(os.Stderr, "  %d findings: %s\n", o.Report.TotalInconsistencies, o.Report.Summary)
		}
	}
}
