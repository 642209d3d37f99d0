package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/pipeline"
)

// Runner checks one listing URL end to end. Satisfied by pipeline.Pipeline.
type Runner interface {
	CheckURL(ctx context.Context, url string) *pipeline.Outcome
}

// CheckJob is one URL check scheduled on the pool.
type CheckJob struct {
	URL    string
	Runner Runner
}

// CheckResult wraps the pipeline outcome for the pool.
type CheckResult struct {
	Outcome *pipeline.Outcome
}

// GetError returns the outcome's error.
func (r *CheckResult) GetError() error {
	return r.Outcome.Err
}

// Execute runs the check job.
func (j *CheckJob) Execute(ctx context.Context) Result {
	return &CheckResult{Outcome: j.Runner.CheckURL(ctx, j.URL)}
}

// BatchProcessor checks multiple URLs concurrently.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given concurrency.
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessURLs checks the given URLs on the pool and returns the outcomes.
// Cancelling ctx stops scheduling; outcomes of finished jobs are still
// returned.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*pipeline.Outcome {
	if len(urls) == 0 {
		return nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, url := range urls {
		pool.Submit(&CheckJob{URL: url, Runner: b.runner})
	}

	results := pool.Wait()

	outcomes := make([]*pipeline.Outcome, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, result.(*CheckResult).Outcome)
	}
	return outcomes
}

// ProcessFile reads URLs from a file and checks them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*pipeline.Outcome, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks and #-comments
// and deduplicating.
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return urls, nil
}
