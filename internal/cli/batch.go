package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewminer/reviewminer/internal/cache"
	"github.com/reviewminer/reviewminer/internal/pipeline"
	"github.com/reviewminer/reviewminer/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchNoCache     bool
	batchNoEnc       bool
	batchNoQA        bool
	batchVocab       string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Extract records from many documents in parallel",
	Long: `Batch reads a manifest of document paths (one per line, # comments
allowed) and extracts every document on a worker pool. Identical
documents are served from the record cache instead of re-extracted.

One JSON record is written per document into the output directory.

Example:
  reviewminer batch reviews.txt
  reviewminer batch reviews.txt --concurrency 8 --output-dir ./records`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./reviewminer-records", "output directory for records")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the record cache")
	batchCmd.Flags().BoolVar(&batchNoEnc, "no-encoder", false, "skip dense retrieval, scan all sentences")
	batchCmd.Flags().BoolVar(&batchNoQA, "no-qa", false, "disable the QA backstop, rules only")
	batchCmd.Flags().StringVar(&batchVocab, "vocab", "", "vocabulary file (default: embedded vocabulary)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	if batchConcurrency > 0 {
		cfg.Concurrency.Workers = batchConcurrency
	}
	if batchNoCache {
		cfg.Cache.Enabled = false
	}
	if batchNoEnc {
		cfg.Encoder.Disabled = true
	}
	if batchNoQA {
		cfg.QA.Disabled = true
	}
	if batchVocab != "" {
		cfg.Vocabulary.Path = batchVocab
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	var recordCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			recordCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			recordCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Manifest:  %s\n", manifest)
	fmt.Fprintf(os.Stderr, "Workers:   %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "Output:    %s\n\n", batchOutputDir)

	processor := worker.NewBatchProcessor(p, recordCache, cfg.Cache.TTL, cfg.Concurrency.Workers)
	results, err := processor.ProcessList(ctx, manifest)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(os.Stderr)
	successCount := 0
	failureCount := 0
	cachedCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Err)
			continue
		}
		successCount++
		if result.Cached {
			cachedCount++
		}

		jsonPath := filepath.Join(batchOutputDir, recordFilename(result.Path))
		if err := renderer.RenderJSON(result.Record, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write record: %v\n", result.Path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s\n", result.Path, jsonPath)
	}

	fmt.Fprintf(os.Stderr, "\nTotal:    %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "Success:  %d (%d from cache)\n", successCount, cachedCount)
	fmt.Fprintf(os.Stderr, "Failures: %d\n", failureCount)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d documents failed", failureCount, len(results))
	}
	return nil
}

// recordFilename derives the output record name from the document path.
func recordFilename(docPath string) string {
	base := filepath.Base(docPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "record"
	}
	return base + ".json"
}
