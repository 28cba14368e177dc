package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reviewminer/reviewminer/internal/cache"
	"github.com/reviewminer/reviewminer/internal/model"
)

// Extractor runs the core pipeline over one document.
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.Record, error)
}

// DocumentJob extracts one document file, consulting the record cache
// when one is configured.
type DocumentJob struct {
	Path      string
	Extractor Extractor
	Cache     cache.Cache
	TTL       time.Duration
}

// DocumentResult is the outcome of one document extraction.
type DocumentResult struct {
	Path   string
	Record *model.Record
	Cached bool
	Err    error
}

// GetError implements Result.
func (r *DocumentResult) GetError() error {
	return r.Err
}

// Execute implements Job.
func (j *DocumentJob) Execute(ctx context.Context) Result {
	raw, err := os.ReadFile(j.Path)
	if err != nil {
		return &DocumentResult{Path: j.Path, Err: fmt.Errorf("read document: %w", err)}
	}
	text := string(raw)

	key := cache.Key(text)
	if j.Cache != nil {
		if data, found := j.Cache.Get(key); found {
			var rec model.Record
			if err := json.Unmarshal(data, &rec); err == nil {
				return &DocumentResult{Path: j.Path, Record: &rec, Cached: true}
			}
		}
	}

	rec, err := j.Extractor.Extract(ctx, text)
	if err != nil {
		return &DocumentResult{Path: j.Path, Err: err}
	}
	if j.Cache != nil {
		if data, err := json.Marshal(rec); err == nil {
			_ = j.Cache.Set(key, data, j.TTL)
		}
	}
	return &DocumentResult{Path: j.Path, Record: rec}
}

// BatchProcessor extracts many documents concurrently.
type BatchProcessor struct {
	extractor Extractor
	cache     cache.Cache
	ttl       time.Duration
	workers   int
}

// NewBatchProcessor creates a processor. A nil cache disables record
// caching.
func NewBatchProcessor(extractor Extractor, c cache.Cache, ttl time.Duration, workers int) *BatchProcessor {
	return &BatchProcessor{
		extractor: extractor,
		cache:     c,
		ttl:       ttl,
		workers:   workers,
	}
}

// ProcessPaths extracts every document path on the pool.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(b.workers)
	pool.Start()
	for _, path := range paths {
		pool.Submit(&DocumentJob{
			Path:      path,
			Extractor: b.extractor,
			Cache:     b.cache,
			TTL:       b.ttl,
		})
	}

	results := pool.Wait()
	out := make([]*DocumentResult, len(results))
	for i, result := range results {
		out[i] = result.(*DocumentResult)
	}
	return out
}

// ProcessList reads a manifest of document paths and extracts them all.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*DocumentResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths, one per line. Blank lines and
// # comments are skipped, duplicates dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
