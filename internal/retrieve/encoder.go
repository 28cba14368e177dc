// Package retrieve ranks candidate sentences per information slot using
// dense embeddings under a frozen sentence encoder.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// ErrEncoderUnavailable reports that the dense encoder could not be
// loaded. Callers degrade to scanning all sentences.
var ErrEncoderUnavailable = errors.New("sentence encoder unavailable")

// Encoder produces L2-normalized sentence embeddings. Implementations are
// loaded once and stateless at call time.
type Encoder interface {
	EmbedSentences(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// FastEmbedEncoder runs a local ONNX embedding model via fastembed.
type FastEmbedEncoder struct {
	model *fastembed.FlagEmbedding
	mu    sync.RWMutex
}

// FastEmbedConfig configures the local encoder.
type FastEmbedConfig struct {
	// Model is the embedding model name, e.g. BAAI/bge-small-en-v1.5.
	Model string
	// CacheDir caches downloaded model files.
	CacheDir string
	// MaxLength is the maximum input sequence length. Defaults to 512.
	MaxLength int
}

var fastEmbedModels = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// NewFastEmbedEncoder loads the encoder once. Returns a wrapped
// ErrEncoderUnavailable when the model cannot be initialized.
func NewFastEmbedEncoder(cfg FastEmbedConfig) (*FastEmbedEncoder, error) {
	model, ok := fastEmbedModels[cfg.Model]
	if !ok {
		model = fastembed.EmbeddingModel(cfg.Model)
	}

	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	showProgress := false

	flag, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cfg.CacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	return &FastEmbedEncoder{model: flag}, nil
}

// EmbedSentences embeds document sentences with the passage prefix the
// BGE family expects.
func (e *FastEmbedEncoder) EmbedSentences(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	embeddings, err := e.model.PassageEmbed(texts, 256)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	return embeddings, nil
}

// EmbedQuery embeds a slot query with the query prefix.
func (e *FastEmbedEncoder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	embedding, err := e.model.QueryEmbed(text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return embedding, nil
}

// Close releases the ONNX session.
func (e *FastEmbedEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Destroy()
		e.model = nil
	}
	return nil
}
