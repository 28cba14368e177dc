// Package extract implements the per-slot extractors that mine typed
// values from systematic-review full text. Each slot is a function over
// the immutable per-request input: the ordered sentences, the full text,
// the vocabulary registry and the sentence retriever.
package extract

import (
	"context"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/retrieve"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

// Input bundles everything a slot extractor may read. All fields are
// immutable for the duration of the request.
type Input struct {
	Sentences []string
	FullText  string
	Vocab     *vocab.Registry
	Retriever retrieve.Retriever
}

// window retrieves the top-k sentences for a slot query. Retrieval
// failures degrade to scanning all sentences; exact-match patterns give
// the same answers either way, just slower.
func (in *Input) window(ctx context.Context, query string, k int) []string {
	if in.Retriever == nil {
		return in.Sentences
	}
	top, err := in.Retriever.TopK(ctx, query, k)
	if err != nil || len(top) == 0 {
		return in.Sentences
	}
	return top
}

// Evidence accumulates the sentences that drove slot decisions, bounded
// per document.
type Evidence struct {
	pairs []model.EvidencePair
}

// Add records one evidence pair unless the document bound is reached.
func (e *Evidence) Add(field, text string) {
	if len(e.pairs) >= model.MaxEvidencePerDocument {
		return
	}
	e.pairs = append(e.pairs, model.EvidencePair{Field: field, Text: text})
}

// Pairs returns the recorded evidence in insertion order.
func (e *Evidence) Pairs() []model.EvidencePair {
	return e.pairs
}
