package retrieve

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// Retriever returns the k sentences most relevant to a slot query, in
// descending similarity order.
type Retriever interface {
	TopK(ctx context.Context, query string, k int) ([]string, error)
}

// Index is a per-request dense index over a document's sentences.
// Sentence embeddings are computed once at construction and reused by
// every slot query; nothing is cached across requests.
type Index struct {
	encoder    Encoder
	sentences  []string
	collection *chromem.Collection
}

// NewIndex embeds the sentences and builds an in-memory cosine index.
func NewIndex(ctx context.Context, encoder Encoder, sentences []string) (*Index, error) {
	if encoder == nil {
		return nil, ErrEncoderUnavailable
	}
	if len(sentences) == 0 {
		return &Index{encoder: encoder}, nil
	}

	embeddings, err := encoder.EmbedSentences(ctx, sentences)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(sentences) {
		return nil, fmt.Errorf("encoder returned %d embeddings for %d sentences", len(embeddings), len(sentences))
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection("sentences", nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(sentences))
	for i, s := range sentences {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   s,
			Embedding: embeddings[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("index sentences: %w", err)
	}

	return &Index{encoder: encoder, sentences: sentences, collection: collection}, nil
}

// TopK returns the k most similar sentences to the query.
func (ix *Index) TopK(ctx context.Context, query string, k int) ([]string, error) {
	if ix.collection == nil || k <= 0 {
		return nil, nil
	}
	if n := len(ix.sentences); k > n {
		k = n
	}

	embedding, err := ix.encoder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := ix.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Content
	}
	return out, nil
}

// rejectEmbedding is installed as the collection's embedding function.
// All embeddings are precomputed, so any call to it is a bug.
func rejectEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embeddings must be precomputed")
}

// ScanAll is the degraded-mode retriever used when no encoder is
// available: every query returns all sentences, so extractors fall back
// to scanning the whole document.
type ScanAll struct {
	Sentences []string
}

// TopK returns every sentence regardless of query or k.
func (s ScanAll) TopK(ctx context.Context, query string, k int) ([]string, error) {
	return s.Sentences, nil
}
