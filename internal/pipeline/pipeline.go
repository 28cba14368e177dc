// Package pipeline orchestrates the complete extraction process: ingest,
// dense retrieval, the slot extractors, reconciliation and assembly.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reviewminer/reviewminer/internal/amstar"
	"github.com/reviewminer/reviewminer/internal/assemble"
	"github.com/reviewminer/reviewminer/internal/extract"
	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/retrieve"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

// Pipeline holds the process-wide frozen resources: vocabulary, encoder
// and QA answerer. Safe for concurrent use across documents.
type Pipeline struct {
	cfg       *model.Config
	vocab     *vocab.Registry
	encoder   *retrieve.FastEmbedEncoder // nil when disabled or unavailable
	evaluator *amstar.Evaluator
	log       *zap.Logger
}

// New creates a pipeline from the configuration. Encoder and QA failures
// are degradations, not errors: extraction continues with full-document
// scans and rule-only AMSTAR answers.
func New(cfg *model.Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var reg *vocab.Registry
	var err error
	if cfg.Vocabulary.Path != "" {
		reg, err = vocab.LoadFile(cfg.Vocabulary.Path)
	} else {
		reg, err = vocab.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	var encoder *retrieve.FastEmbedEncoder
	if !cfg.Encoder.Disabled {
		encoder, err = retrieve.NewFastEmbedEncoder(retrieve.FastEmbedConfig{
			Model:    cfg.Encoder.Model,
			CacheDir: cfg.Encoder.CacheDir,
		})
		if err != nil {
			log.Warn("dense encoder unavailable, scanning all sentences", zap.Error(err))
			encoder = nil
		}
	}

	var answerer amstar.Answerer
	if !cfg.QA.Disabled && cfg.QA.Provider == "openai" {
		a, err := amstar.NewOpenAIAnswerer(cfg.QA)
		if err != nil {
			log.Warn("QA answerer unavailable, rule-only evaluation", zap.Error(err))
		} else {
			answerer = a
		}
	}

	return &Pipeline{
		cfg:       cfg,
		vocab:     reg,
		encoder:   encoder,
		evaluator: amstar.New(reg, answerer),
		log:       log,
	}, nil
}

// Extract runs the full slot-extraction pipeline over one document and
// returns the assembled record.
func (p *Pipeline) Extract(ctx context.Context, raw string) (*model.Record, error) {
	doc, err := Ingest(raw)
	if err != nil {
		return nil, err
	}

	in := &extract.Input{
		Sentences: doc.Sentences,
		FullText:  doc.FullText,
		Vocab:     p.vocab,
		Retriever: p.retriever(ctx, doc.Sentences),
	}

	var ev extract.Evidence
	var parts assemble.Parts

	p.slot("lit_search_date", func() {
		parts.LitSearchDate = extract.SearchDate(ctx, in, &ev)
	})
	p.slot("inclusion_counts", func() {
		counts := extract.InclusionCounts(ctx, in, &ev)
		parts.Articles, parts.Studies = extract.Reconcile(counts, &ev)
	})
	p.slot("design_mentions", func() {
		parts.DesignCounts = extract.DesignMentions(ctx, in)
		if parts.Studies != nil {
			extract.CapDesigns(parts.DesignCounts, parts.Studies.Total)
		}
	})
	p.slot("topics", func() {
		parts.Topics, parts.TopicTerms = extract.Topics(in)
	})
	p.slot("outcomes", func() {
		parts.Outcomes = extract.Outcomes(in)
	})
	p.slot("interventions", func() {
		parts.Interventions, parts.InterventionTerms = extract.Interventions(in)
	})
	p.slot("age_groups", func() {
		parts.AgeGroups, parts.AgeGroupTerms = extract.AgeGroups(in)
	})
	p.slot("specific_groups", func() {
		parts.SpecificGroups, parts.SpecificGroupTerms = extract.SpecificGroups(in)
	})
	p.slot("immune_status", func() {
		parts.ImmuneStatus = extract.ImmuneStatus(in)
	})
	p.slot("geography", func() {
		parts.Countries, parts.Regions, parts.NumCountries = extract.Geography(ctx, in, &ev)
	})
	p.slot("databases", func() {
		parts.Databases = extract.Databases(ctx, in, &ev)
	})
	p.slot("treatment", func() {
		parts.Treatment = extract.TreatmentDetails(ctx, in, &ev)
	})

	if p.cfg.Output.IncludeEvidence {
		parts.Evidence = ev.Pairs()
	}
	return assemble.Record(parts), nil
}

// EvaluateAmstar runs the AMSTAR-2 evaluator over one document. The
// review date anchors the search-recency check and must be set.
func (p *Pipeline) EvaluateAmstar(ctx context.Context, raw string, reviewDate time.Time) (*model.AmstarVerdict, error) {
	if reviewDate.IsZero() {
		return nil, model.ErrReviewDateRequired
	}
	doc, err := Ingest(raw)
	if err != nil {
		return nil, err
	}
	return p.evaluator.Evaluate(ctx, &amstar.Document{
		FullText:   doc.FullText,
		ReviewDate: reviewDate,
	})
}

// retriever builds the per-document sentence index, degrading to a full
// scan when the encoder is missing or embedding fails.
func (p *Pipeline) retriever(ctx context.Context, sentences []string) retrieve.Retriever {
	if p.encoder == nil {
		return retrieve.ScanAll{Sentences: sentences}
	}
	ix, err := retrieve.NewIndex(ctx, p.encoder, sentences)
	if err != nil {
		p.log.Warn("sentence index unavailable, scanning all sentences", zap.Error(err))
		return retrieve.ScanAll{Sentences: sentences}
	}
	return ix
}

// slot runs one extractor and contains its failures: a panicking slot
// loses its own output, never the document.
func (p *Pipeline) slot(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("slot extractor failed", zap.String("slot", name), zap.Any("panic", r))
		}
	}()
	fn()
}

// Close releases the encoder.
func (p *Pipeline) Close() error {
	if p.encoder != nil {
		return p.encoder.Close()
	}
	return nil
}
