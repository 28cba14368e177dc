package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/reviewminer/reviewminer/internal/model"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Encoder.Disabled = true
	cfg.QA.Disabled = true
	p, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

const sampleReview = `The final number of articles included in this review is fifteen representing 14 unique studies.
In total, 6 randomized controlled trials, 4 cohort studies, and one case-control study were analyzed.
We searched MEDLINE (Ovid), Embase, Web of Science, Scopus and Cochrane Library through March 2024.
Populations included adolescents (10-17 years), adults, and elderly.`

func TestExtractEndToEnd(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()

	rec, err := p.Extract(context.Background(), sampleReview)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if rec.LitSearchDate != "March 2024" {
		t.Errorf("LitSearchDate = %q, want March 2024", rec.LitSearchDate)
	}
	if rec.Studies == nil || rec.Studies.Total != 14 {
		t.Errorf("Studies = %+v, want total 14", rec.Studies)
	}
	if rec.Articles == nil || rec.Articles.ArticlesIncluded != 15 || rec.Articles.RCT != 6 {
		t.Errorf("Articles = %+v", rec.Articles)
	}
	if rec.Databases == nil || rec.Databases.NumDatabases != 5 {
		t.Errorf("Databases = %+v, want 5", rec.Databases)
	}
	if rec.AgeGroups["range_10_17"] != 1 {
		t.Errorf("AgeGroups = %v, want range_10_17", rec.AgeGroups)
	}
	if rec.Countries != nil {
		t.Errorf("Countries = %+v, want pruned", rec.Countries)
	}
	if len(rec.Evidence) != 0 {
		t.Errorf("evidence included without include_evidence: %v", rec.Evidence)
	}
}

func TestExtractIncludesEvidenceWhenConfigured(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()
	p.cfg.Output.IncludeEvidence = true

	rec, err := p.Extract(context.Background(), sampleReview)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rec.Evidence) == 0 {
		t.Fatal("no evidence recorded")
	}
	fields := make(map[string]bool)
	for _, pair := range rec.Evidence {
		fields[pair.Field] = true
	}
	for _, want := range []string{"lit_search_date", "articles", "databases"} {
		if !fields[want] {
			t.Errorf("missing evidence field %q in %v", want, fields)
		}
	}
}

func TestExtractRejectsBadInput(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()

	if _, err := p.Extract(context.Background(), "   \n\t "); err != model.ErrEmptyDocument {
		t.Errorf("empty input err = %v, want ErrEmptyDocument", err)
	}
	if _, err := p.Extract(context.Background(), "abc\xff\xfe"); err != model.ErrInvalidUTF8 {
		t.Errorf("invalid UTF-8 err = %v, want ErrInvalidUTF8", err)
	}
}

func TestEvaluateAmstarRulesOnly(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()

	text := "The protocol was registered with PROSPERO (CRD42023123456). We included randomized controlled trials of vaccinated participants versus placebo, measuring effectiveness outcomes."
	v, err := p.EvaluateAmstar(context.Background(), text, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EvaluateAmstar: %v", err)
	}
	if v.Item2 != model.VerdictYes {
		t.Errorf("Item2 = %q, want Yes", v.Item2)
	}
	if v.Item15 != model.VerdictNo {
		t.Errorf("Item15 without QA = %q, want No", v.Item15)
	}
	if v.Label == "" {
		t.Error("empty label")
	}
}

func TestEvaluateAmstarRequiresReviewDate(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()

	if _, err := p.EvaluateAmstar(context.Background(), "Seven studies were included.", time.Time{}); err != model.ErrReviewDateRequired {
		t.Errorf("zero review date err = %v, want ErrReviewDateRequired", err)
	}
}

func TestExtractCapsDesignMentions(t *testing.T) {
	p := newTestPipeline(t)
	defer p.Close()

	text := `Two studies were included in this review.
Cohort studies measured infection incidence.
Cohort studies reported vaccination coverage.
Cohort studies followed participants over time.`
	rec, err := p.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Studies == nil || rec.DesignCounts == nil {
		t.Fatalf("Studies = %+v, DesignCounts = %+v", rec.Studies, rec.DesignCounts)
	}
	sum := rec.DesignCounts.RCT + rec.DesignCounts.Cohort + rec.DesignCounts.CaseControl +
		rec.DesignCounts.CrossSectional + rec.DesignCounts.NRSI
	if sum > rec.Studies.Total {
		t.Errorf("design mention sum %d > study total %d", sum, rec.Studies.Total)
	}
}

func TestIngestStripsHTML(t *testing.T) {
	doc, err := Ingest("<html><head><title>x</title></head><body><p>Seven studies were included in this review.</p><script>var x = 1;</script></body></html>")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.FullText == "" || strings.Contains(doc.FullText, "var x") {
		t.Errorf("FullText = %q", doc.FullText)
	}
	found := false
	for _, s := range doc.Sentences {
		if strings.Contains(s, "Seven studies were included") {
			found = true
		}
	}
	if !found {
		t.Errorf("sentences = %v", doc.Sentences)
	}
}

func TestRendererJSONAndSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	rec := &model.Record{
		LitSearchDate: "March 2024",
		Studies:       &model.StudyCounts{Total: 14},
	}
	if err := r.RenderJSON(rec, ""); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"lit_search_date": "March 2024"`) {
		t.Errorf("JSON output = %s", buf.String())
	}

	buf.Reset()
	r.RenderSummary(rec)
	if !strings.Contains(buf.String(), "Included studies: 14") {
		t.Errorf("summary output = %s", buf.String())
	}
}
