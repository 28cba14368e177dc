// Package amstar evaluates a systematic-review document against a subset
// of the AMSTAR-2 critical-appraisal items. Items are rule-based keyword
// and pattern checks; a few narrow questions are additionally answered by
// an extractive QA model when one is configured.
package amstar

import (
	"context"
	"time"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

// Document is the evaluation input. ReviewDate anchors the
// search-recency check and may be zero.
type Document struct {
	FullText   string
	ReviewDate time.Time
}

// Evaluator applies the AMSTAR-2 items. Safe for concurrent use.
type Evaluator struct {
	vocab    *vocab.Registry
	answerer Answerer
}

// New creates an evaluator. A nil answerer disables the QA-backed checks;
// rule-based checks still run and QA-only items answer No.
func New(reg *vocab.Registry, answerer Answerer) *Evaluator {
	return &Evaluator{vocab: reg, answerer: answerer}
}

// Evaluate runs all items and derives the overall confidence label.
func (e *Evaluator) Evaluate(ctx context.Context, d *Document) (*model.AmstarVerdict, error) {
	if d.FullText == "" {
		return nil, model.ErrEmptyDocument
	}

	v := &model.AmstarVerdict{
		Item1:  item1(d),
		Item2:  item2(d),
		Item3:  item3(d),
		Item6:  item6(d),
		Item7:  item7(d),
		Item8:  item8(d),
		Item9:  item9(d),
		Item11: item11(d),
		Item13: item13(d),
		Item15: e.item15(ctx, d),
	}
	v.Item4, v.Item4Questions = e.item4(ctx, d)
	v.Label, v.Flaws = deriveLabel(v)
	return v, nil
}

// Flaw classes per the AMSTAR-2 guidance: items whose failure undermines
// the review's validity are critical, the rest are secondary.
var (
	criticalItems = []struct {
		name    string
		verdict func(*model.AmstarVerdict) model.Verdict
	}{
		{"item_2_protocol", func(v *model.AmstarVerdict) model.Verdict { return v.Item2 }},
		{"item_4_literature_search", func(v *model.AmstarVerdict) model.Verdict { return v.Item4 }},
		{"item_7_excluded_studies", func(v *model.AmstarVerdict) model.Verdict { return v.Item7 }},
		{"item_9_rob_tool", func(v *model.AmstarVerdict) model.Verdict { return v.Item9 }},
		{"item_11_meta_analysis", func(v *model.AmstarVerdict) model.Verdict { return v.Item11 }},
		{"item_13_rob_considered", func(v *model.AmstarVerdict) model.Verdict { return v.Item13 }},
		{"item_15_publication_bias", func(v *model.AmstarVerdict) model.Verdict { return v.Item15 }},
	}
	secondaryItems = []struct {
		name    string
		verdict func(*model.AmstarVerdict) model.Verdict
	}{
		{"item_1_pico", func(v *model.AmstarVerdict) model.Verdict { return v.Item1 }},
		{"item_3_design_justification", func(v *model.AmstarVerdict) model.Verdict { return v.Item3 }},
		{"item_6_duplicate_extraction", func(v *model.AmstarVerdict) model.Verdict { return v.Item6 }},
		{"item_8_study_description", func(v *model.AmstarVerdict) model.Verdict { return v.Item8 }},
	}
)

// deriveLabel counts No verdicts per flaw class and maps them to the
// four-level confidence label. Partial Yes and Not Applicable are not
// flaws.
func deriveLabel(v *model.AmstarVerdict) (string, []string) {
	var flaws []string
	critical := 0
	for _, item := range criticalItems {
		if item.verdict(v) == model.VerdictNo {
			critical++
			flaws = append(flaws, "# "+item.name)
		}
	}
	secondary := 0
	for _, item := range secondaryItems {
		if item.verdict(v) == model.VerdictNo {
			secondary++
			flaws = append(flaws, "* "+item.name)
		}
	}

	switch {
	case critical >= 2:
		return model.LabelCriticallyLow, flaws
	case critical == 1:
		return model.LabelLow, flaws
	case secondary >= 2:
		return model.LabelModerate, flaws
	default:
		return model.LabelHigh, flaws
	}
}
