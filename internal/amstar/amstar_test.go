package amstar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

// stubAnswerer scores a question by substring lookup.
type stubAnswerer struct {
	scores map[string]float64
}

func (s *stubAnswerer) Answer(_ context.Context, question, _ string) (Answer, error) {
	for key, score := range s.scores {
		if strings.Contains(question, key) {
			return Answer{Text: "span", Score: score}, nil
		}
	}
	return Answer{}, nil
}

func newEvaluator(t *testing.T, answerer Answerer) *Evaluator {
	t.Helper()
	reg, err := vocab.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return New(reg, answerer)
}

func TestItem2Protocol(t *testing.T) {
	cases := []struct {
		text string
		want model.Verdict
	}{
		{"The protocol was registered with PROSPERO (CRD42023123456).", model.VerdictYes},
		{"The protocol was registered with PROSPERO.", model.VerdictNo},
		{"Registration number CRD42023123456.", model.VerdictNo},
	}
	for _, tc := range cases {
		if got := item2(&Document{FullText: tc.text}); got != tc.want {
			t.Errorf("item2(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestItem3DesignJustification(t *testing.T) {
	yes := &Document{FullText: "We included randomized controlled trials and cohort studies."}
	if got := item3(yes); got != model.VerdictYes {
		t.Errorf("item3 = %q, want Yes", got)
	}
	no := &Document{FullText: "We included modelling papers."}
	if got := item3(no); got != model.VerdictNo {
		t.Errorf("item3 = %q, want No", got)
	}
}

func TestItem7ExcludedStudies(t *testing.T) {
	both := &Document{FullText: "The PRISMA flow diagram shows the selection. Reasons for exclusion are listed in Appendix 2."}
	if got := item7(both); got != model.VerdictYes {
		t.Errorf("item7 = %q, want Yes", got)
	}
	exclusionsOnly := &Document{FullText: "Reasons for exclusion are listed in Appendix 2."}
	if got := item7(exclusionsOnly); got != model.VerdictPartialYes {
		t.Errorf("item7 = %q, want Partial Yes", got)
	}
	neither := &Document{FullText: "Studies were selected."}
	if got := item7(neither); got != model.VerdictNo {
		t.Errorf("item7 = %q, want No", got)
	}
}

func TestItem9RoBTool(t *testing.T) {
	d := &Document{FullText: "We included randomized controlled trials. Risk of bias was assessed with RoB 2 for each included study, shown in Table 3."}
	if got := item9(d); got != model.VerdictYes {
		t.Errorf("item9 = %q, want Yes", got)
	}
	missingTool := &Document{FullText: "We included randomized controlled trials and assessed quality for each included study in Table 3."}
	if got := item9(missingTool); got != model.VerdictNo {
		t.Errorf("item9 without RCT tool = %q, want No", got)
	}
	mixed := &Document{FullText: "Randomized controlled trials and cohort studies were assessed with RoB 2 and the Newcastle-Ottawa scale for each study, see Table 2."}
	if got := item9(mixed); got != model.VerdictYes {
		t.Errorf("item9 mixed designs = %q, want Yes", got)
	}
}

func TestItem11MetaAnalysis(t *testing.T) {
	na := &Document{FullText: "A narrative synthesis was performed."}
	if got := item11(na); got != model.VerdictNotApplicable {
		t.Errorf("item11 = %q, want Not Applicable", got)
	}
	yes := &Document{FullText: "A meta-analysis used a random-effects model, chosen because heterogeneity was expected. Heterogeneity was assessed with I2 and explored in subgroup analyses."}
	if got := item11(yes); got != model.VerdictYes {
		t.Errorf("item11 = %q, want Yes", got)
	}
	no := &Document{FullText: "We performed a meta-analysis of pooled estimates."}
	if got := item11(no); got != model.VerdictNo {
		t.Errorf("item11 = %q, want No", got)
	}
}

func TestItem13RoBConsidered(t *testing.T) {
	only := &Document{FullText: "Only studies at low risk of bias were included in the synthesis."}
	if got := item13(only); got != model.VerdictYes {
		t.Errorf("item13 = %q, want Yes", got)
	}
	discussed := &Document{FullText: "Risk of bias was discussed when drawing conclusions."}
	if got := item13(discussed); got != model.VerdictYes {
		t.Errorf("item13 = %q, want Yes", got)
	}
	no := &Document{FullText: "Results were summarized."}
	if got := item13(no); got != model.VerdictNo {
		t.Errorf("item13 = %q, want No", got)
	}
}

func TestItem15RequiresAnswerer(t *testing.T) {
	e := newEvaluator(t, nil)
	if got := e.item15(context.Background(), &Document{FullText: "Funnel plots suggested publication bias."}); got != model.VerdictNo {
		t.Errorf("item15 without answerer = %q, want No", got)
	}

	e = newEvaluator(t, &stubAnswerer{scores: map[string]float64{"publication bias": 0.6}})
	if got := e.item15(context.Background(), &Document{FullText: "x"}); got != model.VerdictYes {
		t.Errorf("item15 with confident answerer = %q, want Yes", got)
	}
}

func TestItem4CoreOnlyIsPartialYes(t *testing.T) {
	e := newEvaluator(t, nil)
	d := &Document{
		FullText: "We searched MEDLINE and Embase. The full search strategy is in Appendix 1. The search was limited to English publications.",
	}
	verdict, questions := e.item4(context.Background(), d)
	if verdict != model.VerdictPartialYes {
		t.Fatalf("item4 = %q, want Partial Yes (questions %v)", verdict, questions)
	}
	for _, key := range item4Core {
		if questions[key] != model.VerdictYes {
			t.Errorf("core question %q = %q, want Yes", key, questions[key])
		}
	}
}

func TestItem4AllSevenIsYes(t *testing.T) {
	e := newEvaluator(t, nil)
	d := &Document{
		FullText: "We searched MEDLINE and Embase through January 2024 using the search strategy in Appendix 1, limited to English publications. Reference lists of included studies were hand-searched, ClinicalTrials.gov was searched, and content experts were consulted.",
		ReviewDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	verdict, questions := e.item4(context.Background(), d)
	if verdict != model.VerdictYes {
		t.Fatalf("item4 = %q, want Yes (questions %v)", verdict, questions)
	}
}

func TestRecentSearchWindow(t *testing.T) {
	text := "The last search was run in 2023."
	within := &Document{FullText: text, ReviewDate: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)}
	if got := recentSearch(within); got != model.VerdictYes {
		t.Errorf("recentSearch within window = %q, want Yes", got)
	}
	stale := &Document{FullText: text, ReviewDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)}
	if got := recentSearch(stale); got != model.VerdictNo {
		t.Errorf("recentSearch stale = %q, want No", got)
	}
	noDate := &Document{FullText: text}
	if got := recentSearch(noDate); got != model.VerdictNo {
		t.Errorf("recentSearch without review date = %q, want No", got)
	}
}

func TestDeriveLabel(t *testing.T) {
	allYes := func() *model.AmstarVerdict {
		return &model.AmstarVerdict{
			Item1: model.VerdictYes, Item2: model.VerdictYes, Item3: model.VerdictYes,
			Item4: model.VerdictYes, Item6: model.VerdictYes, Item7: model.VerdictYes,
			Item8: model.VerdictYes, Item9: model.VerdictYes, Item11: model.VerdictYes,
			Item13: model.VerdictYes, Item15: model.VerdictYes,
		}
	}

	v := allYes()
	if label, flaws := deriveLabel(v); label != model.LabelHigh || len(flaws) != 0 {
		t.Errorf("all yes = %q %v, want High with no flaws", label, flaws)
	}

	v = allYes()
	v.Item2, v.Item7, v.Item9 = model.VerdictNo, model.VerdictNo, model.VerdictNo
	label, flaws := deriveLabel(v)
	if label != model.LabelCriticallyLow {
		t.Errorf("three critical flaws = %q, want Critically Low", label)
	}
	want := []string{"# item_2_protocol", "# item_7_excluded_studies", "# item_9_rob_tool"}
	if len(flaws) != len(want) {
		t.Fatalf("flaws = %v, want %v", flaws, want)
	}
	for i := range want {
		if flaws[i] != want[i] {
			t.Errorf("flaws[%d] = %q, want %q", i, flaws[i], want[i])
		}
	}

	v = allYes()
	v.Item15 = model.VerdictNo
	if label, _ := deriveLabel(v); label != model.LabelLow {
		t.Errorf("one critical flaw = %q, want Low", label)
	}

	v = allYes()
	v.Item1, v.Item6 = model.VerdictNo, model.VerdictNo
	if label, _ := deriveLabel(v); label != model.LabelModerate {
		t.Errorf("two secondary flaws = %q, want Moderate", label)
	}

	v = allYes()
	v.Item11 = model.VerdictNotApplicable
	if label, flaws := deriveLabel(v); label != model.LabelHigh || len(flaws) != 0 {
		t.Errorf("not-applicable item = %q %v, want High with no flaws", label, flaws)
	}
}

func TestEvaluateEmptyDocument(t *testing.T) {
	e := newEvaluator(t, nil)
	if _, err := e.Evaluate(context.Background(), &Document{}); err != model.ErrEmptyDocument {
		t.Errorf("Evaluate(empty) err = %v, want ErrEmptyDocument", err)
	}
}
