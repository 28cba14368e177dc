package extract

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

func newTestInput(t *testing.T, sentences ...string) *Input {
	t.Helper()
	reg, err := vocab.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return &Input{
		Sentences: sentences,
		FullText:  strings.Join(sentences, " "),
		Vocab:     reg,
	}
}

func TestInclusionCountsPairedTotals(t *testing.T) {
	in := newTestInput(t,
		"The final number of articles included in this review is fifteen representing 14 unique studies.",
		"In total, 6 randomized controlled trials, 4 cohort studies, and one case-control study were analyzed.",
	)
	var ev Evidence
	c := InclusionCounts(context.Background(), in, &ev)

	if c.ArticlesIncluded != 15 {
		t.Errorf("ArticlesIncluded = %d, want 15", c.ArticlesIncluded)
	}
	if c.UniqueStudies != 14 || !c.PairedOnSentence {
		t.Errorf("UniqueStudies = %d paired = %v, want 14 paired", c.UniqueStudies, c.PairedOnSentence)
	}
	wantDesigns := map[string]int{"rct": 6, "cohort": 4, "case_control": 1}
	if !reflect.DeepEqual(c.Designs, wantDesigns) {
		t.Errorf("Designs = %v, want %v", c.Designs, wantDesigns)
	}

	articles, studies := Reconcile(c, &ev)
	if articles == nil || studies == nil {
		t.Fatal("Reconcile returned nil")
	}
	if articles.Total != 14 || studies.Total != 14 {
		t.Errorf("Total = %d/%d, want 14", articles.Total, studies.Total)
	}
	if articles.RCT != 6 || articles.Cohort != 4 || articles.CaseControl != 1 ||
		articles.CrossSectional != 0 || articles.NRSI != 0 {
		t.Errorf("per-design = %+v", articles)
	}
}

func TestInclusionCountsIgnoresScreeningDecoys(t *testing.T) {
	in := newTestInput(t,
		"A total of 1,204 records were screened and 1,181 were excluded.",
		"Twenty-three studies were included in this review.",
	)
	var ev Evidence
	c := InclusionCounts(context.Background(), in, &ev)
	if c.ArticlesIncluded != 23 {
		t.Errorf("ArticlesIncluded = %d, want 23", c.ArticlesIncluded)
	}
}

func TestReconcileScalesTypedSum(t *testing.T) {
	var ev Evidence
	articles, _ := Reconcile(Counts{
		ArticlesIncluded: 10,
		Designs:          map[string]int{"rct": 8, "cohort": 6},
	}, &ev)
	if articles == nil {
		t.Fatal("Reconcile returned nil")
	}
	if articles.RCT != 6 || articles.Cohort != 4 {
		t.Errorf("scaled = rct %d cohort %d, want 6 and 4", articles.RCT, articles.Cohort)
	}
	if sum := articles.RCT + articles.Cohort; sum > articles.Total {
		t.Errorf("scaled sum %d exceeds total %d", sum, articles.Total)
	}
	found := false
	for _, p := range ev.Pairs() {
		if p.Field == "studies.reconciliation" {
			found = true
		}
	}
	if !found {
		t.Error("no reconciliation evidence recorded")
	}
}

func TestReconcileSumBecomesTotal(t *testing.T) {
	var ev Evidence
	articles, _ := Reconcile(Counts{
		Designs: map[string]int{"rct": 3, "cohort": 2},
	}, &ev)
	if articles == nil {
		t.Fatal("Reconcile returned nil")
	}
	if articles.Total != 5 {
		t.Errorf("Total = %d, want 5", articles.Total)
	}
}

func TestReconcileNothingFound(t *testing.T) {
	var ev Evidence
	articles, studies := Reconcile(Counts{Designs: map[string]int{}}, &ev)
	if articles != nil || studies != nil {
		t.Errorf("want nil blocks, got %v / %v", articles, studies)
	}
}

func TestGeographyCountsAndSampleSizes(t *testing.T) {
	in := newTestInput(t,
		"These studies span ten countries from SSA: Botswana (1), South Africa (2), Nigeria (2), Kenya (3), Ghana (1), Uganda (1), Mali (1), Zambia (1), Tanzania (1), Malawi (1).",
		"The largest sample sizes were from China (n = 35,812), the United States (n = 10,437), and Germany (n = 7,670).",
	)
	var ev Evidence
	counts, regions, numCountries := Geography(context.Background(), in, &ev)
	if counts == nil {
		t.Fatal("Geography returned nil counts")
	}

	wantStudies := map[string]int{
		"Botswana": 1, "South Africa": 2, "Nigeria": 2, "Kenya": 3, "Ghana": 1,
		"Uganda": 1, "Mali": 1, "Zambia": 1, "Tanzania": 1, "Malawi": 1,
	}
	if !reflect.DeepEqual(counts.StudyCounts, wantStudies) {
		t.Errorf("StudyCounts = %v, want %v", counts.StudyCounts, wantStudies)
	}
	wantSamples := map[string]int{"China": 35812, "United States": 10437, "Germany": 7670}
	if !reflect.DeepEqual(counts.SampleSizes, wantSamples) {
		t.Errorf("SampleSizes = %v, want %v", counts.SampleSizes, wantSamples)
	}
	if !regions["Sub-Saharan Africa"] {
		t.Errorf("regions = %v, want Sub-Saharan Africa present", regions)
	}
	if numCountries == nil || *numCountries != 13 {
		t.Errorf("numCountries = %v, want 13", numCountries)
	}
}

func TestGeographySampleSizeIsMax(t *testing.T) {
	in := newTestInput(t,
		"One trial enrolled participants in Kenya (n = 1,200).",
		"A second report on the same cohort described Kenya (n = 800).",
	)
	var ev Evidence
	counts, _, _ := Geography(context.Background(), in, &ev)
	if counts == nil || counts.SampleSizes["Kenya"] != 1200 {
		t.Errorf("SampleSizes = %v, want Kenya max 1200", counts)
	}
}

func TestSearchDatePicksLatest(t *testing.T) {
	in := newTestInput(t,
		"The protocol was registered in January 2023.",
		"We searched MEDLINE (Ovid), Embase, Web of Science, Scopus and Cochrane Library through March 2024.",
		"An initial search was conducted in June 2022.",
	)
	var ev Evidence
	got := SearchDate(context.Background(), in, &ev)
	if got != "March 2024" {
		t.Errorf("SearchDate = %q, want %q", got, "March 2024")
	}
}

func TestDatabasesSortedCanonical(t *testing.T) {
	in := newTestInput(t,
		"We searched MEDLINE (Ovid), Embase, Web of Science, Scopus and Cochrane Library through March 2024.",
	)
	var ev Evidence
	got := Databases(context.Background(), in, &ev)
	if got == nil {
		t.Fatal("Databases returned nil")
	}
	want := []string{"Cochrane Library", "Embase", "MEDLINE", "Scopus", "Web of Science"}
	if !reflect.DeepEqual(got.DatabaseList, want) {
		t.Errorf("DatabaseList = %v, want %v", got.DatabaseList, want)
	}
	if got.NumDatabases != 5 {
		t.Errorf("NumDatabases = %d, want 5", got.NumDatabases)
	}
}

func TestAgeGroupsMidpointBuckets(t *testing.T) {
	in := newTestInput(t, "Populations included adolescents (10-17 years), adults, and elderly.")
	counts, terms := AgeGroups(in)

	wantTerms := map[string]string{
		"adolescents": "ado",
		"10-17 years": "ado",
		"adults":      "adu",
		"elderly":     "eld",
	}
	for surface, code := range wantTerms {
		if terms[surface] != code {
			t.Errorf("terms[%q] = %q, want %q", surface, terms[surface], code)
		}
	}
	if counts["range_10_17"] != 1 {
		t.Errorf("counts[range_10_17] = %d, want 1", counts["range_10_17"])
	}
	if counts["ado"] != 1 || counts["adu"] != 1 || counts["eld"] != 1 {
		t.Errorf("bucket counts = %v", counts)
	}
}

func TestAgeGroupsBounds(t *testing.T) {
	in := newTestInput(t, "Eligible children were <2 years and participants >65 years were analyzed separately.")
	counts, terms := AgeGroups(in)
	if counts["age_2"] != 1 || counts["age_65"] != 1 {
		t.Errorf("counts = %v, want age_2 and age_65", counts)
	}
	if terms["<2 years"] != "nb" {
		t.Errorf("terms[<2 years] = %q, want nb", terms["<2 years"])
	}
	if terms[">65 years"] != "eld" {
		t.Errorf("terms[>65 years] = %q, want eld", terms[">65 years"])
	}
}

func TestSpecificGroupsLegacyCounterKey(t *testing.T) {
	in := newTestInput(t, "Parents and caregivers of young children reported high acceptance.")
	counts, terms := SpecificGroups(in)
	if counts["pcg"] == 0 {
		t.Errorf("counts = %v, want pcg counter", counts)
	}
	if _, present := counts["cg"]; present {
		t.Errorf("counts = %v, cg should be renamed to pcg", counts)
	}
	foundCG := false
	for _, code := range terms {
		if code == "cg" {
			foundCG = true
		}
	}
	if !foundCG {
		t.Errorf("terms = %v, want a surface mapped to cg", terms)
	}
}

func TestTreatmentDetails(t *testing.T) {
	in := newTestInput(t,
		"Participants received 20 mg daily for 12 weeks and were followed for 6 months, compared with placebo.",
		"Most trials used a two-dose series.",
	)
	var ev Evidence
	tr := TreatmentDetails(context.Background(), in, &ev)
	if tr == nil {
		t.Fatal("TreatmentDetails returned nil")
	}
	if !reflect.DeepEqual(tr.Durations, []string{"12 weeks", "6 months"}) {
		t.Errorf("Durations = %v", tr.Durations)
	}
	if tr.Dosage == nil || !reflect.DeepEqual(tr.Dosage.Amounts, []string{"20 mg"}) {
		t.Errorf("Dosage = %+v", tr.Dosage)
	}
	if tr.Dosage == nil || len(tr.Dosage.Schedules) != 1 || !strings.HasPrefix(tr.Dosage.Schedules[0], "two-dose") {
		t.Errorf("Schedules = %+v", tr.Dosage)
	}
	if len(tr.Comparator) != 1 || tr.Comparator[0] != "placebo" {
		t.Errorf("Comparator = %v", tr.Comparator)
	}
}

func TestNumericQABackstop(t *testing.T) {
	n, _, ok := numericQA("nrsi", []string{"Observational studies accounted for 5 of the included reports."})
	if !ok || n != 5 {
		t.Errorf("numericQA = %d %v, want 5 true", n, ok)
	}
}

func TestNumericQARejectsYears(t *testing.T) {
	_, _, ok := numericQA("cohort", []string{"Cohort studies published since 2015 were considered."})
	if ok {
		t.Error("numericQA accepted a calendar year as a count")
	}
}

func TestDesignMentionsSumsPrefixes(t *testing.T) {
	in := newTestInput(t,
		"Three cohort studies and two RCTs were identified.",
		"Another cohort study informed the sensitivity analysis.",
	)
	dc := DesignMentions(context.Background(), in)
	if dc == nil {
		t.Fatal("DesignMentions returned nil")
	}
	if dc.Cohort != 4 {
		t.Errorf("Cohort = %d, want 4", dc.Cohort)
	}
	if dc.RCT != 2 {
		t.Errorf("RCT = %d, want 2", dc.RCT)
	}
}

func TestTopicsAndOutcomes(t *testing.T) {
	in := newTestInput(t,
		"Vaccine effectiveness against hospitalization was the primary outcome.",
		"Safety outcomes included adverse events; mortality was a secondary outcome.",
	)
	topics, terms := Topics(in)
	if topics["eff"] == 0 || topics["saf"] == 0 {
		t.Errorf("topics = %v, want eff and saf", topics)
	}
	if len(terms) == 0 {
		t.Error("no topic terms recorded")
	}
	outcomes := Outcomes(in)
	if outcomes["hospital"] == 0 || outcomes["death"] == 0 {
		t.Errorf("outcomes = %v, want hospital and death", outcomes)
	}
}

func TestEvidenceBound(t *testing.T) {
	var ev Evidence
	for i := 0; i < 100; i++ {
		ev.Add("field", "sentence")
	}
	if len(ev.Pairs()) != 60 {
		t.Errorf("evidence pairs = %d, want 60", len(ev.Pairs()))
	}
}

func TestDesignMentionsCappedByStudyTotal(t *testing.T) {
	in := newTestInput(t,
		"Two studies were included in this review.",
		"Cohort studies measured infection incidence.",
		"Cohort studies reported vaccination coverage.",
		"Cohort studies followed participants for two years.",
	)
	var ev Evidence
	_, studies := Reconcile(InclusionCounts(context.Background(), in, &ev), &ev)
	if studies == nil || studies.Total != 2 {
		t.Fatalf("studies = %+v, want total 2", studies)
	}

	dc := DesignMentions(context.Background(), in)
	if dc == nil || dc.Cohort != 3 {
		t.Fatalf("DesignMentions = %+v, want cohort 3", dc)
	}

	CapDesigns(dc, studies.Total)
	sum := dc.RCT + dc.Cohort + dc.CaseControl + dc.CrossSectional + dc.NRSI
	if sum > studies.Total {
		t.Errorf("design mention sum %d > study total %d", sum, studies.Total)
	}
	if dc.Cohort != 2 {
		t.Errorf("Cohort = %d, want 2", dc.Cohort)
	}
}

func TestCapDesignsLeavesFittingCountsAlone(t *testing.T) {
	dc := &model.DesignCounts{RCT: 2, Cohort: 1}
	CapDesigns(dc, 5)
	if dc.RCT != 2 || dc.Cohort != 1 {
		t.Errorf("counts changed without overflow: %+v", dc)
	}
	CapDesigns(nil, 5)
	CapDesigns(dc, 0)
	if dc.RCT != 2 || dc.Cohort != 1 {
		t.Errorf("counts changed with zero total: %+v", dc)
	}
}

func TestMetEligibilityCriteriaCounts(t *testing.T) {
	in := newTestInput(t,
		"Twelve studies met the eligibility criteria.",
	)
	var ev Evidence
	c := InclusionCounts(context.Background(), in, &ev)
	if c.ArticlesIncluded != 12 {
		t.Errorf("ArticlesIncluded = %d, want 12", c.ArticlesIncluded)
	}
}

func TestNumericQALabelsMatchDesigns(t *testing.T) {
	if len(qaLabelBags) != len(DesignOrder) {
		t.Errorf("label bags = %d, designs = %d", len(qaLabelBags), len(DesignOrder))
	}
	for _, design := range DesignOrder {
		if _, ok := qaLabelBags[design]; !ok {
			t.Errorf("no label bag for %q", design)
		}
	}
}
