package extract

import (
	"context"
	"regexp"
)

const countsQuery = "number of studies and articles included in the review"
const countsK = 15

// Counts is the raw inclusion-count extraction before reconciliation.
type Counts struct {
	ArticlesIncluded int
	UniqueStudies    int
	PairedOnSentence bool // articles and unique came from one sentence
	Designs          map[string]int
}

// The regex families for inclusion counts, in priority order. A match
// from an earlier family short-circuits the later ones.
var (
	// "final/overall number of articles included ... is N (representing M
	// unique studies)"
	reFinalNumber = regexp.MustCompile(`(?i)\b(?:final|overall)\s+number\s+of\s+(?:articles|studies)\s+included\b[^.?!]*?\b(?:is|was)\s+(` + numTok + `)(?:[^.?!]*?representing\s+(` + numTok + `)\s+unique\s+stud)?`)

	// "N articles were included in this review (... representing M unique
	// studies)"
	reIncludedInReview = regexp.MustCompile(`(?i)\b(` + numTok + `)\s+(?:articles|studies|publications|papers)\s+were\s+included\s+in\s+this\s+(?:systematic\s+)?(?:review|meta-analysis)(?:[^.?!]*?representing\s+(` + numTok + `)\s+unique\s+stud)?`)

	// "N met inclusion criteria"
	reMetCriteria = regexp.MustCompile(`(?i)\b(` + numTok + `)\s*(?:articles|studies|trials|publications|papers|records)?\s*met\s+(?:the\s+)?(?:inclusion|eligibility)\s+criteria`)

	// Generic, both directions.
	reGenericForward  = regexp.MustCompile(`(?i)\b(` + numTok + `)\s+(?:eligible\s+)?(?:articles|studies|trials|publications|papers|records)\b[^.?!]*?\b(?:were\s+)?(?:included|analy[sz]ed|synthesi[sz]ed|retained|selected)\b`)
	reGenericBackward = regexp.MustCompile(`(?i)\b(?:included|analy[sz]ed|synthesi[sz]ed|retained|selected)\b[^.?!]*?\b(` + numTok + `)\s+(?:articles|studies|trials|publications|papers|records)\b`)
)

var countFamilies = []struct {
	name string
	re   *regexp.Regexp
}{
	{"final_number", reFinalNumber},
	{"included_in_review", reIncludedInReview},
	{"met_criteria", reMetCriteria},
	{"generic_forward", reGenericForward},
	{"generic_backward", reGenericBackward},
}

// designPatterns extract typed design counts: one regex per design, the
// count token immediately preceding the design phrase.
var designPatterns = map[string]*regexp.Regexp{
	"rct":             regexp.MustCompile(`(?i)\b(` + numTok + `)\s+(?:randomi[sz]ed[ -]controlled[ -]trials?|RCTs?)\b`),
	"cohort":          regexp.MustCompile(`(?i)\b(` + numTok + `)\s+(?:prospective\s+|retrospective\s+)?cohort\s+stud(?:y|ies)\b`),
	"case_control":    regexp.MustCompile(`(?i)\b(` + numTok + `)\s+case[ -]control\s+stud(?:y|ies)\b`),
	"cross_sectional": regexp.MustCompile(`(?i)\b(` + numTok + `)\s+cross[ -]sectional\s+(?:stud(?:y|ies)|surveys?)\b`),
	"nrsi":            regexp.MustCompile(`(?i)\b(` + numTok + `)\s+(?:observational|non[ -]?randomi[sz]ed|quasi[ -]experimental)\s+stud(?:y|ies)\b`),
}

// DesignOrder fixes the emission order for typed designs.
var DesignOrder = []string{"rct", "cohort", "case_control", "cross_sectional", "nrsi"}

// InclusionCounts extracts the article/study totals and per-design counts
// from the retrieved window. Candidates are scored by the rubric in
// guards.go; the winning rule attribution is emitted as evidence.
func InclusionCounts(ctx context.Context, in *Input, ev *Evidence) Counts {
	window := in.window(ctx, countsQuery, countsK)

	counts := Counts{Designs: make(map[string]int)}
	if best, ok := totalsCandidate(window); ok {
		counts.ArticlesIncluded = best.value
		counts.UniqueStudies = best.unique
		counts.PairedOnSentence = best.hasPair
		ev.Add("articles", best.sentence)
		ev.Add("articles.rubric", rubricString(best))
	}

	for _, design := range DesignOrder {
		if n, sentence, ok := designCount(window, design); ok {
			counts.Designs[design] = n
			ev.Add("articles."+design, sentence)
		}
	}

	// Retrieval-QA backstop for designs the regexes missed.
	for _, design := range DesignOrder {
		if _, found := counts.Designs[design]; found {
			continue
		}
		if n, sentence, ok := numericQA(design, window); ok {
			counts.Designs[design] = n
			ev.Add("articles."+design+".qa", sentence)
		}
	}

	return counts
}

// totalsCandidate runs the count families in priority order over the
// window and scores every match of the first family that produced any.
func totalsCandidate(window []string) (candidate, bool) {
	for _, family := range countFamilies {
		var cands []candidate
		for _, sentence := range window {
			m := family.re.FindStringSubmatch(sentence)
			if m == nil {
				continue
			}
			value, ok := parseNum(m[1])
			if !ok {
				continue
			}
			c := candidate{
				value:    value,
				sentence: sentence,
				span:     len(m[0]),
			}
			if len(m) > 2 && m[2] != "" {
				if unique, ok := parseNum(m[2]); ok {
					c.unique = unique
					c.hasPair = true
				}
			}
			scoreCandidate(&c)
			cands = append(cands, c)
		}
		// Decoy-only candidates never win a family on their own.
		filtered := cands[:0]
		for _, c := range cands {
			if !isDecoy(c.sentence) || hasInclusionVerb(c.sentence) {
				filtered = append(filtered, c)
			}
		}
		if best, ok := pickBest(filtered); ok {
			return best, true
		}
	}
	return candidate{}, false
}

// designCount finds the first non-decoy sentence matching the design
// pattern and parses its count.
func designCount(window []string, design string) (int, string, bool) {
	re := designPatterns[design]
	for _, sentence := range window {
		if isDecoy(sentence) && !hasInclusionVerb(sentence) {
			continue
		}
		m := re.FindStringSubmatch(sentence)
		if m == nil {
			continue
		}
		if n, ok := parseNum(m[1]); ok {
			return n, sentence, true
		}
	}
	return 0, "", false
}
