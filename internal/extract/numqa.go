package extract

import (
	"regexp"
	"sync"
)

// Label regex bags for the numeric QA backstop, one per typed design.
// Each label is tried in a forward ("[NUM] LABEL") and a backward
// ("LABEL ... [NUM]") pattern.
var qaLabelBags = map[string][]string{
	"rct":             {`randomi[sz]ed[ -]controlled[ -]trials?`, `RCTs?`, `randomi[sz]ed\s+trials?`},
	"cohort":          {`cohort\s+stud(?:y|ies)`, `cohorts?`},
	"case_control":    {`case[ -]control\s+stud(?:y|ies)`, `case[ -]control`},
	"cross_sectional": {`cross[ -]sectional\s+(?:stud(?:y|ies)|surveys?)`, `cross[ -]sectional`},
	"nrsi":            {`non[ -]?randomi[sz]ed\s+stud(?:y|ies)`, `observational\s+stud(?:y|ies)`, `quasi[ -]experimental\s+stud(?:y|ies)`},
}

type qaPatterns struct {
	forward  []*regexp.Regexp
	backward []*regexp.Regexp
}

var (
	qaCompiled   map[string]qaPatterns
	qaCompileOne sync.Once
)

func compileQA() {
	qaCompiled = make(map[string]qaPatterns, len(qaLabelBags))
	for key, labels := range qaLabelBags {
		var p qaPatterns
		for _, label := range labels {
			p.forward = append(p.forward,
				regexp.MustCompile(`(?i)\b(`+numTok+`)\s+(?:`+label+`)\b`))
			p.backward = append(p.backward,
				regexp.MustCompile(`(?i)\b(?:`+label+`)\b[^.?!]*?\b(`+numTok+`)\b`))
		}
		qaCompiled[key] = p
	}
}

// numericQA answers a numeric question over candidate sentences with
// forward and backward label patterns. Decoys are penalized, inclusion
// phrasing preferred, short spans preferred; the lowest score wins. Used
// only when direct regex extraction returned nothing.
func numericQA(question string, sentences []string) (int, string, bool) {
	qaCompileOne.Do(compileQA)
	patterns, ok := qaCompiled[question]
	if !ok {
		return 0, "", false
	}

	var cands []candidate
	consider := func(re *regexp.Regexp, sentence string, penalty int) {
		m := re.FindStringSubmatch(sentence)
		if m == nil {
			return
		}
		n, ok := parseNum(m[1])
		if !ok {
			return
		}
		// Calendar years are not counts.
		if n >= 1900 && n < 2100 {
			return
		}
		c := candidate{value: n, sentence: sentence, span: len(m[0]) + penalty}
		scoreCandidate(&c)
		cands = append(cands, c)
	}

	for _, sentence := range sentences {
		for _, re := range patterns.forward {
			consider(re, sentence, 0)
		}
		// Backward patterns are weaker evidence; bias the span tiebreak.
		for _, re := range patterns.backward {
			consider(re, sentence, 20)
		}
	}

	// Pure decoys never answer a question.
	filtered := cands[:0]
	for _, c := range cands {
		if !isDecoy(c.sentence) {
			filtered = append(filtered, c)
		}
	}
	best, ok := pickBest(filtered)
	if !ok {
		return 0, "", false
	}
	return best.value, best.sentence, true
}
