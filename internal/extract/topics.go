package extract

import (
	"context"
	"regexp"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

const designsQuery = "study designs of the included studies"
const designsK = 15

// Topics counts topic-code mentions per sentence and records the surface
// phrase that matched each code.
func Topics(in *Input) (map[string]int, map[string]string) {
	return scanFamily(in.Vocab.Topics, in.Sentences)
}

// Outcomes counts outcome-family mentions (infection, hospitalization,
// ICU, death) per sentence.
func Outcomes(in *Input) map[string]int {
	counts, _ := scanFamily(in.Vocab.Outcomes, in.Sentences)
	return counts
}

// Interventions scans the disease and vaccine-option vocabularies and
// produces mention counts plus a combined surface-phrase term map.
func Interventions(in *Input) (*model.Interventions, map[string]string) {
	diseases, diseaseTerms := scanFamily(in.Vocab.Diseases, in.Sentences)
	options, optionTerms := scanFamily(in.Vocab.VaccineOptions, in.Sentences)

	terms := make(map[string]string, len(diseaseTerms)+len(optionTerms))
	for surface, code := range diseaseTerms {
		terms[surface] = code
	}
	for surface, code := range optionTerms {
		terms[surface] = code
	}

	if len(diseases) == 0 && len(options) == 0 {
		return nil, terms
	}
	iv := &model.Interventions{}
	if len(diseases) > 0 {
		iv.Diseases = diseases
	}
	if len(options) > 0 {
		iv.VaccineOptions = options
	}
	return iv, terms
}

// ImmuneStatus counts immunocompromised/healthy population mentions.
func ImmuneStatus(in *Input) map[string]int {
	counts, _ := scanFamily(in.Vocab.ImmuneStatus, in.Sentences)
	return counts
}

// scanFamily applies one vocabulary family per sentence: the first match
// of each code in a sentence increments that code's counter and records
// the surface form.
func scanFamily(m *vocab.Matcher, sentences []string) (map[string]int, map[string]string) {
	counts := make(map[string]int)
	terms := make(map[string]string)
	for _, sentence := range sentences {
		for _, hit := range m.FindAll(sentence) {
			counts[hit.Code]++
			if _, seen := terms[hit.Surface]; !seen {
				terms[hit.Surface] = hit.Code
			}
		}
	}
	return counts, terms
}

// designMention matches a design phrase with an optional numeric prefix.
var designMentions = map[string]*regexp.Regexp{
	"rct":             regexp.MustCompile(`(?i)\b(?:(` + numTok + `)\s+)?(?:randomi[sz]ed[ -]controlled[ -]trials?|RCTs?)\b`),
	"cohort":          regexp.MustCompile(`(?i)\b(?:(` + numTok + `)\s+)?(?:prospective\s+|retrospective\s+)?cohort\s+stud(?:y|ies)\b`),
	"case_control":    regexp.MustCompile(`(?i)\b(?:(` + numTok + `)\s+)?case[ -]control\s+stud(?:y|ies)\b`),
	"cross_sectional": regexp.MustCompile(`(?i)\b(?:(` + numTok + `)\s+)?cross[ -]sectional\s+(?:stud(?:y|ies)|surveys?)\b`),
	"nrsi":            regexp.MustCompile(`(?i)\b(?:(` + numTok + `)\s+)?(?:observational|non[ -]?randomi[sz]ed|quasi[ -]experimental)\s+stud(?:y|ies)\b`),
}

// DesignMentions counts design-phrase occurrences across the retrieved
// window, summing explicit numeric prefixes and counting bare phrases
// as one.
func DesignMentions(ctx context.Context, in *Input) *model.DesignCounts {
	window := in.window(ctx, designsQuery, designsK)

	counts := make(map[string]int)
	for _, sentence := range window {
		for design, re := range designMentions {
			for _, m := range re.FindAllStringSubmatch(sentence, -1) {
				if m[1] != "" {
					if n, ok := parseNum(m[1]); ok {
						counts[design] += n
						continue
					}
				}
				counts[design]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return &model.DesignCounts{
		RCT:            counts["rct"],
		Cohort:         counts["cohort"],
		CaseControl:    counts["case_control"],
		CrossSectional: counts["cross_sectional"],
		NRSI:           counts["nrsi"],
	}
}
