package amstar

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/reviewminer/reviewminer/internal/datefind"
	"github.com/reviewminer/reviewminer/internal/model"
)

// Item 1: at least one term from each PICO lexicon.
var (
	rePopulation   = regexp.MustCompile(`(?i)\b(?:patients?|participants?|adults?|children|adolescents?|infants?|individuals|population|pregnant\s+women|elderly)\b`)
	reIntervention = regexp.MustCompile(`(?i)\b(?:vaccin\w+|immuni[sz]ation|treatment|intervention|therapy|prophylaxis|doses?)\b`)
	reComparator   = regexp.MustCompile(`(?i)\b(?:placebo|unvaccinated|control\s+(?:group|arm)|comparators?|versus|vs\.?|compared\s+(?:with|to)|no\s+treatment|usual\s+care)\b`)
	reOutcome      = regexp.MustCompile(`(?i)\b(?:outcomes?|effectiveness|efficacy|mortality|hospitali[sz]ations?|incidence|adverse\s+events?|seroconversion|case\s+fatality)\b`)
)

func item1(d *Document) model.Verdict {
	if rePopulation.MatchString(d.FullText) &&
		reIntervention.MatchString(d.FullText) &&
		reComparator.MatchString(d.FullText) &&
		reOutcome.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 2: registered protocol. PROSPERO is an acronym, matched verbatim.
var reProsperoID = regexp.MustCompile(`CRD\d{6,}`)

func item2(d *Document) model.Verdict {
	if strings.Contains(d.FullText, "PROSPERO") && reProsperoID.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 3: inclusion-design justification, satisfied by either an RCT or an
// NRSI design phrase.
var (
	reRCTPhrase  = regexp.MustCompile(`(?i)\b(?:randomi[sz]ed[ -]controlled[ -]trials?|RCTs?|randomi[sz]ed\s+trials?)\b`)
	reNRSIPhrase = regexp.MustCompile(`(?i)\b(?:non[ -]?randomi[sz]ed|observational\s+stud(?:y|ies)|cohort\s+stud(?:y|ies)|case[ -]control|cross[ -]sectional|quasi[ -]experimental)\b`)
)

func item3(d *Document) model.Verdict {
	if reRCTPhrase.MatchString(d.FullText) || reNRSIPhrase.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 4 sub-question rules.
var (
	reSearchStrategy = regexp.MustCompile(`(?i)\b(?:search\s+strateg|search\s+terms?|search\s+string|boolean|MeSH\s+terms?|keywords\s+used)\b`)
	reRestrictions   = regexp.MustCompile(`(?i)\b(?:language\s+restrictions?|no\s+restrictions?|restricted\s+to|limited\s+to\s+English|publication\s+(?:date|period|status)\s+restrict|English[ -]language\s+(?:articles|studies|publications))`)
	reReferenceLists = regexp.MustCompile(`(?i)\b(?:reference\s+lists?|bibliograph(?:y|ies)|hand[ -]search|citation\s+search)`)
	reRegistries     = regexp.MustCompile(`(?i)\b(?:ClinicalTrials\.gov|trial\s+registr(?:y|ies)|WHO\s+ICTRP|PROSPERO\s+registr)`)
	reExperts        = regexp.MustCompile(`(?i)\b(?:content\s+experts?|experts?\s+(?:in\s+the\s+field\s+)?were\s+consulted|consulted\s+experts?|contacted\s+(?:study\s+)?authors)`)
)

const item4Threshold = 0.3

// Item 4 sub-question order: three core questions first, then the four
// extended ones.
var item4Core = []string{"databases", "strategy", "restrictions"}
var item4Extended = []string{"reference_lists", "registries", "experts", "recent_search"}

func (e *Evaluator) item4(ctx context.Context, d *Document) (model.Verdict, map[string]model.Verdict) {
	questions := make(map[string]model.Verdict, 7)

	pass := func(key string, ruleHit bool, question string) {
		if ruleHit || e.qaAbove(ctx, question, d.FullText, item4Threshold) {
			questions[key] = model.VerdictYes
		} else {
			questions[key] = model.VerdictNo
		}
	}

	pass("databases", len(e.vocab.Databases.FindAll(d.FullText)) >= 2,
		"Were at least two bibliographic databases searched?")
	pass("strategy", reSearchStrategy.MatchString(d.FullText),
		"Is the full search strategy or the list of search terms described?")
	pass("restrictions", reRestrictions.MatchString(d.FullText),
		"Are language or publication restrictions on the search stated?")
	pass("reference_lists", reReferenceLists.MatchString(d.FullText),
		"Were reference lists or bibliographies of included studies searched?")
	pass("registries", reRegistries.MatchString(d.FullText),
		"Were clinical trial registries searched?")
	pass("experts", reExperts.MatchString(d.FullText),
		"Were content experts consulted or study authors contacted?")
	questions["recent_search"] = recentSearch(d)

	all := true
	for _, key := range append(append([]string{}, item4Core...), item4Extended...) {
		if questions[key] != model.VerdictYes {
			all = false
		}
	}
	if all {
		return model.VerdictYes, questions
	}
	core := true
	for _, key := range item4Core {
		if questions[key] != model.VerdictYes {
			core = false
		}
	}
	if core {
		return model.VerdictPartialYes, questions
	}
	return model.VerdictNo, questions
}

// recentSearch checks the latest 4-digit year in the text against the
// review date: the search is recent when the review date falls within 730
// days after January 1 of that year.
func recentSearch(d *Document) model.Verdict {
	if d.ReviewDate.IsZero() {
		return model.VerdictNo
	}
	year, ok := datefind.LatestYear(d.FullText)
	if !ok {
		return model.VerdictNo
	}
	anchor := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	gap := d.ReviewDate.Sub(anchor)
	if gap >= 0 && gap <= 730*24*time.Hour {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 6: duplicate data extraction.
var reDuplicateExtraction = regexp.MustCompile(`(?i)\b(?:extracted\s+(?:data\s+)?independently|independently\s+extracted|in\s+duplicate|two\s+(?:independent\s+)?reviewers|consensus|discrepancies\s+(?:were\s+)?resolved|third\s+reviewer)`)

func item6(d *Document) model.Verdict {
	if reDuplicateExtraction.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 7: excluded studies listed and justified.
var (
	reFlowKeywords       = regexp.MustCompile(`(?i)\b(?:PRISMA|flow\s+diagram|flow\s+chart|flowchart)\b`)
	reDetailedExclusions = regexp.MustCompile(`(?i)(?:list\s+of\s+excluded\s+stud|excluded[^.?!]{0,80}\b(?:reasons?|justifications?)\b|reasons?\s+for\s+exclusion)`)
)

func item7(d *Document) model.Verdict {
	detailed := reDetailedExclusions.MatchString(d.FullText)
	switch {
	case detailed && reFlowKeywords.MatchString(d.FullText):
		return model.VerdictYes
	case detailed:
		return model.VerdictPartialYes
	default:
		return model.VerdictNo
	}
}

// Item 8: included studies described in adequate detail.
var reStudyDescription = regexp.MustCompile(`(?i)(?:characteristics\s+of\s+(?:the\s+)?included\s+stud|study\s+characteristics|summary\s+of\s+included\s+stud|described\s+in\s+detail|baseline\s+characteristics)`)

func item8(d *Document) model.Verdict {
	if reStudyDescription.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 9: a risk-of-bias tool per included design, with tabulated
// per-study results.
var (
	reRCTTool  = regexp.MustCompile(`(?i)\b(?:Cochrane\s+(?:Collaboration'?s?\s+)?risk[ -]of[ -]bias|Cochrane\s+RoB|RoB[ -]?2)\b`)
	reNRSITool = regexp.MustCompile(`\b(?:Newcastle[ -]Ottawa|ROBINS[ -]?I|SIGN|MMAT)\b`)
	reTableFig = regexp.MustCompile(`(?i)\b(?:Table\s+\w+|Figure\s+\w+|Supplementary)`)
	rePerStudy = regexp.MustCompile(`(?i)\b(?:each\s+(?:included\s+)?stud|per[ -]study|individual\s+stud|study[ -]level)`)
)

func item9(d *Document) model.Verdict {
	hasRCT := reRCTPhrase.MatchString(d.FullText)
	hasNRSI := reNRSIPhrase.MatchString(d.FullText)

	if hasRCT && !reRCTTool.MatchString(d.FullText) {
		return model.VerdictNo
	}
	if hasNRSI && !reNRSITool.MatchString(d.FullText) {
		return model.VerdictNo
	}
	// With no design phrase at all, any recognized tool counts.
	if !hasRCT && !hasNRSI && !reRCTTool.MatchString(d.FullText) && !reNRSITool.MatchString(d.FullText) {
		return model.VerdictNo
	}
	if reTableFig.MatchString(d.FullText) && rePerStudy.MatchString(d.FullText) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 11: meta-analytical methods.
var (
	reMetaCue      = regexp.MustCompile(`(?i)\b(?:meta[ -]analys|pooled\s+(?:estimates?|analysis|odds|risk|effect)|quantitative\s+synthesis)`)
	reMetaModel    = regexp.MustCompile(`(?i)\b(?:random[ -]effects?|fixed[ -]effects?|mixed[ -]effects?|Mantel[ -]Haenszel)\b`)
	reMetaJustify  = regexp.MustCompile(`(?i)(?:model\s+was\s+(?:chosen|selected|used)|(?:chosen|selected)\s+(?:because|due\s+to|a\s+priori)|heterogeneity\s+was\s+(?:anticipated|expected)|justified)`)
	reHetAssess    = regexp.MustCompile(`(?i)(?:\bI[2²]\b|\bI\^2\b|Cochran|Q[ -]statistic|tau[2²]|heterogeneity\s+was\s+(?:assessed|quantified|evaluated))`)
	reHetExplore   = regexp.MustCompile(`(?i)\b(?:subgroup\s+analys|meta[ -]regression|sensitivity\s+analys)`)
	reHetNoFinding = regexp.MustCompile(`(?i)\b(?:no\s+(?:significant|substantial)?\s*heterogeneity|heterogeneity\s+was\s+(?:low|minimal|absent))`)
)

func item11(d *Document) model.Verdict {
	if !reMetaCue.MatchString(d.FullText) {
		return model.VerdictNotApplicable
	}
	if reMetaModel.MatchString(d.FullText) &&
		reMetaJustify.MatchString(d.FullText) &&
		reHetAssess.MatchString(d.FullText) &&
		(reHetExplore.MatchString(d.FullText) || reHetNoFinding.MatchString(d.FullText)) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 13: risk of bias considered when interpreting results.
var (
	reOnlyQuality = regexp.MustCompile(`(?i)(?:only|restricted\s+to)[^.?!]{0,60}\b(?:low\s+risk\s+of\s+bias|high[ -]quality)`)
	reRoBTerm     = regexp.MustCompile(`(?i)\b(?:risk\s+of\s+bias|methodological\s+quality|study\s+quality)\b`)
	reInterpTerm  = regexp.MustCompile(`(?i)\b(?:interpret|discuss(?:ed|ion)|conclusions?|certainty\s+of\s+(?:the\s+)?evidence)\b`)
	reGrade       = regexp.MustCompile(`\bGRADE\b`)
)

func item13(d *Document) model.Verdict {
	if reOnlyQuality.MatchString(d.FullText) {
		return model.VerdictYes
	}
	if reRoBTerm.MatchString(d.FullText) &&
		(reInterpTerm.MatchString(d.FullText) || reGrade.MatchString(d.FullText)) {
		return model.VerdictYes
	}
	return model.VerdictNo
}

// Item 15: publication bias, answered by two extractive questions.
const item15Threshold = 0.1

const (
	pubBiasMentionQ = "Does the review assess publication bias or small-study effects, for example with a funnel plot or Egger's test?"
	pubBiasImpactQ  = "Does the review discuss how publication bias could affect the results?"
)

func (e *Evaluator) item15(ctx context.Context, d *Document) model.Verdict {
	if e.qaAbove(ctx, pubBiasMentionQ, d.FullText, item15Threshold) &&
		e.qaAbove(ctx, pubBiasImpactQ, d.FullText, item15Threshold) {
		return model.VerdictYes
	}
	return model.VerdictNo
}
