package extract

import (
	"fmt"
	"math"

	"github.com/reviewminer/reviewminer/internal/model"
)

// Reconcile resolves the raw counts into the final article/study blocks.
//
// Total selection: when one sentence yielded both an articles_included
// and a unique_studies, total is the smaller of the two; otherwise total
// is articles_included. When no total was found but typed designs were,
// total is their sum.
//
// Scaling: when the typed-design sum exceeds a positive total, each
// component is multiplied by total/sum and rounded half away from zero
// (math.Round); the adjustment is recorded as evidence, never an error.
func Reconcile(c Counts, ev *Evidence) (*model.ArticleCounts, *model.StudyCounts) {
	total := c.ArticlesIncluded
	if c.PairedOnSentence && c.UniqueStudies > 0 && c.UniqueStudies < total {
		total = c.UniqueStudies
	}

	designs := make(map[string]int, len(c.Designs))
	sum := 0
	for _, d := range DesignOrder {
		designs[d] = c.Designs[d]
		sum += c.Designs[d]
	}

	if total == 0 && sum > 0 {
		total = sum
	}

	if sum > total && total > 0 {
		scaleToTotal(designs, sum, total)
		ev.Add("studies.reconciliation",
			fmt.Sprintf("typed design sum %d exceeded total %d; components scaled by %d/%d", sum, total, total, sum))
	}

	if total == 0 && c.ArticlesIncluded == 0 && c.UniqueStudies == 0 && sum == 0 {
		return nil, nil
	}

	articles := &model.ArticleCounts{
		ArticlesIncluded: c.ArticlesIncluded,
		UniqueStudies:    c.UniqueStudies,
		Total:            total,
		RCT:              designs["rct"],
		Cohort:           designs["cohort"],
		CaseControl:      designs["case_control"],
		CrossSectional:   designs["cross_sectional"],
		NRSI:             designs["nrsi"],
	}
	studies := &model.StudyCounts{
		Total:          total,
		RCT:            designs["rct"],
		Cohort:         designs["cohort"],
		CaseControl:    designs["case_control"],
		CrossSectional: designs["cross_sectional"],
		NRSI:           designs["nrsi"],
	}
	return articles, studies
}

// scaleToTotal multiplies every component by total/sum, rounding half
// away from zero. Rounding can still overshoot by one or two; the
// largest components are shaved until the sum fits.
func scaleToTotal(designs map[string]int, sum, total int) {
	factor := float64(total) / float64(sum)
	scaledSum := 0
	for _, d := range DesignOrder {
		scaled := int(math.Round(float64(designs[d]) * factor))
		designs[d] = scaled
		scaledSum += scaled
	}
	for scaledSum > total {
		largest := DesignOrder[0]
		for _, d := range DesignOrder[1:] {
			if designs[d] > designs[largest] {
				largest = d
			}
		}
		designs[largest]--
		scaledSum--
	}
}

// CapDesigns scales the design-mention counts against the reconciled
// study total: mention tallies are noisier than the typed counts, so
// their sum must never exceed the number of included studies.
func CapDesigns(dc *model.DesignCounts, total int) {
	if dc == nil || total <= 0 {
		return
	}
	designs := map[string]int{
		"rct":             dc.RCT,
		"cohort":          dc.Cohort,
		"case_control":    dc.CaseControl,
		"cross_sectional": dc.CrossSectional,
		"nrsi":            dc.NRSI,
	}
	sum := 0
	for _, d := range DesignOrder {
		sum += designs[d]
	}
	if sum <= total {
		return
	}
	scaleToTotal(designs, sum, total)
	dc.RCT = designs["rct"]
	dc.Cohort = designs["cohort"]
	dc.CaseControl = designs["case_control"]
	dc.CrossSectional = designs["cross_sectional"]
	dc.NRSI = designs["nrsi"]
}
