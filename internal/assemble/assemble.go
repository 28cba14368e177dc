// Package assemble turns the per-slot extraction outputs into the
// canonical pruned record.
package assemble

import "github.com/reviewminer/reviewminer/internal/model"

// Parts carries every slot output. Zero values mean the slot produced
// nothing and are pruned from the record.
type Parts struct {
	LitSearchDate string

	Articles     *model.ArticleCounts
	Studies      *model.StudyCounts
	DesignCounts *model.DesignCounts
	NumCountries *int

	Topics     map[string]int
	TopicTerms map[string]string
	Outcomes   map[string]int

	Interventions     *model.Interventions
	InterventionTerms map[string]string

	AgeGroups     map[string]int
	AgeGroupTerms map[string]string

	SpecificGroups     map[string]int
	SpecificGroupTerms map[string]string

	ImmuneStatus map[string]int

	Countries *model.CountryCounts
	Regions   map[string]bool
	Databases *model.DatabaseSummary
	Treatment *model.Treatment

	Evidence []model.EvidencePair
}

// Record assembles and prunes the final record. Count blocks keep their
// zero-valued design fields; absent blocks, empty maps and empty lists
// are dropped entirely.
func Record(p Parts) *model.Record {
	r := &model.Record{
		LitSearchDate:      p.LitSearchDate,
		Articles:           p.Articles,
		Studies:            p.Studies,
		DesignCounts:       p.DesignCounts,
		Topics:             pruneCounts(p.Topics),
		TopicTerms:         pruneTerms(p.TopicTerms),
		Outcomes:           pruneCounts(p.Outcomes),
		Interventions:      pruneInterventions(p.Interventions),
		InterventionTerms:  pruneTerms(p.InterventionTerms),
		AgeGroups:          pruneCounts(p.AgeGroups),
		AgeGroupTerms:      pruneTerms(p.AgeGroupTerms),
		SpecificGroups:     pruneCounts(p.SpecificGroups),
		SpecificGroupTerms: pruneTerms(p.SpecificGroupTerms),
		ImmuneStatus:       pruneCounts(p.ImmuneStatus),
		Countries:          pruneCountries(p.Countries),
		Regions:            pruneRegions(p.Regions),
		Databases:          pruneDatabases(p.Databases),
		Treatment:          pruneTreatment(p.Treatment),
		Evidence:           p.Evidence,
	}
	if r.Articles != nil {
		r.Articles.NumCountries = p.NumCountries
	}
	return r
}

func pruneCounts(m map[string]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	return m
}

func pruneTerms(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func pruneRegions(m map[string]bool) map[string]bool {
	if len(m) == 0 {
		return nil
	}
	return m
}

func pruneInterventions(iv *model.Interventions) *model.Interventions {
	if iv == nil {
		return nil
	}
	iv.Diseases = pruneCounts(iv.Diseases)
	iv.VaccineOptions = pruneCounts(iv.VaccineOptions)
	if iv.Diseases == nil && iv.VaccineOptions == nil {
		return nil
	}
	return iv
}

func pruneCountries(c *model.CountryCounts) *model.CountryCounts {
	if c == nil {
		return nil
	}
	c.StudyCounts = pruneCounts(c.StudyCounts)
	c.SampleSizes = pruneCounts(c.SampleSizes)
	if c.StudyCounts == nil && c.SampleSizes == nil {
		return nil
	}
	return c
}

func pruneDatabases(d *model.DatabaseSummary) *model.DatabaseSummary {
	if d == nil || len(d.DatabaseList) == 0 {
		return nil
	}
	return d
}

func pruneTreatment(t *model.Treatment) *model.Treatment {
	if t == nil {
		return nil
	}
	if t.Dosage != nil && len(t.Dosage.Amounts) == 0 && len(t.Dosage.Schedules) == 0 {
		t.Dosage = nil
	}
	if len(t.Durations) == 0 && t.Dosage == nil && len(t.Comparator) == 0 {
		return nil
	}
	return t
}
