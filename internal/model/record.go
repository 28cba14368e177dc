package model

// Record is the canonical per-document extraction result. Field order
// matches the documented key order of the assembled record; encoding/json
// preserves struct order, so the serialized record is deterministic.
type Record struct {
	LitSearchDate      string             `json:"lit_search_date,omitempty"`
	Articles           *ArticleCounts     `json:"articles,omitempty"`
	Studies            *StudyCounts       `json:"studies,omitempty"`
	DesignCounts       *DesignCounts      `json:"design_counts,omitempty"`
	Topics             map[string]int     `json:"topics,omitempty"`
	TopicTerms         map[string]string  `json:"topics_terms,omitempty"`
	Outcomes           map[string]int     `json:"outcomes,omitempty"`
	Interventions      *Interventions     `json:"interventions,omitempty"`
	InterventionTerms  map[string]string  `json:"intervention_terms,omitempty"`
	AgeGroups          map[string]int     `json:"age_groups,omitempty"`
	AgeGroupTerms      map[string]string  `json:"age_group_terms,omitempty"`
	SpecificGroups     map[string]int     `json:"specific_groups,omitempty"`
	SpecificGroupTerms map[string]string  `json:"specific_group_terms,omitempty"`
	ImmuneStatus       map[string]int     `json:"immune_status,omitempty"`
	Countries          *CountryCounts     `json:"countries,omitempty"`
	Regions            map[string]bool    `json:"regions,omitempty"`
	Databases          *DatabaseSummary   `json:"databases,omitempty"`
	Treatment          *Treatment         `json:"treatment,omitempty"`
	Evidence           []EvidencePair     `json:"evidence,omitempty"`
}

// ArticleCounts holds the inclusion counts keyed by study design, plus the
// raw article/study totals the counts were reconciled from.
type ArticleCounts struct {
	ArticlesIncluded int  `json:"articles_included"`
	UniqueStudies    int  `json:"unique_studies"`
	Total            int  `json:"total"`
	RCT              int  `json:"rct"`
	Cohort           int  `json:"cohort"`
	CaseControl      int  `json:"case_control"`
	CrossSectional   int  `json:"cross_sectional"`
	NRSI             int  `json:"nrsi"`
	NumCountries     *int `json:"num_countries_included,omitempty"`
}

// StudyCounts is the reconciled per-design view of the included studies.
type StudyCounts struct {
	Total          int `json:"total"`
	RCT            int `json:"rct"`
	Cohort         int `json:"cohort"`
	CaseControl    int `json:"case_control"`
	CrossSectional int `json:"cross_sectional"`
	NRSI           int `json:"nrsi"`
}

// DesignCounts counts design-phrase mentions independent of the totals.
type DesignCounts struct {
	RCT            int `json:"rct"`
	Cohort         int `json:"cohort"`
	CaseControl    int `json:"case_control"`
	CrossSectional int `json:"cross_sectional"`
	NRSI           int `json:"nrsi"`
}

// Interventions holds disease and vaccine-option mention counts.
type Interventions struct {
	Diseases       map[string]int `json:"diseases,omitempty"`
	VaccineOptions map[string]int `json:"vaccine_options,omitempty"`
}

// CountryCounts holds per-country study counts and the maximum observed
// sample size per country. Sample sizes are maxima, not sums: repeated
// mentions in the same paper denote the same cohort.
type CountryCounts struct {
	StudyCounts map[string]int `json:"study_counts,omitempty"`
	SampleSizes map[string]int `json:"sample_sizes,omitempty"`
}

// DatabaseSummary lists the bibliographic databases the review searched.
type DatabaseSummary struct {
	NumDatabases int      `json:"num_databases"`
	DatabaseList []string `json:"database_list"`
}

// Treatment holds intervention parameters mined from the text.
type Treatment struct {
	Durations  []string `json:"duration_of_intervention,omitempty"`
	Dosage     *Dosage  `json:"dosage,omitempty"`
	Comparator []string `json:"comparator,omitempty"`
}

// Dosage holds dose amounts and dosing schedules.
type Dosage struct {
	Amounts   []string `json:"amounts,omitempty"`
	Schedules []string `json:"schedules,omitempty"`
}

// EvidencePair records which sentence drove a slot decision.
type EvidencePair struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// MaxEvidencePerDocument bounds the evidence list attached to a record.
const MaxEvidencePerDocument = 60
