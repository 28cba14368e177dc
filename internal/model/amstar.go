package model

// Verdict is a per-item AMSTAR-2 judgment.
type Verdict string

const (
	VerdictYes           Verdict = "Yes"
	VerdictPartialYes    Verdict = "Partial Yes"
	VerdictNo            Verdict = "No"
	VerdictNotApplicable Verdict = "Not Applicable"
)

// Overall confidence labels derived from the per-item verdicts.
const (
	LabelHigh          = "High"
	LabelModerate      = "Moderate"
	LabelLow           = "Low"
	LabelCriticallyLow = "Critically Low"
)

// AmstarVerdict holds the per-item judgments for the implemented subset of
// AMSTAR-2 items, the derived overall label, and the annotated flaw lists.
// Critical flaws are prefixed "# ", secondary flaws "* ".
type AmstarVerdict struct {
	Item1  Verdict `json:"item_1_pico"`
	Item2  Verdict `json:"item_2_protocol"`
	Item3  Verdict `json:"item_3_design_justification"`
	Item4  Verdict `json:"item_4_literature_search"`
	Item6  Verdict `json:"item_6_duplicate_extraction"`
	Item7  Verdict `json:"item_7_excluded_studies"`
	Item8  Verdict `json:"item_8_study_description"`
	Item9  Verdict `json:"item_9_rob_tool"`
	Item11 Verdict `json:"item_11_meta_analysis"`
	Item13 Verdict `json:"item_13_rob_considered"`
	Item15 Verdict `json:"item_15_publication_bias"`

	Item4Questions map[string]Verdict `json:"item_4_questions,omitempty"`

	Label string   `json:"amstar_label"`
	Flaws []string `json:"amstar_flaws,omitempty"`
}
