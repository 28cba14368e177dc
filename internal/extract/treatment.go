package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/reviewminer/reviewminer/internal/model"
)

const treatmentQuery = "intervention duration dose schedule and comparator"
const treatmentK = 15

const (
	maxDurations   = 3
	maxDoseAmounts = 5
	maxSchedules   = 5
	maxComparators = 3
)

var (
	reDuration = regexp.MustCompile(`(?i)\b(?:for|over|during|follow[ -]?up\s+of)\s+(\d+(?:\.\d+)?\s*(?:day|week|month|year)s?)\b`)
	// Duration stated before the noun: "12-week treatment", "6 months of followup".
	reDurationNoun = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?[ -](?:day|week|month|year)s?)\b(?:\s+of)?\s+(?:follow[ -]?up|treatment|intervention)\b`)

	reDoseAmount = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?\s*(?:mg|g|mcg|μg|ug|IU|mL))\b`)

	reScheduleSeries = regexp.MustCompile(`(?i)\b((?:one|two|three|four|single|\d+)[ -]dose\s+(?:series|schedule|regimen|vaccination)?)\b`)
	reScheduleAt     = regexp.MustCompile(`(?i)\b(doses?\s+(?:given\s+)?at\s+[\d,\s]+(?:and\s+\d+\s*)?(?:weeks?|months?))\b`)

	reComparatorVs = regexp.MustCompile(`(?i)\b(?:versus|vs\.?|compared\s+(?:to|with)|against)\s+((?:a\s+|the\s+)?(?:placebo|control|standard\s+(?:of\s+)?care|usual\s+care|no\s+treatment|unvaccinated)(?:\s+(?:group|arm))?)`)
	reComparatorArm = regexp.MustCompile(`(?i)\b((?:placebo|control|standard\s+(?:of\s+)?care|usual\s+care|no[ -]treatment|unvaccinated)\s+(?:group|arm))\b`)
)

// TreatmentDetails mines intervention duration, dosing and comparator
// phrases. Lists are deduplicated in first-seen order and truncated.
func TreatmentDetails(ctx context.Context, in *Input, ev *Evidence) *model.Treatment {
	window := in.window(ctx, treatmentQuery, treatmentK)

	var durations, amounts, schedules, comparators []string
	for _, sentence := range window {
		before := len(durations) + len(amounts) + len(schedules) + len(comparators)

		durations = collect(durations, sentence, maxDurations, reDuration, reDurationNoun)
		amounts = collect(amounts, sentence, maxDoseAmounts, reDoseAmount)
		schedules = collect(schedules, sentence, maxSchedules, reScheduleSeries, reScheduleAt)
		comparators = collect(comparators, sentence, maxComparators, reComparatorVs, reComparatorArm)

		if len(durations)+len(amounts)+len(schedules)+len(comparators) > before {
			ev.Add("treatment", sentence)
		}
	}

	if len(durations) == 0 && len(amounts) == 0 && len(schedules) == 0 && len(comparators) == 0 {
		return nil
	}
	t := &model.Treatment{Durations: durations, Comparator: comparators}
	if len(amounts) > 0 || len(schedules) > 0 {
		t.Dosage = &model.Dosage{Amounts: amounts, Schedules: schedules}
	}
	return t
}

// collect appends the first capture group of each match, deduplicated
// case-insensitively and capped.
func collect(dst []string, sentence string, limit int, res ...*regexp.Regexp) []string {
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(sentence, -1) {
			phrase := strings.Join(strings.Fields(m[1]), " ")
			if phrase == "" || len(dst) >= limit {
				continue
			}
			dup := false
			for _, have := range dst {
				if strings.EqualFold(have, phrase) {
					dup = true
					break
				}
			}
			if !dup {
				dst = append(dst, phrase)
			}
		}
	}
	return dst
}
