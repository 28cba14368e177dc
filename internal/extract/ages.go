package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/reviewminer/reviewminer/internal/vocab"
)

// Numeric age expressions. Dash variants are normalized to "-" upstream.
var (
	reAgeRange  = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:-|to)\s*(\d{1,3})\s*(?:years?|yrs?)\b`)
	reAgeSingle = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?|yrs?)\b(?:\s+(?:of\s+age|old))?`)
	reAgeUnder  = regexp.MustCompile(`(?i)[<≤]\s*(\d{1,3})\s*(?:years?|yrs?)\b`)
	reAgeOver   = regexp.MustCompile(`(?i)[>≥]\s*(\d{1,3})\s*(?:years?|yrs?)\b`)
)

// AgeGroups extracts age-bucket counts and the surface-phrase term map.
// Dictionary hits map straight to bucket codes; explicit numeric ranges
// are bucketed by their midpoint and counted under synthetic keys
// (range_A_B, age_A).
func AgeGroups(in *Input) (map[string]int, map[string]string) {
	counts := make(map[string]int)
	terms := make(map[string]string)

	for _, sentence := range in.Sentences {
		for _, hit := range in.Vocab.AgeGroups.FindAll(sentence) {
			counts[hit.Code]++
			if _, seen := terms[hit.Surface]; !seen {
				terms[hit.Surface] = hit.Code
			}
		}

		covered := make([][2]int, 0, 4)
		for _, loc := range reAgeRange.FindAllStringSubmatchIndex(sentence, -1) {
			m := reAgeRange.FindStringSubmatch(sentence[loc[0]:loc[1]])
			low, _ := strconv.Atoi(m[1])
			high, _ := strconv.Atoi(m[2])
			if low > high {
				continue
			}
			bucket := vocab.BucketForAge(float64(low+high) / 2)
			counts[fmt.Sprintf("range_%d_%d", low, high)]++
			terms[normalizeAgeSurface(sentence[loc[0]:loc[1]])] = bucket
			covered = append(covered, [2]int{loc[0], loc[1]})
		}
		for _, loc := range reAgeUnder.FindAllStringSubmatchIndex(sentence, -1) {
			m := reAgeUnder.FindStringSubmatch(sentence[loc[0]:loc[1]])
			limit, _ := strconv.Atoi(m[1])
			bucket := vocab.BucketForAge(float64(limit) / 2)
			counts["age_"+m[1]]++
			terms[normalizeAgeSurface(sentence[loc[0]:loc[1]])] = bucket
			covered = append(covered, [2]int{loc[0], loc[1]})
		}
		for _, loc := range reAgeOver.FindAllStringSubmatchIndex(sentence, -1) {
			m := reAgeOver.FindStringSubmatch(sentence[loc[0]:loc[1]])
			limit, _ := strconv.Atoi(m[1])
			bucket := vocab.BucketForAge(float64(limit) + 1)
			counts["age_"+m[1]]++
			terms[normalizeAgeSurface(sentence[loc[0]:loc[1]])] = bucket
			covered = append(covered, [2]int{loc[0], loc[1]})
		}
		for _, loc := range reAgeSingle.FindAllStringSubmatchIndex(sentence, -1) {
			if overlaps(loc[0], loc[1], covered) {
				continue
			}
			m := reAgeSingle.FindStringSubmatch(sentence[loc[0]:loc[1]])
			age, _ := strconv.Atoi(m[1])
			bucket := vocab.BucketForAge(float64(age))
			counts["age_"+m[1]]++
			terms[normalizeAgeSurface(sentence[loc[0]:loc[1]])] = bucket
		}
	}
	return counts, terms
}

// overlaps reports whether [start,end) intersects any covered span, so a
// bare "17 years" inside "10-17 years" is not double-counted.
func overlaps(start, end int, covered [][2]int) bool {
	for _, span := range covered {
		if start < span[1] && end > span[0] {
			return true
		}
	}
	return false
}

func normalizeAgeSurface(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
