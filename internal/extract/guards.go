package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// inclusionGuard matches phrasing that marks a sentence as describing the
// included set.
var inclusionGuard = regexp.MustCompile(`(?i)\b(?:were\s+included|included|retained|synthesi[sz]ed|meta-?analy[sz]ed|analy[sz]ed|used\s+for\s+analysis|for\s+data\s+extraction|in\s+the\s+review|in\s+this\s+review|met\s+(?:the\s+)?(?:inclusion|eligibility)\s+criteria)\b`)

// decoyGuard rejects sentences about the rejected set.
var decoyGuard = regexp.MustCompile(`(?i)\b(?:excluded|screened|removed|not\s+included|non-?eligible|eligibility)\b`)

// isDecoy reports whether a sentence describes excluded or screened
// records rather than the included set.
func isDecoy(sentence string) bool {
	return decoyGuard.MatchString(sentence)
}

// hasInclusionVerb reports whether a sentence carries inclusion phrasing.
func hasInclusionVerb(sentence string) bool {
	return inclusionGuard.MatchString(sentence)
}

// candidate is one scored regex match. Scoring follows a fixed rubric:
// markers of the final included set weigh negative, decoy signals weigh
// positive, and the lowest score wins with ties broken by the shortest
// matched span.
type candidate struct {
	value    int
	unique   int  // second captured count, when the pattern has one
	hasPair  bool // both counts came from the same sentence
	sentence string
	span     int
	score    int
	applied  []string
}

const (
	weightFinal        = -2
	weightOverall      = -2
	weightInThisReview = -2
	weightRepresenting = -3
	weightInclusion    = -1
	weightDecoy        = 5
)

// scoreCandidate applies the rubric and records which rules fired so the
// attribution can be emitted as evidence.
func scoreCandidate(c *candidate) {
	lower := strings.ToLower(c.sentence)
	rule := func(name string, weight int) {
		c.score += weight
		c.applied = append(c.applied, fmt.Sprintf("%s:%+d", name, weight))
	}

	if strings.Contains(lower, "final") {
		rule("final", weightFinal)
	}
	if strings.Contains(lower, "overall") {
		rule("overall", weightOverall)
	}
	if strings.Contains(lower, "in this review") {
		rule("in_this_review", weightInThisReview)
	}
	if representingUnique.MatchString(lower) {
		rule("representing_unique", weightRepresenting)
	}
	if hasInclusionVerb(c.sentence) {
		rule("inclusion_verb", weightInclusion)
	}
	if isDecoy(c.sentence) {
		rule("decoy", weightDecoy)
	}
}

var representingUnique = regexp.MustCompile(`(?i)representing\s+\S+\s+unique`)

// pickBest returns the candidate with the lowest score; ties prefer the
// shortest matched span, then earlier discovery order.
func pickBest(cands []candidate) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score < best.score || (c.score == best.score && c.span < best.span) {
			best = c
		}
	}
	return best, true
}

// rubricString renders the applied rules for evidence attribution.
func rubricString(c candidate) string {
	if len(c.applied) == 0 {
		return fmt.Sprintf("score=%d", c.score)
	}
	return fmt.Sprintf("%s score=%d", strings.Join(c.applied, " "), c.score)
}
