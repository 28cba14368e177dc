package extract

import (
	"context"
	"regexp"

	"github.com/reviewminer/reviewminer/internal/datefind"
)

const searchDateQuery = "last literature search date"
const searchDateK = 12

// dateContext marks a sentence as being about the search period.
var dateContext = regexp.MustCompile(`(?i)\b(?:last|search|searched|conducted|performed|updated|up\s+to|through|until)\b`)

// SearchDate extracts the last literature-search date: the latest date
// mentioned in a retrieved sentence that carries both a date and search
// context. Falls back to scanning the full text when the window has none.
func SearchDate(ctx context.Context, in *Input, ev *Evidence) string {
	var matches []datefind.Match
	cited := 0
	for _, sentence := range in.window(ctx, searchDateQuery, searchDateK) {
		if !dateContext.MatchString(sentence) || !datefind.Pattern.MatchString(sentence) {
			continue
		}
		found := datefind.FindAll(sentence)
		if len(found) > 0 {
			matches = append(matches, found...)
			if cited < 3 {
				ev.Add("lit_search_date", sentence)
				cited++
			}
		}
	}
	if len(matches) == 0 {
		matches = datefind.FindAll(in.FullText)
	}

	best, ok := datefind.Latest(matches)
	if !ok {
		return ""
	}
	return best.Raw
}
