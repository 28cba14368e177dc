// Package textnorm splits systematic-review full text into ordered,
// normalized sentences for the downstream extractors.
package textnorm

import (
	"strings"
)

var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// Normalize splits a document into ordered sentences and returns them
// along with the normalized full text. Sentences come from two passes:
// terminator-based splitting and hard-newline splitting (list items keep
// their line after bullet markers are stripped). The two orderings are
// merged and deduplicated preserving first-seen position.
func Normalize(text string) ([]string, string) {
	if strings.TrimSpace(text) == "" {
		return nil, ""
	}

	text = dashReplacer.Replace(text)

	var ordered []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = collapseWhitespace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		ordered = append(ordered, s)
	}

	for _, line := range strings.Split(text, "\n") {
		stripped, isItem := stripBullet(line)
		if isItem {
			// List items survive whole, in addition to any inner sentences.
			add(stripped)
		}
		for _, s := range splitTerminators(stripped) {
			add(s)
		}
	}

	return ordered, collapseWhitespace(text)
}

// splitTerminators splits on sentence terminators followed by whitespace
// (or end of line).
func splitTerminators(text string) []string {
	var sentences []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
				sentences = append(sentences, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// stripBullet removes leading list-item markers from a line. The second
// return reports whether the line was a list item.
func stripBullet(line string) (string, bool) {
	s := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "+ ", "• ", "· ", "o "} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(s[len(marker):]), true
		}
	}
	return s, false
}

// collapseWhitespace collapses runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
