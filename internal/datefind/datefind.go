// Package datefind recognizes fuzzy date mentions in running text.
package datefind

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	// Pattern matches any supported date form. Extractors use it to test
	// sentences for date mentions before collecting candidates.
	Pattern = regexp.MustCompile(`(?i)\b(?:` +
		`(?:` + monthAlt + `)\.?\s+(?:\d{1,2}(?:st|nd|rd|th)?,?\s+)?\d{4}` + `|` +
		`\d{1,2}(?:st|nd|rd|th)?\s+(?:` + monthAlt + `)\.?,?\s+\d{4}` + `|` +
		`\d{4}-\d{2}(?:-\d{2})?` +
		`)\b`)

	monthDayYear = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+(?:(\d{1,2})(?:st|nd|rd|th)?,?\s+)?(\d{4})\b`)
	dayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthAlt + `)\.?,?\s+(\d{4})\b`)
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{2})(?:-(\d{2}))?\b`)
	yearOnly     = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Match is a recognized date mention: the verbatim phrase and its
// parsed value (missing day/month default to the first).
type Match struct {
	Raw  string
	Time time.Time
}

// FindAll returns every date mention in the text, in document order.
func FindAll(text string) []Match {
	var matches []Match
	for _, raw := range Pattern.FindAllString(text, -1) {
		if t, ok := Parse(raw); ok {
			matches = append(matches, Match{Raw: raw, Time: t})
		}
	}
	return matches
}

// Parse parses a single fuzzy date phrase.
func Parse(s string) (time.Time, bool) {
	if m := isoDate.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day := 1
		if m[3] != "" {
			day, _ = strconv.Atoi(m[3])
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		month, ok := monthByName(m[1])
		if ok {
			day := 1
			if m[2] != "" {
				day, _ = strconv.Atoi(m[2])
			}
			year, _ := strconv.Atoi(m[3])
			if day >= 1 && day <= 31 {
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		month, ok := monthByName(m[2])
		if ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if day >= 1 && day <= 31 {
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

// Latest returns the latest match by parsed time. Ties keep the earlier
// mention so output is stable.
func Latest(matches []Match) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Time.After(best.Time) {
			best = m
		}
	}
	return best, true
}

// LatestYear returns the latest plausible 4-digit year in the text.
func LatestYear(text string) (int, bool) {
	best := 0
	for _, m := range yearOnly.FindAllString(text, -1) {
		y, _ := strconv.Atoi(m)
		if y > best {
			best = y
		}
	}
	return best, best > 0
}

func monthByName(name string) (time.Month, bool) {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	m, ok := monthNumbers[key]
	return m, ok
}
