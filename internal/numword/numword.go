// Package numword converts English number phrases to integers and back.
package numword

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d[\d,]*`)

var wordValues = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleValues = map[string]int{
	"hundred":  100,
	"thousand": 1000,
	"million":  1000000,
}

// Parse converts a string holding a number to an integer. Digit runs
// (with optional thousands commas) take precedence over number words.
// The second return is false when no numeric content was found.
func Parse(s string) (int, bool) {
	if m := digitRun.FindString(s); m != "" {
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err == nil {
			return n, true
		}
	}
	return parseWords(s)
}

// parseWords accumulates number words: "two hundred and five" -> 205.
// Scale words multiply the running value; "hundred" stays in the running
// value so "two hundred thousand" works, larger scales flush to the total.
func parseWords(s string) (int, bool) {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	})

	total, cur := 0, 0
	found := false
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,;:()")
		if v, ok := wordValues[tok]; ok {
			cur += v
			found = true
			continue
		}
		if scale, ok := scaleValues[tok]; ok {
			if cur == 0 {
				cur = 1
			}
			cur *= scale
			if scale > 100 {
				total += cur
				cur = 0
			}
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return total + cur, true
}

// Verbalize renders a non-negative integer as an English phrase.
// Used to generate word-form variants when mining training sentences.
func Verbalize(n int) string {
	if n < 0 {
		return ""
	}
	if n == 0 {
		return "zero"
	}
	return strings.Join(verbalize(n), " ")
}

func verbalize(n int) []string {
	var parts []string
	appendScale := func(scale int, word string) {
		if n >= scale {
			parts = append(parts, verbalize(n/scale)...)
			parts = append(parts, word)
			n %= scale
		}
	}
	appendScale(1000000, "million")
	appendScale(1000, "thousand")
	appendScale(100, "hundred")

	if n >= 20 {
		tens := n / 10 * 10
		for word, v := range wordValues {
			if v == tens {
				if n%10 != 0 {
					parts = append(parts, word+"-"+unitWord(n%10))
				} else {
					parts = append(parts, word)
				}
				return parts
			}
		}
	}
	if n > 0 {
		parts = append(parts, unitWord(n))
	}
	return parts
}

func unitWord(n int) string {
	for word, v := range wordValues {
		if v == n && v < 20 {
			// Skip "zero" inside larger numbers.
			if n == 0 {
				continue
			}
			return word
		}
	}
	return ""
}
