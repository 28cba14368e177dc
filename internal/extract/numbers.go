package extract

import "github.com/reviewminer/reviewminer/internal/numword"

// numberWord matches a single English number word.
const numberWord = `(?:zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|hundred|thousand|million)`

// numTok matches a count in digit or word form, with thousands commas
// and hyphen/space joined word phrases.
const numTok = `(?:\d[\d,]*|` + numberWord + `(?:[ -]` + numberWord + `)*)`

// parseNum converts a matched count token to a non-negative integer.
func parseNum(s string) (int, bool) {
	n, ok := numword.Parse(s)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}
