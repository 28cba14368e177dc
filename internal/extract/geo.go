package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/numword"
	"github.com/reviewminer/reviewminer/internal/vocab"
)

const geoQuery = "countries and regions where the included studies were conducted"
const geoK = 18

// Name followed by a parenthesized count or sample size. The name is a
// run of capitalized words; lookups trim leading words until the
// vocabulary matches, so "from China (n = 35,812)" resolves to China.
var (
	reSampleSize = regexp.MustCompile(`\b([A-Z][\w.'-]*(?:\s+(?:of|the|and|[A-Z][\w.'-]*))*)\s*\(\s*n\s*=\s*(\d[\d,]*)\s*\)`)
	reStudyCount = regexp.MustCompile(`\b([A-Z][\w.'-]*(?:\s+(?:of|the|and|[A-Z][\w.'-]*))*)\s*\(\s*(\d[\d,]*)\s*\)`)

	// Participant-flow variants.
	reParticipantsFrom = regexp.MustCompile(`\b(\d[\d,]*)\s+(?i:participants?|patients?|subjects?|individuals?)\s+(?i:were\s+)?(?i:from|in|across)\s+(?:rural\s+|urban\s+|the\s+)?([A-Z][\w.'-]*(?:\s+(?:of|the|and|[A-Z][\w.'-]*))*)`)
	reHadParticipants  = regexp.MustCompile(`\b([A-Z][\w.'-]*(?:\s+(?:of|the|and|[A-Z][\w.'-]*))*)\s+had\s+(\d[\d,]*)\s+(?:participants?|patients?|subjects?|individuals?)`)
)

// Geography extracts per-country study counts and maximum sample sizes,
// plus the region presence map.
func Geography(ctx context.Context, in *Input, ev *Evidence) (*model.CountryCounts, map[string]bool, *int) {
	window := in.window(ctx, geoQuery, geoK)

	studyCounts := make(map[string]int)
	sampleSizes := make(map[string]int)

	recordMax := func(name string, n int) bool {
		canonical, ok := resolveCountry(in.Vocab, name)
		if !ok {
			return false
		}
		if n > sampleSizes[canonical] {
			sampleSizes[canonical] = n
		}
		return true
	}

	for _, sentence := range window {
		cited := false

		for _, m := range reSampleSize.FindAllStringSubmatch(sentence, -1) {
			if n, ok := numword.Parse(m[2]); ok && recordMax(m[1], n) {
				cited = true
			}
		}
		for _, m := range reStudyCount.FindAllStringSubmatch(sentence, -1) {
			canonical, ok := resolveCountry(in.Vocab, m[1])
			if !ok {
				continue
			}
			if n, ok := numword.Parse(m[2]); ok {
				studyCounts[canonical] += n
				cited = true
			}
		}
		for _, m := range reParticipantsFrom.FindAllStringSubmatch(sentence, -1) {
			if n, ok := numword.Parse(m[1]); ok && recordMax(m[2], n) {
				cited = true
			}
		}
		for _, m := range reHadParticipants.FindAllStringSubmatch(sentence, -1) {
			if n, ok := numword.Parse(m[2]); ok && recordMax(m[1], n) {
				cited = true
			}
		}

		if cited {
			ev.Add("countries", sentence)
		}
	}

	regions := make(map[string]bool)
	for _, hit := range in.Vocab.Regions.FindAll(in.FullText) {
		regions[hit.Canonical] = true
	}

	var counts *model.CountryCounts
	if len(studyCounts) > 0 || len(sampleSizes) > 0 {
		counts = &model.CountryCounts{StudyCounts: studyCounts, SampleSizes: sampleSizes}
	}

	var numCountries *int
	if distinct := countDistinct(studyCounts, sampleSizes); distinct > 0 {
		numCountries = &distinct
	}
	return counts, regions, numCountries
}

// resolveCountry maps a captured capitalized phrase to a canonical
// country. Captures can carry leading or trailing words ("rural China",
// "China and neighbours"), so word subranges are tried longest-first.
func resolveCountry(reg *vocab.Registry, name string) (string, bool) {
	words := strings.Fields(name)
	for length := len(words); length > 0; length-- {
		for start := 0; start+length <= len(words); start++ {
			if e, ok := reg.Countries.Lookup(strings.Join(words[start:start+length], " ")); ok {
				return e.Canonical, true
			}
		}
	}
	return "", false
}

func countDistinct(maps ...map[string]int) int {
	seen := make(map[string]bool)
	for _, m := range maps {
		for k := range m {
			seen[k] = true
		}
	}
	return len(seen)
}
