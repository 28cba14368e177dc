// Package vocab loads the static extraction vocabularies: countries,
// regions, bibliographic databases, vaccine-preventable diseases, topics,
// outcomes, age buckets, specific populations and immune status. The
// registry is loaded once at startup and never mutated.
package vocab

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/vocab.yaml
var defaultVocab []byte

// ErrMalformed reports an invalid vocabulary file. Fatal at process start.
var ErrMalformed = errors.New("malformed vocabulary")

// Entry is one vocabulary item: a short code, a canonical display name and
// its alias surface forms.
type Entry struct {
	Code      string   `yaml:"code"`
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// File is the on-disk vocabulary layout.
type File struct {
	Countries      []Entry `yaml:"countries"`
	Regions        []Entry `yaml:"regions"`
	Databases      []Entry `yaml:"databases"`
	Diseases       []Entry `yaml:"diseases"`
	VaccineOptions []Entry `yaml:"vaccine_options"`
	Topics         []Entry `yaml:"topics"`
	Outcomes       []Entry `yaml:"outcomes"`
	AgeGroups      []Entry `yaml:"age_groups"`
	SpecificGroups []Entry `yaml:"specific_groups"`
	ImmuneStatus   []Entry `yaml:"immune_status"`
}

// Registry holds the compiled matchers for every vocabulary family.
type Registry struct {
	Countries      *Matcher
	Regions        *Matcher
	Databases      *Matcher
	Diseases       *Matcher
	VaccineOptions *Matcher
	Topics         *Matcher
	Outcomes       *Matcher
	AgeGroups      *Matcher
	SpecificGroups *Matcher
	ImmuneStatus   *Matcher
}

// LoadDefault builds the registry from the embedded vocabulary.
func LoadDefault() (*Registry, error) {
	return load(defaultVocab, "embedded")
}

// LoadFile builds the registry from a vocabulary YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return load(data, path)
}

func load(data []byte, source string) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, source, err)
	}

	reg := &Registry{}
	families := []struct {
		name    string
		entries []Entry
		dst     **Matcher
	}{
		{"countries", file.Countries, &reg.Countries},
		{"regions", file.Regions, &reg.Regions},
		{"databases", file.Databases, &reg.Databases},
		{"diseases", file.Diseases, &reg.Diseases},
		{"vaccine_options", file.VaccineOptions, &reg.VaccineOptions},
		{"topics", file.Topics, &reg.Topics},
		{"outcomes", file.Outcomes, &reg.Outcomes},
		{"age_groups", file.AgeGroups, &reg.AgeGroups},
		{"specific_groups", file.SpecificGroups, &reg.SpecificGroups},
		{"immune_status", file.ImmuneStatus, &reg.ImmuneStatus},
	}
	for _, fam := range families {
		if len(fam.entries) == 0 {
			return nil, fmt.Errorf("%w: %s: family %q is empty", ErrMalformed, source, fam.name)
		}
		m, err := newMatcher(fam.entries)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: family %q: %v", ErrMalformed, source, fam.name, err)
		}
		*fam.dst = m
	}
	return reg, nil
}

// Hit is a vocabulary match in text.
type Hit struct {
	Code      string
	Canonical string
	Surface   string // verbatim matched phrase
}

// Matcher matches one vocabulary family against text. Matching is
// case-insensitive with word-boundary anchors.
type Matcher struct {
	entries []Entry
	byAlias map[string]int            // normalized alias -> entry index
	regexes []*regexp.Regexp          // per entry, aliases longest-first
}

func newMatcher(entries []Entry) (*Matcher, error) {
	m := &Matcher{
		entries: entries,
		byAlias: make(map[string]int),
	}
	for i, e := range entries {
		if e.Canonical == "" {
			return nil, fmt.Errorf("entry %d has no canonical name", i)
		}
		if e.Code == "" {
			return nil, fmt.Errorf("entry %q has no code", e.Canonical)
		}
		surfaces := append([]string{e.Canonical}, e.Aliases...)
		for _, s := range surfaces {
			m.byAlias[normalizeAlias(s)] = i
		}
		// Longest alternative first so "South Africa" beats "Africa".
		sort.Slice(surfaces, func(a, b int) bool { return len(surfaces[a]) > len(surfaces[b]) })
		quoted := make([]string, len(surfaces))
		for j, s := range surfaces {
			quoted[j] = regexp.QuoteMeta(s)
		}
		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %v", e.Canonical, err)
		}
		m.regexes = append(m.regexes, re)
	}
	return m, nil
}

// FindAll returns every entry matched in the text, one hit per entry per
// call, using the first matched surface form.
func (m *Matcher) FindAll(text string) []Hit {
	var hits []Hit
	for i, re := range m.regexes {
		if loc := re.FindStringIndex(text); loc != nil {
			hits = append(hits, Hit{
				Code:      m.entries[i].Code,
				Canonical: m.entries[i].Canonical,
				Surface:   text[loc[0]:loc[1]],
			})
		}
	}
	return hits
}

// Lookup resolves a surface name to its entry. Hyphen/space variants and
// case are normalized.
func (m *Matcher) Lookup(name string) (Entry, bool) {
	i, ok := m.byAlias[normalizeAlias(name)]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns the family's entries in file order.
func (m *Matcher) Entries() []Entry {
	return m.entries
}

// Len reports the number of entries in the family.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Regex returns the compiled surface-form pattern for the i-th entry.
func (m *Matcher) Regex(i int) *regexp.Regexp {
	return m.regexes[i]
}

func normalizeAlias(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Age buckets and their numeric ranges. A bucket for an explicit numeric
// age range is inferred from the range midpoint.
const (
	AgeNewborn    = "nb"  // 0-1
	AgeChild      = "chi" // 2-9
	AgeAdolescent = "ado" // 10-17
	AgeAdult      = "adu" // 18-64
	AgeElderly    = "eld" // 65+
)

// BucketForAge maps an age in years to its bucket code.
func BucketForAge(years float64) string {
	switch {
	case years < 2:
		return AgeNewborn
	case years < 10:
		return AgeChild
	case years < 18:
		return AgeAdolescent
	case years < 65:
		return AgeAdult
	default:
		return AgeElderly
	}
}
