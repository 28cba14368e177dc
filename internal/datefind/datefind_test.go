package datefind

import (
	"testing"
	"time"
)

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"March 2024", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-12", time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"June 7th 2023", time.Date(2023, time.June, 7, 0, 0, 0, 0, time.UTC)},
		{"June 7, 2023", time.Date(2023, time.June, 7, 0, 0, 0, 0, time.UTC)},
		{"7 June 2023", time.Date(2023, time.June, 7, 0, 0, 0, 0, time.UTC)},
		{"Sept 2021", time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{"2022-11", time.Date(2022, time.November, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		if !ok {
			t.Errorf("Parse(%q): expected a date", c.in)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "no date", "month 2024", "around 1850"} {
		if _, ok := Parse(in); ok {
			t.Errorf("Parse(%q): expected failure", in)
		}
	}
}

func TestFindAll_DocumentOrder(t *testing.T) {
	text := "The protocol was registered in January 2023. The search was updated through March 2024."
	matches := FindAll(text)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(matches), matches)
	}
	if matches[0].Raw != "January 2023" {
		t.Errorf("Expected first match January 2023, got %q", matches[0].Raw)
	}
	if matches[1].Raw != "March 2024" {
		t.Errorf("Expected second match March 2024, got %q", matches[1].Raw)
	}
}

func TestLatest(t *testing.T) {
	matches := FindAll("Searched from January 2020 to 2023-06-30, updated March 2024.")
	best, ok := Latest(matches)
	if !ok {
		t.Fatal("Expected a latest match")
	}
	if best.Raw != "March 2024" {
		t.Errorf("Expected March 2024, got %q", best.Raw)
	}

	if _, ok := Latest(nil); ok {
		t.Error("Expected no latest match for empty input")
	}
}

func TestLatestYear(t *testing.T) {
	year, ok := LatestYear("Searches ran in 2019, 2021 and 2023 across databases.")
	if !ok || year != 2023 {
		t.Errorf("Expected 2023, got %d (ok=%v)", year, ok)
	}

	if _, ok := LatestYear("no years here"); ok {
		t.Error("Expected no year")
	}
}
