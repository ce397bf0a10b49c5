package contract

import (
	"testing"
)

// FuzzParseSeasons fuzzes ParseSeasons with random comma-separated range lists.
func FuzzParseSeasons(f *testing.F) {
	seeds := []string{
		DefaultSeasons,
		"2019-06-01:2019-07-31",
		"",
		",,",
		"2019-13-01:2019-07-31",
		"2020-07-31:2020-06-01",
		"::",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		seasons, err := ParseSeasons(s)
		if err != nil {
			return
		}
		if len(seasons) == 0 {
			t.Fatalf("no error but no seasons for %q", s)
		}
		for i, r := range seasons {
			if r.End.Before(r.Start) {
				t.Fatalf("season %d of %q is reversed", i, s)
			}
			if i > 0 && r.Start.Before(seasons[i-1].Start) {
				t.Fatalf("seasons of %q are not sorted", s)
			}
		}
	})
}
