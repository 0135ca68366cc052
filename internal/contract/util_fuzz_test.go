package contract

import (
	"testing"
)

// FuzzParseBoolString checks that every accepted value round-trips to a stable answer.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "NO", "true", "0", "", "maybe"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		first, err := ParseBoolString(s)
		if err != nil {
			return
		}
		second, err := ParseBoolString(s)
		if err != nil || first != second {
			t.Fatalf("unstable parse for %q", s)
		}
	})
}
