package planner

import (
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

// Selection is an explicit include set over a candidate pool, keyed by
// normalized POI name. It replaces per-row UI toggles: the caller builds one
// from whatever the user checked and the planner input is filtered through it.
type Selection map[string]struct{}

// NewSelection builds a selection from POI names. Names are matched
// case-insensitively with surrounding whitespace ignored.
func NewSelection(names []string) Selection {
	if len(names) == 0 {
		return nil
	}
	s := make(Selection, len(names))
	for _, n := range names {
		s[normalizeName(n)] = struct{}{}
	}
	return s
}

// Filter returns the candidates present in the selection. A nil or empty
// selection keeps the whole pool.
func (s Selection) Filter(pois []types.POI) []types.POI {
	if len(s) == 0 {
		return pois
	}
	kept := make([]types.POI, 0, len(pois))
	for _, p := range pois {
		if _, ok := s[normalizeName(p.Name)]; ok {
			kept = append(kept, p)
		}
	}
	return kept
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
