package planner

import (
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

// Preference weights are amplified so interest selection dominates minor
// rating differences.
const prefWeight = 2.0

// Score maps a POI and the user's preference weights to a scalar
// desirability value. Pure; categories absent from prefs contribute 0.
func Score(p types.POI, prefs types.Preferences) float64 {
	return p.Rating + prefWeight*prefs[strings.ToLower(p.Category)]
}
