package weights

import (
	"sort"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
)

// presets is the immutable table of shipped weight profiles. Each entry is
// complete over all eight keys and sums to 1.0. Read-only after init, safe
// to share across concurrent requests.
var presets = map[string]map[dimension.Key]float64{
	// Equal emphasis with a slight lead for the primary description.
	"balanced": {
		dimension.Original:           0.16,
		dimension.Philosophy:         0.12,
		dimension.ActionProcess:      0.12,
		dimension.InterpersonalRoles: 0.12,
		dimension.EduValue:           0.12,
		dimension.LearningStrategy:   0.12,
		dimension.CreativePlay:       0.12,
		dimension.SceneVisuals:       0.12,
	},
	// Educational value and learning strategy dominate.
	"educational": {
		dimension.Original:           0.10,
		dimension.Philosophy:         0.18,
		dimension.ActionProcess:      0.09,
		dimension.InterpersonalRoles: 0.09,
		dimension.EduValue:           0.36,
		dimension.LearningStrategy:   0.13,
		dimension.CreativePlay:       0.03,
		dimension.SceneVisuals:       0.02,
	},
	// Creative and playful elements dominate.
	"creative": {
		dimension.Original:           0.10,
		dimension.Philosophy:         0.09,
		dimension.ActionProcess:      0.13,
		dimension.InterpersonalRoles: 0.09,
		dimension.EduValue:           0.09,
		dimension.LearningStrategy:   0.09,
		dimension.CreativePlay:       0.36,
		dimension.SceneVisuals:       0.05,
	},
	// Concrete actions and processes dominate.
	"process_focused": {
		dimension.Original:           0.08,
		dimension.Philosophy:         0.05,
		dimension.ActionProcess:      0.45,
		dimension.InterpersonalRoles: 0.09,
		dimension.EduValue:           0.13,
		dimension.LearningStrategy:   0.13,
		dimension.CreativePlay:       0.04,
		dimension.SceneVisuals:       0.03,
	},
	// Interpersonal relationships and roles dominate.
	"social": {
		dimension.Original:           0.10,
		dimension.Philosophy:         0.13,
		dimension.ActionProcess:      0.09,
		dimension.InterpersonalRoles: 0.36,
		dimension.EduValue:           0.13,
		dimension.LearningStrategy:   0.09,
		dimension.CreativePlay:       0.05,
		dimension.SceneVisuals:       0.05,
	},
	// Visual composition and scenery dominate.
	"visual": {
		dimension.Original:           0.10,
		dimension.Philosophy:         0.09,
		dimension.ActionProcess:      0.09,
		dimension.InterpersonalRoles: 0.09,
		dimension.EduValue:           0.09,
		dimension.LearningStrategy:   0.09,
		dimension.CreativePlay:       0.09,
		dimension.SceneVisuals:       0.36,
	},
}

// PresetNames returns the sorted list of shipped preset names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
