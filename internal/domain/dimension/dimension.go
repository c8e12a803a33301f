// Package dimension defines the fixed set of semantic embedding spaces an
// illustration may be embedded in: the primary description plus seven
// thematic dimensions. Every embedding, theme text, weight, and similarity
// in the system is keyed by one of these.
package dimension

// Key identifies one semantic embedding space.
type Key string

// The eight dimension keys. Original is the primary description embedding,
// handled uniformly as the eighth key of the weight space.
const (
	Original           Key = "original"
	Philosophy         Key = "philosophy"
	ActionProcess      Key = "action_process"
	InterpersonalRoles Key = "interpersonal_roles"
	EduValue           Key = "edu_value"
	LearningStrategy   Key = "learning_strategy"
	CreativePlay       Key = "creative_play"
	SceneVisuals       Key = "scene_visuals"
)

// All lists every dimension key in canonical order.
// The order is fixed: iteration over this slice is the deterministic
// substitute for iterating a Go map.
var All = []Key{
	Original,
	Philosophy,
	ActionProcess,
	InterpersonalRoles,
	EduValue,
	LearningStrategy,
	CreativePlay,
	SceneVisuals,
}

// Count is the number of dimension keys.
const Count = 8

// IsValid checks if the key is one of the known dimensions.
func (k Key) IsValid() bool {
	for _, d := range All {
		if k == d {
			return true
		}
	}
	return false
}
