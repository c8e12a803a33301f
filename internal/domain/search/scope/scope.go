package scope

// Scope selects the candidate corpus slice.
type Scope string

const (
	// Curated reads the manually flagged high-confidence subset (favors precision).
	Curated Scope = "curated"
	// Full reads the entire corpus (favors recall, more noise risk).
	Full Scope = "full"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == Curated || s == Full
}
