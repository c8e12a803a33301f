// Package weights resolves preset or caller-supplied weight maps into
// normalized weight vectors over the dimension set. Pure functions, no I/O.
package weights

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/illustra/internal/domain"
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
)

// Vector is a resolved weight vector (immutable value object).
// It is always complete over all eight dimension keys and sums to 1.
type Vector struct {
	w map[dimension.Key]float64
}

// Get returns the weight for a dimension key (0 for unknown keys).
func (v *Vector) Get(k dimension.Key) float64 { return v.w[k] }

// Map returns a copy of the full weight map.
func (v *Vector) Map() map[dimension.Key]float64 {
	out := make(map[dimension.Key]float64, len(v.w))
	for k, val := range v.w {
		out[k] = val
	}
	return out
}

// Sum returns the total weight. Always 1 for a resolved vector, up to
// floating point rounding.
func (v *Vector) Sum() float64 {
	var sum float64
	for _, val := range v.w {
		sum += val
	}
	return sum
}

// Normalize resolves a partial or full map of raw non-negative weights into
// a Vector: unspecified keys are filled with 0, a zero-sum input falls back
// to a uniform distribution (recoverable, not an error), otherwise every
// weight is divided by the sum. Normalize is idempotent.
func Normalize(raw map[dimension.Key]float64) (Vector, error) {
	full := make(map[dimension.Key]float64, dimension.Count)
	for _, k := range dimension.All {
		full[k] = 0
	}

	var sum float64
	for k, val := range raw {
		if !k.IsValid() {
			return Vector{}, fmt.Errorf("unknown dimension key %q", k)
		}
		if val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return Vector{}, fmt.Errorf("weight for %q must be a non-negative finite number, got %v", k, val)
		}
		full[k] = val
		sum += val
	}

	if sum == 0 {
		uniform := 1.0 / float64(dimension.Count)
		for _, k := range dimension.All {
			full[k] = uniform
		}
		return Vector{w: full}, nil
	}

	for _, k := range dimension.All {
		full[k] /= sum
	}
	return Vector{w: full}, nil
}

// Resolve looks up a named preset and returns its weight vector.
func Resolve(name string) (Vector, error) {
	raw, ok := presets[name]
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", domain.ErrUnknownPreset, name)
	}
	// Presets already sum to 1; Normalize keeps them untouched and copies the map.
	return Normalize(raw)
}

// Reconstruct builds a Vector from an already-normalized map without
// validation. Intended for tests and hydration only.
func Reconstruct(w map[dimension.Key]float64) Vector {
	full := make(map[dimension.Key]float64, dimension.Count)
	for _, k := range dimension.All {
		full[k] = w[k]
	}
	return Vector{w: full}
}
