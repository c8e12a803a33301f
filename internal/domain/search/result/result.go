package result

import (
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
)

// Result is a single ranked search hit with its per-dimension similarity
// breakdown for explainability. Display fields are bound by semantic
// meaning: Description always carries caption text, ImageURL always carries
// the URL, regardless of upstream column order.
type Result struct {
	id          string
	filename    string
	bookTitle   string
	description string
	imageURL    string
	finalScore  float64
	breakdown   map[dimension.Key]float64
}

// New creates a search result. breakdown holds similarities for present
// dimensions only; absent dimensions have no entry.
func New(
	id, filename, bookTitle, description, imageURL string,
	finalScore float64,
	breakdown map[dimension.Key]float64,
) Result {
	return Result{
		id:          id,
		filename:    filename,
		bookTitle:   bookTitle,
		description: description,
		imageURL:    imageURL,
		finalScore:  finalScore,
		breakdown:   breakdown,
	}
}

// ID returns the record identifier.
func (r *Result) ID() string { return r.id }

// Filename returns the source image filename.
func (r *Result) Filename() string { return r.filename }

// BookTitle returns the picture book title.
func (r *Result) BookTitle() string { return r.bookTitle }

// Description returns the primary caption text.
func (r *Result) Description() string { return r.description }

// ImageURL returns the public image URL.
func (r *Result) ImageURL() string { return r.imageURL }

// FinalScore returns the composite weighted score.
func (r *Result) FinalScore() float64 { return r.finalScore }

// Breakdown returns per-dimension similarities for present dimensions.
func (r *Result) Breakdown() map[dimension.Key]float64 { return r.breakdown }

// PresentDimensions returns the number of dimensions that contributed.
func (r *Result) PresentDimensions() int { return len(r.breakdown) }
