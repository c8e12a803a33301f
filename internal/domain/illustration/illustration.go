// Package illustration defines the illustration record aggregate. Records
// are created and updated exclusively by the ingestion side; the search
// engine only ever reads them.
package illustration

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Record is an illustration with its metadata and per-dimension embeddings
// (immutable value object). Ingestion is multi-stage and can partially
// fail, so any subset of the eight embeddings may be missing: a nil entry
// means the dimension was never embedded, never "embedded as zero".
type Record struct {
	id          string
	filename    string
	bookTitle   string
	imageURL    string
	description string
	themes      map[dimension.Key]string
	embeddings  map[dimension.Key][]float32
	createdAt   int64
	updatedAt   int64
}

// New validates and creates a Record on the ingestion write path.
// Embeddings are optional per dimension but a present one must have
// length dim.
func New(
	id, filename, bookTitle, imageURL, description string,
	themes map[dimension.Key]string,
	embeddings map[dimension.Key][]float32,
	dim int,
	createdAt, updatedAt int64,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("illustration ID is required")
	}
	if len(id) > 256 {
		return Record{}, fmt.Errorf("illustration ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Record{}, fmt.Errorf("illustration ID must be alphanumeric with underscores and hyphens")
	}
	if filename == "" {
		return Record{}, fmt.Errorf("filename is required")
	}
	for k := range themes {
		if !k.IsValid() {
			return Record{}, fmt.Errorf("unknown theme dimension %q", k)
		}
	}
	for k, vec := range embeddings {
		if !k.IsValid() {
			return Record{}, fmt.Errorf("unknown embedding dimension %q", k)
		}
		if vec != nil && len(vec) != dim {
			return Record{}, fmt.Errorf("embedding %q has %d dimensions, expected %d", k, len(vec), dim)
		}
	}

	return Record{
		id:          id,
		filename:    filename,
		bookTitle:   bookTitle,
		imageURL:    imageURL,
		description: description,
		themes:      cloneThemes(themes),
		embeddings:  cloneEmbeddings(embeddings),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id, filename, bookTitle, imageURL, description string,
	themes map[dimension.Key]string,
	embeddings map[dimension.Key][]float32,
	createdAt, updatedAt int64,
) Record {
	return Record{
		id:          id,
		filename:    filename,
		bookTitle:   bookTitle,
		imageURL:    imageURL,
		description: description,
		themes:      themes,
		embeddings:  embeddings,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Filename returns the source image filename.
func (r *Record) Filename() string { return r.filename }

// BookTitle returns the picture book title.
func (r *Record) BookTitle() string { return r.bookTitle }

// ImageURL returns the public image URL.
func (r *Record) ImageURL() string { return r.imageURL }

// Description returns the primary caption text.
func (r *Record) Description() string { return r.description }

// Theme returns the theme text for a dimension ("" if absent).
func (r *Record) Theme(k dimension.Key) string { return r.themes[k] }

// Embedding returns the embedding for a dimension, or nil when the
// dimension was never embedded for this record.
func (r *Record) Embedding(k dimension.Key) []float32 { return r.embeddings[k] }

// EmbeddingCount returns the number of present embeddings.
func (r *Record) EmbeddingCount() int {
	n := 0
	for _, k := range dimension.All {
		if r.embeddings[k] != nil {
			n++
		}
	}
	return n
}

// CreatedAt returns the creation unix timestamp.
func (r *Record) CreatedAt() int64 { return r.createdAt }

// UpdatedAt returns the last update unix timestamp.
func (r *Record) UpdatedAt() int64 { return r.updatedAt }

func cloneThemes(m map[dimension.Key]string) map[dimension.Key]string {
	if m == nil {
		return nil
	}
	out := make(map[dimension.Key]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneEmbeddings(m map[dimension.Key][]float32) map[dimension.Key][]float32 {
	if m == nil {
		return nil
	}
	out := make(map[dimension.Key][]float32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
