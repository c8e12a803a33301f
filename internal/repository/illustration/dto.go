package illustration

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
)

// Hash field names. Theme texts are stored as theme_<key>, embeddings as
// __emb_<key> in binary float32 little-endian, matching the query side.
const (
	fieldFilename    = "filename"
	fieldBookTitle   = "book_title"
	fieldImageURL    = "image_url"
	fieldDescription = "original_description"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"

	themeFieldPrefix = "theme_"
	embFieldPrefix   = "__emb_"
)

// buildHashFields converts a domain Record into a flat map[string]string for HSET.
func buildHashFields(rec *domill.Record) map[string]string {
	m := map[string]string{
		fieldFilename:    rec.Filename(),
		fieldBookTitle:   rec.BookTitle(),
		fieldImageURL:    rec.ImageURL(),
		fieldDescription: rec.Description(),
		fieldCreatedAt:   strconv.FormatInt(rec.CreatedAt(), 10),
		fieldUpdatedAt:   strconv.FormatInt(rec.UpdatedAt(), 10),
	}

	for _, k := range dimension.All {
		if k != dimension.Original {
			if theme := rec.Theme(k); theme != "" {
				m[themeFieldPrefix+string(k)] = theme
			}
		}
		if vec := rec.Embedding(k); vec != nil {
			m[embFieldPrefix+string(k)] = vectorToBytes(vec)
		}
	}

	return m
}

// parseHashFields converts a flat hash map back into a domain Record.
// Embeddings are passed through as stored: a wrong-length vector survives
// hydration and is rejected at scoring time, not here.
func parseHashFields(id string, m map[string]string) domill.Record {
	themes := make(map[dimension.Key]string)
	embeddings := make(map[dimension.Key][]float32)

	for _, k := range dimension.All {
		if k != dimension.Original {
			if theme, ok := m[themeFieldPrefix+string(k)]; ok {
				themes[k] = theme
			}
		}
		if raw, ok := m[embFieldPrefix+string(k)]; ok {
			if vec := bytesToVector(raw); vec != nil {
				embeddings[k] = vec
			}
		}
	}

	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	updatedAt, _ := strconv.ParseInt(m[fieldUpdatedAt], 10, 64)

	return domill.Reconstruct(
		id,
		m[fieldFilename],
		m[fieldBookTitle],
		m[fieldImageURL],
		m[fieldDescription],
		themes,
		embeddings,
		createdAt,
		updatedAt,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
// Returns nil for corrupt data whose length is not a multiple of 4.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
