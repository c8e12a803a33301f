package domain

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model            string
	Dimensions       int
	QueryInstruction string
}

// DefaultVectorConfig returns the default configuration.
// All ingestion-time embeddings and query embeddings share this model,
// so dimensional compatibility is a hard precondition across the corpus.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	}
}
