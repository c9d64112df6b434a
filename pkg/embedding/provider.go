package embedding

import "fmt"

// Task types hint asymmetric-retrieval models which side of the search the
// text belongs to. Providers that don't differentiate ignore them.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// Dimension is the vector size every provider must produce. The chunk store
// column is declared with this width, so it is fixed for the deployment.
const Dimension = 1536

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// ServiceError is returned when the embedding API answered with a
// non-success status. Batch callers treat it as per-item and keep going.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service error (status %d): %s", e.StatusCode, e.Body)
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
