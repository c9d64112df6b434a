package contract

import (
	"context"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk is a chunk joined with its parent document's display fields
// and the cosine similarity against the query vector.
type ScoredChunk struct {
	Chunk            *entity.DocumentChunk
	DocumentTitle    string
	DocumentType     string
	DocumentCitation string
	Similarity       float64 // 0.0 to 1.0 (1.0 = identical)
}

// ChunkSearchFilters are optional equality filters applied on the parent
// document. Zero values mean "not set".
type ChunkSearchFilters struct {
	DocumentType string
	Year         int
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs the vector search over chunks of ready
	// documents visible to userId, keeping only results with similarity
	// strictly above threshold, ordered by similarity descending.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, filters ChunkSearchFilters, threshold float64) ([]*ScoredChunk, error)
}
