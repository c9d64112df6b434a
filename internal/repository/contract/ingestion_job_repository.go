package contract

import (
	"context"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IngestionJobRepository interface {
	Create(ctx context.Context, job *entity.IngestionJob) error
	Update(ctx context.Context, job *entity.IngestionJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IngestionJob, error)
	FindLatestByDocumentId(ctx context.Context, documentId uuid.UUID) (*entity.IngestionJob, error)
}
