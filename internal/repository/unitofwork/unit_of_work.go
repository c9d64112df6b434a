package unitofwork

import (
	"context"

	"legal-research-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	IngestionJobRepository() contract.IngestionJobRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	SubscriptionPlanRepository() contract.SubscriptionPlanRepository
}
