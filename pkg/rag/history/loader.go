package history

import (
	"context"
	"time"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// Loader reads recent conversation turns for prompt assembly.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{
		uowFactory: uowFactory,
	}
}

// LoadConversationHistory returns the session's most recent turns in
// chronological order, capped at prompt.HistoryLimit.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	msgs, err := uow.ChatMessageRepository().FindRecentBySession(ctx, sessionId, prompt.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return toLLMMessages(msgs), nil
}

// LoadConversationHistoryBefore is the regeneration variant: only turns
// created strictly before the cutoff are replayed, so the message being
// regenerated never sees itself.
func (l *Loader) LoadConversationHistoryBefore(ctx context.Context, sessionId uuid.UUID, cutoff time.Time) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	msgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.CreatedBefore{Time: cutoff},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: prompt.HistoryLimit},
	)
	if err != nil {
		return nil, err
	}

	// FindAll returned newest-first; flip to chronological.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return toLLMMessages(msgs), nil
}

func toLLMMessages(msgs []*entity.ChatMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(msgs))
	for _, msg := range msgs {
		role := msg.Role
		if role != entity.RoleUser && role != entity.RoleAssistant && role != entity.RoleSystem {
			role = entity.RoleUser
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: msg.Message,
		})
	}
	return messages
}
