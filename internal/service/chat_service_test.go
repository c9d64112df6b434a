package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sort"
	"testing"
	"time"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/access"
	"legal-research-be/pkg/rag/history"
	"legal-research-be/pkg/rag/response"
	"legal-research-be/pkg/rag/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opLog records the order of side effects across the fakes.
type opLog struct {
	entries []string
}

func (l *opLog) record(op string) {
	l.entries = append(l.entries, op)
}

type fakeChatMessageRepo struct {
	store   []*entity.ChatMessage
	deleted []uuid.UUID
	ops     *opLog
}

func (r *fakeChatMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.ops.record("create " + m.Role)
	r.store = append(r.store, m)
	return nil
}

func (r *fakeChatMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.ops.record("delete")
	r.deleted = append(r.deleted, id)
	kept := make([]*entity.ChatMessage, 0, len(r.store))
	for _, m := range r.store {
		if m.Id != id {
			kept = append(kept, m)
		}
	}
	r.store = kept
	return nil
}

func (r *fakeChatMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	matches := r.filter(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return r.filter(specs), nil
}

func (r *fakeChatMessageRepo) FindRecentBySession(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	return r.filter([]specification.Specification{
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.Pagination{Limit: limit},
	}), nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

// filter reapplies the specifications in memory so the fake answers the same
// queries the real repository would.
func (r *fakeChatMessageRepo) filter(specs []specification.Specification) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(r.store))
	for _, m := range r.store {
		keep := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				keep = keep && m.Id == s.ID
			case specification.ByUserID:
				keep = keep && m.UserId == s.UserID
			case specification.ByChatSessionID:
				keep = keep && m.ChatSessionId == s.ChatSessionID
			case specification.ByRole:
				keep = keep && m.Role == s.Role
			case specification.CreatedBefore:
				keep = keep && m.CreatedAt.Before(s.Time)
			}
		}
		if keep {
			out = append(out, m)
		}
	}

	desc := false
	limit := 0
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			desc = s.Desc
		case specification.Pagination:
			limit = s.Limit
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type fakeChatSessionRepo struct {
	session *entity.ChatSession
	touches []int
}

func (r *fakeChatSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error { return nil }
func (r *fakeChatSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error { return nil }
func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if r.session.Id != s.ID {
				return nil, nil
			}
		case specification.ByUserID:
			if r.session.UserId != s.UserID {
				return nil, nil
			}
		}
	}
	return r.session, nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return []*entity.ChatSession{r.session}, nil
}

func (r *fakeChatSessionRepo) TouchActivity(ctx context.Context, id uuid.UUID, delta int) error {
	r.touches = append(r.touches, delta)
	return nil
}

type fakeUnitOfWork struct {
	messages *fakeChatMessageRepo
	sessions *fakeChatSessionRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository           { return nil }
func (u *fakeUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }
func (u *fakeUnitOfWork) IngestionJobRepository() contract.IngestionJobRepository   { return nil }

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.sessions
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messages
}

func (u *fakeUnitOfWork) SubscriptionPlanRepository() contract.SubscriptionPlanRepository {
	return nil
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePlanService struct {
	plan *entity.SubscriptionPlan
}

func (s *fakePlanService) ResolvePlan(ctx context.Context, slug string) *entity.SubscriptionPlan {
	return s.plan
}

func (s *fakePlanService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	return nil, nil
}

type fakeUsageCounter struct{}

func (c *fakeUsageCounter) CountToday(ctx context.Context, userID, feature string) (int64, error) {
	return 0, nil
}

type fakeUsageRecorder struct {
	increments int
}

func (r *fakeUsageRecorder) Increment(ctx context.Context, userID, feature string) error {
	r.increments++
	return nil
}

type emptyChunkRepo struct{}

func (r *emptyChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error { return nil }
func (r *emptyChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}
func (r *emptyChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}
func (r *emptyChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}
func (r *emptyChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *emptyChunkRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId uuid.UUID, filters contract.ChunkSearchFilters, threshold float64) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

type fixedEmbedder struct{}

func (e *fixedEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{}, nil
}

type scriptedLLM struct {
	result llm.ChatResult
	err    error
	ops    *opLog
}

func (p *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.ChatResult, error) {
	p.ops.record("generate")
	if p.err != nil {
		return nil, p.err
	}
	res := p.result
	return &res, nil
}

func (p *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.ChatResult, error) {
	return p.Chat(ctx, nil, options...)
}

type chatFixture struct {
	service  IChatService
	messages *fakeChatMessageRepo
	sessions *fakeChatSessionRepo
	recorder *fakeUsageRecorder
	ops      *opLog
}

func newChatFixture(session *entity.ChatSession, seed []*entity.ChatMessage, provider *scriptedLLM) *chatFixture {
	ops := provider.ops
	messages := &fakeChatMessageRepo{store: seed, ops: ops}
	sessions := &fakeChatSessionRepo{session: session}
	factory := &fakeUowFactory{uow: &fakeUnitOfWork{messages: messages, sessions: sessions}}
	recorder := &fakeUsageRecorder{}
	discard := log.New(io.Discard, "", 0)

	plan := &entity.SubscriptionPlan{
		Slug:            "free",
		MaxChatsPerDay:  20,
		MaxDocuments:    10,
		ModelPreference: "baseline",
	}

	svc := NewChatService(
		factory,
		&fakePlanService{plan: plan},
		retrieval.NewRetriever(&emptyChunkRepo{}, &fixedEmbedder{}, nil, discard),
		history.NewLoader(factory),
		response.NewGenerator(provider, discard),
		access.NewVerifier(&fakeUsageCounter{}, discard),
		recorder,
	)

	return &chatFixture{
		service:  svc,
		messages: messages,
		sessions: sessions,
		recorder: recorder,
		ops:      ops,
	}
}

// An ungrounded turn must answer with an empty source list, never null, so
// API clients can iterate it without a nil check.
func TestSendMessageUngroundedTurnHasEmptySources(t *testing.T) {
	userId := uuid.New()
	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     entity.DefaultSessionTitle,
		CreatedAt: time.Now(),
	}
	provider := &scriptedLLM{
		result: llm.ChatResult{Content: "No supporting documents were found.", TokensUsed: 12, Model: "gpt-4o-mini"},
		ops:    &opLog{},
	}
	f := newChatFixture(session, nil, provider)

	resp, err := f.service.SendMessage(context.Background(), userId, "free", &dto.SendMessageRequest{
		SessionId: session.Id,
		Message:   "What makes a contract enforceable?",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"sources":[]`)
	assert.Equal(t, 1, f.recorder.increments)
}

// A failed regeneration must leave the previous answer in place.
func TestRegenerateKeepsAnswerWhenGenerationFails(t *testing.T) {
	userId := uuid.New()
	session := &entity.ChatSession{Id: uuid.New(), UserId: userId, Title: "Easement dispute", CreatedAt: time.Now()}

	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleUser,
		Message:       "Summarize the holding.",
		CreatedAt:     time.Now().Add(-2 * time.Minute),
	}
	assistantMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleAssistant,
		Message:       "The court held for the plaintiff.",
		CreatedAt:     time.Now().Add(-1 * time.Minute),
	}

	provider := &scriptedLLM{err: llm.ErrServiceUnavailable, ops: &opLog{}}
	f := newChatFixture(session, []*entity.ChatMessage{userMsg, assistantMsg}, provider)

	_, err := f.service.Regenerate(context.Background(), userId, "free", &dto.RegenerateRequest{
		MessageId: assistantMsg.Id,
	})
	require.ErrorIs(t, err, llm.ErrServiceUnavailable)

	assert.Empty(t, f.messages.deleted)
	survivor, findErr := f.messages.FindOne(context.Background(), specification.ByID{ID: assistantMsg.Id})
	require.NoError(t, findErr)
	require.NotNil(t, survivor)
	assert.Equal(t, "The court held for the plaintiff.", survivor.Message)
}

// Regeneration replaces the old answer, and only once the new one exists.
func TestRegenerateReplacesAnswerAfterGeneration(t *testing.T) {
	userId := uuid.New()
	session := &entity.ChatSession{Id: uuid.New(), UserId: userId, Title: "Easement dispute", CreatedAt: time.Now()}

	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleUser,
		Message:       "Summarize the holding.",
		CreatedAt:     time.Now().Add(-2 * time.Minute),
	}
	assistantMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleAssistant,
		Message:       "The court held for the plaintiff.",
		CreatedAt:     time.Now().Add(-1 * time.Minute),
	}

	provider := &scriptedLLM{
		result: llm.ChatResult{Content: "The court affirmed the easement.", TokensUsed: 20, Model: "gpt-4o-mini"},
		ops:    &opLog{},
	}
	f := newChatFixture(session, []*entity.ChatMessage{userMsg, assistantMsg}, provider)

	resp, err := f.service.Regenerate(context.Background(), userId, "free", &dto.RegenerateRequest{
		MessageId: assistantMsg.Id,
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{assistantMsg.Id}, f.messages.deleted)
	assert.Equal(t, "The court affirmed the easement.", resp.Answer)
	assert.NotEqual(t, assistantMsg.Id, resp.MessageId)

	// The old answer goes away only after its replacement was generated.
	assert.Equal(t, []string{"generate", "delete", "create assistant"}, f.ops.entries)

	replacement, findErr := f.messages.FindOne(context.Background(),
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.ByRole{Role: entity.RoleAssistant},
	)
	require.NoError(t, findErr)
	require.NotNil(t, replacement)
	assert.Equal(t, resp.MessageId, replacement.Id)
}
