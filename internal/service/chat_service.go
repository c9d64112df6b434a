package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/access"
	"legal-research-be/pkg/rag/history"
	"legal-research-be/pkg/rag/prompt"
	"legal-research-be/pkg/rag/response"
	"legal-research-be/pkg/rag/retrieval"
	"legal-research-be/pkg/usage"

	"github.com/google/uuid"
)

// sessionTitleLimit caps titles derived from the first user message.
const sessionTitleLimit = 80

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	SessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.MessageResponse, error)
	ArchiveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	SendMessage(ctx context.Context, userId uuid.UUID, planSlug string, req *dto.SendMessageRequest) (*dto.ChatTurnResponse, error)
	Regenerate(ctx context.Context, userId uuid.UUID, planSlug string, req *dto.RegenerateRequest) (*dto.ChatTurnResponse, error)
}

// UsageRecorder counts a completed turn against the daily quota. Satisfied
// by usage.Tracker.
type UsageRecorder interface {
	Increment(ctx context.Context, userID, feature string) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	planService    IPlanService
	retriever      *retrieval.Retriever
	historyLoader  *history.Loader
	generator      *response.Generator
	accessVerifier *access.Verifier
	usageTracker   UsageRecorder
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	planService IPlanService,
	retriever *retrieval.Retriever,
	historyLoader *history.Loader,
	generator *response.Generator,
	accessVerifier *access.Verifier,
	usageTracker UsageRecorder,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		planService:    planService,
		retriever:      retriever,
		historyLoader:  historyLoader,
		generator:      generator,
		accessVerifier: accessVerifier,
		usageTracker:   usageTracker,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = entity.DefaultSessionTitle
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}
	return toSessionResponse(&session), nil
}

func (s *chatService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.NotArchived{},
		specification.OrderBy{Field: "last_message_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}
	return responses, nil
}

func (s *chatService) SessionHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, &dto.MessageResponse{
			Id:         msg.Id,
			Role:       msg.Role,
			Message:    msg.Message,
			Sources:    msg.Sources,
			TokensUsed: msg.TokensUsed,
			ModelUsed:  msg.ModelUsed,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return responses, nil
}

func (s *chatService) ArchiveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}
	session.IsArchived = true
	return uow.ChatSessionRepository().Update(ctx, session)
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}
	return uow.ChatSessionRepository().Delete(ctx, session.Id)
}

// SendMessage runs one grounded chat turn. The user message is committed
// before retrieval so it survives any downstream failure; the assistant
// message is committed only after generation succeeds.
func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, planSlug string, req *dto.SendMessageRequest) (*dto.ChatTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan := s.planService.ResolvePlan(ctx, planSlug)
	if err := s.accessVerifier.VerifyChatQuota(ctx, userId.String(), usage.FeatureChat, plan); err != nil {
		return nil, err
	}

	session, err := s.ownedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	// History is loaded before the new user message is persisted so the
	// prompt never contains the question twice.
	hist, err := s.historyLoader.LoadConversationHistory(ctx, session.Id)
	if err != nil {
		log.Printf("[WARN] Failed to load history for session %s: %v", session.Id, err)
		hist = nil
	}

	userMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleUser,
		Message:       req.Message,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMsg); err != nil {
		return nil, err
	}
	s.touch(ctx, uow, session.Id, 1)
	s.maybeDeriveTitle(ctx, uow, session, req.Message)

	sources, result, err := s.generateTurn(ctx, plan, userId, req.Message, hist, retrieval.Filters{
		DocumentType: req.Filters.DocumentType,
		Year:         req.Filters.Year,
	}, req.UseWebSearch)
	if err != nil {
		return nil, err
	}

	return s.persistAssistant(ctx, uow, session, userId, sources, result, 1)
}

// Regenerate re-runs retrieval and generation for the user message that
// preceded an assistant answer, replacing the answer on success.
func (s *chatService) Regenerate(ctx context.Context, userId uuid.UUID, planSlug string, req *dto.RegenerateRequest) (*dto.ChatTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan := s.planService.ResolvePlan(ctx, planSlug)
	if err := s.accessVerifier.VerifyChatQuota(ctx, userId.String(), usage.FeatureChat, plan); err != nil {
		return nil, err
	}

	assistantMsg, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByID{ID: req.MessageId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if assistantMsg == nil || assistantMsg.Role != entity.RoleAssistant {
		return nil, fmt.Errorf("assistant message not found")
	}

	session, err := s.ownedSession(ctx, uow, userId, assistantMsg.ChatSessionId)
	if err != nil {
		return nil, err
	}

	userMsgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.ByRole{Role: entity.RoleUser},
		specification.CreatedBefore{Time: assistantMsg.CreatedAt},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(userMsgs) == 0 {
		return nil, fmt.Errorf("no user message precedes the answer")
	}
	userMsg := userMsgs[0]

	// History must stop before the question being re-answered, otherwise
	// the prompt would contain it twice.
	hist, err := s.historyLoader.LoadConversationHistoryBefore(ctx, session.Id, userMsg.CreatedAt)
	if err != nil {
		log.Printf("[WARN] Failed to load history for session %s: %v", session.Id, err)
		hist = nil
	}

	// The old answer is deleted only after generation succeeds, so a
	// provider failure leaves the conversation untouched.
	sources, result, err := s.generateTurn(ctx, plan, userId, userMsg.Message, hist, retrieval.Filters{
		DocumentType: req.Filters.DocumentType,
		Year:         req.Filters.Year,
	}, req.UseWebSearch)
	if err != nil {
		return nil, err
	}

	if err := uow.ChatMessageRepository().Delete(ctx, assistantMsg.Id); err != nil {
		return nil, err
	}

	// Delete plus insert nets out to zero, delta 0 still bumps
	// last_message_at.
	return s.persistAssistant(ctx, uow, session, userId, sources, result, 0)
}

// generateTurn runs retrieval and generation without touching storage.
func (s *chatService) generateTurn(
	ctx context.Context,
	plan *entity.SubscriptionPlan,
	userId uuid.UUID,
	question string,
	hist []llm.Message,
	filters retrieval.Filters,
	useWebSearch bool,
) ([]retrieval.Source, *llm.ChatResult, error) {
	sources := s.retriever.Retrieve(ctx, question, userId, filters, useWebSearch && plan.AllowWebSearch)

	messages := prompt.BuildMessages(sources, hist, question)
	result, err := s.generator.Generate(ctx, messages, plan.ModelPreference)
	if err != nil {
		return nil, nil, err
	}
	return sources, result, nil
}

// persistAssistant stores the generated answer and counts the turn against
// the daily quota.
func (s *chatService) persistAssistant(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	session *entity.ChatSession,
	userId uuid.UUID,
	sources []retrieval.Source,
	result *llm.ChatResult,
	messageDelta int,
) (*dto.ChatTurnResponse, error) {
	assistantMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserId:        userId,
		Role:          entity.RoleAssistant,
		Message:       result.Content,
		Sources:       toMessageSources(sources),
		TokensUsed:    result.TokensUsed,
		ModelUsed:     result.Model,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMsg); err != nil {
		return nil, err
	}
	s.touch(ctx, uow, session.Id, messageDelta)

	// Usage counting is best effort, never blocks the answer.
	if err := s.usageTracker.Increment(ctx, userId.String(), usage.FeatureChat); err != nil {
		log.Printf("[WARN] Failed to increment chat usage for user %s: %v", userId, err)
	}

	return &dto.ChatTurnResponse{
		SessionId:  session.Id,
		MessageId:  assistantMsg.Id,
		Answer:     result.Content,
		Sources:    assistantMsg.Sources,
		TokensUsed: result.TokensUsed,
		ModelUsed:  result.Model,
	}, nil
}

func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("chat session not found")
	}
	return session, nil
}

func (s *chatService) touch(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, delta int) {
	if err := uow.ChatSessionRepository().TouchActivity(ctx, sessionId, delta); err != nil {
		log.Printf("[WARN] Failed to touch session %s: %v", sessionId, err)
	}
}

// maybeDeriveTitle replaces the placeholder title with the start of the first
// user message.
func (s *chatService) maybeDeriveTitle(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, message string) {
	if session.Title != entity.DefaultSessionTitle {
		return
	}

	title := strings.TrimSpace(message)
	if runes := []rune(title); len(runes) > sessionTitleLimit {
		title = string(runes[:sessionTitleLimit])
	}
	if title == "" {
		return
	}

	session.Title = title
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		log.Printf("[WARN] Failed to update title for session %s: %v", session.Id, err)
	}
}

// toMessageSources never returns nil: an ungrounded turn carries an empty
// source list, which marshals as [] rather than null.
func toMessageSources(sources []retrieval.Source) []entity.MessageSource {
	out := make([]entity.MessageSource, 0, len(sources))
	for _, src := range sources {
		out = append(out, entity.MessageSource{
			ChunkId:    src.ChunkId,
			DocumentId: src.DocumentId,
			Title:      src.Title,
			Citation:   src.Citation,
			Type:       src.Type,
			URL:        src.URL,
			Similarity: src.Similarity,
			Source:     src.Origin,
		})
	}
	return out
}

func toSessionResponse(session *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:            session.Id,
		Title:         session.Title,
		LastMessageAt: session.LastMessageAt,
		MessageCount:  session.MessageCount,
		IsArchived:    session.IsArchived,
		CreatedAt:     session.CreatedAt,
	}
}
