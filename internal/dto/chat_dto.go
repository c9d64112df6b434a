package dto

import (
	"time"

	"legal-research-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

type SessionResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	MessageCount  int        `json:"message_count"`
	IsArchived    bool       `json:"is_archived"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ChatFilters struct {
	DocumentType string `json:"document_type" validate:"omitempty,oneof=statute case_law contract article other"`
	Year         int    `json:"year" validate:"omitempty,gte=1000,lte=2100"`
}

type SendMessageRequest struct {
	SessionId    uuid.UUID   `json:"session_id" validate:"required"`
	Message      string      `json:"message" validate:"required"`
	UseWebSearch bool        `json:"use_web_search"`
	Filters      ChatFilters `json:"filters"`
}

type ChatTurnResponse struct {
	SessionId  uuid.UUID              `json:"session_id"`
	MessageId  uuid.UUID              `json:"message_id"`
	Answer     string                 `json:"answer"`
	Sources    []entity.MessageSource `json:"sources"`
	TokensUsed int                    `json:"tokens_used"`
	ModelUsed  string                 `json:"model_used"`
}

type MessageResponse struct {
	Id         uuid.UUID              `json:"id"`
	Role       string                 `json:"role"`
	Message    string                 `json:"message"`
	Sources    []entity.MessageSource `json:"sources,omitempty"`
	TokensUsed int                    `json:"tokens_used,omitempty"`
	ModelUsed  string                 `json:"model_used,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type RegenerateRequest struct {
	MessageId    uuid.UUID   `json:"message_id" validate:"required"`
	UseWebSearch bool        `json:"use_web_search"`
	Filters      ChatFilters `json:"filters"`
}

// QuotaExceededData is the payload for 429 responses so the client can
// prompt an upgrade.
type QuotaExceededData struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}
