package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MessageSource is one retrieval citation attached to an assistant message.
// Order is preserved as returned by the retriever.
type MessageSource struct {
	ChunkId    string  `json:"chunk_id,omitempty"`
	DocumentId string  `json:"document_id,omitempty"`
	Title      string  `json:"title"`
	Citation   string  `json:"citation,omitempty"`
	Type       string  `json:"type"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"` // documents or web_search
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserId        uuid.UUID
	Role          string
	Message       string
	Sources       []MessageSource
	TokensUsed    int
	ModelUsed     string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
