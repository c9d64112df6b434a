package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the placeholder a new session starts with until the
// first user message supplies a real one.
const DefaultSessionTitle = "New Research"

type ChatSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Title         string
	LastMessageAt *time.Time
	MessageCount  int
	IsArchived    bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
