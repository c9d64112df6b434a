package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusError      = "error"
)

type Document struct {
	Id           uuid.UUID
	Title        string
	Type         string
	Jurisdiction string
	Year         int
	Citation     string
	Content      *string
	Status       string
	IsPublic     bool
	UploadedBy   uuid.UUID
	FileSize     int64
	MimeType     string
	StoragePath  string
	Metadata     map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
