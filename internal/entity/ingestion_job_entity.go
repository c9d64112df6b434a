package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion job statuses.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

type IngestionJob struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Status     string
	Error      string
	ChunkCount int
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
