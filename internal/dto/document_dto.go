package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Type         string `json:"type" validate:"omitempty,oneof=statute case_law contract article other"`
	Jurisdiction string `json:"jurisdiction" validate:"omitempty,max=100"`
	Year         int    `json:"year" validate:"omitempty,gte=1000,lte=2100"`
	Citation     string `json:"citation" validate:"omitempty,max=255"`
	IsPublic     bool   `json:"is_public"`
}

type UploadDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	JobId  uuid.UUID `json:"job_id"`
}

type DocumentResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	Year         int       `json:"year,omitempty"`
	Citation     string    `json:"citation,omitempty"`
	Status       string    `json:"status"`
	IsPublic     bool      `json:"is_public"`
	FileSize     int64     `json:"file_size"`
	ChunkCount   int64     `json:"chunk_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type JobStatusResponse struct {
	Id         uuid.UUID  `json:"id"`
	DocumentId uuid.UUID  `json:"document_id"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	ChunkCount int        `json:"chunk_count"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// PublishIngestDocumentMessage is the queue payload linking an uploaded
// document to its ingestion job.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	JobId      uuid.UUID `json:"job_id"`
}
