package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngestionJob struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     string         `gorm:"type:varchar(20);not null;default:'queued';index"` // queued, running, done, failed
	Error      string         `gorm:"type:text"`
	ChunkCount int            `gorm:"default:0"`
	StartedAt  *time.Time     `gorm:""`
	FinishedAt *time.Time     `gorm:""`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (IngestionJob) TableName() string {
	return "ingestion_jobs"
}
