package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string         `gorm:"type:varchar(255);not null"`
	Type         string         `gorm:"type:varchar(50);index"` // statute, case_law, contract, article, other
	Jurisdiction string         `gorm:"type:varchar(100)"`
	Year         int            `gorm:"index"`
	Citation     string         `gorm:"type:varchar(255)"`
	Content      *string        `gorm:"type:text"` // nil until extraction finishes
	Status       string         `gorm:"type:varchar(20);not null;default:'processing';index"`
	IsPublic     bool           `gorm:"not null;default:false;index"`
	UploadedBy   uuid.UUID      `gorm:"type:uuid;not null;index"`
	FileSize     int64          `gorm:"default:0"`
	MimeType     string         `gorm:"type:varchar(100)"`
	StoragePath  string         `gorm:"type:varchar(512)"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
