package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug            string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string         `gorm:"type:varchar(100);not null"`
	MaxChatsPerDay  int            `gorm:"not null;default:10"` // -1 means unlimited
	MaxDocuments    int            `gorm:"not null;default:5"`  // -1 means unlimited
	AllowWebSearch  bool           `gorm:"not null;default:false"`
	ModelPreference string         `gorm:"type:varchar(100)"` // alias resolved by the response generator
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
