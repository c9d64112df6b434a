package entity

import (
	"time"

	"github.com/google/uuid"
)

// Unlimited marks a plan limit that is never enforced.
const Unlimited = -1

type SubscriptionPlan struct {
	Id              uuid.UUID
	Slug            string
	Name            string
	MaxChatsPerDay  int
	MaxDocuments    int
	AllowWebSearch  bool
	ModelPreference string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
