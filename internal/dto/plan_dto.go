package dto

import "github.com/google/uuid"

type PlanResponse struct {
	Id              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	MaxChatsPerDay  int       `json:"max_chats_per_day"`
	MaxDocuments    int       `json:"max_documents"`
	AllowWebSearch  bool      `json:"allow_web_search"`
	ModelPreference string    `json:"model_preference,omitempty"`
}
