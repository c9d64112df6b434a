package mapper

import (
	"time"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/model"

	"gorm.io/gorm"
)

type SubscriptionPlanMapper struct{}

func NewSubscriptionPlanMapper() *SubscriptionPlanMapper {
	return &SubscriptionPlanMapper{}
}

func (m *SubscriptionPlanMapper) ToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.SubscriptionPlan{
		Id:              p.Id,
		Slug:            p.Slug,
		Name:            p.Name,
		MaxChatsPerDay:  p.MaxChatsPerDay,
		MaxDocuments:    p.MaxDocuments,
		AllowWebSearch:  p.AllowWebSearch,
		ModelPreference: p.ModelPreference,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       p.DeletedAt.Valid,
	}
}

func (m *SubscriptionPlanMapper) ToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.SubscriptionPlan{
		Id:              p.Id,
		Slug:            p.Slug,
		Name:            p.Name,
		MaxChatsPerDay:  p.MaxChatsPerDay,
		MaxDocuments:    p.MaxDocuments,
		AllowWebSearch:  p.AllowWebSearch,
		ModelPreference: p.ModelPreference,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *SubscriptionPlanMapper) ToEntities(plans []*model.SubscriptionPlan) []*entity.SubscriptionPlan {
	entities := make([]*entity.SubscriptionPlan, len(plans))
	for i, p := range plans {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
