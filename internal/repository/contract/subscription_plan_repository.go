package contract

import (
	"context"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
)

type SubscriptionPlanRepository interface {
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindBySlug(ctx context.Context, slug string) (*entity.SubscriptionPlan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)
}
