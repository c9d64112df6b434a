package implementation

import (
	"context"
	"errors"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/mapper"
	"legal-research-be/internal/model"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SubscriptionPlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionPlanMapper
}

func NewSubscriptionPlanRepository(db *gorm.DB) contract.SubscriptionPlanRepository {
	return &SubscriptionPlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionPlanMapper(),
	}
}

func (r *SubscriptionPlanRepositoryImpl) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.ToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionPlanRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.SubscriptionPlan, error) {
	var m model.SubscriptionPlan
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionPlanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var models []*model.SubscriptionPlan
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
