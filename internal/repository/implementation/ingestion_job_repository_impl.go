package implementation

import (
	"context"
	"errors"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/mapper"
	"legal-research-be/internal/model"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngestionJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IngestionJobMapper
}

func NewIngestionJobRepository(db *gorm.DB) contract.IngestionJobRepository {
	return &IngestionJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewIngestionJobMapper(),
	}
}

func (r *IngestionJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IngestionJobRepositoryImpl) Create(ctx context.Context, job *entity.IngestionJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *IngestionJobRepositoryImpl) Update(ctx context.Context, job *entity.IngestionJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *IngestionJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IngestionJob, error) {
	var m model.IngestionJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IngestionJobRepositoryImpl) FindLatestByDocumentId(ctx context.Context, documentId uuid.UUID) (*entity.IngestionJob, error) {
	var m model.IngestionJob
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentId).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
