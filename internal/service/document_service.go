package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/rag/access"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, planSlug string, fileName string, mimeType string, data []byte, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	JobStatus(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.JobStatusResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	planService      IPlanService
	accessVerifier   *access.Verifier
	uploadDir        string
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	planService IPlanService,
	accessVerifier *access.Verifier,
	uploadDir string,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		planService:      planService,
		accessVerifier:   accessVerifier,
		uploadDir:        uploadDir,
	}
}

// Upload accepts the file, records the document and its ingestion job, and
// hands the heavy work to the queue. Extraction and embedding happen async.
func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, planSlug string, fileName string, mimeType string, data []byte, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan := s.planService.ResolvePlan(ctx, planSlug)
	owned, err := uow.DocumentRepository().Count(ctx, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}
	if err := s.accessVerifier.VerifyDocumentQuota(owned, plan); err != nil {
		return nil, err
	}

	docId := uuid.New()
	storagePath := filepath.Join(s.uploadDir, docId.String()+filepath.Ext(fileName))
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	if err := os.WriteFile(storagePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := entity.Document{
		Id:           docId,
		Title:        req.Title,
		Type:         req.Type,
		Jurisdiction: req.Jurisdiction,
		Year:         req.Year,
		Citation:     req.Citation,
		Status:       entity.DocumentStatusProcessing,
		IsPublic:     req.IsPublic,
		UploadedBy:   userId,
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
		StoragePath:  storagePath,
		CreatedAt:    time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	job := entity.IngestionJob{
		Id:         uuid.New(),
		DocumentId: doc.Id,
		Status:     entity.JobStatusQueued,
		CreatedAt:  time.Now(),
	}
	if err := uow.IngestionJobRepository().Create(ctx, &job); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIngestDocumentMessage{
		DocumentId: doc.Id,
		JobId:      job.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		Id:     doc.Id,
		Status: doc.Status,
		JobId:  job.Id,
	}, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.VisibleToUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, toDocumentResponse(doc, 0))
	}
	return responses, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id}, specification.VisibleToUser{UserID: userId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}

	chunkCount, err := uow.DocumentChunkRepository().Count(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	if err != nil {
		log.Printf("[WARN] Failed to count chunks for document %s: %v", doc.Id, err)
		chunkCount = 0
	}

	return toDocumentResponse(doc, chunkCount), nil
}

// Delete removes an owned document and its chunks. Visibility of public
// documents never grants delete rights.
func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id}, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to remove stored file %s: %v", doc.StoragePath, err)
	}
	return nil
}

func (s *documentService) JobStatus(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.JobStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId}, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}

	job, err := uow.IngestionJobRepository().FindLatestByDocumentId(ctx, doc.Id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("no ingestion job for document")
	}

	return &dto.JobStatusResponse{
		Id:         job.Id,
		DocumentId: job.DocumentId,
		Status:     job.Status,
		Error:      job.Error,
		ChunkCount: job.ChunkCount,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}, nil
}

func toDocumentResponse(doc *entity.Document, chunkCount int64) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:           doc.Id,
		Title:        doc.Title,
		Type:         doc.Type,
		Jurisdiction: doc.Jurisdiction,
		Year:         doc.Year,
		Citation:     doc.Citation,
		Status:       doc.Status,
		IsPublic:     doc.IsPublic,
		FileSize:     doc.FileSize,
		ChunkCount:   chunkCount,
		CreatedAt:    doc.CreatedAt,
	}
}
