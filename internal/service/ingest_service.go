package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/chunker"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/events"
	"legal-research-be/pkg/extract"
	pktNats "legal-research-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ingestModule tags every ingestion log line so pipeline failures are easy
// to filter.
const ingestModule = "ingest"

type IIngestService interface {
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	extractor         *extract.Extractor
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	extractor *extract.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IIngestService {
	return &ingestService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            sysLogger,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(ingestModule, "Failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.logger.Info(ingestModule, "Processing ingestion", map[string]interface{}{
		"document_id": payload.DocumentId,
		"job_id":      payload.JobId,
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		s.logger.Error(ingestModule, "Failed to get document", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		s.logger.Error(ingestModule, "Document not found", map[string]interface{}{
			"document_id": payload.DocumentId,
		})
		msg.Ack() // Document deleted before the worker got to it.
		return
	}

	job, err := uow.IngestionJobRepository().FindOne(ctx, specification.ByID{ID: payload.JobId})
	if err != nil {
		s.logger.Error(ingestModule, "Failed to get ingestion job", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}
	if job == nil {
		s.logger.Error(ingestModule, "Ingestion job not found", map[string]interface{}{
			"job_id": payload.JobId,
		})
		msg.Ack()
		return
	}

	now := time.Now()
	job.Status = entity.JobStatusRunning
	job.StartedAt = &now
	if err := uow.IngestionJobRepository().Update(ctx, job); err != nil {
		s.logger.Error(ingestModule, "Failed to mark job running", map[string]interface{}{
			"job_id": job.Id,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	data, err := os.ReadFile(doc.StoragePath)
	if err != nil {
		s.logger.Error(ingestModule, "Failed to read stored file", map[string]interface{}{
			"document_id":  doc.Id,
			"storage_path": doc.StoragePath,
			"error":        err.Error(),
		})
		s.failIngestion(ctx, uow, doc, job, fmt.Sprintf("read stored file: %v", err))
		msg.Ack() // The file will not reappear on retry.
		return
	}

	text, err := s.extractor.Extract(data, doc.MimeType)
	if err != nil {
		var unsupported *extract.UnsupportedFileTypeError
		if errors.As(err, &unsupported) {
			s.logger.Error(ingestModule, "Unsupported file type", map[string]interface{}{
				"document_id": doc.Id,
				"mime_type":   doc.MimeType,
			})
		} else {
			s.logger.Error(ingestModule, "Extraction failed", map[string]interface{}{
				"document_id": doc.Id,
				"error":       err.Error(),
			})
		}
		s.failIngestion(ctx, uow, doc, job, err.Error())
		msg.Ack()
		return
	}

	chunks := chunker.Split(text, chunker.DefaultChunkSize, chunker.DefaultOverlap)
	s.logger.Info(ingestModule, "Document split into chunks", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(chunks),
	})

	// Chunks whose embedding fails are skipped rather than failing the
	// whole document. Each kept chunk retains its original index so the
	// stored order still mirrors document order.
	var newChunks []*entity.DocumentChunk
	skipped := 0
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
		if err != nil {
			s.logger.Warn(ingestModule, "Embedding failed for chunk, skipping", map[string]interface{}{
				"document_id": doc.Id,
				"chunk_index": i,
				"error":       err.Error(),
			})
			skipped++
			continue
		}

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			ChunkIndex:     i,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}
	if skipped > 0 {
		s.logger.Warn(ingestModule, "Document ingested with skipped chunks", map[string]interface{}{
			"document_id": doc.Id,
			"skipped":     skipped,
			"total":       len(chunks),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		s.logger.Error(ingestModule, "Failed to begin transaction", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		s.logger.Error(ingestModule, "Failed to delete old chunks", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			s.logger.Error(ingestModule, "Failed to create chunks", map[string]interface{}{
				"document_id": doc.Id,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentStatusReady, &text); err != nil {
		s.logger.Error(ingestModule, "Failed to mark document ready", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	finished := time.Now()
	job.Status = entity.JobStatusDone
	job.ChunkCount = len(newChunks)
	job.FinishedAt = &finished
	if err := uow.IngestionJobRepository().Update(ctx, job); err != nil {
		s.logger.Error(ingestModule, "Failed to mark job done", map[string]interface{}{
			"job_id": job.Id,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		s.logger.Error(ingestModule, "Failed to commit transaction", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	s.publishEvent(ctx, events.NewDocumentReady(doc.Id.String(), doc.UploadedBy.String(), len(newChunks)))

	s.logger.Info(ingestModule, "Document ingested", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(newChunks),
	})
	msg.Ack()
}

// failIngestion records the terminal error state. Best effort: the message is
// Acked either way because re-processing a broken file cannot succeed.
func (s *ingestService) failIngestion(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, job *entity.IngestionJob, reason string) {
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentStatusError, nil); err != nil {
		s.logger.Error(ingestModule, "Failed to mark document errored", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
	}

	finished := time.Now()
	job.Status = entity.JobStatusFailed
	job.Error = reason
	job.FinishedAt = &finished
	if err := uow.IngestionJobRepository().Update(ctx, job); err != nil {
		s.logger.Error(ingestModule, "Failed to mark job failed", map[string]interface{}{
			"job_id": job.Id,
			"error":  err.Error(),
		})
	}

	s.publishEvent(ctx, events.NewDocumentFailed(doc.Id.String(), doc.UploadedBy.String(), reason))
}

func (s *ingestService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	// Events are auxiliary, log the error but don't fail ingestion.
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn(ingestModule, "Failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}
