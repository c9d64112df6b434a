package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.ChatSessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Check Document Chunk Repository", func(t *testing.T) {
		count, err := uow.DocumentChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentChunk count: %d", count)
	})

	t.Run("Transactional Document And Chunks", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		doc := &entity.Document{
			Id:         uuid.New(),
			Title:      "Integration Test Statute",
			Type:       "statute",
			Status:     entity.DocumentStatusProcessing,
			UploadedBy: userId,
			MimeType:   "text/plain",
			CreatedAt:  time.Now(),
		}
		err = uow.DocumentRepository().Create(ctx, doc)
		assert.NoError(t, err)

		chunk := &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Content:        "Section 1. Short title.",
			EmbeddingValue: flatVector(0.01),
			ChunkIndex:     0,
			CreatedAt:      time.Now(),
		}
		err = uow.DocumentChunkRepository().CreateBulk(ctx, []*entity.DocumentChunk{chunk})
		assert.NoError(t, err)

		found, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
		assert.NoError(t, err)
		assert.NotNil(t, found)

		// Rollback via defer: nothing from this subtest persists.
	})
}

// flatVector builds a constant embedding of the store's fixed dimension.
func flatVector(v float32) []float32 {
	out := make([]float32, 1536)
	for i := range out {
		out[i] = v
	}
	return out
}
