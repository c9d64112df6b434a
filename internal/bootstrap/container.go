package bootstrap

import (
	"context"
	"log"

	"legal-research-be/internal/config"
	"legal-research-be/internal/controller"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/implementation"
	"legal-research-be/internal/repository/unitofwork"
	"legal-research-be/internal/service"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/embedding/jina"
	"legal-research-be/pkg/extract"
	"legal-research-be/pkg/llm/factory"
	"legal-research-be/pkg/rag/access"
	"legal-research-be/pkg/rag/history"
	"legal-research-be/pkg/rag/response"
	"legal-research-be/pkg/rag/retrieval"
	"legal-research-be/pkg/usage"
	"legal-research-be/pkg/websearch"

	pktNats "legal-research-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController
	PlanController     controller.IPlanController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysLogger.Info("bootstrap", "Container wiring started", nil)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	case "gemini":
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	default:
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.LLMBaseURL, "")
		log.Printf("[INFO] Using Embedding Provider: OPENAI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	var ocrClient extract.OCRProvider
	if cfg.Ai.OCRBaseURL != "" {
		ocrClient = extract.NewOCRClient(cfg.Ai.OCRBaseURL)
	}
	extractor := extract.New(ocrClient)

	searchClient := websearch.NewClient(cfg.Keys.Serper, "")
	if !searchClient.Configured() {
		log.Printf("[WARN] Web search key missing, web grounding disabled")
	}

	// 5. RAG Components
	usageTracker := usage.NewTracker(rdb)
	accessVerifier := access.NewVerifier(usageTracker, log.Default())
	chunkRepo := implementation.NewDocumentChunkRepository(db)
	retriever := retrieval.NewRetriever(chunkRepo, embeddingProvider, searchClient, log.Default())
	historyLoader := history.NewLoader(uowFactory)
	generator := response.NewGenerator(llmProvider, log.Default())

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.IngestTopic)
	ingestService := service.NewIngestService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		extractor,
		embeddingProvider,
		natsPub,
		sysLogger,
	)

	planService := service.NewPlanService(uowFactory)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		planService,
		accessVerifier,
		cfg.App.UploadDir,
	)
	chatService := service.NewChatService(
		uowFactory,
		planService,
		retriever,
		historyLoader,
		generator,
		accessVerifier,
		usageTracker,
	)

	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),
		PlanController:     controller.NewPlanController(planService),

		IngestService: ingestService,
	}
}
