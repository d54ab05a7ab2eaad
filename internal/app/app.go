// -----------------------------------------------------------------------
// Application wiring - constructs and owns all services and handlers
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/handlers"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/services/chat"
	"github.com/ternarybob/respondeo/internal/services/embeddings"
	"github.com/ternarybob/respondeo/internal/services/ingest"
	"github.com/ternarybob/respondeo/internal/services/llm"
	"github.com/ternarybob/respondeo/internal/services/pdf"
	"github.com/ternarybob/respondeo/internal/storage/badger"
	"github.com/ternarybob/respondeo/internal/storage/qdrant"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Providers
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	VectorStore      interfaces.VectorStore
	PDFExtractor     interfaces.PDFExtractor

	// Pipelines
	ChatService   interfaces.ChatService
	IngestService interfaces.IngestService

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	ChatHandler     *handlers.ChatHandler
	IngestHandler   *handlers.IngestHandler
	DocumentHandler *handlers.DocumentHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("provider", string(app.LLMService.GetProvider())).
		Str("embed_model", app.EmbeddingService.ModelName()).
		Msg("Application initialized")

	return app, nil
}

// initStorage opens the local ledger database and the vector store client
func (a *App) initStorage() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = storageManager

	vectorStore, err := qdrant.NewClient(&a.Config.Qdrant, a.Logger)
	if err != nil {
		return err
	}
	a.VectorStore = vectorStore

	return nil
}

// initServices constructs providers and the two pipelines
func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	embeddingService, err := embeddings.NewService(&a.Config.Gemini, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}
	a.EmbeddingService = embeddingService

	// The collection must exist before the first search or upsert
	ctx := context.Background()
	if err := a.VectorStore.EnsureCollection(ctx, embeddingService.Dimension()); err != nil {
		return fmt.Errorf("failed to ensure vector collection: %w", err)
	}

	a.PDFExtractor = pdf.NewExtractor(a.Logger)

	retriever := chat.NewContextRetriever(a.EmbeddingService, a.VectorStore, a.Logger)
	a.ChatService = chat.NewService(&a.Config.Chat, retriever, a.LLMService, a.Logger)

	a.IngestService = ingest.NewService(
		&a.Config.Ingest,
		a.PDFExtractor,
		a.EmbeddingService,
		a.VectorStore,
		a.StorageManager.IngestionStorage(),
		a.Logger,
	)

	return nil
}

// initHandlers constructs the HTTP handler set
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.IngestHandler = handlers.NewIngestHandler(a.IngestService, int64(a.Config.Ingest.MaxBodyBytes), a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.StorageManager.IngestionStorage(), a.Logger)
}

// Close releases application resources
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	return nil
}
