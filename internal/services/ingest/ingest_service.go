// -----------------------------------------------------------------------
// Ingest Service - document to embedded chunks pipeline
// -----------------------------------------------------------------------

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/ternarybob/respondeo/internal/services/chunker"
)

// Service implements the IngestService interface. Each ingestion is
// all-or-nothing: extract, chunk, embed the whole batch, then upsert all
// records in one call. The ledger write afterwards is best-effort.
type Service struct {
	extractor interfaces.PDFExtractor
	splitter  *chunker.Splitter
	embedder  interfaces.EmbeddingService
	store     interfaces.VectorStore
	ledger    interfaces.IngestionStorage
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.IngestService = (*Service)(nil)

// NewService creates a new ingest service
func NewService(cfg *common.IngestConfig, extractor interfaces.PDFExtractor, embedder interfaces.EmbeddingService, store interfaces.VectorStore, ledger interfaces.IngestionStorage, logger arbor.ILogger) *Service {
	return &Service{
		extractor: extractor,
		splitter:  chunker.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, logger),
		embedder:  embedder,
		store:     store,
		ledger:    ledger,
		logger:    logger,
	}
}

// Ingest extracts text from the document, splits it into overlapping
// chunks, embeds all chunks in one batch and upserts them as one call.
// Re-ingesting the same document is additive: a new document ID is
// generated each time.
func (s *Service) Ingest(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error) {
	start := time.Now()

	text, err := s.extractor.ExtractText(ctx, documentBytes)
	if err != nil {
		return nil, err
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, &models.ParseError{Err: fmt.Errorf("document produced no chunks")}
	}

	vectors, err := s.embedder.GenerateEmbeddings(ctx, chunks)
	if err != nil {
		return nil, err
	}

	documentID := common.NewDocumentID(userID)

	records := make([]models.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = models.ChunkRecord{
			ID:     common.NewPointID(),
			Vector: vectors[i],
			Payload: models.ChunkPayload{
				Text:       chunk,
				DocumentID: documentID,
				UserID:     userID,
				ChunkIndex: i,
			},
		}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return nil, err
	}

	// Ledger failure doesn't undo a successful upsert
	if s.ledger != nil {
		record := &models.IngestionRecord{
			DocumentID: documentID,
			UserID:     userID,
			ChunkCount: len(records),
			TextBytes:  len(text),
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.ledger.SaveRecord(record); err != nil {
			s.logger.Warn().
				Err(err).
				Str("document_id", documentID).
				Msg("Failed to record ingestion in ledger")
		}
	}

	s.logger.Info().
		Str("document_id", documentID).
		Str("user_id", userID).
		Int("chunks", len(records)).
		Int("text_bytes", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Document ingested")

	return &models.IngestResult{
		DocumentID: documentID,
		ChunkCount: len(records),
	}, nil
}
