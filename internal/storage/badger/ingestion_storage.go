package badger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IngestionStorage implements the ingestion ledger on top of badgerhold
type IngestionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.IngestionStorage = (*IngestionStorage)(nil)

// NewIngestionStorage creates a new ingestion ledger
func NewIngestionStorage(db *BadgerDB, logger arbor.ILogger) *IngestionStorage {
	return &IngestionStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRecord writes one ledger entry, overwriting any entry with the
// same document ID
func (s *IngestionStorage) SaveRecord(record *models.IngestionRecord) error {
	if record == nil || record.DocumentID == "" {
		return fmt.Errorf("ingestion record requires a document ID")
	}

	if err := s.db.Store().Upsert(record.DocumentID, record); err != nil {
		return fmt.Errorf("failed to save ingestion record: %w", err)
	}

	s.logger.Debug().
		Str("document_id", record.DocumentID).
		Int("chunk_count", record.ChunkCount).
		Msg("Saved ingestion record")

	return nil
}

// GetRecord returns the ledger entry for a document ID
func (s *IngestionStorage) GetRecord(documentID string) (*models.IngestionRecord, error) {
	var record models.IngestionRecord
	err := s.db.Store().Get(documentID, &record)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("no ingestion record for document %s", documentID)
		}
		return nil, fmt.Errorf("failed to get ingestion record: %w", err)
	}
	return &record, nil
}

// ListRecords returns ledger entries, newest first
func (s *IngestionStorage) ListRecords(limit int) ([]*models.IngestionRecord, error) {
	var records []*models.IngestionRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list ingestion records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// Count returns the number of ledger entries
func (s *IngestionStorage) Count() (int, error) {
	count, err := s.db.Store().Count(&models.IngestionRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count ingestion records: %w", err)
	}
	return int(count), nil
}
