package interfaces

import "github.com/ternarybob/respondeo/internal/models"

// IngestionStorage persists the durable ledger of processed documents
type IngestionStorage interface {
	// SaveRecord writes one ledger entry
	SaveRecord(record *models.IngestionRecord) error

	// GetRecord returns the ledger entry for a document ID
	GetRecord(documentID string) (*models.IngestionRecord, error)

	// ListRecords returns ledger entries, newest first, up to limit
	// (limit <= 0 means no limit)
	ListRecords(limit int) ([]*models.IngestionRecord, error)

	// Count returns the number of ledger entries
	Count() (int, error)
}

// StorageManager provides access to local storage backends
type StorageManager interface {
	IngestionStorage() IngestionStorage
	Close() error
}
