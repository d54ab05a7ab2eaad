package models

import "time"

// IngestResult is returned to the caller after a successful ingestion
type IngestResult struct {
	DocumentID string `json:"documentId"`
	ChunkCount int    `json:"chunks"`
}

// IngestionRecord is the durable ledger entry written after each successful
// document ingestion. Records are additive: re-ingesting the same physical
// document creates a new record with a new DocumentID.
type IngestionRecord struct {
	DocumentID string    `json:"document_id" badgerhold:"key"`
	UserID     string    `json:"user_id,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	TextBytes  int       `json:"text_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}
