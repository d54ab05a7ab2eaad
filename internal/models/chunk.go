package models

// ChunkPayload is the payload stored alongside each vector in the store.
// ChunkIndex preserves original order for potential future reconstruction.
type ChunkPayload struct {
	Text       string `json:"text"`
	DocumentID string `json:"documentId"`
	UserID     string `json:"userId,omitempty"`
	ChunkIndex int    `json:"chunkIndex"`
}

// ChunkRecord is one embedded chunk as persisted in the vector store.
// Created during ingestion, one per text chunk; never mutated after creation.
// The vector dimension must equal the embedding model's output dimension.
type ChunkRecord struct {
	ID      string       `json:"id"`
	Vector  []float32    `json:"vector"`
	Payload ChunkPayload `json:"payload"`
}

// SearchHit is one ranked result from a vector similarity search. Ephemeral:
// consumed immediately to build context text, not persisted.
type SearchHit struct {
	Payload ChunkPayload `json:"payload"`
	Score   float32      `json:"score"`
}
