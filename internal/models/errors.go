package models

import "fmt"

// ValidationError indicates bad or missing input, rejected before any
// network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// EmbeddingError indicates the embedding provider call failed or returned
// a vector of unexpected dimension.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return "embedding failed: " + e.Err.Error()
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError indicates a vector store search failure (transport, auth).
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return "retrieval failed: " + e.Err.Error()
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ParseError indicates document text extraction failed: the bytes are not a
// parseable document or contain no extractable text.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse failed: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError indicates a vector store write failure. No partial upsert is
// visible to the caller when this is returned.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage failed: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// GenerationError indicates the language model streaming call failed. Once
// streaming has begun this is surfaced in-band as a diagnostic token, never
// as an out-of-band error.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }
