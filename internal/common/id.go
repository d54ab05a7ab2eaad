package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnonymousUser is the sentinel user identifier for ingestions without one
const AnonymousUser = "anon"

// NewDocumentID derives a document identifier from the uploading user and
// the ingestion time. Re-ingestion of the same document always yields a new
// ID; grouping is by document, not content.
// Format: <userId|anon>-<epochMillis>
func NewDocumentID(userID string) string {
	if userID == "" {
		userID = AnonymousUser
	}
	return fmt.Sprintf("%s-%d", userID, time.Now().UnixMilli())
}

// NewPointID generates a unique identifier for one stored chunk vector
func NewPointID() string {
	return uuid.New().String()
}
