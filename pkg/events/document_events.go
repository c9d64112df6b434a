package events

import "time"

// Document lifecycle event types consumed by external services (search
// indexers, notification center).
const (
	TypeDocumentReady  = "DOCUMENT_READY"
	TypeDocumentFailed = "DOCUMENT_FAILED"
)

// NewDocumentReady is emitted after ingestion finished and chunks are
// retrievable.
func NewDocumentReady(documentID, userID string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentReady,
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_id":     userID,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentFailed is emitted when ingestion marked the document as error.
func NewDocumentFailed(documentID, userID, reason string) Event {
	return BaseEvent{
		Type: TypeDocumentFailed,
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_id":     userID,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}
