package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind is a stable audit event vocabulary. Values are part of the sink
// contract and must not be renamed.
type Kind string

const (
	KindInvalidRequestMethod    Kind = "invalid_request_method"
	KindNonceMissing            Kind = "nonce_missing"
	KindNonceInvalid            Kind = "nonce_invalid"
	KindRateLimitExceeded       Kind = "rate_limit_exceeded"
	KindInvalidOrderID          Kind = "invalid_order_id"
	KindUnauthorizedOrderAccess Kind = "unauthorized_order_access"
	KindPDFDownloadRequested    Kind = "pdf_download_requested"
	KindPDFGenerationError      Kind = "pdf_generation_error"
)

// Event is one security-relevant occurrence in the export pipeline.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	ActorID   int64             `json:"actor_id"`
	ClientIP  string            `json:"client_ip"`
	Kind      Kind              `json:"event"`
	Details   map[string]string `json:"details,omitempty"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(kind Kind, actorID int64, clientIP string, details map[string]string) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		ActorID:   actorID,
		ClientIP:  clientIP,
		Kind:      kind,
		Details:   details,
	}
}
