package iauditsink

import (
	"context"

	"github.com/hrrarya/order-pdf-export/internal/service/models/audit"
)

// IAuditSink delivers audit events to the external observability channel.
type IAuditSink interface {
	Record(ctx context.Context, event audit.Event) error
}
