package iorderstore

import (
	"context"

	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
)

// IOrderStore is the external order store consumed by the export core.
type IOrderStore interface {
	// GetOrderByID returns nil without error when no such order exists.
	GetOrderByID(ctx context.Context, id int64) (*order.Snapshot, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Snapshot, int64, error)
}
