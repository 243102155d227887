package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/hrrarya/order-pdf-export/internal/security/identity"
	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
	"github.com/hrrarya/order-pdf-export/internal/service/models/faults"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
	"github.com/hrrarya/order-pdf-export/internal/service/models/status"
)

type service interface {
	ListOrders(ctx context.Context, a actor.Actor, q order.QueryOrdersModel) ([]order.Snapshot, int64, error)
}

type queryOrdersRequest struct {
	Search string `schema:"search,omitempty"`
	Status string `schema:"status,omitempty"`
	Page   int    `schema:"page,omitempty"`
}

// ToModel validates the status filter against the known set; unknown
// values are dropped rather than passed to the store.
func (q *queryOrdersRequest) ToModel() order.QueryOrdersModel {
	model := order.QueryOrdersModel{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: order.DefaultPageSize,
	}
	if st, err := status.Parse(q.Status); err == nil {
		model.Status = st
	}

	return model
}

type listOrdersResponse struct {
	Items []order.Snapshot `json:"items"`
	Total int64            `json:"total"`
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, "Invalid query parameters", http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	items, total, err := service.ListOrders(r.Context(), identity.ActorFromContext(r.Context()), query.ToModel())
	if err != nil {
		kind := faults.KindOf(err)
		if kind == faults.KindForbidden {
			http.Error(w, "You do not have sufficient permissions to access this page", http.StatusForbidden)
		} else {
			http.Error(w, "Failed to list orders", http.StatusInternalServerError)
		}
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listOrdersResponse{Items: items, Total: total}); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
