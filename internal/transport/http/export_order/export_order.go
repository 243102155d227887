package exportorder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hrrarya/order-pdf-export/internal/security/clientip"
	"github.com/hrrarya/order-pdf-export/internal/security/identity"
	"github.com/hrrarya/order-pdf-export/internal/service/models/faults"
	"github.com/hrrarya/order-pdf-export/internal/service/services/exportsvc"
)

// service is an interface for the service layer.
type service interface {
	Export(ctx context.Context, req exportsvc.ExportRequest) (*exportsvc.ExportResult, error)
}

// userMessage maps a fault kind to the generic text shown to the
// caller. Internal detail never leaves the logs.
func userMessage(kind faults.Kind) string {
	switch kind {
	case faults.KindMethodNotAllowed:
		return "Invalid request method"
	case faults.KindForbidden:
		return "You do not have permission to perform this action"
	case faults.KindTooManyRequests:
		return "Too many requests. Please wait a moment before trying again."
	case faults.KindInvalidArgument:
		return "Invalid order ID"
	case faults.KindNotFound:
		return "Order not found"
	default:
		return "An error occurred while generating the PDF. Please try again."
	}
}

// Export handles the export trigger. The typed request is built once
// here; nothing downstream reads the raw request.
func Export(w http.ResponseWriter, r *http.Request, service service) {
	// A malformed body simply yields empty form values; the guard
	// rejects those with the proper kind.
	_ = r.ParseForm()

	req := exportsvc.ExportRequest{
		Method:     r.Method,
		RawOrderID: r.PostFormValue("order_id"),
		Nonce:      r.PostFormValue("nonce"),
		SessionID:  identity.SessionFromContext(r.Context()),
		Actor:      identity.ActorFromContext(r.Context()),
		ClientIP:   clientip.FromRequest(r),
	}

	result, err := service.Export(r.Context(), req)
	if err != nil {
		kind := faults.KindOf(err)
		http.Error(w, userMessage(kind), kind.HTTPStatus())

		return
	}

	// From this point the response is owned by the document stream.
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	_, _ = w.Write(result.PDF)
}
