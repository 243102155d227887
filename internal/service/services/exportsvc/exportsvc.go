package exportsvc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hrrarya/order-pdf-export/internal/dal/interfaces/iauditsink"
	"github.com/hrrarya/order-pdf-export/internal/dal/interfaces/iorderstore"
	"github.com/hrrarya/order-pdf-export/internal/metrics"
	"github.com/hrrarya/order-pdf-export/internal/security/guard"
	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
	"github.com/hrrarya/order-pdf-export/internal/service/models/audit"
	"github.com/hrrarya/order-pdf-export/internal/service/models/faults"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
)

// state tracks one export run. A request moves forward only; any state
// can fall to failed.
type state int

const (
	stateReceived state = iota
	stateAuthorizing
	stateLookingUp
	stateRendering
	stateDelivering
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateReceived:
		return "RECEIVED"
	case stateAuthorizing:
		return "AUTHORIZING"
	case stateLookingUp:
		return "LOOKING_UP"
	case stateRendering:
		return "RENDERING"
	case stateDelivering:
		return "DELIVERING"
	case stateDone:
		return "DONE"
	default:
		return "FAILED"
	}
}

// run is one pass through the state machine.
type run struct {
	state   state
	orderID int64
}

func (r *run) advance(next state) {
	slog.Debug("export transition", "from", r.state.String(), "to", next.String(), "order_id", r.orderID)
	r.state = next
}

// ExportRequest is the typed request built once at the boundary; no
// handler reads ambient request data past this point.
type ExportRequest struct {
	Method     string
	RawOrderID string
	Nonce      string
	SessionID  string
	Actor      actor.Actor
	ClientIP   string
}

// ExportResult carries the finished document to the delivery step.
type ExportResult struct {
	OrderID  int64
	PDF      []byte
	Filename string
}

type accessGuard interface {
	Authorize(ctx context.Context, in guard.Input) (guard.Decision, int64, error)
}

type docRenderer interface {
	Render(snap *order.Snapshot) ([]byte, string, error)
}

// ExportService sequences guard, lookup, render and delivery for a
// single order export, mapping every failure to a classified fault and
// an audit record.
type ExportService struct {
	store    iorderstore.IOrderStore
	guard    accessGuard
	renderer docRenderer
	audit    iauditsink.IAuditSink
}

type option func(*ExportService)

// MustNewExportService creates a new ExportService.
func MustNewExportService(opts ...option) *ExportService {
	s := &ExportService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil || s.guard == nil || s.renderer == nil || s.audit == nil {
		panic("exportsvc: missing collaborator")
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderStore(store iorderstore.IOrderStore) option {
	return func(s *ExportService) {
		s.store = store
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithGuard(g accessGuard) option {
	return func(s *ExportService) {
		s.guard = g
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithRenderer(r docRenderer) option {
	return func(s *ExportService) {
		s.renderer = r
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditSink(sink iauditsink.IAuditSink) option {
	return func(s *ExportService) {
		s.audit = sink
	}
}

// Export runs one request through the pipeline. On success the caller
// owns delivery; the returned fault's kind selects the response status
// otherwise.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	r := &run{state: stateReceived}

	r.advance(stateAuthorizing)
	decision, orderID, err := s.guard.Authorize(ctx, guard.Input{
		Method:     req.Method,
		RawOrderID: req.RawOrderID,
		Nonce:      req.Nonce,
		SessionID:  req.SessionID,
		Actor:      req.Actor,
	})
	if err != nil {
		r.advance(stateFailed)

		return nil, s.failAuthorize(ctx, req, orderID, err)
	}
	r.orderID = orderID

	r.advance(stateLookingUp)
	snap, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		slog.Error("Order lookup failed", "order_id", orderID, "error", err)
		s.record(ctx, req, audit.KindPDFGenerationError, map[string]string{
			"order_id": strconv.FormatInt(orderID, 10),
			"stage":    "lookup",
		})
		metrics.ExportsTotal.WithLabelValues("internal_error").Inc()
		r.advance(stateFailed)

		return nil, faults.Wrap(faults.KindInternal, "order lookup failed", err)
	}
	if snap == nil {
		// A missing order is terminal and user-visible; no retry, no
		// audit event beyond the response itself.
		metrics.ExportsTotal.WithLabelValues("not_found").Inc()
		r.advance(stateFailed)

		return nil, faults.New(faults.KindNotFound, "order not found")
	}

	s.record(ctx, req, audit.KindPDFDownloadRequested, map[string]string{
		"order_id": strconv.FormatInt(orderID, 10),
		"access":   decision.Reason.String(),
	})

	r.advance(stateRendering)
	started := time.Now()
	pdf, filename, err := s.renderer.Render(snap)
	if err != nil {
		slog.Error("PDF generation failed", "order_id", orderID, "error", err)
		s.record(ctx, req, audit.KindPDFGenerationError, map[string]string{
			"order_id": strconv.FormatInt(orderID, 10),
		})
		metrics.ExportsTotal.WithLabelValues("render_error").Inc()
		r.advance(stateFailed)

		return nil, faults.Wrap(faults.KindRender, "pdf generation failed", err)
	}
	metrics.RenderDuration.Observe(time.Since(started).Seconds())
	metrics.RenderedBytes.Observe(float64(len(pdf)))

	r.advance(stateDelivering)
	metrics.ExportsTotal.WithLabelValues("success").Inc()
	r.advance(stateDone)

	return &ExportResult{
		OrderID:  orderID,
		PDF:      pdf,
		Filename: filename,
	}, nil
}

// failAuthorize maps a guard rejection to its fault kind and audit
// event. Exactly one event per terminal outcome.
func (s *ExportService) failAuthorize(ctx context.Context, req ExportRequest, orderID int64, err error) error {
	switch {
	case errors.Is(err, guard.ErrMethodNotAllowed):
		s.record(ctx, req, audit.KindInvalidRequestMethod, map[string]string{"method": req.Method})
		metrics.ExportsTotal.WithLabelValues("method_not_allowed").Inc()

		return faults.Wrap(faults.KindMethodNotAllowed, "invalid request method", err)

	case errors.Is(err, guard.ErrNonceMissing):
		s.record(ctx, req, audit.KindNonceMissing, nil)
		metrics.ExportsTotal.WithLabelValues("forbidden").Inc()

		return faults.Wrap(faults.KindForbidden, "security check failed", err)

	case errors.Is(err, guard.ErrNonceInvalid):
		s.record(ctx, req, audit.KindNonceInvalid, nil)
		metrics.ExportsTotal.WithLabelValues("forbidden").Inc()

		return faults.Wrap(faults.KindForbidden, "security check failed", err)

	case errors.Is(err, guard.ErrRateLimited):
		s.record(ctx, req, audit.KindRateLimitExceeded, nil)
		metrics.ExportsTotal.WithLabelValues("rate_limited").Inc()

		return faults.Wrap(faults.KindTooManyRequests, "too many requests", err)

	case errors.Is(err, guard.ErrInvalidOrderID):
		s.record(ctx, req, audit.KindInvalidOrderID, map[string]string{"order_id": req.RawOrderID})
		metrics.ExportsTotal.WithLabelValues("invalid_order_id").Inc()

		return faults.Wrap(faults.KindInvalidArgument, "invalid order id", err)

	case errors.Is(err, guard.ErrAccessDenied):
		s.record(ctx, req, audit.KindUnauthorizedOrderAccess, map[string]string{
			"order_id": strconv.FormatInt(orderID, 10),
		})
		metrics.ExportsTotal.WithLabelValues("forbidden").Inc()

		return faults.Wrap(faults.KindForbidden, "order access denied", err)

	default:
		slog.Error("Authorization failed", "error", err)
		metrics.ExportsTotal.WithLabelValues("internal_error").Inc()

		return faults.Wrap(faults.KindInternal, "authorization failed", err)
	}
}

// record delivers an audit event. Sink failures never fail the export;
// the sink itself falls back to the local log.
func (s *ExportService) record(ctx context.Context, req ExportRequest, kind audit.Kind, details map[string]string) {
	event := audit.NewEvent(kind, req.Actor.ID, req.ClientIP, details)
	if err := s.audit.Record(ctx, event); err != nil {
		slog.Error("Audit record failed", "event", string(kind), "error", err)
	}
}

// ListOrders serves the admin list table: privileged actors only,
// sanitized search, validated status filter, fixed page size.
func (s *ExportService) ListOrders(ctx context.Context, a actor.Actor, q order.QueryOrdersModel) ([]order.Snapshot, int64, error) {
	if !a.Can(actor.CapabilityManageStore) {
		return nil, 0, faults.New(faults.KindForbidden, "insufficient permissions")
	}

	q.Normalize()

	items, total, err := s.store.Query(ctx, &q)
	if err != nil {
		return nil, 0, faults.Wrap(faults.KindInternal, "order query failed", err)
	}

	return items, total, nil
}
