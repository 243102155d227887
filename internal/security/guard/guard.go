package guard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hrrarya/order-pdf-export/internal/dal/interfaces/iorderstore"
	"github.com/hrrarya/order-pdf-export/internal/security/nonce"
	"github.com/hrrarya/order-pdf-export/internal/security/ratelimit"
	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
)

var (
	ErrMethodNotAllowed = errors.New("invalid request method")
	ErrNonceMissing     = errors.New("anti-forgery token missing")
	ErrNonceInvalid     = errors.New("anti-forgery token invalid")
	ErrRateLimited      = errors.New("export rate limit exceeded")
	ErrInvalidOrderID   = errors.New("invalid order id")
	ErrAccessDenied     = errors.New("order access denied")
)

// Reason explains why access was granted.
type Reason int

const (
	ReasonDenied Reason = iota
	ReasonOwner
	ReasonPrivileged
)

func (r Reason) String() string {
	switch r {
	case ReasonOwner:
		return "OWNER"
	case ReasonPrivileged:
		return "PRIVILEGED"
	default:
		return "DENIED"
	}
}

// Decision is the per-request access outcome. Never persisted.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Input carries everything the guard needs, collected once at the
// transport boundary.
type Input struct {
	Method     string
	RawOrderID string
	Nonce      string
	SessionID  string
	Actor      actor.Actor
}

// Guard validates method, anti-forgery token, request cadence and order
// ownership before any rendering work happens.
type Guard struct {
	nonces  *nonce.Service
	limiter *ratelimit.Limiter
	store   iorderstore.IOrderStore
}

func NewGuard(nonces *nonce.Service, limiter *ratelimit.Limiter, store iorderstore.IOrderStore) *Guard {
	return &Guard{
		nonces:  nonces,
		limiter: limiter,
		store:   store,
	}
}

// Authorize runs the checks in contract order: method, token, rate,
// order-id syntax, ownership. The rate check runs before the id is even
// parsed, so a throttled actor consumes no lookup resources. A rejected
// step returns its sentinel error; the order id is returned once parsed.
func (g *Guard) Authorize(ctx context.Context, in Input) (Decision, int64, error) {
	if in.Method != http.MethodPost {
		return Decision{}, 0, ErrMethodNotAllowed
	}

	if in.Nonce == "" {
		return Decision{}, 0, ErrNonceMissing
	}
	if !g.nonces.Verify(in.Nonce, nonce.ScopeOrderExport, in.SessionID) {
		return Decision{}, 0, ErrNonceInvalid
	}

	if !g.limiter.Allow(in.Actor.ID) {
		return Decision{}, 0, ErrRateLimited
	}

	orderID, err := strconv.ParseInt(in.RawOrderID, 10, 64)
	if err != nil || orderID <= 0 {
		return Decision{}, 0, ErrInvalidOrderID
	}

	decision, err := g.checkAccess(ctx, in.Actor, orderID)
	if err != nil {
		return Decision{}, orderID, err
	}

	return decision, orderID, nil
}

// checkAccess grants privileged capability holders outright; otherwise
// the actor must be the order's own customer. A missing order cannot
// prove ownership and is denied here, not reported as absent.
func (g *Guard) checkAccess(ctx context.Context, a actor.Actor, orderID int64) (Decision, error) {
	if a.Can(actor.CapabilityManageStore) || a.Can(actor.CapabilityEditOrders) {
		return Decision{Allowed: true, Reason: ReasonPrivileged}, nil
	}

	if a.ID <= 0 {
		return Decision{}, ErrAccessDenied
	}

	snap, err := g.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return Decision{}, fmt.Errorf("ownership lookup: %w", err)
	}
	if snap == nil || snap.CustomerID != a.ID {
		return Decision{}, ErrAccessDenied
	}

	return Decision{Allowed: true, Reason: ReasonOwner}, nil
}
