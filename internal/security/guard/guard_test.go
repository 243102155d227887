package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrrarya/order-pdf-export/internal/security/nonce"
	"github.com/hrrarya/order-pdf-export/internal/security/ratelimit"
	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
)

type storeMock struct {
	snapshots map[int64]*order.Snapshot
	err       error
	calls     int
}

func (m *storeMock) GetOrderByID(_ context.Context, id int64) (*order.Snapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	return m.snapshots[id], nil
}

func (m *storeMock) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Snapshot, int64, error) {
	return nil, 0, nil
}

func newTestGuard(store *storeMock) (*Guard, *nonce.Service) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	nonces := nonce.NewService([]byte("secret"), 24*time.Hour, nonce.WithClock(func() time.Time { return now }))
	limiter := ratelimit.NewLimiter(10, time.Minute)

	return NewGuard(nonces, limiter, store), nonces
}

func validInput(nonces *nonce.Service, a actor.Actor) Input {
	return Input{
		Method:     "POST",
		RawOrderID: "42",
		Nonce:      nonces.Issue(nonce.ScopeOrderExport, "sess-1"),
		SessionID:  "sess-1",
		Actor:      a,
	}
}

func TestAuthorize_RejectsNonPost(t *testing.T) {
	store := &storeMock{}
	g, nonces := newTestGuard(store)

	in := validInput(nonces, actor.Actor{ID: 1})
	in.Method = "GET"

	_, _, err := g.Authorize(context.Background(), in)
	assert.ErrorIs(t, err, ErrMethodNotAllowed)
	assert.Zero(t, store.calls)
}

func TestAuthorize_MissingNonce(t *testing.T) {
	g, nonces := newTestGuard(&storeMock{})

	in := validInput(nonces, actor.Actor{ID: 1})
	in.Nonce = ""

	_, _, err := g.Authorize(context.Background(), in)
	assert.ErrorIs(t, err, ErrNonceMissing)
}

func TestAuthorize_InvalidNonce(t *testing.T) {
	g, nonces := newTestGuard(&storeMock{})

	in := validInput(nonces, actor.Actor{ID: 1})
	in.Nonce = "deadbeef0000"

	_, _, err := g.Authorize(context.Background(), in)
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

func TestAuthorize_RateLimitBeforeLookup(t *testing.T) {
	store := &storeMock{snapshots: map[int64]*order.Snapshot{
		42: {ID: 42, CustomerID: 1},
	}}
	g, nonces := newTestGuard(store)

	in := validInput(nonces, actor.Actor{ID: 1})
	for i := 0; i < 10; i++ {
		_, _, err := g.Authorize(context.Background(), in)
		require.NoError(t, err)
	}
	lookups := store.calls

	_, _, err := g.Authorize(context.Background(), in)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, lookups, store.calls, "throttled request must not reach the store")
}

func TestAuthorize_InvalidOrderID(t *testing.T) {
	g, nonces := newTestGuard(&storeMock{})

	for _, raw := range []string{"", "0", "-5", "abc", "12.5"} {
		in := validInput(nonces, actor.Actor{ID: 1})
		in.RawOrderID = raw

		_, _, err := g.Authorize(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidOrderID, "raw id %q", raw)
	}
}

func TestAuthorize_OwnerAllowed(t *testing.T) {
	store := &storeMock{snapshots: map[int64]*order.Snapshot{
		42: {ID: 42, CustomerID: 9},
	}}
	g, nonces := newTestGuard(store)

	decision, orderID, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{ID: 9}))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonOwner, decision.Reason)
	assert.Equal(t, int64(42), orderID)
}

func TestAuthorize_PrivilegedSkipsLookup(t *testing.T) {
	store := &storeMock{}
	g, nonces := newTestGuard(store)

	for _, capability := range []actor.Capability{actor.CapabilityManageStore, actor.CapabilityEditOrders} {
		decision, _, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{
			ID:           3,
			Capabilities: []actor.Capability{capability},
		}))
		require.NoError(t, err)
		assert.Equal(t, ReasonPrivileged, decision.Reason)
	}
	assert.Zero(t, store.calls)
}

func TestAuthorize_StrangerDenied(t *testing.T) {
	store := &storeMock{snapshots: map[int64]*order.Snapshot{
		42: {ID: 42, CustomerID: 9},
	}}
	g, nonces := newTestGuard(store)

	_, _, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{ID: 10}))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAuthorize_AnonymousDeniedWithoutLookup(t *testing.T) {
	store := &storeMock{}
	g, nonces := newTestGuard(store)

	_, _, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{}))
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, store.calls)
}

func TestAuthorize_MissingOrderDeniedForCustomer(t *testing.T) {
	store := &storeMock{snapshots: map[int64]*order.Snapshot{}}
	g, nonces := newTestGuard(store)

	_, _, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{ID: 5}))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAuthorize_StoreErrorPropagates(t *testing.T) {
	store := &storeMock{err: errors.New("connection refused")}
	g, nonces := newTestGuard(store)

	_, _, err := g.Authorize(context.Background(), validInput(nonces, actor.Actor{ID: 5}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccessDenied)
}
