package exportorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrrarya/order-pdf-export/internal/security/identity"
	"github.com/hrrarya/order-pdf-export/internal/service/models/faults"
	"github.com/hrrarya/order-pdf-export/internal/service/services/exportsvc"
)

type serviceMock struct {
	result  *exportsvc.ExportResult
	err     error
	lastReq exportsvc.ExportRequest
}

func (s *serviceMock) Export(_ context.Context, req exportsvc.ExportRequest) (*exportsvc.ExportResult, error) {
	s.lastReq = req

	return s.result, s.err
}

func exportRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/api/orders/export", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set(identity.HeaderActorID, "9")
	r.Header.Set(identity.HeaderSessionID, "sess-1")
	r.RemoteAddr = "203.0.113.7:51234"

	return r
}

// serve runs the handler behind the identity middleware, the same shape
// the router uses.
func serve(svc service, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	identity.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Export(w, r, svc)
	})).ServeHTTP(w, r)

	return w
}

func TestExport_Success(t *testing.T) {
	svc := &serviceMock{result: &exportsvc.ExportResult{
		OrderID:  42,
		PDF:      []byte("%PDF-1.4 body"),
		Filename: "order-42.pdf",
	}}

	w := serve(svc, exportRequest(t, url.Values{
		"order_id": {"42"},
		"nonce":    {"abc123def456"},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="order-42.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "13", w.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.4 body", w.Body.String())
}

func TestExport_BuildsTypedRequest(t *testing.T) {
	svc := &serviceMock{result: &exportsvc.ExportResult{Filename: "order-42.pdf"}}

	r := exportRequest(t, url.Values{
		"order_id": {"42"},
		"nonce":    {"abc123def456"},
	})
	r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	serve(svc, r)

	assert.Equal(t, http.MethodPost, svc.lastReq.Method)
	assert.Equal(t, "42", svc.lastReq.RawOrderID)
	assert.Equal(t, "abc123def456", svc.lastReq.Nonce)
	assert.Equal(t, "sess-1", svc.lastReq.SessionID)
	assert.Equal(t, int64(9), svc.lastReq.Actor.ID)
	assert.Equal(t, "198.51.100.4", svc.lastReq.ClientIP)
}

func TestExport_FaultStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"method", faults.New(faults.KindMethodNotAllowed, "invalid request method"),
			http.StatusMethodNotAllowed, "Invalid request method"},
		{"forbidden", faults.New(faults.KindForbidden, "security check failed"),
			http.StatusForbidden, "You do not have permission to perform this action"},
		{"rate limited", faults.New(faults.KindTooManyRequests, "too many requests"),
			http.StatusTooManyRequests, "Too many requests. Please wait a moment before trying again."},
		{"bad id", faults.New(faults.KindInvalidArgument, "invalid order id"),
			http.StatusBadRequest, "Invalid order ID"},
		{"not found", faults.New(faults.KindNotFound, "order not found"),
			http.StatusNotFound, "Order not found"},
		{"render", faults.New(faults.KindRender, "pdf generation failed"),
			http.StatusInternalServerError, "An error occurred while generating the PDF. Please try again."},
		{"internal", faults.New(faults.KindInternal, "order lookup failed"),
			http.StatusInternalServerError, "An error occurred while generating the PDF. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{err: tt.err}

			w := serve(svc, exportRequest(t, url.Values{"order_id": {"42"}}))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(w.Body.String()))
			assert.NotContains(t, w.Body.String(), "lookup", "internal detail must not leak")
		})
	}
}

func TestExport_UnclassifiedErrorIsInternal(t *testing.T) {
	svc := &serviceMock{err: context.DeadlineExceeded}

	w := serve(svc, exportRequest(t, url.Values{"order_id": {"42"}}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExport_EmptyFormStillReachesService(t *testing.T) {
	svc := &serviceMock{err: faults.New(faults.KindForbidden, "security check failed")}

	r := httptest.NewRequest(http.MethodGet, "/api/orders/export", nil)
	r.RemoteAddr = "203.0.113.7:51234"
	w := serve(svc, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.MethodGet, svc.lastReq.Method)
	assert.Empty(t, svc.lastReq.RawOrderID)
	assert.Empty(t, svc.lastReq.Nonce)
}
