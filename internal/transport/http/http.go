package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/hrrarya/order-pdf-export/internal/security/identity"
	"github.com/hrrarya/order-pdf-export/internal/security/nonce"
	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
	"github.com/hrrarya/order-pdf-export/internal/service/services/exportsvc"
	exportorder "github.com/hrrarya/order-pdf-export/internal/transport/http/export_order"
	issuenonce "github.com/hrrarya/order-pdf-export/internal/transport/http/issue_nonce"
	listorders "github.com/hrrarya/order-pdf-export/internal/transport/http/list_orders"
	"github.com/hrrarya/order-pdf-export/pkg/http/middleware/trace"
	"github.com/hrrarya/order-pdf-export/pkg/logger"
)

type service interface {
	Export(ctx context.Context, req exportsvc.ExportRequest) (*exportsvc.ExportResult, error)
	ListOrders(ctx context.Context, a actor.Actor, q order.QueryOrdersModel) ([]order.Snapshot, int64, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	nonces  *nonce.Service
}

func NewHTTPTransport(service service, nonces *nonce.Service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		nonces:  nonces,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
// The export trigger is bound for every method so the orchestrator can
// reject non-POST requests itself and audit them.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.listOrders)
		r.HandleFunc("/orders/export", h.exportOrder)
		r.Get("/orders/export/nonce", h.issueNonce)
	})
	h.router.Handle("/metrics", promhttp.Handler())
}

func (h *HTTPTransport) exportOrder(w http.ResponseWriter, r *http.Request) {
	exportorder.Export(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) issueNonce(w http.ResponseWriter, r *http.Request) {
	issuenonce.IssueNonce(w, r, h.nonces)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(identity.Middleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
