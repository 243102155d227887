package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/hrrarya/order-pdf-export/internal/dal/postgres"
	"github.com/hrrarya/order-pdf-export/internal/dal/rabbitmq"
	auditrepo "github.com/hrrarya/order-pdf-export/internal/dal/repositories/audit"
	orderrepo "github.com/hrrarya/order-pdf-export/internal/dal/repositories/order/postgres"
	"github.com/hrrarya/order-pdf-export/internal/otel"
	"github.com/hrrarya/order-pdf-export/internal/renderer"
	"github.com/hrrarya/order-pdf-export/internal/security/guard"
	"github.com/hrrarya/order-pdf-export/internal/security/nonce"
	"github.com/hrrarya/order-pdf-export/internal/security/ratelimit"
	"github.com/hrrarya/order-pdf-export/internal/service/services/exportsvc"
	httptransport "github.com/hrrarya/order-pdf-export/internal/transport/http"
)

// App represents the application.
type App struct {
	exportSvc      *exportsvc.ExportService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application. Every collaborator is
// constructed here and handed down explicitly; nothing is resolved from
// a global past this point.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	orderStore := orderrepo.NewPostgresOrderRepository(postgresClient)
	auditSink := auditrepo.NewAuditRabbitMQRepository(rabbitMqClient)

	nonces := nonce.NewService(
		mustNonceSecret(),
		viper.GetDuration("security.nonce.lifetime"),
	)
	limiter := ratelimit.NewLimiter(
		viper.GetInt("security.rate_limit.max_requests"),
		viper.GetDuration("security.rate_limit.window"),
	)
	accessGuard := guard.NewGuard(nonces, limiter, orderStore)

	pdfRenderer := renderer.NewPDFRenderer(renderer.NewBuilder(renderer.SiteIdentity{
		Name:           viper.GetString("store.name"),
		Description:    viper.GetString("store.description"),
		CurrencySymbol: viper.GetString("store.currency_symbol"),
	}))

	exportSvc := exportsvc.MustNewExportService(
		exportsvc.WithOrderStore(orderStore),
		exportsvc.WithGuard(accessGuard),
		exportsvc.WithRenderer(pdfRenderer),
		exportsvc.WithAuditSink(auditSink),
	)

	transport := httptransport.NewHTTPTransport(exportSvc, nonces)
	transport.RegisterRoutes()

	return &App{
		exportSvc:      exportSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

func mustNonceSecret() []byte {
	secret := os.Getenv("NONCE_SECRET")
	if secret == "" {
		panic("NONCE_SECRET is not set")
	}

	return []byte(secret)
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
