package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/spf13/viper"

	"github.com/hrrarya/order-pdf-export/internal/dal/rabbitmq"
	"github.com/hrrarya/order-pdf-export/internal/metrics"
	auditmodel "github.com/hrrarya/order-pdf-export/internal/service/models/audit"
)

// AuditRabbitMQRepository publishes audit events to the external
// observability channel. Publishing is best effort: every event is also
// written to the local structured log, and a circuit breaker keeps a
// down broker from stalling exports.
type AuditRabbitMQRepository struct {
	client  *rabbitmq.Client
	queue   string
	breaker *gobreaker.CircuitBreaker
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client) *AuditRabbitMQRepository {
	queueName := viper.GetString("rabbitmq.audit_queue")
	if queueName == "" {
		queueName = "orders.pdf_export.audit"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "audit-publish",
		Interval: 15 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Audit publish breaker state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &AuditRabbitMQRepository{
		client:  client,
		queue:   queue.Name,
		breaker: breaker,
	}
}

// Record logs the event locally and publishes it to the broker. A
// publish failure is counted but never returned as a hard error; the
// local log line is the audit trail of record in that case.
func (r *AuditRabbitMQRepository) Record(_ context.Context, event auditmodel.Event) error {
	slog.Info("Security event",
		"event", string(event.Kind),
		"actor_id", event.ActorID,
		"client_ip", event.ClientIP,
		"details", event.Details,
	)

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.PublishJSON(r.queue, body)
	})
	if err != nil {
		metrics.AuditPublishFailures.Inc()
		slog.Error("Audit publish failed", "event", string(event.Kind), "error", err)
	}

	return nil
}
