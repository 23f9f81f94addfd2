package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/config"
)

// DefaultAlertTopic tópico cuando no se configura KAFKA_ALERT_TOPIC.
const DefaultAlertTopic = "inventory.alerts"

// MessageWriter subconjunto de kafka.Writer usado por el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AlertPublisher publica alertas creadas como AlertCreatedEvent en JSON.
type AlertPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

// NewAlertPublisher crea el writer de Kafka para el tópico de alertas.
func NewAlertPublisher(cfg config.EventsConfig) *AlertPublisher {
	topic := cfg.AlertTopic
	if topic == "" {
		topic = DefaultAlertTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return NewAlertPublisherWithWriter(writer)
}

// NewAlertPublisherWithWriter permite inyectar otro writer (tests).
func NewAlertPublisherWithWriter(w MessageWriter) *AlertPublisher {
	return &AlertPublisher{writer: w, now: time.Now}
}

// PublishAlert implementa alerting.Publisher.
func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *entity.Alert) error {
	event := NewAlertCreatedEvent(alert, p.now())
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento de alerta: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(partitionKey(alert)),
		Value: payload,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar alerta en kafka: %w", err)
	}
	log.Debug().Str("alert_id", alert.ID).Str("event_id", event.EventID).Msg("events: alerta publicada")
	return nil
}

// Close libera el writer.
func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher se usa cuando no hay brokers configurados.
type NoopPublisher struct{}

// PublishAlert no hace nada.
func (NoopPublisher) PublishAlert(context.Context, *entity.Alert) error { return nil }

// Close no hace nada.
func (NoopPublisher) Close() error { return nil }
