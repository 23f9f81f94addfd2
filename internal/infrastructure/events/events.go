package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// Tipos de evento publicados.
const (
	EventTypeAlertCreated = "alert.created"
)

// BaseEvent campos comunes a todos los eventos.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertCreatedEvent se emite cada vez que se persiste una alerta nueva.
type AlertCreatedEvent struct {
	BaseEvent
	AlertID   string    `json:"alert_id"`
	ProductID string    `json:"product_id,omitempty"`
	AlertType string    `json:"alert_type"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlertCreatedEvent construye el evento a partir de la alerta persistida.
func NewAlertCreatedEvent(a *entity.Alert, now time.Time) *AlertCreatedEvent {
	return &AlertCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   uuid.NewString(),
			EventType: EventTypeAlertCreated,
			Timestamp: now.UTC(),
		},
		AlertID:   a.ID,
		ProductID: a.ProductID,
		AlertType: string(a.Type),
		Message:   a.Message,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

// partitionKey agrupa los eventos del mismo producto en la misma partición.
func partitionKey(a *entity.Alert) string {
	if a.ProductID != "" {
		return "product-" + a.ProductID
	}
	return "alert-" + a.ID
}
