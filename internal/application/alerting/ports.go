package alerting

import (
	"context"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// Publisher publica las alertas creadas hacia otros sistemas (ver infrastructure/events).
type Publisher interface {
	PublishAlert(ctx context.Context, alert *entity.Alert) error
}

// Recorder registra métricas de alertas.
type Recorder interface {
	AlertEmitted(alertType entity.AlertType)
	AlertSuppressed(alertType entity.AlertType)
	AlertFailed(alertType entity.AlertType)
}

type nopPublisher struct{}

func (nopPublisher) PublishAlert(context.Context, *entity.Alert) error { return nil }

type nopRecorder struct{}

func (nopRecorder) AlertEmitted(entity.AlertType)    {}
func (nopRecorder) AlertSuppressed(entity.AlertType) {}
func (nopRecorder) AlertFailed(entity.AlertType)     {}
