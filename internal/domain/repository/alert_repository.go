package repository

import (
	"context"
	"time"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// AlertFilter filtros opcionales para el listado de alertas.
type AlertFilter struct {
	Status    entity.AlertStatus
	Type      entity.AlertType
	ProductID string
	Limit     int
	Offset    int
}

// AlertRepository define el puerto de persistencia para Alert (DIP).
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	// UpdateStatus cambia el estado solo si el actual sigue siendo from. Devuelve ErrNotFound si
	// la alerta no existe y ErrInvalidTransition si otro cambio se adelantó.
	UpdateStatus(ctx context.Context, id string, from, to entity.AlertStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	// ExistsActiveSince indica si hay una alerta del tipo para el producto, en estado new o read,
	// creada en o después de since.
	ExistsActiveSince(ctx context.Context, productID string, alertType entity.AlertType, since time.Time) (bool, error)
}
