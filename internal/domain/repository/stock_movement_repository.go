package repository

import (
	"context"
	"time"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// MovementFilter filtros opcionales para el listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para el log de movimientos (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	Delete(ctx context.Context, id string) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// ListOutboundSince devuelve las salidas con created_at >= since en orden cronológico.
	ListOutboundSince(ctx context.Context, productID string, since time.Time) ([]*entity.StockMovement, error)
}
