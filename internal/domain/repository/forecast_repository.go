package repository

import (
	"context"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ForecastRepository persiste el historial de pronósticos (tabla predictions).
type ForecastRepository interface {
	Create(ctx context.Context, result *entity.ForecastResult) error
	// List devuelve los pronósticos más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.ForecastResult, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.ForecastResult, error)
	// LatestPerProduct devuelve el último pronóstico de cada producto.
	LatestPerProduct(ctx context.Context) ([]*entity.ForecastResult, error)
}
