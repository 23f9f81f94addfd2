package inventory

import (
	"context"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el movimiento y la actualización de stock. Los conflictos de
// serialización o bloqueo se devuelven como domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ForecastInvalidator invalida pronósticos cacheados cuando cambia el historial de un producto.
type ForecastInvalidator interface {
	InvalidateProduct(ctx context.Context, productID string) error
}
