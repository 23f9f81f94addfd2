package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// StockAfter calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// Una salida mayor al stock disponible devuelve ErrInsufficientStock; el stock nunca queda negativo.
func StockAfter(current decimal.Decimal, movementType string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return current, domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeIn:
		return current.Add(quantity), nil
	case entity.MovementTypeOut:
		if current.LessThan(quantity) {
			return current, domain.ErrInsufficientStock
		}
		return current.Sub(quantity), nil
	}
	return current, domain.ErrInvalidInput
}
