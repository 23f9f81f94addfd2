// Package alerting contiene las reglas puras que deciden qué alertas proponer a partir del
// estado de un producto y su pronóstico. La deduplicación contra alertas existentes la aplica
// el servicio de aplicación.
package alerting

import (
	"fmt"
	"time"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/forecast"
)

const (
	// DefaultDedupWindow ventana de deduplicación de alertas low_stock.
	DefaultDedupWindow = 24 * time.Hour
	// DefaultStockoutHorizon horizonte para alertar un quiebre de stock pronosticado.
	DefaultStockoutHorizon = 7 * 24 * time.Hour
)

// Proposal alerta propuesta, aún no persistida.
// DedupWindow > 0 indica que debe suprimirse si existe una alerta activa del mismo tipo
// creada dentro de esa ventana.
type Proposal struct {
	ProductID   string
	Type        entity.AlertType
	Message     string
	DedupWindow time.Duration
}

// Policy parámetros de las reglas.
type Policy struct {
	DedupWindow     time.Duration
	StockoutHorizon time.Duration
}

// DefaultPolicy 24h de deduplicación y 7 días de horizonte.
func DefaultPolicy() Policy {
	return Policy{DedupWindow: DefaultDedupWindow, StockoutHorizon: DefaultStockoutHorizon}
}

// Evaluate aplica ambas reglas de forma independiente. result puede ser nil (solo stock bajo).
func (p Policy) Evaluate(product *entity.Product, result *entity.ForecastResult, now time.Time) []Proposal {
	var out []Proposal
	if prop, ok := p.LowStock(product); ok {
		out = append(out, prop)
	}
	if prop, ok := p.PredictedStockout(product, result, now); ok {
		out = append(out, prop)
	}
	return out
}

// LowStock propone low_stock si el stock actual es <= punto de reorden.
func (p Policy) LowStock(product *entity.Product) (Proposal, bool) {
	if product == nil || !product.IsBelowReorderPoint() {
		return Proposal{}, false
	}
	return Proposal{
		ProductID: product.ID,
		Type:      entity.AlertTypeLowStock,
		Message: fmt.Sprintf("%s (%s) está por debajo del punto de reorden (%s <= %s)",
			product.Name, product.SKU, product.CurrentStock.String(), product.ReorderPoint.String()),
		DedupWindow: p.DedupWindow,
	}, true
}

// PredictedStockout propone predicted_stockout si la fecha de quiebre cae dentro del horizonte.
// No se deduplica.
func (p Policy) PredictedStockout(product *entity.Product, result *entity.ForecastResult, now time.Time) (Proposal, bool) {
	if product == nil || result == nil || result.PredictedStockoutDate == nil {
		return Proposal{}, false
	}
	date := *result.PredictedStockoutDate
	if date.After(now.Add(p.StockoutHorizon)) {
		return Proposal{}, false
	}
	days := forecast.DaysUntil(date, now)
	return Proposal{
		ProductID: product.ID,
		Type:      entity.AlertTypePredictedStockout,
		Message: fmt.Sprintf("%s (%s) se quedará sin stock en %d días. Cantidad sugerida de reorden: %d",
			product.Name, product.SKU, days, result.SuggestedReorderQuantity),
	}, true
}
