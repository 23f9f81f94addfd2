// Package forecast contiene los algoritmos puros del motor de pronóstico: consumo promedio,
// tendencia, fecha de quiebre de stock y cantidad sugerida de reorden.
// No accede a persistencia; recibe los movimientos ya consultados.
package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// DefaultWindowDays ventana por defecto en días.
const DefaultWindowDays = 30

// ValidateWindow exige una ventana positiva.
func ValidateWindow(windowDays int) error {
	if windowDays <= 0 {
		return fmt.Errorf("%w: la ventana debe ser mayor que 0 días (recibido %d)", domain.ErrInvalidInput, windowDays)
	}
	return nil
}

// WindowStart inicio de la ventana: now - windowDays.
func WindowStart(now time.Time, windowDays int) time.Time {
	return now.AddDate(0, 0, -windowDays)
}

// TotalOutbound suma las cantidades de las salidas; ignora entradas.
func TotalOutbound(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m == nil || !m.IsOutbound() {
			continue
		}
		total = total.Add(m.Quantity)
	}
	return total
}

// AverageDailyConsumption total de salidas / windowDays, redondeado a 2 decimales.
// El denominador es la ventana completa, no los días con actividad.
func AverageDailyConsumption(movements []*entity.StockMovement, windowDays int) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}
	total := TotalOutbound(movements)
	if total.IsZero() {
		return decimal.Zero.Round(2)
	}
	return total.Div(decimal.NewFromInt(int64(windowDays))).Round(2)
}
