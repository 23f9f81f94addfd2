package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PredictStockoutDate proyecta la fecha (UTC, sin hora) en que el stock llega a cero:
// hoy + floor(stock / promedio). Con promedio 0 no hay fecha.
func PredictStockoutDate(currentStock, averageDaily decimal.Decimal, now time.Time) *time.Time {
	if !averageDaily.IsPositive() {
		return nil
	}
	days := currentStock.Div(averageDaily).Floor().IntPart()
	if days < 0 {
		days = 0
	}
	date := utcDay(now).AddDate(0, 0, int(days))
	return &date
}

// DaysUntil días restantes hasta date redondeados hacia arriba (nunca negativo).
func DaysUntil(date, now time.Time) int {
	d := date.Sub(now).Hours() / 24
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d))
}
