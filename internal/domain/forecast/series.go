package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// DailyTotal total de salidas de un día calendario (UTC).
type DailyTotal struct {
	Day      time.Time
	Quantity decimal.Decimal
}

// Point punto (x, y) de la serie usada en la regresión.
type Point struct {
	X float64
	Y float64
}

// SeriesStrategy define cómo se construye la serie (x, y) a partir de los totales diarios.
type SeriesStrategy string

const (
	// ActivityOnlyRegression x = índice secuencial de los días con al menos una salida;
	// los días sin movimiento se omiten. Es la estrategia por defecto.
	ActivityOnlyRegression SeriesStrategy = "activityOnlyRegression"
	// ZeroFilledRegression x = índice de cada día calendario de la ventana; los días sin
	// movimiento cuentan con y = 0.
	ZeroFilledRegression SeriesStrategy = "zeroFilledRegression"
)

// ParseSeriesStrategy acepta el nombre de la estrategia; vacío o desconocido usa ActivityOnlyRegression.
func ParseSeriesStrategy(name string) SeriesStrategy {
	switch SeriesStrategy(name) {
	case ZeroFilledRegression:
		return ZeroFilledRegression
	}
	return ActivityOnlyRegression
}

// DailyTotals agrupa las salidas por día calendario UTC en orden cronológico.
func DailyTotals(movements []*entity.StockMovement) []DailyTotal {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, m := range movements {
		if m == nil || !m.IsOutbound() {
			continue
		}
		day := utcDay(m.CreatedAt)
		byDay[day] = byDay[day].Add(m.Quantity)
	}
	out := make([]DailyTotal, 0, len(byDay))
	for day, qty := range byDay {
		out = append(out, DailyTotal{Day: day, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// Points construye la serie según la estrategia. from y to delimitan la ventana y solo
// se usan en ZeroFilledRegression.
func (s SeriesStrategy) Points(daily []DailyTotal, from, to time.Time) []Point {
	if s == ZeroFilledRegression {
		return zeroFilledPoints(daily, from, to)
	}
	points := make([]Point, 0, len(daily))
	for i, d := range daily {
		points = append(points, Point{X: float64(i), Y: d.Quantity.InexactFloat64()})
	}
	return points
}

func zeroFilledPoints(daily []DailyTotal, from, to time.Time) []Point {
	byDay := make(map[time.Time]decimal.Decimal, len(daily))
	for _, d := range daily {
		byDay[d.Day] = d.Quantity
	}
	start, end := utcDay(from), utcDay(to)
	var points []Point
	x := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		points = append(points, Point{X: float64(x), Y: byDay[day].InexactFloat64()})
		x++
	}
	return points
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
