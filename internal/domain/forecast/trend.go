package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

const (
	// StableSlopeThreshold |pendiente| por debajo de este valor se considera estable.
	StableSlopeThreshold = 0.05
	// maxSegmentSize tamaño máximo de los segmentos inicial y final del cambio porcentual.
	maxSegmentSize = 7
)

// LinearRegressionSlope pendiente por mínimos cuadrados; 0 con menos de 2 puntos.
func LinearRegressionSlope(points []Point) float64 {
	n := float64(len(points))
	if len(points) < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// ClassifyTrend clasifica la pendiente.
func ClassifyTrend(slope float64) entity.TrendType {
	switch {
	case math.Abs(slope) < StableSlopeThreshold:
		return entity.TrendStable
	case slope > 0:
		return entity.TrendIncreasing
	default:
		return entity.TrendDecreasing
	}
}

// PercentageChange compara el promedio de los primeros k puntos con el de los últimos k,
// con k = min(7, n/2). Con menos de 14 puntos cada segmento cubre la mitad de la serie.
// Devuelve 0 si hay menos de 2 puntos o el promedio inicial es 0. Redondeado a 2 decimales.
func PercentageChange(points []Point) decimal.Decimal {
	n := len(points)
	if n < 2 {
		return decimal.Zero
	}
	k := n / 2
	if k > maxSegmentSize {
		k = maxSegmentSize
	}
	leading := meanY(points[:k])
	trailing := meanY(points[n-k:])
	if leading == 0 {
		return decimal.Zero
	}
	pct := (trailing - leading) / leading * 100
	return decimal.NewFromFloat(pct).Round(2)
}

func meanY(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Y
	}
	return sum / float64(len(points))
}

// AnalyzeTrend agrupa las salidas por día, construye la serie con la estrategia y
// calcula pendiente, clasificación y cambio porcentual.
func AnalyzeTrend(movements []*entity.StockMovement, strategy SeriesStrategy, from, to time.Time) entity.Trend {
	points := strategy.Points(DailyTotals(movements), from, to)
	slope := LinearRegressionSlope(points)
	return entity.Trend{
		Type:             ClassifyTrend(slope),
		Slope:            slope,
		PercentageChange: PercentageChange(points),
	}
}
