package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendType dirección de la tendencia de consumo.
type TrendType string

const (
	TrendIncreasing TrendType = "increasing"
	TrendDecreasing TrendType = "decreasing"
	TrendStable     TrendType = "stable"
)

// Trend resultado del análisis de tendencia sobre la serie diaria de salidas.
type Trend struct {
	Type             TrendType
	Slope            float64
	PercentageChange decimal.Decimal // 2 decimales, con signo
}

// ForecastResult pronóstico de un producto para una ventana. Inmutable; recalcular crea uno nuevo.
type ForecastResult struct {
	ID                       string
	ProductID                string
	WindowDays               int
	AverageDailyConsumption  decimal.Decimal // 2 decimales
	Trend                    Trend
	PredictedStockoutDate    *time.Time // nil si el consumo promedio es 0
	SuggestedReorderQuantity int64
	ComputedAt               time.Time
}
