package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendDTO tendencia de consumo.
type TrendDTO struct {
	Type             string          `json:"type"`
	Slope            float64         `json:"slope"`
	PercentageChange decimal.Decimal `json:"percentage_change"`
}

// ForecastResponse pronóstico de un producto.
type ForecastResponse struct {
	ID                       string          `json:"id"`
	ProductID                string          `json:"product_id"`
	WindowDays               int             `json:"window_days"`
	AverageDailyConsumption  decimal.Decimal `json:"average_daily_consumption"`
	Trend                    TrendDTO        `json:"trend"`
	PredictedStockoutDate    *string         `json:"predicted_stockout_date"` // YYYY-MM-DD o null
	SuggestedReorderQuantity int64           `json:"suggested_reorder_quantity"`
	ComputedAt               time.Time       `json:"computed_at"`
}

// PredictionResponse resultado de calcular y guardar un pronóstico, con las alertas emitidas.
type PredictionResponse struct {
	Forecast ForecastResponse `json:"forecast"`
	Alerts   []AlertResponse  `json:"alerts"`
}

// BatchPredictionResponse resumen del recálculo masivo.
type BatchPredictionResponse struct {
	Succeeded     int                `json:"succeeded"`
	Failed        int                `json:"failed"`
	AlertsEmitted int                `json:"alerts_emitted"`
	Predictions   []ForecastResponse `json:"predictions"`
}

// ForecastListResponse historial paginado de pronósticos.
type ForecastListResponse struct {
	Items []ForecastResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
