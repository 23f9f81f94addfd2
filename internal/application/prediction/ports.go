package prediction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ForecastCache cache de pronósticos calculados sin persistir (ver infrastructure/cache).
type ForecastCache interface {
	Get(ctx context.Context, productID string, windowDays int) (*entity.ForecastResult, bool, error)
	Set(ctx context.Context, result *entity.ForecastResult) error
	InvalidateProduct(ctx context.Context, productID string) error
}

// ReorderReportLine fila del reporte de reabastecimiento.
type ReorderReportLine struct {
	SKU                      string
	Name                     string
	CurrentStock             decimal.Decimal
	ReorderPoint             decimal.Decimal
	AverageDailyConsumption  decimal.Decimal
	Trend                    entity.TrendType
	PredictedStockoutDate    *time.Time
	SuggestedReorderQuantity int64
	BelowReorderPoint        bool
}

// ReorderReportGenerator genera el PDF del reporte (ver infrastructure/pdf).
type ReorderReportGenerator interface {
	GenerateReorderReport(ctx context.Context, lines []ReorderReportLine, generatedAt time.Time) ([]byte, error)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, int) (*entity.ForecastResult, bool, error) {
	return nil, false, nil
}
func (noopCache) Set(context.Context, *entity.ForecastResult) error { return nil }
func (noopCache) InvalidateProduct(context.Context, string) error    { return nil }
