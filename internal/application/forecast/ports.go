package forecast

import (
	"context"
	"time"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ProductReader lectura de productos que necesita el motor (subconjunto de repository.ProductRepository).
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
}

// MovementReader consulta de salidas por producto desde una fecha, en orden cronológico.
type MovementReader interface {
	ListOutboundSince(ctx context.Context, productID string, since time.Time) ([]*entity.StockMovement, error)
}

// Recorder registra métricas del motor. Ver infrastructure/metrics.
type Recorder interface {
	ObserveForecast(duration time.Duration, err error)
	ObserveBatch(succeeded, failed int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveForecast(time.Duration, error) {}
func (nopRecorder) ObserveBatch(int, int)                {}
