package http

import (
	"context"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/inventory"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// Contratos mínimos que necesitan los handlers. Los implementan los casos de uso de
// internal/application; las interfaces permiten probar los handlers con fakes.

// ProductService lo implementa *usecase.ProductUseCase.
type ProductService interface {
	Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProductResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error)
}

// MovementRegistrar lo implementa *inventory.RegisterMovementUseCase.
type MovementRegistrar interface {
	RegisterMovement(ctx context.Context, input inventory.MovementInputDTO) (*entity.StockMovement, error)
}

// MovementQueries lo implementa *inventory.MovementQueryUseCase.
type MovementQueries interface {
	List(ctx context.Context, req dto.MovementListRequest) (*dto.MovementListResponse, error)
	Get(ctx context.Context, id string) (*dto.MovementResponse, error)
	Delete(ctx context.Context, id string) error
}

// PredictionService lo implementa *prediction.UseCase.
type PredictionService interface {
	Calculate(ctx context.Context, productID string, days int) (*dto.PredictionResponse, error)
	CalculateAll(ctx context.Context, days int) *dto.BatchPredictionResponse
	Forecast(ctx context.Context, productID string, days int) (*dto.ForecastResponse, error)
	List(ctx context.Context, page dto.PageRequest) (*dto.ForecastListResponse, error)
	ListByProduct(ctx context.Context, productID string, page dto.PageRequest) (*dto.ForecastListResponse, error)
	ReorderReport(ctx context.Context) ([]byte, error)
	SweepLowStock(ctx context.Context) (int, error)
}

// AlertService lo implementa *alerting.Service.
type AlertService interface {
	List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error)
	UpdateStatus(ctx context.Context, id string, status entity.AlertStatus) (*entity.Alert, error)
	Delete(ctx context.Context, id string) error
	CreateSystemAlert(ctx context.Context, productID, message string) (*entity.Alert, error)
}
