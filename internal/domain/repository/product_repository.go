package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// ListBelowReorderPoint productos activos con current_stock <= reorder_point.
	ListBelowReorderPoint(ctx context.Context) ([]*entity.Product, error)
}
