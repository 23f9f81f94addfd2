package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto al crear un producto sin parámetros de reabastecimiento.
const (
	DefaultReorderPoint = 10
	DefaultSafetyStock  = 5
	DefaultLeadTimeDays = 7
)

// Product representa un SKU con su stock actual y sus parámetros de reabastecimiento.
// CurrentStock solo cambia vía movimientos (ver inventory.RegisterMovementUseCase).
type Product struct {
	ID              string
	SKU             string // único
	Name            string
	Description     string
	Category        string
	UnitOfMeasure   string
	SupplierName    string
	SupplierContact string
	SupplierEmail   string
	CurrentStock    decimal.Decimal // nunca negativo
	ReorderPoint    decimal.Decimal
	SafetyStock     decimal.Decimal
	LeadTimeDays    int // >= 1
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBelowReorderPoint indica si el stock actual está en o por debajo del punto de reorden.
func (p *Product) IsBelowReorderPoint() bool {
	return p.CurrentStock.LessThanOrEqual(p.ReorderPoint)
}
