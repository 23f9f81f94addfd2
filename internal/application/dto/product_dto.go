package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierDTO datos de contacto del proveedor.
type SupplierDTO struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
	Email       string `json:"email"`
}

// CreateProductRequest entrada para crear un producto. El stock inicial se registra como
// un movimiento de entrada.
type CreateProductRequest struct {
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	Supplier      SupplierDTO      `json:"supplier"`
	InitialStock  decimal.Decimal  `json:"initial_stock"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point"`
	SafetyStock   *decimal.Decimal `json:"safety_stock"`
	LeadTimeDays  *int             `json:"lead_time_days"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	Supplier      *SupplierDTO     `json:"supplier"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point"`
	SafetyStock   *decimal.Decimal `json:"safety_stock"`
	LeadTimeDays  *int             `json:"lead_time_days"`
	IsActive      *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Supplier      SupplierDTO     `json:"supplier"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	SafetyStock   decimal.Decimal `json:"safety_stock"`
	LeadTimeDays  int             `json:"lead_time_days"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
