package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/transactions.
type RegisterMovementRequest struct {
	ProductID         string          `json:"product_id"`
	Type              string          `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	Reason            string          `json:"reason"`
	Notes             string          `json:"notes"`
	DocumentReference string          `json:"document_reference"`
}

// MovementListRequest filtros de GET /api/transactions. Fechas en formato YYYY-MM-DD.
type MovementListRequest struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Type              string          `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	Reason            string          `json:"reason"`
	Notes             string          `json:"notes"`
	DocumentReference string          `json:"document_reference"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
