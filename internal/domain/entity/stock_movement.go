package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección del movimiento.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida (consumo)
)

// Motivos de movimiento.
const (
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonReturn     = "return"
	ReasonAdjustment = "adjustment"
	ReasonLoss       = "loss"
	ReasonOther      = "other"
)

// IsValidMovementType valida la dirección.
func IsValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// IsValidReason valida el motivo.
func IsValidReason(r string) bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonReturn, ReasonAdjustment, ReasonLoss, ReasonOther:
		return true
	}
	return false
}

// StockMovement es un registro inmutable del log de movimientos (append-only).
type StockMovement struct {
	ID                string
	ProductID         string
	Type              string          // in | out
	Quantity          decimal.Decimal // siempre positivo; el signo lo da Type
	Reason            string
	Notes             string
	DocumentReference string
	CreatedAt         time.Time
	CreatedBy         string // UserID del token, si existe
}

// IsOutbound indica si el movimiento es una salida.
func (m *StockMovement) IsOutbound() bool {
	return m.Type == MovementTypeOut
}
