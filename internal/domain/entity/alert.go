package entity

import "time"

// AlertType tipo de alerta.
type AlertType string

const (
	AlertTypeLowStock          AlertType = "low_stock"
	AlertTypePredictedStockout AlertType = "predicted_stockout"
	AlertTypeSystem            AlertType = "system"
)

// IsValid valida el tipo.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypePredictedStockout, AlertTypeSystem:
		return true
	}
	return false
}

// AlertStatus estado de la alerta. Ciclo de vida: new → read → addressed.
type AlertStatus string

const (
	AlertStatusNew       AlertStatus = "new"
	AlertStatusRead      AlertStatus = "read"
	AlertStatusAddressed AlertStatus = "addressed"
)

// IsValid valida el estado.
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusNew, AlertStatusRead, AlertStatusAddressed:
		return true
	}
	return false
}

// IsActive indica si la alerta cuenta para la deduplicación (new o read).
func (s AlertStatus) IsActive() bool {
	return s == AlertStatusNew || s == AlertStatusRead
}

// CanTransitionTo indica si el cambio de estado está permitido.
// Repetir el estado actual se permite (no-op).
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	if s == next {
		return next.IsValid()
	}
	switch s {
	case AlertStatusNew:
		return next == AlertStatusRead
	case AlertStatusRead:
		return next == AlertStatusAddressed
	}
	return false
}

// Alert notificación generada por las reglas de alertas. Solo se crea en estado new.
type Alert struct {
	ID        string
	ProductID string
	Type      AlertType
	Message   string
	Status    AlertStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
