package alerting

import (
	"fmt"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ValidateTransition verifica el cambio de estado new → read → addressed.
// Devuelve ErrInvalidInput si el estado destino no existe y ErrInvalidTransition si el salto no está permitido.
func ValidateTransition(from, to entity.AlertStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}
