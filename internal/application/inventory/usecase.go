package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/inventory"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

const defaultMaxAttempts = 3

// RegisterMovementUseCase registra movimientos de stock de forma transaccional con bloqueo de
// fila del producto (SELECT FOR UPDATE) y Commit/Rollback. El stock nunca queda negativo y
// cada movimiento se aplica exactamente una vez.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	invalidator ForecastInvalidator
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. invalidator puede ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, invalidator ForecastInvalidator) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		invalidator: invalidator,
		maxAttempts: defaultMaxAttempts,
		backoff:     20 * time.Millisecond,
		now:         time.Now,
	}
}

// WithRetry ajusta reintentos ante conflictos de concurrencia (tests).
func (uc *RegisterMovementUseCase) WithRetry(maxAttempts int, backoff time.Duration) *RegisterMovementUseCase {
	if maxAttempts > 0 {
		uc.maxAttempts = maxAttempts
	}
	uc.backoff = backoff
	return uc
}

// MovementInputDTO entrada para registrar un movimiento.
type MovementInputDTO struct {
	UserID            string
	ProductID         string
	Type              string
	Quantity          decimal.Decimal
	Reason            string
	Notes             string
	DocumentReference string
}

func (in *MovementInputDTO) validate() error {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.ProductID == "" {
		return fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	if !entity.IsValidMovementType(in.Type) {
		return fmt.Errorf("%w: tipo %q (in | out)", domain.ErrInvalidInput, in.Type)
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.Reason == "" {
		in.Reason = entity.ReasonOther
	}
	if !entity.IsValidReason(in.Reason) {
		return fmt.Errorf("%w: motivo %q", domain.ErrInvalidInput, in.Reason)
	}
	return nil
}

// RegisterMovement inicia una transacción, bloquea el producto, valida stock suficiente en
// salidas, actualiza el stock y agrega el movimiento al log. Ante conflicto de concurrencia
// reintenta hasta maxAttempts y luego devuelve ErrConcurrencyConflict.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		Type:              input.Type,
		Quantity:          input.Quantity,
		Reason:            input.Reason,
		Notes:             input.Notes,
		DocumentReference: input.DocumentReference,
		CreatedBy:         input.UserID,
	}

	var err error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		mov.CreatedAt = uc.now()
		err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
			return uc.apply(ctx, movRepo, productRepo, mov)
		})
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("product_id", mov.ProductID).Msg("inventory: conflicto al registrar movimiento, reintentando")
		if attempt < uc.maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.backoff * time.Duration(attempt)):
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if uc.invalidator != nil {
		if ierr := uc.invalidator.InvalidateProduct(ctx, mov.ProductID); ierr != nil {
			log.Warn().Err(ierr).Str("product_id", mov.ProductID).Msg("inventory: no se pudo invalidar la cache de pronósticos")
		}
	}
	return mov, nil
}

// apply bloquea la fila del producto (GetForUpdate), calcula el nuevo stock y guarda el movimiento.
func (uc *RegisterMovementUseCase) apply(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	mov *entity.StockMovement,
) error {
	product, err := productRepo.GetForUpdate(ctx, mov.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, mov.ProductID)
	}
	newStock, err := inventory.StockAfter(product.CurrentStock, mov.Type, mov.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return fmt.Errorf("%w: disponible %s, solicitado %s", err, product.CurrentStock.String(), mov.Quantity.String())
		}
		return err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
		return err
	}
	return movRepo.Create(ctx, mov)
}
