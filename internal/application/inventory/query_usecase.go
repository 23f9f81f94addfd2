package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// MovementQueryUseCase consultas y borrado administrativo del log de movimientos.
type MovementQueryUseCase struct {
	repo        repository.StockMovementRepository
	invalidator ForecastInvalidator
}

// NewMovementQueryUseCase construye el caso de uso. invalidator puede ser nil.
func NewMovementQueryUseCase(repo repository.StockMovementRepository, invalidator ForecastInvalidator) *MovementQueryUseCase {
	return &MovementQueryUseCase{repo: repo, invalidator: invalidator}
}

// List lista movimientos con filtros opcionales. EndDate incluye el día completo.
func (uc *MovementQueryUseCase) List(ctx context.Context, req dto.MovementListRequest) (*dto.MovementListResponse, error) {
	if req.Type != "" && !entity.IsValidMovementType(req.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, req.Type)
	}
	filter := repository.MovementFilter{ProductID: req.ProductID, Type: req.Type}
	if req.StartDate != "" {
		from, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		filter.From = &from
	}
	if req.EndDate != "" {
		to, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	page := req.PageRequest
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Get obtiene un movimiento por ID.
func (uc *MovementQueryUseCase) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	resp := dto.ToMovementResponse(m)
	return &resp, nil
}

// Delete elimina un movimiento del log. Operación administrativa: no revierte el stock.
// Invalida los pronósticos cacheados del producto porque cambia su historial.
func (uc *MovementQueryUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.invalidator != nil {
		if ierr := uc.invalidator.InvalidateProduct(ctx, m.ProductID); ierr != nil {
			log.Warn().Err(ierr).Str("product_id", m.ProductID).Msg("inventory: no se pudo invalidar la cache de pronósticos")
		}
	}
	return nil
}
