package http_test

import (
	"context"
	"fmt"
	"time"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/inventory"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

var fixedNow = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

// ─── Products ────────────────────────────────────────────────────────────────

type fakeProducts struct {
	bySKU map[string]*dto.ProductResponse
	byID  map[string]*dto.ProductResponse
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{bySKU: map[string]*dto.ProductResponse{}, byID: map[string]*dto.ProductResponse{}}
}

func (f *fakeProducts) Create(_ context.Context, _ string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, ok := f.bySKU[in.SKU]; ok {
		return nil, domain.ErrDuplicate
	}
	p := &dto.ProductResponse{ID: fmt.Sprintf("p-%d", len(f.byID)+1), SKU: in.SKU, Name: in.Name, CurrentStock: in.InitialStock}
	f.bySKU[in.SKU] = p
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*dto.ProductResponse, error) {
	return f.byID[id], nil
}

func (f *fakeProducts) Update(_ context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	return p, nil
}

func (f *fakeProducts) List(_ context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	out := &dto.ProductListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, p := range f.byID {
		out.Items = append(out.Items, *p)
	}
	return out, nil
}

// ─── Movements ───────────────────────────────────────────────────────────────

type fakeMovements struct {
	err      error
	last     inventory.MovementInputDTO
	lastList dto.MovementListRequest
	stored   map[string]*dto.MovementResponse
}

func newFakeMovements() *fakeMovements {
	return &fakeMovements{stored: map[string]*dto.MovementResponse{}}
}

func (f *fakeMovements) RegisterMovement(_ context.Context, in inventory.MovementInputDTO) (*entity.StockMovement, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &entity.StockMovement{
		ID:        "m-1",
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		CreatedAt: fixedNow,
		CreatedBy: in.UserID,
	}, nil
}

func (f *fakeMovements) List(_ context.Context, req dto.MovementListRequest) (*dto.MovementListResponse, error) {
	f.lastList = req
	if req.Type != "" && !entity.IsValidMovementType(req.Type) {
		return nil, fmt.Errorf("%w: tipo", domain.ErrInvalidInput)
	}
	return &dto.MovementListResponse{Items: []dto.MovementResponse{}}, nil
}

func (f *fakeMovements) Get(_ context.Context, id string) (*dto.MovementResponse, error) {
	m, ok := f.stored[id]
	if !ok {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

func (f *fakeMovements) Delete(_ context.Context, id string) error {
	if _, ok := f.stored[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.stored, id)
	return nil
}

// ─── Predictions ─────────────────────────────────────────────────────────────

type fakePredictions struct {
	calcResp  *dto.PredictionResponse
	calcErr   error
	lastDays  int
	report    []byte
	sweepSent int
}

func (f *fakePredictions) Calculate(_ context.Context, productID string, days int) (*dto.PredictionResponse, error) {
	f.lastDays = days
	if f.calcResp == nil && f.calcErr == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return f.calcResp, f.calcErr
}

func (f *fakePredictions) CalculateAll(_ context.Context, days int) *dto.BatchPredictionResponse {
	f.lastDays = days
	return &dto.BatchPredictionResponse{Succeeded: 3, Failed: 1, AlertsEmitted: 2, Predictions: []dto.ForecastResponse{}}
}

func (f *fakePredictions) Forecast(_ context.Context, productID string, days int) (*dto.ForecastResponse, error) {
	f.lastDays = days
	return &dto.ForecastResponse{ProductID: productID, WindowDays: days}, nil
}

func (f *fakePredictions) List(context.Context, dto.PageRequest) (*dto.ForecastListResponse, error) {
	return &dto.ForecastListResponse{Items: []dto.ForecastResponse{}}, nil
}

func (f *fakePredictions) ListByProduct(_ context.Context, productID string, _ dto.PageRequest) (*dto.ForecastListResponse, error) {
	return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
}

func (f *fakePredictions) ReorderReport(context.Context) ([]byte, error) {
	return f.report, nil
}

func (f *fakePredictions) SweepLowStock(context.Context) (int, error) {
	return f.sweepSent, nil
}

// ─── Alerts ──────────────────────────────────────────────────────────────────

type fakeAlerts struct {
	byID       map[string]*entity.Alert
	lastFilter repository.AlertFilter
}

func newFakeAlerts(alerts ...*entity.Alert) *fakeAlerts {
	f := &fakeAlerts{byID: map[string]*entity.Alert{}}
	for _, a := range alerts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAlerts) List(_ context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	f.lastFilter = filter
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: estado", domain.ErrInvalidInput)
	}
	var out []*entity.Alert
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAlerts) UpdateStatus(_ context.Context, id string, status entity.AlertStatus) (*entity.Alert, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	if !a.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}
	a.Status = status
	return a, nil
}

func (f *fakeAlerts) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAlerts) CreateSystemAlert(_ context.Context, productID, message string) (*entity.Alert, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: mensaje requerido", domain.ErrInvalidInput)
	}
	a := &entity.Alert{ID: "sys-1", ProductID: productID, Type: entity.AlertTypeSystem, Message: message, Status: entity.AlertStatusNew}
	f.byID[a.ID] = a
	return a, nil
}
