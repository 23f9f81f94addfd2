package prediction_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	mu    sync.Mutex
	items map[string]*entity.Product
	order []string
}

func newMemProducts(ps ...*entity.Product) *memProducts {
	m := &memProducts{items: map[string]*entity.Product{}}
	for _, p := range ps {
		m.items[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return m.GetByID(ctx, id)
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].CurrentStock = stock
	return nil
}

func (m *memProducts) List(ctx context.Context, _, _ int) ([]*entity.Product, error) {
	return m.ListActive(ctx)
}

func (m *memProducts) ListActive(_ context.Context) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, id := range m.order {
		if p := m.items[id]; p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProducts) ListBelowReorderPoint(ctx context.Context) ([]*entity.Product, error) {
	all, _ := m.ListActive(ctx)
	var out []*entity.Product
	for _, p := range all {
		if p.IsBelowReorderPoint() {
			out = append(out, p)
		}
	}
	return out, nil
}

type memMovements struct {
	items []*entity.StockMovement
}

func (m *memMovements) ListOutboundSince(_ context.Context, productID string, since time.Time) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, mv := range m.items {
		if mv.ProductID == productID && mv.IsOutbound() && !mv.CreatedAt.Before(since) {
			out = append(out, mv)
		}
	}
	return out, nil
}

type memForecasts struct {
	mu        sync.Mutex
	items     []*entity.ForecastResult
	createErr error
}

func (m *memForecasts) Create(_ context.Context, r *entity.ForecastResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.items = append(m.items, r)
	return nil
}

func (m *memForecasts) List(_ context.Context, limit, offset int) ([]*entity.ForecastResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]*entity.ForecastResult(nil), m.items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ComputedAt.After(sorted[j].ComputedAt) })
	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *memForecasts) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.ForecastResult, error) {
	all, _ := m.List(ctx, len(m.items), 0)
	var out []*entity.ForecastResult
	for _, r := range all {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memForecasts) LatestPerProduct(ctx context.Context) ([]*entity.ForecastResult, error) {
	all, _ := m.List(ctx, len(m.items), 0)
	seen := map[string]bool{}
	var out []*entity.ForecastResult
	for _, r := range all {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			out = append(out, r)
		}
	}
	return out, nil
}

type memAlerts struct {
	mu    sync.Mutex
	items []*entity.Alert
}

func (m *memAlerts) Create(_ context.Context, a *entity.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return nil
}

func (m *memAlerts) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAlerts) List(_ context.Context, _ repository.AlertFilter) ([]*entity.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Alert(nil), m.items...), nil
}

func (m *memAlerts) UpdateStatus(context.Context, string, entity.AlertStatus, entity.AlertStatus, time.Time) error {
	return errors.New("no usado")
}

func (m *memAlerts) Delete(context.Context, string) error { return errors.New("no usado") }

func (m *memAlerts) ExistsActiveSince(_ context.Context, productID string, t entity.AlertType, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ProductID == productID && a.Type == t && a.Status.IsActive() && !a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAlerts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memCache struct {
	mu    sync.Mutex
	items map[string]*entity.ForecastResult
	gets  int
}

func newMemCache() *memCache { return &memCache{items: map[string]*entity.ForecastResult{}} }

func cacheKey(productID string, window int) string {
	return productID + ":" + decimal.NewFromInt(int64(window)).String()
}

func (c *memCache) Get(_ context.Context, productID string, window int) (*entity.ForecastResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	r, ok := c.items[cacheKey(productID, window)]
	return r, ok, nil
}

func (c *memCache) Set(_ context.Context, r *entity.ForecastResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cacheKey(r.ProductID, r.WindowDays)] = r
	return nil
}

func (c *memCache) InvalidateProduct(context.Context, string) error { return nil }
