package alerting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appalerting "github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/alerting"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAlertRepo struct {
	mu        sync.Mutex
	alerts    []*entity.Alert
	createErr map[entity.AlertType]error
	existsErr error
	// beforeUpdate simula un cambio concurrente entre la lectura y la escritura.
	beforeUpdate func()
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{createErr: map[entity.AlertType]error{}}
}

func (r *fakeAlertRepo) Create(_ context.Context, a *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr[a.Type]; err != nil {
		return err
	}
	cp := *a
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAlertRepo) List(_ context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Alert
	for _, a := range r.alerts {
		if (f.Status == "" || a.Status == f.Status) && (f.Type == "" || a.Type == f.Type) &&
			(f.ProductID == "" || a.ProductID == f.ProductID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) UpdateStatus(_ context.Context, id string, from, to entity.AlertStatus, at time.Time) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			if a.Status != from {
				return domain.ErrInvalidTransition
			}
			a.Status = to
			a.UpdatedAt = at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) setStatus(id string, status entity.AlertStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			a.Status = status
		}
	}
}

func (r *fakeAlertRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.alerts {
		if a.ID == id {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) ExistsActiveSince(_ context.Context, productID string, t entity.AlertType, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, a := range r.alerts {
		if a.ProductID == productID && a.Type == t && a.Status.IsActive() && !a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) seed(a *entity.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

type fakePublisher struct {
	published []*entity.Alert
	err       error
}

func (p *fakePublisher) PublishAlert(_ context.Context, a *entity.Alert) error {
	p.published = append(p.published, a)
	return p.err
}

// blockingPublisher simula brokers inalcanzables: espera hasta que se cancele el contexto.
type blockingPublisher struct{ calls int }

func (p *blockingPublisher) PublishAlert(ctx context.Context, _ *entity.Alert) error {
	p.calls++
	<-ctx.Done()
	return ctx.Err()
}

type countingRecorder struct {
	emitted, suppressed, failed int
}

func (c *countingRecorder) AlertEmitted(entity.AlertType)    { c.emitted++ }
func (c *countingRecorder) AlertSuppressed(entity.AlertType) { c.suppressed++ }
func (c *countingRecorder) AlertFailed(entity.AlertType)     { c.failed++ }

var testNow = time.Date(2024, 7, 10, 8, 0, 0, 0, time.UTC)

func lowProduct() *entity.Product {
	return &entity.Product{
		ID:           "p-1",
		SKU:          "CAF-500",
		Name:         "Café 500g",
		CurrentStock: decimal.NewFromInt(20),
		ReorderPoint: decimal.NewFromInt(25),
		SafetyStock:  decimal.NewFromInt(5),
		LeadTimeDays: 3,
		IsActive:     true,
	}
}

func soonStockout() *entity.ForecastResult {
	date := time.Date(2024, 7, 13, 0, 0, 0, 0, time.UTC)
	return &entity.ForecastResult{ProductID: "p-1", PredictedStockoutDate: &date, SuggestedReorderQuantity: 17}
}

func newService(repo *fakeAlertRepo, opts ...appalerting.Option) *appalerting.Service {
	opts = append([]appalerting.Option{appalerting.WithClock(func() time.Time { return testNow })}, opts...)
	return appalerting.NewService(repo, opts...)
}

// ──────────────────────────────────────────────────────────────────────────────
// EvaluateAlerts
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluateAlerts_EmiteAmbasReglas(t *testing.T) {
	repo := newFakeAlertRepo()
	pub := &fakePublisher{}
	rec := &countingRecorder{}
	svc := newService(repo, appalerting.WithPublisher(pub), appalerting.WithRecorder(rec))

	created := svc.EvaluateAlerts(context.Background(), lowProduct(), soonStockout())
	require.Len(t, created, 2)
	assert.Equal(t, entity.AlertTypeLowStock, created[0].Type)
	assert.Equal(t, entity.AlertStatusNew, created[0].Status)
	assert.Contains(t, created[0].Message, "20")
	assert.Contains(t, created[0].Message, "25")
	assert.Equal(t, entity.AlertTypePredictedStockout, created[1].Type)
	assert.Contains(t, created[1].Message, "3 días")
	assert.Contains(t, created[1].Message, "17")
	assert.Len(t, pub.published, 2)
	assert.Equal(t, 2, rec.emitted)
}

func TestEvaluateAlerts_DeduplicaLowStockDentroDe24h(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{
		ID: "a-old", ProductID: "p-1", Type: entity.AlertTypeLowStock,
		Status: entity.AlertStatusNew, CreatedAt: testNow.Add(-1 * time.Hour),
	})
	rec := &countingRecorder{}
	svc := newService(repo, appalerting.WithRecorder(rec))

	created := svc.EvaluateAlerts(context.Background(), lowProduct(), nil)
	assert.Empty(t, created, "una alerta low_stock de hace 1h suprime la nueva")
	assert.Equal(t, 1, rec.suppressed)
}

func TestEvaluateAlerts_EmiteLowStockPasadas24h(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{
		ID: "a-old", ProductID: "p-1", Type: entity.AlertTypeLowStock,
		Status: entity.AlertStatusRead, CreatedAt: testNow.Add(-25 * time.Hour),
	})
	svc := newService(repo)

	created := svc.EvaluateAlerts(context.Background(), lowProduct(), nil)
	require.Len(t, created, 1)
	assert.Equal(t, entity.AlertTypeLowStock, created[0].Type)
}

func TestEvaluateAlerts_AlertaAtendidaNoDeduplica(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{
		ID: "a-old", ProductID: "p-1", Type: entity.AlertTypeLowStock,
		Status: entity.AlertStatusAddressed, CreatedAt: testNow.Add(-1 * time.Hour),
	})
	svc := newService(repo)

	assert.Len(t, svc.EvaluateAlerts(context.Background(), lowProduct(), nil), 1)
}

func TestEvaluateAlerts_PredictedStockoutNoSeDeduplica(t *testing.T) {
	repo := newFakeAlertRepo()
	product := lowProduct()
	product.CurrentStock = decimal.NewFromInt(100)
	svc := newService(repo)

	first := svc.EvaluateAlerts(context.Background(), product, soonStockout())
	second := svc.EvaluateAlerts(context.Background(), product, soonStockout())
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestEvaluateAlerts_FalloDeUnaReglaNoAfectaLaOtra(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.createErr[entity.AlertTypeLowStock] = errors.New("insert falló")
	rec := &countingRecorder{}
	svc := newService(repo, appalerting.WithRecorder(rec))

	created := svc.EvaluateAlerts(context.Background(), lowProduct(), soonStockout())
	require.Len(t, created, 1)
	assert.Equal(t, entity.AlertTypePredictedStockout, created[0].Type)
	assert.Equal(t, 1, rec.failed)
}

func TestEvaluateAlerts_FalloDePublicacionNoDescartaLaAlerta(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := newService(repo, appalerting.WithPublisher(&fakePublisher{err: errors.New("broker caído")}))

	created := svc.EvaluateAlerts(context.Background(), lowProduct(), nil)
	assert.Len(t, created, 1)
}

func TestCheckLowStock(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := newService(repo)

	assert.NotNil(t, svc.CheckLowStock(context.Background(), lowProduct()))
	assert.Nil(t, svc.CheckLowStock(context.Background(), lowProduct()), "segunda pasada deduplicada")

	ok := lowProduct()
	ok.CurrentStock = decimal.NewFromInt(500)
	assert.Nil(t, svc.CheckLowStock(context.Background(), ok))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_Transiciones(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{ID: "a1", ProductID: "p-1", Type: entity.AlertTypeSystem, Status: entity.AlertStatusNew, CreatedAt: testNow})
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "a1", entity.AlertStatusAddressed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se puede saltar de new a addressed")

	a, err := svc.UpdateStatus(ctx, "a1", entity.AlertStatusRead)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusRead, a.Status)

	a, err = svc.UpdateStatus(ctx, "a1", entity.AlertStatusRead)
	require.NoError(t, err, "repetir el estado es no-op")
	assert.Equal(t, entity.AlertStatusRead, a.Status)

	a, err = svc.UpdateStatus(ctx, "a1", entity.AlertStatusAddressed)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAddressed, a.Status)

	_, err = svc.UpdateStatus(ctx, "a1", entity.AlertStatusNew)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "nope", entity.AlertStatusRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_CambioConcurrenteNoRetrocede(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{ID: "a1", ProductID: "p-1", Type: entity.AlertTypeSystem, Status: entity.AlertStatusNew, CreatedAt: testNow})
	// Otra petición lleva la alerta a addressed después de nuestra lectura.
	repo.beforeUpdate = func() {
		repo.beforeUpdate = nil
		repo.setStatus("a1", entity.AlertStatusAddressed)
	}
	svc := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), "a1", entity.AlertStatusRead)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAddressed, stored.Status)
}

func TestList_ValidaFiltros(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.seed(&entity.Alert{ID: "a1", ProductID: "p-1", Type: entity.AlertTypeLowStock, Status: entity.AlertStatusNew})
	repo.seed(&entity.Alert{ID: "a2", ProductID: "p-2", Type: entity.AlertTypeSystem, Status: entity.AlertStatusRead})
	svc := newService(repo)

	list, err := svc.List(context.Background(), repository.AlertFilter{Status: entity.AlertStatusNew})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)

	_, err = svc.List(context.Background(), repository.AlertFilter{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.List(context.Background(), repository.AlertFilter{Type: "weird"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSystemAlert(t *testing.T) {
	svc := newService(newFakeAlertRepo())
	a, err := svc.CreateSystemAlert(context.Background(), "p-1", "recálculo nocturno falló")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertTypeSystem, a.Type)

	_, err = svc.CreateSystemAlert(context.Background(), "p-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyAlerts_PublicacionAcotadaPorTimeout(t *testing.T) {
	repo := newFakeAlertRepo()
	pub := &blockingPublisher{}
	svc := newService(repo, appalerting.WithPublisher(pub), appalerting.WithPublishTimeout(20*time.Millisecond))

	start := time.Now()
	created := svc.EvaluateAlerts(context.Background(), lowProduct(), soonStockout())
	elapsed := time.Since(start)

	require.Len(t, created, 2, "las alertas quedan registradas aunque la publicación falle")
	assert.Equal(t, 2, pub.calls)
	assert.Less(t, elapsed, 2*time.Second)
}
