// Package forecast orquesta el motor de pronóstico: consulta producto y salidas a través de
// puertos y aplica los algoritmos de domain/forecast. No persiste nada.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/alerting"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	domainforecast "github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/forecast"
)

const defaultBatchConcurrency = 4

// Service motor de pronóstico. Sin estado compartido; seguro para uso concurrente.
type Service struct {
	products         ProductReader
	movements        MovementReader
	strategy         domainforecast.SeriesStrategy
	policy           alerting.Policy
	batchConcurrency int
	recorder         Recorder
	now              func() time.Time
}

// Option configura el Service.
type Option func(*Service)

// WithSeriesStrategy cambia la estrategia de la serie de tendencia.
func WithSeriesStrategy(s domainforecast.SeriesStrategy) Option {
	return func(svc *Service) { svc.strategy = s }
}

// WithAlertPolicy cambia los parámetros de las reglas de alertas propuestas.
func WithAlertPolicy(p alerting.Policy) Option {
	return func(svc *Service) { svc.policy = p }
}

// WithBatchConcurrency limita los productos procesados en paralelo en el recálculo masivo.
func WithBatchConcurrency(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.batchConcurrency = n
		}
	}
}

// WithRecorder registra métricas.
func WithRecorder(r Recorder) Option {
	return func(svc *Service) {
		if r != nil {
			svc.recorder = r
		}
	}
}

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// NewService construye el motor.
func NewService(products ProductReader, movements MovementReader, opts ...Option) *Service {
	s := &Service{
		products:         products,
		movements:        movements,
		strategy:         domainforecast.ActivityOnlyRegression,
		policy:           alerting.DefaultPolicy(),
		batchConcurrency: defaultBatchConcurrency,
		recorder:         nopRecorder{},
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan resultado del orquestador: el pronóstico, el producto evaluado y las alertas propuestas.
// Persistir el pronóstico y aplicar las alertas es responsabilidad del llamador.
type Plan struct {
	Product        *entity.Product
	Result         *entity.ForecastResult
	ProposedAlerts []alerting.Proposal
}

// CalculateAverageDailyConsumption consumo promedio diario del producto en la ventana.
func (s *Service) CalculateAverageDailyConsumption(ctx context.Context, productID string, windowDays int) (decimal.Decimal, error) {
	if err := domainforecast.ValidateWindow(windowDays); err != nil {
		return decimal.Zero, err
	}
	movs, err := s.outboundSince(ctx, productID, domainforecast.WindowStart(s.now(), windowDays))
	if err != nil {
		return decimal.Zero, err
	}
	return domainforecast.AverageDailyConsumption(movs, windowDays), nil
}

// AnalyzeTrend tendencia de consumo del producto en la ventana.
func (s *Service) AnalyzeTrend(ctx context.Context, productID string, windowDays int) (entity.Trend, error) {
	if err := domainforecast.ValidateWindow(windowDays); err != nil {
		return entity.Trend{}, err
	}
	now := s.now()
	from := domainforecast.WindowStart(now, windowDays)
	movs, err := s.outboundSince(ctx, productID, from)
	if err != nil {
		return entity.Trend{}, err
	}
	return domainforecast.AnalyzeTrend(movs, s.strategy, from, now), nil
}

// PredictStockoutDate fecha estimada de quiebre de stock; nil si no hay consumo.
func (s *Service) PredictStockoutDate(ctx context.Context, productID string, windowDays int) (*time.Time, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	avg, err := s.CalculateAverageDailyConsumption(ctx, productID, windowDays)
	if err != nil {
		return nil, err
	}
	return domainforecast.PredictStockoutDate(product.CurrentStock, avg, s.now()), nil
}

// SuggestReorderQuantity cantidad sugerida de reorden.
func (s *Service) SuggestReorderQuantity(ctx context.Context, productID string, windowDays int) (int64, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return 0, err
	}
	avg, err := s.CalculateAverageDailyConsumption(ctx, productID, windowDays)
	if err != nil {
		return 0, err
	}
	return domainforecast.SuggestReorderQuantity(avg, product.LeadTimeDays, product.SafetyStock), nil
}

// ComputeForecast pronóstico completo del producto. No persiste.
func (s *Service) ComputeForecast(ctx context.Context, productID string, windowDays int) (*entity.ForecastResult, error) {
	plan, err := s.Plan(ctx, productID, windowDays)
	if err != nil {
		return nil, err
	}
	return plan.Result, nil
}

// Plan calcula el pronóstico y propone alertas.
//
// Producto y salidas se consultan en paralelo; luego la tendencia corre en paralelo con la
// cadena promedio → (quiebre, reorden). Todo se deriva de la misma consulta de salidas.
// Si el producto no existe se aborta todo el pronóstico.
func (s *Service) Plan(ctx context.Context, productID string, windowDays int) (plan *Plan, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveForecast(time.Since(start), err) }()

	if err := domainforecast.ValidateWindow(windowDays); err != nil {
		return nil, err
	}
	now := s.now()
	from := domainforecast.WindowStart(now, windowDays)

	var (
		product   *entity.Product
		movements []*entity.StockMovement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.product(gctx, productID)
		product = p
		return err
	})
	g.Go(func() error {
		m, err := s.outboundSince(gctx, productID, from)
		movements = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		trend    entity.Trend
		avg      decimal.Decimal
		stockout *time.Time
		qty      int64
	)
	g = new(errgroup.Group)
	g.Go(func() error {
		trend = domainforecast.AnalyzeTrend(movements, s.strategy, from, now)
		return nil
	})
	g.Go(func() error {
		avg = domainforecast.AverageDailyConsumption(movements, windowDays)
		stockout = domainforecast.PredictStockoutDate(product.CurrentStock, avg, now)
		qty = domainforecast.SuggestReorderQuantity(avg, product.LeadTimeDays, product.SafetyStock)
		return nil
	})
	_ = g.Wait()

	result := &entity.ForecastResult{
		ID:                       uuid.New().String(),
		ProductID:                product.ID,
		WindowDays:               windowDays,
		AverageDailyConsumption:  avg,
		Trend:                    trend,
		PredictedStockoutDate:    stockout,
		SuggestedReorderQuantity: qty,
		ComputedAt:               now,
	}
	return &Plan{
		Product:        product,
		Result:         result,
		ProposedAlerts: s.policy.Evaluate(product, result, now),
	}, nil
}

// BatchFailure error de un producto dentro del recálculo masivo.
type BatchFailure struct {
	ProductID string
	Err       error
}

// BatchResult resumen del recálculo masivo. Plans conserva el orden del listado de productos.
type BatchResult struct {
	Succeeded int
	Failed    int
	Plans     []*Plan
	Failures  []BatchFailure
}

// Results pronósticos exitosos.
func (b BatchResult) Results() []*entity.ForecastResult {
	out := make([]*entity.ForecastResult, 0, len(b.Plans))
	for _, p := range b.Plans {
		out = append(out, p.Result)
	}
	return out
}

// ComputeForecastForAllActiveProducts recalcula todos los productos activos. Nunca falla como
// un todo: los errores por producto se cuentan. Si el listado no se puede leer se registra el
// error y el resultado queda vacío.
func (s *Service) ComputeForecastForAllActiveProducts(ctx context.Context, windowDays int) BatchResult {
	return s.ComputeBatch(ctx, windowDays, nil)
}

// ComputeBatch como ComputeForecastForAllActiveProducts; onPlan (opcional) se invoca por cada
// pronóstico exitoso desde la goroutine que lo calculó.
func (s *Service) ComputeBatch(ctx context.Context, windowDays int, onPlan func(context.Context, *Plan) error) BatchResult {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("forecast: no se pudo listar productos activos")
		return BatchResult{}
	}

	plans := make([]*Plan, len(products))
	errs := make([]error, len(products))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, p := range products {
		g.Go(func() error {
			plan, err := s.Plan(ctx, p.ID, windowDays)
			if err == nil && onPlan != nil {
				err = onPlan(ctx, plan)
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			plans[i] = plan
			return nil
		})
	}
	_ = g.Wait()

	var res BatchResult
	for i, p := range products {
		if errs[i] != nil {
			res.Failed++
			res.Failures = append(res.Failures, BatchFailure{ProductID: p.ID, Err: errs[i]})
			log.Warn().Err(errs[i]).Str("product_id", p.ID).Msg("forecast: falló el pronóstico del producto")
			continue
		}
		res.Succeeded++
		res.Plans = append(res.Plans, plans[i])
	}
	s.recorder.ObserveBatch(res.Succeeded, res.Failed)
	return res
}

func (s *Service) product(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: consultar producto %s: %v", domain.ErrPersistence, productID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return p, nil
}

func (s *Service) outboundSince(ctx context.Context, productID string, since time.Time) ([]*entity.StockMovement, error) {
	movs, err := s.movements.ListOutboundSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar salidas de %s: %v", domain.ErrPersistence, productID, err)
	}
	return movs, nil
}
