// Package prediction coordina el motor de pronóstico con la persistencia del historial y la
// aplicación de alertas: calcular → guardar → alertar.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/alerting"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/forecast"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// UseCase casos de uso de predicciones.
type UseCase struct {
	engine        *forecast.Service
	alerts        *alerting.Service
	forecastRepo  repository.ForecastRepository
	productRepo   repository.ProductRepository
	cache         ForecastCache
	report        ReorderReportGenerator
	defaultWindow int
	now           func() time.Time
}

// Deps dependencias del caso de uso. Cache y Report son opcionales.
type Deps struct {
	Engine        *forecast.Service
	Alerts        *alerting.Service
	ForecastRepo  repository.ForecastRepository
	ProductRepo   repository.ProductRepository
	Cache         ForecastCache
	Report        ReorderReportGenerator
	DefaultWindow int
	Now           func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		engine:        d.Engine,
		alerts:        d.Alerts,
		forecastRepo:  d.ForecastRepo,
		productRepo:   d.ProductRepo,
		cache:         d.Cache,
		report:        d.Report,
		defaultWindow: d.DefaultWindow,
		now:           d.Now,
	}
	if uc.cache == nil {
		uc.cache = noopCache{}
	}
	if uc.defaultWindow <= 0 {
		uc.defaultWindow = 30
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// DefaultWindow ventana usada cuando el llamador no especifica una.
func (uc *UseCase) DefaultWindow() int { return uc.defaultWindow }

func (uc *UseCase) window(days int) int {
	if days == 0 {
		return uc.defaultWindow
	}
	return days
}

// Calculate calcula el pronóstico del producto, lo guarda en el historial y aplica las alertas.
// Si el guardado falla se devuelve el pronóstico calculado junto con un error ErrPersistence y
// no se evalúan alertas.
func (uc *UseCase) Calculate(ctx context.Context, productID string, days int) (*dto.PredictionResponse, error) {
	plan, err := uc.engine.Plan(ctx, productID, uc.window(days))
	if err != nil {
		return nil, err
	}
	if err := uc.save(ctx, plan.Result); err != nil {
		return &dto.PredictionResponse{Forecast: dto.ToForecastResponse(plan.Result), Alerts: []dto.AlertResponse{}}, err
	}
	created := uc.alerts.ApplyAlerts(ctx, plan.ProposedAlerts)
	return &dto.PredictionResponse{
		Forecast: dto.ToForecastResponse(plan.Result),
		Alerts:   dto.ToAlertResponses(created),
	}, nil
}

// CalculateAll recalcula, guarda y alerta para todos los productos activos. Los fallos por
// producto se cuentan sin abortar el resto.
func (uc *UseCase) CalculateAll(ctx context.Context, days int) *dto.BatchPredictionResponse {
	var emitted atomic.Int64
	res := uc.engine.ComputeBatch(ctx, uc.window(days), func(ctx context.Context, plan *forecast.Plan) error {
		if err := uc.save(ctx, plan.Result); err != nil {
			return err
		}
		emitted.Add(int64(len(uc.alerts.ApplyAlerts(ctx, plan.ProposedAlerts))))
		return nil
	})
	log.Info().
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int64("alerts", emitted.Load()).
		Msg("prediction: recálculo masivo finalizado")
	return &dto.BatchPredictionResponse{
		Succeeded:     res.Succeeded,
		Failed:        res.Failed,
		AlertsEmitted: int(emitted.Load()),
		Predictions:   dto.ToForecastResponses(res.Results()),
	}
}

// Forecast calcula el pronóstico sin guardarlo ni alertar. Usa la cache si está disponible.
func (uc *UseCase) Forecast(ctx context.Context, productID string, days int) (*dto.ForecastResponse, error) {
	window := uc.window(days)
	if cached, ok, err := uc.cache.Get(ctx, productID, window); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("prediction: cache no disponible")
	} else if ok {
		resp := dto.ToForecastResponse(cached)
		return &resp, nil
	}
	result, err := uc.engine.ComputeForecast(ctx, productID, window)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, result); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("prediction: no se pudo cachear el pronóstico")
	}
	resp := dto.ToForecastResponse(result)
	return &resp, nil
}

// SweepLowStock evalúa la regla de stock bajo para todos los productos activos en o por debajo
// de su punto de reorden. Devuelve cuántas alertas se emitieron.
func (uc *UseCase) SweepLowStock(ctx context.Context) (int, error) {
	products, err := uc.productRepo.ListBelowReorderPoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: listar productos con stock bajo: %v", domain.ErrPersistence, err)
	}
	emitted := 0
	for _, p := range products {
		if uc.alerts.CheckLowStock(ctx, p) != nil {
			emitted++
		}
	}
	log.Info().Int("checked", len(products)).Int("alerts", emitted).Msg("prediction: barrido de stock bajo finalizado")
	return emitted, nil
}

// List historial de pronósticos, más recientes primero.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ForecastListResponse, error) {
	page.DefaultPage()
	list, err := uc.forecastRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ForecastListResponse{
		Items: dto.ToForecastResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListByProduct historial de pronósticos de un producto.
func (uc *UseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) (*dto.ForecastListResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	page.DefaultPage()
	list, err := uc.forecastRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ForecastListResponse{
		Items: dto.ToForecastResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ReorderReport genera el PDF con el último pronóstico de cada producto activo, ordenado por
// fecha de quiebre (los que no tienen fecha al final).
func (uc *UseCase) ReorderReport(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, errors.New("generador de reportes no configurado")
	}
	lines, err := uc.ReorderReportLines(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateReorderReport(ctx, lines, uc.now())
}

// ReorderReportLines arma las filas del reporte.
func (uc *UseCase) ReorderReportLines(ctx context.Context) ([]ReorderReportLine, error) {
	products, err := uc.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := uc.forecastRepo.LatestPerProduct(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*entity.ForecastResult, len(latest))
	for _, f := range latest {
		byProduct[f.ProductID] = f
	}
	lines := make([]ReorderReportLine, 0, len(products))
	for _, p := range products {
		f, ok := byProduct[p.ID]
		if !ok {
			continue
		}
		lines = append(lines, ReorderReportLine{
			SKU:                      p.SKU,
			Name:                     p.Name,
			CurrentStock:             p.CurrentStock,
			ReorderPoint:             p.ReorderPoint,
			AverageDailyConsumption:  f.AverageDailyConsumption,
			Trend:                    f.Trend.Type,
			PredictedStockoutDate:    f.PredictedStockoutDate,
			SuggestedReorderQuantity: f.SuggestedReorderQuantity,
			BelowReorderPoint:        p.IsBelowReorderPoint(),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i].PredictedStockoutDate, lines[j].PredictedStockoutDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return lines, nil
}

func (uc *UseCase) save(ctx context.Context, result *entity.ForecastResult) error {
	if err := uc.forecastRepo.Create(ctx, result); err != nil {
		return fmt.Errorf("%w: guardar pronóstico de %s: %v", domain.ErrPersistence, result.ProductID, err)
	}
	if err := uc.cache.Set(ctx, result); err != nil {
		log.Warn().Err(err).Str("product_id", result.ProductID).Msg("prediction: no se pudo cachear el pronóstico")
	}
	return nil
}
