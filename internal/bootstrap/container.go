// Package bootstrap arma el grafo de dependencias compartido por cmd/api y cmd/forecastctl.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/alerting"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/forecast"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/inventory"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/prediction"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/scheduler"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/usecase"
	domainalerting "github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/alerting"
	domainforecast "github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/forecast"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/cache"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/events"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/metrics"
	infrapdf "github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/pdf"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/postgres"
	apphttp "github.com/ConnectRajiv/Predictive-Reorder-System/internal/interfaces/http"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/config"
)

type alertPublisher interface {
	alerting.Publisher
	Close() error
}

// Container dependencias construidas a partir de la configuración.
type Container struct {
	Config *config.Config
	Pool   *pgxpool.Pool

	Cache     cache.ForecastCache
	Publisher alertPublisher
	Metrics   *metrics.Prometheus // nil si METRICS_ENABLED=false

	Products    *usecase.ProductUseCase
	Register    *inventory.RegisterMovementUseCase
	Movements   *inventory.MovementQueryUseCase
	Engine      *forecast.Service
	Alerts      *alerting.Service
	Predictions *prediction.UseCase
}

// New conecta PostgreSQL, Redis (opcional) y Kafka (opcional) y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c := &Container{Config: cfg, Pool: pool}

	c.Cache, err = cache.NewForecastCache(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("bootstrap: Redis no disponible, se continúa sin cache")
		c.Cache = cache.NewNoopForecastCache()
	}

	if cfg.Events.Enabled() {
		c.Publisher = events.NewAlertPublisher(cfg.Events)
	} else {
		c.Publisher = events.NoopPublisher{}
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)

	policy := domainalerting.Policy{
		DedupWindow:     cfg.Forecast.DedupWindow,
		StockoutHorizon: cfg.Forecast.StockoutHorizon,
	}
	engineOpts := []forecast.Option{
		forecast.WithSeriesStrategy(domainforecast.ParseSeriesStrategy(cfg.Forecast.SeriesStrategy)),
		forecast.WithAlertPolicy(policy),
		forecast.WithBatchConcurrency(cfg.Forecast.BatchConcurrency),
	}
	alertOpts := []alerting.Option{
		alerting.WithPolicy(policy),
		alerting.WithPublisher(c.Publisher),
		alerting.WithPublishTimeout(cfg.Events.PublishTimeout),
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New(nil)
		engineOpts = append(engineOpts, forecast.WithRecorder(c.Metrics))
		alertOpts = append(alertOpts, alerting.WithRecorder(c.Metrics))
	}

	c.Engine = forecast.NewService(productRepo, movementRepo, engineOpts...)
	c.Alerts = alerting.NewService(alertRepo, alertOpts...)
	txRunner := postgres.NewTxRunner(pool)
	c.Register = inventory.NewRegisterMovementUseCase(txRunner, c.Cache)
	c.Movements = inventory.NewMovementQueryUseCase(movementRepo, c.Cache)
	c.Products = usecase.NewProductUseCase(productRepo, txRunner, c.Cache)
	c.Predictions = prediction.NewUseCase(prediction.Deps{
		Engine:        c.Engine,
		Alerts:        c.Alerts,
		ForecastRepo:  forecastRepo,
		ProductRepo:   productRepo,
		Cache:         c.Cache,
		Report:        infrapdf.NewMarotoReportGenerator(""),
		DefaultWindow: cfg.Forecast.DefaultWindowDays,
	})
	return c, nil
}

// RouterDeps dependencias para el router HTTP.
func (c *Container) RouterDeps() apphttp.RouterDeps {
	deps := apphttp.RouterDeps{
		ServiceName: c.Config.App.Name,
		Products:    c.Products,
		Register:    c.Register,
		Movements:   c.Movements,
		Predictions: c.Predictions,
		Alerts:      c.Alerts,
		JWTSecret:   c.Config.JWT.Secret,
	}
	if c.Metrics != nil {
		deps.MetricsHandler = c.Metrics.Handler()
		deps.MetricsPath = c.Config.Metrics.Path
	}
	return deps
}

// Scheduler construye el cron con los trabajos periódicos.
func (c *Container) Scheduler() (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(c.Config.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_TIMEZONE inválida: %w", err)
	}
	return scheduler.New(scheduler.Config{
		RecomputeSpec: c.Config.Scheduler.RecomputeSpec,
		LowStockSpec:  c.Config.Scheduler.LowStockSpec,
		WindowDays:    c.Config.Forecast.DefaultWindowDays,
		Location:      loc,
	}, c.Predictions)
}

// Close libera conexiones externas.
func (c *Container) Close() {
	if err := c.Publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("bootstrap: cerrar publicador de eventos")
	}
	if err := c.Cache.Close(); err != nil {
		log.Warn().Err(err).Msg("bootstrap: cerrar cache")
	}
	c.Pool.Close()
}
