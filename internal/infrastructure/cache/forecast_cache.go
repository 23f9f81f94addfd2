package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/config"
)

const forecastKeyPrefix = "forecast"

// ForecastCache pronósticos calculados bajo demanda, por producto y ventana.
// Lo consumen prediction.UseCase (Get/Set) y el registro de movimientos (InvalidateProduct).
type ForecastCache interface {
	Get(ctx context.Context, productID string, windowDays int) (*entity.ForecastResult, bool, error)
	Set(ctx context.Context, result *entity.ForecastResult) error
	InvalidateProduct(ctx context.Context, productID string) error
	Close() error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache devuelve la implementación Redis si el cache está habilitado, o una no-op.
func NewForecastCache(ctx context.Context, cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return NewNoopForecastCache(), nil
	}
	client, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisForecastCache(client, cfg.TTL), nil
}

// NewRedisForecastCache envuelve un cliente existente. ttl <= 0 usa el valor por defecto.
func NewRedisForecastCache(client *redis.Client, ttl time.Duration) ForecastCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisForecastCache{client: client, ttl: ttl}
}

// NewNoopForecastCache cache deshabilitado.
func NewNoopForecastCache() ForecastCache {
	return noopForecastCache{}
}

// cachedForecast forma serializada. Los decimales viajan como string.
type cachedForecast struct {
	ID                       string          `json:"id"`
	ProductID                string          `json:"product_id"`
	WindowDays               int             `json:"window_days"`
	AverageDailyConsumption  decimal.Decimal `json:"average_daily_consumption"`
	TrendType                string          `json:"trend_type"`
	TrendSlope               float64         `json:"trend_slope"`
	TrendPercentageChange    decimal.Decimal `json:"trend_percentage_change"`
	PredictedStockoutDate    *time.Time      `json:"predicted_stockout_date,omitempty"`
	SuggestedReorderQuantity int64           `json:"suggested_reorder_quantity"`
	ComputedAt               time.Time       `json:"computed_at"`
}

func toCached(r *entity.ForecastResult) cachedForecast {
	return cachedForecast{
		ID:                       r.ID,
		ProductID:                r.ProductID,
		WindowDays:               r.WindowDays,
		AverageDailyConsumption:  r.AverageDailyConsumption,
		TrendType:                string(r.Trend.Type),
		TrendSlope:               r.Trend.Slope,
		TrendPercentageChange:    r.Trend.PercentageChange,
		PredictedStockoutDate:    r.PredictedStockoutDate,
		SuggestedReorderQuantity: r.SuggestedReorderQuantity,
		ComputedAt:               r.ComputedAt,
	}
}

func (c cachedForecast) toEntity() *entity.ForecastResult {
	return &entity.ForecastResult{
		ID:                      c.ID,
		ProductID:               c.ProductID,
		WindowDays:              c.WindowDays,
		AverageDailyConsumption: c.AverageDailyConsumption,
		Trend: entity.Trend{
			Type:             entity.TrendType(c.TrendType),
			Slope:            c.TrendSlope,
			PercentageChange: c.TrendPercentageChange,
		},
		PredictedStockoutDate:    c.PredictedStockoutDate,
		SuggestedReorderQuantity: c.SuggestedReorderQuantity,
		ComputedAt:               c.ComputedAt,
	}
}

func forecastKey(productID string, windowDays int) string {
	return fmt.Sprintf("%s:%s:%d", forecastKeyPrefix, productID, windowDays)
}

func (c *redisForecastCache) Get(ctx context.Context, productID string, windowDays int) (*entity.ForecastResult, bool, error) {
	payload, err := c.client.Get(ctx, forecastKey(productID, windowDays)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var cached cachedForecast
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, false, fmt.Errorf("decodificar pronóstico cacheado: %w", err)
	}
	return cached.toEntity(), true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, result *entity.ForecastResult) error {
	payload, err := json.Marshal(toCached(result))
	if err != nil {
		return fmt.Errorf("codificar pronóstico: %w", err)
	}
	if err := c.client.Set(ctx, forecastKey(result.ProductID, result.WindowDays), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// InvalidateProduct borra los pronósticos del producto en todas las ventanas.
func (c *redisForecastCache) InvalidateProduct(ctx context.Context, productID string) error {
	return deleteKeysWithPrefix(ctx, c.client, fmt.Sprintf("%s:%s:", forecastKeyPrefix, productID))
}

func (c *redisForecastCache) Close() error { return c.client.Close() }

func (noopForecastCache) Get(context.Context, string, int) (*entity.ForecastResult, bool, error) {
	return nil, false, nil
}
func (noopForecastCache) Set(context.Context, *entity.ForecastResult) error { return nil }
func (noopForecastCache) InvalidateProduct(context.Context, string) error    { return nil }
func (noopForecastCache) Close() error                                      { return nil }
