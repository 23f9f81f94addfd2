package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo historial de pronósticos (tabla predictions).
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador.
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

const forecastColumns = `id, product_id, window_days, average_daily_consumption,
	trend_type, trend_slope, trend_percentage_change,
	predicted_stockout_date, suggested_reorder_quantity, computed_at`

func scanForecast(row pgx.Row) (*entity.ForecastResult, error) {
	var (
		f         entity.ForecastResult
		trendType string
	)
	if err := row.Scan(&f.ID, &f.ProductID, &f.WindowDays, &f.AverageDailyConsumption,
		&trendType, &f.Trend.Slope, &f.Trend.PercentageChange,
		&f.PredictedStockoutDate, &f.SuggestedReorderQuantity, &f.ComputedAt); err != nil {
		return nil, err
	}
	f.Trend.Type = entity.TrendType(trendType)
	return &f, nil
}

// Create guarda un pronóstico.
func (r *ForecastRepo) Create(ctx context.Context, f *entity.ForecastResult) error {
	query := `INSERT INTO predictions (` + forecastColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, f.ID, f.ProductID, f.WindowDays, f.AverageDailyConsumption,
		string(f.Trend.Type), f.Trend.Slope, f.Trend.PercentageChange,
		f.PredictedStockoutDate, f.SuggestedReorderQuantity, f.ComputedAt)
	return classify("create prediction", err)
}

// List pronósticos más recientes primero.
func (r *ForecastRepo) List(ctx context.Context, limit, offset int) ([]*entity.ForecastResult, error) {
	return r.query(ctx, "list predictions",
		`SELECT `+forecastColumns+` FROM predictions ORDER BY computed_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByProduct pronósticos de un producto, más recientes primero.
func (r *ForecastRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.ForecastResult, error) {
	return r.query(ctx, "list predictions by product",
		`SELECT `+forecastColumns+` FROM predictions WHERE product_id = $1
		 ORDER BY computed_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
}

// LatestPerProduct último pronóstico de cada producto.
func (r *ForecastRepo) LatestPerProduct(ctx context.Context) ([]*entity.ForecastResult, error) {
	return r.query(ctx, "latest predictions",
		`SELECT DISTINCT ON (product_id) `+forecastColumns+` FROM predictions
		 ORDER BY product_id, computed_at DESC`)
}

func (r *ForecastRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.ForecastResult, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var out []*entity.ForecastResult
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}
