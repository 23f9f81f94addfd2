package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, product_id, type, message, status, created_at, updated_at`

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var (
		a           entity.Alert
		typ, status string
	)
	if err := row.Scan(&a.ID, &a.ProductID, &typ, &a.Message, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.AlertType(typ)
	a.Status = entity.AlertStatus(status)
	return &a, nil
}

// Create inserta una alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ProductID, string(a.Type), a.Message, string(a.Status), a.CreatedAt, a.UpdatedAt)
	return classify("create alert", err)
}

// GetByID obtiene una alerta; (nil, nil) si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get alert", err)
	}
	return a, nil
}

// List alertas con filtros, más recientes primero.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	if f.Type != "" {
		w.add("type = ?", string(f.Type))
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	query := `SELECT ` + alertColumns + ` FROM alerts` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list alerts", err)
	}
	defer rows.Close()
	var out []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("list alerts scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list alerts", err)
	}
	return out, nil
}

// UpdateStatus cambia el estado con compare-and-set sobre el estado esperado.
// La validación de la transición la hace el caso de uso.
func (r *AlertRepo) UpdateStatus(ctx context.Context, id string, from, to entity.AlertStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE alerts SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		id, string(to), updatedAt, string(from))
	if err != nil {
		return classify("update alert status", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return classify("update alert status", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: la alerta %s ya no está en %s", domain.ErrInvalidTransition, id, from)
}

// Delete elimina una alerta.
func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return classify("delete alert", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsActiveSince consulta de deduplicación: alerta new/read del tipo creada desde since.
func (r *AlertRepo) ExistsActiveSince(ctx context.Context, productID string, alertType entity.AlertType, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE product_id = $1 AND type = $2 AND status IN ('new', 'read') AND created_at >= $3
		)`, productID, string(alertType), since).Scan(&exists)
	if err != nil {
		return false, classify("exists active alert", err)
	}
	return exists, nil
}
