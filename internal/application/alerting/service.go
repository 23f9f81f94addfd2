// Package alerting aplica las alertas propuestas por el motor de pronóstico (deduplicación y
// persistencia) y gestiona su ciclo de vida.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	domainalerting "github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/alerting"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

const (
	defaultListLimit      = 50
	maxListLimit          = 500
	defaultPublishTimeout = 2 * time.Second
)

// Service casos de uso de alertas.
type Service struct {
	repo           repository.AlertRepository
	policy         domainalerting.Policy
	publisher      Publisher
	publishTimeout time.Duration
	recorder       Recorder
	now            func() time.Time
}

// Option configura el Service.
type Option func(*Service)

// WithPolicy cambia los parámetros de las reglas.
func WithPolicy(p domainalerting.Policy) Option { return func(s *Service) { s.policy = p } }

// WithPublisher publica cada alerta creada.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithPublishTimeout acota cada publicación; <= 0 mantiene el valor por defecto.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithRecorder registra métricas.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService construye el servicio.
func NewService(repo repository.AlertRepository, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		policy:         domainalerting.DefaultPolicy(),
		publisher:      nopPublisher{},
		publishTimeout: defaultPublishTimeout,
		recorder:       nopRecorder{},
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateAlerts evalúa las reglas para el producto y su pronóstico y persiste las alertas
// que correspondan. Nunca devuelve error: los fallos se registran en el log.
func (s *Service) EvaluateAlerts(ctx context.Context, product *entity.Product, result *entity.ForecastResult) []*entity.Alert {
	return s.ApplyAlerts(ctx, s.policy.Evaluate(product, result, s.now()))
}

// CheckLowStock evalúa solo la regla de stock bajo (barrido periódico).
func (s *Service) CheckLowStock(ctx context.Context, product *entity.Product) *entity.Alert {
	prop, ok := s.policy.LowStock(product)
	if !ok {
		return nil
	}
	created := s.ApplyAlerts(ctx, []domainalerting.Proposal{prop})
	if len(created) == 0 {
		return nil
	}
	return created[0]
}

// ApplyAlerts persiste las propuestas, una por una. Las que piden deduplicación se omiten si
// ya existe una alerta activa (new o read) del mismo tipo para el producto dentro de la ventana.
// El fallo de una propuesta no impide las demás.
func (s *Service) ApplyAlerts(ctx context.Context, proposals []domainalerting.Proposal) []*entity.Alert {
	var created []*entity.Alert
	for _, prop := range proposals {
		alert, err := s.apply(ctx, prop)
		if err != nil {
			s.recorder.AlertFailed(prop.Type)
			log.Error().Err(err).
				Str("product_id", prop.ProductID).
				Str("alert_type", string(prop.Type)).
				Msg("alerting: no se pudo registrar la alerta")
			continue
		}
		if alert == nil {
			s.recorder.AlertSuppressed(prop.Type)
			continue
		}
		s.recorder.AlertEmitted(prop.Type)
		created = append(created, alert)
	}
	return created
}

func (s *Service) apply(ctx context.Context, prop domainalerting.Proposal) (*entity.Alert, error) {
	now := s.now()
	if prop.DedupWindow > 0 {
		exists, err := s.repo.ExistsActiveSince(ctx, prop.ProductID, prop.Type, now.Add(-prop.DedupWindow))
		if err != nil {
			return nil, fmt.Errorf("%w: verificar duplicados: %v", domain.ErrPersistence, err)
		}
		if exists {
			return nil, nil
		}
	}
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: prop.ProductID,
		Type:      prop.Type,
		Message:   prop.Message,
		Status:    entity.AlertStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("%w: crear alerta: %v", domain.ErrPersistence, err)
	}
	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishAlert(pubCtx, alert); err != nil {
		// la alerta ya quedó registrada; la publicación es best-effort
		log.Warn().Err(err).Str("alert_id", alert.ID).Msg("alerting: no se pudo publicar la alerta")
	}
	return alert, nil
}

// CreateSystemAlert registra una alerta de tipo system (sin deduplicación).
func (s *Service) CreateSystemAlert(ctx context.Context, productID, message string) (*entity.Alert, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: mensaje requerido", domain.ErrInvalidInput)
	}
	return s.apply(ctx, domainalerting.Proposal{ProductID: productID, Type: entity.AlertTypeSystem, Message: message})
}

// List lista alertas (más recientes primero).
func (s *Service) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, filter.Type)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus cambia el estado respetando new → read → addressed.
// Repetir el estado actual no modifica la alerta.
func (s *Service) UpdateStatus(ctx context.Context, id string, status entity.AlertStatus) (*entity.Alert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	if err := domainalerting.ValidateTransition(alert.Status, status); err != nil {
		return nil, err
	}
	if alert.Status == status {
		return alert, nil
	}
	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, alert.Status, status, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: actualizar alerta: %v", domain.ErrPersistence, err)
	}
	alert.Status = status
	alert.UpdatedAt = now
	return alert, nil
}

// Delete elimina una alerta.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
