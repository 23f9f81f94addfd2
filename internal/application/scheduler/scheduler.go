// Package scheduler dispara los trabajos periódicos: recálculo diario de pronósticos y
// barrido de stock bajo.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
)

const (
	// DefaultRecomputeSpec todos los días a medianoche.
	DefaultRecomputeSpec = "0 0 * * *"
	// DefaultLowStockSpec cada 6 horas.
	DefaultLowStockSpec = "0 */6 * * *"
)

// Jobs trabajos que ejecuta el scheduler (implementado por prediction.UseCase).
type Jobs interface {
	CalculateAll(ctx context.Context, days int) *dto.BatchPredictionResponse
	SweepLowStock(ctx context.Context) (int, error)
}

// Config expresiones cron (5 campos). Vacío deshabilita el trabajo.
type Config struct {
	RecomputeSpec string
	LowStockSpec  string
	WindowDays    int
	JobTimeout    time.Duration
	Location      *time.Location
}

// Scheduler envoltura de cron con los trabajos del sistema.
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	cfg  Config
}

// New registra los trabajos; no arranca hasta Start.
func New(cfg Config, jobs Jobs) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
		jobs: jobs,
		cfg:  cfg,
	}
	if cfg.RecomputeSpec != "" {
		if _, err := s.cron.AddFunc(cfg.RecomputeSpec, s.RunRecompute); err != nil {
			return nil, fmt.Errorf("scheduler: expresión de recálculo %q: %w", cfg.RecomputeSpec, err)
		}
	}
	if cfg.LowStockSpec != "" {
		if _, err := s.cron.AddFunc(cfg.LowStockSpec, s.RunLowStockSweep); err != nil {
			return nil, fmt.Errorf("scheduler: expresión de stock bajo %q: %w", cfg.LowStockSpec, err)
		}
	}
	return s, nil
}

// Start inicia el scheduler en background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler: iniciado")
}

// Stop detiene el scheduler y espera a que terminen los trabajos en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("scheduler: trabajos en curso interrumpidos por timeout")
	}
}

// RunRecompute recalcula los pronósticos de todos los productos activos.
func (s *Scheduler) RunRecompute() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()
	start := time.Now()
	res := s.jobs.CalculateAll(ctx, s.cfg.WindowDays)
	log.Info().
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("scheduler: recálculo diario completado")
}

// RunLowStockSweep evalúa la regla de stock bajo.
func (s *Scheduler) RunLowStockSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()
	n, err := s.jobs.SweepLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: barrido de stock bajo falló")
		return
	}
	log.Info().Int("alerts", n).Msg("scheduler: barrido de stock bajo completado")
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
