// Package scheduler runs the periodic kitchen and dining sweeps.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/swingeats/swingeats/internal/metrics"
	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/service"
	"github.com/swingeats/swingeats/pkg/logging"
)

// Engine is the part of the lifecycle engine the sweeps drive.
type Engine interface {
	AutoFlipCandidates(ctx context.Context) ([]service.OrderItemView, error)
	FlagDelayedBays(ctx context.Context) ([]models.Bay, error)
	PromoteDiningOrders(ctx context.Context, dwell time.Duration) (int, error)
}

type Config struct {
	ItemSweepInterval   time.Duration
	DiningSweepInterval time.Duration
	DiningDwell         time.Duration
}

func DefaultConfig() Config {
	return Config{
		ItemSweepInterval:   5 * time.Second,
		DiningSweepInterval: 30 * time.Second,
		DiningDwell:         30 * time.Minute,
	}
}

type Scheduler struct {
	log    *slog.Logger
	engine Engine
	cfg    Config
}

func New(log *slog.Logger, engine Engine, cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.ItemSweepInterval <= 0 {
		cfg.ItemSweepInterval = def.ItemSweepInterval
	}
	if cfg.DiningSweepInterval <= 0 {
		cfg.DiningSweepInterval = def.DiningSweepInterval
	}
	if cfg.DiningDwell <= 0 {
		cfg.DiningDwell = def.DiningDwell
	}
	return &Scheduler{log: logging.Component(log, "scheduler"), engine: engine, cfg: cfg}
}

// Run starts both sweeps and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler_starting",
		"item_sweep", s.cfg.ItemSweepInterval.String(),
		"dining_sweep", s.cfg.DiningSweepInterval.String(),
		"dining_dwell", s.cfg.DiningDwell.String())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(ctx, "kitchen", s.cfg.ItemSweepInterval, s.KitchenSweep)
	}()
	go func() {
		defer wg.Done()
		s.loop(ctx, "dining", s.cfg.DiningSweepInterval, s.DiningSweep)
	}()
	wg.Wait()

	s.log.Info("scheduler_stopping")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, name string, every time.Duration, sweep func(context.Context) error) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.safe(ctx, name, sweep); err != nil {
				metrics.SweepFailed(name)
				s.log.Error("sweep_failed", "sweep", name, "error", err)
			}
		}
	}
}

func (s *Scheduler) safe(ctx context.Context, name string, sweep func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s sweep panic: %v", name, r)
		}
	}()
	return sweep(ctx)
}

// KitchenSweep surfaces cooking items past their predicted time and flags
// bays with late orders. Candidates are reported only; staff confirm each
// item by hand.
func (s *Scheduler) KitchenSweep(ctx context.Context) error {
	due, err := s.engine.AutoFlipCandidates(ctx)
	if err != nil {
		return err
	}
	metrics.SetAutoFlipCandidates(len(due))
	for _, it := range due {
		s.log.Info("item_ready_to_check",
			"item_id", it.ID, "order_id", it.OrderID, "station", it.Station, "predicted_ready_at", it.PredictedReadyAt)
	}

	flagged, err := s.engine.FlagDelayedBays(ctx)
	if err != nil {
		return err
	}
	if len(flagged) > 0 {
		s.log.Info("bays_flagged", "count", len(flagged))
	}
	return nil
}

func (s *Scheduler) DiningSweep(ctx context.Context) error {
	n, err := s.engine.PromoteDiningOrders(ctx, s.cfg.DiningDwell)
	if n > 0 {
		s.log.Info("dining_orders_paid", "count", n)
	}
	return err
}
