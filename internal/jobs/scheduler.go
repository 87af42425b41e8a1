package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"railres/internal/cancellation"
	"railres/internal/inventory"
	"railres/internal/shared/config"
	"railres/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the periodic maintenance jobs: the refund sweep and the
// nightly inventory invariant audit.
type Scheduler struct {
	sched   gocron.Scheduler
	cfg     config.JobsConfig
	refunds cancellation.Service
	inv     inventory.Service
	log     *logger.Logger
}

// NewScheduler creates a new job scheduler
func NewScheduler(cfg config.JobsConfig, refunds cancellation.Service, inv inventory.Service, log *logger.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		sched:   sched,
		cfg:     cfg,
		refunds: refunds,
		inv:     inv,
		log:     log,
	}, nil
}

// Start registers the jobs and begins running them
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.log.Info("Background jobs disabled")
		return nil
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(s.cfg.RefundSweepInterval),
		gocron.NewTask(s.runRefundSweep),
		gocron.WithName("refund-sweep"),
	)
	if err != nil {
		return fmt.Errorf("failed to register refund sweep: %w", err)
	}

	hour, minute, err := parseClock(s.cfg.InventoryAuditAt)
	if err != nil {
		return fmt.Errorf("invalid inventory audit time: %w", err)
	}

	_, err = s.sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(s.runInventoryAudit),
		gocron.WithName("inventory-audit"),
	)
	if err != nil {
		return fmt.Errorf("failed to register inventory audit: %w", err)
	}

	s.sched.Start()
	s.log.Info("Background jobs started",
		"refund_sweep_interval", s.cfg.RefundSweepInterval.String(),
		"inventory_audit_at", s.cfg.InventoryAuditAt)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) runRefundSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	processed, err := s.refunds.ProcessPendingRefunds(ctx)
	if err != nil {
		s.log.Error("Refund sweep failed", "error", err.Error())
		return
	}
	if processed > 0 {
		s.log.Info("Refund sweep completed", "processed", processed)
	}
}

func (s *Scheduler) runInventoryAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	violations, err := s.inv.AuditAll(ctx)
	if err != nil {
		s.log.Error("Inventory audit failed", "error", err.Error())
		return
	}
	for _, v := range violations {
		s.log.Error("Inventory invariant violation", "violation", v.Error())
	}
	if len(violations) == 0 {
		s.log.Info("Inventory audit clean")
	}
}

// parseClock parses "HH:MM" into hour and minute components.
func parseClock(v string) (uint, uint, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", v)
	}
	return uint(hour), uint(minute), nil
}
