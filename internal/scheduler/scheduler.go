// Package scheduler wires up the cron job that re-runs the pipeline on a
// user-supplied spec for unattended operation.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner is one full pipeline pass. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron       *cron.Cron
	r          Runner
	spec       string
	runTimeout time.Duration
}

// New creates a Scheduler firing on spec (e.g. "@every 6h", "0 8 * * *").
// Every pass gets its own runTimeout deadline so a hung browser wait or
// model call cannot wedge the cron loop.
func New(r Runner, spec string, runTimeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		r:          r,
		spec:       spec,
		runTimeout: runTimeout,
	}
}

// Start registers the job and starts the scheduler. Also runs one pass
// immediately so results exist without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Scheduler started with spec %q", s.spec)

	s.runOnce(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()
	if err := s.r.Run(runCtx); err != nil {
		log.Printf("⚠️ Scheduled run failed: %v", err)
	}
}
