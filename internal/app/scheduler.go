package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs cleanup passes on a cron schedule. Runs never overlap: a
// tick that fires while a pass is still running is skipped.
type Scheduler struct {
	service    Service
	request    CleanupRequest
	expression string
	runOnStart bool
	cron       *cron.Cron

	inflight sync.WaitGroup
	mu       sync.Mutex
	running  bool
	busy     bool
	runs     int
}

func NewScheduler(service Service, req ScheduleRequest) (*Scheduler, error) {
	expression := strings.TrimSpace(req.Expression)
	if expression == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schedule expression is required")
	}
	if _, err := cron.ParseStandard(expression); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid cron schedule %q", expression)).
			WithCause(err)
	}
	if _, err := buildPlan(req.Cleanup); err != nil {
		return nil, err
	}
	return &Scheduler{
		service:    service,
		request:    req.Cleanup,
		expression: expression,
		runOnStart: req.RunOnStart,
		cron:       cron.New(),
	}, nil
}

// Start registers the cleanup job and returns immediately. With RunOnStart
// a first pass begins in the background right away. The scheduler stops when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("scheduler already running")
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.expression, func() { s.RunOnce(ctx) }); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to schedule cleanup").
			WithCause(err)
	}
	s.cron.Start()
	s.running = true
	log.Info().Str("schedule", s.expression).Msg("cleanup scheduler started")

	if s.runOnStart && s.beginLocked() {
		go s.run(ctx)
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunOnce performs a single cleanup pass unless one is already in flight.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	started := s.beginLocked()
	s.mu.Unlock()
	if !started {
		log.Warn().Msg("previous cleanup still running, skipping tick")
		return
	}
	s.run(ctx)
}

// beginLocked claims the single run slot. Callers hold s.mu; Stop waits on
// every claimed slot.
func (s *Scheduler) beginLocked() bool {
	if s.busy {
		return false
	}
	s.busy = true
	s.inflight.Add(1)
	return true
}

func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		defer s.inflight.Done()
		s.mu.Lock()
		s.busy = false
		s.runs++
		s.mu.Unlock()
	}()

	result, err := s.service.Cleanup(ctx, s.request)
	if err != nil {
		log.Error().Err(err).Str("run_id", result.RunID).Msg("scheduled cleanup failed")
		return
	}
	log.Info().
		Str("run_id", result.RunID).
		Int("deleted", result.Report.Totals.Deleted).
		Int("errors", result.Report.Totals.Errors).
		Msg("scheduled cleanup completed")
}

// Stop halts the schedule and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	scheduler := s.cron
	s.mu.Unlock()

	<-scheduler.Stop().Done()
	s.inflight.Wait()
	log.Info().Msg("cleanup scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// NextRun returns the next scheduled pass, or nil before Start.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
