package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// QuotaCycleRunner and ReminderDispatchRunner are the two daily jobs. The
// scheduler is configured so the quota reset fires strictly before dispatch;
// that ordering, not locking, is what makes a reset visible to the same day's
// quota checks.
type QuotaCycleRunner interface {
	ResetElapsedCycles(ctx context.Context) error
}

type ReminderDispatchRunner interface {
	DispatchDueReminders(ctx context.Context) error
}

type ReminderScheduler struct {
	cronEngine       *cron.Cron
	quotaService     QuotaCycleRunner
	dispatchService  ReminderDispatchRunner
	logger           *log.Logger
	cronSpecReset    string // e.g. "0 8 * * *"
	cronSpecDispatch string // e.g. "0 9 * * *", after the reset job

	resetRunning    sync.Mutex
	dispatchRunning sync.Mutex
}

func NewReminderScheduler(
	quotaService QuotaCycleRunner,
	dispatchService ReminderDispatchRunner,
	logger *log.Logger,
	cronSpecReset string,
	cronSpecDispatch string,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.UTC)),
		quotaService:     quotaService,
		dispatchService:  dispatchService,
		logger:           logger,
		cronSpecReset:    cronSpecReset,
		cronSpecDispatch: cronSpecDispatch,
	}
}

func (s *ReminderScheduler) Start() {
	s.logger.Println("INFO: Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReset, func() {
		// A still-running pass from a previous trigger must not overlap.
		if !s.resetRunning.TryLock() {
			s.logger.Println("WARN: Previous quota cycle reset run still in progress. Skipping this trigger.")
			return
		}
		defer s.resetRunning.Unlock()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("ERROR: Panic during quota cycle reset run: %v", r)
			}
		}()

		s.logger.Println("INFO: Cron job triggered for quota cycle reset.")
		ctx := context.Background()
		if err := s.quotaService.ResetElapsedCycles(ctx); err != nil {
			s.logger.Printf("ERROR: Error during quota cycle reset: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add quota cycle reset cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecDispatch, func() {
		if !s.dispatchRunning.TryLock() {
			s.logger.Println("WARN: Previous reminder dispatch run still in progress. Skipping this trigger.")
			return
		}
		defer s.dispatchRunning.Unlock()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("ERROR: Panic during reminder dispatch run: %v", r)
			}
		}()

		s.logger.Println("INFO: Cron job triggered for reminder dispatch.")
		ctx := context.Background()
		if err := s.dispatchService.DispatchDueReminders(ctx); err != nil {
			s.logger.Printf("ERROR: Error during reminder dispatch: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add reminder dispatch cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Printf("INFO: Reminder scheduler started. Reset: %q, dispatch: %q", s.cronSpecReset, s.cronSpecDispatch)
}

func (s *ReminderScheduler) Stop() {
	s.logger.Println("INFO: Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops new triggers, waits for running jobs.
	<-ctx.Done()
	s.logger.Println("INFO: Reminder scheduler gracefully stopped.")
}
