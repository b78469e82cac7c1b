// internal/app/quota_cycle_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"vet_reminder_service/internal/domain/clinic"
)

// QuotaCycleService owns the daily advance of each clinic's rolling monthly
// reminder quota window. It runs strictly before the dispatch job so that a
// reset performed today is visible to today's quota checks.
type QuotaCycleService struct {
	clinicRepo clinic.Repository
	logger     *log.Logger
	now        func() time.Time
}

func NewQuotaCycleService(cr clinic.Repository, logger *log.Logger) *QuotaCycleService {
	return &QuotaCycleService{
		clinicRepo: cr,
		logger:     logger,
		now:        time.Now,
	}
}

// ResetElapsedCycles scans clinics whose cycle month has elapsed and resets
// their counters. The new cycle anchor is the start of today, not the old
// anchor plus a month: if the job misses a few runs the cycle snaps forward
// instead of compounding the missed months.
func (s *QuotaCycleService) ResetElapsedCycles(ctx context.Context) error {
	now := s.now()
	s.logger.Printf("INFO: Starting quota cycle reset scan at %s", now.Format(time.RFC3339))

	candidates, err := s.clinicRepo.ListQuotaResetCandidates(ctx, now)
	if err != nil {
		s.logger.Printf("ERROR: Failed to list quota reset candidates: %v", err)
		return fmt.Errorf("failed to list quota reset candidates: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.Println("INFO: No clinics eligible for a quota cycle reset.")
		return nil
	}

	resets := 0
	for _, c := range candidates {
		if !c.CycleElapsed(now) {
			continue
		}
		// One clinic's failure must never block the rest of the batch.
		cycleStart := clinic.StartOfDayUTC(now)
		if err := s.clinicRepo.ResetQuotaCycle(ctx, c.ID, cycleStart); err != nil {
			s.logger.Printf("ERROR: Failed to reset quota cycle for clinic %d (%s): %v", c.ID, c.Name, err)
			continue
		}
		resets++
		s.logger.Printf("INFO: Reset quota cycle for clinic %d (%s): counter 0, cycle start %s",
			c.ID, c.Name, cycleStart.Format("2006-01-02"))
	}

	s.logger.Printf("INFO: Quota cycle reset scan finished. Scanned: %d, reset: %d", len(candidates), resets)
	return nil
}
