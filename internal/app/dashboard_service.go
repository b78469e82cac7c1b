// internal/app/dashboard_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"vet_reminder_service/internal/domain/clinic"
	"vet_reminder_service/internal/domain/timewindow"
	"vet_reminder_service/internal/domain/visit"
)

// DashboardService serves the read paths behind clinic dashboards and visit
// listings. Every query goes through the same DueCriteria builders as the
// dispatch engine, so a dashboard count and a visit list produced with the
// same parameters can never disagree on what is "due".
type DashboardService struct {
	visitRepo  visit.Repository
	clinicRepo clinic.Repository
	logger     *log.Logger
	now        func() time.Time
}

func NewDashboardService(vr visit.Repository, cr clinic.Repository, logger *log.Logger) *DashboardService {
	return &DashboardService{
		visitRepo:  vr,
		clinicRepo: cr,
		logger:     logger,
		now:        time.Now,
	}
}

// DueTodayCount returns how many reminder-enabled visits fall on the current
// local day in the clinic's timezone.
func (s *DashboardService) DueTodayCount(ctx context.Context, clinicID int64) (int, error) {
	crit, err := s.dueTodayCriteria(ctx, clinicID)
	if err != nil {
		return 0, err
	}
	return s.visitRepo.CountDue(ctx, crit)
}

// ListDueToday returns the visits behind DueTodayCount; both use the exact
// same criteria.
func (s *DashboardService) ListDueToday(ctx context.Context, clinicID int64) ([]*visit.Visit, error) {
	crit, err := s.dueTodayCriteria(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.visitRepo.ListDue(ctx, crit)
}

// ListUpcoming returns visits whose reminder falls within the next daysAhead
// local days. visitType and reminderEnabled are optional filters; a nil
// reminderEnabled does not filter on the flag at all.
func (s *DashboardService) ListUpcoming(ctx context.Context, clinicID int64, daysAhead int, visitType *string, reminderEnabled *bool) ([]*visit.Visit, error) {
	c, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic %d: %w", clinicID, err)
	}
	loc := timewindow.LocationOrUTC(c.Timezone, s.logger)
	crit := visit.Upcoming(&clinicID, daysAhead, s.now(), loc, visitType, reminderEnabled)
	return s.visitRepo.ListDue(ctx, crit)
}

func (s *DashboardService) dueTodayCriteria(ctx context.Context, clinicID int64) (visit.DueCriteria, error) {
	c, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return visit.DueCriteria{}, fmt.Errorf("failed to load clinic %d: %w", clinicID, err)
	}
	loc := timewindow.LocationOrUTC(c.Timezone, s.logger)
	return visit.DueToday(&clinicID, s.now(), loc), nil
}
