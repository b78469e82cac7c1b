// internal/app/reminder_dispatch_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vet_reminder_service/internal/domain/clinic"
	"vet_reminder_service/internal/domain/messaging"
	"vet_reminder_service/internal/domain/timewindow"
	"vet_reminder_service/internal/domain/visit"
)

// ReminderDispatchService runs the daily reminder pass: it loads the pending
// visits due inside the dispatch window, applies the owning clinic's quota,
// formats one message per visit and sends it through the outbound channel.
// Each visit gets exactly one attempt; there is no retry.
type ReminderDispatchService struct {
	visitRepo          visit.Repository
	clinicRepo         clinic.Repository
	msgClient          messaging.Client // nil when channel credentials are absent
	logger             *log.Logger
	defaultCountryCode string
	now                func() time.Time

	disabledLogged bool
}

func NewReminderDispatchService(
	vr visit.Repository,
	cr clinic.Repository,
	mc messaging.Client,
	logger *log.Logger,
	defaultCountryCode string,
) *ReminderDispatchService {
	return &ReminderDispatchService{
		visitRepo:          vr,
		clinicRepo:         cr,
		msgClient:          mc,
		logger:             logger,
		defaultCountryCode: defaultCountryCode,
		now:                time.Now,
	}
}

// DispatchDueReminders executes one dispatch pass over the fixed UTC window
// (midnight today through end of tomorrow). Candidates are processed
// sequentially; a skipped candidate with no state change stays pending and is
// picked up by a later run.
func (s *ReminderDispatchService) DispatchDueReminders(ctx context.Context) error {
	if s.msgClient == nil {
		// Logged once at full volume, then quietly skipped each day.
		if !s.disabledLogged {
			s.logger.Println("WARN: Messaging channel is not configured. Reminder dispatch is disabled.")
			s.disabledLogged = true
		}
		return nil
	}

	now := s.now()
	windowStart, windowEnd := timewindow.Dispatch(now)
	s.logger.Printf("INFO: Starting reminder dispatch for window %s .. %s",
		windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))

	candidates, err := s.visitRepo.ListDispatchCandidates(ctx, windowStart, windowEnd, now)
	if err != nil {
		s.logger.Printf("ERROR: Failed to load dispatch candidates: %v", err)
		return fmt.Errorf("failed to load dispatch candidates: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.Println("INFO: No reminders due in the dispatch window.")
		return nil
	}

	var sent, skippedQuota, skippedNoPhone, failed int
	for _, cand := range candidates {
		switch s.processCandidate(ctx, cand) {
		case visit.OutcomeSent:
			sent++
		case visit.OutcomeSkippedQuota:
			skippedQuota++
		case visit.OutcomeFailed:
			failed++
		default:
			skippedNoPhone++
		}
	}

	s.logger.Printf("INFO: Reminder dispatch finished. Candidates: %d, sent: %d, quota-skipped: %d, no-phone: %d, failed: %d",
		len(candidates), sent, skippedQuota, skippedNoPhone, failed)
	return nil
}

// processCandidate makes the single allowed pass over one visit and returns
// the outcome it recorded (OutcomePending when the visit was left untouched).
func (s *ReminderDispatchService) processCandidate(ctx context.Context, cand *visit.DispatchCandidate) visit.ReminderOutcome {
	// A blank phone number is not an attempt: the visit stays pending so a
	// later run can pick it up once the owner record is fixed.
	phone := strings.TrimSpace(cand.OwnerPhone)
	if phone == "" {
		s.logger.Printf("INFO: Skipping visit %d: owner has no phone number on record.", cand.VisitID)
		return visit.OutcomePending
	}

	// Quota check against the clinic snapshot from the candidate query. A
	// limit of 0 hard-disables the clinic; an exhausted counter consumes the
	// attempt without sending and without touching the counter.
	if cand.Clinic.QuotaExhausted() {
		s.logger.Printf("INFO: Quota exhausted for clinic %d (%s), marking visit %d attempted without sending (limit %d, sent %d).",
			cand.Clinic.ID, cand.Clinic.Name, cand.VisitID, cand.Clinic.ReminderMonthlyLimit, cand.Clinic.RemindersSentThisCycle)
		s.recordOutcome(ctx, cand.VisitID, visit.OutcomeSkippedQuota)
		return visit.OutcomeSkippedQuota
	}

	normalized, err := messaging.NormalizePhone(phone, s.defaultCountryCode)
	if err != nil {
		// Treated like a blank phone: no state change, may be fixed later.
		s.logger.Printf("INFO: Skipping visit %d: %v", cand.VisitID, err)
		return visit.OutcomePending
	}

	body := renderReminderMessage(cand)

	if _, err := s.msgClient.Send(ctx, normalized, body); err != nil {
		// One attempt only. The failure is logged and the visit is still
		// marked attempted; no retry is ever scheduled.
		s.logger.Printf("ERROR: Failed to send reminder for visit %d to %s: %v", cand.VisitID, normalized, err)
		s.recordOutcome(ctx, cand.VisitID, visit.OutcomeFailed)
		return visit.OutcomeFailed
	}

	s.recordOutcome(ctx, cand.VisitID, visit.OutcomeSent)

	if cand.Clinic.ReminderMonthlyLimit > 0 {
		counted, err := s.clinicRepo.IncrementRemindersSent(ctx, cand.Clinic.ID)
		if err != nil {
			s.logger.Printf("ERROR: Failed to increment reminder counter for clinic %d after visit %d: %v",
				cand.Clinic.ID, cand.VisitID, err)
		} else if !counted {
			s.logger.Printf("WARN: Reminder counter for clinic %d already at its limit; visit %d was sent past the quota.",
				cand.Clinic.ID, cand.VisitID)
		}
	}
	return visit.OutcomeSent
}

func (s *ReminderDispatchService) recordOutcome(ctx context.Context, visitID int64, outcome visit.ReminderOutcome) {
	if err := s.visitRepo.SetReminderOutcome(ctx, visitID, outcome); err != nil {
		s.logger.Printf("ERROR: Failed to record outcome %s for visit %d: %v", outcome, visitID, err)
	}
}

// renderReminderMessage builds the owner-facing text. Blank fields degrade to
// neutral wording rather than leaking empty placeholders.
func renderReminderMessage(cand *visit.DispatchCandidate) string {
	visitType := strings.TrimSpace(cand.VisitType)
	if visitType == "" {
		visitType = "health check"
	}
	petName := strings.TrimSpace(cand.PetName)
	if petName == "" {
		petName = "your pet"
	}
	dueDate := "soon"
	if cand.NextReminderDate.Valid {
		dueDate = cand.NextReminderDate.Time.Format("02 Jan 2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello! This is a reminder from %s: %s is due for a %s on %s.",
		cand.Clinic.Name, petName, visitType, dueDate)
	if clinicPhone := strings.TrimSpace(cand.Clinic.Phone); clinicPhone != "" {
		fmt.Fprintf(&b, " Please call us at %s to book an appointment.", clinicPhone)
	}
	b.WriteString(" This is an automated message, please do not reply.")
	return b.String()
}
