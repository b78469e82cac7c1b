package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"vet_reminder_service/internal/domain/clinic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func quotaTestLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func resetCandidate(id int64, cycleStart time.Time) *clinic.Clinic {
	return &clinic.Clinic{
		ID:                     id,
		Name:                   fmt.Sprintf("Clinic %d", id),
		IsActive:               true,
		CanSendReminders:       true,
		SubscriptionEndDate:    sql.NullTime{Time: cycleStart.AddDate(1, 0, 0), Valid: true},
		ReminderMonthlyLimit:   100,
		RemindersSentThisCycle: 42,
		CurrentCycleStartDate:  sql.NullTime{Time: cycleStart, Valid: true},
	}
}

func TestResetElapsedCycles_ResetsWhenMonthElapsed(t *testing.T) {
	mockRepo := new(MockClinicRepository)
	svc := NewQuotaCycleService(mockRepo, quotaTestLogger())

	now := time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	elapsed := resetCandidate(1, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	mockRepo.On("ListQuotaResetCandidates", mock.Anything, now).Return([]*clinic.Clinic{elapsed}, nil)
	mockRepo.On("ResetQuotaCycle", mock.Anything, int64(1), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)).Return(nil)

	err := svc.ResetElapsedCycles(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestResetElapsedCycles_NoResetBeforeMonthElapsed(t *testing.T) {
	mockRepo := new(MockClinicRepository)
	svc := NewQuotaCycleService(mockRepo, quotaTestLogger())

	now := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	notElapsed := resetCandidate(1, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	mockRepo.On("ListQuotaResetCandidates", mock.Anything, now).Return([]*clinic.Clinic{notElapsed}, nil)

	err := svc.ResetElapsedCycles(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "ResetQuotaCycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetElapsedCycles_SnapsForwardNotTelescoping(t *testing.T) {
	mockRepo := new(MockClinicRepository)
	svc := NewQuotaCycleService(mockRepo, quotaTestLogger())

	// The job missed several runs: the cycle started four months ago. The new
	// anchor must be today, not old anchor + 1 month.
	now := time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := resetCandidate(7, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	mockRepo.On("ListQuotaResetCandidates", mock.Anything, now).Return([]*clinic.Clinic{stale}, nil)
	mockRepo.On("ResetQuotaCycle", mock.Anything, int64(7), time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)).Return(nil)

	err := svc.ResetElapsedCycles(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestResetElapsedCycles_OneFailureDoesNotBlockOthers(t *testing.T) {
	mockRepo := new(MockClinicRepository)
	svc := NewQuotaCycleService(mockRepo, quotaTestLogger())

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first := resetCandidate(1, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	second := resetCandidate(2, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	mockRepo.On("ListQuotaResetCandidates", mock.Anything, now).Return([]*clinic.Clinic{first, second}, nil)

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mockRepo.On("ResetQuotaCycle", mock.Anything, int64(1), today).Return(fmt.Errorf("deadlock detected"))
	mockRepo.On("ResetQuotaCycle", mock.Anything, int64(2), today).Return(nil)

	err := svc.ResetElapsedCycles(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestResetElapsedCycles_CandidateQueryFailureAborts(t *testing.T) {
	mockRepo := new(MockClinicRepository)
	svc := NewQuotaCycleService(mockRepo, quotaTestLogger())

	mockRepo.On("ListQuotaResetCandidates", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("connection refused"))

	err := svc.ResetElapsedCycles(context.Background())

	assert.Error(t, err)
}
