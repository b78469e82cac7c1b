package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementRemindersSent_CountsWhileBelowLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresClinicRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET reminders_sent_this_cycle = reminders_sent_this_cycle + 1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	counted, err := repo.IncrementRemindersSent(context.Background(), 10)

	assert.NoError(t, err)
	assert.True(t, counted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementRemindersSent_StopsAtLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresClinicRepository(db)

	// The guard lives in the statement itself: at the limit the UPDATE
	// matches no row and the counter is untouched.
	mock.ExpectExec(regexp.QuoteMeta("reminders_sent_this_cycle < reminder_monthly_limit")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	counted, err := repo.IncrementRemindersSent(context.Background(), 10)

	assert.NoError(t, err)
	assert.False(t, counted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetQuotaCycle_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresClinicRepository(db)

	cycleStart := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET reminders_sent_this_cycle = 0, current_cycle_start_date = $1")).
		WithArgs(cycleStart, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.ResetQuotaCycle(context.Background(), 3, cycleStart)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetQuotaCycle_MissingClinic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresClinicRepository(db)

	cycleStart := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE clinics").
		WithArgs(cycleStart, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.ResetQuotaCycle(context.Background(), 99, cycleStart)

	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestListQuotaResetCandidates_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresClinicRepository(db)

	now := time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC)
	cycleStart := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	subEnd := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "name", "phone", "is_active", "subscription_end_date", "can_send_reminders",
		"timezone", "reminder_monthly_limit", "reminders_sent_this_cycle", "current_cycle_start_date",
		"created_at", "updated_at",
	}).AddRow(int64(1), "Happy Paws", "+9641112223", true, subEnd, true,
		"Asia/Baghdad", 100, 42, cycleStart, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("reminder_monthly_limit > 0 AND current_cycle_start_date IS NOT NULL")).
		WithArgs(now).
		WillReturnRows(rows)

	clinics, err := repo.ListQuotaResetCandidates(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, int64(1), clinics[0].ID)
	assert.Equal(t, 42, clinics[0].RemindersSentThisCycle)
	assert.True(t, clinics[0].CurrentCycleStartDate.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
