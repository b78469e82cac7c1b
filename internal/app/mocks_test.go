package app

import (
	"context"
	"time"

	"vet_reminder_service/internal/domain/clinic"
	"vet_reminder_service/internal/domain/messaging"
	"vet_reminder_service/internal/domain/visit"

	"github.com/stretchr/testify/mock"
)

// MockClinicRepository is a mock implementation of clinic.Repository
type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, c *clinic.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicRepository) GetByID(ctx context.Context, id int64) (*clinic.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinic.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Update(ctx context.Context, c *clinic.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicRepository) ListActive(ctx context.Context) ([]*clinic.Clinic, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*clinic.Clinic), args.Error(1)
}

func (m *MockClinicRepository) ListQuotaResetCandidates(ctx context.Context, now time.Time) ([]*clinic.Clinic, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*clinic.Clinic), args.Error(1)
}

func (m *MockClinicRepository) ResetQuotaCycle(ctx context.Context, clinicID int64, cycleStart time.Time) error {
	args := m.Called(ctx, clinicID, cycleStart)
	return args.Error(0)
}

func (m *MockClinicRepository) IncrementRemindersSent(ctx context.Context, clinicID int64) (bool, error) {
	args := m.Called(ctx, clinicID)
	return args.Bool(0), args.Error(1)
}

// MockVisitRepository is a mock implementation of visit.Repository
type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) Create(ctx context.Context, v *visit.Visit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVisitRepository) GetByID(ctx context.Context, id int64) (*visit.Visit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visit.Visit), args.Error(1)
}

func (m *MockVisitRepository) Update(ctx context.Context, v *visit.Visit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVisitRepository) ListByPet(ctx context.Context, petID int64) ([]*visit.Visit, error) {
	args := m.Called(ctx, petID)
	return args.Get(0).([]*visit.Visit), args.Error(1)
}

func (m *MockVisitRepository) ListDue(ctx context.Context, crit visit.DueCriteria) ([]*visit.Visit, error) {
	args := m.Called(ctx, crit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*visit.Visit), args.Error(1)
}

func (m *MockVisitRepository) CountDue(ctx context.Context, crit visit.DueCriteria) (int, error) {
	args := m.Called(ctx, crit)
	return args.Int(0), args.Error(1)
}

func (m *MockVisitRepository) ListDispatchCandidates(ctx context.Context, windowStart, windowEnd, now time.Time) ([]*visit.DispatchCandidate, error) {
	args := m.Called(ctx, windowStart, windowEnd, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*visit.DispatchCandidate), args.Error(1)
}

func (m *MockVisitRepository) SetReminderOutcome(ctx context.Context, visitID int64, outcome visit.ReminderOutcome) error {
	args := m.Called(ctx, visitID, outcome)
	return args.Error(0)
}

// MockMessagingClient is a mock implementation of messaging.Client
type MockMessagingClient struct {
	mock.Mock
}

func (m *MockMessagingClient) Send(ctx context.Context, toPhone string, body string) (*messaging.SendResult, error) {
	args := m.Called(ctx, toPhone, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.SendResult), args.Error(1)
}
