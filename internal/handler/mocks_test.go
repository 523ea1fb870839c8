package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/resolver"
)

// MockPlannerService mocks planner.Service
type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) LoadJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlannerService) Jobs(ctx context.Context) []domain.JobConfig {
	args := m.Called(ctx)
	return args.Get(0).([]domain.JobConfig)
}

func (m *MockPlannerService) SetJobLevel(ctx context.Context, jobID, level int) (int, error) {
	args := m.Called(ctx, jobID, level)
	return args.Int(0), args.Error(1)
}

func (m *MockPlannerService) Search(ctx context.Context, text string) ([]domain.Recipe, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *MockPlannerService) Rows(ctx context.Context) ([]resolver.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]resolver.Row), args.Error(1)
}

func (m *MockPlannerService) Recipe(ctx context.Context, id int) (resolver.Row, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(resolver.Row), args.Error(1)
}

func (m *MockPlannerService) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlannerService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAutoRefresher mocks AutoRefresher
type MockAutoRefresher struct {
	mock.Mock
}

func (m *MockAutoRefresher) SetEnabled(enabled bool) {
	m.Called(enabled)
}

func (m *MockAutoRefresher) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAutoRefresher) Interval() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
