package fetchers

import (
	"context"

	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/store/columnar"
	"github.com/de-tools/tenant-health/pkg/store/document"
	"github.com/stretchr/testify/mock"
)

type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) Run(ctx context.Context, q document.Query, region domain.Region) ([]document.Record, error) {
	args := m.Called(ctx, q, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Record), args.Error(1)
}

type mockColumnar struct {
	mock.Mock
}

func (m *mockColumnar) Run(ctx context.Context, query string, params map[string]string, region domain.Region) ([]columnar.Record, error) {
	args := m.Called(ctx, query, params, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]columnar.Record), args.Error(1)
}

type mockFinancialAPI struct {
	mock.Mock
}

func (m *mockFinancialAPI) BillingCostByDate(ctx context.Context, token, startDate, endDate string) ([]api.BillingCost, error) {
	args := m.Called(ctx, token, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.BillingCost), args.Error(1)
}

func (m *mockFinancialAPI) InsightsPriority(ctx context.Context, token string) ([]api.InsightPriority, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.InsightPriority), args.Error(1)
}

func (m *mockFinancialAPI) InstanceSchedules(ctx context.Context, token, scheduleType string) ([]api.InstanceSchedule, error) {
	args := m.Called(ctx, token, scheduleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.InstanceSchedule), args.Error(1)
}

func ptr[T any](v T) *T {
	return &v
}
