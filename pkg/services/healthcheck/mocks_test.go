package healthcheck

import (
	"context"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/session"
	"github.com/stretchr/testify/mock"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) ObtainPrivileged(ctx context.Context, creds session.Credentials) (*domain.PrivilegedSession, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrivilegedSession), args.Error(1)
}

func (m *mockSessions) ObtainScoped(
	ctx context.Context,
	privileged *domain.PrivilegedSession,
	tenantID string,
) (*domain.ScopedSession, error) {
	args := m.Called(ctx, privileged, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScopedSession), args.Error(1)
}

type mockCloudAccounts struct {
	mock.Mock
}

func (m *mockCloudAccounts) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.CloudAccountFreshness, error) {
	args := m.Called(ctx, region, tenantID)
	return args.Get(0).(domain.CloudAccountFreshness), args.Error(1)
}

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.AnalyticsHealth, error) {
	args := m.Called(ctx, region, tenantID)
	return args.Get(0).(domain.AnalyticsHealth), args.Error(1)
}

type mockFinancials struct {
	mock.Mock
}

func (m *mockFinancials) Fetch(ctx context.Context, session domain.Result[*domain.ScopedSession]) (domain.Financials, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(domain.Financials), args.Error(1)
}

type mockActivity struct {
	mock.Mock
}

func (m *mockActivity) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.Activity, error) {
	args := m.Called(ctx, region, tenantID)
	return args.Get(0).(domain.Activity), args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Publish(ctx context.Context, report domain.RegionReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
