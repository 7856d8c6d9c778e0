package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sessions   *mockSessions
	cloud      *mockCloudAccounts
	analytics  *mockAnalytics
	financials *mockFinancials
	activity   *mockActivity
}

func newFixture() *fixture {
	return &fixture{
		sessions:   new(mockSessions),
		cloud:      new(mockCloudAccounts),
		analytics:  new(mockAnalytics),
		financials: new(mockFinancials),
		activity:   new(mockActivity),
	}
}

func (f *fixture) fetchers() Fetchers {
	return Fetchers{
		CloudAccounts: f.cloud,
		Analytics:     f.analytics,
		Financials:    f.financials,
		Activity:      f.activity,
	}
}

func (f *fixture) fanOut() *FanOut {
	return NewFanOut("us", f.sessions, f.fetchers())
}

var (
	admin = domain.NewPrivilegedSession("us", "ops@example.com", "admin-token")

	healthyCloud = domain.CloudAccountFreshness{
		AWS:            domain.StatusPass,
		Azure:          domain.StatusNotApplicable,
		GCP:            domain.StatusFail,
		AccountRefresh: domain.StatusFail,
		AccountCount:   2,
	}

	lastRefresh = time.Date(2026, 2, 21, 11, 15, 32, 0, time.UTC)
	refreshAge  = 8.7

	healthyAnalytics = domain.AnalyticsHealth{
		AnomalyRun: domain.Ok(domain.RecencyCheck{Status: domain.StatusOK, LastEvent: &lastRefresh, AgeHours: &refreshAge}),
		Insights:   domain.Ok(domain.CountCheck{Status: domain.StatusOK, Count: 4, WindowDays: 7}),
	}

	healthyFinancials = domain.Financials{
		YTDCost:                     1250.5,
		YTDStartDate:                "2026-01-01",
		YTDEndDate:                  "2026-12-31",
		MonthlyInsightSavings:       150,
		AnnualisedInsightSavings:    1800,
		ElasticityMonthlySavings:    25,
		ElasticityAnnualisedSavings: 300,
		ElasticityInstanceCount:     3,
	}

	healthyActivity = domain.Activity{TotalActivity: 9, SignInCount: 3, UniqueSignInUsers: 2, SignInUsers: []string{"a@x", "b@x"}}
)

func scopedOK(r domain.Result[*domain.ScopedSession]) bool {
	return r.OK()
}

func scopedFailed(r domain.Result[*domain.ScopedSession]) bool {
	return !r.OK()
}

func (f *fixture) expectHealthy(tenantID string) {
	f.sessions.On("ObtainScoped", mock.Anything, admin, tenantID).
		Return(domain.NewScopedSession("us", tenantID, "Tenant "+tenantID, "tenant-token-"+tenantID), nil)
	f.cloud.On("Fetch", mock.Anything, domain.Region("us"), tenantID).Return(healthyCloud, nil)
	f.analytics.On("Fetch", mock.Anything, domain.Region("us"), tenantID).Return(healthyAnalytics, nil)
	f.financials.On("Fetch", mock.Anything, mock.MatchedBy(func(r domain.Result[*domain.ScopedSession]) bool {
		return r.OK() && r.Value().TenantID() == tenantID
	})).Return(healthyFinancials, nil)
	f.activity.On("Fetch", mock.Anything, domain.Region("us"), tenantID).Return(healthyActivity, nil)
}

func TestFanOut_Assess_AllSourcesSucceed(t *testing.T) {
	f := newFixture()
	f.expectHealthy("org-1")

	report := f.fanOut().Assess(context.Background(), "org-1", domain.Ok(admin))

	assert.Equal(t, "org-1", report.TenantID)
	require.NotNil(t, report.TenantName)
	assert.Equal(t, "Tenant org-1", *report.TenantName)
	assert.Equal(t, domain.StatusPass, report.AWSCUR)
	assert.Equal(t, domain.StatusFail, report.AccountRefresh)
	assert.NotNil(t, report.ProviderDetail)
	assert.Equal(t, domain.StatusOK, report.AnomalyRun)
	assert.Equal(t, int64(4), report.InsightCount)
	require.NotNil(t, report.YTDCost)
	assert.Equal(t, 1250.5, *report.YTDCost)
	require.NotNil(t, report.MonthlyInsightSavings)
	assert.Equal(t, 150.0, *report.MonthlyInsightSavings)
	require.NotNil(t, report.ElasticityMonthlySavings)
	assert.Equal(t, 25.0, *report.ElasticityMonthlySavings)
	assert.Equal(t, 300.0, *report.ElasticityAnnualisedSavings)
	assert.Equal(t, int64(2), report.UniqueSignInUsers)
	assert.False(t, report.Failed())

	f.sessions.AssertExpectations(t)
	f.financials.AssertExpectations(t)
}

func TestFanOut_Assess_OneSourceFails(t *testing.T) {
	f := newFixture()
	f.sessions.On("ObtainScoped", mock.Anything, admin, "org-1").
		Return(domain.NewScopedSession("us", "org-1", "Acme", "tenant-token"), nil)
	f.cloud.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyCloud, nil)
	f.analytics.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyAnalytics, nil)
	f.financials.On("Fetch", mock.Anything, mock.MatchedBy(scopedOK)).Return(healthyFinancials, nil)
	f.activity.On("Fetch", mock.Anything, domain.Region("us"), "org-1").
		Return(domain.Activity{}, &domain.SourceError{Source: domain.SourceActivity, Cause: errors.New("socket timeout")})

	report := f.fanOut().Assess(context.Background(), "org-1", domain.Ok(admin))

	require.NotNil(t, report.ActivityError)
	assert.Equal(t, "activity: socket timeout", *report.ActivityError)
	assert.Nil(t, report.CloudAccountsError)
	assert.Nil(t, report.AnalyticsError)
	assert.Nil(t, report.FinancialsError)
	assert.Equal(t, int64(0), report.TotalActivity)
	assert.Equal(t, domain.StatusPass, report.AWSCUR)
	assert.Equal(t, domain.StatusOK, report.Insights)
	require.NotNil(t, report.YTDCost)
}

func TestFanOut_Assess_NoPrivilegedSession(t *testing.T) {
	f := newFixture()
	authErr := &domain.AuthError{Region: "us", Cause: errors.New("invalid credentials")}
	f.cloud.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyCloud, nil)
	f.analytics.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyAnalytics, nil)
	f.financials.On("Fetch", mock.Anything, mock.MatchedBy(scopedFailed)).
		Return(domain.Financials{}, &domain.SkippedError{Source: domain.SourceFinancials, Reason: authErr})
	f.activity.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyActivity, nil)

	report := f.fanOut().Assess(context.Background(), "org-1", domain.Err[*domain.PrivilegedSession](authErr))

	require.NotNil(t, report.FinancialsError)
	assert.Contains(t, *report.FinancialsError, "invalid credentials")
	assert.Nil(t, report.YTDCost)
	assert.Nil(t, report.AnnualisedInsightSavings)
	assert.Nil(t, report.ElasticityAnnualisedSavings)
	assert.Nil(t, report.TenantName)

	assert.Equal(t, domain.StatusPass, report.AWSCUR)
	assert.Equal(t, domain.StatusOK, report.AnomalyRun)
	assert.Equal(t, int64(9), report.TotalActivity)
	assert.Nil(t, report.CloudAccountsError)
	assert.Nil(t, report.ActivityError)

	f.sessions.AssertNotCalled(t, "ObtainScoped", mock.Anything, mock.Anything, mock.Anything)
}

func TestFanOut_Assess_ScopeFailureOnlyAffectsFinancials(t *testing.T) {
	f := newFixture()
	scopeErr := &domain.ScopeError{TenantID: "org-1", Cause: errors.New("role assumption was not confirmed")}
	f.sessions.On("ObtainScoped", mock.Anything, admin, "org-1").Return(nil, scopeErr)
	f.cloud.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyCloud, nil)
	f.analytics.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyAnalytics, nil)
	f.financials.On("Fetch", mock.Anything, mock.MatchedBy(func(r domain.Result[*domain.ScopedSession]) bool {
		return errors.Is(r.Err(), scopeErr)
	})).Return(domain.Financials{}, &domain.SkippedError{Source: domain.SourceFinancials, Reason: scopeErr})
	f.activity.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyActivity, nil)

	report := f.fanOut().Assess(context.Background(), "org-1", domain.Ok(admin))

	require.NotNil(t, report.FinancialsError)
	assert.Equal(t, "financials skipped: scope [org-1]: role assumption was not confirmed", *report.FinancialsError)
	assert.Nil(t, report.CloudAccountsError)
	assert.Nil(t, report.AnalyticsError)
	assert.Nil(t, report.ActivityError)
	f.financials.AssertExpectations(t)
}

func TestFanOut_Assess_PanickingFetcherIsContained(t *testing.T) {
	f := newFixture()
	f.sessions.On("ObtainScoped", mock.Anything, admin, "org-1").
		Return(domain.NewScopedSession("us", "org-1", "Acme", "tenant-token"), nil)
	f.cloud.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyCloud, nil)
	f.analytics.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Panic("nil row")
	f.financials.On("Fetch", mock.Anything, mock.MatchedBy(scopedOK)).Return(healthyFinancials, nil)
	f.activity.On("Fetch", mock.Anything, domain.Region("us"), "org-1").Return(healthyActivity, nil)

	report := f.fanOut().Assess(context.Background(), "org-1", domain.Ok(admin))

	require.NotNil(t, report.AnalyticsError)
	assert.Contains(t, *report.AnalyticsError, "panicked")
	assert.Equal(t, domain.StatusError, report.AnomalyRun)
	assert.Equal(t, domain.StatusError, report.Insights)
	assert.Equal(t, domain.StatusPass, report.AWSCUR)
}

func TestMerge_PartialAnalytics(t *testing.T) {
	health := domain.AnalyticsHealth{
		AnomalyRun: domain.Err[domain.RecencyCheck](errors.New("analytics: anomaly run: read timeout")),
		Insights:   domain.Ok(domain.CountCheck{Status: domain.StatusFlagged, WindowDays: 7}),
	}

	report := Merge(
		"org-1",
		domain.Err[*domain.ScopedSession](errors.New("no session")),
		domain.Ok(healthyCloud),
		domain.Ok(health),
		domain.Err[domain.Financials](errors.New("skipped")),
		domain.Ok(healthyActivity),
	)

	assert.Equal(t, domain.StatusError, report.AnomalyRun)
	assert.Equal(t, domain.StatusFlagged, report.Insights)
	require.NotNil(t, report.AnalyticsError)
	assert.Equal(t, "analytics: anomaly run: read timeout", *report.AnalyticsError)
	assert.Nil(t, report.AnomalyHoursSince)
}

func TestFailedReport(t *testing.T) {
	report := FailedReport("org-1", errors.New("tenant panicked"))

	assert.Equal(t, "org-1", report.TenantID)
	for _, status := range []domain.Status{
		report.AWSCUR, report.AzureCUR, report.GCPCUR, report.AccountRefresh, report.AnomalyRun, report.Insights,
	} {
		assert.Equal(t, domain.StatusError, status)
	}
	for _, msg := range report.Errors() {
		require.NotNil(t, msg)
		assert.Equal(t, "tenant panicked", *msg)
	}
	assert.Nil(t, report.YTDCost)
}
