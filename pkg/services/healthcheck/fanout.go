package healthcheck

import (
	"context"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/guard"
	"github.com/de-tools/tenant-health/pkg/services/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CloudAccountsFetcher interface {
	Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.CloudAccountFreshness, error)
}

type AnalyticsFetcher interface {
	Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.AnalyticsHealth, error)
}

type FinancialsFetcher interface {
	Fetch(ctx context.Context, session domain.Result[*domain.ScopedSession]) (domain.Financials, error)
}

type ActivityFetcher interface {
	Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.Activity, error)
}

// Fetchers bundles the four sources of one region.
type Fetchers struct {
	CloudAccounts CloudAccountsFetcher
	Analytics     AnalyticsFetcher
	Financials    FinancialsFetcher
	Activity      ActivityFetcher
}

// FanOut assesses single tenants of one region.
type FanOut struct {
	region   domain.Region
	sessions session.Manager
	fetchers Fetchers
}

func NewFanOut(region domain.Region, sessions session.Manager, fetchers Fetchers) *FanOut {
	return &FanOut{region: region, sessions: sessions, fetchers: fetchers}
}

// Assess gathers all four sources of a tenant concurrently and merges them.
// Session-independent sources start right away. The financial lane first
// obtains the scoped session and then reads with it. Assess waits for every
// lane and never fails.
func (f *FanOut) Assess(
	ctx context.Context,
	tenantID string,
	privileged domain.Result[*domain.PrivilegedSession],
) domain.TenantHealthReport {
	logger := zerolog.Ctx(ctx).With().Str("tenant", tenantID).Logger()
	ctx = logger.WithContext(ctx)

	var (
		g          errgroup.Group
		scoped     domain.Result[*domain.ScopedSession]
		cloud      domain.Result[domain.CloudAccountFreshness]
		analytics  domain.Result[domain.AnalyticsHealth]
		financials domain.Result[domain.Financials]
		activity   domain.Result[domain.Activity]
	)

	g.Go(func() error {
		cloud = guard.Isolate(ctx, "cloud_accounts", func(ctx context.Context) (domain.CloudAccountFreshness, error) {
			return f.fetchers.CloudAccounts.Fetch(ctx, f.region, tenantID)
		})
		return nil
	})

	g.Go(func() error {
		analytics = guard.Isolate(ctx, "analytics", func(ctx context.Context) (domain.AnalyticsHealth, error) {
			return f.fetchers.Analytics.Fetch(ctx, f.region, tenantID)
		})
		return nil
	})

	g.Go(func() error {
		scoped = f.scopedSession(ctx, tenantID, privileged)
		financials = guard.Isolate(ctx, "financials", func(ctx context.Context) (domain.Financials, error) {
			return f.fetchers.Financials.Fetch(ctx, scoped)
		})
		return nil
	})

	g.Go(func() error {
		activity = guard.Isolate(ctx, "activity", func(ctx context.Context) (domain.Activity, error) {
			return f.fetchers.Activity.Fetch(ctx, f.region, tenantID)
		})
		return nil
	})

	_ = g.Wait()

	report := Merge(tenantID, scoped, cloud, analytics, financials, activity)
	logSummary(ctx, report)

	return report
}

func (f *FanOut) scopedSession(
	ctx context.Context,
	tenantID string,
	privileged domain.Result[*domain.PrivilegedSession],
) domain.Result[*domain.ScopedSession] {
	if !privileged.OK() {
		return domain.Err[*domain.ScopedSession](privileged.Err())
	}

	scoped := guard.Isolate(ctx, "scoped_session", func(ctx context.Context) (*domain.ScopedSession, error) {
		return f.sessions.ObtainScoped(ctx, privileged.Value(), tenantID)
	})
	if !scoped.OK() {
		zerolog.Ctx(ctx).Warn().Err(scoped.Err()).Msg("could not assume tenant role")
	}

	return scoped
}

func logSummary(ctx context.Context, r domain.TenantHealthReport) {
	event := zerolog.Ctx(ctx).Info().
		Str("aws", r.AWSCUR.String()).
		Str("azure", r.AzureCUR.String()).
		Str("gcp", r.GCPCUR.String()).
		Str("refresh", r.AccountRefresh.String()).
		Str("anomaly", r.AnomalyRun.String()).
		Str("insights", r.Insights.String()).
		Int64("users", r.UniqueSignInUsers).
		Int64("activities", r.TotalActivity)
	if r.YTDCost != nil {
		event = event.Float64("ytd", *r.YTDCost)
	}
	if r.TenantName != nil {
		event = event.Str("tenant_name", *r.TenantName)
	}
	event.Bool("degraded", r.Failed()).Msg("tenant assessed")
}
