package healthcheck

import (
	"context"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/guard"
	"github.com/de-tools/tenant-health/pkg/services/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sink receives the finished report of each region.
type Sink interface {
	Publish(ctx context.Context, report domain.RegionReport) error
}

// RegionEnv is everything needed to sweep one region.
type RegionEnv struct {
	Region      domain.Region
	Credentials session.Credentials
	Tenants     []string
	Sessions    session.Manager
	Fetchers    Fetchers
}

type Runner struct {
	sink              Sink
	tenantConcurrency int
	now               func() time.Time
}

func NewRunner(sink Sink, tenantConcurrency int, now func() time.Time) *Runner {
	if tenantConcurrency < 1 {
		tenantConcurrency = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Runner{sink: sink, tenantConcurrency: tenantConcurrency, now: now}
}

// Run sweeps the regions one after another. Failures of a region, a tenant or
// a source end up in the returned reports.
func (r *Runner) Run(ctx context.Context, envs []RegionEnv) domain.Sweep {
	sweep := domain.Sweep{StartedAt: r.now()}

	for _, env := range envs {
		sweep.Regions = append(sweep.Regions, r.RunRegion(ctx, env))
	}

	sweep.FinishedAt = r.now()
	return sweep
}

func (r *Runner) RunRegion(ctx context.Context, env RegionEnv) domain.RegionReport {
	logger := zerolog.Ctx(ctx).With().Str("region", env.Region.String()).Logger()
	ctx = logger.WithContext(ctx)

	report := domain.RegionReport{Region: env.Region, GeneratedAt: r.now()}

	if len(env.Tenants) == 0 {
		logger.Warn().Msg("no tenants configured, skipping region")
		return report
	}

	logger.Info().Int("tenants", len(env.Tenants)).Msg("starting region")

	privileged := guard.Isolate(ctx, "privileged_session", func(ctx context.Context) (*domain.PrivilegedSession, error) {
		return env.Sessions.ObtainPrivileged(ctx, env.Credentials)
	})
	if !privileged.OK() {
		logger.Error().Err(privileged.Err()).Msg("login failed, financials will be unavailable for this region")
		report.AuthError = privileged.ErrorMessage()
	}

	fanOut := NewFanOut(env.Region, env.Sessions, env.Fetchers)
	reports := make([]domain.TenantHealthReport, len(env.Tenants))

	var g errgroup.Group
	g.SetLimit(r.tenantConcurrency)
	for i, tenantID := range env.Tenants {
		g.Go(func() error {
			result := guard.Isolate(ctx, "tenant", func(ctx context.Context) (domain.TenantHealthReport, error) {
				return fanOut.Assess(ctx, tenantID, privileged), nil
			})
			if !result.OK() {
				logger.Error().Err(result.Err()).Str("tenant", tenantID).Msg("tenant assessment failed")
				reports[i] = FailedReport(tenantID, result.Err())
				return nil
			}
			reports[i] = result.Value()
			return nil
		})
	}
	_ = g.Wait()

	report.Tenants = reports
	report.GeneratedAt = r.now()

	if r.sink != nil {
		published := guard.Isolate(ctx, "publish", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.sink.Publish(ctx, report)
		})
		if !published.OK() {
			logger.Error().Err(published.Err()).Msg("failed to publish region report")
		}
	}

	logger.Info().Int("tenants", len(reports)).Msg("region complete")
	return report
}
