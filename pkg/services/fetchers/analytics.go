package fetchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/tenant-health/pkg/adapters"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/classifier"
	"github.com/de-tools/tenant-health/pkg/services/guard"
	"github.com/de-tools/tenant-health/pkg/store/columnar"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Analytics checks the anomaly job and the policy insights of a tenant. The
// two queries run side by side and fail independently.
type Analytics struct {
	cols           columnar.Executor
	thresholdHours float64
	windowDays     int
	now            func() time.Time
}

func NewAnalytics(cols columnar.Executor, thresholdHours float64, windowDays int, now func() time.Time) *Analytics {
	if thresholdHours <= 0 {
		thresholdHours = classifier.DefaultRecencyThresholdHours
	}
	if windowDays <= 0 {
		windowDays = classifier.DefaultCountWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Analytics{cols: cols, thresholdHours: thresholdHours, windowDays: windowDays, now: now}
}

// Fetch returns an error only when both sub-checks failed. A single failure
// is carried inside the returned AnalyticsHealth.
func (f *Analytics) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.AnalyticsHealth, error) {
	now := f.now()

	var (
		g      errgroup.Group
		health domain.AnalyticsHealth
	)

	// each sub-query is guarded on its own goroutine so a panic in one
	// leaves the other intact
	g.Go(func() error {
		health.AnomalyRun = guard.Isolate(ctx, "anomaly_run", func(ctx context.Context) (domain.RecencyCheck, error) {
			return f.anomalyRun(ctx, region, tenantID, now)
		})
		return nil
	})

	g.Go(func() error {
		health.Insights = guard.Isolate(ctx, "insights", func(ctx context.Context) (domain.CountCheck, error) {
			return f.insights(ctx, region, tenantID, now)
		})
		return nil
	})

	_ = g.Wait()

	anomalyErr, countErr := health.AnomalyRun.Err(), health.Insights.Err()
	if anomalyErr != nil && countErr != nil {
		return health, sourceErr(domain.SourceAnalytics, errors.Join(anomalyErr, countErr))
	}
	if anomalyErr != nil {
		health.AnomalyRun = domain.Err[domain.RecencyCheck](sourceErr(domain.SourceAnalytics, anomalyErr))
	}
	if countErr != nil {
		health.Insights = domain.Err[domain.CountCheck](sourceErr(domain.SourceAnalytics, countErr))
	}

	zerolog.Ctx(ctx).Debug().
		Str("tenant", tenantID).
		Str("anomaly", statusOf(health.AnomalyRun.OK(), health.AnomalyRun.Value().Status)).
		Str("insights", statusOf(health.Insights.OK(), health.Insights.Value().Status)).
		Msg("analytics checked")

	return health, nil
}

func (f *Analytics) anomalyRun(ctx context.Context, region domain.Region, tenantID string, now time.Time) (domain.RecencyCheck, error) {
	query, params := columnar.AnomalyRefreshQuery(tenantID)
	records, err := f.cols.Run(ctx, query, params, region)
	if err != nil {
		return domain.RecencyCheck{}, fmt.Errorf("anomaly run: %w", err)
	}

	var last *time.Time
	if len(records) > 0 {
		row, err := adapters.MapRecordToAnomalyRefresh(records[0])
		if err != nil {
			return domain.RecencyCheck{}, fmt.Errorf("anomaly run: %w", err)
		}
		last = row.LastRefresh
	}

	return classifier.Recency(last, now, f.thresholdHours), nil
}

func (f *Analytics) insights(ctx context.Context, region domain.Region, tenantID string, now time.Time) (domain.CountCheck, error) {
	since := now.AddDate(0, 0, -f.windowDays)
	query, params := columnar.PolicyInsightsQuery(tenantID, since)
	records, err := f.cols.Run(ctx, query, params, region)
	if err != nil {
		return domain.CountCheck{}, fmt.Errorf("insights: %w", err)
	}

	var count int64
	if len(records) > 0 {
		row, err := adapters.MapRecordToInsightCount(records[0])
		if err != nil {
			return domain.CountCheck{}, fmt.Errorf("insights: %w", err)
		}
		count = row.InsightCount
	}

	return classifier.Count(count, f.windowDays), nil
}

func statusOf(ok bool, s domain.Status) string {
	if !ok {
		return domain.StatusError.String()
	}
	return s.String()
}
