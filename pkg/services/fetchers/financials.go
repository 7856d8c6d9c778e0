package fetchers

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/tenant-health/pkg/adapters"
	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	ElasticityAgentSchedule = "ELASTICITY_AGENT"

	monthsPerYear = 12
)

// FinancialAPI is the tenant-scoped part of the platform client.
type FinancialAPI interface {
	BillingCostByDate(ctx context.Context, token, startDate, endDate string) ([]api.BillingCost, error)
	InsightsPriority(ctx context.Context, token string) ([]api.InsightPriority, error)
	InstanceSchedules(ctx context.Context, token, scheduleType string) ([]api.InstanceSchedule, error)
}

type Financials struct {
	api FinancialAPI
	now func() time.Time
}

func NewFinancials(client FinancialAPI, now func() time.Time) *Financials {
	if now == nil {
		now = time.Now
	}
	return &Financials{api: client, now: now}
}

// Fetch reads year-to-date cost and savings with one scoped session. When the
// session could not be obtained nothing is called and a *domain.SkippedError
// is returned.
func (f *Financials) Fetch(ctx context.Context, session domain.Result[*domain.ScopedSession]) (domain.Financials, error) {
	logger := zerolog.Ctx(ctx)

	if !session.OK() || session.Value() == nil {
		reason := session.Err()
		if reason == nil {
			reason = domain.ErrNoScopedSession
		}
		return domain.Financials{}, &domain.SkippedError{Source: domain.SourceFinancials, Reason: reason}
	}
	token := session.Value().Token()

	year := f.now().Year()
	out := domain.Financials{
		YTDStartDate: fmt.Sprintf("%d-01-01", year),
		YTDEndDate:   fmt.Sprintf("%d-12-31", year),
	}

	costs, err := f.api.BillingCostByDate(ctx, token, out.YTDStartDate, out.YTDEndDate)
	if err != nil {
		return domain.Financials{}, sourceErr(domain.SourceFinancials, err)
	}
	for _, c := range costs {
		if c.Cost != nil {
			out.YTDCost += *c.Cost
		}
	}
	if len(costs) > 0 {
		out.YTDAsOf = costs[0].AsOf
	}

	insights, err := f.api.InsightsPriority(ctx, token)
	if err != nil {
		return domain.Financials{}, sourceErr(domain.SourceFinancials, err)
	}
	out.InsightsBreakdown = adapters.MapAPIInsightsToDomain(insights)
	for _, i := range out.InsightsBreakdown {
		out.MonthlyInsightSavings += i.Savings
	}
	out.AnnualisedInsightSavings = out.MonthlyInsightSavings * monthsPerYear

	schedules, err := f.api.InstanceSchedules(ctx, token, ElasticityAgentSchedule)
	if err != nil {
		return domain.Financials{}, sourceErr(domain.SourceFinancials, err)
	}
	for _, s := range schedules {
		if s.PotentialMonthlySavings != nil {
			out.ElasticityMonthlySavings += *s.PotentialMonthlySavings
		}
	}
	out.ElasticityAnnualisedSavings = out.ElasticityMonthlySavings * monthsPerYear
	out.ElasticityInstanceCount = len(schedules)

	logger.Debug().
		Str("tenant", session.Value().TenantID()).
		Float64("ytd_cost", out.YTDCost).
		Float64("insight_savings", out.AnnualisedInsightSavings).
		Float64("elasticity_savings", out.ElasticityAnnualisedSavings).
		Msg("financials fetched")

	return out, nil
}
