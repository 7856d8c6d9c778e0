package healthcheck

import (
	"strings"

	"github.com/de-tools/tenant-health/pkg/models/domain"
)

// Merge builds the tenant report from the settled source results. A failed
// source leaves its sentinels in place and records its error message.
func Merge(
	tenantID string,
	scoped domain.Result[*domain.ScopedSession],
	cloud domain.Result[domain.CloudAccountFreshness],
	analytics domain.Result[domain.AnalyticsHealth],
	financials domain.Result[domain.Financials],
	activity domain.Result[domain.Activity],
) domain.TenantHealthReport {
	report := sentinelReport(tenantID)

	if scoped.OK() && scoped.Value() != nil {
		name := scoped.Value().TenantName()
		report.TenantName = &name
	}

	if cloud.OK() {
		c := cloud.Value()
		report.AWSCUR = c.AWS
		report.AzureCUR = c.Azure
		report.GCPCUR = c.GCP
		report.AccountRefresh = c.AccountRefresh
		report.AccountCount = c.AccountCount
		detail := c.Detail
		report.ProviderDetail = &detail
	} else {
		report.CloudAccountsError = cloud.ErrorMessage()
	}

	if analytics.OK() {
		mergeAnalytics(&report, analytics.Value())
	} else {
		report.AnalyticsError = analytics.ErrorMessage()
	}

	if financials.OK() {
		f := financials.Value()
		report.YTDCost = &f.YTDCost
		report.YTDAsOf = f.YTDAsOf
		report.YTDStartDate = &f.YTDStartDate
		report.YTDEndDate = &f.YTDEndDate
		report.MonthlyInsightSavings = &f.MonthlyInsightSavings
		report.AnnualisedInsightSavings = &f.AnnualisedInsightSavings
		report.InsightsBreakdown = f.InsightsBreakdown
		report.ElasticityMonthlySavings = &f.ElasticityMonthlySavings
		report.ElasticityAnnualisedSavings = &f.ElasticityAnnualisedSavings
		report.ElasticityInstanceCount = f.ElasticityInstanceCount
	} else {
		report.FinancialsError = financials.ErrorMessage()
	}

	if activity.OK() {
		a := activity.Value()
		report.UniqueSignInUsers = a.UniqueSignInUsers
		report.TotalActivity = a.TotalActivity
		report.SignInCount = a.SignInCount
		report.SignInUsers = a.SignInUsers
	} else {
		report.ActivityError = activity.ErrorMessage()
	}

	return report
}

func mergeAnalytics(report *domain.TenantHealthReport, health domain.AnalyticsHealth) {
	var errs []string

	if health.AnomalyRun.OK() {
		check := health.AnomalyRun.Value()
		report.AnomalyRun = check.Status
		report.LastRefresh = check.LastEvent
		report.AnomalyHoursSince = check.AgeHours
		report.AnomalyDetail = check.Label
	} else {
		errs = append(errs, *health.AnomalyRun.ErrorMessage())
	}

	if health.Insights.OK() {
		check := health.Insights.Value()
		report.Insights = check.Status
		report.InsightCount = check.Count
		report.InsightsDetail = check.Label
	} else {
		errs = append(errs, *health.Insights.ErrorMessage())
	}

	if len(errs) > 0 {
		msg := strings.Join(errs, "; ")
		report.AnalyticsError = &msg
	}
}

func sentinelReport(tenantID string) domain.TenantHealthReport {
	return domain.TenantHealthReport{
		TenantID:       tenantID,
		AWSCUR:         domain.StatusError,
		AzureCUR:       domain.StatusError,
		GCPCUR:         domain.StatusError,
		AccountRefresh: domain.StatusError,
		AnomalyRun:     domain.StatusError,
		Insights:       domain.StatusError,
	}
}

// FailedReport is the report of a tenant whose assessment could not run at
// all. Every source carries the same error.
func FailedReport(tenantID string, err error) domain.TenantHealthReport {
	report := sentinelReport(tenantID)

	msg := err.Error()
	report.CloudAccountsError = &msg
	report.AnalyticsError = &msg
	report.FinancialsError = &msg
	report.ActivityError = &msg

	return report
}
