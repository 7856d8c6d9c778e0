package domain

import "time"

// TenantHealthReport is the merged outcome of every source for one tenant.
// Fields of a failed source hold sentinels and the matching *Error field
// carries the cause.
type TenantHealthReport struct {
	TenantID   string  `json:"tenantId"`
	TenantName *string `json:"tenantName"`

	AWSCUR         Status          `json:"awsCur"`
	AzureCUR       Status          `json:"azureCur"`
	GCPCUR         Status          `json:"gcpCur"`
	AccountRefresh Status          `json:"accountRefresh"`
	AccountCount   int             `json:"accountCount"`
	ProviderDetail *ProviderGroups `json:"providerDetail"`

	AnomalyRun        Status     `json:"anomalyRun"`
	LastRefresh       *time.Time `json:"lastRefresh"`
	AnomalyHoursSince *float64   `json:"anomalyHoursSince"`
	AnomalyDetail     string     `json:"anomalyDetail,omitempty"`
	Insights          Status     `json:"insights"`
	InsightCount      int64      `json:"insightCount"`
	InsightsDetail    string     `json:"insightsDetail,omitempty"`

	YTDCost                     *float64          `json:"ytdCost"`
	YTDAsOf                     *string           `json:"ytdAsOf"`
	YTDStartDate                *string           `json:"ytdStartDate"`
	YTDEndDate                  *string           `json:"ytdEndDate"`
	MonthlyInsightSavings       *float64          `json:"monthlyInsightSavings"`
	AnnualisedInsightSavings    *float64          `json:"annualisedInsightSavings"`
	InsightsBreakdown           []InsightPriority `json:"insightsBreakdown"`
	ElasticityMonthlySavings    *float64          `json:"elasticityMonthlySavings"`
	ElasticityAnnualisedSavings *float64          `json:"elasticityAnnualisedSavings"`
	ElasticityInstanceCount     int               `json:"elasticityInstanceCount"`

	UniqueSignInUsers int64    `json:"uniqueSignInUsers"`
	TotalActivity     int64    `json:"totalActivity"`
	SignInCount       int64    `json:"signInCount"`
	SignInUsers       []string `json:"signInUsers"`

	CloudAccountsError *string `json:"cloudAccountsError"`
	AnalyticsError     *string `json:"analyticsError"`
	FinancialsError    *string `json:"financialsError"`
	ActivityError      *string `json:"activityError"`
}

// Errors lists the four per-source error messages in a fixed order.
func (r TenantHealthReport) Errors() []*string {
	return []*string{r.CloudAccountsError, r.AnalyticsError, r.FinancialsError, r.ActivityError}
}

// Failed reports whether at least one source could not be read.
func (r TenantHealthReport) Failed() bool {
	for _, e := range r.Errors() {
		if e != nil {
			return true
		}
	}
	return false
}

type RegionReport struct {
	Region      Region               `json:"region"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Tenants     []TenantHealthReport `json:"tenants"`
	AuthError   *string              `json:"authError,omitempty"`
}

// Sweep is everything one run produced, regions in configured order.
type Sweep struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Regions    []RegionReport `json:"regions"`
}
