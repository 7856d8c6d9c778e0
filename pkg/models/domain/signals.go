package domain

import "time"

// Staleness classifies the time since an account was last processed.
type Staleness struct {
	Status  Status   `json:"status"`
	AgeDays *float64 `json:"ageDays"`
	Label   string   `json:"label"`
}

// ProviderAccount is one cloud-provider account registered under a tenant.
type ProviderAccount struct {
	ID                         string     `json:"id"`
	TenantID                   string     `json:"tenantId"`
	CloudProvider              string     `json:"cloudProvider"`
	AccountName                string     `json:"accountName"`
	AccountNumber              string     `json:"accountNumber"`
	Region                     string     `json:"region"`
	LastProcessedTime          *time.Time `json:"lastProcessedTime"`
	IsProcessed                bool       `json:"isProcessed"`
	ValidationConnectionStatus string     `json:"validationConnectionStatus"`
	Staleness                  Staleness  `json:"staleness"`
}

// ProviderGroups holds accounts of the known provider types. Accounts of
// other types are not listed here.
type ProviderGroups struct {
	AWS   []ProviderAccount `json:"aws"`
	Azure []ProviderAccount `json:"azure"`
	GCP   []ProviderAccount `json:"gcp"`
}

// CloudAccountFreshness is the summarized cost-and-usage ingestion signal.
type CloudAccountFreshness struct {
	AWS            Status
	Azure          Status
	GCP            Status
	AccountRefresh Status
	AccountCount   int
	Detail         ProviderGroups
}

// RecencyCheck classifies the time since the latest analytics refresh.
type RecencyCheck struct {
	Status         Status
	LastEvent      *time.Time
	AgeHours       *float64
	ThresholdHours float64
	Label          string
}

// CountCheck classifies the number of analytics events in a window.
type CountCheck struct {
	Status     Status
	Count      int64
	WindowDays int
	Label      string
}

// AnalyticsHealth keeps both analytics sub-checks apart so that one failing
// query never hides the other.
type AnalyticsHealth struct {
	AnomalyRun Result[RecencyCheck]
	Insights   Result[CountCheck]
}

type InsightPriority struct {
	Priority string  `json:"priority"`
	Count    int     `json:"count"`
	Savings  float64 `json:"savings"`
}

// Financials is the cost and savings snapshot read with a tenant session.
type Financials struct {
	YTDCost                     float64
	YTDAsOf                     *string
	YTDStartDate                string
	YTDEndDate                  string
	MonthlyInsightSavings       float64
	AnnualisedInsightSavings    float64
	InsightsBreakdown           []InsightPriority
	ElasticityMonthlySavings    float64
	ElasticityAnnualisedSavings float64
	ElasticityInstanceCount     int
}

// Activity counts today's user activity of a tenant.
type Activity struct {
	TotalActivity     int64
	SignInCount       int64
	UniqueSignInUsers int64
	SignInUsers       []string
}
