package domain

// Region selects a deployment partition with its own endpoints and credentials.
type Region string

func (r Region) String() string {
	return string(r)
}

// Source names one of the four signal families gathered per tenant.
type Source string

const (
	SourceCloudAccounts Source = "cloud_accounts"
	SourceAnalytics     Source = "analytics"
	SourceFinancials    Source = "financials"
	SourceActivity      Source = "activity"
)

// ProviderType is the short name of a supported cloud provider.
type ProviderType string

const (
	ProviderAWS   ProviderType = "aws"
	ProviderAzure ProviderType = "azure"
	ProviderGCP   ProviderType = "gcp"
)
