package store

import "time"

// ProviderDocument is a document of the providers collection.
type ProviderDocument struct {
	ID                         string
	OrganizationID             string
	CloudProvider              string
	AccountName                string
	AccountNumber              string
	Region                     string
	LastProcessedTime          *time.Time
	IsProcessed                bool
	ValidationConnectionStatus string
}

// ActivityDocument is one group produced by the user-tracking aggregation.
type ActivityDocument struct {
	OrganizationID    string
	OrganizationName  string
	TotalActivity     int64
	SignInCount       int64
	UniqueSignInUsers int64
	SignInUsers       []string
}
