package api

import "time"

type RegionSummary struct {
	Name        string `json:"name"`
	APIURL      string `json:"api_url"`
	TenantCount int    `json:"tenant_count"`
}

type SweepRequest struct {
	Regions []string `json:"regions"`
}

type SweepSummary struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Regions    []RegionOutcome `json:"regions"`
}

type RegionOutcome struct {
	Region        string  `json:"region"`
	Tenants       int     `json:"tenants"`
	FailedTenants int     `json:"failed_tenants"`
	AuthError     *string `json:"auth_error,omitempty"`
}
