package store

import "time"

type AnomalyRefreshRow struct {
	OrganizationID string
	LastRefresh    *time.Time
}

type InsightCountRow struct {
	InsightCount int64
}
