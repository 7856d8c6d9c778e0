package adapters

import (
	"fmt"

	"github.com/de-tools/tenant-health/pkg/models/store"
	"github.com/de-tools/tenant-health/pkg/store/columnar"
)

func MapRecordToAnomalyRefresh(rec columnar.Record) (store.AnomalyRefreshRow, error) {
	last, err := asTime(rec["lastRefresh"])
	if err != nil {
		return store.AnomalyRefreshRow{}, fmt.Errorf("lastRefresh: %w", err)
	}

	return store.AnomalyRefreshRow{
		OrganizationID: asString(rec["organizationid"]),
		LastRefresh:    last,
	}, nil
}

func MapRecordToInsightCount(rec columnar.Record) (store.InsightCountRow, error) {
	n, err := asInt64(rec["insightCount"])
	if err != nil {
		return store.InsightCountRow{}, fmt.Errorf("insightCount: %w", err)
	}

	return store.InsightCountRow{InsightCount: n}, nil
}
