package columnar

import "time"

const dateLayout = "2006-01-02"

// AnomalyRefreshQuery selects the latest anomaly refresh of a tenant.
func AnomalyRefreshQuery(tenantID string) (string, map[string]string) {
	query := `SELECT
  organizationid,
  MAX(lastmodifieddate) AS lastRefresh
FROM anomalies_test
WHERE organizationid = {organizationId:String}
GROUP BY organizationid`

	return query, map[string]string{"organizationId": tenantID}
}

// PolicyInsightsQuery counts policy insights observed since the given day.
func PolicyInsightsQuery(tenantID string, since time.Time) (string, map[string]string) {
	query := `SELECT count(*) AS insightCount
FROM policy_insights_
WHERE organizationId = {organizationId:String}
  AND lastObserved >= {sevenDaysAgo:String}`

	return query, map[string]string{
		"organizationId": tenantID,
		"sevenDaysAgo":   since.UTC().Format(dateLayout),
	}
}
