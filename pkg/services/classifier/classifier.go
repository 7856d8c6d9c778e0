package classifier

import (
	"fmt"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
)

const (
	WarningDays  = 2.0
	CriticalDays = 3.0

	DefaultRecencyThresholdHours = 24.0
	DefaultCountWindowDays       = 7
)

// Staleness classifies the age of an account's last processing run.
// Bands are inclusive on their lower bound.
func Staleness(last *time.Time, now time.Time) domain.Staleness {
	if last == nil {
		return domain.Staleness{Status: domain.StatusUnknown, Label: "Never processed"}
	}

	age := now.Sub(*last).Hours() / 24
	result := domain.Staleness{
		Status:  domain.StatusOK,
		AgeDays: &age,
		Label:   fmt.Sprintf("%.1f days ago", age),
	}

	switch {
	case age >= CriticalDays:
		result.Status = domain.StatusCritical
	case age >= WarningDays:
		result.Status = domain.StatusWarning
	}

	return result
}

// Recency classifies the time since the last analytics refresh against a
// threshold in hours. A missing refresh is flagged.
func Recency(last *time.Time, now time.Time, thresholdHours float64) domain.RecencyCheck {
	if last == nil {
		return domain.RecencyCheck{
			Status:         domain.StatusFlagged,
			ThresholdHours: thresholdHours,
			Label:          "No records found",
		}
	}

	age := now.Sub(*last).Hours()
	check := domain.RecencyCheck{
		Status:         domain.StatusOK,
		LastEvent:      last,
		AgeHours:       &age,
		ThresholdHours: thresholdHours,
		Label:          fmt.Sprintf("%.1f hours ago", age),
	}

	if age > thresholdHours {
		check.Status = domain.StatusFlagged
		check.Label = fmt.Sprintf("%.1f hours ago, exceeds %gh threshold", age, thresholdHours)
	}

	return check
}

func Count(count int64, windowDays int) domain.CountCheck {
	if count > 0 {
		return domain.CountCheck{
			Status:     domain.StatusOK,
			Count:      count,
			WindowDays: windowDays,
			Label:      fmt.Sprintf("%d insight(s) found in last %d days", count, windowDays),
		}
	}

	return domain.CountCheck{
		Status:     domain.StatusFlagged,
		WindowDays: windowDays,
		Label:      fmt.Sprintf("0 insights found in last %d days", windowDays),
	}
}

// AllOK reduces a set of staleness statuses to one boolean indicator.
func AllOK(statuses []domain.Status) domain.Status {
	if len(statuses) == 0 {
		return domain.StatusNotApplicable
	}

	for _, s := range statuses {
		if s != domain.StatusOK {
			return domain.StatusFail
		}
	}

	return domain.StatusPass
}
