package domain

// Status is the closed vocabulary every health signal is reduced to.
type Status string

const (
	// Staleness of a time-since-event signal.
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
	StatusUnknown  Status = "UNKNOWN"

	// Boolean health checks.
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"

	// Threshold-exceeded analytics checks.
	StatusFlagged Status = "FLAGGED"

	// The signal could not be obtained at all.
	StatusError Status = "ERROR"

	// Nothing to check, e.g. a tenant without accounts of a provider type.
	StatusNotApplicable Status = "N/A"
)

func (s Status) String() string {
	return string(s)
}
