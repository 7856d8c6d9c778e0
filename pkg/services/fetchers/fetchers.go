package fetchers

import (
	"errors"

	"github.com/de-tools/tenant-health/pkg/models/domain"
)

func sourceErr(source domain.Source, err error) error {
	var skipped *domain.SkippedError
	if errors.As(err, &skipped) {
		return err
	}
	return &domain.SourceError{Source: source, Cause: err}
}
