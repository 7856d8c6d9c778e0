package fetchers

import (
	"context"
	"time"

	"github.com/de-tools/tenant-health/pkg/adapters"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/store/document"
)

// Activity counts today's user events of a tenant, from local midnight up to
// now.
type Activity struct {
	docs         document.Executor
	ignoreEmails []string
	now          func() time.Time
}

func NewActivity(docs document.Executor, ignoreEmails []string, now func() time.Time) *Activity {
	if now == nil {
		now = time.Now
	}
	return &Activity{docs: docs, ignoreEmails: ignoreEmails, now: now}
}

func (f *Activity) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.Activity, error) {
	now := f.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	records, err := f.docs.Run(ctx, document.ActivityQuery([]string{tenantID}, f.ignoreEmails, midnight, now), region)
	if err != nil {
		return domain.Activity{}, sourceErr(domain.SourceActivity, err)
	}

	for _, rec := range records {
		doc, err := adapters.MapRecordToStoreActivity(rec)
		if err != nil {
			return domain.Activity{}, sourceErr(domain.SourceActivity, err)
		}
		if doc.OrganizationID == "" || doc.OrganizationID == tenantID {
			return adapters.MapStoreActivityToDomain(doc), nil
		}
	}

	return domain.Activity{}, nil
}
