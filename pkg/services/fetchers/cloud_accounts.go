package fetchers

import (
	"context"
	"time"

	"github.com/de-tools/tenant-health/pkg/adapters"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/classifier"
	"github.com/de-tools/tenant-health/pkg/store/document"
	"github.com/rs/zerolog"
)

// CloudAccounts reports how recently each provider account of a tenant was
// processed.
type CloudAccounts struct {
	docs document.Executor
	now  func() time.Time
}

func NewCloudAccounts(docs document.Executor, now func() time.Time) *CloudAccounts {
	if now == nil {
		now = time.Now
	}
	return &CloudAccounts{docs: docs, now: now}
}

func (f *CloudAccounts) Fetch(ctx context.Context, region domain.Region, tenantID string) (domain.CloudAccountFreshness, error) {
	logger := zerolog.Ctx(ctx)

	records, err := f.docs.Run(ctx, document.ProvidersQuery([]string{tenantID}), region)
	if err != nil {
		return domain.CloudAccountFreshness{}, sourceErr(domain.SourceCloudAccounts, err)
	}

	now := f.now()
	// empty groups serialise as [] rather than null
	groups := domain.ProviderGroups{
		AWS:   []domain.ProviderAccount{},
		Azure: []domain.ProviderAccount{},
		GCP:   []domain.ProviderAccount{},
	}
	var (
		all    []domain.Status
		byType = map[domain.ProviderType][]domain.Status{}
	)

	for _, rec := range records {
		doc, err := adapters.MapRecordToStoreProvider(rec)
		staleness := classifier.Staleness(doc.LastProcessedTime, now)
		if err != nil {
			logger.Warn().Err(err).Str("tenant", tenantID).Str("account", doc.AccountName).Msg("unreadable provider document")
			staleness = domain.Staleness{Status: domain.StatusUnknown, Label: "Unreadable: " + err.Error()}
		}
		account := adapters.MapStoreProviderToDomainAccount(doc, staleness)
		all = append(all, staleness.Status)

		if staleness.Status == domain.StatusCritical || staleness.Status == domain.StatusWarning {
			logger.Warn().
				Str("tenant", tenantID).
				Str("provider", doc.CloudProvider).
				Str("account", doc.AccountName).
				Str("status", staleness.Status.String()).
				Msg(staleness.Label)
		}

		providerType, ok := adapters.ProviderType(doc.CloudProvider)
		if !ok {
			continue
		}
		byType[providerType] = append(byType[providerType], staleness.Status)

		switch providerType {
		case domain.ProviderAWS:
			groups.AWS = append(groups.AWS, account)
		case domain.ProviderAzure:
			groups.Azure = append(groups.Azure, account)
		case domain.ProviderGCP:
			groups.GCP = append(groups.GCP, account)
		}
	}

	return domain.CloudAccountFreshness{
		AWS:            classifier.AllOK(byType[domain.ProviderAWS]),
		Azure:          classifier.AllOK(byType[domain.ProviderAzure]),
		GCP:            classifier.AllOK(byType[domain.ProviderGCP]),
		AccountRefresh: classifier.AllOK(all),
		AccountCount:   len(all),
		Detail:         groups,
	}, nil
}
