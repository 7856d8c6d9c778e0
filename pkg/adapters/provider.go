package adapters

import (
	"fmt"
	"sort"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/models/store"
	"github.com/de-tools/tenant-health/pkg/store/document"
)

var providerTypes = map[string]domain.ProviderType{
	"AMAZON_WEB_SERVICES":   domain.ProviderAWS,
	"MICROSOFT_AZURE":       domain.ProviderAzure,
	"GOOGLE_CLOUD_PLATFORM": domain.ProviderGCP,
}

// ProviderType maps a stored cloudProvider value to its short name.
func ProviderType(cloudProvider string) (domain.ProviderType, bool) {
	t, ok := providerTypes[cloudProvider]
	return t, ok
}

// MapRecordToStoreProvider maps a provider document. An unreadable
// lastProcessedTime is reported as an error alongside the otherwise complete
// document.
func MapRecordToStoreProvider(rec document.Record) (store.ProviderDocument, error) {
	doc := store.ProviderDocument{
		ID:                         asString(rec["_id"]),
		OrganizationID:             asString(rec["organizationId"]),
		CloudProvider:              asString(rec["cloudProvider"]),
		AccountName:                asString(rec["accountName"]),
		AccountNumber:              asString(rec["accountNumber"]),
		Region:                     asString(rec["region"]),
		IsProcessed:                asBool(rec["isProcessed"]),
		ValidationConnectionStatus: asString(rec["validationConnectionStatus"]),
	}

	last, err := asTime(rec["lastProcessedTime"])
	if err != nil {
		return doc, fmt.Errorf("provider %s lastProcessedTime: %w", doc.ID, err)
	}
	doc.LastProcessedTime = last

	return doc, nil
}

func MapStoreProviderToDomainAccount(doc store.ProviderDocument, staleness domain.Staleness) domain.ProviderAccount {
	return domain.ProviderAccount{
		ID:                         doc.ID,
		TenantID:                   doc.OrganizationID,
		CloudProvider:              doc.CloudProvider,
		AccountName:                doc.AccountName,
		AccountNumber:              doc.AccountNumber,
		Region:                     doc.Region,
		LastProcessedTime:          doc.LastProcessedTime,
		IsProcessed:                doc.IsProcessed,
		ValidationConnectionStatus: doc.ValidationConnectionStatus,
		Staleness:                  staleness,
	}
}

// MapRecordToStoreActivity reads one aggregation group. Sign-in users come
// back sorted.
func MapRecordToStoreActivity(rec document.Record) (store.ActivityDocument, error) {
	total, err := asInt64(rec["totalActivity"])
	if err != nil {
		return store.ActivityDocument{}, fmt.Errorf("totalActivity: %w", err)
	}
	signIns, err := asInt64(rec["signInCount"])
	if err != nil {
		return store.ActivityDocument{}, fmt.Errorf("signInCount: %w", err)
	}
	unique, err := asInt64(rec["uniqueSignInUsers"])
	if err != nil {
		return store.ActivityDocument{}, fmt.Errorf("uniqueSignInUsers: %w", err)
	}

	users := asStrings(rec["signInUsers"])
	sort.Strings(users)

	return store.ActivityDocument{
		OrganizationID:    asString(rec["organizationId"]),
		OrganizationName:  asString(rec["organizationName"]),
		TotalActivity:     total,
		SignInCount:       signIns,
		UniqueSignInUsers: unique,
		SignInUsers:       users,
	}, nil
}

func MapStoreActivityToDomain(doc store.ActivityDocument) domain.Activity {
	return domain.Activity{
		TotalActivity:     doc.TotalActivity,
		SignInCount:       doc.SignInCount,
		UniqueSignInUsers: doc.UniqueSignInUsers,
		SignInUsers:       doc.SignInUsers,
	}
}
