package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type Kind string

const (
	KindFind      Kind = "find"
	KindAggregate Kind = "aggregate"
)

const (
	ProvidersCollection     = "providers"
	UserTrackingCollection  = "user-tracking"
	OrganizationsCollection = "organizations"

	SignInAction = "SIGN_IN"
)

// Query is a declarative find or aggregate definition against one collection.
type Query struct {
	Kind       Kind
	Collection string
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	Limit      int64
	Pipeline   []bson.M
}

// Record is one returned document.
type Record = bson.M

// ProvidersQuery lists the active cloud-provider accounts of the given
// tenants, least recently processed first.
func ProvidersQuery(tenantIDs []string) Query {
	return Query{
		Kind:       KindFind,
		Collection: ProvidersCollection,
		Filter: bson.M{
			"organizationId": bson.M{"$in": tenantIDs},
			"deletedFlag":    false,
			"activeFlag":     true,
		},
		Projection: bson.M{
			"_id":                        1,
			"organizationId":             1,
			"cloudProvider":              1,
			"accountName":                1,
			"accountNumber":              1,
			"region":                     1,
			"lastProcessedTime":          1,
			"isProcessed":                1,
			"validationConnectionStatus": 1,
		},
		Sort: bson.D{{Key: "lastProcessedTime", Value: 1}},
	}
}

// ActivityQuery aggregates user-tracking events between start and end per
// tenant. Events of inactive or deleted organizations are dropped, and so
// are events of ignored emails.
func ActivityQuery(tenantIDs, ignoreEmails []string, start, end time.Time) Query {
	match := bson.M{
		"organizationId": bson.M{"$in": tenantIDs},
		"createdDate":    bson.M{"$gte": start, "$lte": end},
	}
	if len(ignoreEmails) > 0 {
		match["email"] = bson.M{"$nin": ignoreEmails}
	}

	isSignIn := bson.M{"$eq": bson.A{"$action", SignInAction}}

	return Query{
		Kind:       KindAggregate,
		Collection: UserTrackingCollection,
		Pipeline: []bson.M{
			{"$match": match},
			{"$lookup": bson.M{
				"from": OrganizationsCollection,
				"let":  bson.M{"orgId": "$organizationId"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{
						"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$orgId"}},
					}},
					bson.M{"$project": bson.M{"_id": 0, "name": 1, "deletedFlag": 1, "activeFlag": 1}},
				},
				"as": "organization",
			}},
			{"$unwind": bson.M{"path": "$organization", "preserveNullAndEmptyArrays": false}},
			{"$match": bson.M{
				"organization.deletedFlag": false,
				"organization.activeFlag":  true,
			}},
			{"$group": bson.M{
				"_id":              "$organizationId",
				"organizationName": bson.M{"$first": "$organization.name"},
				"totalActivity":    bson.M{"$sum": 1},
				"signInCount":      bson.M{"$sum": bson.M{"$cond": bson.A{isSignIn, 1, 0}}},
				"signInUsers":      bson.M{"$addToSet": bson.M{"$cond": bson.A{isSignIn, "$email", "$$REMOVE"}}},
			}},
			{"$project": bson.M{
				"_id":               0,
				"organizationId":    "$_id",
				"organizationName":  1,
				"totalActivity":     1,
				"signInCount":       1,
				"uniqueSignInUsers": bson.M{"$size": "$signInUsers"},
				"signInUsers":       1,
			}},
			{"$sort": bson.D{{Key: "organizationName", Value: 1}}},
		},
	}
}
