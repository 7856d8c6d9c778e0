package api

import "encoding/json"

type GraphQLRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type GraphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// GraphQLResponse keeps Data raw so each operation decodes its own shape.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

type LoginResult struct {
	Login struct {
		Intent string `json:"intent"`
	} `json:"login"`
}

type AssumeRoleResult struct {
	AssumeRoleForMSP *bool `json:"assumeRoleForMSP"`
}

type UserDetails struct {
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
}

type UserDetailsResult struct {
	FindUserDetails *UserDetails `json:"findUserDetails"`
}

type BillingCost struct {
	Cost *float64 `json:"cost"`
	AsOf *string  `json:"asOf"`
}

type BillingCostResult struct {
	FindBillingCostByDate []BillingCost `json:"findBillingCostByDate"`
}

type InsightPriority struct {
	Priority string   `json:"priority"`
	Count    *int     `json:"count"`
	Savings  *float64 `json:"savings"`
}

type InsightsPriorityResult struct {
	InsightsPriority []InsightPriority `json:"insightsPriority"`
}

type InstanceSchedule struct {
	PotentialMonthlySavings *float64 `json:"potentialMonthlySavings"`
}

type InstanceScheduleResult struct {
	FindAllInstanceSchedule []InstanceSchedule `json:"findAllInstanceSchedule"`
}
