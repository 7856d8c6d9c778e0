package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/rs/zerolog"
)

const (
	sessionCookie = "ssid"

	DefaultTimeout = 30 * time.Second
)

var (
	ErrHTTPStatus         = errors.New("unexpected http status")
	ErrGraphQL            = errors.New("graphql error")
	ErrNoSetCookie        = errors.New("no Set-Cookie header in response")
	ErrNoSessionToken     = errors.New("ssid cookie not found in Set-Cookie")
	ErrUnsafeSessionToken = errors.New("ssid cookie value is not a valid cookie token")
	ErrRoleNotAssumed     = errors.New("role assumption was not confirmed")
	ErrEmptyResponse      = errors.New("response carried no data")
)

var ssidPattern = regexp.MustCompile(`(?:^|[\s;,])` + sessionCookie + `=([^;]*)`)

// Client talks to the platform GraphQL endpoint of one region. Every call is
// authenticated with exactly the token passed to it.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{url: url, http: httpClient}
}

// Login exchanges account credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	emailLit, err := json.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("failed to encode email: %w", err)
	}
	passwordLit, err := json.Marshal(password)
	if err != nil {
		return "", fmt.Errorf("failed to encode password: %w", err)
	}

	req := api.GraphQLRequest{
		OperationName: "Login",
		Variables:     map[string]any{},
		Query: fmt.Sprintf(
			"mutation Login {\n  login(userCredential: { email: %s, password: %s }) {\n    intent\n  }\n}",
			emailLit, passwordLit,
		),
	}

	var result api.LoginResult
	header, err := c.do(ctx, "", req, &result)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	token, err := sessionToken(header)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	return token, nil
}

// AssumeRole switches the privileged session into the given tenant and
// returns the token of the new tenant-scoped session.
func (c *Client) AssumeRole(ctx context.Context, token, tenantID string) (string, error) {
	req := api.GraphQLRequest{
		OperationName: "AssumeRoleForMSP",
		Variables:     map[string]any{"organizationId": tenantID},
		Query:         "mutation AssumeRoleForMSP($organizationId: String!) {\n  assumeRoleForMSP(organizationId: $organizationId)\n}",
	}

	var result api.AssumeRoleResult
	header, err := c.do(ctx, token, req, &result)
	if err != nil {
		return "", fmt.Errorf("assume role: %w", err)
	}

	if result.AssumeRoleForMSP == nil || !*result.AssumeRoleForMSP {
		return "", fmt.Errorf("assume role for %s: %w", tenantID, ErrRoleNotAssumed)
	}

	scoped, err := sessionToken(header)
	if err != nil {
		return "", fmt.Errorf("assume role for %s: %w", tenantID, err)
	}

	return scoped, nil
}

func (c *Client) FindUserDetails(ctx context.Context, token string) (api.UserDetails, error) {
	req := api.GraphQLRequest{
		OperationName: "FindUserDetails",
		Variables:     map[string]any{},
		Query:         "query FindUserDetails {\n  findUserDetails {\n    organizationId\n    organizationName\n  }\n}",
	}

	var result api.UserDetailsResult
	if _, err := c.do(ctx, token, req, &result); err != nil {
		return api.UserDetails{}, fmt.Errorf("find user details: %w", err)
	}
	if result.FindUserDetails == nil {
		return api.UserDetails{}, fmt.Errorf("find user details: %w", ErrEmptyResponse)
	}

	return *result.FindUserDetails, nil
}

// BillingCostByDate returns billed cost entries between two YYYY-MM-DD dates.
func (c *Client) BillingCostByDate(ctx context.Context, token, startDate, endDate string) ([]api.BillingCost, error) {
	req := api.GraphQLRequest{
		OperationName: "findBillingCostByDate",
		Variables:     map[string]any{"startDate": startDate, "endDate": endDate},
		Query: "query findBillingCostByDate($startDate: String!, $endDate: String!) {\n" +
			"  findBillingCostByDate(startDate: $startDate, endDate: $endDate) {\n    cost\n    asOf\n  }\n}",
	}

	var result api.BillingCostResult
	if _, err := c.do(ctx, token, req, &result); err != nil {
		return nil, fmt.Errorf("billing cost by date: %w", err)
	}

	return result.FindBillingCostByDate, nil
}

// InsightsPriority returns the savings opportunities grouped by priority,
// without any filter applied.
func (c *Client) InsightsPriority(ctx context.Context, token string) ([]api.InsightPriority, error) {
	req := api.GraphQLRequest{
		OperationName: "InsightsPriority",
		Variables: map[string]any{
			"insightInput": map[string]any{
				"provider":     []string{},
				"resourceType": []string{},
				"priority":     []string{},
				"accountId":    []string{},
				"savingsRange": map[string]any{"param1": 0, "param2": 0, "operator": "Greater than"},
				"serviceName":  []string{},
				"searchString": "",
				"perspective": []map[string]any{
					{"tagKey": nil, "tagValues": []string{}},
				},
				"cloudgovPriority": false,
			},
		},
		Query: "query InsightsPriority($insightInput: InsightInput!) {\n" +
			"  insightsPriority(insightInput: $insightInput) {\n    priority\n    count\n    savings\n  }\n}",
	}

	var result api.InsightsPriorityResult
	if _, err := c.do(ctx, token, req, &result); err != nil {
		return nil, fmt.Errorf("insights priority: %w", err)
	}

	return result.InsightsPriority, nil
}

func (c *Client) InstanceSchedules(ctx context.Context, token, scheduleType string) ([]api.InstanceSchedule, error) {
	req := api.GraphQLRequest{
		OperationName: "FindAllInstanceSchedule",
		Variables:     map[string]any{"instanceScheduleType": scheduleType},
		Query: "query FindAllInstanceSchedule($instanceScheduleType: InstanceScheduleType) {\n" +
			"  findAllInstanceSchedule(instanceScheduleType: $instanceScheduleType) {\n    potentialMonthlySavings\n  }\n}",
	}

	var result api.InstanceScheduleResult
	if _, err := c.do(ctx, token, req, &result); err != nil {
		return nil, fmt.Errorf("instance schedules: %w", err)
	}

	return result.FindAllInstanceSchedule, nil
}

// do posts one GraphQL operation and decodes its data into out. It returns
// the response headers so callers can read rotated session cookies.
func (c *Client) do(ctx context.Context, token string, payload api.GraphQLRequest, out any) (http.Header, error) {
	logger := zerolog.Ctx(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", payload.OperationName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", payload.OperationName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Cookie", sessionCookie+"="+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", payload.OperationName, err)
	}

	var envelope api.GraphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", payload.OperationName, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, envelope.Errors[0].Message)
	}

	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s data: %w", payload.OperationName, err)
		}
	}

	return resp.Header, nil
}

// sessionToken pulls the ssid value out of the Set-Cookie headers.
func sessionToken(header http.Header) (string, error) {
	cookies := header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return "", ErrNoSetCookie
	}

	unsafe := false
	for _, cookie := range cookies {
		match := ssidPattern.FindStringSubmatch(cookie)
		if match == nil {
			continue
		}
		if !validToken(match[1]) {
			unsafe = true
			continue
		}
		return match[1], nil
	}

	if unsafe {
		return "", ErrUnsafeSessionToken
	}
	return "", ErrNoSessionToken
}

// validToken accepts only RFC 6265 cookie-octets, so a token can be echoed
// back in a Cookie header verbatim.
func validToken(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b < 0x21 || b > 0x7e || b == '"' || b == ',' || b == ';' || b == '\\' {
			return false
		}
	}
	return true
}
