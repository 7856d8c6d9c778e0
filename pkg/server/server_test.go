package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/healthcheck"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Regions(ctx context.Context) []healthcheck.RegionSummary {
	args := m.Called(ctx)
	return args.Get(0).([]healthcheck.RegionSummary)
}

func (m *mockService) Sweep(ctx context.Context, regions ...string) (domain.Sweep, error) {
	args := m.Called(ctx, regions)
	return args.Get(0).(domain.Sweep), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.Nop()

	svc := new(mockService)
	svc.On("Regions", mock.Anything).Return([]healthcheck.RegionSummary{
		{Name: "us", APIURL: "https://us.example.com/graphql", TenantCount: 2},
	})
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.On("Sweep", mock.Anything, []string{"us"}).Return(domain.Sweep{
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Regions: []domain.RegionReport{{
			Region:  "us",
			Tenants: []domain.TenantHealthReport{{TenantID: "org-1"}},
		}},
	}, nil)

	router := ConfigureRouter(logger, Dependencies{Service: svc})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "ListRegions",
			method:         http.MethodGet,
			path:           "/api/v1/regions",
			expectedStatus: http.StatusOK,
			expected:       []api.RegionSummary{{Name: "us", APIURL: "https://us.example.com/graphql", TenantCount: 2}},
			parseResponse:  unmarshalResponse[[]api.RegionSummary](),
		},
		{
			name:           "LatestSweep_NoneYet",
			method:         http.MethodGet,
			path:           "/api/v1/sweeps/latest",
			expectedStatus: http.StatusNotFound,
			expected:       "no sweep has run yet\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
		{
			name:           "CreateSweep",
			method:         http.MethodPost,
			path:           "/api/v1/sweeps?region=us",
			expectedStatus: http.StatusCreated,
			expected: api.SweepSummary{
				StartedAt:  started,
				FinishedAt: started.Add(time.Minute),
				Regions:    []api.RegionOutcome{{Region: "us", Tenants: 1}},
			},
			parseResponse: unmarshalResponse[api.SweepSummary](),
		},
		{
			name:           "SweepsRequirePost",
			method:         http.MethodGet,
			path:           "/api/v1/sweeps",
			expectedStatus: http.StatusMethodNotAllowed,
			expected:       "",
			parseResponse: func(data []byte) (interface{}, error) {
				return strings.TrimSpace(string(data)), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWebAPI_StartStopsOnCancel(t *testing.T) {
	webAPI := NewWebAPI(zerolog.Nop(), Config{Addr: "127.0.0.1:0", Dependencies: Dependencies{Service: new(mockService)}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- webAPI.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
