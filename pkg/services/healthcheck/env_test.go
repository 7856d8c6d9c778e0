package healthcheck

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegionEnvs(t *testing.T) {
	cfg := &config.Config{
		Regions: []config.Region{
			{Name: "us", APIURL: "https://us.example.com/graphql", Email: "ops@example.com", Password: "secret", Tenants: []string{"org-1"}},
			{Name: "ap", APIURL: "https://ap.example.com/graphql", Tenants: []string{"org-2", "org-3"}},
		},
		Thresholds: config.Thresholds{RecencyHours: 24, CountWindowDays: 7},
		HTTP:       config.HTTP{Timeout: 5 * time.Second},
	}

	deps := NewDependencies(cfg)
	envs := BuildRegionEnvs(cfg, deps, nil)

	require.Len(t, envs, 2)
	assert.Equal(t, domain.Region("us"), envs[0].Region)
	assert.Equal(t, "ops@example.com", envs[0].Credentials.Email)
	assert.Equal(t, "https://us.example.com/graphql", envs[0].Credentials.APIURL)
	assert.Equal(t, []string{"org-2", "org-3"}, envs[1].Tenants)
	assert.NotNil(t, envs[1].Sessions)
	assert.NotNil(t, envs[1].Fetchers.Financials)
	assert.Equal(t, 5*time.Second, deps.HTTP.Timeout)

	assert.NoError(t, deps.Close(context.Background()))
}
