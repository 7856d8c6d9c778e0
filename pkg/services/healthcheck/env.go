package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/config"
	"github.com/de-tools/tenant-health/pkg/services/fetchers"
	"github.com/de-tools/tenant-health/pkg/services/session"
	"github.com/de-tools/tenant-health/pkg/store/columnar"
	"github.com/de-tools/tenant-health/pkg/store/document"
	"github.com/de-tools/tenant-health/pkg/store/platform"
)

// Dependencies holds the connections of one run. They are opened lazily per
// region and must be closed when the run is over.
type Dependencies struct {
	Documents *document.Pool
	Columnar  *columnar.Pool
	HTTP      *http.Client
}

func NewDependencies(cfg *config.Config) *Dependencies {
	docs := make(map[domain.Region]document.Settings, len(cfg.Regions))
	cols := make(map[domain.Region]columnar.Settings, len(cfg.Regions))
	for _, r := range cfg.Regions {
		region := domain.Region(r.Name)
		docs[region] = document.Settings{URI: r.Mongo.URI, Database: r.Mongo.Database}
		cols[region] = columnar.Settings{DSN: r.ClickHouse.DSN}
	}

	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = platform.DefaultTimeout
	}

	return &Dependencies{
		Documents: document.NewPool(docs),
		Columnar:  columnar.NewPool(cols),
		HTTP:      &http.Client{Timeout: timeout},
	}
}

func (d *Dependencies) Close(ctx context.Context) error {
	return errors.Join(d.Documents.Close(ctx), d.Columnar.Close(ctx))
}

// BuildRegionEnvs wires the session manager and the fetchers of every
// configured region.
func BuildRegionEnvs(cfg *config.Config, deps *Dependencies, now func() time.Time) []RegionEnv {
	envs := make([]RegionEnv, 0, len(cfg.Regions))

	for _, r := range cfg.Regions {
		client := platform.NewClient(r.APIURL, deps.HTTP)

		envs = append(envs, RegionEnv{
			Region: domain.Region(r.Name),
			Credentials: session.Credentials{
				Region:   domain.Region(r.Name),
				APIURL:   r.APIURL,
				Email:    r.Email,
				Password: r.Password,
			},
			Tenants:  r.Tenants,
			Sessions: session.NewManager(client),
			Fetchers: Fetchers{
				CloudAccounts: fetchers.NewCloudAccounts(deps.Documents, now),
				Analytics: fetchers.NewAnalytics(
					deps.Columnar,
					cfg.Thresholds.RecencyHours,
					cfg.Thresholds.CountWindowDays,
					now,
				),
				Financials: fetchers.NewFinancials(client, now),
				Activity:   fetchers.NewActivity(deps.Documents, r.IgnoreEmails, now),
			},
		})
	}

	return envs
}
