package healthcheck

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/config"
	"github.com/rs/zerolog"
)

// RegionSummary describes a configured region without its credentials.
type RegionSummary struct {
	Name        domain.Region
	APIURL      string
	TenantCount int
}

// Service runs sweeps over the configured regions.
type Service interface {
	Regions(ctx context.Context) []RegionSummary
	Sweep(ctx context.Context, regions ...string) (domain.Sweep, error)
}

type service struct {
	cfg  *config.Config
	sink Sink
	now  func() time.Time

	// one sweep at a time per process
	mu sync.Mutex
}

func NewService(cfg *config.Config, sink Sink, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{cfg: cfg, sink: sink, now: now}
}

func (s *service) Regions(_ context.Context) []RegionSummary {
	out := make([]RegionSummary, 0, len(s.cfg.Regions))
	for _, r := range s.cfg.Regions {
		out = append(out, RegionSummary{
			Name:        domain.Region(r.Name),
			APIURL:      r.APIURL,
			TenantCount: len(r.Tenants),
		})
	}
	return out
}

// Sweep runs the named regions, or all of them when none is named. It only
// fails when a region name is unknown; everything else is reported inside
// the sweep.
func (s *service) Sweep(ctx context.Context, regions ...string) (domain.Sweep, error) {
	logger := zerolog.Ctx(ctx)

	selected, err := s.cfg.Select(regions...)
	if err != nil {
		return domain.Sweep{}, fmt.Errorf("failed to select regions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deps := NewDependencies(selected)
	defer func() {
		if err := deps.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to close store connections")
		}
	}()

	runner := NewRunner(s.sink, selected.Concurrency.Tenants, s.now)
	sweep := runner.Run(ctx, BuildRegionEnvs(selected, deps, s.now))

	logger.Info().
		Int("regions", len(sweep.Regions)).
		Dur("elapsed", sweep.FinishedAt.Sub(sweep.StartedAt)).
		Msg("sweep complete")

	return sweep, nil
}
