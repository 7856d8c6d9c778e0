package health

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/services/config"
	"github.com/de-tools/tenant-health/pkg/services/healthcheck"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc healthcheck.Service

	mu     sync.RWMutex
	latest *domain.Sweep
}

func NewHandler(svc healthcheck.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	response := []api.RegionSummary{}
	for _, region := range h.svc.Regions(ctx) {
		response = append(response, api.RegionSummary{
			Name:        region.Name.String(),
			APIURL:      region.APIURL,
			TenantCount: region.TenantCount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode regions")
	}
}

// CreateSweep runs a sweep synchronously. Regions come from the JSON body or
// from repeated or comma separated region query parameters.
func (h *Handler) CreateSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	for _, v := range r.URL.Query()["region"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Regions = append(req.Regions, name)
			}
		}
	}

	sweep, err := h.svc.Sweep(ctx, req.Regions...)
	if err != nil {
		if errors.Is(err, config.ErrUnknownRegion) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Msg("sweep failed")
		http.Error(w, "sweep failed", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.latest = &sweep
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(summarize(sweep))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode sweep summary")
	}
}

// LatestSweep returns the full reports of the last sweep run by this server.
func (h *Handler) LatestSweep(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		http.Error(w, "no sweep has run yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(latest)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode sweep")
	}
}

func summarize(sweep domain.Sweep) api.SweepSummary {
	summary := api.SweepSummary{
		StartedAt:  sweep.StartedAt,
		FinishedAt: sweep.FinishedAt,
		Regions:    []api.RegionOutcome{},
	}
	for _, region := range sweep.Regions {
		outcome := api.RegionOutcome{
			Region:    region.Region.String(),
			Tenants:   len(region.Tenants),
			AuthError: region.AuthError,
		}
		for _, t := range region.Tenants {
			if t.Failed() {
				outcome.FailedTenants++
			}
		}
		summary.Regions = append(summary.Regions, outcome)
	}
	return summary
}
