package adapters

import (
	"github.com/de-tools/tenant-health/pkg/models/api"
	"github.com/de-tools/tenant-health/pkg/models/domain"
)

func MapAPIInsightToDomain(p api.InsightPriority) domain.InsightPriority {
	out := domain.InsightPriority{Priority: p.Priority}
	if p.Count != nil {
		out.Count = *p.Count
	}
	if p.Savings != nil {
		out.Savings = *p.Savings
	}
	return out
}

func MapAPIInsightsToDomain(items []api.InsightPriority) []domain.InsightPriority {
	out := make([]domain.InsightPriority, 0, len(items))
	for _, item := range items {
		out = append(out, MapAPIInsightToDomain(item))
	}
	return out
}
