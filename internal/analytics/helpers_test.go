package analytics_test

import (
	"context"
	"time"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
)

// friday is 2024-03-01 10:00 UTC.
var friday = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

type demandOption func(*domain.Demand)

func newDemand(id string, opts ...demandOption) domain.Demand {
	d := domain.Demand{
		ID:                   id,
		Protocol:             "P-" + id,
		Title:                "demand " + id,
		Status:               domain.DemandStatusOpen,
		Priority:             domain.DemandPriorityMedium,
		Source:               domain.DemandSourcePhone,
		OrganizationalUnitID: "unit-1",
		CategoryID:           "cat-1",
		CreatedAt:            friday,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func withStatus(s domain.DemandStatus) demandOption {
	return func(d *domain.Demand) { d.Status = s }
}

func withPriority(p domain.DemandPriority) demandOption {
	return func(d *domain.Demand) { d.Priority = p }
}

func withUnit(id string) demandOption {
	return func(d *domain.Demand) { d.OrganizationalUnitID = id }
}

func withCategory(id string) demandOption {
	return func(d *domain.Demand) { d.CategoryID = id }
}

func withNeighborhood(n string) demandOption {
	return func(d *domain.Demand) { d.Neighborhood = &n }
}

func withOperator(id string) demandOption {
	return func(d *domain.Demand) { d.AssignedOperatorID = &id }
}

func createdAt(t time.Time) demandOption {
	return func(d *domain.Demand) { d.CreatedAt = t }
}

// resolvedAfter marks the demand resolved the given duration after creation.
func resolvedAfter(span time.Duration) demandOption {
	return func(d *domain.Demand) {
		d.Status = domain.DemandStatusResolved
		at := d.CreatedAt.Add(span)
		d.ResolvedAt = &at
	}
}

func deadlineAfter(span time.Duration) demandOption {
	return func(d *domain.Demand) {
		at := d.CreatedAt.Add(span)
		d.SLADeadline = &at
	}
}

type staticNames map[string]string

func (s staticNames) LookupNames(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := s[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func newTestAggregator() *analytics.Aggregator {
	return analytics.NewAggregator(analytics.Directory{
		Units:      staticNames{"unit-1": "Public Works", "unit-2": "Health", "unit-3": "Environment"},
		Categories: staticNames{"cat-1": "Street lighting", "cat-2": "Pothole repair"},
		Operators:  staticNames{"op-a": "Ana", "op-b": "Bruno", "op-c": "Carla"},
	})
}

func sumCounts(entries []analytics.DistributionEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}
