package analytics

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// DefaultRankingLimit is used when a caller asks for a non-positive top-N.
const DefaultRankingLimit = 10

// OperatorRanking is one row of the operator leaderboard.
type OperatorRanking struct {
	OperatorID     string  `json:"operator_id"`
	Name           string  `json:"name"`
	Assigned       int     `json:"assigned"`
	Resolved       int     `json:"resolved"`
	ResolutionRate float64 `json:"resolution_rate_percent"`
}

// UnitRanking is one row of the organizational unit leaderboard.
type UnitRanking struct {
	UnitID                 string  `json:"unit_id"`
	Name                   string  `json:"name"`
	Assigned               int     `json:"assigned"`
	Resolved               int     `json:"resolved"`
	ResolutionRate         float64 `json:"resolution_rate_percent"`
	AverageResolutionHours float64 `json:"average_resolution_hours"`
}

type rankKey struct {
	id       string
	name     string
	assigned int
	resolved int
}

// rankLess orders by assigned desc, resolved desc, name asc, id asc.
func rankLess(a, b rankKey) bool {
	if a.assigned != b.assigned {
		return a.assigned > b.assigned
	}
	if a.resolved != b.resolved {
		return a.resolved > b.resolved
	}
	if a.name != b.name {
		return a.name < b.name
	}
	return a.id < b.id
}

// TopOperators ranks operators over records with an assigned operator.
func (a *Aggregator) TopOperators(ctx context.Context, records []domain.Demand, limit int) ([]OperatorRanking, error) {
	assigned := lo.Filter(records, func(d domain.Demand, _ int) bool {
		return d.AssignedOperatorID != nil && *d.AssignedOperatorID != ""
	})
	groups := lo.GroupBy(assigned, func(d domain.Demand) string { return *d.AssignedOperatorID })

	names, err := a.lookupNames(ctx, a.directory.Operators, lo.Keys(groups))
	if err != nil {
		return nil, err
	}

	keys := make([]rankKey, 0, len(groups))
	for id, demands := range groups {
		keys = append(keys, rankKey{
			id:       id,
			name:     nameOrUnknown(names, id),
			assigned: len(demands),
			resolved: countFinished(demands),
		})
	}
	keys = topKeys(keys, limit)

	result := make([]OperatorRanking, 0, len(keys))
	for _, k := range keys {
		result = append(result, OperatorRanking{
			OperatorID:     k.id,
			Name:           k.name,
			Assigned:       k.assigned,
			Resolved:       k.resolved,
			ResolutionRate: percent(k.resolved, k.assigned),
		})
	}
	return result, nil
}

// TopOrganizationalUnits ranks units by demand volume, with each unit's average resolution time.
func (a *Aggregator) TopOrganizationalUnits(ctx context.Context, records []domain.Demand, limit int) ([]UnitRanking, error) {
	groups := lo.GroupBy(records, func(d domain.Demand) string { return d.OrganizationalUnitID })

	names, err := a.lookupNames(ctx, a.directory.Units, lo.Keys(groups))
	if err != nil {
		return nil, err
	}

	keys := make([]rankKey, 0, len(groups))
	for id, demands := range groups {
		keys = append(keys, rankKey{
			id:       id,
			name:     nameOrUnknown(names, id),
			assigned: len(demands),
			resolved: countFinished(demands),
		})
	}
	keys = topKeys(keys, limit)

	result := make([]UnitRanking, 0, len(keys))
	for _, k := range keys {
		result = append(result, UnitRanking{
			UnitID:                 k.id,
			Name:                   k.name,
			Assigned:               k.assigned,
			Resolved:               k.resolved,
			ResolutionRate:         percent(k.resolved, k.assigned),
			AverageResolutionHours: AverageResolutionHours(groups[k.id]),
		})
	}
	return result, nil
}

func topKeys(keys []rankKey, limit int) []rankKey {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	sort.Slice(keys, func(i, j int) bool { return rankLess(keys[i], keys[j]) })
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func countFinished(records []domain.Demand) int {
	return lo.CountBy(records, func(d domain.Demand) bool { return d.Status.IsFinished() })
}

func nameOrUnknown(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return LabelUnknown
}
