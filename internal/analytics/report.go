package analytics

import (
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// Totals are headline counters over a filtered demand set.
type Totals struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Resolved  int `json:"resolved"`
	Cancelled int `json:"cancelled"`
	Overdue   int `json:"overdue"`
}

// ComputeTotals counts records by lifecycle bucket; overdue is evaluated at now.
func ComputeTotals(records []domain.Demand, now time.Time) Totals {
	t := Totals{Total: len(records)}
	for _, d := range records {
		switch {
		case d.Status.IsPending():
			t.Pending++
		case d.Status.IsFinished():
			t.Resolved++
		case d.Status == domain.DemandStatusCancelled:
			t.Cancelled++
		}
		if IsOverdue(d, now) {
			t.Overdue++
		}
	}
	return t
}

// GeneralReport is the cross-cutting overview of a filtered demand set.
type GeneralReport struct {
	GeneratedAt            time.Time             `json:"generated_at"`
	Filters                domain.FilterCriteria `json:"filters"`
	Totals                 Totals                `json:"totals"`
	ByStatus               []DistributionEntry   `json:"by_status"`
	ByPriority             []DistributionEntry   `json:"by_priority"`
	BySource               []DistributionEntry   `json:"by_source"`
	ByUnit                 []DistributionEntry   `json:"by_unit"`
	ByCategory             []DistributionEntry   `json:"by_category"`
	ByNeighborhood         []DistributionEntry   `json:"by_neighborhood"`
	AverageResolutionHours float64               `json:"average_resolution_hours"`
	ComplianceRate         float64               `json:"compliance_rate"`
}

// UnitReport drills into a single organizational unit.
type UnitReport struct {
	GeneratedAt            time.Time             `json:"generated_at"`
	Filters                domain.FilterCriteria `json:"filters"`
	UnitID                 string                `json:"unit_id"`
	UnitName               string                `json:"unit_name"`
	Totals                 Totals                `json:"totals"`
	ByStatus               []DistributionEntry   `json:"by_status"`
	ByPriority             []DistributionEntry   `json:"by_priority"`
	ByCategory             []DistributionEntry   `json:"by_category"`
	AverageResolutionHours float64               `json:"average_resolution_hours"`
	ComplianceRate         float64               `json:"compliance_rate"`
	MonthlyTrend           []MonthlyPoint        `json:"monthly_trend"`
	TopOperators           []OperatorRanking     `json:"top_operators"`
}

// PerformanceReport compares operators and units.
type PerformanceReport struct {
	GeneratedAt            time.Time             `json:"generated_at"`
	Filters                domain.FilterCriteria `json:"filters"`
	TopOperators           []OperatorRanking     `json:"top_operators"`
	TopUnits               []UnitRanking         `json:"top_units"`
	Histogram              Histogram             `json:"resolution_histogram"`
	AverageResolutionHours float64               `json:"average_resolution_hours"`
	Compliance             Compliance            `json:"compliance"`
	ComplianceByPriority   []PriorityCompliance  `json:"compliance_by_priority"`
}

// NeighborhoodReport breaks demand volume down geographically.
type NeighborhoodReport struct {
	GeneratedAt   time.Time             `json:"generated_at"`
	Filters       domain.FilterCriteria `json:"filters"`
	Neighborhoods []DistributionEntry   `json:"neighborhoods"`
	Details       []NeighborhoodDetail  `json:"details"`
}

// NeighborhoodDetail holds the sub-distributions of one neighborhood.
type NeighborhoodDetail struct {
	Neighborhood string              `json:"neighborhood"`
	Total        int                 `json:"total"`
	ByStatus     []DistributionEntry `json:"by_status"`
	ByCategory   []DistributionEntry `json:"by_category"`
}

// PartitionByNeighborhood splits records by their trimmed neighborhood; records without one are skipped.
func PartitionByNeighborhood(records []domain.Demand) map[string][]domain.Demand {
	parts := make(map[string][]domain.Demand)
	for _, d := range records {
		key := dimensionKey(d, DimensionNeighborhood)
		if key == "" {
			continue
		}
		parts[key] = append(parts[key], d)
	}
	return parts
}
