package analytics

import "github.com/spec-kit/demand-analytics/internal/domain"

// Compliance summarises SLA adherence over the eligible records of a set.
type Compliance struct {
	Eligible  int     `json:"eligible"`
	Compliant int     `json:"compliant"`
	Breached  int     `json:"breached"`
	Rate      float64 `json:"rate"`
}

// PriorityCompliance is the compliance of records sharing one priority.
type PriorityCompliance struct {
	Priority domain.DemandPriority `json:"priority"`
	Label    string                `json:"label"`
	Compliance
}

// complianceEligible requires a finished status plus both timestamps. Records missing
// either timestamp are left out of the denominator rather than counted as breaches.
func complianceEligible(d domain.Demand) bool {
	return d.Status.IsFinished() && d.ResolvedAt != nil && d.SLADeadline != nil
}

// ComplianceOf counts records resolved at or before their deadline.
func ComplianceOf(records []domain.Demand) Compliance {
	var c Compliance
	for _, d := range records {
		if !complianceEligible(d) {
			continue
		}
		c.Eligible++
		if !d.ResolvedAt.After(*d.SLADeadline) {
			c.Compliant++
		}
	}
	c.Breached = c.Eligible - c.Compliant
	c.Rate = percent(c.Compliant, c.Eligible)
	return c
}

// ComplianceRate returns the compliant percentage, rounded to one decimal, 0 when nothing is eligible.
func ComplianceRate(records []domain.Demand) float64 {
	return ComplianceOf(records).Rate
}

// ComplianceByPriority breaks compliance down per priority, in priority order.
func ComplianceByPriority(records []domain.Demand) []PriorityCompliance {
	grouped := make(map[domain.DemandPriority][]domain.Demand, len(domain.DemandPriorities))
	for _, d := range records {
		grouped[d.Priority] = append(grouped[d.Priority], d)
	}
	result := make([]PriorityCompliance, 0, len(domain.DemandPriorities))
	for _, p := range domain.DemandPriorities {
		result = append(result, PriorityCompliance{
			Priority:   p,
			Label:      p.Label(),
			Compliance: ComplianceOf(grouped[p]),
		})
	}
	return result
}
