package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
)

func TestComplianceOf(t *testing.T) {
	closed := func(d *domain.Demand) { d.Status = domain.DemandStatusClosed }
	records := []domain.Demand{
		newDemand("on-time", resolvedAfter(10*time.Hour), deadlineAfter(24*time.Hour)),
		newDemand("exact", resolvedAfter(24*time.Hour), deadlineAfter(24*time.Hour)),
		newDemand("late", resolvedAfter(30*time.Hour), deadlineAfter(24*time.Hour), closed),
		newDemand("no-deadline", resolvedAfter(5*time.Hour)),
		newDemand("pending", deadlineAfter(24*time.Hour)),
		// resolvedAt disagrees with status; cancelled records are never eligible
		newDemand("cancelled", resolvedAfter(time.Hour), deadlineAfter(24*time.Hour), withStatus(domain.DemandStatusCancelled)),
	}

	c := analytics.ComplianceOf(records)
	assert.Equal(t, analytics.Compliance{Eligible: 3, Compliant: 2, Breached: 1, Rate: 66.7}, c)
	assert.Equal(t, 66.7, analytics.ComplianceRate(records))
}

func TestComplianceRateWithoutEligibleRecords(t *testing.T) {
	assert.Equal(t, 0.0, analytics.ComplianceRate(nil))
	assert.Equal(t, 0.0, analytics.ComplianceRate([]domain.Demand{
		newDemand("1", resolvedAfter(time.Hour)),
		newDemand("2", deadlineAfter(time.Hour)),
	}))
}

func TestComplianceByPriority(t *testing.T) {
	records := []domain.Demand{
		newDemand("1", withPriority(domain.DemandPriorityHigh), resolvedAfter(time.Hour), deadlineAfter(2*time.Hour)),
		newDemand("2", withPriority(domain.DemandPriorityHigh), resolvedAfter(3*time.Hour), deadlineAfter(2*time.Hour)),
		newDemand("3", withPriority(domain.DemandPriorityLow), resolvedAfter(time.Hour), deadlineAfter(2*time.Hour)),
	}

	got := analytics.ComplianceByPriority(records)
	require.Len(t, got, len(domain.DemandPriorities))

	byPriority := make(map[domain.DemandPriority]analytics.PriorityCompliance, len(got))
	for i, pc := range got {
		assert.Equal(t, domain.DemandPriorities[i], pc.Priority)
		byPriority[pc.Priority] = pc
	}
	assert.Equal(t, 50.0, byPriority[domain.DemandPriorityHigh].Rate)
	assert.Equal(t, "High", byPriority[domain.DemandPriorityHigh].Label)
	assert.Equal(t, 100.0, byPriority[domain.DemandPriorityLow].Rate)
	assert.Equal(t, 0, byPriority[domain.DemandPriorityCritical].Eligible)
	assert.Equal(t, 0.0, byPriority[domain.DemandPriorityCritical].Rate)
}
