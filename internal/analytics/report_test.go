package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
)

func TestComputeTotals(t *testing.T) {
	now := friday.Add(72 * time.Hour)
	records := []domain.Demand{
		newDemand("open-overdue", deadlineAfter(24*time.Hour)),
		newDemand("open-in-time", deadlineAfter(96*time.Hour)),
		newDemand("progress", withStatus(domain.DemandStatusInProgress)),
		newDemand("resolved", resolvedAfter(time.Hour), deadlineAfter(2*time.Hour)),
		newDemand("closed", withStatus(domain.DemandStatusClosed)),
		newDemand("cancelled", withStatus(domain.DemandStatusCancelled), deadlineAfter(time.Hour)),
	}

	assert.Equal(t, analytics.Totals{
		Total:     6,
		Pending:   3,
		Resolved:  2,
		Cancelled: 1,
		Overdue:   1,
	}, analytics.ComputeTotals(records, now))
}

func TestPartitionByNeighborhood(t *testing.T) {
	records := []domain.Demand{
		newDemand("1", withNeighborhood("Centro")),
		newDemand("2", withNeighborhood("Centro ")),
		newDemand("3", withNeighborhood("Vila Nova")),
		newDemand("4"),
		newDemand("5", withNeighborhood("   ")),
	}

	parts := analytics.PartitionByNeighborhood(records)
	assert.Len(t, parts, 2)
	assert.Len(t, parts["Centro"], 2)
	assert.Len(t, parts["Vila Nova"], 1)
}
