package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
)

func TestDistributionByStatus(t *testing.T) {
	records := []domain.Demand{
		newDemand("1"),
		newDemand("2"),
		newDemand("3", withStatus(domain.DemandStatusInProgress)),
		newDemand("4", withStatus(domain.DemandStatusCancelled)),
		newDemand("5", withStatus(domain.DemandStatusInProgress)),
		newDemand("6", withStatus(domain.DemandStatusClosed)),
	}

	entries, err := newTestAggregator().Distribution(context.Background(), records, analytics.DimensionStatus)
	require.NoError(t, err)

	assert.Equal(t, []analytics.DistributionEntry{
		{Key: "IN_PROGRESS", Label: "In progress", Count: 2},
		{Key: "OPEN", Label: "Open", Count: 2},
		{Key: "CANCELLED", Label: "Cancelled", Count: 1},
		{Key: "CLOSED", Label: "Closed", Count: 1},
	}, entries)
}

func TestDistributionMergesUnresolvableReferences(t *testing.T) {
	records := []domain.Demand{
		newDemand("1", withUnit("unit-1")),
		newDemand("2", withUnit("unit-1")),
		newDemand("3", withUnit("unit-2")),
		newDemand("4", withUnit("deleted-unit")),
		newDemand("5", withUnit("")),
		newDemand("6", withUnit("another-deleted")),
	}

	entries, err := newTestAggregator().Distribution(context.Background(), records, analytics.DimensionOrganizationalUnit)
	require.NoError(t, err)

	assert.Equal(t, []analytics.DistributionEntry{
		{Key: "unknown", Label: analytics.LabelUnknown, Count: 3},
		{Key: "unit-1", Label: "Public Works", Count: 2},
		{Key: "unit-2", Label: "Health", Count: 1},
	}, entries)
	assert.Equal(t, len(records), sumCounts(entries))
}

func TestDistributionNullNeighborhoodIsUnspecified(t *testing.T) {
	records := []domain.Demand{
		newDemand("1", withNeighborhood("Centro")),
		newDemand("2", withNeighborhood(" Centro ")),
		newDemand("3"),
		newDemand("4", withNeighborhood("Vila Nova")),
	}

	entries, err := newTestAggregator().Distribution(context.Background(), records, analytics.DimensionNeighborhood)
	require.NoError(t, err)

	assert.Equal(t, []analytics.DistributionEntry{
		{Key: "Centro", Label: "Centro", Count: 2},
		{Key: "", Label: analytics.LabelUnspecified, Count: 1},
		{Key: "Vila Nova", Label: "Vila Nova", Count: 1},
	}, entries)
}

func TestDistributionDisplayLimits(t *testing.T) {
	var records []domain.Demand
	for i := 0; i < 30; i++ {
		// group i gets i+1 records so the ordering is unambiguous
		for j := 0; j <= i; j++ {
			id := fmt.Sprintf("%d-%d", i, j)
			records = append(records, newDemand(id,
				withNeighborhood(fmt.Sprintf("N%02d", i)),
				withCategory(fmt.Sprintf("c%02d", i)),
			))
		}
	}

	agg := newTestAggregator()

	neighborhoods, err := agg.Distribution(context.Background(), records, analytics.DimensionNeighborhood)
	require.NoError(t, err)
	require.Len(t, neighborhoods, analytics.NeighborhoodDisplayLimit)
	assert.Equal(t, "N29", neighborhoods[0].Key)
	assert.Equal(t, 30, neighborhoods[0].Count)
	assert.Equal(t, "N10", neighborhoods[len(neighborhoods)-1].Key)

	// every category is unresolvable, so all fold into one bucket before truncation
	categories, err := agg.Distribution(context.Background(), records, analytics.DimensionCategory)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, len(records), categories[0].Count)
}

func TestDistributionEmptyInput(t *testing.T) {
	agg := newTestAggregator()
	for _, dim := range []analytics.Dimension{
		analytics.DimensionStatus,
		analytics.DimensionPriority,
		analytics.DimensionSource,
		analytics.DimensionOrganizationalUnit,
		analytics.DimensionCategory,
		analytics.DimensionNeighborhood,
	} {
		entries, err := agg.Distribution(context.Background(), nil, dim)
		require.NoError(t, err, dim.String())
		assert.NotNil(t, entries, dim.String())
		assert.Empty(t, entries, dim.String())
	}
}

func TestDistributionLooksUpOnlyPresentIDs(t *testing.T) {
	var requested []string
	lookup := lookupFunc(func(_ context.Context, ids []string) (map[string]string, error) {
		requested = append(requested, ids...)
		return map[string]string{"cat-2": "Pothole repair"}, nil
	})
	agg := analytics.NewAggregator(analytics.Directory{Categories: lookup})

	records := []domain.Demand{
		newDemand("1", withCategory("cat-2")),
		newDemand("2", withCategory("cat-2")),
		newDemand("3", withCategory("cat-9")),
	}
	_, err := agg.Distribution(context.Background(), records, analytics.DimensionCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-2", "cat-9"}, requested)
}

func TestDistributionPropagatesLookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	agg := analytics.NewAggregator(analytics.Directory{
		Units: lookupFunc(func(context.Context, []string) (map[string]string, error) { return nil, boom }),
	})

	_, err := agg.Distribution(context.Background(), []domain.Demand{newDemand("1")}, analytics.DimensionOrganizationalUnit)
	require.ErrorIs(t, err, boom)
}

func TestParseDimension(t *testing.T) {
	dim, err := analytics.ParseDimension(" Neighborhood ")
	require.NoError(t, err)
	assert.Equal(t, analytics.DimensionNeighborhood, dim)

	_, err = analytics.ParseDimension("weather")
	require.Error(t, err)
}

type lookupFunc func(ctx context.Context, ids []string) (map[string]string, error)

func (f lookupFunc) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	return f(ctx, ids)
}
