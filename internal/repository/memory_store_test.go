package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/demand-analytics/internal/domain"
	"github.com/spec-kit/demand-analytics/internal/repository"
)

var base = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

type MemoryStoreSuite struct {
	suite.Suite
	store *repository.MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewMemoryStore()
	s.store.AddUnits(domain.OrganizationalUnit{ID: "unit-1", Name: "Public Works"})
	s.store.AddCategories(domain.Category{ID: "cat-1", Name: "Street lighting", SLADays: 2})
	s.store.AddOperators(domain.Operator{ID: "op-1", Name: "Ana"})
	s.store.AddDemands(
		domain.Demand{
			ID: "a", Status: domain.DemandStatusOpen, Priority: domain.DemandPriorityHigh, Source: domain.DemandSourceApp,
			OrganizationalUnitID: "unit-1", CategoryID: "cat-1", Neighborhood: ptr("Jardim América"),
			CreatedAt: base,
		},
		domain.Demand{
			ID: "b", Status: domain.DemandStatusResolved, Priority: domain.DemandPriorityLow, Source: domain.DemandSourcePhone,
			OrganizationalUnitID: "unit-2", CategoryID: "cat-1", AssignedOperatorID: ptr("op-1"),
			CreatedAt: base.Add(24 * time.Hour), ResolvedAt: ptr(base.Add(30 * time.Hour)),
		},
		domain.Demand{
			ID: "c", Status: domain.DemandStatusClosed, Priority: domain.DemandPriorityLow, Source: domain.DemandSourcePhone,
			OrganizationalUnitID: "unit-1", CategoryID: "cat-2", Neighborhood: ptr("Centro"), AssignedOperatorID: ptr("op-1"),
			CreatedAt: base.Add(48 * time.Hour), ResolvedAt: ptr(base.Add(50 * time.Hour)),
		},
	)
}

func ids(records []domain.Demand) []string {
	out := make([]string, len(records))
	for i, d := range records {
		out[i] = d.ID
	}
	return out
}

func (s *MemoryStoreSuite) TestListOrdersNewestFirst() {
	records, err := s.store.List(s.ctx, domain.FilterCriteria{})
	s.Require().NoError(err)
	s.Equal([]string{"c", "b", "a"}, ids(records))
}

func (s *MemoryStoreSuite) TestListAppliesFilters() {
	s.Run("unit", func() {
		records, err := s.store.List(s.ctx, domain.FilterCriteria{OrganizationalUnitID: ptr("unit-1")})
		s.Require().NoError(err)
		s.Equal([]string{"c", "a"}, ids(records))
	})
	s.Run("date range is inclusive", func() {
		records, err := s.store.List(s.ctx, domain.FilterCriteria{
			DateFrom: ptr(base.Add(24 * time.Hour)),
			DateTo:   ptr(base.Add(48 * time.Hour)),
		})
		s.Require().NoError(err)
		s.Equal([]string{"c", "b"}, ids(records))
	})
	s.Run("enums", func() {
		records, err := s.store.List(s.ctx, domain.FilterCriteria{
			Priority: ptr(domain.DemandPriorityLow),
			Source:   ptr(domain.DemandSourcePhone),
			Status:   ptr(domain.DemandStatusClosed),
		})
		s.Require().NoError(err)
		s.Equal([]string{"c"}, ids(records))
	})
	s.Run("neighborhood substring ignores case", func() {
		records, err := s.store.List(s.ctx, domain.FilterCriteria{Neighborhood: ptr("jardim amé")})
		s.Require().NoError(err)
		s.Equal([]string{"a"}, ids(records))
	})
	s.Run("category", func() {
		records, err := s.store.List(s.ctx, domain.FilterCriteria{CategoryID: ptr("cat-2")})
		s.Require().NoError(err)
		s.Equal([]string{"c"}, ids(records))
	})
}

func (s *MemoryStoreSuite) TestListResolved() {
	records, err := s.store.ListResolved(s.ctx, domain.FilterCriteria{}, 0)
	s.Require().NoError(err)
	s.Equal([]string{"c", "b"}, ids(records))

	limited, err := s.store.ListResolved(s.ctx, domain.FilterCriteria{}, 1)
	s.Require().NoError(err)
	s.Equal([]string{"c"}, ids(limited))
}

func (s *MemoryStoreSuite) TestListAssignedAndCreatedSince() {
	assigned, err := s.store.ListAssigned(s.ctx, domain.FilterCriteria{})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"b", "c"}, ids(assigned))

	recent, err := s.store.ListCreatedSince(s.ctx, domain.FilterCriteria{}, base.Add(24*time.Hour))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"b", "c"}, ids(recent))
}

func (s *MemoryStoreSuite) TestNameLookups() {
	units, err := s.store.UnitNames().LookupNames(s.ctx, []string{"unit-1", "unit-2"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"unit-1": "Public Works"}, units)

	categories, err := s.store.CategoryNames().LookupNames(s.ctx, []string{"cat-1"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"cat-1": "Street lighting"}, categories)

	operators, err := s.store.OperatorNames().LookupNames(s.ctx, []string{"op-1", "op-9"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"op-1": "Ana"}, operators)
}

func (s *MemoryStoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.store.List(ctx, domain.FilterCriteria{})
	s.ErrorIs(err, context.Canceled)

	_, err = s.store.UnitNames().LookupNames(ctx, []string{"unit-1"})
	s.ErrorIs(err, context.Canceled)
}

func TestSeedDemo(t *testing.T) {
	store := repository.NewMemoryStore()
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repository.SeedDemo(store, now, 200))

	records, err := store.List(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, records, 200)

	for _, d := range records {
		assert.False(t, d.CreatedAt.After(now))
		require.NotNil(t, d.SLADeadline)
		assert.True(t, d.SLADeadline.After(d.CreatedAt))
		if d.ResolvedAt != nil {
			assert.True(t, d.Status.IsFinished())
			assert.False(t, d.ResolvedAt.Before(d.CreatedAt))
		}
	}

	names, err := store.UnitNames().LookupNames(context.Background(), []string{records[0].OrganizationalUnitID})
	require.NoError(t, err)
	assert.Len(t, names, 1)
}
