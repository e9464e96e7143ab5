package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// NameLookupFunc adapts a function to the batch name lookup interface.
type NameLookupFunc func(ctx context.Context, ids []string) (map[string]string, error)

// LookupNames calls f.
func (f NameLookupFunc) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	return f(ctx, ids)
}

// MemoryStore is an in-process record store used in tests and when no database is configured.
type MemoryStore struct {
	mu         sync.RWMutex
	demands    []domain.Demand
	units      map[string]domain.OrganizationalUnit
	categories map[string]domain.Category
	operators  map[string]domain.Operator
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		units:      make(map[string]domain.OrganizationalUnit),
		categories: make(map[string]domain.Category),
		operators:  make(map[string]domain.Operator),
	}
}

// AddDemands appends demands to the store.
func (s *MemoryStore) AddDemands(demands ...domain.Demand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demands = append(s.demands, demands...)
}

// AddUnits registers organizational units.
func (s *MemoryStore) AddUnits(units ...domain.OrganizationalUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range units {
		s.units[u.ID] = u
	}
}

// AddCategories registers categories.
func (s *MemoryStore) AddCategories(categories ...domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range categories {
		s.categories[c.ID] = c
	}
}

// AddOperators registers operators.
func (s *MemoryStore) AddOperators(operators ...domain.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range operators {
		s.operators[o.ID] = o
	}
}

func (s *MemoryStore) List(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error) {
	result, err := s.match(ctx, filter, func(domain.Demand) bool { return true })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) ListResolved(ctx context.Context, filter domain.FilterCriteria, limit int) ([]domain.Demand, error) {
	result, err := s.match(ctx, filter, func(d domain.Demand) bool { return d.ResolvedAt != nil })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].ResolvedAt.Equal(*result[j].ResolvedAt) {
			return result[i].ResolvedAt.After(*result[j].ResolvedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) ListAssigned(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error) {
	return s.match(ctx, filter, func(d domain.Demand) bool { return d.AssignedOperatorID != nil })
}

func (s *MemoryStore) ListCreatedSince(ctx context.Context, filter domain.FilterCriteria, since time.Time) ([]domain.Demand, error) {
	return s.match(ctx, filter, func(d domain.Demand) bool { return !d.CreatedAt.Before(since) })
}

// UnitNames resolves organizational unit names.
func (s *MemoryStore) UnitNames() NameLookupFunc {
	return func(ctx context.Context, ids []string) (map[string]string, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return pickNames(ctx, ids, func(id string) (string, bool) {
			u, ok := s.units[id]
			return u.Name, ok
		})
	}
}

// CategoryNames resolves category names.
func (s *MemoryStore) CategoryNames() NameLookupFunc {
	return func(ctx context.Context, ids []string) (map[string]string, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return pickNames(ctx, ids, func(id string) (string, bool) {
			c, ok := s.categories[id]
			return c.Name, ok
		})
	}
}

// OperatorNames resolves operator names.
func (s *MemoryStore) OperatorNames() NameLookupFunc {
	return func(ctx context.Context, ids []string) (map[string]string, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return pickNames(ctx, ids, func(id string) (string, bool) {
			o, ok := s.operators[id]
			return o.Name, ok
		})
	}
}

func pickNames(ctx context.Context, ids []string, get func(string) (string, bool)) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := get(id); ok {
			names[id] = name
		}
	}
	return names, nil
}

func (s *MemoryStore) match(ctx context.Context, filter domain.FilterCriteria, extra func(domain.Demand) bool) ([]domain.Demand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var needle string
	if filter.Neighborhood != nil {
		needle = cases.Fold().String(strings.TrimSpace(*filter.Neighborhood))
	}

	result := make([]domain.Demand, 0, len(s.demands))
	for _, d := range s.demands {
		if !matchesFilter(d, filter, needle) || !extra(d) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func matchesFilter(d domain.Demand, f domain.FilterCriteria, neighborhoodNeedle string) bool {
	if f.DateFrom != nil && d.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && d.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.OrganizationalUnitID != nil && d.OrganizationalUnitID != *f.OrganizationalUnitID {
		return false
	}
	if f.CategoryID != nil && d.CategoryID != *f.CategoryID {
		return false
	}
	if f.Status != nil && d.Status != *f.Status {
		return false
	}
	if f.Priority != nil && d.Priority != *f.Priority {
		return false
	}
	if f.Source != nil && d.Source != *f.Source {
		return false
	}
	if neighborhoodNeedle != "" {
		if d.Neighborhood == nil {
			return false
		}
		if !strings.Contains(cases.Fold().String(*d.Neighborhood), neighborhoodNeedle) {
			return false
		}
	}
	return true
}
