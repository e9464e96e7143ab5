package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
)

var (
	seedUnits = []domain.OrganizationalUnit{
		{Name: "Secretariat of Public Works", Acronym: "SPW"},
		{Name: "Secretariat of Health", Acronym: "SH"},
		{Name: "Secretariat of Urban Services", Acronym: "SUS"},
		{Name: "Secretariat of Environment", Acronym: "SE"},
	}
	seedCategories = []domain.Category{
		{Name: "Street lighting", SLADays: 2},
		{Name: "Pothole repair", SLADays: 5},
		{Name: "Garbage collection", SLADays: 1},
		{Name: "Tree pruning", SLADays: 10},
		{Name: "Sewage leak", SLADays: 3},
	}
	seedOperators     = []string{"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves", "Elisa Rocha", "Fabio Melo"}
	seedNeighborhoods = []string{"Centro", "Jardim America", "Vila Nova", "Boa Vista", "Santa Cruz", "Alto da Serra"}
	seedSources       = []domain.DemandSource{
		domain.DemandSourceWhatsapp, domain.DemandSourcePhone, domain.DemandSourceSite,
		domain.DemandSourceApp, domain.DemandSourceInPerson, domain.DemandSourceInternal,
	}
)

// SeedDemo fills store with a reproducible set of demands spread over the months before now.
// Deadlines follow each category's business-day lead time.
func SeedDemo(store *MemoryStore, now time.Time, count int) error {
	rng := rand.New(rand.NewSource(42))

	units := make([]domain.OrganizationalUnit, len(seedUnits))
	for i, u := range seedUnits {
		u.ID = uuid.NewString()
		units[i] = u
	}
	categories := make([]domain.Category, len(seedCategories))
	for i, c := range seedCategories {
		c.ID = uuid.NewString()
		categories[i] = c
	}
	operators := make([]domain.Operator, len(seedOperators))
	for i, name := range seedOperators {
		unitID := units[i%len(units)].ID
		operators[i] = domain.Operator{ID: uuid.NewString(), Name: name, OrganizationalUnitID: &unitID}
	}
	store.AddUnits(units...)
	store.AddCategories(categories...)
	store.AddOperators(operators...)

	demands := make([]domain.Demand, 0, count)
	for i := 0; i < count; i++ {
		category := categories[rng.Intn(len(categories))]
		createdAt := now.Add(-time.Duration(rng.Intn(240*24)) * time.Hour)
		deadline, err := analytics.Deadline(createdAt, category.SLADays)
		if err != nil {
			return err
		}

		d := domain.Demand{
			ID:                   uuid.NewString(),
			Protocol:             fmt.Sprintf("%d%06d", createdAt.Year(), i+1),
			Title:                category.Name + " request",
			Status:               domain.DemandStatuses[rng.Intn(len(domain.DemandStatuses))],
			Priority:             domain.DemandPriorities[rng.Intn(len(domain.DemandPriorities))],
			Source:               seedSources[rng.Intn(len(seedSources))],
			OrganizationalUnitID: units[rng.Intn(len(units))].ID,
			CategoryID:           category.ID,
			CreatedAt:            createdAt,
			SLADeadline:          &deadline,
		}
		if rng.Intn(10) > 0 {
			n := seedNeighborhoods[rng.Intn(len(seedNeighborhoods))]
			d.Neighborhood = &n
		}
		if rng.Intn(4) > 0 {
			op := operators[rng.Intn(len(operators))].ID
			d.AssignedOperatorID = &op
		}
		if d.Status.IsFinished() {
			resolvedAt := createdAt.Add(time.Duration(1+rng.Intn(14*24)) * time.Hour)
			if resolvedAt.After(now) {
				resolvedAt = now
			}
			d.ResolvedAt = &resolvedAt
		}
		demands = append(demands, d)
	}
	store.AddDemands(demands...)
	return nil
}
