package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/spec-kit/demand-analytics/internal/domain"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

// Placeholder labels for references that cannot be rendered.
const (
	LabelUnknown     = "Unknown"
	LabelUnspecified = "Unspecified"

	unknownKey = "unknown"
)

// Display limits applied after sorting.
const (
	NeighborhoodDisplayLimit = 20
	CategoryDisplayLimit     = 15
)

// Dimension is a supported grouping axis for distributions.
type Dimension int

const (
	DimensionStatus Dimension = iota + 1
	DimensionPriority
	DimensionSource
	DimensionOrganizationalUnit
	DimensionCategory
	DimensionNeighborhood
)

var dimensionNames = map[Dimension]string{
	DimensionStatus:             "status",
	DimensionPriority:           "priority",
	DimensionSource:             "source",
	DimensionOrganizationalUnit: "unit",
	DimensionCategory:           "category",
	DimensionNeighborhood:       "neighborhood",
}

func (d Dimension) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dimension(%d)", int(d))
}

// ParseDimension maps a dimension name to its enum value.
func ParseDimension(name string) (Dimension, error) {
	for dim, n := range dimensionNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return dim, nil
		}
	}
	return 0, apperrors.NewInvalidArgument("unknown dimension", map[string]any{"dimension": name})
}

// DisplayLimit returns the maximum number of groups kept for d, or 0 when unbounded.
func (d Dimension) DisplayLimit() int {
	switch d {
	case DimensionNeighborhood:
		return NeighborhoodDisplayLimit
	case DimensionCategory:
		return CategoryDisplayLimit
	}
	return 0
}

// DistributionEntry is the count of records sharing one dimension value.
type DistributionEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// NameLookup resolves a batch of identifiers to display names. Identifiers without a name
// are simply absent from the returned map.
type NameLookup interface {
	LookupNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Directory bundles the name lookups for every foreign reference a demand carries.
type Directory struct {
	Units      NameLookup
	Categories NameLookup
	Operators  NameLookup
}

// Aggregator computes the lookup-dependent aggregations.
type Aggregator struct {
	directory Directory
}

// NewAggregator builds an Aggregator resolving names through directory.
func NewAggregator(directory Directory) *Aggregator {
	return &Aggregator{directory: directory}
}

// Distribution groups records by dim and counts each group. Unresolvable references are
// merged into one "Unknown" group so the counts reconcile with len(records) before the
// display limit is applied.
func (a *Aggregator) Distribution(ctx context.Context, records []domain.Demand, dim Dimension) ([]DistributionEntry, error) {
	counts := make(map[string]int)
	for i := range records {
		counts[dimensionKey(records[i], dim)]++
	}

	var entries []DistributionEntry
	switch dim {
	case DimensionStatus, DimensionPriority, DimensionSource:
		entries = enumEntries(counts, dim)
	case DimensionNeighborhood:
		entries = neighborhoodEntries(counts)
	case DimensionOrganizationalUnit, DimensionCategory:
		lookup := a.directory.Units
		if dim == DimensionCategory {
			lookup = a.directory.Categories
		}
		names, err := a.lookupNames(ctx, lookup, lo.Keys(counts))
		if err != nil {
			return nil, err
		}
		entries = referenceEntries(counts, names)
	default:
		return nil, apperrors.NewInvalidArgument("unknown dimension", map[string]any{"dimension": dim.String()})
	}

	sortEntries(entries)
	if limit := dim.DisplayLimit(); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func dimensionKey(d domain.Demand, dim Dimension) string {
	switch dim {
	case DimensionStatus:
		return string(d.Status)
	case DimensionPriority:
		return string(d.Priority)
	case DimensionSource:
		return string(d.Source)
	case DimensionOrganizationalUnit:
		return d.OrganizationalUnitID
	case DimensionCategory:
		return d.CategoryID
	case DimensionNeighborhood:
		if d.Neighborhood == nil {
			return ""
		}
		return strings.TrimSpace(*d.Neighborhood)
	}
	return ""
}

func enumEntries(counts map[string]int, dim Dimension) []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(counts))
	for key, count := range counts {
		label := LabelUnknown
		switch {
		case key == "":
		case dim == DimensionStatus:
			label = domain.DemandStatus(key).Label()
		case dim == DimensionPriority:
			label = domain.DemandPriority(key).Label()
		case dim == DimensionSource:
			label = domain.DemandSource(key).Label()
		}
		entries = append(entries, DistributionEntry{Key: key, Label: label, Count: count})
	}
	return entries
}

func neighborhoodEntries(counts map[string]int) []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(counts))
	for key, count := range counts {
		label := key
		if key == "" {
			label = LabelUnspecified
		}
		entries = append(entries, DistributionEntry{Key: key, Label: label, Count: count})
	}
	return entries
}

func referenceEntries(counts map[string]int, names map[string]string) []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(counts))
	unknown := 0
	for key, count := range counts {
		name, ok := names[key]
		if key == "" || !ok || strings.TrimSpace(name) == "" {
			unknown += count
			continue
		}
		entries = append(entries, DistributionEntry{Key: key, Label: name, Count: count})
	}
	if unknown > 0 {
		entries = append(entries, DistributionEntry{Key: unknownKey, Label: LabelUnknown, Count: unknown})
	}
	return entries
}

func sortEntries(entries []DistributionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].Label != entries[j].Label {
			return entries[i].Label < entries[j].Label
		}
		return entries[i].Key < entries[j].Key
	})
}

// lookupNames resolves only the non-empty ids present in the result set.
func (a *Aggregator) lookupNames(ctx context.Context, lookup NameLookup, ids []string) (map[string]string, error) {
	ids = lo.Uniq(lo.Compact(ids))
	if lookup == nil || len(ids) == 0 {
		return map[string]string{}, nil
	}
	sort.Strings(ids)
	names, err := lookup.LookupNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = map[string]string{}
	}
	return names, nil
}
