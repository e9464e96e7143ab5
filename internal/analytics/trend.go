package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// TrendWindowMonths is the trailing window covered by monthly trends.
const TrendWindowMonths = 6

const monthLayout = "2006-01"

// MonthlyPoint holds creation and resolution counts for one calendar month.
type MonthlyPoint struct {
	Month    string `json:"month"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
}

// TrendWindowStart returns the earliest creation instant included in a trend computed at now.
func TrendWindowStart(now time.Time) time.Time {
	return now.AddDate(0, -TrendWindowMonths, 0)
}

// MonthlyTrend buckets records created in the trailing window by month, in now's location.
// Creations count toward the creation month, resolutions toward the resolution month.
// Months without activity are omitted.
func MonthlyTrend(records []domain.Demand, now time.Time) []MonthlyPoint {
	loc := now.Location()
	start := TrendWindowStart(now)
	points := make(map[string]*MonthlyPoint)

	point := func(t time.Time) *MonthlyPoint {
		key := t.In(loc).Format(monthLayout)
		p, ok := points[key]
		if !ok {
			p = &MonthlyPoint{Month: key}
			points[key] = p
		}
		return p
	}

	for _, d := range records {
		if d.CreatedAt.Before(start) || d.CreatedAt.After(now) {
			continue
		}
		point(d.CreatedAt).Created++
		if d.ResolvedAt != nil && !d.ResolvedAt.Before(d.CreatedAt) && !d.ResolvedAt.After(now) {
			point(*d.ResolvedAt).Resolved++
		}
	}

	result := make([]MonthlyPoint, 0, len(points))
	for _, p := range points {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}
