package analytics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// ResolutionSampleSize bounds how many resolved records feed the average.
const ResolutionSampleSize = 1000

const hoursPerDay = 24

// Histogram counts resolved records by resolution time. Buckets are half-open and
// exhaustive: [0,24), [24,48), [48,72), [72,168) hours and [168,∞).
type Histogram struct {
	UnderOneDay      int `json:"0-24h"`
	OneToTwoDays     int `json:"24-48h"`
	TwoToThreeDays   int `json:"48-72h"`
	ThreeToSevenDays int `json:"3-7d"`
	OverSevenDays    int `json:">7d"`
}

// HistogramBucket is one labelled histogram bar.
type HistogramBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Total returns the number of records counted across all buckets.
func (h Histogram) Total() int {
	return h.UnderOneDay + h.OneToTwoDays + h.TwoToThreeDays + h.ThreeToSevenDays + h.OverSevenDays
}

// Buckets returns the histogram as an ordered list of bars.
func (h Histogram) Buckets() []HistogramBucket {
	return []HistogramBucket{
		{Label: "0-24h", Count: h.UnderOneDay},
		{Label: "24-48h", Count: h.OneToTwoDays},
		{Label: "48-72h", Count: h.TwoToThreeDays},
		{Label: "3-7d", Count: h.ThreeToSevenDays},
		{Label: ">7d", Count: h.OverSevenDays},
	}
}

func (h *Histogram) add(hours float64) {
	switch {
	case hours < 1*hoursPerDay:
		h.UnderOneDay++
	case hours < 2*hoursPerDay:
		h.OneToTwoDays++
	case hours < 3*hoursPerDay:
		h.TwoToThreeDays++
	case hours < 7*hoursPerDay:
		h.ThreeToSevenDays++
	default:
		h.OverSevenDays++
	}
}

// ResolutionHours returns the creation-to-resolution span of d. Records without both
// timestamps, or resolved before they were created, are not eligible.
func ResolutionHours(d domain.Demand) (float64, bool) {
	if d.ResolvedAt == nil || d.CreatedAt.IsZero() {
		return 0, false
	}
	hours := d.ResolvedAt.Sub(d.CreatedAt).Hours()
	if hours < 0 {
		return 0, false
	}
	return hours, true
}

// AverageResolutionHours averages resolution time over the most recently resolved
// ResolutionSampleSize eligible records, rounded to one decimal. No eligible record yields 0.
func AverageResolutionHours(records []domain.Demand) float64 {
	eligible := lo.Filter(records, func(d domain.Demand, _ int) bool {
		_, ok := ResolutionHours(d)
		return ok
	})
	if len(eligible) == 0 {
		return 0
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].ResolvedAt.Equal(*eligible[j].ResolvedAt) {
			return eligible[i].ResolvedAt.After(*eligible[j].ResolvedAt)
		}
		return eligible[i].ID < eligible[j].ID
	})
	if len(eligible) > ResolutionSampleSize {
		eligible = eligible[:ResolutionSampleSize]
	}

	var sum float64
	for _, d := range eligible {
		hours, _ := ResolutionHours(d)
		sum += hours
	}
	return round1(sum / float64(len(eligible)))
}

// BucketHistogram places every eligible record in exactly one bucket.
func BucketHistogram(records []domain.Demand) Histogram {
	var h Histogram
	for _, d := range records {
		if hours, ok := ResolutionHours(d); ok {
			h.add(hours)
		}
	}
	return h
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}
