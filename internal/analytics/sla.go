package analytics

import (
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

// DeadlineHour is the local end-of-day hour every SLA deadline is pinned to.
const DeadlineHour = 18

// IsBusinessDay reports whether t falls Monday through Friday. Holidays are not considered.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Deadline walks forward from createdAt one calendar day at a time, counting only business
// days, and pins the result to 18:00:00 in createdAt's location.
func Deadline(createdAt time.Time, leadDays int) (time.Time, error) {
	if leadDays <= 0 {
		return time.Time{}, apperrors.NewInvalidArgument("lead days must be positive", map[string]any{"lead_days": leadDays})
	}

	day := createdAt
	for remaining := leadDays; remaining > 0; {
		day = day.AddDate(0, 0, 1)
		if IsBusinessDay(day) {
			remaining--
		}
	}

	y, m, d := day.Date()
	return time.Date(y, m, d, DeadlineHour, 0, 0, 0, day.Location()), nil
}

// IsOverdue reports whether a pending demand has passed its deadline at now.
func IsOverdue(d domain.Demand, now time.Time) bool {
	return d.Status.IsPending() && d.SLADeadline != nil && d.SLADeadline.Before(now)
}
