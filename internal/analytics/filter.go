package analytics

import (
	"strings"
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

const dateOnlyLayout = "2006-01-02"

// FilterInput carries raw, untyped filter values as received from a caller.
type FilterInput struct {
	DateFrom     string
	DateTo       string
	UnitID       string
	CategoryID   string
	Status       string
	Priority     string
	Source       string
	Neighborhood string
}

// ParseFilter validates raw input and builds the criteria used against the record store.
// Dates accept RFC 3339 or YYYY-MM-DD; a date-only upper bound covers the whole day in loc.
func ParseFilter(in FilterInput, loc *time.Location) (domain.FilterCriteria, error) {
	if loc == nil {
		loc = time.UTC
	}
	var criteria domain.FilterCriteria

	if v := strings.TrimSpace(in.DateFrom); v != "" {
		t, _, err := parseDate(v, loc)
		if err != nil {
			return domain.FilterCriteria{}, apperrors.NewInvalidArgument("invalid date_from", map[string]any{"date_from": v})
		}
		criteria.DateFrom = &t
	}
	if v := strings.TrimSpace(in.DateTo); v != "" {
		t, dateOnly, err := parseDate(v, loc)
		if err != nil {
			return domain.FilterCriteria{}, apperrors.NewInvalidArgument("invalid date_to", map[string]any{"date_to": v})
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		criteria.DateTo = &t
	}
	if v := strings.TrimSpace(in.UnitID); v != "" {
		criteria.OrganizationalUnitID = &v
	}
	if v := strings.TrimSpace(in.CategoryID); v != "" {
		criteria.CategoryID = &v
	}
	if v := strings.TrimSpace(in.Status); v != "" {
		status := domain.DemandStatus(strings.ToUpper(v))
		criteria.Status = &status
	}
	if v := strings.TrimSpace(in.Priority); v != "" {
		priority := domain.DemandPriority(strings.ToUpper(v))
		criteria.Priority = &priority
	}
	if v := strings.TrimSpace(in.Source); v != "" {
		source := domain.DemandSource(strings.ToUpper(v))
		criteria.Source = &source
	}
	if v := strings.TrimSpace(in.Neighborhood); v != "" {
		criteria.Neighborhood = &v
	}

	if err := ValidateFilter(criteria); err != nil {
		return domain.FilterCriteria{}, err
	}
	return criteria, nil
}

// ValidateFilter rejects enum values outside the known sets and inverted date ranges.
func ValidateFilter(f domain.FilterCriteria) error {
	if f.Status != nil && !f.Status.Valid() {
		return apperrors.NewInvalidArgument("invalid status", map[string]any{"status": string(*f.Status)})
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return apperrors.NewInvalidArgument("invalid priority", map[string]any{"priority": string(*f.Priority)})
	}
	if f.Source != nil && !f.Source.Valid() {
		return apperrors.NewInvalidArgument("invalid source", map[string]any{"source": string(*f.Source)})
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return apperrors.NewInvalidArgument("date_from must not be after date_to", map[string]any{
			"date_from": f.DateFrom.Format(time.RFC3339),
			"date_to":   f.DateTo.Format(time.RFC3339),
		})
	}
	return nil
}

func parseDate(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(dateOnlyLayout, v, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
