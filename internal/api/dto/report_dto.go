package dto

import (
	"time"

	"github.com/spec-kit/demand-analytics/internal/analytics"
)

// ReportQuery holds the filter query parameters shared by all report endpoints.
type ReportQuery struct {
	DateFrom     string `query:"date_from"`
	DateTo       string `query:"date_to"`
	UnitID       string `query:"unit_id"`
	CategoryID   string `query:"category_id"`
	Status       string `query:"status"`
	Priority     string `query:"priority"`
	Source       string `query:"source"`
	Neighborhood string `query:"neighborhood"`
}

// FilterInput converts the query into raw filter input.
func (q ReportQuery) FilterInput() analytics.FilterInput {
	return analytics.FilterInput{
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
		UnitID:       q.UnitID,
		CategoryID:   q.CategoryID,
		Status:       q.Status,
		Priority:     q.Priority,
		Source:       q.Source,
		Neighborhood: q.Neighborhood,
	}
}

// DeadlineQuery holds the parameters of the deadline preview.
type DeadlineQuery struct {
	CreatedAt string `query:"created_at"`
	LeadDays  int    `query:"lead_days"`
}

// DeadlineResponse payload.
type DeadlineResponse struct {
	CreatedAt time.Time `json:"created_at"`
	LeadDays  int       `json:"lead_days"`
	Deadline  time.Time `json:"deadline"`
}
