package analytics

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// ByteOrderMark prefixes exports so spreadsheet tools detect UTF-8.
const ByteOrderMark = "\uFEFF"

// TabularHeader is the column order of the flat export.
var TabularHeader = []string{
	"Protocol", "Title", "Status", "Priority", "Unit", "Category", "Neighborhood",
	"Requester", "Assignee", "CreatedAt", "ResolvedAt", "SLADeadline",
}

// TabularRow is one demand flattened to display strings.
type TabularRow struct {
	Protocol     string
	Title        string
	Status       string
	Priority     string
	Unit         string
	Category     string
	Neighborhood string
	Requester    string
	Assignee     string
	CreatedAt    string
	ResolvedAt   string
	SLADeadline  string
}

// Fields returns the row values in TabularHeader order.
func (r TabularRow) Fields() []string {
	return []string{
		r.Protocol, r.Title, r.Status, r.Priority, r.Unit, r.Category, r.Neighborhood,
		r.Requester, r.Assignee, r.CreatedAt, r.ResolvedAt, r.SLADeadline,
	}
}

// ReferenceNames holds resolved display names for the ids present in an export.
type ReferenceNames struct {
	Units      map[string]string
	Categories map[string]string
	Operators  map[string]string
}

// NewTabularRows flattens records in their given order.
func NewTabularRows(records []domain.Demand, names ReferenceNames) []TabularRow {
	rows := make([]TabularRow, 0, len(records))
	for _, d := range records {
		row := TabularRow{
			Protocol:     d.Protocol,
			Title:        d.Title,
			Status:       d.Status.Label(),
			Priority:     d.Priority.Label(),
			Unit:         nameOrUnknown(names.Units, d.OrganizationalUnitID),
			Category:     nameOrUnknown(names.Categories, d.CategoryID),
			Neighborhood: derefString(d.Neighborhood),
			Requester:    derefString(d.RequesterName),
			CreatedAt:    formatTimestamp(&d.CreatedAt),
			ResolvedAt:   formatTimestamp(d.ResolvedAt),
			SLADeadline:  formatTimestamp(d.SLADeadline),
		}
		if d.AssignedOperatorID != nil && *d.AssignedOperatorID != "" {
			row.Assignee = nameOrUnknown(names.Operators, *d.AssignedOperatorID)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the BOM, the header and every row using standard CSV quoting.
func WriteCSV(w io.Writer, rows []TabularRow) error {
	if _, err := io.WriteString(w, ByteOrderMark); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TabularHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
