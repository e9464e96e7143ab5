package domain

import "time"

// FilterCriteria narrows the demand set a report is computed over.
// Nil fields do not constrain the query.
type FilterCriteria struct {
	DateFrom             *time.Time      `json:"date_from,omitempty"`
	DateTo               *time.Time      `json:"date_to,omitempty"`
	OrganizationalUnitID *string         `json:"unit_id,omitempty"`
	CategoryID           *string         `json:"category_id,omitempty"`
	Status               *DemandStatus   `json:"status,omitempty"`
	Priority             *DemandPriority `json:"priority,omitempty"`
	Source               *DemandSource   `json:"source,omitempty"`
	Neighborhood         *string         `json:"neighborhood,omitempty"`
}

// WithUnit returns a copy of f restricted to a single organizational unit.
func (f FilterCriteria) WithUnit(unitID string) FilterCriteria {
	f.OrganizationalUnitID = &unitID
	return f
}

// IsEmpty reports whether no field constrains the query.
func (f FilterCriteria) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil && f.OrganizationalUnitID == nil &&
		f.CategoryID == nil && f.Status == nil && f.Priority == nil &&
		f.Source == nil && f.Neighborhood == nil
}
