package domain

// OrganizationalUnit represents a secretariat or department that owns demands.
type OrganizationalUnit struct {
	ID      string
	Name    string
	Acronym string
}

// Category groups demands and defines their SLA lead time in business days.
type Category struct {
	ID      string
	Name    string
	SLADays int
}

// Operator is a staff member demands can be assigned to.
type Operator struct {
	ID                   string
	Name                 string
	OrganizationalUnitID *string
}
