package domain

import "time"

// DemandStatus enumerates lifecycle states for citizen demands.
type DemandStatus string

const (
	DemandStatusOpen       DemandStatus = "OPEN"
	DemandStatusInProgress DemandStatus = "IN_PROGRESS"
	DemandStatusResolved   DemandStatus = "RESOLVED"
	DemandStatusClosed     DemandStatus = "CLOSED"
	DemandStatusCancelled  DemandStatus = "CANCELLED"
)

// DemandStatuses lists every status in lifecycle order.
var DemandStatuses = []DemandStatus{
	DemandStatusOpen,
	DemandStatusInProgress,
	DemandStatusResolved,
	DemandStatusClosed,
	DemandStatusCancelled,
}

// Valid reports whether s is a known status.
func (s DemandStatus) Valid() bool {
	switch s {
	case DemandStatusOpen, DemandStatusInProgress, DemandStatusResolved, DemandStatusClosed, DemandStatusCancelled:
		return true
	}
	return false
}

// Label returns the display name of the status.
func (s DemandStatus) Label() string {
	switch s {
	case DemandStatusOpen:
		return "Open"
	case DemandStatusInProgress:
		return "In progress"
	case DemandStatusResolved:
		return "Resolved"
	case DemandStatusClosed:
		return "Closed"
	case DemandStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// IsFinished reports whether the status counts as a completed demand.
func (s DemandStatus) IsFinished() bool {
	return s == DemandStatusResolved || s == DemandStatusClosed
}

// IsPending reports whether the demand still awaits work.
func (s DemandStatus) IsPending() bool {
	return s == DemandStatusOpen || s == DemandStatusInProgress
}

// DemandPriority enumerates urgency levels.
type DemandPriority string

const (
	DemandPriorityLow      DemandPriority = "LOW"
	DemandPriorityMedium   DemandPriority = "MEDIUM"
	DemandPriorityHigh     DemandPriority = "HIGH"
	DemandPriorityCritical DemandPriority = "CRITICAL"
)

// DemandPriorities lists every priority from lowest to highest.
var DemandPriorities = []DemandPriority{
	DemandPriorityLow,
	DemandPriorityMedium,
	DemandPriorityHigh,
	DemandPriorityCritical,
}

func (p DemandPriority) Valid() bool {
	switch p {
	case DemandPriorityLow, DemandPriorityMedium, DemandPriorityHigh, DemandPriorityCritical:
		return true
	}
	return false
}

func (p DemandPriority) Label() string {
	switch p {
	case DemandPriorityLow:
		return "Low"
	case DemandPriorityMedium:
		return "Medium"
	case DemandPriorityHigh:
		return "High"
	case DemandPriorityCritical:
		return "Critical"
	}
	return string(p)
}

// DemandSource enumerates the channel a demand arrived through.
type DemandSource string

const (
	DemandSourceWhatsapp DemandSource = "WHATSAPP"
	DemandSourcePhone    DemandSource = "PHONE"
	DemandSourceSite     DemandSource = "SITE"
	DemandSourceApp      DemandSource = "APP"
	DemandSourceInPerson DemandSource = "IN_PERSON"
	DemandSourceInternal DemandSource = "INTERNAL"
)

func (s DemandSource) Valid() bool {
	switch s {
	case DemandSourceWhatsapp, DemandSourcePhone, DemandSourceSite, DemandSourceApp, DemandSourceInPerson, DemandSourceInternal:
		return true
	}
	return false
}

func (s DemandSource) Label() string {
	switch s {
	case DemandSourceWhatsapp:
		return "WhatsApp"
	case DemandSourcePhone:
		return "Phone"
	case DemandSourceSite:
		return "Site"
	case DemandSourceApp:
		return "App"
	case DemandSourceInPerson:
		return "In person"
	case DemandSourceInternal:
		return "Internal"
	}
	return string(s)
}

// Demand is a citizen service request as read from the record store.
type Demand struct {
	ID                   string
	Protocol             string
	Title                string
	Status               DemandStatus
	Priority             DemandPriority
	Source               DemandSource
	OrganizationalUnitID string
	CategoryID           string
	Neighborhood         *string
	RequesterName        *string
	AssignedOperatorID   *string
	CreatedAt            time.Time
	ResolvedAt           *time.Time
	SLADeadline          *time.Time
}
