package model

import (
	"strings"
	"time"
)

// RegistrationType classifies who submitted a registration.  It decides
// the default seat zone and the order in which parties are seated.
type RegistrationType string

const (
	TypeInternal RegistrationType = "internal"
	TypeExternal RegistrationType = "external"
	TypeVIP      RegistrationType = "vip"
)

// Priority returns the seating priority of the type; lower values are
// seated first.  Unknown types sort with external guests.
func (t RegistrationType) Priority() int {
	switch t {
	case TypeVIP:
		return 0
	case TypeInternal:
		return 1
	default:
		return 2
	}
}

// Zone returns the seat zone a registration of this type is placed in.
func (t RegistrationType) Zone() SeatZone {
	switch t {
	case TypeVIP:
		return ZoneVIP
	case TypeInternal:
		return ZoneInternal
	default:
		return ZoneGeneral
	}
}

// RegistrationStatus is the admission state of a registration.
type RegistrationStatus string

const (
	StatusOpen     RegistrationStatus = "open"
	StatusClosed   RegistrationStatus = "closed"
	StatusWaitlist RegistrationStatus = "waitlist"
)

// SeatZone is the coarse area label of a table (used for colouring).
type SeatZone string

const (
	ZoneVIP      SeatZone = "vip"
	ZoneGeneral  SeatZone = "general"
	ZoneInternal SeatZone = "internal"
)

// Valid reports whether z is one of the known zones.
func (z SeatZone) Valid() bool {
	return z == ZoneVIP || z == ZoneGeneral || z == ZoneInternal
}

// Registration mirrors a row of the registrations table.  One row may
// stand for several attendees (Headcount) who are always seated together.
//
// TableNo and SeatZone are nil while the party is unassigned and are
// always set or cleared together.
type Registration struct {
	ID          string             `json:"id"`           // registrations.id (uuid)
	Type        RegistrationType   `json:"type"`         // registrations.type
	Headcount   int                `json:"headcount"`    // registrations.headcount
	ContactName string             `json:"contact_name"` // registrations.contact_name
	Phone       string             `json:"phone"`        // registrations.phone
	Inviter     string             `json:"inviter"`      // registrations.inviter (empty when not set)
	Status      RegistrationStatus `json:"status"`       // registrations.status
	TableNo     *int               `json:"table_no"`     // registrations.table_no (nullable)
	SeatZone    *SeatZone          `json:"seat_zone"`    // registrations.seat_zone (nullable)
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Active reports whether the registration takes part in seating.
func (r Registration) Active() bool {
	return r.Status != StatusWaitlist
}

// Assigned reports whether the registration currently has a table.
func (r Registration) Assigned() bool {
	return r.TableNo != nil
}

// InviterName returns the trimmed inviter, or "" when the registration
// type does not take part in invitation grouping.
func (r Registration) InviterName() string {
	if r.Type != TypeExternal && r.Type != TypeVIP {
		return ""
	}
	return strings.TrimSpace(r.Inviter)
}
