// Package repository holds the MySQL data access for registrations,
// seating settings, admin users and refresh tokens.
//
// The sentinel errors below let handlers tell failure scenarios apart
// without inspecting driver errors.
package repository

import "errors"

// ErrRegistrationNotFound is returned when a registration lookup yields
// no rows.  Handlers translate it into HTTP 404.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrConflict is returned when a write cannot proceed because of the
// row's current state.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInconsistentAssignment is returned when a caller tries to set a
// table without a zone or a zone without a table.
var ErrInconsistentAssignment = errors.New("table_no and seat_zone must be set or cleared together")
