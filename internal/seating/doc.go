// Package seating seats gala registrations at tables and keeps the
// stored plan and the admin read snapshot consistent.
//
// The package has three layers:
//
//   - pure functions: DetectDuplicates, Assign and the table projections
//     (ByTable, ZoneGrid, Overview) work on plain slices and never touch
//     storage;
//   - Service: reads settings and registrations, computes a plan and
//     commits it through a Store;
//   - the commit protocol shared by every Service action: patch the
//     Snapshot, write, verify affected-row counts, drop the Snapshot.
//
// A commit is all-or-nothing from the caller's point of view.  Either
// every row reports exactly one affected row, or a *CommitError is
// returned.  There is no transaction around per-row writes, so after a
// failure the store may hold a partial plan; the snapshot is dropped so
// that the next read shows what actually persisted.
//
// Two admins running auto-assign at the same time are not coordinated.
// Each run computes its own plan and the later write wins per row.
package seating
