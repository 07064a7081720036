package seating

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/gala-seating/internal/model"
)

// ErrInvalidSettings is returned when the venue layout has no usable
// tables or seats.
var ErrInvalidSettings = errors.New("seating: total_tables and seats_per_table must be positive")

// OversizedPolicy decides how an invitation group that cannot fit on a
// single table is placed.
type OversizedPolicy int

const (
	// OversizedSplit places each member of the group on its own, using
	// the same first-fit / roomiest-table rule as any other party.  The
	// group is not guaranteed to stay together.
	OversizedSplit OversizedPolicy = iota
	// OversizedAdjacent seats the group on the shortest run of
	// neighbouring tables with enough free seats, falling back to
	// OversizedSplit when no such run exists.
	OversizedAdjacent
)

// ParsePolicy maps a configuration value to a policy.  Anything other
// than "adjacent" selects OversizedSplit.
func ParsePolicy(s string) OversizedPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "adjacent") {
		return OversizedAdjacent
	}
	return OversizedSplit
}

func (p OversizedPolicy) String() string {
	if p == OversizedAdjacent {
		return "adjacent"
	}
	return "split"
}

// Params is the immutable layout snapshot for one assignment run.
type Params struct {
	TotalTables   int
	SeatsPerTable int
	Oversized     OversizedPolicy
}

// NewParams snapshots settings for a run and rejects non-positive values.
func NewParams(s model.SeatingSettings, policy OversizedPolicy) (Params, error) {
	if s.TotalTables < 1 || s.SeatsPerTable < 1 {
		return Params{}, fmt.Errorf("%w (got %d tables x %d seats)", ErrInvalidSettings, s.TotalTables, s.SeatsPerTable)
	}
	return Params{TotalTables: s.TotalTables, SeatsPerTable: s.SeatsPerTable, Oversized: policy}, nil
}

// Assignment is the table/zone pair written for one registration.  A nil
// TableNo and SeatZone clears the assignment.
type Assignment struct {
	ID       string          `json:"id"`
	TableNo  *int            `json:"table_no"`
	SeatZone *model.SeatZone `json:"seat_zone"`
}

func assigned(id string, table int, zone model.SeatZone) Assignment {
	return Assignment{ID: id, TableNo: &table, SeatZone: &zone}
}

func cleared(id string) Assignment {
	return Assignment{ID: id}
}

// WarningKind labels a compromise made while placing a group.
type WarningKind string

const (
	// WarnOverflow means no table had room and the roomiest one was
	// oversold.
	WarnOverflow WarningKind = "overflow"
	// WarnSplit means an invitation group larger than a table was spread
	// over several tables.
	WarnSplit WarningKind = "split"
)

// Warning describes a placement that broke capacity or grouping.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	IDs     []string    `json:"ids"`
	Tables  []int       `json:"tables"`
	Message string      `json:"message"`
}

// Plan is the outcome of Assign.  Occupancy[i] is the headcount placed
// on table i+1 and may exceed the seat count when Warnings report an
// overflow.
type Plan struct {
	Assignments []Assignment `json:"assignments"`
	Occupancy   []int        `json:"occupancy"`
	Warnings    []Warning    `json:"warnings,omitempty"`
}

// group is a set of registrations that should share a table.
type group struct {
	members   []model.Registration
	headcount int
	zone      model.SeatZone
	priority  int
}

func newGroup(members []model.Registration) group {
	g := group{members: members}
	for _, m := range members {
		g.headcount += m.Headcount
	}
	g.zone = members[0].Type.Zone()
	g.priority = members[0].Type.Priority()
	return g
}

func (g group) ids() []string {
	ids := make([]string, len(g.members))
	for i, m := range g.members {
		ids[i] = m.ID
	}
	return ids
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// formGroups builds invitation groups from active registrations.
// External and VIP guests naming the same inviter are grouped together,
// led by the internal registration with that name when one exists.
// Everyone else is a group of one.  Inviter groups come first in order
// of first appearance, then singletons in input order.
func formGroups(active []model.Registration) []group {
	invited := make(map[string][]model.Registration)
	var inviters []string
	inGroup := make(map[string]bool)
	for _, r := range active {
		name := r.InviterName()
		if name == "" {
			continue
		}
		k := normName(name)
		if _, ok := invited[k]; !ok {
			inviters = append(inviters, k)
		}
		invited[k] = append(invited[k], r)
		inGroup[r.ID] = true
	}

	internalByName := make(map[string]model.Registration)
	for _, r := range active {
		if r.Type != model.TypeInternal {
			continue
		}
		k := normName(r.ContactName)
		if _, ok := internalByName[k]; !ok {
			internalByName[k] = r
		}
	}

	groups := make([]group, 0, len(active))
	for _, k := range inviters {
		members := invited[k]
		if host, ok := internalByName[k]; ok && !inGroup[host.ID] {
			members = append([]model.Registration{host}, members...)
			inGroup[host.ID] = true
		}
		groups = append(groups, newGroup(members))
	}
	for _, r := range active {
		if !inGroup[r.ID] {
			groups = append(groups, newGroup([]model.Registration{r}))
		}
	}
	return groups
}

// sortGroups orders groups VIP first, then internal, then external, and
// larger parties before smaller ones within a priority.
func sortGroups(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].priority != groups[j].priority {
			return groups[i].priority < groups[j].priority
		}
		return groups[i].headcount > groups[j].headcount
	})
}

// tables tracks occupied seats per table during one run.
type tables struct {
	occ   []int
	seats int
}

func newTables(n, seats int) *tables {
	if n < 1 {
		n = 1
	}
	return &tables{occ: make([]int, n), seats: seats}
}

func (t *tables) remaining(i int) int { return t.seats - t.occ[i] }

// firstFit returns the lowest table index with room for h seats, or -1.
func (t *tables) firstFit(h int) int {
	for i, o := range t.occ {
		if o+h <= t.seats {
			return i
		}
	}
	return -1
}

// roomiest returns the table with the most free seats; ties go to the
// lowest index.
func (t *tables) roomiest() int {
	best := 0
	for i := 1; i < len(t.occ); i++ {
		if t.remaining(i) > t.remaining(best) {
			best = i
		}
	}
	return best
}

// place seats h guests and reports whether the table was oversold.
func (t *tables) place(h int) (int, bool) {
	if i := t.firstFit(h); i >= 0 {
		t.occ[i] += h
		return i, false
	}
	i := t.roomiest()
	t.occ[i] += h
	return i, true
}

// adjacentRun finds the shortest run of neighbouring tables whose free
// seats add up to h.  Ties go to the run starting at the lowest index.
func (t *tables) adjacentRun(h int) (start, end int, ok bool) {
	bestLen := len(t.occ) + 1
	for s := range t.occ {
		free := 0
		for e := s; e < len(t.occ) && e-s+1 < bestLen; e++ {
			if r := t.remaining(e); r > 0 {
				free += r
			}
			if free >= h {
				bestLen, start, end, ok = e-s+1, s, e+1, true
				break
			}
		}
	}
	return start, end, ok
}

// Assign computes a table and zone for every active registration.  It is
// pure: regs is not modified and nothing is written anywhere.
//
// Groups that fit on one table go to the first table with room, or to
// the roomiest table when none has room (reported as WarnOverflow).
// Groups larger than a table are handled according to p.Oversized.
// A non-positive TotalTables behaves as a single table.
func Assign(regs []model.Registration, p Params) Plan {
	active := make([]model.Registration, 0, len(regs))
	for _, r := range regs {
		if r.Active() {
			active = append(active, r)
		}
	}

	groups := formGroups(active)
	sortGroups(groups)

	t := newTables(p.TotalTables, p.SeatsPerTable)
	plan := Plan{Assignments: make([]Assignment, 0, len(active))}
	for _, g := range groups {
		if g.headcount <= p.SeatsPerTable {
			idx, over := t.place(g.headcount)
			for _, m := range g.members {
				plan.Assignments = append(plan.Assignments, assigned(m.ID, idx+1, g.zone))
			}
			if over {
				plan.Warnings = append(plan.Warnings, overflowWarning(g.ids(), idx, t))
			}
			continue
		}
		plan.placeOversized(g, t, p.Oversized)
	}
	plan.Occupancy = t.occ
	return plan
}

func (plan *Plan) placeOversized(g group, t *tables, policy OversizedPolicy) {
	used := make(map[int]bool)
	var order []int
	seat := func(m model.Registration, idx int) {
		plan.Assignments = append(plan.Assignments, assigned(m.ID, idx+1, g.zone))
		if !used[idx] {
			used[idx] = true
			order = append(order, idx+1)
		}
	}

	start, end, ok := 0, 0, false
	if policy == OversizedAdjacent {
		start, end, ok = t.adjacentRun(g.headcount)
	}
	if ok {
		cur := start
		for _, m := range g.members {
			for cur < end-1 && t.occ[cur]+m.Headcount > t.seats {
				cur++
			}
			over := t.occ[cur]+m.Headcount > t.seats
			t.occ[cur] += m.Headcount
			seat(m, cur)
			if over {
				plan.Warnings = append(plan.Warnings, overflowWarning([]string{m.ID}, cur, t))
			}
		}
	} else {
		for _, m := range g.members {
			idx, over := t.place(m.Headcount)
			seat(m, idx)
			if over {
				plan.Warnings = append(plan.Warnings, overflowWarning([]string{m.ID}, idx, t))
			}
		}
	}

	if len(order) > 1 {
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:    WarnSplit,
			IDs:     g.ids(),
			Tables:  order,
			Message: fmt.Sprintf("invitation group of %d guests exceeds %d seats and was spread over %d tables", g.headcount, t.seats, len(order)),
		})
	}
}

func overflowWarning(ids []string, idx int, t *tables) Warning {
	return Warning{
		Kind:    WarnOverflow,
		IDs:     ids,
		Tables:  []int{idx + 1},
		Message: fmt.Sprintf("table %d oversold: %d of %d seats taken", idx+1, t.occ[idx], t.seats),
	}
}
