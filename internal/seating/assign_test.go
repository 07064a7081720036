package seating

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gala-seating/internal/model"
)

func params(tables, seats int) Params {
	return Params{TotalTables: tables, SeatsPerTable: seats}
}

func TestAssign_VIPFirstThenInvitationGroup(t *testing.T) {
	regs := []model.Registration{
		reg("alice", model.TypeInternal, 1, "Alice"),
		invitedBy(reg("bob", model.TypeExternal, 1, "Bob"), "Alice"),
		reg("vip", model.TypeVIP, 2, "Chairman"),
	}

	plan := Assign(regs, params(3, 2))

	assert.Equal(t, map[string]int{"vip": 1, "alice": 2, "bob": 2}, tablesByID(plan))
	assert.Equal(t, map[string]model.SeatZone{
		"vip":   model.ZoneVIP,
		"alice": model.ZoneInternal,
		"bob":   model.ZoneInternal,
	}, zonesByID(plan))
	assert.Equal(t, []int{2, 2, 0}, plan.Occupancy)
	assert.Empty(t, plan.Warnings)
}

func TestAssign_SingletonsShareTable(t *testing.T) {
	regs := []model.Registration{
		reg("e1", model.TypeExternal, 1, "Guest One"),
		reg("e2", model.TypeExternal, 1, "Guest Two"),
	}

	plan := Assign(regs, params(1, 2))

	assert.Equal(t, map[string]int{"e1": 1, "e2": 1}, tablesByID(plan))
	assert.Equal(t, model.ZoneGeneral, zonesByID(plan)["e1"])
	assert.Equal(t, []int{2}, plan.Occupancy)
}

func TestAssign_OversizedPartyOverflowsOnlyTable(t *testing.T) {
	plan := Assign([]model.Registration{reg("big", model.TypeExternal, 5, "Big Party")}, params(1, 2))

	assert.Equal(t, map[string]int{"big": 1}, tablesByID(plan))
	assert.Equal(t, []int{5}, plan.Occupancy)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, WarnOverflow, plan.Warnings[0].Kind)
	assert.Equal(t, []int{1}, plan.Warnings[0].Tables)
}

func TestAssign_SkipsWaitlist(t *testing.T) {
	regs := []model.Registration{
		reg("a", model.TypeExternal, 1, "A"),
		waitlisted(reg("w", model.TypeExternal, 1, "W")),
	}

	plan := Assign(regs, params(2, 4))

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "a", plan.Assignments[0].ID)
}

func TestAssign_InviterMatchIgnoresCaseAndSpace(t *testing.T) {
	regs := []model.Registration{
		reg("filler", model.TypeExternal, 3, "Filler"),
		reg("host", model.TypeInternal, 1, "Alice Chen"),
		invitedBy(reg("g1", model.TypeVIP, 1, "G1"), "  alice chen "),
		invitedBy(reg("g2", model.TypeExternal, 1, "G2"), "ALICE CHEN"),
	}

	plan := Assign(regs, params(3, 4))
	tables := tablesByID(plan)

	assert.Equal(t, tables["host"], tables["g1"])
	assert.Equal(t, tables["host"], tables["g2"])
	// the internal host leads the group, so the whole group is internal
	assert.Equal(t, model.ZoneInternal, zonesByID(plan)["g1"])
}

func TestAssign_UnmatchedInviterStillGroups(t *testing.T) {
	regs := []model.Registration{
		reg("x", model.TypeExternal, 2, "X"),
		invitedBy(reg("g1", model.TypeExternal, 1, "G1"), "Nobody"),
		reg("y", model.TypeExternal, 1, "Y"),
		invitedBy(reg("g2", model.TypeExternal, 1, "G2"), "Nobody"),
	}

	plan := Assign(regs, params(3, 3))
	tables := tablesByID(plan)

	assert.Equal(t, tables["g1"], tables["g2"])
	assert.Equal(t, model.ZoneGeneral, zonesByID(plan)["g1"])
}

func TestAssign_InternalInviterFieldIgnored(t *testing.T) {
	regs := []model.Registration{
		reg("boss", model.TypeInternal, 2, "Boss"),
		invitedBy(reg("staff", model.TypeInternal, 2, "Staff"), "Boss"),
	}

	groups := formGroups(regs)

	require.Len(t, groups, 2)
	assert.Len(t, groups[0].members, 1)
	assert.Len(t, groups[1].members, 1)
}

func TestAssign_GroupOrdering(t *testing.T) {
	regs := []model.Registration{
		reg("ext-big", model.TypeExternal, 4, "Ext Big"),
		reg("int-small", model.TypeInternal, 1, "Int Small"),
		reg("int-big", model.TypeInternal, 3, "Int Big"),
		reg("vip-small", model.TypeVIP, 1, "Vip Small"),
	}

	groups := formGroups(regs)
	sortGroups(groups)

	var order []string
	for _, g := range groups {
		order = append(order, g.members[0].ID)
	}
	assert.Equal(t, []string{"vip-small", "int-big", "int-small", "ext-big"}, order)
}

func TestAssign_RoomiestTieGoesToLowestTable(t *testing.T) {
	regs := []model.Registration{
		reg("a", model.TypeExternal, 2, "A"),
		reg("b", model.TypeExternal, 2, "B"),
		reg("c", model.TypeExternal, 2, "C"),
	}

	plan := Assign(regs, params(2, 3))

	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1}, tablesByID(plan))
	assert.Equal(t, []int{4, 2}, plan.Occupancy)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, WarnOverflow, plan.Warnings[0].Kind)
	assert.Equal(t, []string{"c"}, plan.Warnings[0].IDs)
}

func TestAssign_OversizedGroupSplitsMemberByMember(t *testing.T) {
	regs := []model.Registration{
		reg("host", model.TypeInternal, 2, "Host"),
		invitedBy(reg("a", model.TypeExternal, 2, "A"), "Host"),
		invitedBy(reg("b", model.TypeExternal, 2, "B"), "Host"),
	}

	plan := Assign(regs, params(3, 4))

	assert.Equal(t, map[string]int{"host": 1, "a": 1, "b": 2}, tablesByID(plan))
	for _, z := range zonesByID(plan) {
		assert.Equal(t, model.ZoneInternal, z)
	}
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, WarnSplit, plan.Warnings[0].Kind)
	assert.Equal(t, []int{1, 2}, plan.Warnings[0].Tables)
}

func oversizedAfterVIP() []model.Registration {
	return []model.Registration{
		reg("vip", model.TypeVIP, 3, "VIP"),
		reg("host", model.TypeInternal, 1, "Host"),
		invitedBy(reg("a", model.TypeExternal, 3, "A"), "Host"),
		invitedBy(reg("b", model.TypeExternal, 2, "B"), "Host"),
	}
}

func TestAssign_OversizedSplitUsesLeftoverSeats(t *testing.T) {
	plan := Assign(oversizedAfterVIP(), params(4, 4))

	assert.Equal(t, map[string]int{"vip": 1, "host": 1, "a": 2, "b": 3}, tablesByID(plan))
}

func TestAssign_OversizedAdjacentKeepsGroupOnNeighbouringTables(t *testing.T) {
	p := params(4, 4)
	p.Oversized = OversizedAdjacent

	plan := Assign(oversizedAfterVIP(), p)

	assert.Equal(t, map[string]int{"vip": 1, "host": 2, "a": 2, "b": 3}, tablesByID(plan))
	assert.Equal(t, []int{3, 4, 2, 0}, plan.Occupancy)
}

func TestAssign_OversizedAdjacentFallsBackWithoutRun(t *testing.T) {
	p := params(1, 2)
	p.Oversized = OversizedAdjacent
	regs := []model.Registration{
		reg("host", model.TypeInternal, 1, "Host"),
		invitedBy(reg("a", model.TypeExternal, 2, "A"), "Host"),
	}

	plan := Assign(regs, p)

	assert.Equal(t, map[string]int{"host": 1, "a": 1}, tablesByID(plan))
	assert.Equal(t, []int{3}, plan.Occupancy)
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	regs := []model.Registration{
		reg("host", model.TypeInternal, 1, "Host"),
		invitedBy(reg("a", model.TypeExternal, 1, "A"), "Host"),
		seatedAt(reg("b", model.TypeExternal, 1, "B"), 7, model.ZoneGeneral),
	}
	before := make([]model.Registration, len(regs))
	copy(before, regs)

	_ = Assign(regs, params(2, 4))

	assert.Equal(t, before, regs)
	assert.Equal(t, 7, *regs[2].TableNo)
}

func TestAssign_NonPositiveTablesLandOnTableOne(t *testing.T) {
	regs := []model.Registration{
		reg("a", model.TypeExternal, 1, "A"),
		reg("b", model.TypeExternal, 1, "B"),
	}

	plan := Assign(regs, params(0, 0))

	assert.Equal(t, map[string]int{"a": 1, "b": 1}, tablesByID(plan))
	assert.Equal(t, []int{2}, plan.Occupancy)
}

// mixedGuestList builds invitation groups of varying size, each small
// enough for one table, with total headcount well under capacity.
func mixedGuestList() []model.Registration {
	var regs []model.Registration
	for i := 0; i < 6; i++ {
		host := fmt.Sprintf("Host %d", i)
		regs = append(regs, reg(fmt.Sprintf("h%d", i), model.TypeInternal, 1+i%2, host))
		for j := 0; j < i%3+1; j++ {
			typ := model.TypeExternal
			if j == 0 && i%2 == 0 {
				typ = model.TypeVIP
			}
			regs = append(regs, invitedBy(reg(fmt.Sprintf("g%d-%d", i, j), typ, 1+j%2, fmt.Sprintf("Guest %d-%d", i, j)), host))
		}
	}
	for i := 0; i < 5; i++ {
		regs = append(regs, reg(fmt.Sprintf("s%d", i), model.TypeExternal, 1+i%3, fmt.Sprintf("Solo %d", i)))
	}
	return regs
}

func TestAssign_GroupMembersShareTable(t *testing.T) {
	regs := mixedGuestList()
	plan := Assign(regs, params(6, 8))
	tables := tablesByID(plan)
	zones := zonesByID(plan)

	for _, g := range formGroups(regs) {
		require.LessOrEqual(t, g.headcount, 8)
		lead := g.members[0].ID
		for _, m := range g.members[1:] {
			assert.Equal(t, tables[lead], tables[m.ID], "group led by %s", lead)
			assert.Equal(t, zones[lead], zones[m.ID], "group led by %s", lead)
		}
	}
}

func TestAssign_NoTableOverCapacityWhenRoomSuffices(t *testing.T) {
	regs := mixedGuestList()
	total := 0
	for _, r := range regs {
		total += r.Headcount
	}
	p := params(8, 8)
	require.GreaterOrEqual(t, p.TotalTables*p.SeatsPerTable, total)

	plan := Assign(regs, p)

	sums := make(map[int]int)
	byID := make(map[string]model.Registration)
	for _, r := range regs {
		byID[r.ID] = r
	}
	for _, a := range plan.Assignments {
		require.NotNil(t, a.TableNo)
		assert.GreaterOrEqual(t, *a.TableNo, 1)
		assert.LessOrEqual(t, *a.TableNo, p.TotalTables)
		sums[*a.TableNo] += byID[a.ID].Headcount
	}
	for table, n := range sums {
		assert.LessOrEqual(t, n, p.SeatsPerTable, "table %d", table)
	}
	assert.Empty(t, plan.Warnings)
	assert.Len(t, plan.Assignments, len(regs))
}

func TestNewParams(t *testing.T) {
	_, err := NewParams(model.SeatingSettings{TotalTables: 0, SeatsPerTable: 10}, OversizedSplit)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = NewParams(model.SeatingSettings{TotalTables: 3, SeatsPerTable: -1}, OversizedSplit)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	p, err := NewParams(model.SeatingSettings{TotalTables: 3, SeatsPerTable: 10}, OversizedAdjacent)
	require.NoError(t, err)
	assert.Equal(t, Params{TotalTables: 3, SeatsPerTable: 10, Oversized: OversizedAdjacent}, p)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, OversizedAdjacent, ParsePolicy(" Adjacent "))
	assert.Equal(t, OversizedSplit, ParsePolicy("split"))
	assert.Equal(t, OversizedSplit, ParsePolicy(""))
	assert.Equal(t, "adjacent", OversizedAdjacent.String())
}
