package seating

import (
	"sort"

	"github.com/iliyamo/gala-seating/internal/model"
)

// Table is one table in the per-table view.
type Table struct {
	TableNo       int                  `json:"table_no"`
	Zone          *model.SeatZone      `json:"zone"`
	Occupied      int                  `json:"occupied"`
	Capacity      int                  `json:"capacity"`
	Registrations []model.Registration `json:"registrations"`
}

// Over reports whether the table holds more guests than seats.
func (t Table) Over() bool { return t.Occupied > t.Capacity }

// TableView is the per-table listing: every configured table in order,
// plus registrations without a table.  Assignments pointing past the
// configured table count (left over after the layout shrank) get their
// own trailing tables so nobody disappears from the view.
type TableView struct {
	Tables     []Table              `json:"tables"`
	Unassigned []model.Registration `json:"unassigned"`
}

// ByTable groups active registrations by table number.
func ByTable(regs []model.Registration, set model.SeatingSettings) TableView {
	byNo := make(map[int][]model.Registration)
	view := TableView{Unassigned: []model.Registration{}}
	// stored settings are not validated on read; a bad layout shows no
	// empty tables instead of failing the view
	maxNo := max(set.TotalTables, 0)
	for _, r := range regs {
		if !r.Active() {
			continue
		}
		if !r.Assigned() || *r.TableNo < 1 {
			view.Unassigned = append(view.Unassigned, r)
			continue
		}
		n := *r.TableNo
		byNo[n] = append(byNo[n], r)
		if n > maxNo {
			maxNo = n
		}
	}

	view.Tables = make([]Table, 0, maxNo)
	for n := 1; n <= maxNo; n++ {
		members := byNo[n]
		t := Table{TableNo: n, Capacity: set.SeatsPerTable, Registrations: members}
		if t.Registrations == nil {
			t.Registrations = []model.Registration{}
		}
		for _, r := range members {
			t.Occupied += r.Headcount
		}
		t.Zone = dominantZone(members)
		view.Tables = append(view.Tables, t)
	}
	return view
}

// dominantZone picks the zone holding the most guests at a table, ties
// broken vip, internal, general.  It is nil for an empty table.
func dominantZone(members []model.Registration) *model.SeatZone {
	counts := make(map[model.SeatZone]int)
	for _, r := range members {
		if r.SeatZone != nil {
			counts[*r.SeatZone] += r.Headcount
		}
	}
	var best *model.SeatZone
	for _, z := range zoneOrder {
		if c, ok := counts[z]; ok && (best == nil || c > counts[*best]) {
			zz := z
			best = &zz
		}
	}
	return best
}

var zoneOrder = []model.SeatZone{model.ZoneVIP, model.ZoneInternal, model.ZoneGeneral}

// GridCell is a table tile in the zone diagram.
type GridCell struct {
	TableNo  int  `json:"table_no"`
	Occupied int  `json:"occupied"`
	Capacity int  `json:"capacity"`
	Parties  int  `json:"parties"`
	Over     bool `json:"over"`
}

// ZoneRow is one band of the zone diagram.  Zone is empty for tables
// nobody sits at yet.
type ZoneRow struct {
	Zone   model.SeatZone `json:"zone"`
	Tables []GridCell     `json:"tables"`
}

// ZoneGrid lays tables out in bands by dominant zone: vip, internal,
// general, then empty tables.  Bands without tables are omitted.
func ZoneGrid(regs []model.Registration, set model.SeatingSettings) []ZoneRow {
	view := ByTable(regs, set)
	bands := make(map[model.SeatZone][]GridCell)
	for _, t := range view.Tables {
		var z model.SeatZone
		if t.Zone != nil {
			z = *t.Zone
		}
		bands[z] = append(bands[z], GridCell{
			TableNo:  t.TableNo,
			Occupied: t.Occupied,
			Capacity: t.Capacity,
			Parties:  len(t.Registrations),
			Over:     t.Over(),
		})
	}
	rows := make([]ZoneRow, 0, len(bands))
	for _, z := range []model.SeatZone{model.ZoneVIP, model.ZoneInternal, model.ZoneGeneral, ""} {
		if cells, ok := bands[z]; ok {
			rows = append(rows, ZoneRow{Zone: z, Tables: cells})
		}
	}
	return rows
}

// OverviewRow is a line in the tabular overview.
type OverviewRow struct {
	TableNo   int            `json:"table_no"`
	Zone      model.SeatZone `json:"zone"`
	Parties   int            `json:"parties"`
	Guests    int            `json:"guests"`
	Remaining int            `json:"remaining"`
	Names     []string       `json:"names"`
}

// Overview returns one row per occupied table, ordered by table number.
// Names are listed by descending headcount, then name.
func Overview(regs []model.Registration, set model.SeatingSettings) []OverviewRow {
	view := ByTable(regs, set)
	rows := make([]OverviewRow, 0, len(view.Tables))
	for _, t := range view.Tables {
		if len(t.Registrations) == 0 {
			continue
		}
		members := append([]model.Registration(nil), t.Registrations...)
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Headcount != members[j].Headcount {
				return members[i].Headcount > members[j].Headcount
			}
			return members[i].ContactName < members[j].ContactName
		})
		row := OverviewRow{
			TableNo:   t.TableNo,
			Parties:   len(members),
			Guests:    t.Occupied,
			Remaining: t.Capacity - t.Occupied,
			Names:     make([]string, len(members)),
		}
		if t.Zone != nil {
			row.Zone = *t.Zone
		}
		for i, m := range members {
			row.Names[i] = m.ContactName
		}
		rows = append(rows, row)
	}
	return rows
}
