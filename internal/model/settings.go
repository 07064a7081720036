package model

// SeatingSettings holds the venue layout used by the seating tools.
// Both values are read from the system_settings table.
type SeatingSettings struct {
	TotalTables   int `json:"total_tables"`
	SeatsPerTable int `json:"seats_per_table"`
}

// Capacity is the total number of seats across all tables.
func (s SeatingSettings) Capacity() int {
	return s.TotalTables * s.SeatsPerTable
}
