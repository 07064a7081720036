// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit log.
package queue

// SeatingAuditEvent is published after every seating commit settles,
// whether it landed or not.  It carries enough to reconstruct who changed
// the seating plan and how far the write got without querying the
// primary database.
type SeatingAuditEvent struct {
	RunID         string `json:"run_id"`
	Action        string `json:"action"` // auto_assign | reset | manual_assign | remove
	Status        string `json:"status"` // committed | failed
	ActorID       string `json:"actor_id,omitempty"`
	Requested     int    `json:"requested"`
	Updated       int    `json:"updated"`
	Warnings      int    `json:"warnings"`
	TotalTables   int    `json:"total_tables"`
	SeatsPerTable int    `json:"seats_per_table"`
	OccurredAt    string `json:"occurred_at"`
}
