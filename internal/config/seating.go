package config

import "strings"

// Oversized group policies.  See seating.OversizedPolicy.
const (
	OversizedSplit    = "split"
	OversizedAdjacent = "adjacent"
)

// SeatingConfig tunes the seating tools.
//
// CommitConcurrency bounds how many per-row updates an auto-assign commit
// keeps in flight.  OversizedPolicy chooses what happens to an invitation
// group larger than one table; "split" is the historical behaviour.
type SeatingConfig struct {
	CommitConcurrency int
	OversizedPolicy   string
	AuditQueue        string
}

// LoadSeatingConfig reads SEATING_* variables with defaults.
func LoadSeatingConfig() SeatingConfig {
	cfg := SeatingConfig{
		CommitConcurrency: envInt("SEATING_COMMIT_CONCURRENCY", 16),
		OversizedPolicy:   strings.ToLower(envStr("SEATING_OVERSIZED_POLICY", OversizedSplit)),
		AuditQueue:        envStr("SEATING_AUDIT_QUEUE", "seating.audit"),
	}
	if cfg.CommitConcurrency < 1 {
		cfg.CommitConcurrency = 1
	}
	if cfg.OversizedPolicy != OversizedAdjacent {
		cfg.OversizedPolicy = OversizedSplit
	}
	return cfg
}

// LogConfig selects log level and encoder.
type LogConfig struct {
	Level       string
	Development bool
	OutputPath  string
}

// LoadLogConfig reads LOG_* variables with defaults.
func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:       strings.ToLower(envStr("LOG_LEVEL", "info")),
		Development: envBool("LOG_DEVELOPMENT", false),
		OutputPath:  envStr("LOG_OUTPUT", "stdout"),
	}
}
