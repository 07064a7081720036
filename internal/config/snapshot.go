package config

import "time"

// SnapshotConfig controls the Redis copy of the registration list that
// the admin views read from.  The snapshot is patched optimistically
// while a seating commit is in flight and dropped once it settles.
type SnapshotConfig struct {
	Enabled bool
	TTL     time.Duration
	Key     string
}

// LoadSnapshotConfig reads SNAPSHOT_* variables with defaults.
func LoadSnapshotConfig() SnapshotConfig {
	cfg := SnapshotConfig{
		Enabled: envBool("SNAPSHOT_ENABLED", true),
		TTL:     envDur("SNAPSHOT_TTL", 5*time.Minute),
		Key:     envStr("SNAPSHOT_KEY", "gala:registrations:active"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return cfg
}
