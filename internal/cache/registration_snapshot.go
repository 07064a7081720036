// Package cache keeps the Redis copy of the active registration list that
// the admin seating views read from.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/gala-seating/internal/config"
	"github.com/iliyamo/gala-seating/internal/model"
	"github.com/iliyamo/gala-seating/internal/seating"
)

// maxApplyRetries bounds optimistic WATCH retries when several admins
// patch the snapshot at once.
const maxApplyRetries = 3

// RegistrationSnapshot stores the active registrations as one JSON value
// under key, with an invalidation counter under key+":version".  It
// implements seating.Snapshot.
type RegistrationSnapshot struct {
	rdb        *redis.Client
	key        string
	versionKey string
	ttl        time.Duration
}

// NewRegistrationSnapshot builds a snapshot on rdb.  rdb must not be nil.
func NewRegistrationSnapshot(rdb *redis.Client, cfg config.SnapshotConfig) *RegistrationSnapshot {
	return &RegistrationSnapshot{rdb: rdb, key: cfg.Key, versionKey: cfg.Key + ":version", ttl: cfg.TTL}
}

// Get returns the cached list and whether the key was present.
func (s *RegistrationSnapshot) Get(ctx context.Context) ([]model.Registration, bool, error) {
	bs, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var regs []model.Registration
	if err := json.Unmarshal(bs, &regs); err != nil {
		// a corrupt value is as good as a miss
		_ = s.rdb.Del(ctx, s.key).Err()
		return nil, false, nil
	}
	return regs, true, nil
}

// Version returns the invalidation counter, 0 before the first Invalidate.
func (s *RegistrationSnapshot) Version(ctx context.Context) (int64, error) {
	return readVersion(ctx, s.rdb, s.versionKey)
}

func readVersion(ctx context.Context, c redis.Cmdable, key string) (int64, error) {
	v, err := c.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Put replaces the cached list if the version is still the one given.
// The check and the write run under WATCH on the version key.
func (s *RegistrationSnapshot) Put(ctx context.Context, version int64, regs []model.Registration) error {
	bs, err := json.Marshal(regs)
	if err != nil {
		return err
	}
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readVersion(ctx, tx, s.versionKey)
		if err != nil {
			return err
		}
		if cur != version {
			return seating.ErrSnapshotStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, bs, s.ttl)
			return nil
		})
		return err
	}, s.versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return seating.ErrSnapshotStale
	}
	return err
}

// Apply patches table and zone of the listed registrations in place.  A
// cold snapshot is left cold.  The read-modify-write runs under WATCH so a
// concurrent Invalidate is never overwritten by a stale copy.
func (s *RegistrationSnapshot) Apply(ctx context.Context, updates []seating.Assignment) error {
	if len(updates) == 0 {
		return nil
	}
	txf := func(tx *redis.Tx) error {
		bs, err := tx.Get(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var regs []model.Registration
		if err := json.Unmarshal(bs, &regs); err != nil {
			return err
		}
		out, err := json.Marshal(ApplyAssignments(regs, updates))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, out, s.ttl)
			return nil
		})
		return err
	}
	for i := 0; i < maxApplyRetries; i++ {
		err := s.rdb.Watch(ctx, txf, s.key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("snapshot apply: gave up after %d conflicting writes", maxApplyRetries)
}

// Invalidate drops the snapshot and bumps the version so refills loaded
// before this call are rejected.
func (s *RegistrationSnapshot) Invalidate(ctx context.Context) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.Incr(ctx, s.versionKey)
		return nil
	})
	return err
}

// ApplyAssignments returns a copy of regs with updates applied.  Unknown
// ids are ignored.
func ApplyAssignments(regs []model.Registration, updates []seating.Assignment) []model.Registration {
	idx := make(map[string]int, len(regs))
	out := make([]model.Registration, len(regs))
	for i, r := range regs {
		out[i] = r
		idx[r.ID] = i
	}
	for _, u := range updates {
		i, ok := idx[u.ID]
		if !ok {
			continue
		}
		out[i].TableNo = copyInt(u.TableNo)
		out[i].SeatZone = copyZone(u.SeatZone)
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyZone(p *model.SeatZone) *model.SeatZone {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ seating.Snapshot = (*RegistrationSnapshot)(nil)
