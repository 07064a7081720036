package seating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/gala-seating/internal/logger"
	"github.com/iliyamo/gala-seating/internal/model"
	"github.com/iliyamo/gala-seating/internal/queue"
)

var (
	// ErrWaitlisted is returned when a manual seat change targets a
	// waitlisted registration.
	ErrWaitlisted = errors.New("seating: registration is waitlisted")
	// ErrTableOutOfRange is returned when a manual table number is not in
	// [1, total_tables].
	ErrTableOutOfRange = errors.New("seating: table number out of range")
	// ErrSnapshotStale is returned by Snapshot.Put when the snapshot was
	// invalidated after the caller read its version.
	ErrSnapshotStale = errors.New("seating: snapshot invalidated during refill")
)

// Store is the registration persistence the seating tools write through.
// Update calls report how many rows were affected so that rows hidden by
// access rules are caught as failures.
type Store interface {
	ListActive(ctx context.Context) ([]model.Registration, error)
	GetByID(ctx context.Context, id string) (model.Registration, error)
	UpdateByID(ctx context.Context, id string, tableNo *int, zone *model.SeatZone) (int64, error)
	UpdateByIDSet(ctx context.Context, ids []string) (int64, error)
}

// SettingsSource supplies the venue layout.
type SettingsSource interface {
	GetSeatingSettings(ctx context.Context) (model.SeatingSettings, error)
}

// Snapshot is the read copy of active registrations served to the admin
// views.  Apply patches it ahead of a write; Invalidate drops it and bumps
// the version so the next Get misses and the caller reloads from the
// store.  Put stores regs only while the version still equals the one
// read before loading them, and returns ErrSnapshotStale otherwise.
type Snapshot interface {
	Get(ctx context.Context) ([]model.Registration, bool, error)
	Version(ctx context.Context) (int64, error)
	Put(ctx context.Context, version int64, regs []model.Registration) error
	Apply(ctx context.Context, updates []Assignment) error
	Invalidate(ctx context.Context) error
}

// Publisher delivers audit events.
type Publisher interface {
	PublishSeatingAudit(ctx context.Context, ev queue.SeatingAuditEvent) error
}

// Action names a seating change.
type Action string

const (
	ActionAutoAssign Action = "auto_assign"
	ActionReset      Action = "reset"
	ActionManual     Action = "manual_assign"
	ActionRemove     Action = "remove"
)

// Audit statuses.
const (
	StatusCommitted = "committed"
	StatusFailed    = "failed"
)

// Outcome summarises a seating action.  NothingToDo is set when there
// was nothing to write; it is a success, not an error.
type Outcome struct {
	Action      Action `json:"action"`
	RunID       string `json:"run_id,omitempty"`
	NothingToDo bool   `json:"nothing_to_do"`
	Requested   int    `json:"requested"`
	Updated     int    `json:"updated"`
	Plan        *Plan  `json:"plan,omitempty"`
}

// Options configures a Service.  Zero values pick safe defaults.
type Options struct {
	Concurrency int
	Policy      OversizedPolicy
	Snapshot    Snapshot
	Publisher   Publisher
	Logger      *zap.Logger
	Now         func() time.Time
}

// Service runs seating actions against a Store.
type Service struct {
	store       Store
	settings    SettingsSource
	snap        Snapshot
	pub         Publisher
	log         *zap.Logger
	concurrency int
	policy      OversizedPolicy
	now         func() time.Time
}

// NewService wires a Service.  A nil Snapshot or Publisher disables that
// concern.
func NewService(store Store, settings SettingsSource, opts Options) *Service {
	if store == nil || settings == nil {
		panic("seating: nil store or settings passed to NewService")
	}
	s := &Service{
		store:       store,
		settings:    settings,
		snap:        opts.Snapshot,
		pub:         opts.Publisher,
		log:         opts.Logger,
		concurrency: opts.Concurrency,
		policy:      opts.Policy,
		now:         opts.Now,
	}
	if s.snap == nil {
		s.snap = noopSnapshot{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.concurrency < 1 {
		s.concurrency = 16
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type actorKey struct{}

// WithActor records who triggered a seating action for the audit trail.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

func actorFrom(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}

// run carries the per-action identity and layout snapshot.
type run struct {
	id       string
	action   Action
	actor    string
	params   Params
	warnings int
}

func (s *Service) newRun(ctx context.Context, action Action, p Params) *run {
	return &run{id: uuid.NewString(), action: action, actor: actorFrom(ctx), params: p}
}

func (r *run) fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", r.id),
		zap.String("action", string(r.action)),
		zap.String("actor_id", r.actor),
	}
}

func fieldsForOutcome(o Outcome) []zap.Field {
	return []zap.Field{zap.Int("requested", o.Requested), zap.Int("updated", o.Updated)}
}

func fieldsForFailure(e *CommitError) []zap.Field {
	return []zap.Field{
		zap.Int("requested", e.Requested),
		zap.Int("updated", e.Updated),
		zap.Int("failed", e.Failed),
		zap.Error(e.Err),
	}
}

func (s *Service) logFor(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.log)
}

func (s *Service) audit(ctx context.Context, r *run, o Outcome, status string) {
	if s.pub == nil {
		return
	}
	ev := queue.SeatingAuditEvent{
		RunID:         r.id,
		Action:        string(r.action),
		Status:        status,
		ActorID:       r.actor,
		Requested:     o.Requested,
		Updated:       o.Updated,
		Warnings:      r.warnings,
		TotalTables:   r.params.TotalTables,
		SeatsPerTable: r.params.SeatsPerTable,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.pub.PublishSeatingAudit(ctx, ev); err != nil {
		s.logFor(ctx).Warn("seating audit publish failed", append(r.fields(), zap.Error(err))...)
	}
}

// auditLayout reads the layout recorded on the audit event of an action
// that does not depend on it.  A failed read leaves it 0x0.
func (s *Service) auditLayout(ctx context.Context, action Action) Params {
	set, err := s.settings.GetSeatingSettings(ctx)
	if err != nil {
		s.logFor(ctx).Warn("seating settings read failed, audit layout left empty",
			zap.String("action", string(action)), zap.Error(err))
		return Params{}
	}
	return Params{TotalTables: set.TotalTables, SeatsPerTable: set.SeatsPerTable}
}

// params reads the layout once for the whole action.
func (s *Service) params(ctx context.Context) (Params, error) {
	set, err := s.settings.GetSeatingSettings(ctx)
	if err != nil {
		return Params{}, fmt.Errorf("read seating settings: %w", err)
	}
	return NewParams(set, s.policy)
}

// AutoAssign computes a fresh seating plan for every active registration
// and commits it.  Nothing is written when there are no active
// registrations.
func (s *Service) AutoAssign(ctx context.Context) (Outcome, error) {
	p, err := s.params(ctx)
	if err != nil {
		return Outcome{Action: ActionAutoAssign}, err
	}
	regs, err := s.store.ListActive(ctx)
	if err != nil {
		return Outcome{Action: ActionAutoAssign}, fmt.Errorf("list active registrations: %w", err)
	}
	if len(regs) == 0 {
		return Outcome{Action: ActionAutoAssign, NothingToDo: true}, nil
	}

	plan := Assign(regs, p)
	r := s.newRun(ctx, ActionAutoAssign, p)
	r.warnings = len(plan.Warnings)
	for _, w := range plan.Warnings {
		s.logFor(ctx).Warn(w.Message, append(r.fields(), zap.String("kind", string(w.Kind)), zap.Ints("tables", w.Tables))...)
	}

	out, err := s.commit(ctx, r, plan.Assignments, s.writeEach)
	out.Plan = &plan
	return out, err
}

// Reset clears the table and zone of every active registration that has
// one.  Waitlisted rows are never touched.
func (s *Service) Reset(ctx context.Context) (Outcome, error) {
	regs, err := s.store.ListActive(ctx)
	if err != nil {
		return Outcome{Action: ActionReset}, fmt.Errorf("list active registrations: %w", err)
	}
	updates := make([]Assignment, 0, len(regs))
	for _, r := range regs {
		if r.Active() && r.Assigned() {
			updates = append(updates, cleared(r.ID))
		}
	}
	if len(updates) == 0 {
		return Outcome{Action: ActionReset, NothingToDo: true}, nil
	}
	r := s.newRun(ctx, ActionReset, s.auditLayout(ctx, ActionReset))
	return s.commit(ctx, r, updates, s.writeCleared)
}

// SetTable manually seats one registration at tableNo.  The zone follows
// the registration type.
func (s *Service) SetTable(ctx context.Context, id string, tableNo int) (Outcome, error) {
	p, err := s.params(ctx)
	if err != nil {
		return Outcome{Action: ActionManual}, err
	}
	if tableNo < 1 || tableNo > p.TotalTables {
		return Outcome{Action: ActionManual}, fmt.Errorf("%w: %d not in 1..%d", ErrTableOutOfRange, tableNo, p.TotalTables)
	}
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Outcome{Action: ActionManual}, err
	}
	if !reg.Active() {
		return Outcome{Action: ActionManual}, ErrWaitlisted
	}
	r := s.newRun(ctx, ActionManual, p)
	return s.commit(ctx, r, []Assignment{assigned(reg.ID, tableNo, reg.Type.Zone())}, s.writeEach)
}

// ClearTable removes one registration from its table.  An unassigned
// registration is reported as nothing to do.
func (s *Service) ClearTable(ctx context.Context, id string) (Outcome, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Outcome{Action: ActionRemove}, err
	}
	if !reg.Active() {
		return Outcome{Action: ActionRemove}, ErrWaitlisted
	}
	if !reg.Assigned() {
		return Outcome{Action: ActionRemove, NothingToDo: true}, nil
	}
	r := s.newRun(ctx, ActionRemove, s.auditLayout(ctx, ActionRemove))
	return s.commit(ctx, r, []Assignment{cleared(reg.ID)}, s.writeEach)
}

// Active returns the active registrations, served from the snapshot when
// it is warm and reloaded from the store otherwise.  A reload that races
// a commit is returned to the caller but not cached.
func (s *Service) Active(ctx context.Context) ([]model.Registration, error) {
	log := s.logFor(ctx)
	if regs, ok, err := s.snap.Get(ctx); err == nil && ok {
		return regs, nil
	} else if err != nil {
		log.Warn("snapshot read failed", zap.Error(err))
	}
	// read before loading so an Invalidate in between rejects the refill
	version, verErr := s.snap.Version(ctx)
	regs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active registrations: %w", err)
	}
	if verErr != nil {
		log.Warn("snapshot version read failed, skipping refill", zap.Error(verErr))
		return regs, nil
	}
	switch err := s.snap.Put(ctx, version, regs); {
	case errors.Is(err, ErrSnapshotStale):
		log.Debug("snapshot changed during refill, not cached")
	case err != nil:
		log.Warn("snapshot refill failed", zap.Error(err))
	}
	return regs, nil
}

// Layout returns the current settings without validating them, for the
// read-only views.
func (s *Service) Layout(ctx context.Context) (model.SeatingSettings, error) {
	return s.settings.GetSeatingSettings(ctx)
}

type noopSnapshot struct{}

func (noopSnapshot) Get(context.Context) ([]model.Registration, bool, error) { return nil, false, nil }
func (noopSnapshot) Version(context.Context) (int64, error)                  { return 0, nil }
func (noopSnapshot) Put(context.Context, int64, []model.Registration) error  { return nil }
func (noopSnapshot) Apply(context.Context, []Assignment) error               { return nil }
func (noopSnapshot) Invalidate(context.Context) error                        { return nil }
