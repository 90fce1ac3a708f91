// Package syncer reconciles the local store with the per-user remote
// replica. One engine exists per signed-in session; it owns scheduling
// (debounced and throttled), the push/pull/purge cycle, and the observable
// sync status. All remote failures are captured here and surfaced as status,
// never propagated into the scheduling loop.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/dmitrijs2005/jobkeeper/internal/remote"
	"github.com/dmitrijs2005/jobkeeper/internal/store"
)

const (
	// DefaultDebounce collapses bursts of rapid edits into a single cycle.
	DefaultDebounce = 5 * time.Second

	// DefaultThrottle is the minimum spacing between completed syncs.
	DefaultThrottle = 30 * time.Second

	// scheduledSyncTimeout bounds a background cycle started by the timer.
	scheduledSyncTimeout = 2 * time.Minute
)

// State describes what the engine is currently doing.
type State string

const (
	StateDisabled  State = "disabled"
	StateIdle      State = "idle"
	StateScheduled State = "scheduled"
	StateSyncing   State = "syncing"
)

// Status is the observable engine state for passive display.
type Status struct {
	State        State
	Syncing      bool
	LastSyncedAt time.Time
	LastError    string
}

// Options tune the engine. Zero values fall back to defaults; Now exists so
// tests can inject a clock.
type Options struct {
	Debounce time.Duration
	Throttle time.Duration
	Now      func() time.Time
}

// Engine is the synchronization engine for one user session.
type Engine struct {
	store  *store.Store
	remote remote.Store
	log    logging.Logger
	now    func() time.Time

	debounce time.Duration
	throttle time.Duration

	mu           sync.Mutex
	userID       string
	timer        *time.Timer // single slot; a new schedule cancels the old one
	syncing      bool
	lastSyncedAt time.Time
	lastError    string
}

// New builds an engine. It starts disabled; nothing syncs until Enable binds
// a user identity.
func New(st *store.Store, rs remote.Store, log logging.Logger, opts Options) *Engine {
	e := &Engine{
		store:    st,
		remote:   rs,
		log:      log,
		now:      opts.Now,
		debounce: opts.Debounce,
		throttle: opts.Throttle,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.debounce <= 0 {
		e.debounce = DefaultDebounce
	}
	if e.throttle <= 0 {
		e.throttle = DefaultThrottle
	}
	return e
}

// Enable binds the engine to a user identity. Called on sign-in.
func (e *Engine) Enable(userID string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if e.remote == nil {
		return common.ErrNetworkFailure
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userID = userID
	e.lastSyncedAt = time.Time{}
	e.lastError = ""
	return nil
}

// Disable unbinds the user and wipes the local store: local rows are not
// meaningful without an identity, and keeping them would leak into the next
// session. Called on sign-out; callers that want un-pushed changes delivered
// should run SyncNow first.
func (e *Engine) Disable(ctx context.Context) error {
	e.mu.Lock()
	e.userID = ""
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()

	return e.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		if err := r.Stages.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Applications.DeleteAll(ctx)
	})
}

// Enabled reports whether a user identity is bound.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID != ""
}

// Status returns the current observable state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := StateIdle
	switch {
	case e.userID == "":
		st = StateDisabled
	case e.syncing:
		st = StateSyncing
	case e.timer != nil:
		st = StateScheduled
	}
	return Status{
		State:        st,
		Syncing:      e.syncing,
		LastSyncedAt: e.lastSyncedAt,
		LastError:    e.lastError,
	}
}

// ScheduleSync requests a sync after the debounce window, superseding any
// previously scheduled run (last call wins). If the previous completed sync
// was less than the throttle window ago, the run is deferred until the
// window has passed instead.
func (e *Engine) ScheduleSync() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return
	}

	delay := e.debounce
	if !e.lastSyncedAt.IsZero() {
		if elapsed := e.now().Sub(e.lastSyncedAt); elapsed < e.throttle {
			delay = e.throttle - elapsed
		}
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(delay, e.runScheduled)
}

func (e *Engine) runScheduled() {
	e.mu.Lock()
	e.timer = nil
	enabled := e.userID != ""
	e.mu.Unlock()

	if !enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), scheduledSyncTimeout)
	defer cancel()

	if err := e.performSync(ctx, false); err != nil {
		// Already captured in status; affected records stay dirty and the
		// next cycle retries.
		e.log.Warn(ctx, "scheduled sync failed", "error", err)
	}
}

func (e *Engine) cancelScheduled() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// SyncNow runs an incremental sync (push only) immediately, bypassing the
// scheduler and cancelling any pending scheduled run.
func (e *Engine) SyncNow(ctx context.Context) error {
	e.cancelScheduled()
	return e.performSync(ctx, false)
}

// FullSyncNow runs push then pull immediately. Pull must follow push so a
// record just created offline is not clobbered by a stale remote view and a
// local deletion is not resurrected by data push has already removed.
func (e *Engine) FullSyncNow(ctx context.Context) error {
	e.cancelScheduled()
	return e.performSync(ctx, true)
}

func (e *Engine) performSync(ctx context.Context, full bool) error {
	e.mu.Lock()
	if e.userID == "" {
		e.mu.Unlock()
		return common.ErrorUnauthorized
	}
	if e.syncing {
		// One sync at a time. The request is dropped, not queued; leftover
		// dirty records are picked up by the next cycle.
		e.mu.Unlock()
		return nil
	}
	e.syncing = true
	userID := e.userID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	if !full {
		n, err := e.countNeedingSync(ctx)
		if err != nil {
			return e.fail(err)
		}
		if n == 0 {
			// Nothing diverged; skip the network entirely.
			e.finish()
			return nil
		}
	}

	if err := e.push(ctx, userID); err != nil {
		e.log.Error(ctx, "push failed", "error", err)
		return e.fail(err)
	}

	if full {
		if err := e.pull(ctx, userID); err != nil {
			e.log.Error(ctx, "pull failed", "error", err)
			return e.fail(err)
		}
	}

	if err := e.purge(ctx); err != nil {
		e.log.Error(ctx, "purge failed", "error", err)
		return e.fail(err)
	}

	e.finish()
	e.log.Debug(ctx, "sync finished", "full", full)
	return nil
}

func (e *Engine) countNeedingSync(ctx context.Context) (int, error) {
	r := e.store.Repos()
	apps, err := r.Applications.CountNeedingSync(ctx)
	if err != nil {
		return 0, err
	}
	stages, err := r.Stages.CountNeedingSync(ctx)
	if err != nil {
		return 0, err
	}
	return apps + stages, nil
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastError = err.Error()
	return err
}

func (e *Engine) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSyncedAt = e.now()
	e.lastError = ""
}
