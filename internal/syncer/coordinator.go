// Package syncer implements the sync coordinator: local-first persistence,
// debounced remote writes, and the one-time migration of anonymous progress
// into an authenticated account.
//
// Ownership model: the coordinator exclusively owns the in-memory
// ProgressState and GamificationState for the lifetime of a session, and is
// the only writer of the local cache. All mutation goes through its methods
// under one mutex, so callers observe each mutation atomically.
//
// Failure policy: local mutations and cache writes always happen first;
// remote writes are fire-and-forget, logged and swallowed. A failed remote
// write is implicitly retried by the next mutation of the same entity. The
// learner is never blocked by the network.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tobyward/pace/internal/cache"
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/remote"
)

// DefaultDebounce is the quiescence window that coalesces bursts of
// gamification mutations into one remote write.
const DefaultDebounce = 2 * time.Second

// DefaultRemoteTimeout bounds each fire-and-forget remote call.
const DefaultRemoteTimeout = 10 * time.Second

// Coordinator orchestrates the two engines' persistence. One instance per
// learner session; construct on login/app start, Close on session end.
type Coordinator struct {
	mu sync.Mutex

	cache  cache.Cache
	remote remote.Store
	cat    *catalog.Catalog
	clock  dates.Clock
	sched  Scheduler

	debounce      time.Duration
	remoteTimeout time.Duration
	dailyGoal     int

	learnerID string
	progress  *model.ProgressState
	gamify    *model.GamificationState

	// pendingCancel is non-nil while a debounced gamification sync is
	// scheduled: idle -> scheduled -> idle on fire.
	pendingCancel CancelFunc

	// dirtyStrengths are lesson-strength keys touched since the last
	// remote gamification sync.
	dirtyStrengths map[string]bool

	// wg tracks in-flight fire-and-forget remote writes so Flush can
	// drain them.
	wg sync.WaitGroup

	closed bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the wall clock (tests use a fixed clock).
func WithClock(c dates.Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithScheduler overrides the debounce scheduler (tests drive it manually).
func WithScheduler(s Scheduler) Option {
	return func(co *Coordinator) { co.sched = s }
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(co *Coordinator) { co.debounce = d }
}

// WithRemoteTimeout overrides the per-call remote timeout.
func WithRemoteTimeout(d time.Duration) Option {
	return func(co *Coordinator) { co.remoteTimeout = d }
}

// WithDailyGoal sets the configured daily XP target. The configured value
// overrides whatever goal a loaded snapshot carries; zero keeps the
// snapshot's own goal.
func WithDailyGoal(goal int) Option {
	return func(co *Coordinator) { co.dailyGoal = goal }
}

// New constructs a coordinator with empty in-memory state. Call Bootstrap
// to load cached snapshots before use.
func New(c cache.Cache, r remote.Store, cat *catalog.Catalog, opts ...Option) *Coordinator {
	co := &Coordinator{
		cache:          c,
		remote:         r,
		cat:            cat,
		clock:          dates.SystemClock{},
		sched:          TimerScheduler{},
		debounce:       DefaultDebounce,
		remoteTimeout:  DefaultRemoteTimeout,
		progress:       model.NewProgressState(),
		gamify:         model.NewGamificationState(),
		dirtyStrengths: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(co)
	}
	co.applyDailyGoalLocked()
	return co
}

// applyDailyGoalLocked reimposes the configured daily goal on the current
// gamification state. Called wherever that state is replaced.
func (co *Coordinator) applyDailyGoalLocked() {
	if co.dailyGoal > 0 {
		co.gamify.DailyGoal = co.dailyGoal
	}
}

// Bootstrap loads the cached snapshots synchronously. It never touches the
// network: with no authenticated identity the cached snapshot is
// authoritative, and with one the caller follows up with Refresh.
//
// Cache read failures are logged and leave fresh in-memory state: the
// session still works, it just won't have history.
func (co *Coordinator) Bootstrap() {
	co.mu.Lock()
	defer co.mu.Unlock()

	if data, ok, err := co.cache.Get(cache.KeyProgress); err != nil {
		slog.Error("cache read failed, starting fresh", "key", cache.KeyProgress, "error", err)
	} else if ok {
		ps, err := model.DecodeProgress(data)
		if err != nil {
			slog.Error("cached progress snapshot corrupt, starting fresh", "error", err)
		} else {
			co.progress = ps
		}
	}

	if data, ok, err := co.cache.Get(cache.KeyGamification); err != nil {
		slog.Error("cache read failed, starting fresh", "key", cache.KeyGamification, "error", err)
	} else if ok {
		gs, err := model.DecodeGamification(data)
		if err != nil {
			slog.Error("cached gamification snapshot corrupt, starting fresh", "error", err)
		} else {
			co.gamify = gs
		}
	}

	if id, ok, err := co.cache.Get(cache.KeyLearnerID); err != nil {
		slog.Error("cache read failed", "key", cache.KeyLearnerID, "error", err)
	} else if ok {
		co.learnerID = string(id)
	}

	co.applyDailyGoalLocked()
}

// LearnerID returns the authenticated identity, or "" when anonymous.
func (co *Coordinator) LearnerID() string {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.learnerID
}

// Progress returns a snapshot copy of the progress state for rendering.
// Callers never see later mutations through it.
func (co *Coordinator) Progress() *model.ProgressState {
	co.mu.Lock()
	defer co.mu.Unlock()
	return cloneProgress(co.progress)
}

// Gamification returns a snapshot copy of the gamification state.
func (co *Coordinator) Gamification() *model.GamificationState {
	co.mu.Lock()
	defer co.mu.Unlock()
	return cloneGamification(co.gamify)
}

// Refresh fetches the authoritative remote snapshot, replaces the in-memory
// state, and re-caches it as the offline fallback. With no identity it is a
// no-op.
//
// On remote failure the error is returned and the previous (cached)
// snapshot stays in effect.
func (co *Coordinator) Refresh(ctx context.Context) error {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.learnerID == "" {
		return nil
	}
	return co.loadRemoteLocked(ctx)
}

// loadRemoteLocked replaces in-memory state from the remote store and
// writes it back to the cache. Caller holds mu.
func (co *Coordinator) loadRemoteLocked(ctx context.Context) error {
	ps, gs, err := co.remote.LoadSnapshot(ctx, co.learnerID)
	if err != nil {
		return fmt.Errorf("load remote snapshot: %w", err)
	}

	co.progress = ps
	co.gamify = gs
	co.applyDailyGoalLocked()
	co.saveProgressLocked()
	co.saveGamificationLocked()

	slog.Info("remote snapshot loaded", "learner", co.learnerID)
	return nil
}

// saveProgressLocked writes the progress snapshot to the local cache.
// Cache failures are fatal to persistence but not to the session: the
// in-memory state keeps working.
func (co *Coordinator) saveProgressLocked() {
	data, err := model.EncodeProgress(co.progress)
	if err != nil {
		slog.Error("encode progress snapshot", "error", err)
		return
	}
	if err := co.cache.Set(cache.KeyProgress, data); err != nil {
		slog.Error("cache write failed", "key", cache.KeyProgress, "error", err)
	}
}

func (co *Coordinator) saveGamificationLocked() {
	data, err := model.EncodeGamification(co.gamify)
	if err != nil {
		slog.Error("encode gamification snapshot", "error", err)
		return
	}
	if err := co.cache.Set(cache.KeyGamification, data); err != nil {
		slog.Error("cache write failed", "key", cache.KeyGamification, "error", err)
	}
}

// remoteAsync runs one fire-and-forget remote write. Failures are logged
// and swallowed: the next mutation of the same entity is the retry.
// Anonymous sessions write nothing remotely.
func (co *Coordinator) remoteAsync(op string, fn func(ctx context.Context, learnerID string) error) {
	if co.learnerID == "" {
		return
	}
	learnerID := co.learnerID

	co.wg.Add(1)
	go func() {
		defer co.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), co.remoteTimeout)
		defer cancel()
		if err := fn(ctx, learnerID); err != nil {
			slog.Warn("remote write failed", "op", op, "learner", learnerID, "error", err)
		}
	}()
}

// scheduleGamifySyncLocked (re)arms the debounce timer for the remote
// gamification upsert. A mutation arriving before the window elapses resets
// the window. Caller holds mu.
func (co *Coordinator) scheduleGamifySyncLocked() {
	if co.learnerID == "" || co.closed {
		return
	}
	if co.pendingCancel != nil {
		co.pendingCancel()
	}
	co.pendingCancel = co.sched.Schedule(co.debounce, co.fireGamifySync)
}

// fireGamifySync performs the debounced remote write with the snapshot at
// fire time. Last writer wins; an in-flight write is never cancelled, a
// newer one simply starts after it.
func (co *Coordinator) fireGamifySync() {
	co.mu.Lock()
	co.pendingCancel = nil
	// A timer that already fired when Close stopped it parks on mu and runs
	// once Close unlocks. A closed coordinator never pushes.
	if co.closed || co.learnerID == "" {
		co.mu.Unlock()
		return
	}
	learnerID := co.learnerID
	snapshot := cloneGamification(co.gamify)
	dirty := co.dirtyStrengths
	co.dirtyStrengths = make(map[string]bool)
	co.mu.Unlock()

	co.wg.Add(1)
	go func() {
		defer co.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), co.remoteTimeout)
		defer cancel()
		co.pushGamification(ctx, learnerID, snapshot, dirty)
	}()
}

// pushGamification writes the streak row, the gamification row, and any
// dirty lesson-strength rows. Each failure is logged independently; a
// failed strength key is re-marked dirty so the next sync retries it.
func (co *Coordinator) pushGamification(ctx context.Context, learnerID string, gs *model.GamificationState, dirty map[string]bool) {
	if err := co.remote.UpsertStreakState(ctx, learnerID, gs); err != nil {
		slog.Warn("remote write failed", "op", "streak_state", "learner", learnerID, "error", err)
	}
	if err := co.remote.UpsertGamificationState(ctx, learnerID, gs); err != nil {
		slog.Warn("remote write failed", "op", "gamification_state", "learner", learnerID, "error", err)
	}
	for key := range dirty {
		ls, ok := gs.LessonStrength[key]
		if !ok {
			continue
		}
		moduleID, lessonID, ok := model.SplitStrengthKey(key)
		if !ok {
			continue
		}
		if err := co.remote.UpsertLessonStrength(ctx, learnerID, moduleID, lessonID, ls.Strength, ls.LastReviewed); err != nil {
			slog.Warn("remote write failed", "op", "lesson_strength", "learner", learnerID, "key", key, "error", err)
			co.mu.Lock()
			co.dirtyStrengths[key] = true
			co.mu.Unlock()
		}
	}
}

// Flush fires any pending debounced sync immediately and waits for every
// in-flight remote write to finish. The CLI calls it before process exit so
// short-lived sessions still sync.
func (co *Coordinator) Flush() {
	co.mu.Lock()
	pending := co.pendingCancel != nil
	if pending {
		co.pendingCancel()
		co.pendingCancel = nil
	}
	co.mu.Unlock()

	if pending {
		co.fireGamifySync()
	}
	co.wg.Wait()
}

// Close ends the session: any pending debounce timer is cancelled, not
// fired. In-flight writes are drained so their goroutines do not outlive
// the owner.
func (co *Coordinator) Close() {
	co.mu.Lock()
	co.closed = true
	if co.pendingCancel != nil {
		co.pendingCancel()
		co.pendingCancel = nil
	}
	co.mu.Unlock()

	co.wg.Wait()
}

// cloneProgress deep-copies a snapshot via its JSON form. Snapshots are
// small (tens of modules), so the round-trip is cheap and stays in lockstep
// with the persisted encoding.
func cloneProgress(ps *model.ProgressState) *model.ProgressState {
	data, err := model.EncodeProgress(ps)
	if err != nil {
		return model.NewProgressState()
	}
	out, err := model.DecodeProgress(data)
	if err != nil {
		return model.NewProgressState()
	}
	return out
}

func cloneGamification(gs *model.GamificationState) *model.GamificationState {
	data, err := model.EncodeGamification(gs)
	if err != nil {
		return model.NewGamificationState()
	}
	out, err := model.DecodeGamification(data)
	if err != nil {
		return model.NewGamificationState()
	}
	return out
}
