package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// JobFunc is invoked on its own goroutine each time a live job fires
type JobFunc func(ctx context.Context, guildID string, schedule models.Schedule)

// ScheduleStore is the persisted source of truth for guild schedules
type ScheduleStore interface {
	ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error)
	GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error)
	AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
	RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
}

type jobKey struct {
	kind     JobKind
	schedule models.Schedule
}

// Registry owns the live cron jobs of every guild. Live jobs are a cache of the
// persisted schedules and are rebuilt from the store on Start.
type Registry struct {
	cron     *cron.Cron
	store    ScheduleStore
	handlers map[JobKind]JobFunc

	mu         sync.Mutex
	guildLocks map[string]*sync.Mutex
	live       map[string]map[jobKey]cron.EntryID
	runCtx     context.Context
}

// NewRegistry creates a registry whose schedules fire in loc
func NewRegistry(store ScheduleStore, loc *time.Location) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	logger := newCronLogger()
	return &Registry{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		store:      store,
		handlers:   make(map[JobKind]JobFunc),
		guildLocks: make(map[string]*sync.Mutex),
		live:       make(map[string]map[jobKey]cron.EntryID),
		runCtx:     context.Background(),
	}
}

// Register sets the function run for kind. Must be called before Start.
func (r *Registry) Register(kind JobKind, fn JobFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// Start rebuilds every guild's live jobs from the store and starts the scheduler.
// Jobs fired later run with ctx, independent of the command that armed them.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	r.runCtx = ctx
	r.mu.Unlock()

	if err := r.ReconcileAll(ctx); err != nil {
		return err
	}

	r.cron.Start()
	log.WithField("jobs", len(r.cron.Entries())).Info("Scheduler started")
	return nil
}

// Stop prevents further firings. The returned context is done once running jobs finish.
func (r *Registry) Stop() context.Context {
	return r.cron.Stop()
}

// ReconcileAll reconciles every guild against the persisted schedules, including
// guilds that have live jobs but no longer have schedules.
func (r *Registry) ReconcileAll(ctx context.Context) error {
	all, err := r.store.ListAllSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	targets := make(map[string][]models.Schedule, len(all))
	for guildID, schedules := range all {
		targets[guildID] = schedules
	}

	r.mu.Lock()
	for guildID := range r.live {
		if _, ok := targets[guildID]; !ok {
			targets[guildID] = nil
		}
	}
	r.mu.Unlock()

	for guildID, schedules := range targets {
		r.Reconcile(guildID, schedules)
	}
	return nil
}

// Reconcile makes the guild's live jobs match schedules exactly. Jobs no longer
// wanted are removed and missing ones are armed; calling it again with the same
// set changes nothing.
func (r *Registry) Reconcile(guildID string, schedules []models.Schedule) {
	lock := r.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	r.reconcileLocked(guildID, schedules)
}

// AddSchedule persists a new schedule for the guild and arms it
func (r *Registry) AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	lock := r.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.store.AddSchedule(ctx, guildID, schedule); err != nil {
		return err
	}
	return r.refreshLocked(ctx, guildID)
}

// RemoveSchedule deletes a schedule from the guild and disarms it.
// Runs already in flight are not interrupted.
func (r *Registry) RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	lock := r.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.store.RemoveSchedule(ctx, guildID, schedule); err != nil {
		return err
	}
	return r.refreshLocked(ctx, guildID)
}

// Refresh re-reads the guild's persisted schedules and reconciles its live jobs
func (r *Registry) Refresh(ctx context.Context, guildID string) error {
	lock := r.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	return r.refreshLocked(ctx, guildID)
}

// Attach refreshes a guild whenever its schedules change through a committed
// unit of work, covering writes that bypass AddSchedule and RemoveSchedule
func (r *Registry) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSchedulesChanged, r.handleSchedulesChanged)
}

func (r *Registry) handleSchedulesChanged(ctx context.Context, event events.Event) {
	changed, ok := event.(events.SchedulesChangedEvent)
	if !ok {
		return
	}
	if err := r.Refresh(ctx, changed.GuildID); err != nil {
		log.WithField("guildID", changed.GuildID).WithError(err).Error("Failed to refresh schedules after change")
	}
}

// ListSchedules returns the guild's persisted schedules in time-of-day order
func (r *Registry) ListSchedules(ctx context.Context, guildID string) ([]models.Schedule, error) {
	schedules, err := r.store.GetSchedules(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	models.SortSchedules(schedules)
	return schedules, nil
}

// LiveSchedules returns the schedules currently armed for the guild
func (r *Registry) LiveSchedules(guildID string) []models.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[models.Schedule]struct{})
	var schedules []models.Schedule
	for key := range r.live[guildID] {
		if _, ok := seen[key.schedule]; ok {
			continue
		}
		seen[key.schedule] = struct{}{}
		schedules = append(schedules, key.schedule)
	}
	models.SortSchedules(schedules)
	return schedules
}

// NextRun returns the next firing time across all live jobs
func (r *Registry) NextRun() (time.Time, bool) {
	var next time.Time
	for _, entry := range r.cron.Entries() {
		if entry.Next.IsZero() {
			continue
		}
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next, !next.IsZero()
}

func (r *Registry) refreshLocked(ctx context.Context, guildID string) error {
	schedules, err := r.store.GetSchedules(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to reload schedules: %w", err)
	}
	r.reconcileLocked(guildID, schedules)
	return nil
}

// reconcileLocked requires the guild lock
func (r *Registry) reconcileLocked(guildID string, schedules []models.Schedule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	desired := make(map[jobKey]struct{})
	for _, schedule := range schedules {
		if err := schedule.Validate(); err != nil {
			log.WithFields(log.Fields{
				"guildID":  guildID,
				"schedule": schedule.String(),
			}).WithError(err).Warn("Skipping invalid persisted schedule")
			continue
		}
		for kind := range r.handlers {
			desired[jobKey{kind: kind, schedule: schedule}] = struct{}{}
		}
	}

	current := r.live[guildID]
	if current == nil {
		current = make(map[jobKey]cron.EntryID)
	}

	removed, added := 0, 0
	for key, id := range current {
		if _, ok := desired[key]; !ok {
			r.cron.Remove(id)
			delete(current, key)
			removed++
		}
	}

	for _, key := range sortedKeys(desired) {
		if _, ok := current[key]; ok {
			continue
		}
		id, err := r.cron.AddFunc(key.schedule.CronSpec(), r.jobFor(key.kind, guildID, key.schedule))
		if err != nil {
			log.WithFields(log.Fields{
				"guildID":  guildID,
				"kind":     key.kind.String(),
				"schedule": key.schedule.String(),
			}).WithError(err).Error("Failed to arm scheduled job")
			continue
		}
		current[key] = id
		added++
	}

	if len(current) == 0 {
		delete(r.live, guildID)
	} else {
		r.live[guildID] = current
	}

	if added > 0 || removed > 0 {
		log.WithFields(log.Fields{
			"guildID": guildID,
			"added":   added,
			"removed": removed,
			"live":    len(current),
		}).Info("Reconciled guild schedules")
	}
}

// jobFor builds the cron callback. cron runs each callback on its own goroutine,
// so slow checks never hold up the timer loop.
func (r *Registry) jobFor(kind JobKind, guildID string, schedule models.Schedule) func() {
	return func() {
		r.fire(kind, guildID, schedule)
	}
}

func (r *Registry) fire(kind JobKind, guildID string, schedule models.Schedule) {
	r.mu.Lock()
	fn := r.handlers[kind]
	ctx := r.runCtx
	r.mu.Unlock()

	if fn == nil {
		return
	}

	log.WithFields(log.Fields{
		"guildID":  guildID,
		"kind":     kind.String(),
		"schedule": schedule.String(),
	}).Info("Scheduled job fired")

	fn(ctx, guildID, schedule)
}

func (r *Registry) guildLock(guildID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.guildLocks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		r.guildLocks[guildID] = lock
	}
	return lock
}

func sortedKeys(keys map[jobKey]struct{}) []jobKey {
	sorted := make([]jobKey, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.schedule != b.schedule {
			if a.schedule.Hour != b.schedule.Hour {
				return a.schedule.Hour < b.schedule.Hour
			}
			return a.schedule.Minute < b.schedule.Minute
		}
		return a.kind < b.kind
	})
	return sorted
}
