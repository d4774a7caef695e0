package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

const defaultSyncTimeout = 30 * time.Second

// Change is delivered to observers after every successful mutation.
type Change struct {
	Kind     domain.ChangeKind
	TradeID  uuid.UUID // uuid.Nil for RESET, PULLED and LOADED
	Snapshot domain.Snapshot
}

// Observer receives store changes. OnChange runs synchronously on the mutating goroutine,
// outside the store lock, and must not call mutating store methods.
type Observer interface {
	OnChange(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, change Change)

// OnChange calls f.
func (f ObserverFunc) OnChange(ctx context.Context, change Change) { f(ctx, change) }

// SyncStatus reports the outcome of background persistence and replication.
type SyncStatus struct {
	State      domain.SyncState
	LastSyncAt time.Time // Zero until the first successful sync
	LastError  string
}

// StoreConfig holds the dependencies of a TradeStore.
type StoreConfig struct {
	Logger      ports.Logger          // Required
	Repository  ports.TradeRepository // Optional; nil keeps the journal in memory only
	Remote      ports.RemoteSync      // Optional remote replica
	SyncTimeout time.Duration         // Per sync attempt, defaults to 30s
	Observers   []Observer
}

// TradeStore is the single owner of the active and closed trade collections.
// Mutations are serialized and applied in memory immediately; persistence and remote push
// run afterwards on a background worker and never roll the in-memory state back.
type TradeStore struct {
	logger      ports.Logger
	repo        ports.TradeRepository
	remote      ports.RemoteSync
	syncTimeout time.Duration

	mu        sync.RWMutex // Protects the collections, observers and closed flag
	active    []domain.ActiveTrade
	closed    []domain.ClosedTrade
	observers []Observer
	isClosed  bool

	// Observer delivery follows mutation order: each commit takes a ticket under mu and
	// waits for its turn after releasing it.
	notifySeq  uint64 // Next ticket, guarded by mu
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	delivered  uint64 // Tickets delivered so far, guarded by notifyMu

	// Background sync state
	syncMu   sync.Mutex
	pending  *domain.Snapshot
	queued   uint64 // Sequence of the latest enqueued snapshot
	synced   uint64 // Sequence of the latest processed snapshot
	syncDone chan struct{}
	status   SyncStatus
	wake     chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewTradeStore creates an empty store and starts its sync worker when a repository or
// remote replica is configured.
func NewTradeStore(cfg StoreConfig) (*TradeStore, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required for TradeStore")
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = defaultSyncTimeout
	}

	s := &TradeStore{
		logger:      cfg.Logger,
		repo:        cfg.Repository,
		remote:      cfg.Remote,
		syncTimeout: cfg.SyncTimeout,
		active:      []domain.ActiveTrade{},
		closed:      []domain.ClosedTrade{},
		observers:   append([]Observer(nil), cfg.Observers...),
		syncDone:    make(chan struct{}),
		status:      SyncStatus{State: domain.SyncIdle},
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)

	if s.syncEnabled() {
		s.wg.Add(1)
		go s.syncLoop()
	}
	return s, nil
}

func (s *TradeStore) syncEnabled() bool {
	return s.repo != nil || s.remote != nil
}

// Subscribe registers an additional observer.
func (s *TradeStore) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// --- Reads ---

// Active returns a copy of the active collection in insertion order.
func (s *TradeStore) Active() []domain.ActiveTrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneActive(s.active)
}

// Closed returns a copy of the closed collection in insertion order.
func (s *TradeStore) Closed() []domain.ClosedTrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneClosed(s.closed)
}

// Snapshot returns both collections as of one instant.
func (s *TradeStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// FindActive looks up an active trade by id.
func (s *TradeStore) FindActive(id uuid.UUID) (domain.ActiveTrade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.activeIndex(id); i >= 0 {
		return s.active[i].Clone(), true
	}
	return domain.ActiveTrade{}, false
}

// FindClosed looks up a closed trade by id.
func (s *TradeStore) FindClosed(id uuid.UUID) (domain.ClosedTrade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.closedIndex(id); i >= 0 {
		return s.closed[i], true
	}
	return domain.ClosedTrade{}, false
}

// Summary computes the headline metrics over the current closed collection.
func (s *TradeStore) Summary() analytics.SummaryMetrics {
	return analytics.Summarize(s.Closed())
}

// Performance computes the extended report over the current closed collection.
func (s *TradeStore) Performance() *analytics.PerformanceMetrics {
	return analytics.Analyze(s.Closed())
}

// SyncStatus returns the latest background sync outcome.
func (s *TradeStore) SyncStatus() SyncStatus {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return s.status
}

// --- Mutations ---

// AddActive appends a new active trade. A zero id is replaced by a fresh one and a zero
// open date by the current time. The stored trade is returned.
func (s *TradeStore) AddActive(ctx context.Context, trade domain.ActiveTrade) (domain.ActiveTrade, error) {
	if err := validateTrade(trade.AssetClass, trade.Risk); err != nil {
		return domain.ActiveTrade{}, fmt.Errorf("add active trade: %w", err)
	}
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	if trade.OpenDate.IsZero() {
		trade.OpenDate = time.Now()
	}
	trade = trade.Clone()

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return domain.ActiveTrade{}, ports.ErrStoreClosed
	}
	if s.activeIndex(trade.ID) >= 0 || s.closedIndex(trade.ID) >= 0 {
		s.mu.Unlock()
		return domain.ActiveTrade{}, fmt.Errorf("add active trade %s: %w", trade.ID, ports.ErrDuplicateEntry)
	}
	s.active = append(s.active, trade)
	s.commitLocked(ctx, domain.ChangeActiveAdded, trade.ID)

	s.logger.Debug(ctx, "Active trade added", map[string]interface{}{
		"id":   trade.ID.String(),
		"pair": trade.PairSymbol,
		"risk": trade.Risk.String(),
	})
	return trade.Clone(), nil
}

// UpdateActive replaces the active trade with the same id. The asset class is immutable and
// is kept from the stored record.
func (s *TradeStore) UpdateActive(ctx context.Context, trade domain.ActiveTrade) error {
	if err := validateRisk(trade.Risk); err != nil {
		return fmt.Errorf("update active trade %s: %w", trade.ID, err)
	}
	trade = trade.Clone()

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	i := s.activeIndex(trade.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("update active trade %s: %w", trade.ID, ports.ErrNotFound)
	}
	trade.AssetClass = s.active[i].AssetClass
	if trade.OpenDate.IsZero() {
		trade.OpenDate = s.active[i].OpenDate
	}
	s.active[i] = trade
	s.commitLocked(ctx, domain.ChangeActiveUpdated, trade.ID)
	return nil
}

// DeleteActive removes an active trade. Deleting an absent id is a no-op.
func (s *TradeStore) DeleteActive(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	i := s.activeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.active = append(s.active[:i], s.active[i+1:]...)
	s.commitLocked(ctx, domain.ChangeActiveDeleted, id)
	return nil
}

// CloseTrade moves an active trade to the closed collection in one step. The closed record keeps
// the id, asset class, pair, risk and open date. A zero closeDate means now.
func (s *TradeStore) CloseTrade(ctx context.Context, id uuid.UUID, closeDate time.Time, result decimal.Decimal) (domain.ClosedTrade, error) {
	if closeDate.IsZero() {
		closeDate = time.Now()
	}

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return domain.ClosedTrade{}, ports.ErrStoreClosed
	}
	i := s.activeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.ClosedTrade{}, fmt.Errorf("close trade %s: %w", id, ports.ErrNotFound)
	}
	closedTrade := s.active[i].Close(closeDate, result)
	s.active = append(s.active[:i], s.active[i+1:]...)
	s.closed = append(s.closed, closedTrade)
	s.commitLocked(ctx, domain.ChangeTradeClosed, id)

	s.logger.Info(ctx, "Trade closed", map[string]interface{}{
		"id":     id.String(),
		"pair":   closedTrade.PairSymbol,
		"result": result.String(),
	})
	return closedTrade, nil
}

// UpdateClosed replaces the closed trade with the same id. The asset class is kept from the
// stored record.
func (s *TradeStore) UpdateClosed(ctx context.Context, trade domain.ClosedTrade) error {
	if err := validateRisk(trade.Risk); err != nil {
		return fmt.Errorf("update closed trade %s: %w", trade.ID, err)
	}

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	i := s.closedIndex(trade.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("update closed trade %s: %w", trade.ID, ports.ErrNotFound)
	}
	trade.AssetClass = s.closed[i].AssetClass
	s.closed[i] = trade
	s.commitLocked(ctx, domain.ChangeClosedUpdated, trade.ID)
	return nil
}

// DeleteClosed removes a closed trade. Deleting an absent id is a no-op.
func (s *TradeStore) DeleteClosed(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	i := s.closedIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.closed = append(s.closed[:i], s.closed[i+1:]...)
	s.commitLocked(ctx, domain.ChangeClosedDeleted, id)
	return nil
}

// ResetAll empties both collections. It cannot be undone.
func (s *TradeStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	s.active = []domain.ActiveTrade{}
	s.closed = []domain.ClosedTrade{}
	s.commitLocked(ctx, domain.ChangeReset, uuid.Nil)

	s.logger.Warn(ctx, "Journal reset, all trades removed")
	return nil
}

// --- Lifecycle ---

// Load replaces the in-memory state with the repository contents. It does not write back.
func (s *TradeStore) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	active, closed, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	active, closed = reconcile(active, closed)

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	s.active = active
	s.closed = closed
	snap := s.snapshotLocked()
	observers := append([]Observer(nil), s.observers...)
	ticket := s.notifySeq
	s.notifySeq++
	s.mu.Unlock()

	s.logger.Info(ctx, "Journal loaded", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
	})
	s.deliver(ctx, ticket, observers, Change{Kind: domain.ChangeLoaded, Snapshot: snap})
	return nil
}

// Pull replaces local state with the remote replica (last write wins), then persists it.
func (s *TradeStore) Pull(ctx context.Context) error {
	if s.remote == nil {
		return fmt.Errorf("pull journal: no remote replica: %w", ports.ErrConfigurationError)
	}
	active, closed, err := s.remote.PullAll(ctx)
	if err != nil {
		return fmt.Errorf("pull journal: %w", err)
	}
	active, closed = reconcile(active, closed)

	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ports.ErrStoreClosed
	}
	s.active = active
	s.closed = closed
	s.commitLocked(ctx, domain.ChangePulled, uuid.Nil)

	s.logger.Info(ctx, "Journal pulled from remote", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
	})
	return nil
}

// Flush blocks until every mutation made before the call has been persisted (or failed to
// persist), or until ctx is done.
func (s *TradeStore) Flush(ctx context.Context) error {
	s.syncMu.Lock()
	target := s.queued
	for s.synced < target {
		done := s.syncDone
		s.syncMu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("flush journal: %w", ports.ErrContextCanceled)
		}
		s.syncMu.Lock()
	}
	s.syncMu.Unlock()
	return nil
}

// Close drains pending syncs and stops the worker. Later mutations fail with ErrStoreClosed.
func (s *TradeStore) Close() error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	return nil
}

// --- Internals ---

// commitLocked must be called with s.mu held. It schedules the sync, releases s.mu and
// delivers the change to observers in mutation order.
func (s *TradeStore) commitLocked(ctx context.Context, kind domain.ChangeKind, id uuid.UUID) {
	snap := s.snapshotLocked()
	s.enqueue(snap)
	observers := append([]Observer(nil), s.observers...)
	ticket := s.notifySeq
	s.notifySeq++
	s.mu.Unlock()

	s.deliver(ctx, ticket, observers, Change{Kind: kind, TradeID: id, Snapshot: snap})
}

func (s *TradeStore) deliver(ctx context.Context, ticket uint64, observers []Observer, change Change) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for s.delivered != ticket {
		s.notifyCond.Wait()
	}
	for _, o := range observers {
		o.OnChange(ctx, change)
	}
	s.delivered++
	s.notifyCond.Broadcast()
}

func (s *TradeStore) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Active: domain.CloneActive(s.active),
		Closed: domain.CloneClosed(s.closed),
	}
}

func (s *TradeStore) activeIndex(id uuid.UUID) int {
	for i := range s.active {
		if s.active[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TradeStore) closedIndex(id uuid.UUID) int {
	for i := range s.closed {
		if s.closed[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TradeStore) enqueue(snap domain.Snapshot) {
	if !s.syncEnabled() {
		return
	}
	s.syncMu.Lock()
	s.pending = &snap
	s.queued++
	s.status.State = domain.SyncPending
	s.syncMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *TradeStore) syncLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.wake:
			s.syncPending()
		case <-s.stop:
			s.syncPending()
			return
		}
	}
}

// syncPending writes the latest snapshot only; intermediate snapshots are superseded.
func (s *TradeStore) syncPending() {
	s.syncMu.Lock()
	snap := s.pending
	seq := s.queued
	s.pending = nil
	s.syncMu.Unlock()

	if snap == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()
	err := s.persist(ctx, *snap)

	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if err != nil {
		s.status.State = domain.SyncFailed
		s.status.LastError = err.Error()
	} else if s.pending == nil {
		s.status.State = domain.SyncOK
		s.status.LastError = ""
		s.status.LastSyncAt = time.Now()
	}
	s.synced = seq
	close(s.syncDone)
	s.syncDone = make(chan struct{})
}

func (s *TradeStore) persist(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.SaveAll(ctx, snap.Active, snap.Closed); err != nil {
			s.logger.Error(ctx, err, "Failed to persist journal", map[string]interface{}{
				"active": len(snap.Active),
				"closed": len(snap.Closed),
			})
			errs = append(errs, fmt.Errorf("persist journal: %w", err))
		}
	}
	if s.remote != nil {
		if err := s.remote.PushAll(ctx, snap.Active, snap.Closed); err != nil {
			s.logger.Error(ctx, err, "Failed to push journal to remote")
			errs = append(errs, fmt.Errorf("push journal: %w", err))
		}
	}
	return errors.Join(errs...)
}

func validateTrade(asset domain.AssetClass, risk decimal.Decimal) error {
	if !asset.Valid() {
		return fmt.Errorf("%w: unknown asset class %q", ports.ErrInvalidRequest, asset)
	}
	return validateRisk(risk)
}

func validateRisk(risk decimal.Decimal) error {
	if !risk.IsPositive() {
		return fmt.Errorf("%w: %w", ports.ErrInvalidRequest, ports.ErrInvalidRisk)
	}
	return nil
}

// reconcile restores the collection invariants on externally sourced data: ids unique per
// collection (first occurrence wins) and disjoint across collections (closed wins).
func reconcile(active []domain.ActiveTrade, closed []domain.ClosedTrade) ([]domain.ActiveTrade, []domain.ClosedTrade) {
	closedIDs := make(map[uuid.UUID]struct{}, len(closed))
	outClosed := make([]domain.ClosedTrade, 0, len(closed))
	for _, t := range closed {
		if _, dup := closedIDs[t.ID]; dup {
			continue
		}
		closedIDs[t.ID] = struct{}{}
		outClosed = append(outClosed, t)
	}

	activeIDs := make(map[uuid.UUID]struct{}, len(active))
	outActive := make([]domain.ActiveTrade, 0, len(active))
	for _, t := range active {
		if _, inClosed := closedIDs[t.ID]; inClosed {
			continue
		}
		if _, dup := activeIDs[t.ID]; dup {
			continue
		}
		activeIDs[t.ID] = struct{}{}
		outActive = append(outActive, t.Clone())
	}
	return outActive, outClosed
}
