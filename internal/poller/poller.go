// Package poller drives periodic refresh of a single campaign's status and
// recipient list while a detail view is active, standing in for a push
// channel the backend does not offer.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// DefaultInterval is the poll cadence used when none is configured.
const DefaultInterval = 2 * time.Second

// Store is the slice of the campaign store the poller needs.
type Store interface {
	// Focus marks the campaign as the viewed one and invalidates pending
	// fetches for the previous focus.
	Focus(id domain.ID)
	// RefreshFocused fetches campaign and recipients and applies both
	// atomically; stale results are dropped inside the store.
	RefreshFocused(ctx context.Context, id domain.ID) error
	// Get returns the local copy, used to observe terminal status.
	Get(id domain.ID) (*domain.Campaign, bool)
}

// Poller owns a single recurring timer. Retargeting or changing the interval
// swaps the timer atomically; two timers never race on one instance.
//
// A failed read poll is logged and tolerated indefinitely at the same
// cadence. Stopping on terminal status is the caller's policy: with
// TerminalPollBudget zero (the default) the poller runs until stopped, so a
// viewer still sees a just-completed campaign's final counters refresh.
type Poller struct {
	store Store

	// TerminalPollBudget > 0 ends the session after that many consecutive
	// polls observing a terminal status. This is a deliberate extension
	// over plain poll-forever behavior; zero disables it.
	TerminalPollBudget int

	// startMu serializes whole Start/Stop cycles so a concurrent Start can
	// never observe a session whose loop goroutine is not yet accounted for.
	startMu sync.Mutex

	mu  sync.Mutex
	cur *session

	totalPolls   int64
	skippedTicks int64
	failedPolls  int64
}

// session is one start/stop cycle of the timer. Start replaces the whole
// session, so a retarget can never share state with the old timer.
type session struct {
	id       domain.ID
	interval time.Duration
	budget   int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inFlight     atomic.Bool
	terminalSeen int64
}

// New creates a poller over the given store.
func New(store Store) *Poller {
	return &Poller{store: store}
}

// Start begins polling the campaign: one immediate fetch, then one every
// interval. If the poller is already running — same campaign or not — the
// old timer is stopped first, so exactly one timer exists per instance.
// A non-positive interval falls back to DefaultInterval.
func (p *Poller) Start(campaignID domain.ID, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.startMu.Lock()
	defer p.startMu.Unlock()
	p.stopCurrent()

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       campaignID,
		interval: interval,
		budget:   int64(p.TerminalPollBudget),
		ctx:      ctx,
		cancel:   cancel,
	}

	// Account for the loop goroutine before the session is visible, so a
	// Stop landing right after the install always waits for it.
	s.wg.Add(1)
	p.mu.Lock()
	p.cur = s
	p.mu.Unlock()

	p.store.Focus(campaignID)
	logger.Info("poller started",
		"campaign_id", campaignID.String(), "interval", interval.String())

	go p.loop(s)
}

// Stop cancels the timer and waits for in-flight work to settle. Safe to
// call multiple times and before Start. Requests that complete after Stop
// are discarded by the store's generation check.
func (p *Poller) Stop() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	p.stopCurrent()
}

// stopCurrent detaches and drains the active session. Callers hold startMu.
func (p *Poller) stopCurrent() {
	p.mu.Lock()
	s := p.cur
	p.cur = nil
	p.mu.Unlock()
	if s == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// Running reports whether a poll session is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur != nil && p.cur.ctx.Err() == nil
}

// Stats returns cumulative polling counters across sessions.
func (p *Poller) Stats() map[string]int64 {
	return map[string]int64{
		"total_polls":   atomic.LoadInt64(&p.totalPolls),
		"skipped_ticks": atomic.LoadInt64(&p.skippedTicks),
		"failed_polls":  atomic.LoadInt64(&p.failedPolls),
	}
}

func (p *Poller) loop(s *session) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Immediate fetch on start.
	p.poll(s)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			p.poll(s)
		}
	}
}

// poll launches one fetch cycle unless the previous one is still in flight
// (skip-and-wait, never queue-and-pile-up).
func (p *Poller) poll(s *session) {
	if !s.inFlight.CompareAndSwap(false, true) {
		atomic.AddInt64(&p.skippedTicks, 1)
		logger.Debug("poll tick skipped, previous fetch still in flight",
			"campaign_id", s.id.String())
		return
	}

	atomic.AddInt64(&p.totalPolls, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)

		if err := p.store.RefreshFocused(s.ctx, s.id); err != nil {
			// Tolerated: the next tick retries at the same cadence.
			atomic.AddInt64(&p.failedPolls, 1)
			if s.ctx.Err() == nil {
				logger.Warn("poll failed",
					"campaign_id", s.id.String(), "error", err.Error())
			}
			return
		}
		p.checkTerminal(s)
	}()
}

// checkTerminal ends the session once the terminal poll budget is spent.
// Runs after a successful apply, so the final counters are already visible
// to observers when the timer goes away.
func (p *Poller) checkTerminal(s *session) {
	if s.budget <= 0 {
		return
	}
	c, ok := p.store.Get(s.id)
	if !ok || !c.IsTerminal() {
		atomic.StoreInt64(&s.terminalSeen, 0)
		return
	}
	if atomic.AddInt64(&s.terminalSeen, 1) >= s.budget {
		logger.Info("terminal poll budget exhausted, stopping",
			"campaign_id", s.id.String(), "status", string(c.Status))
		s.cancel()
	}
}
