package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ignite/campaign-console/internal/domain"
)

// fakeStore implements Store with controllable latency and failures.
type fakeStore struct {
	delay time.Duration
	err   error

	mu        sync.Mutex
	focused   domain.ID
	campaign  *domain.Campaign
	calls     map[string]int32
	inFlight  int32
	maxFlight int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int32)}
}

func (f *fakeStore) Focus(id domain.ID) {
	f.mu.Lock()
	f.focused = id
	f.mu.Unlock()
}

func (f *fakeStore) RefreshFocused(ctx context.Context, id domain.ID) error {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxFlight, max, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls[id.String()]++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeStore) Get(id domain.ID) (*domain.Campaign, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.campaign == nil || !f.campaign.ID.Equal(id) {
		return nil, false
	}
	cp := *f.campaign
	return &cp, true
}

func (f *fakeStore) callCount(id string) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakeStore) focusedID() domain.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

func TestImmediateFetchOnStart(t *testing.T) {
	fs := newFakeStore()
	p := New(fs)
	defer p.Stop()

	p.Start("42", time.Hour) // interval long enough that only the immediate fetch runs
	deadline := time.Now().Add(time.Second)
	for fs.callCount("42") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected an immediate fetch on start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if fs.focusedID() != "42" {
		t.Fatalf("start must focus the campaign, got %q", fs.focusedID())
	}
}

func TestSingleFlight(t *testing.T) {
	fs := newFakeStore()
	fs.delay = 60 * time.Millisecond
	p := New(fs)

	p.Start("42", 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	p.Stop()

	if max := atomic.LoadInt32(&fs.maxFlight); max != 1 {
		t.Fatalf("expected exactly one in-flight fetch at a time, saw %d", max)
	}
	if p.Stats()["skipped_ticks"] == 0 {
		t.Fatal("slow fetches should cause skipped ticks")
	}
}

func TestStopIdempotent(t *testing.T) {
	p := New(newFakeStore())
	p.Stop() // before start
	p.Start("42", 10*time.Millisecond)
	p.Stop()
	p.Stop() // again
	if p.Running() {
		t.Fatal("poller should not be running after stop")
	}
}

func TestRestartSwapsTarget(t *testing.T) {
	fs := newFakeStore()
	p := New(fs)
	defer p.Stop()

	p.Start("a", 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	p.Start("b", 10*time.Millisecond)

	// Old timer must be fully stopped: campaign a's count freezes.
	frozen := fs.callCount("a")
	time.Sleep(50 * time.Millisecond)
	if got := fs.callCount("a"); got != frozen {
		t.Fatalf("old target still being polled after restart: %d -> %d", frozen, got)
	}
	if fs.callCount("b") == 0 {
		t.Fatal("new target not being polled")
	}
	if fs.focusedID() != "b" {
		t.Fatalf("focus should follow the restart, got %q", fs.focusedID())
	}
}

func TestConcurrentStartStop(t *testing.T) {
	fs := newFakeStore()
	p := New(fs)

	// Two views fighting over the poller plus a stray Stop must never race
	// on a session or leak a timer.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p.Start("a", 5*time.Millisecond)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p.Start("b", 5*time.Millisecond)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p.Stop()
			}
		}()
	}
	wg.Wait()

	p.Stop()
	if p.Running() {
		t.Fatal("poller should be fully stopped")
	}

	// A leaked timer from a lost session would keep polling past the stop.
	frozenA, frozenB := fs.callCount("a"), fs.callCount("b")
	time.Sleep(50 * time.Millisecond)
	if got := fs.callCount("a"); got != frozenA {
		t.Fatalf("campaign a still polled after stop: %d -> %d", frozenA, got)
	}
	if got := fs.callCount("b"); got != frozenB {
		t.Fatalf("campaign b still polled after stop: %d -> %d", frozenB, got)
	}
}

func TestFailedPollsDoNotStopTicking(t *testing.T) {
	fs := newFakeStore()
	fs.err = errors.New("connection refused")
	p := New(fs)

	p.Start("42", 15*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	if got := fs.callCount("42"); got < 3 {
		t.Fatalf("poller must keep ticking past failures, got %d polls", got)
	}
	if p.Stats()["failed_polls"] < 3 {
		t.Fatalf("failed polls not counted: %v", p.Stats())
	}
}

func TestTerminalPollBudget(t *testing.T) {
	fs := newFakeStore()
	fs.campaign = &domain.Campaign{ID: "42", Status: domain.CampaignCompleted}
	p := New(fs)
	p.TerminalPollBudget = 2

	p.Start("42", 15*time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for p.Running() {
		if time.Now().After(deadline) {
			t.Fatal("poller should stop itself after the terminal budget")
		}
		time.Sleep(5 * time.Millisecond)
	}

	polls := fs.callCount("42")
	if polls < 2 || polls > 3 {
		t.Fatalf("expected 2-3 terminal polls, got %d", polls)
	}
	p.Stop()
}

func TestNoTerminalStopByDefault(t *testing.T) {
	fs := newFakeStore()
	fs.campaign = &domain.Campaign{ID: "42", Status: domain.CampaignCompleted}
	p := New(fs)

	p.Start("42", 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	if !p.Running() {
		t.Fatal("without a budget the poller keeps going on terminal campaigns")
	}
	p.Stop()
}
