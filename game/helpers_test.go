package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Seednode/letterclash/scoring"
)

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true

	return wasPending
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)

	return t
}

// Advance moves time forward and runs every timer that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}

	return n
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) Broadcast(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.snaps)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snaps[len(r.snaps)-1]
}

func newTestRegistry(t *testing.T) (*Registry, *fakeClock, *recorder) {
	t.Helper()

	clock := newFakeClock()
	rec := &recorder{}

	return NewRegistry(scoring.Simple{}, WithClock(clock), WithBroadcaster(rec)), clock, rec
}

// lobbyRoom creates a room with n players; ids[0] is the host.
func lobbyRoom(t *testing.T, g *Registry, n int) (*Room, []string) {
	t.Helper()

	room, host := g.Create("Host")
	ids := []string{host}

	for i := 1; i < n; i++ {
		_, id, err := g.Join(room.Code(), "Guest")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	return room, ids
}

func startedRoom(t *testing.T, g *Registry, n, rounds int) (*Room, []string) {
	t.Helper()

	room, ids := lobbyRoom(t, g, n)
	require.NoError(t, room.Start(ids[0], &rounds))

	return room, ids
}

var fullClear = scoring.Answers{Name: "Bob", Place: "Boston", Animal: "Bear", Thing: "Book"}

func eligibleIDs(s Snapshot, rounds int) []string {
	var out []string
	for _, p := range s.Players {
		if p.ID != s.State.SelectorID && p.RoundsCompleted < rounds {
			out = append(out, p.ID)
		}
	}

	return out
}
