/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/Seednode/letterclash/scoring"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5
)

// Registry maps room codes to live rooms. Rooms are created on demand and
// removed once their last connected player leaves or they sit idle too long.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	strategy    scoring.Strategy
	clock       Clock
	log         zerolog.Logger
	broadcaster Broadcaster
}

type Option func(*Registry)

func WithClock(c Clock) Option {
	return func(g *Registry) { g.clock = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Registry) { g.log = l }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(g *Registry) { g.broadcaster = b }
}

// NewRegistry returns an empty registry whose rooms score turns with
// strategy.
func NewRegistry(strategy scoring.Strategy, opts ...Option) *Registry {
	g := &Registry{
		rooms:       make(map[string]*Room),
		strategy:    strategy,
		clock:       systemClock{},
		log:         zerolog.Nop(),
		broadcaster: nopBroadcaster{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// NormalizeCode upper-cases and trims a user-supplied room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}

	return string(out)
}

// Create opens a new room with the caller as host and returns the room and
// the host's player id.
func (g *Registry) Create(hostName string) (*Room, string) {
	host := newPlayer(hostName, "Host")

	g.mu.Lock()

	code := newCode()
	for g.rooms[code] != nil {
		code = newCode()
	}

	room := newRoom(code, host, g)
	g.rooms[code] = room

	g.mu.Unlock()

	g.log.Info().Str("room", code).Str("host", host.Name).Msg("room created")

	room.mu.Lock()
	room.emitLocked()
	room.mu.Unlock()

	return room, host.ID
}

// Get resolves a room code.
func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[NormalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Join adds a player to a room that is still in its lobby.
func (g *Registry) Join(code, name string) (*Room, string, error) {
	room, err := g.Get(code)
	if err != nil {
		return nil, "", err
	}

	p, err := room.join(name)
	if err != nil {
		return nil, "", err
	}

	return room, p.ID, nil
}

// Leave applies disconnect recovery for playerID and drops the room once no
// connected player remains.
func (g *Registry) Leave(code, playerID string) {
	room, err := g.Get(code)
	if err != nil {
		return
	}

	if !room.disconnect(playerID) {
		return
	}

	g.remove(room)

	g.log.Info().Str("room", room.code).Msg("room closed (empty)")
}

func (g *Registry) remove(room *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rooms[room.code] == room {
		delete(g.rooms, room.code)
	}
}

// Len reports the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.rooms)
}

// Reap closes every room idle for longer than idle and returns how many
// were removed.
func (g *Registry) Reap(idle time.Duration) int {
	cutoff := g.clock.Now().Add(-idle)

	g.mu.Lock()

	var stale []*Room
	for code, room := range g.rooms {
		if room.LastActive().Before(cutoff) {
			delete(g.rooms, code)
			stale = append(stale, room)
		}
	}

	g.mu.Unlock()

	for _, room := range stale {
		room.close()
		g.log.Info().Str("room", room.code).Msg("room reaped (idle)")
	}

	return len(stale)
}

// StartReaper schedules Reap every idle/2. The caller owns the returned
// scheduler and must shut it down.
func (g *Registry) StartReaper(idle time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(idle/2),
		gocron.NewTask(func() {
			g.Reap(idle)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()

	return s, nil
}
