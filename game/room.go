/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package game runs letter-game rooms: who is in a room, whose turn it is,
// the answer deadline, and how submitted answers change the scoreboard.
package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Seednode/letterclash/scoring"
)

const (
	MinPlayers = 2
	MaxPlayers = 4

	MinRounds     = 1
	MaxRounds     = 10
	DefaultRounds = 5

	// AnswerWindow is how long an opponent has to answer.
	AnswerWindow = scoring.RoundSeconds * time.Second

	// timerGrace lets a submission sent right at the deadline win the race.
	timerGrace = 30 * time.Millisecond
)

type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseSetup     Phase = "setup"
	PhaseAnswering Phase = "answering"
	PhaseResult    Phase = "result"
	PhaseFinished  Phase = "finished"
)

type Settings struct {
	RoundsPerPlayer int `json:"roundsPerPlayer"`
}

// ClampRounds limits n to the allowed rounds-per-player range.
func ClampRounds(n int) int {
	return max(MinRounds, min(MaxRounds, n))
}

// TurnResult is the outcome of the most recent turn.
type TurnResult struct {
	SelectorID string `json:"selectorId"`
	OpponentID string `json:"opponentId"`
	scoring.Result
}

type TurnState struct {
	Phase           Phase
	SelectorID      string
	Letter          string
	OpponentID      string
	AnswerStartedAt time.Time
	AnswerDeadline  time.Time
	TurnNumber      int
	LastResult      *TurnResult
}

// Room owns its players, turn state and answer deadline. Every exported
// method serializes on the room's mutex, so commands never interleave.
type Room struct {
	mu sync.Mutex

	code     string
	hostID   string
	settings Settings
	players  []*Player
	state    TurnState

	deadline Timer
	timerGen uint64
	closed   bool

	createdAt  time.Time
	lastActive time.Time

	strategy  scoring.Strategy
	clock     Clock
	log       zerolog.Logger
	broadcast Broadcaster
}

func newRoom(code string, host *Player, g *Registry) *Room {
	now := g.clock.Now()

	return &Room{
		code:       code,
		hostID:     host.ID,
		settings:   Settings{RoundsPerPlayer: DefaultRounds},
		players:    []*Player{host},
		state:      TurnState{Phase: PhaseLobby},
		createdAt:  now,
		lastActive: now,
		strategy:   g.strategy,
		clock:      g.clock,
		log:        g.log,
		broadcast:  g.broadcaster,
	}
}

func (r *Room) Code() string {
	return r.code
}

// LastActive reports when the room last accepted a command.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastActive
}

func (r *Room) touchLocked() {
	r.lastActive = r.clock.Now()
}

func (r *Room) playerLocked(id string) *Player {
	if id == "" {
		return nil
	}

	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

func (r *Room) join(name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRoomNotFound
	}

	if r.state.Phase != PhaseLobby {
		return nil, ErrGameStarted
	}

	if len(r.players) >= MaxPlayers {
		return nil, ErrRoomFull
	}

	p := newPlayer(name, "Player")
	r.players = append(r.players, p)
	r.touchLocked()

	r.log.Debug().Str("room", r.code).Str("player", p.Name).Msg("player joined")

	r.emitLocked()

	return p, nil
}

// SetRounds changes the rounds each player answers. Host only, lobby only.
func (r *Room) SetRounds(actorID string, rounds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if actorID != r.hostID {
		return ErrSettingsNotHost
	}

	if r.state.Phase != PhaseLobby {
		return ErrGameStarted
	}

	r.settings.RoundsPerPlayer = ClampRounds(rounds)
	r.touchLocked()
	r.emitLocked()

	return nil
}

// Start begins a game. A nil rounds keeps the current lobby setting.
func (r *Room) Start(actorID string, rounds *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if actorID != r.hostID {
		return ErrStartNotHost
	}

	if r.state.Phase != PhaseLobby {
		return ErrGameStarted
	}

	if len(r.players) < MinPlayers || len(r.players) > MaxPlayers {
		return ErrPlayerCount
	}

	r.disarmLocked()

	if rounds != nil {
		r.settings.RoundsPerPlayer = ClampRounds(*rounds)
	}

	for _, p := range r.players {
		p.resetStats()
	}

	r.state = TurnState{Phase: PhaseSetup, TurnNumber: 1}
	if s := r.nextSelectorLocked(""); s != nil {
		r.state.SelectorID = s.ID
	}

	r.touchLocked()

	r.log.Debug().Str("room", r.code).Int("rounds", r.settings.RoundsPerPlayer).Int("players", len(r.players)).Msg("game started")

	r.emitLocked()

	return nil
}

// StartTurn opens an answering window. Only the current selector may call
// it. In a two-player room the opponent is always the other player and
// opponentID is ignored.
func (r *Room) StartTurn(actorID, letter, opponentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if r.state.Phase != PhaseSetup {
		return ErrSetupInactive
	}

	selector := r.playerLocked(actorID)
	if selector == nil || selector.ID != r.state.SelectorID {
		return ErrNotSelector
	}

	l, ok := scoring.SanitizeLetter(letter)
	if !ok {
		return ErrInvalidLetter
	}

	eligible := r.eligibleOpponentsLocked(selector.ID)

	if len(r.players) == MinPlayers {
		opponentID = ""
		if len(eligible) > 0 {
			opponentID = eligible[0].ID
		}
	}

	var opponent *Player
	for _, p := range eligible {
		if p.ID == opponentID {
			opponent = p
			break
		}
	}
	if opponent == nil {
		return ErrInvalidOpponent
	}

	now := r.clock.Now()

	r.state.Phase = PhaseAnswering
	r.state.Letter = l
	r.state.OpponentID = opponent.ID
	r.state.AnswerStartedAt = now
	r.state.AnswerDeadline = now.Add(AnswerWindow)
	r.state.TurnNumber++
	r.state.LastResult = nil

	r.armLocked()
	r.touchLocked()

	r.log.Debug().Str("room", r.code).Int("turn", r.state.TurnNumber).Str("letter", l).Msg("turn started")

	// Nobody is there to answer; settle the turn right away.
	if !opponent.Connected {
		r.finalizeLocked(scoring.Answers{}, true)
	}

	r.emitLocked()

	return nil
}

// Submit scores the active opponent's answers.
func (r *Room) Submit(actorID string, answers scoring.Answers) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if r.state.Phase != PhaseAnswering {
		return ErrNoAnswerTurn
	}

	if actorID == "" || actorID != r.state.OpponentID {
		return ErrNotOpponent
	}

	r.finalizeLocked(answers, false)
	r.touchLocked()
	r.emitLocked()

	return nil
}

// Continue leaves the result screen, either for the next setup or for the
// final standings.
func (r *Room) Continue(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if r.state.Phase != PhaseResult {
		return ErrNoResult
	}

	if r.playerLocked(actorID) == nil {
		return ErrNotMember
	}

	r.advanceLocked()
	r.touchLocked()
	r.emitLocked()

	return nil
}

// Restart returns the room to the lobby with all stats cleared. Players who
// have disconnected are dropped, as they would have been in the lobby.
func (r *Room) Restart(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if actorID == "" || actorID != r.hostID {
		return ErrRestartNotHost
	}

	r.disarmLocked()

	kept := r.players[:0]
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		p.resetStats()
		kept = append(kept, p)
	}
	r.players = kept

	r.state = TurnState{Phase: PhaseLobby}
	r.touchLocked()

	r.log.Debug().Str("room", r.code).Msg("game restarted")

	r.emitLocked()

	return nil
}

// disconnect applies the recovery rules for a player whose connection went
// away and reports whether the room has no connected players left.
func (r *Room) disconnect(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return true
	}

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r.connectedCountLocked() == 0
	}

	if r.state.Phase == PhaseLobby {
		r.players = append(r.players[:idx], r.players[idx+1:]...)
	} else {
		r.players[idx].Connected = false
	}

	if r.hostID == playerID {
		r.hostID = ""
		for _, p := range r.players {
			if p.Connected {
				r.hostID = p.ID
				break
			}
		}
	}

	if r.connectedCountLocked() == 0 {
		r.closeLocked()

		return true
	}

	switch r.state.Phase {
	case PhaseSetup:
		if s := r.playerLocked(r.state.SelectorID); s == nil || !s.Connected {
			r.advanceLocked()
		}
	case PhaseAnswering:
		if o := r.playerLocked(r.state.OpponentID); o == nil || !o.Connected {
			r.finalizeLocked(scoring.Answers{}, true)
		}
	}

	r.touchLocked()
	r.emitLocked()

	return false
}

func (r *Room) connectedCountLocked() int {
	n := 0
	for _, p := range r.players {
		if p.Connected {
			n++
		}
	}

	return n
}

// close stops the room for good; later commands see ErrRoomNotFound.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked()
}

func (r *Room) closeLocked() {
	r.disarmLocked()
	r.closed = true
}
