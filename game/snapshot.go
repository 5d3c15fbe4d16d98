/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "time"

type PlayerView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Score           int     `json:"score"`
	RoundsCompleted int     `json:"roundsCompleted"`
	TurnsAnswered   int     `json:"turnsAnswered"`
	FullCompletions int     `json:"fullCompletions"`
	AverageTime     float64 `json:"averageTime"`
	Connected       bool    `json:"connected"`
}

type StateView struct {
	Phase           Phase       `json:"phase"`
	SelectorID      string      `json:"selectorId,omitempty"`
	SelectedLetter  string      `json:"selectedLetter,omitempty"`
	OpponentID      string      `json:"opponentId,omitempty"`
	AnswerStartedAt int64       `json:"answerStartedAt,omitempty"`
	AnswerDeadline  int64       `json:"answerDeadline,omitempty"`
	TurnNumber      int         `json:"turnNumber"`
	LastResult      *TurnResult `json:"lastResult"`
}

// Snapshot is the read-only view of a room broadcast to its members after
// every state change.
type Snapshot struct {
	ID       string       `json:"id"`
	HostID   string       `json:"hostId"`
	Settings Settings     `json:"settings"`
	State    StateView    `json:"state"`
	Players  []PlayerView `json:"players"`
}

// Broadcaster delivers snapshots to the connections of a room. It is called
// with the room locked and must not call back into the room.
type Broadcaster interface {
	Broadcast(s Snapshot)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(Snapshot) {}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func (r *Room) snapshotLocked() Snapshot {
	players := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			Score:           p.Score,
			RoundsCompleted: p.RoundsCompleted,
			TurnsAnswered:   p.TurnsAnswered,
			FullCompletions: p.FullCompletions,
			AverageTime:     p.averageTime(),
			Connected:       p.Connected,
		})
	}

	return Snapshot{
		ID:       r.code,
		HostID:   r.hostID,
		Settings: r.settings,
		State: StateView{
			Phase:           r.state.Phase,
			SelectorID:      r.state.SelectorID,
			SelectedLetter:  r.state.Letter,
			OpponentID:      r.state.OpponentID,
			AnswerStartedAt: unixMilli(r.state.AnswerStartedAt),
			AnswerDeadline:  unixMilli(r.state.AnswerDeadline),
			TurnNumber:      r.state.TurnNumber,
			LastResult:      r.state.LastResult,
		},
		Players: players,
	}
}

// Snapshot returns the current view of the room.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked()
}

func (r *Room) emitLocked() {
	r.broadcast.Broadcast(r.snapshotLocked())
}
