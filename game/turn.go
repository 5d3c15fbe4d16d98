/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"math"
	"time"

	"github.com/Seednode/letterclash/scoring"
)

func (r *Room) eligibleOpponentsLocked(selectorID string) []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.ID != selectorID && p.RoundsCompleted < r.settings.RoundsPerPlayer {
			out = append(out, p)
		}
	}

	return out
}

func (r *Room) allPlayersDoneLocked() bool {
	for _, p := range r.players {
		if p.RoundsCompleted < r.settings.RoundsPerPlayer {
			return false
		}
	}

	return true
}

// nextSelectorLocked scans the seating order once, starting just after
// currentID, for a connected player who still has someone to challenge.
func (r *Room) nextSelectorLocked(currentID string) *Player {
	n := len(r.players)
	if n < MinPlayers {
		return nil
	}

	start := -1
	for i, p := range r.players {
		if p.ID == currentID {
			start = i
			break
		}
	}

	for offset := 1; offset <= n; offset++ {
		candidate := r.players[(start+offset+n)%n]
		if !candidate.Connected {
			continue
		}
		if len(r.eligibleOpponentsLocked(candidate.ID)) > 0 {
			return candidate
		}
	}

	return nil
}

func (r *Room) finishLocked() {
	r.disarmLocked()

	r.state.Phase = PhaseFinished
	r.state.SelectorID = ""
	r.state.Letter = ""
	r.state.OpponentID = ""
	r.state.AnswerStartedAt = time.Time{}
	r.state.AnswerDeadline = time.Time{}

	r.log.Debug().Str("room", r.code).Msg("game finished")
}

// advanceLocked moves on from a result (or an abandoned setup) to the next
// selector, or ends the game when nobody is left to play.
func (r *Room) advanceLocked() {
	if r.allPlayersDoneLocked() {
		r.finishLocked()
		return
	}

	next := r.nextSelectorLocked(r.state.SelectorID)
	if next == nil {
		r.finishLocked()
		return
	}

	r.state.Phase = PhaseSetup
	r.state.SelectorID = next.ID
	r.state.Letter = ""
	r.state.OpponentID = ""
	r.state.AnswerStartedAt = time.Time{}
	r.state.AnswerDeadline = time.Time{}
}

// finalizeLocked scores the current answering turn. A timed-out turn is
// scored with blank answers.
func (r *Room) finalizeLocked(answers scoring.Answers, timedOut bool) {
	if r.state.Phase != PhaseAnswering {
		return
	}

	opponent := r.playerLocked(r.state.OpponentID)
	if opponent == nil {
		return
	}

	if timedOut {
		answers = scoring.Answers{}
	}

	elapsed := r.clock.Now().Sub(r.state.AnswerStartedAt).Seconds()
	seconds := max(0, min(scoring.RoundSeconds, int(math.Floor(elapsed+0.5))))

	res := r.strategy.Evaluate(r.state.Letter, answers, float64(seconds), opponent.Streak)
	res.TimedOut = timedOut

	opponent.Score += res.Breakdown.Total
	opponent.RoundsCompleted++
	opponent.TurnsAnswered++
	opponent.TotalAnswerTime += seconds

	if res.FullClear {
		opponent.FullCompletions++
		opponent.Streak++
	} else {
		opponent.Streak = 0
	}

	r.state.Phase = PhaseResult
	r.state.LastResult = &TurnResult{
		SelectorID: r.state.SelectorID,
		OpponentID: opponent.ID,
		Result:     res,
	}
	r.state.AnswerStartedAt = time.Time{}
	r.state.AnswerDeadline = time.Time{}

	r.disarmLocked()

	r.log.Debug().
		Str("room", r.code).
		Str("player", opponent.Name).
		Int("total", res.Breakdown.Total).
		Int("valid", res.Breakdown.ValidCount).
		Bool("timed_out", timedOut).
		Msg("turn scored")
}
