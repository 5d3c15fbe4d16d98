/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"time"

	"github.com/Seednode/letterclash/scoring"
)

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall time and deferred execution so turn deadlines can be
// driven manually in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// armLocked replaces any pending deadline with a fresh one for the current
// answering window.
func (r *Room) armLocked() {
	r.disarmLocked()

	gen := r.timerGen
	r.deadline = r.clock.AfterFunc(AnswerWindow+timerGrace, func() {
		r.expire(gen)
	})
}

// disarmLocked cancels the pending deadline. Bumping the generation also
// neutralizes a callback that has already fired and is waiting on r.mu.
func (r *Room) disarmLocked() {
	r.timerGen++

	if r.deadline != nil {
		r.deadline.Stop()
		r.deadline = nil
	}
}

func (r *Room) expire(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.timerGen || r.state.Phase != PhaseAnswering {
		return
	}

	r.log.Debug().Str("room", r.code).Int("turn", r.state.TurnNumber).Msg("answer window expired")

	r.finalizeLocked(scoring.Answers{}, true)
	r.touchLocked()
	r.emitLocked()
}
