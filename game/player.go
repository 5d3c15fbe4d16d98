/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"strings"

	"github.com/google/uuid"
)

const maxNameLength = 24

type Player struct {
	ID              string
	Name            string
	Score           int
	RoundsCompleted int
	TurnsAnswered   int
	FullCompletions int
	TotalAnswerTime int
	Streak          int
	Connected       bool
}

func newPlayer(name, fallback string) *Player {
	return &Player{
		ID:        uuid.NewString(),
		Name:      sanitizeName(name, fallback),
		Connected: true,
	}
}

func sanitizeName(name, fallback string) string {
	cleaned := strings.Join(strings.Fields(name), " ")
	if cleaned == "" {
		return fallback
	}

	if r := []rune(cleaned); len(r) > maxNameLength {
		cleaned = strings.TrimSpace(string(r[:maxNameLength]))
	}

	return cleaned
}

func (p *Player) resetStats() {
	p.Score = 0
	p.RoundsCompleted = 0
	p.TurnsAnswered = 0
	p.FullCompletions = 0
	p.TotalAnswerTime = 0
	p.Streak = 0
}

// averageTime is the mean answer time in seconds, to one decimal place.
func (p *Player) averageTime() float64 {
	if p.TurnsAnswered == 0 {
		return 0
	}

	avg := float64(p.TotalAnswerTime) / float64(p.TurnsAnswered)

	return float64(int(avg*10+0.5)) / 10
}
