/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scoring judges a turn's four answers against a round letter and
// turns the verdicts into points.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Seednode/letterclash/lexicon"
)

// RoundSeconds is the length of an answer window.
const RoundSeconds = 60

const participationPoints = 8

type Category string

const (
	Name   Category = "name"
	Place  Category = "place"
	Animal Category = "animal"
	Thing  Category = "thing"
)

// Categories lists every category in evaluation order.
var Categories = []Category{Name, Place, Animal, Thing}

type Answers struct {
	Name   string `json:"name"`
	Place  string `json:"place"`
	Animal string `json:"animal"`
	Thing  string `json:"thing"`
}

func (a Answers) Get(c Category) string {
	switch c {
	case Name:
		return a.Name
	case Place:
		return a.Place
	case Animal:
		return a.Animal
	case Thing:
		return a.Thing
	}

	return ""
}

// Verdict is the judgement of a single category answer.
type Verdict struct {
	Answer     string            `json:"answer"`
	Valid      bool              `json:"valid"`
	Reason     *string           `json:"reason"`
	Points     int               `json:"points"`
	Difficulty *string           `json:"difficultyLabel"`
	Commonness *float64          `json:"commonness"`
	DetectedAs lexicon.PlaceKind `json:"detectedAs,omitempty"`
}

type Verdicts struct {
	Name   Verdict `json:"name"`
	Place  Verdict `json:"place"`
	Animal Verdict `json:"animal"`
	Thing  Verdict `json:"thing"`
}

func (v Verdicts) Get(c Category) Verdict {
	switch c {
	case Name:
		return v.Name
	case Place:
		return v.Place
	case Animal:
		return v.Animal
	case Thing:
		return v.Thing
	}

	return Verdict{}
}

func (v *Verdicts) set(c Category, verdict Verdict) {
	switch c {
	case Name:
		v.Name = verdict
	case Place:
		v.Place = verdict
	case Animal:
		v.Animal = verdict
	case Thing:
		v.Thing = verdict
	}
}

// Validity mirrors Verdicts for clients that only need pass/fail.
type Validity struct {
	Name   bool `json:"name"`
	Place  bool `json:"place"`
	Animal bool `json:"animal"`
	Thing  bool `json:"thing"`
}

// summarize copies the cleaned answers and their validity out of the
// verdicts.
func (r *Result) summarize() {
	v := r.Verdicts

	r.Answers = Answers{Name: v.Name.Answer, Place: v.Place.Answer, Animal: v.Animal.Answer, Thing: v.Thing.Answer}
	r.Validity = Validity{Name: v.Name.Valid, Place: v.Place.Valid, Animal: v.Animal.Valid, Thing: v.Thing.Valid}
}

type Breakdown struct {
	Participation   int `json:"participation"`
	CategoryPoints  int `json:"categoryPoints"`
	SpeedBonus      int `json:"speedBonus"`
	CompletionBonus int `json:"completionBonus"`
	StreakBonus     int `json:"streakBonus"`
	Total           int `json:"total"`
	ValidCount      int `json:"validCount"`
}

// Result is produced once per evaluated turn and never modified afterwards.
type Result struct {
	Letter         string    `json:"letter"`
	Answers        Answers   `json:"answers"`
	Validity       Validity  `json:"validity"`
	Verdicts       Verdicts  `json:"categoryDetails"`
	Breakdown      Breakdown `json:"scoreBreakdown"`
	FullClear      bool      `json:"fullClear"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	TimedOut       bool      `json:"timedOut"`
}

// Strategy scores a turn. Implementations must be deterministic and free of
// side effects.
type Strategy interface {
	Name() string
	Evaluate(letter string, answers Answers, elapsedSeconds float64, streakBefore int) Result
}

// Lexicon is the lookup surface the weighted strategy consults.
type Lexicon interface {
	IsName(term string) bool
	IsAnimal(term string) bool
	IsWord(term string) bool
	IsPlace(term string) bool
	Place(term string) (lexicon.PlaceMatch, bool)
	WordCommonness(term string) (float64, bool)
}

// ByName resolves a strategy by its configuration name.
func ByName(name string, lex Lexicon) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", WeightedName:
		return NewWeighted(lex), nil
	case SimpleName:
		return Simple{}, nil
	}

	return nil, fmt.Errorf("unknown scoring strategy %q (want %q or %q)", name, WeightedName, SimpleName)
}

// SanitizeLetter returns the upper-cased first character of s if it is a
// letter A-Z.
func SanitizeLetter(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(s)
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return "", false
	}

	return string(r), true
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func speedBonus(elapsedSeconds float64) int {
	elapsed := min(max(elapsedSeconds, 0), RoundSeconds)
	return roundHalfUp((RoundSeconds - elapsed) * 0.5)
}

// streakBonus caps the streak before multiplying so a huge streak cannot
// overflow.
func streakBonus(streakBefore, step, limit int) int {
	if streakBefore <= 0 {
		return 0
	}
	return min(limit, min(streakBefore, limit/step+1)*step)
}

func reason(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}

func rejected(answer string, why *string) Verdict {
	return Verdict{Answer: answer, Reason: why}
}

func total(b Breakdown) int {
	return b.Participation + b.CategoryPoints + b.SpeedBonus + b.CompletionBonus + b.StreakBonus
}
