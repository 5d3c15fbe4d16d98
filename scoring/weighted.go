/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scoring

import (
	"math"
	"regexp"

	"github.com/Seednode/letterclash/lexicon"
)

const (
	WeightedName = "weighted"

	weightedCompletionBonus = 15
	weightedStreakStep      = 4
	weightedStreakCap       = 20
)

// Commonness used when a valid answer is missing from the frequency list.
const (
	neutralNameCommonness   = 0.55
	neutralAnimalCommonness = 0.35
	neutralThingCommonness  = 0.45
)

var cityWord = regexp.MustCompile(`\bcity\b`)

// Weighted scores each valid answer by how rare it is: the less common the
// word (or the smaller the place), the more points it earns.
type Weighted struct {
	lex Lexicon
}

func NewWeighted(lex Lexicon) Weighted {
	return Weighted{lex: lex}
}

func (Weighted) Name() string { return WeightedName }

func (w Weighted) Evaluate(letter string, answers Answers, elapsedSeconds float64, streakBefore int) Result {
	res := Result{Letter: letter, ElapsedSeconds: elapsedSeconds}

	for _, c := range Categories {
		v := w.category(c, answers.Get(c), letter)
		res.Verdicts.set(c, v)

		if v.Valid {
			res.Breakdown.ValidCount++
			res.Breakdown.CategoryPoints += v.Points
		}
	}

	res.summarize()
	res.FullClear = res.Breakdown.ValidCount == len(Categories)
	res.Breakdown.Participation = participationPoints
	res.Breakdown.SpeedBonus = speedBonus(elapsedSeconds)

	if res.FullClear {
		res.Breakdown.CompletionBonus = weightedCompletionBonus
		res.Breakdown.StreakBonus = streakBonus(streakBefore, weightedStreakStep, weightedStreakCap)
	}

	res.Breakdown.Total = total(res.Breakdown)

	return res
}

type judgement struct {
	valid      bool
	reason     *string
	commonness float64
	detectedAs lexicon.PlaceKind
}

func (w Weighted) category(c Category, raw, letter string) Verdict {
	cleaned := lexicon.CollapseSpace(raw)
	normalized := lexicon.Normalize(cleaned)

	if normalized == "" {
		return rejected(cleaned, reason("No %s provided.", c))
	}

	if string(lexicon.FirstLetter(cleaned)) != letter {
		return rejected(cleaned, reason("Must start with %s.", letter))
	}

	var j judgement

	switch c {
	case Name:
		j = w.name(normalized)
	case Place:
		j = w.place(normalized)
	case Animal:
		j = w.animal(normalized)
	case Thing:
		j = w.thing(normalized)
	}

	if !j.valid {
		v := rejected(cleaned, j.reason)
		v.DetectedAs = j.detectedAs

		return v
	}

	value := lexicon.Clamp01(j.commonness)
	label := difficulty(value)
	rounded := math.Round(value*1000) / 1000

	return Verdict{
		Answer:     cleaned,
		Valid:      true,
		Points:     roundHalfUp(8 + (1-value)*15),
		Difficulty: &label,
		Commonness: &rounded,
		DetectedAs: j.detectedAs,
	}
}

func difficulty(commonness float64) string {
	switch {
	case commonness >= 0.82:
		return "Very Common"
	case commonness >= 0.62:
		return "Common"
	case commonness >= 0.40:
		return "Uncommon"
	case commonness >= 0.22:
		return "Rare"
	}

	return "Very Rare"
}

func (w Weighted) wordCommonness(term string, neutral float64) float64 {
	if c, ok := w.lex.WordCommonness(term); ok {
		return c
	}

	return neutral
}

func (w Weighted) name(normalized string) judgement {
	tokens := lexicon.NameTokens(normalized)
	if len(tokens) == 0 || !w.lex.IsName(tokens[0]) {
		return judgement{reason: reason("Not recognized as a common first name.")}
	}

	return judgement{valid: true, commonness: w.wordCommonness(tokens[0], neutralNameCommonness)}
}

func (w Weighted) place(normalized string) judgement {
	withoutCity := lexicon.CollapseSpace(cityWord.ReplaceAllString(normalized, ""))

	for _, candidate := range []string{normalized, withoutCity} {
		if candidate == "" {
			continue
		}

		if m, ok := w.lex.Place(candidate); ok {
			return judgement{valid: true, commonness: m.Commonness, detectedAs: m.Kind}
		}
	}

	return judgement{reason: reason("Place not found in city/country data.")}
}

func (w Weighted) animal(normalized string) judgement {
	candidates := append([]string{normalized}, lexicon.SingularForms(normalized)...)

	if tokens := lexicon.Tokens(normalized); len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		candidates = append(candidates, last)
		candidates = append(candidates, lexicon.SingularForms(last)...)
	}

	for _, candidate := range candidates {
		if candidate != "" && w.lex.IsAnimal(candidate) {
			return judgement{valid: true, commonness: w.wordCommonness(candidate, neutralAnimalCommonness)}
		}
	}

	return judgement{reason: reason("Not recognized in the animal list.")}
}

func (w Weighted) isThingWord(token string) bool {
	if w.lex.IsWord(token) {
		return true
	}

	for _, s := range lexicon.SingularForms(token) {
		if w.lex.IsWord(s) {
			return true
		}
	}

	return false
}

func (w Weighted) thing(normalized string) judgement {
	if w.lex.IsPlace(normalized) {
		return judgement{reason: reason("That is a place, not a random thing.")}
	}

	tokens := lexicon.Tokens(normalized)
	if len(tokens) == 0 {
		return judgement{reason: reason("Not recognized as an English thing/object word.")}
	}

	for _, tok := range tokens {
		if !w.isThingWord(tok) {
			return judgement{reason: reason("Not recognized as an English thing/object word.")}
		}
	}

	if len(tokens) == 1 && (w.lex.IsAnimal(tokens[0]) || w.lex.IsName(tokens[0])) {
		return judgement{reason: reason("Looks like an animal or name, not a thing.")}
	}

	return judgement{valid: true, commonness: w.wordCommonness(normalized, neutralThingCommonness)}
}

var _ Lexicon = (*lexicon.Index)(nil)
