/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scoring

import (
	"unicode"
	"unicode/utf8"

	"github.com/Seednode/letterclash/lexicon"
)

const (
	SimpleName = "simple"

	simpleCategoryPoints  = 15
	simpleCompletionBonus = 20
	simpleStreakStep      = 5
	simpleStreakCap       = 15
)

// Simple only checks the starting letter and awards flat points. It needs no
// lexicon, which makes it usable for offline play.
type Simple struct{}

func (Simple) Name() string { return SimpleName }

func (Simple) Evaluate(letter string, answers Answers, elapsedSeconds float64, streakBefore int) Result {
	res := Result{Letter: letter, ElapsedSeconds: elapsedSeconds}

	for _, c := range Categories {
		cleaned := lexicon.CollapseSpace(answers.Get(c))

		var v Verdict

		switch first, _ := utf8.DecodeRuneInString(cleaned); {
		case cleaned == "":
			v = rejected(cleaned, reason("No %s provided.", c))
		case string(unicode.ToUpper(first)) != letter:
			v = rejected(cleaned, reason("Must start with %s.", letter))
		default:
			v = Verdict{Answer: cleaned, Valid: true, Points: simpleCategoryPoints}
			res.Breakdown.ValidCount++
			res.Breakdown.CategoryPoints += simpleCategoryPoints
		}

		res.Verdicts.set(c, v)
	}

	res.summarize()
	res.FullClear = res.Breakdown.ValidCount == len(Categories)
	res.Breakdown.Participation = participationPoints
	res.Breakdown.SpeedBonus = speedBonus(elapsedSeconds)

	if res.FullClear {
		res.Breakdown.CompletionBonus = simpleCompletionBonus
		res.Breakdown.StreakBonus = streakBonus(streakBefore, simpleStreakStep, simpleStreakCap)
	}

	res.Breakdown.Total = total(res.Breakdown)

	return res
}
