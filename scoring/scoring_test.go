package scoring

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/letterclash/lexicon"
)

func testLexicon() *lexicon.Index {
	return lexicon.Build(lexicon.Data{
		Names:   []string{"Bob", "Bella"},
		Animals: []string{"Bear", "Bee", "Polar Bear"},
		Words:   []string{"book", "shelf", "bell", "ball", "bee", "bella"},
		Popular: []string{"the", "book", "bear", "bob"},
		Cities:  []lexicon.CityRow{{Name: "Boston", Population: 4_688_000}},
		Countries: []lexicon.CountryRow{
			{Name: "Brazil", Population: 212_559_417},
			{Name: "Belgium", Population: 11_589_623},
		},
	})
}

func strp(s string) *string { return &s }

func TestWeightedFullClear(t *testing.T) {
	w := NewWeighted(testLexicon())

	res := w.Evaluate("B", Answers{Name: "Bob", Place: "Boston", Animal: "Bear", Thing: "Book"}, 10, 2)

	require.True(t, res.FullClear)
	assert.Equal(t, 4, res.Breakdown.ValidCount)

	assert.Equal(t, 23, res.Verdicts.Name.Points)
	assert.Equal(t, "Very Rare", *res.Verdicts.Name.Difficulty)
	assert.Equal(t, 11, res.Verdicts.Place.Points)
	assert.Equal(t, lexicon.City, res.Verdicts.Place.DetectedAs)
	assert.InDelta(t, 0.810, *res.Verdicts.Place.Commonness, 1e-9)
	assert.Equal(t, 18, res.Verdicts.Animal.Points)
	assert.Equal(t, "Rare", *res.Verdicts.Animal.Difficulty)
	assert.Equal(t, 13, res.Verdicts.Thing.Points)
	assert.Equal(t, "Common", *res.Verdicts.Thing.Difficulty)

	assert.Equal(t, Breakdown{
		Participation:   8,
		CategoryPoints:  65,
		SpeedBonus:      25,
		CompletionBonus: 15,
		StreakBonus:     8,
		Total:           121,
		ValidCount:      4,
	}, res.Breakdown)
}

func TestWeightedDefaultLexiconScenario(t *testing.T) {
	idx, err := lexicon.Default(zerolog.Nop())
	require.NoError(t, err)

	res := NewWeighted(idx).Evaluate("B", Answers{Name: "Bob", Place: "Boston", Animal: "Bear", Thing: "Book"}, 10, 2)

	require.True(t, res.FullClear)
	assert.Equal(t, 15, res.Breakdown.CompletionBonus)
	assert.Equal(t, 8, res.Breakdown.StreakBonus)
	assert.Equal(t, 25, res.Breakdown.SpeedBonus)
	assert.Equal(t, 8+res.Breakdown.CategoryPoints+25+15+8, res.Breakdown.Total)
}

func TestWeightedVerdicts(t *testing.T) {
	w := NewWeighted(testLexicon())

	tests := []struct {
		name     string
		category Category
		answer   string
		valid    bool
		reason   *string
		detected lexicon.PlaceKind
	}{
		{"wrong letter", Name, "Apple", false, strp("Must start with B."), ""},
		{"blank", Animal, "   ", false, strp("No animal provided."), ""},
		{"punctuation only", Thing, "?!", false, strp("No thing provided."), ""},
		{"unknown name", Name, "Bartholomew", false, strp("Not recognized as a common first name."), ""},
		{"hyphenated name", Name, "bob-marley", true, nil, ""},
		{"country", Place, "brazil", true, nil, lexicon.Country},
		{"city suffix", Place, "Boston City", true, nil, lexicon.City},
		{"unknown place", Place, "Bikini Bottom", false, strp("Place not found in city/country data."), ""},
		{"plural animal", Animal, "Bears", true, nil, ""},
		{"last token animal", Animal, "Black Bears", true, nil, ""},
		{"not an animal", Animal, "Book", false, strp("Not recognized in the animal list."), ""},
		{"place as thing", Thing, "Belgium", false, strp("That is a place, not a random thing."), ""},
		{"animal as thing", Thing, "Bee", false, strp("Looks like an animal or name, not a thing."), ""},
		{"name as thing", Thing, "Bella", false, strp("Looks like an animal or name, not a thing."), ""},
		{"compound thing", Thing, "book-shelf", true, nil, ""},
		{"plural thing", Thing, "Bells", true, nil, ""},
		{"partial dictionary", Thing, "Book Blorp", false, strp("Not recognized as an English thing/object word."), ""},
		{"diacritics", Thing, "Bóók", true, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answers Answers
			switch tt.category {
			case Name:
				answers.Name = tt.answer
			case Place:
				answers.Place = tt.answer
			case Animal:
				answers.Animal = tt.answer
			case Thing:
				answers.Thing = tt.answer
			}

			v := w.Evaluate("B", answers, 30, 0).Verdicts.Get(tt.category)

			assert.Equal(t, tt.valid, v.Valid)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, tt.detected, v.DetectedAs)

			if tt.valid {
				assert.GreaterOrEqual(t, v.Points, 8)
				assert.LessOrEqual(t, v.Points, 23)
				require.NotNil(t, v.Commonness)
			} else {
				assert.Zero(t, v.Points)
				assert.Nil(t, v.Commonness)
				assert.Nil(t, v.Difficulty)
			}
		})
	}
}

func TestWeightedNeutralCommonness(t *testing.T) {
	// Without a frequency list every valid answer falls back to its
	// category's neutral commonness.
	idx := lexicon.Build(lexicon.Data{
		Names:   []string{"Bob"},
		Animals: []string{"Bear"},
		Words:   []string{"book"},
	})

	res := NewWeighted(idx).Evaluate("B", Answers{Name: "Bob", Animal: "Bear", Thing: "Book"}, 0, 0)

	assert.InDelta(t, 0.55, *res.Verdicts.Name.Commonness, 1e-9)
	assert.Equal(t, 15, res.Verdicts.Name.Points)
	assert.Equal(t, "Uncommon", *res.Verdicts.Name.Difficulty)

	assert.InDelta(t, 0.35, *res.Verdicts.Animal.Commonness, 1e-9)
	assert.Equal(t, 18, res.Verdicts.Animal.Points)

	assert.InDelta(t, 0.45, *res.Verdicts.Thing.Commonness, 1e-9)
	assert.Equal(t, 16, res.Verdicts.Thing.Points)

	assert.False(t, res.FullClear)
	assert.Equal(t, 3, res.Breakdown.ValidCount)
}

func TestSpeedBonus(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 30},
		{10, 25},
		{59, 1},
		{59.5, 0},
		{60, 0},
		{61, 0},
		{120, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, speedBonus(tt.elapsed), "elapsed %v", tt.elapsed)
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		commonness float64
		want       string
	}{
		{1, "Very Common"},
		{0.82, "Very Common"},
		{0.81, "Common"},
		{0.62, "Common"},
		{0.4, "Uncommon"},
		{0.22, "Rare"},
		{0.21, "Very Rare"},
		{0, "Very Rare"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, difficulty(tt.commonness), "commonness %v", tt.commonness)
	}
}

func TestStreakBonus(t *testing.T) {
	w := NewWeighted(testLexicon())
	full := Answers{Name: "Bob", Place: "Boston", Animal: "Bear", Thing: "Book"}
	partial := Answers{Name: "Bob", Place: "Boston", Animal: "Bear"}

	assert.Equal(t, 0, w.Evaluate("B", full, 0, 0).Breakdown.StreakBonus)
	assert.Equal(t, 4, w.Evaluate("B", full, 0, 1).Breakdown.StreakBonus)
	assert.Equal(t, 20, w.Evaluate("B", full, 0, 9).Breakdown.StreakBonus)
	assert.Equal(t, 0, w.Evaluate("B", partial, 0, 9).Breakdown.StreakBonus)
	assert.Equal(t, 0, w.Evaluate("B", partial, 0, 9).Breakdown.CompletionBonus)
}

func TestEvaluateProperties(t *testing.T) {
	strategies := []Strategy{NewWeighted(testLexicon()), Simple{}}
	pool := []string{"", "Bob", "Boston", "Bear", "Book", "Apple", "bee", "Brazil", "b", "  ", "Bells"}

	rng := rand.New(rand.NewPCG(1, 2))

	for _, s := range strategies {
		for i := range 500 {
			answers := Answers{
				Name:   pool[rng.IntN(len(pool))],
				Place:  pool[rng.IntN(len(pool))],
				Animal: pool[rng.IntN(len(pool))],
				Thing:  pool[rng.IntN(len(pool))],
			}
			elapsed := float64(rng.IntN(61))
			streak := rng.IntN(8)
			if i%10 == 0 {
				streak = []int{math.MaxInt, 1 << 61, 1 << 62}[rng.IntN(3)]
			}

			res := s.Evaluate("B", answers, elapsed, streak)
			msg := fmt.Sprintf("%s #%d %+v", s.Name(), i, answers)

			assert.Equal(t, res, s.Evaluate("B", answers, elapsed, streak), msg)
			assert.GreaterOrEqual(t, res.Breakdown.Total, 8, msg)
			assert.Equal(t, res.Breakdown.ValidCount == 4, res.Breakdown.CompletionBonus > 0, msg)
			assert.Equal(t, res.Breakdown.ValidCount == 4 && streak > 0, res.Breakdown.StreakBonus > 0, msg)
			assert.Equal(t, res.Breakdown.ValidCount == 4, res.FullClear, msg)
		}
	}
}

func TestEvaluateHugeInputs(t *testing.T) {
	strategies := []Strategy{NewWeighted(testLexicon()), Simple{}}
	full := Answers{Name: "Bob", Place: "Boston", Animal: "Bear", Thing: "Book"}

	for _, s := range strategies {
		for _, streak := range []int{math.MaxInt, math.MaxInt - 1, 1 << 61, 1 << 62, math.MinInt} {
			for _, elapsed := range []float64{-1e300, 1e300, 30} {
				res := s.Evaluate("B", full, elapsed, streak)
				msg := fmt.Sprintf("%s streak=%d elapsed=%v", s.Name(), streak, elapsed)

				assert.GreaterOrEqual(t, res.Breakdown.Total, 8, msg)
				assert.GreaterOrEqual(t, res.Breakdown.SpeedBonus, 0, msg)
				assert.LessOrEqual(t, res.Breakdown.SpeedBonus, 30, msg)
				assert.Equal(t, streak > 0, res.Breakdown.StreakBonus > 0, msg)
			}
		}
	}

	assert.Equal(t, 20, NewWeighted(testLexicon()).Evaluate("B", full, 10, math.MaxInt).Breakdown.StreakBonus)
	assert.Equal(t, 15, Simple{}.Evaluate("B", full, 10, 1<<61).Breakdown.StreakBonus)
}

func TestStreakBonusCap(t *testing.T) {
	tests := []struct {
		streak, step, limit, want int
	}{
		{0, 4, 20, 0},
		{-3, 4, 20, 0},
		{1, 4, 20, 4},
		{4, 4, 20, 16},
		{5, 4, 20, 20},
		{6, 4, 20, 20},
		{3, 5, 15, 15},
		{math.MaxInt, 4, 20, 20},
		{1 << 62, 5, 15, 15},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, streakBonus(tt.streak, tt.step, tt.limit), "streak %d", tt.streak)
	}
}

func TestSimple(t *testing.T) {
	res := Simple{}.Evaluate("B", Answers{Name: "bob", Place: "b", Animal: " Bear ", Thing: "xylophone"}, 20, 2)

	assert.Equal(t, Breakdown{
		Participation:  8,
		CategoryPoints: 45,
		SpeedBonus:     20,
		Total:          73,
		ValidCount:     3,
	}, res.Breakdown)
	assert.Equal(t, "Bear", res.Verdicts.Animal.Answer)
	assert.Equal(t, strp("Must start with B."), res.Verdicts.Thing.Reason)

	res = Simple{}.Evaluate("B", Answers{Name: "b", Place: "b", Animal: "b", Thing: "b"}, 60, 5)
	assert.Equal(t, 20, res.Breakdown.CompletionBonus)
	assert.Equal(t, 15, res.Breakdown.StreakBonus)
	assert.Equal(t, 8+60+0+20+15, res.Breakdown.Total)
}

func TestByName(t *testing.T) {
	s, err := ByName("", testLexicon())
	require.NoError(t, err)
	assert.Equal(t, WeightedName, s.Name())

	s, err = ByName(" Simple ", nil)
	require.NoError(t, err)
	assert.Equal(t, SimpleName, s.Name())

	_, err = ByName("random", nil)
	assert.Error(t, err)
}

func TestSanitizeLetter(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"b", "B", true},
		{" Zebra", "Z", true},
		{"", "", false},
		{"1", "", false},
		{"é", "", false},
	}

	for _, tt := range tests {
		got, ok := SanitizeLetter(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestResultSummary(t *testing.T) {
	for _, s := range []Strategy{NewWeighted(testLexicon()), Simple{}} {
		res := s.Evaluate("B", Answers{Name: "  Bob ", Place: "Paris", Animal: "Bear", Thing: ""}, 30, 0)

		assert.Equal(t, "Bob", res.Answers.Name, s.Name())
		assert.Equal(t, "Paris", res.Answers.Place, s.Name())
		assert.Equal(t, "", res.Answers.Thing, s.Name())
		assert.Equal(t, Validity{Name: true, Animal: true}, res.Validity, s.Name())

		for _, c := range Categories {
			assert.Equal(t, res.Verdicts.Get(c).Answer, res.Answers.Get(c), s.Name())
		}
	}
}
