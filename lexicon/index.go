/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package lexicon holds the read-only reference data used to judge answers:
// given names, animals, dictionary words, a city/country gazetteer with
// populations, and a word-frequency ranking.
package lexicon

import (
	"math"
)

type PlaceKind string

const (
	City    PlaceKind = "city"
	Country PlaceKind = "country"
)

const (
	defaultCityPopulation    = 1000
	defaultCountryPopulation = 100000
	unknownPlaceCommonness   = 0.25
)

// PlaceMatch describes a gazetteer hit.
type PlaceMatch struct {
	Kind       PlaceKind
	Population float64
	Commonness float64
}

type CityRow struct {
	Name       string
	AltName    string
	Population float64
}

type CountryRow struct {
	Name       string
	Population float64
	Aliases    []string
}

// Data is the raw material an Index is built from.
type Data struct {
	Names     []string
	Animals   []string
	Words     []string
	Popular   []string
	Cities    []CityRow
	Countries []CountryRow
}

type bounds struct {
	minLog float64
	maxLog float64
}

// Index is immutable after Build and safe for concurrent use.
type Index struct {
	names   map[string]struct{}
	animals map[string]struct{}
	words   map[string]struct{}

	ranks     map[string]int
	rankCount int

	cities        map[string]float64
	countries     map[string]float64
	cityBounds    bounds
	countryBounds bounds
}

// Build indexes d. Every entry is normalized; empty entries are dropped.
func Build(d Data) *Index {
	idx := &Index{
		names:     make(map[string]struct{}, len(d.Names)),
		animals:   make(map[string]struct{}, len(d.Animals)*2),
		words:     make(map[string]struct{}, len(d.Words)),
		ranks:     make(map[string]int, len(d.Popular)),
		rankCount: len(d.Popular),
		cities:    make(map[string]float64, len(d.Cities)),
		countries: make(map[string]float64, len(d.Countries)),
	}

	for _, n := range d.Names {
		if key := Normalize(n); key != "" {
			idx.names[key] = struct{}{}
		}
	}

	for _, a := range d.Animals {
		if key := Normalize(a); key != "" {
			idx.animals[key] = struct{}{}
		}
		if s := Singular(a); s != "" {
			idx.animals[s] = struct{}{}
		}
	}

	for _, w := range d.Words {
		if key := Normalize(w); key != "" {
			idx.words[key] = struct{}{}
		}
	}

	for i, w := range d.Popular {
		key := Normalize(w)
		if key == "" {
			continue
		}
		if _, seen := idx.ranks[key]; !seen {
			idx.ranks[key] = i
		}
	}

	for _, c := range d.Cities {
		pop := positiveOr(c.Population, defaultCityPopulation)
		for _, variant := range []string{c.Name, c.AltName} {
			key := Normalize(variant)
			if key == "" {
				continue
			}
			if pop > idx.cities[key] {
				idx.cities[key] = pop
			}
		}
	}

	// Primary names first so an alias never shadows a country's own entry.
	for _, c := range d.Countries {
		if key := Normalize(c.Name); key != "" {
			idx.countries[key] = positiveOr(c.Population, defaultCountryPopulation)
		}
	}
	for _, c := range d.Countries {
		pop := idx.countries[Normalize(c.Name)]
		if pop == 0 {
			pop = defaultCountryPopulation
		}
		for _, alias := range c.Aliases {
			key := Normalize(alias)
			if key == "" {
				continue
			}
			if _, ok := idx.countries[key]; !ok {
				idx.countries[key] = pop
			}
		}
	}

	idx.cityBounds = populationBounds(idx.cities)
	idx.countryBounds = populationBounds(idx.countries)

	return idx
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}

	return v
}

func populationBounds(pops map[string]float64) bounds {
	minLog, maxLog := math.Inf(1), math.Inf(-1)

	for _, p := range pops {
		if p <= 0 {
			continue
		}
		l := math.Log10(p)
		minLog = math.Min(minLog, l)
		maxLog = math.Max(maxLog, l)
	}

	if math.IsInf(minLog, 0) || math.IsInf(maxLog, 0) || minLog == maxLog {
		return bounds{minLog: 1, maxLog: 8}
	}

	return bounds{minLog: minLog, maxLog: maxLog}
}

func (b bounds) commonness(population float64) float64 {
	if population <= 0 || math.IsNaN(population) || math.IsInf(population, 0) {
		return unknownPlaceCommonness
	}

	return Clamp01((math.Log10(population) - b.minLog) / (b.maxLog - b.minLog))
}

// Clamp01 limits v to [0,1]; non-finite values map to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return math.Max(0, math.Min(1, v))
}

func (idx *Index) IsName(term string) bool {
	_, ok := idx.names[Normalize(term)]
	return ok
}

func (idx *Index) IsAnimal(term string) bool {
	_, ok := idx.animals[Normalize(term)]
	return ok
}

func (idx *Index) IsWord(term string) bool {
	_, ok := idx.words[Normalize(term)]
	return ok
}

// IsPlace reports whether term is exactly a known city or country.
func (idx *Index) IsPlace(term string) bool {
	key := Normalize(term)
	if _, ok := idx.countries[key]; ok {
		return true
	}

	_, ok := idx.cities[key]

	return ok
}

// Place looks term up in the gazetteer, countries before cities.
func (idx *Index) Place(term string) (PlaceMatch, bool) {
	key := Normalize(term)
	if key == "" {
		return PlaceMatch{}, false
	}

	if pop, ok := idx.countries[key]; ok {
		return PlaceMatch{Kind: Country, Population: pop, Commonness: idx.countryBounds.commonness(pop)}, true
	}

	if pop, ok := idx.cities[key]; ok {
		return PlaceMatch{Kind: City, Population: pop, Commonness: idx.cityBounds.commonness(pop)}, true
	}

	return PlaceMatch{}, false
}

// WordCommonness maps the best frequency rank among term, its singular
// forms, its tokens and their singular forms onto [0,1], 1 being the most
// frequent word. The second return is false when none of them is ranked.
func (idx *Index) WordCommonness(term string) (float64, bool) {
	normalized := Normalize(term)
	if normalized == "" || idx.rankCount == 0 {
		return 0, false
	}

	candidates := []string{normalized}
	candidates = append(candidates, SingularForms(normalized)...)

	for _, tok := range Tokens(normalized) {
		candidates = append(candidates, tok)
		candidates = append(candidates, SingularForms(tok)...)
	}

	best := -1
	for _, c := range candidates {
		if rank, ok := idx.ranks[c]; ok && (best < 0 || rank < best) {
			best = rank
		}
	}

	if best < 0 {
		return 0, false
	}

	return Clamp01(1 - float64(best)/math.Max(1, float64(idx.rankCount-1))), true
}

// Stats summarizes the index for startup logging.
func (idx *Index) Stats() map[string]any {
	return map[string]any{
		"names":     len(idx.names),
		"animals":   len(idx.animals),
		"words":     len(idx.words),
		"ranked":    len(idx.ranks),
		"cities":    len(idx.cities),
		"countries": len(idx.countries),
	}
}
