/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lexicon

import (
	"bufio"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed data/*
var embedded embed.FS

const (
	namesFile     = "names.txt"
	animalsFile   = "animals.txt"
	wordsFile     = "words.txt"
	popularFile   = "popular.txt"
	citiesFile    = "cities.csv"
	countriesFile = "countries.csv"
)

// Default builds an Index from the dataset compiled into the binary.
func Default(log zerolog.Logger) (*Index, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Build(Data{}), err
	}

	return Load(sub, log)
}

// LoadDir builds an Index from the dataset files in dir.
func LoadDir(dir string, log zerolog.Logger) (*Index, error) {
	return Load(os.DirFS(dir), log)
}

// Load reads every source it can find in fsys. A source that fails to load
// is left empty and reported in the returned error; the Index is always
// usable, and lookups against a missing source simply miss.
func Load(fsys fs.FS, log zerolog.Logger) (*Index, error) {
	var (
		d    Data
		errs []error
	)

	lists := []struct {
		file string
		dst  *[]string
	}{
		{namesFile, &d.Names},
		{animalsFile, &d.Animals},
		{wordsFile, &d.Words},
		{popularFile, &d.Popular},
	}

	for _, l := range lists {
		entries, err := readList(fsys, l.file)
		if err != nil {
			log.Warn().Err(err).Str("source", l.file).Msg("lexicon source unavailable")
			errs = append(errs, err)

			continue
		}
		*l.dst = entries
	}

	cities, err := readCities(fsys)
	if err != nil {
		log.Warn().Err(err).Str("source", citiesFile).Msg("lexicon source unavailable")
		errs = append(errs, err)
	}
	d.Cities = cities

	countries, err := readCountries(fsys)
	if err != nil {
		log.Warn().Err(err).Str("source", countriesFile).Msg("lexicon source unavailable")
		errs = append(errs, err)
	}
	d.Countries = countries

	idx := Build(d)

	log.Debug().Fields(idx.Stats()).Msg("lexicon loaded")

	return idx, errors.Join(errs...)
}

func readList(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var out []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return out, nil
}

func readRecords(fsys fs.FS, name string) ([][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records [][]string

	for first := true; ; first = false {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if first && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func parsePopulation(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}

	return ""
}

func readCities(fsys fs.FS) ([]CityRow, error) {
	records, err := readRecords(fsys, citiesFile)
	if err != nil {
		return nil, err
	}

	rows := make([]CityRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, CityRow{
			Name:       field(rec, 0),
			AltName:    field(rec, 1),
			Population: parsePopulation(field(rec, 2)),
		})
	}

	return rows, nil
}

func readCountries(fsys fs.FS) ([]CountryRow, error) {
	records, err := readRecords(fsys, countriesFile)
	if err != nil {
		return nil, err
	}

	rows := make([]CountryRow, 0, len(records))
	for _, rec := range records {
		var aliases []string
		for _, a := range strings.Split(field(rec, 2), "|") {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}

		rows = append(rows, CountryRow{
			Name:       field(rec, 0),
			Population: parsePopulation(field(rec, 1)),
			Aliases:    aliases,
		})
	}

	return rows, nil
}
