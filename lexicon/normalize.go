/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lexicon

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var irregularSingulars = map[string]string{
	"mice":     "mouse",
	"geese":    "goose",
	"teeth":    "tooth",
	"feet":     "foot",
	"wolves":   "wolf",
	"leaves":   "leaf",
	"children": "child",
	"men":      "man",
	"women":    "woman",
}

// Normalize folds raw input into the form used for every lookup: diacritics
// removed, lower-cased, anything other than letters, digits, spaces,
// apostrophes and hyphens replaced by a space, and whitespace collapsed.
func Normalize(raw string) string {
	// transform.Chain keeps internal state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}

	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))

	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '\'', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CollapseSpace trims s and collapses internal runs of whitespace.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits normalized text on whitespace and hyphens.
func Tokens(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
}

// NameTokens splits normalized text on whitespace, hyphens and apostrophes.
func NameTokens(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return r == '-' || r == '\'' || unicode.IsSpace(r)
	})
}

// FirstLetter returns the upper-cased first letter of the normalized form of
// s, or 0 if s contains no letter.
func FirstLetter(s string) rune {
	for _, r := range Normalize(s) {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r)
		}
	}

	return 0
}

// SingularForms returns best-effort singular candidates for a word, most
// likely first. The heuristic only strips common English plural suffixes
// and consults a small table of irregular plurals.
func SingularForms(word string) []string {
	input := Normalize(word)
	if input == "" {
		return nil
	}

	if s, ok := irregularSingulars[input]; ok {
		return []string{s}
	}

	n := len(input)

	switch {
	case strings.HasSuffix(input, "ies") && n > 4:
		return []string{input[:n-3] + "y"}
	case strings.HasSuffix(input, "ves") && n > 4:
		return []string{input[:n-3] + "f", input[:n-1]}
	case strings.HasSuffix(input, "es") && n > 3:
		return []string{input[:n-2], input[:n-1]}
	case strings.HasSuffix(input, "s") && n > 2:
		return []string{input[:n-1]}
	}

	return []string{input}
}

// Singular returns the most likely singular form of word.
func Singular(word string) string {
	forms := SingularForms(word)
	if len(forms) == 0 {
		return ""
	}

	return forms[0]
}
