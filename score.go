/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Seednode/letterclash/lexicon"
	"github.com/Seednode/letterclash/scoring"
)

type scoreOptions struct {
	answers    scoring.Answers
	elapsed    float64
	letter     string
	lexiconDir string
	streak     int
	strategy   string
}

func loadLexicon(dir string, log zerolog.Logger) (*lexicon.Index, error) {
	if dir == "" {
		return lexicon.Default(log)
	}
	return lexicon.LoadDir(dir, log)
}

// newScoreCmd scores a single set of answers without a room.
func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one set of answers offline and print the result as JSON.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			letter, ok := scoring.SanitizeLetter(opts.letter)
			if !ok {
				return errors.New("invalid letter (must be a single letter A-Z)")
			}

			// Partial data still scores; missing sources fall back to neutral commonness.
			idx, _ := loadLexicon(opts.lexiconDir, zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel))

			strategy, err := scoring.ByName(opts.strategy, idx)
			if err != nil {
				return err
			}

			result := strategy.Evaluate(letter, opts.answers, min(max(opts.elapsed, 0), scoring.RoundSeconds), max(opts.streak, 0))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(result)
		},
	}

	fs := cmd.Flags()

	normalizeFlags(fs)

	fs.StringVarP(&opts.letter, "letter", "l", "", "round letter")
	fs.StringVar(&opts.answers.Name, "name", "", "answer for the name category")
	fs.StringVar(&opts.answers.Place, "place", "", "answer for the place category")
	fs.StringVar(&opts.answers.Animal, "animal", "", "answer for the animal category")
	fs.StringVar(&opts.answers.Thing, "thing", "", "answer for the thing category")
	fs.Float64Var(&opts.elapsed, "elapsed", 0, "seconds taken to answer")
	fs.IntVar(&opts.streak, "streak", 0, "full-completion streak before this turn")
	fs.StringVar(&opts.strategy, "strategy", scoring.WeightedName, "scoring strategy: weighted or simple")
	fs.StringVar(&opts.lexiconDir, "lexicon-dir", "", "directory of lexicon data; uses built-in data if unset")

	_ = cmd.MarkFlagRequired("letter")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
