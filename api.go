/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/letterclash/scoring"
)

const (
	maxRequestBody = 64 << 10
	// maxStreak is far beyond any reachable streak and keeps the float to
	// int conversion defined.
	maxStreak = 1000
)

type EvaluateRequest struct {
	Letter         string          `json:"letter"`
	Answers        scoring.Answers `json:"answers"`
	ElapsedSeconds float64         `json:"elapsedSeconds"`
	StreakBefore   float64         `json:"streakBefore"`
	Strategy       string          `json:"strategy,omitempty"`
}

type EvaluateResponse struct {
	OK         bool            `json:"ok"`
	Error      string          `json:"error,omitempty"`
	Evaluation *scoring.Result `json:"evaluation,omitempty"`
}

// strategies resolves the optional per-request strategy name, falling back
// to the server default.
type strategies struct {
	fallback scoring.Strategy
	lex      scoring.Lexicon
}

func (s strategies) get(name string) (scoring.Strategy, error) {
	if name == "" {
		return s.fallback, nil
	}
	return scoring.ByName(name, s.lex)
}

func writeJSON(w http.ResponseWriter, status int, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return w.Write(append(data, '\n'))
}

func serveEvaluateTurn(cfg *Config, s strategies, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		securityHeaders(cfg, w)

		reply := func(status int, resp EvaluateResponse) {
			written, err := writeJSON(w, status, resp)
			if err != nil {
				errs <- err

				return
			}

			logf(cfg, "SERVE: Evaluation %d (%s) to %s in %s",
				status,
				humanReadableSize(int64(written)),
				realIP(r),
				time.Since(startTime).Round(time.Microsecond),
			)
		}

		var req EvaluateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			reply(http.StatusBadRequest, EvaluateResponse{Error: "Invalid request body."})
			return
		}

		letter, ok := scoring.SanitizeLetter(req.Letter)
		if !ok {
			reply(http.StatusBadRequest, EvaluateResponse{Error: "Invalid letter."})
			return
		}

		strategy, err := s.get(req.Strategy)
		if err != nil {
			reply(http.StatusBadRequest, EvaluateResponse{Error: "Unknown scoring strategy."})
			return
		}

		elapsed := min(max(req.ElapsedSeconds, 0), scoring.RoundSeconds)
		streak := int(min(max(math.Floor(req.StreakBefore), 0), maxStreak))

		result := strategy.Evaluate(letter, req.Answers, elapsed, streak)

		reply(http.StatusOK, EvaluateResponse{OK: true, Evaluation: &result})
	}
}
