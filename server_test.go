/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, strategy string) (*httptest.Server, *server) {
	t.Helper()

	cfg := &Config{
		port:      8080,
		rateLimit: 1000,
		rateBurst: 1000,
		scoring:   strategy,
		log:       zerolog.Nop(),
	}
	require.NoError(t, cfg.validate())

	s, err := newServer(cfg)
	require.NoError(t, err)

	errs := make(chan error, 16)
	mux := httprouter.New()
	s.routes(cfg, mux, errs)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts, s
}
