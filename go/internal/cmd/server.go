package main

import (
	"fmt"
	"net/http"

	draftv1 "github.com/mcdev12/pronos/go/internal/api/draft/v1"
	rosterv1 "github.com/mcdev12/pronos/go/internal/api/roster/v1"
	tradev1 "github.com/mcdev12/pronos/go/internal/api/trade/v1"
	"github.com/mcdev12/pronos/go/internal/config"
	"github.com/mcdev12/pronos/go/internal/rpc"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg config.Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{rpc.ErrorCodeHeader},
	})

	registerServices(mux, services)
	setupHealthCheck(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(c.Handler(mux), &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	opts := rpc.HandlerOptions()

	draftPath, draftHandler := draftv1.NewDraftServiceHandler(services.Draft, opts...)
	mux.Handle(draftPath, draftHandler)

	tradePath, tradeHandler := tradev1.NewTradeServiceHandler(services.Trade, opts...)
	mux.Handle(tradePath, tradeHandler)

	rosterPath, rosterHandler := rosterv1.NewRosterServiceHandler(services.Roster, opts...)
	mux.Handle(rosterPath, rosterHandler)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
