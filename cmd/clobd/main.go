// Command clobd wires together configuration, logging, the matching venue,
// its concurrency gateway, and the depth/trade broadcast feed into a single
// process.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/clobcore/matching-engine/internal/config"
	"github.com/clobcore/matching-engine/internal/feed"
	"github.com/clobcore/matching-engine/internal/ingress"
	"github.com/clobcore/matching-engine/internal/matching"
	"github.com/clobcore/matching-engine/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "clobd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := telemetryLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	venue := matching.NewVenue()
	for _, sym := range cfg.Symbols {
		venue.AddSymbol(sym)
	}
	logger.Info("venue initialized", zap.Strings("symbols", cfg.Symbols))

	gateway := ingress.NewGateway(venue, cfg.RingBufferSize, logger)
	defer gateway.Shutdown()

	hub := feed.NewHub(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	mux.HandleFunc("/v1/orders", newSubmitHandler(gateway))
	mux.HandleFunc("/v1/depth", newDepthHandler(gateway, cfg.MaxLevelsPerDepth))

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, mux)
}

func telemetryLogger(cfg config.Config) (*zap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
}

// newSubmitHandler and newDepthHandler are kept deliberately thin: they
// decode the external request shape (§9 "Dynamic request shapes") into the
// core's typed order.SubmitRequest and format results back out, with no
// matching logic of their own.
func newSubmitHandler(gw *ingress.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeSubmitRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := gw.Submit(req)
		if err != nil {
			writeRejection(w, err)
			return
		}
		writeSubmitResult(w, result)
	}
}

func newDepthHandler(gw *ingress.Gateway, defaultMaxLevels int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, "missing symbol", http.StatusBadRequest)
			return
		}

		snap, err := gw.Depth(symbol, defaultMaxLevels)
		if err != nil {
			writeRejection(w, err)
			return
		}
		writeDepthSnapshot(w, snap)
	}
}
