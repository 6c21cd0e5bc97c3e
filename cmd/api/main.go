// Package main is the entry point for the live map server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/livemap/internal/config"
	"github.com/pkordes/livemap/internal/directory"
	"github.com/pkordes/livemap/internal/geocode"
	"github.com/pkordes/livemap/internal/handler"
	"github.com/pkordes/livemap/internal/mapview"
	"github.com/pkordes/livemap/internal/middleware"
	"github.com/pkordes/livemap/internal/render"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Outbound clients -------------------------------------------------
	// One client for both collaborators; the timeout bounds each request so a
	// hung upstream cannot pin a view.
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	lister := directory.NewClient(cfg.BusinessListEndpoint, httpClient)
	geocoder := geocode.NewClient(cfg.GeocodeEndpoint, cfg.GeocodeAPIKey, httpClient)

	// --- Views ------------------------------------------------------------
	views := mapview.NewRegistry(lister, geocoder, logger, cfg.ViewIdleTTL)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go views.Run(sweepCtx)

	// Open pages ping their view three times per idle TTL, so only abandoned
	// views are swept.
	pages, err := render.New(cfg.MapsJSAPIKey, cfg.ViewIdleTTL/3)
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(views, pages, cfg.Theme, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// The write timeout leaves room for a page load that waits on the
	// directory and a selection that waits on the geocoder.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HTTPClientTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "theme", cfg.Theme)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	shutdownErr := httpSrv.Shutdown(ctx)
	stopSweep()
	views.CloseAll()
	if shutdownErr != nil {
		slog.Error("shutdown error", "error", shutdownErr)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
