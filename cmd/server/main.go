package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utakatalp/league-projections/internal/api"
	"github.com/utakatalp/league-projections/internal/config"
	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
	"github.com/utakatalp/league-projections/internal/montecarlo"
	"github.com/utakatalp/league-projections/internal/store"
	"github.com/utakatalp/league-projections/internal/tournament"
	"github.com/utakatalp/league-projections/internal/worker"
)

// demoZoneSize matches the 30-club league split in two zones.
const demoZoneSize = 15

func main() {
	if err := run(); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	data := config.DemoData(demoZoneSize)
	if cfg.DataFile != "" {
		if data, err = config.LoadData(cfg.DataFile); err != nil {
			return err
		}
	}
	logger.Info("League data ready", "teams", len(data.Teams), "matches", len(data.Matches), "file", cfg.DataFile)

	st, err := store.Open(cfg.DBDriver, cfg.SQLiteFile, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := tournament.New(st, store.Snapshot{Teams: data.Teams, Matches: data.Matches}, league.NewUniformSampler(cfg.Seed), cfg.NumSims)
	for i, t := range league.Tournaments {
		// Each pipeline owns its sampler; samplers are not safe for concurrent use.
		seed := cfg.Seed
		if seed != 0 {
			seed += int64(i + 1)
		}
		w := worker.New(montecarlo.New(league.NewUniformSampler(seed), cfg.Thresholds()))
		d := worker.NewDispatcher(w, cfg.Debounce)
		go w.Run(ctx)
		go d.Run(ctx)
		svc.Attach(t, d)
	}
	if err := svc.Load(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(svc).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Addr, "driver", cfg.DBDriver, "sims", cfg.NumSims)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
