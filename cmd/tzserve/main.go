// Package main is the entry point for the tzserve HTTP service. It
// wires configuration, logging, the zone cache, the optional bundle
// download and zone-directory watching together; resolution logic
// lives in the library packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wallclock/zoned/internal/config"
	"github.com/wallclock/zoned/internal/server"
	"github.com/wallclock/zoned/internal/zonecache"
	"github.com/wallclock/zoned/tzdir"
	"github.com/wallclock/zoned/tzdist"
	"github.com/wallclock/zoned/zone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from cfg, so this goes to stderr.
		fmt.Fprintln(os.Stderr, "configuration:", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	zoneDirs := tzdir.Sources()
	if cfg.ZoneDir != "" {
		zoneDirs = []string{cfg.ZoneDir}
	}
	cache := zonecache.NewWithLoader(func(name string) (zone.Zone, error) {
		return tzdir.LoadIn(zoneDirs, name)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.BundleURL != "" {
		client := &tzdist.Client{BaseURL: cfg.BundleURL}
		bundle, _, err := client.Fetch(ctx, cfg.BundlePath, "")
		if err != nil {
			log.Error().Err(err).Str("url", cfg.BundleURL).Msg("fetch zone bundle")
			os.Exit(1)
		}
		seeded := 0
		for _, name := range bundle.Names() {
			z, err := bundle.Zone(name)
			if err != nil {
				log.Warn().Err(err).Str("zone", name).Msg("skipping bundle zone")
				continue
			}
			cache.Put(name, z)
			seeded++
		}
		log.Info().Str("version", bundle.Version).Int("zones", seeded).Msg("zone bundle loaded")
	}

	if cfg.WatchZones {
		go func() {
			err := cache.Watch(ctx, zoneDirs, log)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("zone watcher stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(log, cache).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
