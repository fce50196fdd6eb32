// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YuQing-Ding/IPTV-Editor/internal/api"
	"github.com/YuQing-Ding/IPTV-Editor/internal/config"
	"github.com/YuQing-Ding/IPTV-Editor/internal/log"
)

const shutdownGrace = 10 * time.Second

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.WithComponent("serve")

	// without -config, pick up ${data_dir}/config.yaml when it exists so
	// a previously written config persists across restarts
	effectivePath := *configPath
	if effectivePath == "" {
		dataDir := os.Getenv("IPTVED_DATA_DIR")
		if dataDir == "" {
			dataDir = config.Default().DataDir
		}
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectivePath = autoPath
		}
	}

	loader := &config.Loader{Path: effectivePath}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Service: "iptv-editor"})

	if effectivePath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectivePath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	holder := config.NewHolder(cfg, loader)
	if err := holder.StartWatcher(ctx); err != nil {
		return err
	}
	defer holder.Stop()

	srv, err := api.New(holder)
	if err != nil {
		return err
	}
	srv.Start()
	defer srv.Stop()

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("addr", cfg.Listen).
		Str("data_dir", cfg.DataDir).
		Msg("starting iptv-editor")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info().Str("event", "shutdown").Msg("server exiting")
	return err
}
