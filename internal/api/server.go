// SPDX-License-Identifier: MIT

// Package api exposes the playlist editor over HTTP: channel list
// editing, bulk and M3U import, M3U export, project files and probe
// dispatch.
package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/YuQing-Ding/IPTV-Editor/internal/config"
	"github.com/YuQing-Ding/IPTV-Editor/internal/editor"
	"github.com/YuQing-Ding/IPTV-Editor/internal/i18n"
	"github.com/YuQing-Ding/IPTV-Editor/internal/log"
	"github.com/YuQing-Ding/IPTV-Editor/internal/probe"
)

// Server wires the channel list, the probe pool and the project store
// behind the HTTP API.
type Server struct {
	holder *config.Holder
	list   *editor.List
	pool   *probe.Pool
	deb    *probe.Debouncer
	i18n   *i18n.Manager
	logger zerolog.Logger

	// ui carries opaque client state through project save/load
	uiMu sync.Mutex
	ui   json.RawMessage

	reloads    chan config.Config
	reloadDone chan struct{}
	reloadWG   sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
}

// New assembles a Server from the given config holder. The probe pool is
// created but not started; call Start before serving and Stop on
// shutdown.
func New(holder *config.Holder) (*Server, error) {
	cfg := holder.Get()

	mgr, err := i18n.New(filepath.Join(cfg.DataDir, ".iptv_editor_lang"))
	if err != nil {
		return nil, err
	}
	if cfg.Language != "" {
		mgr.SetLanguage(cfg.Language)
	}

	s := &Server{
		holder:     holder,
		list:       editor.NewList(),
		i18n:       mgr,
		logger:     log.WithComponent("api"),
		reloads:    make(chan config.Config, 1),
		reloadDone: make(chan struct{}),
	}
	s.deb = probe.NewDebouncer(cfg.DebounceDelay)
	s.pool = probe.NewPool(probe.NewChecker(), probe.PoolConfig{
		Workers:       cfg.ProbeWorkers,
		QueueSize:     cfg.ProbeQueueSize,
		StreamTimeout: cfg.StreamTimeout,
		LogoTimeout:   cfg.LogoTimeout,
		RPS:           cfg.ProbeRPS,
	}, s.applyCompletion)

	return s, nil
}

// Start launches the probe workers and subscribes to config reloads.
func (s *Server) Start() {
	s.pool.Start()
	s.startOnce.Do(func() {
		s.holder.RegisterListener(s.reloads)
		s.reloadWG.Add(1)
		go s.reloadLoop()
	})
}

// Stop drains the probe pool and cancels pending debounce timers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.reloadDone) })
	s.reloadWG.Wait()
	s.deb.Stop()
	s.pool.Stop()
}

// List exposes the channel list, used by the CLI subcommands.
func (s *Server) List() *editor.List {
	return s.list
}

func (s *Server) reloadLoop() {
	defer s.reloadWG.Done()
	prev := s.holder.Get()
	for {
		select {
		case <-s.reloadDone:
			return
		case cfg := <-s.reloads:
			s.applyReload(prev, cfg)
			prev = cfg
		}
	}
}

// applyReload pushes hot-applicable settings from a config reload into the
// running components. Everything else is captured at startup and needs a
// restart.
func (s *Server) applyReload(old, cfg config.Config) {
	if cfg.ProbeRPS != old.ProbeRPS {
		s.pool.SetRPS(cfg.ProbeRPS)
	}
	if cfg.LogLevel != old.LogLevel {
		log.Configure(log.Config{Level: cfg.LogLevel})
	}
	if cfg.Language != "" && cfg.Language != old.Language {
		if !s.i18n.SetLanguage(cfg.Language) {
			s.logger.Warn().
				Str("event", "config.unknown_language").
				Str("language", cfg.Language).
				Msg("reloaded config names an unknown language")
		}
	}
	if cfg.Listen != old.Listen ||
		cfg.ProbeWorkers != old.ProbeWorkers ||
		cfg.ProbeQueueSize != old.ProbeQueueSize ||
		cfg.StreamTimeout != old.StreamTimeout ||
		cfg.LogoTimeout != old.LogoTimeout ||
		cfg.RateLimitRPM != old.RateLimitRPM {
		s.logger.Warn().
			Str("event", "config.restart_required").
			Msg("listen, probe pool and rate limit changes take effect after restart")
	}
}

func (s *Server) applyCompletion(c probe.Completion) {
	switch c.Kind {
	case probe.KindStream:
		if !s.list.ApplyStream(c.Key, c.Stream) {
			s.logger.Debug().
				Str("event", "probe.stale_completion").
				Str("row", c.Key).
				Msg("dropped stream result for vanished row")
		}
	case probe.KindLogo:
		if !s.list.ApplyLogo(c.Key, c.Logo) {
			s.logger.Debug().
				Str("event", "probe.stale_completion").
				Str("row", c.Key).
				Msg("dropped logo result for vanished row")
		}
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() chi.Router {
	cfg := s.holder.Get()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(log.Middleware())

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/channels", s.handleListChannels)
		r.Post("/channels", s.handleAddChannel)
		r.Put("/channels/{id}", s.handleUpdateChannel)
		r.Post("/channels/delete", s.handleDeleteChannels)
		r.Post("/channels/move", s.handleMoveChannels)
		r.Post("/channels/move-edge", s.handleMoveToEdge)
		r.Post("/channels/autoname", s.handleAutoName)

		r.Post("/import/bulk", s.handleImportBulk)
		r.Post("/import/m3u", s.handleImportM3U)
		r.Get("/export.m3u", s.handleExportM3U)

		r.Get("/project", s.handleGetProject)
		r.Post("/project/save", s.handleSaveProject)
		r.Post("/project/open", s.handleOpenProject)
		r.Get("/project/download", s.handleDownloadProject)
		r.Post("/project/upload", s.handleUploadProject)

		r.Get("/languages", s.handleListLanguages)
		r.Post("/language", s.handleSetLanguage)

		// probe dispatch fans out real network traffic, keep it throttled
		r.Group(func(r chi.Router) {
			if cfg.RateLimitRPM > 0 {
				r.Use(httprate.Limit(
					cfg.RateLimitRPM,
					time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(rateLimitExceeded),
				))
			}
			r.Post("/check/stream", s.handleCheckStream)
			r.Post("/check/logo", s.handleCheckLogo)
		})
	})

	return r
}

func rateLimitExceeded(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"channels": s.list.Len(),
		"dirty":    s.list.Dirty(),
	})
}

// setUI stores the opaque client UI state carried in project files.
func (s *Server) setUI(ui json.RawMessage) {
	s.uiMu.Lock()
	s.ui = ui
	s.uiMu.Unlock()
}

func (s *Server) getUI() json.RawMessage {
	s.uiMu.Lock()
	defer s.uiMu.Unlock()
	return s.ui
}
