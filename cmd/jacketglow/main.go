package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/jacketglow/internal/animator"
	"github.com/example/jacketglow/internal/config"
	"github.com/example/jacketglow/internal/diagnostics"
	"github.com/example/jacketglow/internal/effects"
	"github.com/example/jacketglow/internal/grid"
	"github.com/example/jacketglow/internal/led"
	"github.com/example/jacketglow/internal/poll"
	"github.com/example/jacketglow/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "driver: spi | term | sim (overrides config)")
		effect     = flag.String("effect", "", "initial effect name (overrides config)")
		serverURL  = flag.String("server", "", "jacket server base URL (overrides config)")
		addr       = flag.String("addr", "", "preview/health listen address (overrides config)")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults")
	} else {
		cfg = c
	}

	// ---- Effective params (flags override config where given) ----
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *effect != "" {
		cfg.Effect = *effect
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *simOnly {
		cfg.Driver = "sim"
	}

	g := grid.Grid{Strips: cfg.Grid.Strips, Rows: cfg.Grid.LedsPerStrip}
	registry := effects.NewRegistry(nil)
	if !registry.Has(cfg.Effect) {
		log.Warn().Str("effect", cfg.Effect).Msg("unknown effect; using fade")
	}

	// ---- Driver selection ----
	var drv led.Driver
	var term *led.Term
	switch cfg.Driver {
	case "spi":
		s, err := led.NewSPI(g.Count(), cfg.SPI.FreqKHz)
		if err != nil {
			log.Warn().Err(err).Msg("SPI init failed; falling back to sim")
			drv = led.NewSim()
		} else {
			if !s.Hardware() {
				log.Warn().Msg("no SPI port found; using console fallback")
			}
			drv = s
		}
	case "term":
		term = led.NewTerm(g, os.Stdout)
		drv = term
	case "sim":
		drv = led.NewSim()
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using sim")
		drv = led.NewSim()
	}

	// ---- Preview server (optional) ----
	var server *ws.Server
	if cfg.Addr != "" {
		server = ws.NewServer(g.Count(), drv)
		server.SetEffect(registry.Get(cfg.Effect).Name())
		drv = server

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", server.HandleFrames)
		mux.HandleFunc("/diag", server.HandleDiag)
		mux.HandleFunc("/health", server.HandleHealth)
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("preview server crashed")
			}
		}()
		defer srv.Close()
	}

	// ---- Poller ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := poll.New(
		cfg.Server.URL,
		cfg.Server.APIKey,
		time.Duration(cfg.Server.PollIntervalS*float64(time.Second)),
		time.Duration(cfg.Server.TimeoutS*float64(time.Second)),
	)
	go poller.Run(ctx)

	// ---- Animator ----
	onSwitch := func(name string) {}
	if server != nil {
		onSwitch = func(name string) {
			server.SetEffect(name)
			server.PushDiag(diagnostics.Diagnostic{
				Severity: diagnostics.Info,
				Code:     "EFFECT.SWITCH",
				Summary:  "Effect switched",
				Detail:   name,
			})
		}
	}
	if term != nil {
		inner := onSwitch
		onSwitch = func(name string) {
			term.SetLabel(name)
			inner(name)
		}
	}

	anim := animator.New(animator.Options{
		Grid:               g,
		Registry:           registry,
		Driver:             drv,
		Updates:            poller.Updates(),
		Effect:             cfg.Effect,
		TransitionDuration: time.Duration(cfg.Timing.TransitionS * float64(time.Second)),
		TransitionFPS:      cfg.Timing.TransitionFPS,
		BufferFPS:          cfg.Timing.BufferFPS,
		EffectChangePolls:  cfg.Timing.EffectChangePolls,
		StartupColor:       cfg.Status.Startup.Colour(),
		NetworkErrorColor:  cfg.Status.NetworkError.Colour(),
		OnEffectChange:     onSwitch,
	})
	if term != nil {
		term.SetLabel(anim.Effect())
	}
	go anim.Run(ctx)

	log.Info().
		Int("strips", g.Strips).
		Int("rows", g.Rows).
		Str("driver", cfg.Driver).
		Str("effect", anim.Effect()).
		Str("server", cfg.Server.URL).
		Msg("jacketglow running")

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")
	cancel()
	if err := drv.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}
