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

	"pujadisplay/internal/auth"
	"pujadisplay/internal/config"
	"pujadisplay/internal/display"
	appLog "pujadisplay/internal/log"
	"pujadisplay/internal/source"
	"pujadisplay/internal/store"
	"pujadisplay/internal/web"
)

// flagConfig holds CLI flag values; anything set here overrides the file.
type flagConfig struct {
	configPath string
	listen     string
	logLevel   string
	once       bool
}

func main() {
	appLog.Info("pujadisplay starting", "version", "0.1.0")

	flags := parseFlags()
	appLog.SetLevel(appLog.ParseLevel(flags.logLevel))

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("invalid timezone, falling back to local", err, "timezone", conf.Timezone)
		loc = time.Local
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", loc.String(),
		"store_backend", conf.Store.Backend,
		"source_mode", conf.Source.Mode,
		"poll_seconds", conf.PollSeconds,
		"rotate_seconds", conf.RotateSeconds,
		"cards_per_slide", conf.CardsPerSlide,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	st, err := openStore(conf)
	if err != nil {
		appLog.Error("failed to open store", err, "backend", conf.Store.Backend)
		os.Exit(1)
	}
	defer st.Close()

	authSvc, err := auth.New(st, conf.Admin.Username, conf.Admin.Password,
		time.Duration(conf.SessionTTLHours)*time.Hour)
	if err != nil {
		appLog.Error("failed to initialize auth", err)
		os.Exit(1)
	}

	var src source.Source
	switch conf.Source.Mode {
	case "http":
		appLog.Info("using remote snapshot source", "url", conf.Source.URL)
		src = source.FromURL(conf.Source.URL)
	default:
		src = source.FromStore(st)
	}

	sched := display.NewCronScheduler(loc)
	defer sched.Close()

	ctrl := display.New(src, sched, nil, display.Options{
		PollInterval:   time.Duration(conf.PollSeconds) * time.Second,
		RotateInterval: time.Duration(conf.RotateSeconds) * time.Second,
		CardsPerSlide:  conf.CardsPerSlide,
	})

	if flags.once {
		// Single fetch+render cycle, then exit. Useful for cron-driven
		// setups and smoke checks.
		ctrl.Refresh()
		appLog.Info("single cycle complete, exiting")
		return
	}

	if err := ctrl.Start(ctx); err != nil {
		appLog.Error("failed to start display controller", err)
		os.Exit(1)
	}
	defer ctrl.Stop()

	server := web.NewServer(conf, st, authSvc, ctrl)
	httpSrv := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("http server listening", "addr", conf.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http server failed", err)
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http server shutdown failed", err)
	}

	appLog.Info("pujadisplay exiting")
}

// openStore opens the configured store backend.
func openStore(conf *config.Config) (store.Store, error) {
	switch conf.Store.Backend {
	case "sqlite":
		return store.OpenSQLite(conf.Store.SQLitePath)
	default:
		return store.OpenFile(conf.Store.Dir)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+render cycle and exit")

	flag.Parse()

	return cfg
}
