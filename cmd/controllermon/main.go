package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kanhucharan/controllermon/internal/config"
	"github.com/kanhucharan/controllermon/internal/history"
	"github.com/kanhucharan/controllermon/internal/httpapi"
	"github.com/kanhucharan/controllermon/internal/logging"
	"github.com/kanhucharan/controllermon/internal/monitor"
	"github.com/kanhucharan/controllermon/internal/notify"
	"github.com/kanhucharan/controllermon/internal/probe"
	"github.com/kanhucharan/controllermon/internal/status"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML configuration file")
		controllers = flag.String("controllers", "", "path to text file with one controller per line")
		interval    = flag.Duration("interval", 0, "poll interval (overrides config)")
		threshold   = flag.Duration("threshold", 0, "offline duration before alerting (overrides config)")
		logDir      = flag.String("log", "", "log directory (overrides config)")
		addr        = flag.String("addr", "", "status API bind address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	if *controllers != "" {
		hosts, err := config.ReadControllerList(*controllers)
		if err != nil {
			log.Fatalf("configuration: %v", err)
		}
		cfg.Controllers = append(cfg.Controllers, hosts...)
	}
	if *interval > 0 {
		cfg.PollInterval = *interval
	}
	if *threshold > 0 {
		cfg.AlertThreshold = *threshold
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		recorder   history.Recorder
		histSource httpapi.HistorySource
	)
	if cfg.DatabaseURL != "" {
		pg, err := history.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("history_store", zap.Error(err))
		}
		defer pg.Close()
		recorder = pg
		logger.Info("history_store", zap.String("kind", "postgres"))
	} else {
		mem := history.NewMemory()
		recorder = mem
		histSource = mem
		logger.Info("history_store", zap.String("kind", "memory"))
	}

	table := status.NewTable()
	mon := monitor.New(
		logger,
		probe.NewPinger(),
		notify.NewEmail(cfg.Email),
		recorder,
		table,
		cfg.Controllers,
		monitor.Config{
			PollInterval:   cfg.PollInterval,
			AlertThreshold: cfg.AlertThreshold,
			ProbeTimeout:   cfg.ProbeTimeout,
			Concurrency:    cfg.Concurrency,
		},
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()

	api := httpapi.NewServer(logger, table, histSource, cfg.PublicRPM, cfg.PublicBurst)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api_serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown", zap.Error(err))
	}

	wg.Wait()
	logger.Info("stopped")
}
