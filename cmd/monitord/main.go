package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fers4t/kg-uptime-monitor/internal/config"
	"github.com/fers4t/kg-uptime-monitor/internal/httpapi"
	"github.com/fers4t/kg-uptime-monitor/internal/logging"
	"github.com/fers4t/kg-uptime-monitor/internal/notify"
	"github.com/fers4t/kg-uptime-monitor/internal/probe"
	"github.com/fers4t/kg-uptime-monitor/internal/repo/memory"
	"github.com/fers4t/kg-uptime-monitor/internal/scheduler"
	"github.com/fers4t/kg-uptime-monitor/internal/tracker"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.TargetErrors != nil {
		logger.Warn("config_targets_skipped", zap.Error(cfg.TargetErrors))
	}

	var channels notify.Multi
	if tg := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID); tg != nil {
		channels = append(channels, tg)
	}
	if sl := notify.NewSlack(cfg.SlackWebhookURL); sl != nil {
		channels = append(channels, sl)
	}
	var notifier notify.Notifier
	if len(channels) > 0 {
		notifier = channels
	} else {
		logger.Warn("no_notification_channel_configured")
	}

	store := memory.New()
	trk := tracker.New(cfg.Targets)
	disp := notify.NewDispatcher(logger, notifier, cfg.Timeout)
	sched := scheduler.New(
		logger,
		cfg.Targets,
		probe.NewHTTPChecker(cfg.Timeout),
		trk,
		disp,
		store,
		cfg.CheckInterval,
		cfg.Timeout,
		cfg.MaxInFlight,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()

	api := httpapi.NewServer(logger, store)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.APIKeys, cfg.APIRPM, cfg.APIBurst),
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("monitor_started",
		zap.String("addr", cfg.Addr),
		zap.Int("targets", len(cfg.Targets)),
		zap.Duration("check_interval", cfg.CheckInterval),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api_listen_error", zap.Error(err))
		stop() // bring the scheduler down too
	}

	<-schedDone
	logger.Info("monitor_stopped")
}
