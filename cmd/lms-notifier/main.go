package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/config"
	"github.com/Asimsayam/lms-automation-bot/internal/obs"
	"github.com/Asimsayam/lms-automation-bot/internal/portal"
	"github.com/Asimsayam/lms-automation-bot/internal/services/notifier"
	"github.com/Asimsayam/lms-automation-bot/internal/services/scheduler"
)

var version = "dev"

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func wiring(cfg *config.Config, l *zap.Logger) (*notifier.Runner, error) {
	loc := cfg.Location()

	p, err := portal.New(cfg.Portal, l)
	if err != nil {
		return nil, err
	}

	mail := notifier.NewMailer(cfg.SMTP).WithLogger(l)
	ext := notifier.NewExtractor(cfg.Portal.PendingMarker, loc, l)
	disp := &notifier.Dispatcher{Mail: mail, To: cfg.SMTP.To, Log: l}

	return notifier.NewRunner(l, p, ext, disp, systemClock{}, loc), nil
}

func main() {
	var (
		cfgPath string
		daemon  bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to yaml config (optional)")
	flag.BoolVar(&daemon, "daemon", false, "keep running and fire runs on the configured cron specs")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(obs.LogConfig{Level: cfg.LogLevel, App: "lms-notifier", Ver: version})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	zap.ReplaceGlobals(l)

	l.Info("starting",
		zap.String("portal", cfg.Portal.BaseURL),
		zap.String("smtp_addr", cfg.SMTP.Addr),
		zap.Int("tz_offset_hours", cfg.TZOffsetHours),
		zap.Bool("daemon", daemon || cfg.Schedule.Daemon),
	)

	otelCloser, err := obs.SetupOTel(rootCtx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Warn("otel init", zap.Error(err))
	} else {
		defer func() { _ = otelCloser.Shutdown(context.Background()) }()
	}

	run, err := wiring(cfg, l)
	if err != nil {
		l.Fatal("wiring", zap.Error(err))
	}

	if daemon || cfg.Schedule.Daemon {
		ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, l)
		defer func() { _ = ms.Shutdown(context.Background()) }()

		sched := scheduler.New(l, cfg.Schedule.Specs, cfg.Location(), run.RunOnce)
		if err := sched.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			l.Fatal("scheduler", zap.Error(err))
		}
		return
	}

	if err := run.RunOnce(rootCtx); err != nil {
		// Silent failure towards the user: no mail this slot, the next
		// cron invocation retries.
		l.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}
