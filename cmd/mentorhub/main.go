package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/franeklasinski/ai-mentors-llms/internal/api"
	"github.com/franeklasinski/ai-mentors-llms/internal/app"
	"github.com/franeklasinski/ai-mentors-llms/internal/capture"
	"github.com/franeklasinski/ai-mentors-llms/internal/config"
	"github.com/franeklasinski/ai-mentors-llms/internal/ics"
	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
	"github.com/franeklasinski/ai-mentors-llms/internal/metrics"
	"github.com/franeklasinski/ai-mentors-llms/internal/notify"
	"github.com/franeklasinski/ai-mentors-llms/internal/web"
)

const version = "0.3.0"

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	snapshot   bool
	debug      bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	level := appLog.ParseLevel(conf.LogLevel)
	if flags.debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)
	if flags.once {
		// stdout carries the rendered grid
		appLog.SetOutput(os.Stderr)
	}

	appLog.Info("mentorhub starting", "version", version)
	appLog.Info("effective config",
		"listen", conf.Listen,
		"api", conf.APIBaseURL,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"upcoming_days", conf.UpcomingDays,
		"ics_count", len(conf.ICS),
		"once", flags.once,
		"snapshot", flags.snapshot,
	)

	loc, err := conf.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err)
	}

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

	rec := metrics.New()
	client := api.New(conf.APIBaseURL, api.WithTimeout(conf.RequestTimeout), api.WithMetrics(rec))

	calendarPage := app.NewCalendarPage(client, app.CalendarOptions{
		Location:     loc,
		UpcomingDays: conf.UpcomingDays,
		OverflowCap:  conf.MonthOverflowCap,
		Overlay:      newOverlay(conf, loc),
		Notifier:     notify.New(conf.NotificationTTL, notify.WithReplace(), notify.WithMetrics(rec)),
		Metrics:      rec,
	})
	taskPage := app.NewTaskPage(client, nil, rec, nil)
	notePage := app.NewNotePage(client, nil, rec, nil)

	refresher := app.NewRefresher(conf.RefreshCron, loc, conf.RequestTimeout,
		app.Job{Name: "events", Loader: calendarPage},
		app.Job{Name: "tasks", Loader: taskPage},
		app.Job{Name: "notes", Loader: notePage},
	)
	if err := refresher.RefreshNow(ctx); err != nil && flags.once {
		os.Exit(1)
	}

	if flags.once {
		if err := printCalendar(os.Stdout, calendarPage.View()); err != nil {
			appLog.Error("print failed", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(conf, web.Pages{Calendar: calendarPage, Tasks: taskPage, Notes: notePage}, rec)

	if flags.snapshot {
		os.Exit(runSnapshot(ctx, conf, server))
	}

	if conf.RefreshEnabled() {
		if err := refresher.Start(ctx); err != nil {
			appLog.Error("refresher not started", err)
		}
		defer refresher.Stop()
	}

	if err := server.Run(ctx); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}
	appLog.Info("mentorhub exiting")
}

// runSnapshot serves the page in the background just long enough to
// capture it.
func runSnapshot(ctx context.Context, conf *config.Config, server *web.Server) int {
	ln, err := net.Listen("tcp", conf.Listen)
	if err != nil {
		appLog.Error("snapshot listener failed", err, "listen", conf.Listen)
		return 1
	}

	srvCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- server.Serve(srvCtx, ln) }()
	defer func() {
		stop()
		<-done
	}()

	opts := capture.OptionsFrom(conf)
	if conf.Snapshot.URL == "" {
		opts.URL = "http://" + ln.Addr().String() + "/calendar"
	}
	if err := capture.CaptureCalendarPNG(ctx, opts); err != nil {
		appLog.Error("snapshot failed", err, "url", opts.URL)
		return 1
	}
	appLog.Info("snapshot written", "path", opts.OutputPath)
	return 0
}

func newOverlay(conf *config.Config, loc *time.Location) *ics.Overlay {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, c := range conf.ICS {
		if c.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: c.ID, Name: c.Name, URL: c.URL})
	}
	if len(sources) == 0 {
		return nil
	}
	return ics.NewOverlay(ics.NewFetcher(conf.ICSCacheDir, conf.RequestTimeout), sources, loc)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./mentorhub.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Load once, print the month grid and upcoming events, and exit")
	flag.BoolVar(&cfg.snapshot, "snapshot", false, "Render the calendar page to PNG and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
