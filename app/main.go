package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/GetTogetherComm/GetTogether/internal/commands"
	"github.com/GetTogetherComm/GetTogether/internal/config"
	"github.com/GetTogetherComm/GetTogether/internal/federation"
	"github.com/GetTogetherComm/GetTogether/internal/geoip"
	"github.com/GetTogetherComm/GetTogether/internal/geonames"
	"github.com/GetTogetherComm/GetTogether/internal/graceful"
	"github.com/GetTogetherComm/GetTogether/internal/metrics"
	"github.com/GetTogetherComm/GetTogether/internal/notify"
	"github.com/GetTogetherComm/GetTogether/internal/repositories"
	"github.com/GetTogetherComm/GetTogether/internal/search"
	"github.com/GetTogetherComm/GetTogether/internal/series"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/middleware"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/routers"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/handlers/slogpretty"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting gettogether",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	repositoryService := repositories.New(log, cfg)

	registry := prometheus.NewRegistry()
	metricsService := metrics.New(registry)

	indexer := search.NewIndexer(log, repositoryService, cfg.Federation.NodeURL, metricsService)
	notifier := notify.New(log, repositoryService, &notify.LogSender{Log: log}, repositoryService)
	generator := series.NewGenerator(log, repositoryService, repositoryService, indexer, notifier, metricsService)
	importer := federation.NewImporter(log, repositoryService, metricsService)
	loader := geonames.NewLoader(log, repositoryService, repositoryService, repositoryService)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if cmd != "serve" {
		cmds := commands.New(log, repositoryService, indexer, generator, importer, loader)
		runCommand(log, cmds, cmd, args)
		return
	}

	// serve: HTTP surface plus the cron-driven background work.
	syncer := federation.NewSyncer(log, cfg, importer)

	geoCache := geoip.NewCache(cfg.Geo.CacheSize)
	locator := geoip.NewClient(log, cfg.Geo.IPStackAccessKey, geoCache, metricsService)

	eventHandler := handlers.NewEventHandler(
		log,
		repositoryService,
		repositoryService,
		repositoryService,
		repositoryService,
		repositoryService,
		indexer,
		locator,
		cfg.Geo.DebugIP,
	)
	seriesHandler := handlers.NewSeriesHandler(log, repositoryService, repositoryService, repositoryService, repositoryService)
	teamHandler := handlers.NewTeamHandler(log, repositoryService, repositoryService)
	profileHandler := handlers.NewProfileHandler(log, repositoryService)
	searchableHandler := handlers.NewSearchableHandler(log, repositoryService)
	activityPubHandler := handlers.NewActivityPubHandler(log, repositoryService, repositoryService, cfg.Federation.NodeURL)
	feedHandler := handlers.NewFeedHandler(log, repositoryService, cfg.Federation.NodeURL)

	router := routers.NewRouter(
		eventHandler,
		seriesHandler,
		teamHandler,
		profileHandler,
		searchableHandler,
		activityPubHandler,
		feedHandler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		middleware.NewLogger(log),
		middleware.NewAuth(log, cfg.HttpServer.Secret),
	)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)

	scheduler := cron.New()
	mustSchedule(log, scheduler, cfg.Series.SweepSchedule, func() {
		if _, err := generator.SweepDue(context.Background(), time.Now().UTC()); err != nil {
			log.Error("series sweep failed", sl.Err(err))
		}
	})
	mustSchedule(log, scheduler, cfg.Federation.SyncSchedule, syncer.SyncAll)

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		map[string]graceful.Operation{
			"Repository service": func(ctx context.Context) error {
				return repositoryService.Shutdown(ctx)
			},
			"Federation syncer": func(ctx context.Context) error {
				return syncer.Shutdown(ctx)
			},
			"Scheduler": func(ctx context.Context) error {
				scheduler.Stop()
				return nil
			},
			"HTTP server": func(ctx context.Context) error {
				return httpSrv.Shutdown(ctx)
			},
		},
		log,
	)

	go syncer.Start()
	go httpSrv.Listen()
	scheduler.Start()

	<-waitShutdown
}

func runCommand(log *slog.Logger, cmds *commands.Commands, cmd string, args []string) {
	ctx := context.Background()

	var err error
	switch cmd {
	case "import":
		err = withArg(args, func(url string) error { return cmds.Import(ctx, url) })
	case "recreate-searchables":
		err = cmds.RecreateSearchables(ctx)
	case "create-next-in-series":
		err = cmds.CreateNextInSeries(ctx)
	case "load-countries":
		err = withArg(args, func(path string) error { return cmds.LoadCountries(ctx, path) })
	case "load-spr":
		err = withArg(args, func(path string) error { return cmds.LoadSPR(ctx, path) })
	case "load-cities":
		err = withArg(args, func(path string) error { return cmds.LoadCities(ctx, path) })
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Error("command failed", slog.String("command", cmd), sl.Err(err))
		os.Exit(1)
	}
}

func withArg(args []string, fn func(arg string) error) error {
	if len(args) < 1 {
		return fmt.Errorf("missing argument")
	}
	return fn(args[0])
}

func mustSchedule(log *slog.Logger, scheduler *cron.Cron, spec string, fn func()) {
	if _, err := scheduler.AddFunc(spec, fn); err != nil {
		log.Error("invalid cron spec", slog.String("spec", spec), sl.Err(err))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
