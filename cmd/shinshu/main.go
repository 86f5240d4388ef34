package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shinshu-solutions/shinshu-web/cmd/shinshu/cli"
	"github.com/shinshu-solutions/shinshu-web/internal/app"
	"github.com/shinshu-solutions/shinshu-web/internal/assets"
	"github.com/shinshu-solutions/shinshu-web/internal/auth"
	"github.com/shinshu-solutions/shinshu-web/internal/content"
	"github.com/shinshu-solutions/shinshu-web/internal/messages"
	"github.com/shinshu-solutions/shinshu-web/internal/observability"
	"github.com/shinshu-solutions/shinshu-web/internal/platform/cache"
	"github.com/shinshu-solutions/shinshu-web/internal/platform/db"
	"github.com/shinshu-solutions/shinshu-web/internal/platform/storage"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
	"github.com/shinshu-solutions/shinshu-web/internal/users"
	"github.com/shinshu-solutions/shinshu-web/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed":
			runSeed(os.Args[2:])
			return
		case "jobs":
			runJobs(os.Args[2:])
			return
		}
	}

	runServer()
}

func runServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store, err := storage.New(ctx, storage.Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		logger.Error("connect object storage", slog.Any("error", err))
		os.Exit(1)
	}

	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	sessionManager := auth.NewSessionManager(authRepo, cfg.SessionTTL)
	authService := auth.NewService(authRepo, logger)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, cfg.SessionCookie, cfg.IsProduction())

	assetGateway := assets.NewGateway(store)
	assetsHandler := assets.NewHandler(logger, assetGateway, store)

	contentRepo := content.NewRepository(dbpool)
	contentCache := content.NewCache(redisClient, 5*time.Minute)
	contentService := content.NewService(contentRepo, contentCache)
	contentHandler := content.NewHandler(logger, contentService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewContactNotifier(jobsClient, cfg.ContactTo)

	messagesRepo := messages.NewRepository(dbpool)
	messagesService := messages.NewService(messagesRepo, notifier, logger)
	messagesHandler := messages.NewHandler(logger, messagesService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		AuthHandler:     authHandler,
		AssetsHandler:   assetsHandler,
		ContentHandler:  contentHandler,
		MessagesHandler: messagesHandler,
		UsersHandler:    usersHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	name := fs.String("name", "", "display name (defaults to email)")
	role := fs.String("role", "admin", "account role")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := cli.NewSeedCLI(dbpool).EnsureUser(ctx, *email, *password, *name, *role); err != nil {
		logger.Error("seed user", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("user seeded", slog.String("email", *email))
}

func runJobs(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: shinshu jobs <trigger NAME|stats>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		logger.Error("init jobs cli", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
	}()

	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: shinshu jobs trigger NAME")
			os.Exit(2)
		}
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			logger.Error("trigger job", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("job enqueued", slog.String("id", info.ID), slog.String("type", info.Type))
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			logger.Error("inspect queue", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	default:
		fmt.Fprintln(os.Stderr, "usage: shinshu jobs <trigger NAME|stats>")
		os.Exit(2)
	}
}
