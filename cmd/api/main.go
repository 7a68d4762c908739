package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rp-admin-service/internal/api/http"
	"github.com/spec-kit/rp-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/discord"
	"github.com/spec-kit/rp-admin-service/internal/events"
	"github.com/spec-kit/rp-admin-service/internal/gameserver"
	"github.com/spec-kit/rp-admin-service/internal/observability"
	"github.com/spec-kit/rp-admin-service/internal/persistence"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
	"github.com/spec-kit/rp-admin-service/internal/service"
	"github.com/spec-kit/rp-admin-service/internal/worker"
)

const shutdownGrace = 10 * time.Second

type repositories struct {
	accounts    repository.AccountRepository
	identities  repository.DiscordIdentityRepository
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	changelogs  repository.ChangelogRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), "migrations", logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, cfg.App.Name, logger)
	defer redis.Close()

	repos := newRepositories(pg)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	resolver := auth.NewResolver(repos.accounts, repos.identities)
	authMiddleware := auth.NewAuthMiddleware(tokens, resolver)

	bot, err := discord.NewBot(cfg.Discord)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	var roles discord.RoleChecker
	var messages service.MessageSource
	if bot.Enabled() {
		roles = bot
		messages = bot
	} else {
		logger.Warn("DISCORD_BOT_TOKEN not provided; discord admin checks and channel feeds disabled")
	}
	exchanger := discord.NewExchanger(cfg.Discord, redis, roles, repos.identities, tokens, logger, metrics)

	dispatcher := events.NewInMemoryDispatcher(logger, events.WithAsync())

	authService := service.NewAuthService(cfg.Auth, repos.accounts, tokens, logger)
	if err := authService.EnsureDefaultAdmin(ctx, cfg.Auth.DefaultAdminPassword); err != nil {
		logger.Fatal("failed to bootstrap default admin", zap.Error(err))
	}
	accountService := service.NewAccountService(cfg.Auth, repos.accounts, logger)
	formService := service.NewFormService(repos.forms)
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		FormRepo:       repos.forms,
		SubmissionRepo: repos.submissions,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	changelogService := service.NewChangelogService(repos.changelogs)
	statusService := service.NewStatusService(service.StatusConfig{
		MessagesChannelID: cfg.Discord.MessagesChannelID,
		NewsChannelID:     cfg.Discord.NewsChannelID,
		StatsTTL:          cfg.GameServer.CacheTTL(),
		MessagesTTL:       cfg.Discord.CacheTTL(),
	}, redis, gameserver.NewClient(cfg.GameServer, logger), messages, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification)

	stopWorker := worker.StartNotificationWorker(notificationService, dispatcher, logger, shutdownGrace)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, handlers.HealthDependencies{Postgres: pg, Redis: redis, Discord: cfg.Discord}),
		Auth:           handlers.NewAuthHandler(authService),
		DiscordAuth:    handlers.NewDiscordAuthHandler(exchanger, cfg.App.FrontendURL),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Forms:          handlers.NewFormsHandler(formService),
		Submissions:    handlers.NewSubmissionsHandler(submissionService),
		Changelogs:     handlers.NewChangelogsHandler(changelogService),
		Status:         handlers.NewStatusHandler(statusService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownGrace); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopWorker()
}

func newRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		return repositories{
			accounts:    memory.NewAccountRepository(),
			identities:  memory.NewDiscordIdentityRepository(),
			forms:       memory.NewFormRepository(),
			submissions: memory.NewSubmissionRepository(),
			changelogs:  memory.NewChangelogRepository(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		accounts:    repository.NewAccountRepository(pool),
		identities:  repository.NewDiscordIdentityRepository(pool),
		forms:       repository.NewFormRepository(pool),
		submissions: repository.NewSubmissionRepository(pool),
		changelogs:  repository.NewChangelogRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
