package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/careflow/api/handler"
	"github.com/fastygo/careflow/internal/config"
	"github.com/fastygo/careflow/internal/infrastructure/journal"
	"github.com/fastygo/careflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/careflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/careflow/internal/infrastructure/redis"
	"github.com/fastygo/careflow/internal/middleware"
	"github.com/fastygo/careflow/internal/router"
	"github.com/fastygo/careflow/internal/services"
	"github.com/fastygo/careflow/internal/services/lifecycle"
	"github.com/fastygo/careflow/pkg/httpcontext"
	"github.com/fastygo/careflow/pkg/logger"
	"github.com/fastygo/careflow/pkg/password"
	"github.com/fastygo/careflow/pkg/token"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/repository/memory"
	"github.com/fastygo/careflow/repository/postgres"
	redisRepo "github.com/fastygo/careflow/repository/redis"
	authUC "github.com/fastygo/careflow/usecase/auth"
	commentUC "github.com/fastygo/careflow/usecase/comment"
	dashboardUC "github.com/fastygo/careflow/usecase/dashboard"
	tagUC "github.com/fastygo/careflow/usecase/tag"
	taskUC "github.com/fastygo/careflow/usecase/task"
)

type repositories struct {
	users     repository.UserRepository
	tasks     repository.TaskRepository
	tags      repository.TagRepository
	comments  repository.CommentRepository
	dashboard repository.DashboardRepository
	attempts  repository.AttemptRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	var probes []monitor.Probe
	var repos repositories

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		zapLogger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			users:     memory.NewUserRepository(store),
			tasks:     memory.NewTaskRepository(store),
			tags:      memory.NewTagRepository(store),
			comments:  memory.NewCommentRepository(store),
			dashboard: memory.NewDashboardRepository(store),
			attempts:  memory.NewAttemptRepository(store, cfg.Auth.LockoutWindow),
		}
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		probes = append(probes, monitor.PostgresProbe(pool))

		repos = repositories{
			users:     postgres.NewUserRepository(pool),
			tasks:     postgres.NewTaskRepository(pool),
			tags:      postgres.NewTagRepository(pool),
			comments:  postgres.NewCommentRepository(pool),
			dashboard: postgres.NewDashboardRepository(pool),
			attempts:  memory.NewAttemptRepository(memory.NewStore(), cfg.Auth.LockoutWindow),
		}
	}

	if cfg.Redis.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		probes = append(probes, monitor.RedisProbe(redisClient))
		repos.attempts = redisRepo.NewAttemptRepository(redisClient, cfg.Auth.LockoutWindow)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o755); err != nil {
		zapLogger.Fatal("failed to prepare journal directory", zap.Error(err))
	}
	activity, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		zapLogger.Fatal("failed to open activity journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return activity.Close()
	})
	probes = append(probes, monitor.JournalProbe(activity))

	retention, err := services.NewJournalRetention(activity, zapLogger, services.RetentionConfig{
		Interval:  cfg.Journal.CleanupInterval,
		Retention: cfg.JournalRetention(),
	})
	if err != nil {
		zapLogger.Fatal("failed to schedule journal retention", zap.Error(err))
	}
	retention.Start()
	manager.Register("journal_retention", func(ctx context.Context) error {
		retention.Stop(ctx)
		return nil
	})

	mon := monitor.New(10*time.Second, zapLogger, probes...)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	tokens := token.NewManager(cfg.JWTSecret(), cfg.JWT.Issuer, cfg.JWT.TTL)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	authUseCase := authUC.New(repos.users, repos.attempts, hasher, tokens, activity,
		authUC.Limits{MaxFailures: cfg.Auth.MaxFailedAttempts}, zapLogger)
	taskUseCase := taskUC.New(repos.tasks, activity, zapLogger)
	tagUseCase := tagUC.New(repos.tags, repos.tasks, activity, zapLogger)
	commentUseCase := commentUC.New(repos.comments, repos.tasks, activity, zapLogger)
	dashboardUseCase := dashboardUC.New(repos.dashboard, repos.tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Tag:       apiHandler.NewTagHandler(tagUseCase, ctxAdapter, zapLogger),
		Comment:   apiHandler.NewCommentHandler(commentUseCase, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Activity:  apiHandler.NewActivityHandler(activity, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(tokens, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      middleware.CORS(cfg.CORS.AllowedOrigins)(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.StorageDriver),
			zap.Bool("redis", cfg.Redis.Enabled))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	if err := manager.Wait(appCtx); err != nil {
		zapLogger.Error("server stopped unexpectedly", zap.Error(err))
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
