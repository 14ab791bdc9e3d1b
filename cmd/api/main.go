package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hr-admin-api/internal/auth"
	"github.com/hr-admin-api/internal/config"
	"github.com/hr-admin-api/internal/database"
	"github.com/hr-admin-api/internal/handler"
	"github.com/hr-admin-api/internal/middleware"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Подключение к БД
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// Запуск миграций
	if err := database.Migrate(sqlDB, "up"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Инициализация репозиториев
	tx := repository.NewTransactor(db)
	deptRepo := repository.NewDepartmentRepository(db)
	desigRepo := repository.NewDesignationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	posRepo := repository.NewPositionRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	jobRepo := repository.NewJobPositionRepository(db)
	candRepo := repository.NewCandidateRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	ivRepo := repository.NewInterviewRepository(db)
	logRepo := repository.NewStatusLogRepository(db)

	// Инициализация сервисов
	permService := service.NewPermissionService(orgRepo, logger)
	orgService := service.NewOrganizationService(orgRepo)
	logService := service.NewStatusLogService(logRepo)
	validator := service.NewPositionValidator(posRepo, empRepo, logger)
	posService := service.NewPositionService(tx, posRepo, deptRepo, desigRepo, empRepo, validator)
	empService := service.NewEmployeeService(tx, empRepo, deptRepo, desigRepo, orgRepo, validator, logger)
	deptService := service.NewDepartmentService(tx, deptRepo, empRepo, posRepo, desigRepo)
	syncService := service.NewStatusSyncService(tx, appRepo, candRepo, ivRepo, logService, cfg.Sync.SystemUserID, logger)
	recruitmentService := service.NewRecruitmentService(tx, jobRepo, candRepo, appRepo, ivRepo, syncService)

	// Инициализация хендлеров
	handlers := handler.Handlers{
		Department:  handler.NewDepartmentHandler(deptService, permService, logger),
		Position:    handler.NewPositionHandler(posService, permService, logger),
		Employee:    handler.NewEmployeeHandler(empService, permService, logger),
		Recruitment: handler.NewRecruitmentHandler(recruitmentService, permService, logger),
		StatusLog:   handler.NewStatusLogHandler(logService, permService, logger),
		Admin:       handler.NewAdminHandler(orgService, permService, logger),
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	limiter, redisClient := newLimiter(cfg.RateLimit, logger)

	// Настройка роутера
	router := handler.NewRouter(cfg, handlers, permService, tokens, limiter, logger)
	httpHandler := router.Setup()

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("failed to close redis client", slog.Any("error", err))
			}
		}
		close(done)
	}()

	logger.Info("server is starting", slog.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return fmt.Errorf("listen on port %s: %w", cfg.Server.Port, err)
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// newLimiter выбирает хранилище Redis, если оно настроено и доступно, иначе память процесса.
// Возвращённый клиент Redis закрывается при остановке сервера.
func newLimiter(cfg config.RateLimitConfig, logger *slog.Logger) (middleware.Limiter, *redis.Client) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.RedisURL == "" {
		return middleware.NewMemoryLimiter(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, using in-memory rate limiter", slog.Any("error", err))
		return middleware.NewMemoryLimiter(), nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", slog.Any("error", err))
		_ = client.Close()
		return middleware.NewMemoryLimiter(), nil
	}

	limiter, err := middleware.NewRedisLimiter(client, logger)
	if err != nil {
		logger.Warn("failed to create redis rate limit store, using in-memory rate limiter", slog.Any("error", err))
		_ = client.Close()
		return middleware.NewMemoryLimiter(), nil
	}
	return limiter, client
}
