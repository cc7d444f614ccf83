package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/ovseenko/linkcut/internal/app"
	"github.com/ovseenko/linkcut/internal/cache"
	"github.com/ovseenko/linkcut/internal/config"
	grpcserver "github.com/ovseenko/linkcut/internal/grpc"
	"github.com/ovseenko/linkcut/internal/grpc/proto"
	"github.com/ovseenko/linkcut/internal/log"
	"github.com/ovseenko/linkcut/internal/middleware"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/ovseenko/linkcut/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// .env опционален, в продакшене настройки приходят из окружения
	_ = godotenv.Load()

	logger := log.NewLogger()
	defer logger.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Выбираем хранилище: PostgreSQL, файловый журнал или память
	var repo repository.Repository
	switch {
	case db != nil:
		repo = repository.NewPostgresRepository(db, logger)
		defer db.Close()
		logger.Info("Using PostgreSQL storage")
	case cfg.FileStoragePath != "":
		repo, err = repository.NewFileRepository(cfg.FileStoragePath, logger)
		if err != nil {
			logger.Fatal("Failed to open file storage", zap.Error(err))
		}
		logger.Info("Using file storage", zap.String("path", cfg.FileStoragePath))
	default:
		repo = repository.NewMemoryRepository()
		logger.Info("Using in-memory storage")
	}

	linkCache := cache.New(cfg.RedisAddr, 24*time.Hour, logger)
	defer linkCache.Close()

	gen := service.NewCodeGenerator(repo, 0)
	svc := service.NewService(repo, gen, linkCache, cfg.BaseURL, cfg.JWTSecret, logger)
	appInstance := app.NewApp(svc, db, logger)

	// Создаём маршрутизатор
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.AuthMiddleware(svc, cfg, logger))

	r.Post("/", appInstance.HandleCreateLink)
	r.Get("/{code}", appInstance.HandleRedirect)
	r.Post("/api/shorten", appInstance.HandleJSONShorten)
	r.Get("/api/expand/{code}", appInstance.HandleJSONExpand)
	r.Get("/api/user/links", appInstance.HandleOwnerLinks)
	r.Get("/ping", appInstance.HandlePing)
	r.Route("/api/internal", func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/stats", appInstance.HandleStats)
	})

	// Запускаем gRPC сервер, если задан адрес
	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcSrv = grpc.NewServer(grpc.ChainUnaryInterceptor(
			grpcserver.LoggingInterceptor(logger),
			grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
			grpcserver.AuthInterceptor(svc, logger),
		))
		proto.RegisterLinkServiceServer(grpcSrv, grpcserver.NewServer(svc, db, logger))

		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatal("Failed to listen gRPC address", zap.Error(err))
		}
		go func() {
			logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(listener); err != nil {
				logger.Error("gRPC server stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: r,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.RunAddr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
}
