package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/companies/internal/company/auth"
	"github.com/gartstein/companies/internal/company/config"
	"github.com/gartstein/companies/internal/company/controller"
	"github.com/gartstein/companies/internal/company/db"
	"github.com/gartstein/companies/internal/company/events"
	"github.com/gartstein/companies/internal/company/handlers"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if logger, err = cfg.Logger(); err != nil {
		initLogger().Fatal("failed to build logger", zap.Error(err))
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := db.NewRepository(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	companySvc := controller.NewCompanyService(repo, producer, logger)
	companyHandler := handlers.NewCompanyHandler(companySvc, logger)

	// Auth runs first so the call log carries the verified caller.
	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret, logger)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.ChainUnaryInterceptor(
		authInterceptor.Unary(),
		handlers.LoggingInterceptor(logger),
	))
	server.RegisterGRPCHandler(companyHandler)

	if err := server.RegisterHTTPGateway(companyHandler, cfg.JWTSecret); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger initializes a Zap production logger used until the configured one is built.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure, then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
