package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-finance-insight/internal/executor/bootstrap"
	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/delivery/consumer"
	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/internal/executor/service"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/postgres"
	"golang-finance-insight/pkg/redis"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the execution service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Execution Service", zap.String("name", cfg.App.Name))

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Creates the stream and consumer group when missing
	taskStream, err := repository.NewRedisTaskStream(ctx, redisClient.Client)
	if err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}

	telegramNotifier, err := bootstrap.NewNotifier(cfg.Telegram, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
	}

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, appLogger, db.DB, redisClient.Client, telegramNotifier)
	if err != nil {
		appLogger.Fatal("Failed to initialize sentiment pipeline", zap.Error(err))
	}

	analysisTaskSvc := service.NewAnalysisTaskService(cfg, appLogger, taskStream, pipeline, telegramNotifier)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, analysisTaskSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Execution service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down execution service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Execution service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "execution-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-executor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing execution-service CLI: %s\n", err)
		os.Exit(1)
	}
}
