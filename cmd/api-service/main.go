package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-finance-insight/internal/api/config"
	delivery "golang-finance-insight/internal/api/delivery/http"
	_ "golang-finance-insight/internal/api/docs"
	"golang-finance-insight/internal/api/repository"
	"golang-finance-insight/internal/api/service"
	"golang-finance-insight/internal/dispatcher"
	"golang-finance-insight/internal/executor/bootstrap"
	executorconfig "golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/recommender"
	catalogrepo "golang-finance-insight/internal/recommender/repository"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/postgres"
	"golang-finance-insight/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	subjectRepo := repository.NewSubjectRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	joinedRepo := repository.NewJoinedProductRepository(db.DB)
	catalog := catalogrepo.NewCachedCatalog(catalogrepo.NewCatalogRepository(db.DB), cfg.Catalog.CacheTTL)

	// Analyses go to the stream unless configured to run inline
	var taskDispatcher dispatcher.TaskDispatcher
	if cfg.Analysis.SyncAnalysis {
		executorCfg, err := executorconfig.Load(cfg.Analysis.ExecutorConfig)
		if err != nil {
			appLogger.Fatal("Failed to load executor configuration", logger.ErrorField(err))
		}
		notifier, err := bootstrap.NewNotifier(executorCfg.Telegram, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		pipeline, err := bootstrap.NewPipeline(ctx, executorCfg, appLogger, db.DB, redisClient.Client, notifier)
		if err != nil {
			appLogger.Fatal("Failed to initialize sentiment pipeline", logger.ErrorField(err))
		}
		taskDispatcher = dispatcher.FuncDispatcher(func(ctx context.Context, task dispatcher.AnalysisTask) error {
			return pipeline.Run(ctx, task.AnalysisID)
		})
		appLogger.Info("Analyses run inline")
	} else {
		taskDispatcher = dispatcher.NewRedisDispatcher(redisClient.Client, redisClient.StreamMaxLen, appLogger)
	}

	// Initialize services
	engine := recommender.NewEngine(catalog, cfg.Recommendation, appLogger.Named("recommender"))
	recommendationSvc := service.NewRecommendationService(userRepo, engine, appLogger)
	joinSvc := service.NewProductJoinService(userRepo, joinedRepo, []service.JoinHook{service.NewLogJoinHook(appLogger)}, appLogger)
	subjectSvc := service.NewSubjectService(cfg.Analysis, subjectRepo, taskDispatcher, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	subjectHandler := delivery.NewSubjectHandler(subjectSvc, cfg.Analysis.SyncAnalysis, appLogger)
	subjectHandler.RegisterRoutes(apiV1.Group("/subjects"))

	userHandler := delivery.NewUserHandler(recommendationSvc, joinSvc, appLogger)
	userHandler.RegisterRoutes(apiV1.Group("/users"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Finance Insight API
// @version 1.0
// @description Product recommendations and community sentiment analysis.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
