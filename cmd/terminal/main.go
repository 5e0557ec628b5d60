package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/omnipos-pos-service/config"
	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/pkg/broker"
	"github.com/fekuna/omnipos-pos-service/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/pkg/i18n"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/middleware"
	"github.com/fekuna/omnipos-pos-service/pkg/postgres"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"

	catH "github.com/fekuna/omnipos-pos-service/internal/catalog/handler"
	catListenerPkg "github.com/fekuna/omnipos-pos-service/internal/catalog/listener"
	catRepoPkg "github.com/fekuna/omnipos-pos-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-pos-service/internal/catalog/usecase"

	orderRepoPkg "github.com/fekuna/omnipos-pos-service/internal/order/repository"

	"github.com/fekuna/omnipos-pos-service/internal/session"

	setH "github.com/fekuna/omnipos-pos-service/internal/settings/handler"
	setRepoPkg "github.com/fekuna/omnipos-pos-service/internal/settings/repository"
	setUCPkg "github.com/fekuna/omnipos-pos-service/internal/settings/usecase"

	termH "github.com/fekuna/omnipos-pos-service/internal/terminal/handler"
	termUCPkg "github.com/fekuna/omnipos-pos-service/internal/terminal/usecase"
)

const serviceName = "omnipos-pos-service"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	i18n.Init()
	if path := os.Getenv("I18N_EXTRA_LOCALE"); path != "" {
		if err := i18n.Load(path); err != nil {
			log.Printf("Failed to load extra locale %s: %v", path, err)
		}
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		ServiceName:       serviceName,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 4.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(cfg.Metrics.Prefix, registry)

	// 6. Initialize Store API Client
	storeClient := restclient.New(&restclient.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, auth.GetToken)
	appLogger.Info("Store API configured", zap.String("base_url", cfg.Upstream.BaseURL))

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewRESTRepository(storeClient, appMetrics)
	orderRepo := orderRepoPkg.NewRESTRepository(storeClient, appMetrics)
	setRepo := setRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, cfg.POS.CatalogCacheTTL, appMetrics, appLogger)
	setUC := setUCPkg.NewSettingsUseCase(setRepo, appLogger)
	termUC := termUCPkg.NewTerminalUseCase(catUC, orderRepo, setUC, termUCPkg.Options{
		ScanCooldown:        cfg.POS.ScanCooldown,
		ExpiringWindowDays:  cfg.POS.ExpiringWindowDays,
		FreshCategoryParity: cfg.POS.FreshCategoryParity,
	}, appMetrics, appLogger)
	sessions := session.NewManager(redisClient, cfg.JWT.SecretKey, appLogger)

	// 8.5 Initialize Listeners
	stockListener := catListenerPkg.NewStockListener(kafkaConsumer, catUC, appLogger)

	// Start Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stockListener.Start(ctx)

	// 9. Initialize Handlers
	catHandler := catH.NewCatalogHandler(catUC, appLogger)
	setHandler := setH.NewSettingsHandler(setUC, appLogger)
	termHandler := termH.NewTerminalHandler(termUC, sessions, appLogger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(appLogger)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID(appLogger))
	e.Use(middleware.Metrics(appMetrics))
	e.Use(middleware.AccessLog(appLogger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")
	secured := api.Group("", termH.RequireTerminal(), termH.RequireSession(sessions))
	termHandler.Register(api, secured)
	catHandler.Register(secured)
	setHandler.Register(secured)

	// 10. Start HTTP Server
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := e.Start(cfg.Server.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 11. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()

	// Register Services
	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
