package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalogsync"
	"github.com/fekuna/omnipos-catalog-sync/internal/database"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/product"
	"github.com/fekuna/omnipos-catalog-sync/internal/search"
	"github.com/fekuna/omnipos-catalog-sync/internal/synclock"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"

	catRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/category/usecase"

	custRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/customer/repository"
	custUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/customer/usecase"

	invRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/inventory/usecase"

	orderRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/order/usecase"

	prodRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/product/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
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

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
	}

	// 4. Initialize Redis, falling back to in-process locks without it
	var locker synclock.Locker = synclock.NewLocalLocker()
	var reports catalogsync.ReportStore = catalogsync.NewMemoryReportStore()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = synclock.NewRedisLocker(redisClient, cfg.Sync.LockTTL)
		reports = catalogsync.NewRedisReportStore(redisClient)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		appLogger.Warn("Redis disabled, sync locks are process-local")
	}

	// 5. Initialize Elasticsearch
	var indexer product.Indexer
	if cfg.Elastic.Enabled {
		esIndexer, err := search.NewProductIndexer(&cfg.Elastic, appLogger)
		if err != nil {
			// Search is optional; products still sync without it.
			appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
		} else if err := esIndexer.EnsureIndex(ctx); err != nil {
			appLogger.Warn("Could not prepare product index", zap.Error(err))
		} else {
			indexer = esIndexer
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Remote store client
	wc := woocommerce.NewClient(&cfg.WooCommerce, appLogger)

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	custRepo := custRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(custRepo, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, wc, cfg.WooCommerce.PageSize, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, invUC, indexer, wc, prodUCPkg.Options{
		PageSize:    cfg.WooCommerce.PageSize,
		StorageType: cfg.Sync.StorageType,
	}, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, custUC, wc, cfg.WooCommerce.PageSize, appLogger)

	// 9. Kafka events and commands
	deps := catalogsync.Deps{
		Categories: catUC,
		Products:   prodUC,
		Orders:     orderUC,
		Locker:     locker,
		Reports:    reports,
	}
	if cfg.Kafka.Enabled {
		publisher := catalogsync.NewKafkaPublisher(catalogsync.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic))
		defer publisher.Close()
		deps.Events = publisher
		appLogger.Info("Connected to Kafka Producer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	coordinator := catalogsync.NewCoordinator(deps, cfg.Sync.RunTimeout, appLogger)

	if cfg.Kafka.Enabled {
		reader := catalogsync.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.CommandTopic, cfg.Kafka.GroupID)
		defer reader.Close()
		listener := catalogsync.NewCommandListener(reader, coordinator, appLogger)
		go listener.Start(ctx)
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.CommandTopic))
	}

	// 10. HTTP API
	verifier, err := auth.NewVerifier(cfg.JWT.SecretKey)
	if err != nil {
		appLogger.Fatal("Invalid JWT configuration", zap.Error(err))
	}
	handler := catalogsync.NewHandler(coordinator, verifier, cfg.JWT.AdminRole, appLogger)

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// 11. gRPC health for the orchestrator
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("catalog-sync", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
