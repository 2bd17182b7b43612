package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitfantasy/assetdesk/internal/config"
	"github.com/bitfantasy/assetdesk/internal/desk/announce"
	"github.com/bitfantasy/assetdesk/internal/desk/cache"
	"github.com/bitfantasy/assetdesk/internal/desk/handler"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"github.com/bitfantasy/assetdesk/internal/desk/sse"
	"github.com/bitfantasy/assetdesk/internal/desk/storage"
	"github.com/bitfantasy/assetdesk/internal/metrics"
	"github.com/bitfantasy/assetdesk/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const poolSampleInterval = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		zapLogger, err := initLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer zapLogger.Sync()
		return serve(cfg, zapLogger)
	},
}

func serve(cfg *config.Config, zapLogger *zap.Logger) error {
	zapLogger.Info("Starting assetdesk",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	services := service.NewServices(repository.NewRepositories(db), zapLogger)
	services.Linker.SetDeliveryDays(cfg.Linker.DeliveryDays)
	services.Linker.SetExplicitLinks(cfg.Linker.ExplicitLinks)

	hub := sse.NewHub(zapLogger.Named("sse"))
	services.Notification.SetPublisher(hub)

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = initRedis(cfg.Redis)
		defer rdb.Close()
		services.Notification.SetUnreadCounter(cache.NewUnreadCounter(rdb, cfg.Redis.UnreadTTL))
	} else {
		zapLogger.Info("Redis not configured, unread counts read from the database")
	}

	if cfg.MinIO.Enabled() {
		store, err := initImageStore(cfg.MinIO)
		if err != nil {
			return err
		}
		services.Complaint.SetImageStore(store)
	} else {
		zapLogger.Info("MinIO not configured, complaint image upload disabled")
	}

	if cfg.Notify.ChatWebhookURL != "" {
		services.Quote.SetAnnouncer(announce.NewWebhookAnnouncer(cfg.Notify.ChatWebhookURL, zapLogger.Named("announce")))
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/sse", "/metrics"})))

	registerRoutes(router, db, rdb, cfg, handler.NewHandlers(services, hub))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go samplePool(ctx, db, zapLogger)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		// event streams are long-lived
		WriteTimeout: 0,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
	return nil
}

func registerRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config, h *handler.Handlers) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		status := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			checks["redis"] = "ok"
			// the cache is optional, so a failed ping only degrades
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "degraded"
			}
		}
		c.JSON(status, checks)
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1", middleware.JWTAuth(cfg.JWT.Secret))
	h.Register(api, middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initImageStore(cfg config.MinIOConfig) (*storage.ImageStore, error) {
	store, err := storage.NewImageStore(storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func samplePool(ctx context.Context, db *gorm.DB, zapLogger *zap.Logger) {
	ticker := time.NewTicker(poolSampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := metrics.UpdateDatabaseConnections(db); err != nil {
				zapLogger.Warn("sample connection pool", zap.Error(err))
			}
		}
	}
}
