package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	awspkg "github.com/reazulhasan44/MangoRestaurent/pkg/aws"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/config"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/routes"
	"github.com/reazulhasan44/MangoRestaurent/services/common/logger"
	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/common/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	cwWriter, err := awspkg.NewCloudWatchLogsClient(context.Background(), "cart-service")
	if err != nil {
		log.Printf("cloudwatch logs unavailable: %v", err)
	}

	var zlog *zap.Logger
	if cwWriter != nil && cwWriter.IsEnabled() {
		zlog, err = logger.NewWithWriter(cfg.Env, cwWriter)
	} else {
		zlog, err = logger.New(cfg.Env)
	}
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		zlog.Fatal("redis connection failed", zap.Error(err))
	}

	db, err := database.ConnectPostgres(zlog, cfg.PostgresDSN(), &models.Coupon{})
	if err != nil {
		zlog.Fatal("postgres connection failed", zap.Error(err))
	}

	bus := messagebus.NewKafkaMessageBus(cfg.KafkaBrokers, zlog)
	defer bus.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))
	router.Use(middleware.RateLimit(rate.Every(time.Minute/100), 50))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterCartRoutes(router, redisClient, db, bus, cfg, zlog)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("cart service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server shutdown complete")
}
