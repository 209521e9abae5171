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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awspkg "github.com/reazulhasan44/MangoRestaurent/pkg/aws"
	apperrors "github.com/reazulhasan44/MangoRestaurent/services/common/errors"
	"github.com/reazulhasan44/MangoRestaurent/services/common/logger"
	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/common/middleware"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/controllers"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/kafka"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/repository"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/routes"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/services"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	cwWriter, err := awspkg.NewCloudWatchLogsClient(context.Background(), "order-service")
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

	db, err := database.ConnectPostgres(zlog, cfg.PostgresDSN(), &models.OrderHeader{}, &models.OrderLineItem{})
	if err != nil {
		zlog.Fatal("postgres connection failed", zap.Error(err))
	}

	orders := repository.NewGormOrderRepository(db)

	bus := messagebus.NewKafkaMessageBus(cfg.KafkaBrokers, zlog)
	defer bus.Close()

	processor := services.NewCheckoutProcessor(orders, bus, cfg.PaymentRequestTopic, zlog)
	checkoutConsumer := kafka.NewCheckoutConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.KafkaBrokers,
		Topic:           cfg.CheckoutTopic,
		GroupID:         cfg.CheckoutGroupID,
		DeadLetterTopic: cfg.DeadLetterTopic,
		MaxAttempts:     cfg.MaxAttempts,
	}, processor, zlog)

	ctx := context.Background()
	if err := checkoutConsumer.Start(ctx); err != nil {
		zlog.Fatal("failed to start checkout consumer", zap.Error(err))
	}

	paymentConsumer := services.NewPaymentConsumer(
		cfg.KafkaBrokers, cfg.PaymentEventsTopic, cfg.PaymentEventsGroupID, orders, zlog,
	)
	paymentConsumer.Start(ctx)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))
	router.Use(apperrors.ErrorMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterOrderRoutes(router, controllers.NewOrderController(orders, zlog))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("order service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")

	if err := checkoutConsumer.Stop(); err != nil {
		zlog.Error("checkout consumer stop error", zap.Error(err))
	}
	if err := paymentConsumer.Stop(); err != nil {
		zlog.Error("payment consumer stop error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server shutdown complete")
}
