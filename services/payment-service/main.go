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

	awspkg "github.com/reazulhasan44/MangoRestaurent/pkg/aws"
	"github.com/reazulhasan44/MangoRestaurent/services/common/logger"
	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/common/middleware"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/config"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/controllers"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/repository"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/routes"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	cwWriter, err := awspkg.NewCloudWatchLogsClient(context.Background(), "payment-service")
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

	db, err := database.ConnectPostgres(zlog, cfg.PostgresDSN(), &models.Payment{})
	if err != nil {
		zlog.Fatal("postgres connection failed", zap.Error(err))
	}

	payments := repository.NewGormPaymentRepository(db)

	bus := messagebus.NewKafkaMessageBus(cfg.KafkaBrokers, zlog)
	defer bus.Close()

	stripeClient := services.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	requestConsumer := services.NewPaymentRequestConsumer(
		cfg.KafkaBrokers,
		cfg.PaymentRequestTopic,
		cfg.PaymentRequestGroup,
		payments,
		stripeClient,
		bus,
		cfg.PaymentEventsTopic,
		cfg.Currency,
		zlog,
	)
	requestConsumer.Start(context.Background())

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pc := controllers.NewPaymentController(payments, stripeClient, bus, cfg.PaymentEventsTopic, zlog)
	routes.RegisterPaymentRoutes(router, pc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("payment service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down gracefully")

	if err := requestConsumer.Stop(); err != nil {
		zlog.Error("payment request consumer stop error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server shutdown complete")
}
