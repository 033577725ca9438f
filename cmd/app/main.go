package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/bootstrap"
	"github.com/avikulin/flightbot/internal/cache"
	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/kafka"
	"github.com/avikulin/flightbot/internal/payment"
	"github.com/avikulin/flightbot/internal/repository"
	"github.com/avikulin/flightbot/internal/service/booking"
	"github.com/avikulin/flightbot/internal/service/chat"
	"github.com/avikulin/flightbot/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Dialog.SessionTTLMinutes)*time.Minute,
		time.Duration(cfg.Dialog.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	gateway := payment.NewMockGateway(cfg.Payment, logger)

	finalizer := booking.NewFinalizer(
		bookingRepo,
		gateway,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithReconcileTopic(cfg.Kafka.ReconcileTopic),
	)

	driver := dialog.NewDriver(finalizer, logger)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	chatService := chat.NewChatService(driver, redisCache, flightService, logger)

	if err := bootstrap.Run(ctx, cfg, flightService, chatService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
