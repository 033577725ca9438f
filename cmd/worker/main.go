package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/email"
	"github.com/avikulin/flightbot/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer notifications.Close()

	reconcile := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReconcileTopic, logger)
	defer reconcile.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := notifications.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode notification event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logger.Warn("notifications consumer stopped", zap.Error(err))
		}
	}()

	// Reconcile events mark bookings whose charge succeeded but whose
	// save did not; they are surfaced for manual reconciliation.
	go func() {
		if err := reconcile.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode reconcile event", zap.Error(err))
				return nil
			}
			logger.Error("booking needs manual reconciliation",
				zap.String("booking_id", event.BookingID),
				zap.String("conversation_id", event.ConversationID),
				zap.Int64("amount_minor", event.AmountMinor),
				zap.String("currency", event.Currency))
			return nil
		}); err != nil {
			logger.Warn("reconcile consumer stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info("received signal, shutting down", zap.String("signal", s.String()))
}
