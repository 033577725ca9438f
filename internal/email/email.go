package email

import (
	"context"

	"github.com/avikulin/flightbot/internal/kafka"
	"go.uber.org/zap"
)

// Sender is a mock notification channel; it logs instead of talking to
// a mail provider.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("send booking email",
		zap.String("to", event.Email),
		zap.String("type", event.Type),
		zap.String("booking_id", event.BookingID),
		zap.Int64("amount_minor", event.AmountMinor),
		zap.String("currency", event.Currency))
	return nil
}
