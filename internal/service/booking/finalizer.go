package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/kafka"
	"github.com/avikulin/flightbot/internal/money"
	"github.com/avikulin/flightbot/internal/payment"
	"github.com/avikulin/flightbot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// saveAttempts is how many times a confirmed booking is written before
// the reconcile path takes over.
const saveAttempts = 3

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Finalizer implements the process-payment step: resolve the charge
// amount, make the single gateway call, persist the record and publish
// booking events.
type Finalizer struct {
	bookings           repository.BookingRepository
	gateway            payment.Gateway
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	reconcileTopic     string
	logger             *zap.Logger
}

type FinalizerOption func(*Finalizer)

func WithNotificationsTopic(topic string) FinalizerOption {
	return func(f *Finalizer) { f.notificationsTopic = topic }
}

func WithReconcileTopic(topic string) FinalizerOption {
	return func(f *Finalizer) { f.reconcileTopic = topic }
}

func NewFinalizer(
	bookings repository.BookingRepository,
	gateway payment.Gateway,
	producer Producer,
	eventsTopic string,
	logger *zap.Logger,
	opts ...FinalizerOption,
) *Finalizer {
	f := &Finalizer{
		bookings:    bookings,
		gateway:     gateway,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Finalizer) Finalize(ctx context.Context, sess *dialog.BookingSession) (*domain.BookingRecord, error) {
	// The resolved amount is computed once and never recomputed, even
	// when finalization is re-entered.
	if sess.Amount == nil {
		amount, err := money.Resolve(sess.Flight.Price, sess.Search.PassengerCount)
		if err != nil {
			return nil, err
		}
		sess.Amount = &amount
	}

	record := &domain.BookingRecord{
		BookingID:   uuid.NewString(),
		Flight:      *sess.Flight,
		Passengers:  sess.Passengers,
		TotalAmount: sess.Amount.MajorUnits,
		Currency:    sess.Amount.Currency,
		Status:      domain.BookingStatusPendingPayment,
		BookingDate: time.Now(),
	}

	result, err := f.charge(ctx, sess, record)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		record.Status = domain.BookingStatusFailed
		f.publish(ctx, kafka.EventBookingFailed, f.eventsTopic, sess, record)
		return nil, fmt.Errorf("%s: %w", result.Message, dialog.ErrPaymentDeclined)
	}

	record.Status = domain.BookingStatusConfirmed
	record.PaymentID = result.PaymentID
	record.TransactionID = result.TransactionID

	if err := f.save(ctx, record); err != nil {
		f.logger.Error("booking save failed after charge",
			zap.String("booking_id", record.BookingID),
			zap.Error(err))
		f.publish(ctx, kafka.EventReconcileNeeded, f.reconcileTopic, sess, record)
		return record, fmt.Errorf("save booking %s: %w", record.BookingID, dialog.ErrSaveFailedAfterCharge)
	}

	f.publish(ctx, kafka.EventBookingConfirmed, f.eventsTopic, sess, record)
	if f.notificationsTopic != "" {
		f.publish(ctx, kafka.EventBookingConfirmed, f.notificationsTopic, sess, record)
	}
	return record, nil
}

func (f *Finalizer) charge(ctx context.Context, sess *dialog.BookingSession, record *domain.BookingRecord) (*payment.ChargeResult, error) {
	lead := sess.Passengers[0]
	req := payment.ChargeRequest{
		BookingID:      record.BookingID,
		PaymentMethod:  sess.PaymentMethod,
		Amount:         sess.Amount.MinorUnits,
		Currency:       sess.Amount.Currency,
		CustomerEmail:  lead.Email,
		CustomerName:   lead.FullName,
		CustomerPhone:  lead.Phone,
		BillingAddress: lead.Address,
		OrderNumber:    record.BookingID,
		Description: fmt.Sprintf("%s flight %s, %d passenger(s)",
			sess.Flight.Airline, sess.Flight.FlightNumber, len(sess.Passengers)),
		IdempotencyKey: record.BookingID,
	}
	if sess.PaymentMethod.IsCard() {
		card := sess.Card
		req.Card = &card
	}
	return f.gateway.ProcessPayment(ctx, req)
}

// save retries the persistence collaborator a fixed number of times; a
// successful charge must not be lost to a transient database error.
func (f *Finalizer) save(ctx context.Context, record *domain.BookingRecord) error {
	var lastErr error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if lastErr = f.bookings.Save(ctx, record); lastErr == nil {
			return nil
		}
		f.logger.Warn("booking save attempt failed",
			zap.String("booking_id", record.BookingID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
	}
	return lastErr
}

func (f *Finalizer) publish(ctx context.Context, eventType, topic string, sess *dialog.BookingSession, record *domain.BookingRecord) {
	if f.producer == nil || topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      record.BookingID,
		ConversationID: sess.ConversationID,
		Email:          sess.Passengers[0].Email,
		Status:         string(record.Status),
		AmountMinor:    sess.Amount.MinorUnits,
		Currency:       sess.Amount.Currency,
		OccurredAt:     time.Now(),
	}
	if err := f.producer.Publish(ctx, topic, record.BookingID, event); err != nil {
		f.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", record.BookingID),
			zap.Error(err))
	}
}

var _ dialog.Finalizer = (*Finalizer)(nil)
