package payment

import (
	"context"
	"strings"

	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChargeRequest is the single opaque call made to the gateway per
// booking attempt. Amount is in minor units.
type ChargeRequest struct {
	BookingID      string               `json:"booking_id"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	Amount         int64                `json:"amount"`
	Currency       string               `json:"currency"`
	Card           *domain.CardDetails  `json:"card,omitempty"`
	CustomerEmail  string               `json:"customer_email"`
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	BillingAddress string               `json:"billing_address"`
	OrderNumber    string               `json:"order_number"`
	Description    string               `json:"description"`
	IdempotencyKey string               `json:"idempotency_key"`
}

type ChargeResult struct {
	Success       bool   `json:"success"`
	PaymentID     string `json:"payment_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Gateway is the payment collaborator boundary. The dialog core makes
// exactly one ProcessPayment call per booking attempt and never retries.
type Gateway interface {
	ProcessPayment(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// declineTestCard always declines, so end-to-end flows can exercise the
// failure path against the mock gateway.
const declineTestCard = "4000000000000002"

// MockGateway simulates an external processor. Credentials are carried
// but never interpreted; they exist so the wiring matches a real
// gateway client.
type MockGateway struct {
	cfg    config.PaymentConfig
	logger *zap.Logger
}

func NewMockGateway(cfg config.PaymentConfig, logger *zap.Logger) *MockGateway {
	return &MockGateway{cfg: cfg, logger: logger}
}

func (g *MockGateway) ProcessPayment(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Card != nil && strings.ReplaceAll(req.Card.Number, " ", "") == declineTestCard {
		g.logger.Info("mock gateway declined charge",
			zap.String("booking_id", req.BookingID),
			zap.Int64("amount", req.Amount),
			zap.String("currency", req.Currency))
		return &ChargeResult{Success: false, Message: "card declined"}, nil
	}

	result := &ChargeResult{
		Success:       true,
		PaymentID:     "pay_" + uuid.NewString(),
		TransactionID: "txn_" + uuid.NewString(),
	}
	g.logger.Info("mock gateway captured charge",
		zap.String("booking_id", req.BookingID),
		zap.String("payment_id", result.PaymentID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.String("location_id", g.cfg.LocationID))
	return result, nil
}

var _ Gateway = (*MockGateway)(nil)
