package payment

import (
	"context"
	"testing"

	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestGateway() *MockGateway {
	return NewMockGateway(config.PaymentConfig{LocationID: "LOC_TEST", APIKey: "sk_test"}, zap.NewNop())
}

func TestMockGateway_Capture(t *testing.T) {
	g := newTestGateway()

	result, err := g.ProcessPayment(context.Background(), ChargeRequest{
		BookingID:      "bk-1",
		PaymentMethod:  domain.PaymentMethodCreditCard,
		Amount:         145500,
		Currency:       "USD",
		Card:           &domain.CardDetails{Number: "4111111111111111", Expiry: "12/30", CVV: "123", HolderName: "John Doe"},
		IdempotencyKey: "bk-1",
	})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.PaymentID)
	assert.NotEmpty(t, result.TransactionID)
}

func TestMockGateway_DeclineTestCard(t *testing.T) {
	g := newTestGateway()

	result, err := g.ProcessPayment(context.Background(), ChargeRequest{
		BookingID:     "bk-2",
		PaymentMethod: domain.PaymentMethodDebitCard,
		Amount:        5000,
		Currency:      "USD",
		Card:          &domain.CardDetails{Number: "4000 0000 0000 0002", Expiry: "12/30", CVV: "123", HolderName: "John Doe"},
	})

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "card declined", result.Message)
	assert.Empty(t, result.PaymentID)
}

func TestMockGateway_NonCardMethod(t *testing.T) {
	g := newTestGateway()

	result, err := g.ProcessPayment(context.Background(), ChargeRequest{
		BookingID:     "bk-3",
		PaymentMethod: domain.PaymentMethodPayPal,
		Amount:        760000,
		Currency:      "INR",
	})

	assert.NoError(t, err)
	assert.True(t, result.Success)
}
