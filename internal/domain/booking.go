package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusFailed         BookingStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
	PaymentMethodApplePay   PaymentMethod = "apple_pay"
)

// IsCard reports whether the method requires card details to be collected.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// Passenger holds the six fields collected per traveller, in the order
// the dialog asks for them.
type Passenger struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	IDNumber         string `json:"id_number"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
}

// Complete reports whether every field has been populated.
func (p Passenger) Complete() bool {
	return p.FullName != "" && p.Email != "" && p.Phone != "" &&
		p.IDNumber != "" && p.Address != "" && p.EmergencyContact != ""
}

type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// BookingRecord is the persisted outcome of a completed conversation.
// Status transitions are one-way: PENDING_PAYMENT -> CONFIRMED,
// CANCELLED or FAILED.
type BookingRecord struct {
	BookingID     string        `json:"booking_id"`
	Flight        FlightOffer   `json:"flight"`
	Passengers    []Passenger   `json:"passengers"`
	TotalAmount   float64       `json:"total_amount"`
	Currency      string        `json:"currency"`
	Status        BookingStatus `json:"status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	BookingDate   time.Time     `json:"booking_date"`
}
