package dialog

import (
	"time"

	"github.com/avikulin/flightbot/internal/domain"
)

// Prompt is a semantic descriptor of the next question. The chat
// transport decides how to render it; the dialog core never does.
type Prompt struct {
	Field   string   `json:"field"`
	Text    string   `json:"text"`
	Choices []string `json:"choices,omitempty"`
}

type passengerField struct {
	name     string
	text     string
	validate func(string) error
	assign   func(*domain.Passenger, string)
}

// passengerFields is the fixed collection order per passenger. The
// index cursor only advances past a passenger once the last field here
// has been stored.
var passengerFields = []passengerField{
	{
		name:     "full_name",
		text:     "Please enter the passenger's full name.",
		validate: validateNonEmpty,
		assign:   func(p *domain.Passenger, v string) { p.FullName = v },
	},
	{
		name:     "email",
		text:     "Please enter the passenger's email address.",
		validate: validateEmail,
		assign:   func(p *domain.Passenger, v string) { p.Email = v },
	},
	{
		name:     "phone",
		text:     "Please enter the passenger's phone number.",
		validate: validateNonEmpty,
		assign:   func(p *domain.Passenger, v string) { p.Phone = v },
	},
	{
		name:     "id_number",
		text:     "Please enter the passenger's passport or ID number.",
		validate: validateNonEmpty,
		assign:   func(p *domain.Passenger, v string) { p.IDNumber = v },
	},
	{
		name:     "address",
		text:     "Please enter the passenger's address.",
		validate: validateNonEmpty,
		assign:   func(p *domain.Passenger, v string) { p.Address = v },
	},
	{
		name:     "emergency_contact",
		text:     "Please enter an emergency contact (name and phone).",
		validate: validateNonEmpty,
		assign:   func(p *domain.Passenger, v string) { p.EmergencyContact = v },
	},
}

type cardField struct {
	name     string
	text     string
	validate func(string, time.Time) error
	assign   func(*domain.CardDetails, string)
}

var cardFields = []cardField{
	{
		name:     "card_number",
		text:     "Please enter your card number.",
		validate: func(v string, _ time.Time) error { return validateCardNumber(v) },
		assign:   func(c *domain.CardDetails, v string) { c.Number = v },
	},
	{
		name:     "expiry",
		text:     "Please enter the card expiry date (MM/YY).",
		validate: validateExpiry,
		assign:   func(c *domain.CardDetails, v string) { c.Expiry = v },
	},
	{
		name:     "cvv",
		text:     "Please enter the card CVV.",
		validate: func(v string, _ time.Time) error { return validateCVV(v) },
		assign:   func(c *domain.CardDetails, v string) { c.CVV = v },
	},
	{
		name:     "holder_name",
		text:     "Please enter the cardholder's name.",
		validate: func(v string, _ time.Time) error { return validateNonEmpty(v) },
		assign:   func(c *domain.CardDetails, v string) { c.HolderName = v },
	},
}

var paymentMethodChoices = []domain.PaymentMethod{
	domain.PaymentMethodCreditCard,
	domain.PaymentMethodDebitCard,
	domain.PaymentMethodPayPal,
	domain.PaymentMethodApplePay,
}
