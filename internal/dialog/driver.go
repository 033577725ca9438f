package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/money"
	"go.uber.org/zap"
)

var (
	// ErrPaymentDeclined is returned by a Finalizer when the gateway
	// reported an unsuccessful charge.
	ErrPaymentDeclined = errors.New("payment was declined")
	// ErrSaveFailedAfterCharge is returned when the charge succeeded but
	// the booking record could not be persisted after retries.
	ErrSaveFailedAfterCharge = errors.New("booking could not be saved after successful payment")
)

// Finalizer performs the process-payment step: resolve the amount,
// charge the gateway once, persist the booking record. On
// ErrSaveFailedAfterCharge the returned record is still non-nil.
type Finalizer interface {
	Finalize(ctx context.Context, sess *BookingSession) (*domain.BookingRecord, error)
}

// Turn is everything the transport should deliver for one user reply:
// zero or more informational messages plus either the next prompt or a
// terminal result.
type Turn struct {
	Messages []string              `json:"messages"`
	Prompt   *Prompt               `json:"prompt,omitempty"`
	Done     bool                  `json:"done"`
	Record   *domain.BookingRecord `json:"record,omitempty"`
}

// Driver sequences the booking conversation. It owns no I/O besides the
// finalizer call; one Advance processes exactly one user reply.
type Driver struct {
	finalizer Finalizer
	logger    *zap.Logger
	now       func() time.Time
}

type DriverOption func(*Driver)

// WithClock overrides the time source used for card expiry validation.
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

func NewDriver(finalizer Finalizer, logger *zap.Logger, opts ...DriverOption) *Driver {
	d := &Driver{finalizer: finalizer, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start opens a new session. A missing flight offer or a non-positive
// passenger count ends the conversation immediately with an explicit
// message and no retry.
func (d *Driver) Start(conversationID string, flight *domain.FlightOffer, search domain.SearchParams) (*BookingSession, *Turn) {
	if flight == nil {
		return nil, &Turn{
			Messages: []string{"No flight selected. Please search for a flight before booking."},
			Done:     true,
		}
	}
	if search.PassengerCount < 1 {
		return nil, &Turn{
			Messages: []string{"Passenger count must be at least 1 to start a booking."},
			Done:     true,
		}
	}

	sess := &BookingSession{
		ConversationID: conversationID,
		Flight:         flight,
		Search:         search,
		Stage:          StageCollectPassengers,
		State:          SessionActive,
	}

	turn := d.resume(sess)
	turn.Messages = append([]string{fmt.Sprintf(
		"Booking %s flight %s (%s -> %s) for %d passenger(s), price %s per seat.",
		flight.Airline, flight.FlightNumber,
		flight.Departure.Airport, flight.Arrival.Airport,
		search.PassengerCount, flight.Price,
	)}, turn.Messages...)
	return sess, turn
}

// Advance feeds one user reply into the session and returns the next
// turn. The session is mutated in place; the caller persists it.
func (d *Driver) Advance(ctx context.Context, sess *BookingSession, reply string) *Turn {
	if sess.State != SessionActive {
		return &Turn{Messages: []string{"This conversation has ended. Start a new booking to continue."}, Done: true}
	}

	reply = strings.TrimSpace(reply)

	switch sess.Stage {
	case StageCollectPassengers:
		return d.advancePassenger(sess, reply)
	case StageConfirm:
		return d.advanceConfirm(ctx, sess, reply)
	case StagePaymentMethod:
		return d.advancePaymentMethod(ctx, sess, reply)
	case StageCardDetails:
		return d.advanceCard(ctx, sess, reply)
	default:
		d.logger.Warn("advance on unexpected stage",
			zap.String("conversation_id", sess.ConversationID),
			zap.String("stage", string(sess.Stage)))
		return &Turn{Messages: []string{"Something went wrong with this booking. Please start again."}, Done: true}
	}
}

// advancePassenger stores one field of the current passenger, advancing
// the outer index only after the emergency contact is stored.
func (d *Driver) advancePassenger(sess *BookingSession, reply string) *Turn {
	field := passengerFields[sess.PendingField]
	if err := field.validate(reply); err != nil {
		return d.restartTurn(sess, err)
	}

	field.assign(&sess.Pending, reply)
	sess.PendingField++

	if sess.PendingField < len(passengerFields) {
		return &Turn{Prompt: d.passengerPrompt(sess)}
	}

	// Last field stored: the slot is complete, advance the cursor.
	sess.Passengers = append(sess.Passengers, sess.Pending)
	sess.Pending = domain.Passenger{}
	sess.PendingField = 0

	if len(sess.Passengers) < sess.Search.PassengerCount {
		turn := d.resume(sess)
		turn.Messages = append([]string{fmt.Sprintf("Passenger %d saved.", len(sess.Passengers))}, turn.Messages...)
		return turn
	}
	return d.resume(sess)
}

func (d *Driver) advanceConfirm(ctx context.Context, sess *BookingSession, reply string) *Turn {
	switch strings.ToLower(reply) {
	case "yes", "y":
		sess.Stage = StagePaymentMethod
		return &Turn{Prompt: paymentMethodPrompt()}
	case "no", "n":
		sess.State = SessionCancelled
		sess.Stage = StageDone
		return &Turn{
			Messages: []string{"Booking cancelled. No payment was taken and nothing was saved."},
			Done:     true,
		}
	default:
		return &Turn{
			Messages: []string{"Please answer yes or no."},
			Prompt:   confirmPrompt(),
		}
	}
}

func (d *Driver) advancePaymentMethod(ctx context.Context, sess *BookingSession, reply string) *Turn {
	method, ok := parsePaymentMethod(reply)
	if !ok {
		return &Turn{
			Messages: []string{"Please choose one of the listed payment methods."},
			Prompt:   paymentMethodPrompt(),
		}
	}

	sess.PaymentMethod = method
	if method.IsCard() {
		sess.Stage = StageCardDetails
		sess.CardField = 0
		return &Turn{Prompt: cardPrompt(sess)}
	}
	return d.finalize(ctx, sess)
}

func (d *Driver) advanceCard(ctx context.Context, sess *BookingSession, reply string) *Turn {
	field := cardFields[sess.CardField]
	if err := field.validate(reply, d.now()); err != nil {
		return d.restartTurn(sess, err)
	}

	field.assign(&sess.Card, reply)
	sess.CardField++

	if sess.CardField < len(cardFields) {
		return &Turn{Prompt: cardPrompt(sess)}
	}
	return d.finalize(ctx, sess)
}

// finalize runs the blocking process-payment step and emits the
// terminal turn. Every failure path produces one explicit message.
func (d *Driver) finalize(ctx context.Context, sess *BookingSession) *Turn {
	record, err := d.finalizer.Finalize(ctx, sess)
	switch {
	case err == nil:
		sess.State = SessionCompleted
		sess.Stage = StageDone
		return &Turn{
			Messages: []string{fmt.Sprintf(
				"Booking confirmed! Reference %s, charged %.2f %s for %d passenger(s). A confirmation email is on its way.",
				record.BookingID, record.TotalAmount, record.Currency, len(record.Passengers),
			)},
			Done:   true,
			Record: record,
		}

	case errors.Is(err, ErrSaveFailedAfterCharge):
		sess.State = SessionCompleted
		sess.Stage = StageDone
		d.logger.Error("booking save failed after successful charge",
			zap.String("conversation_id", sess.ConversationID),
			zap.Error(err))
		return &Turn{
			Messages: []string{
				"Your payment went through, but we hit a problem saving the booking. " +
					"Our team has been notified and will confirm your booking shortly.",
			},
			Done:   true,
			Record: record,
		}

	case errors.Is(err, ErrPaymentDeclined):
		sess.State = SessionFailed
		sess.Stage = StageDone
		return &Turn{
			Messages: []string{"Payment was not successful. Please verify your payment details and start the booking again."},
			Done:     true,
		}

	case errors.Is(err, money.ErrUnparsablePrice):
		sess.State = SessionFailed
		sess.Stage = StageDone
		return &Turn{
			Messages: []string{"We could not calculate the price for this flight. Please try a different flight."},
			Done:     true,
		}

	case errors.Is(err, money.ErrOverLimit), errors.Is(err, money.ErrBelowMinimum), errors.Is(err, money.ErrNonPositive):
		sess.State = SessionFailed
		sess.Stage = StageDone
		return &Turn{
			Messages: []string{fmt.Sprintf("This booking cannot be charged: %v.", err)},
			Done:     true,
		}

	default:
		sess.State = SessionFailed
		sess.Stage = StageDone
		d.logger.Error("finalize failed",
			zap.String("conversation_id", sess.ConversationID),
			zap.Error(err))
		return &Turn{
			Messages: []string{"Something went wrong while processing your booking. No charge was made. Please try again later."},
			Done:     true,
		}
	}
}

// restartTurn handles a failed field validator: the dialog restarts
// from step 1 with the original start arguments, then fast-forwards
// through everything already collected.
func (d *Driver) restartTurn(sess *BookingSession, cause error) *Turn {
	sess.restart()
	turn := d.resume(sess)
	turn.Messages = append([]string{
		fmt.Sprintf("Sorry, %v.", cause),
		"Let's pick up the booking from where your details are still saved.",
	}, turn.Messages...)
	return turn
}

// resume emits the prompt for the first incomplete step, checking the
// passenger-loop entry condition before anything else. Used at session
// start and after every restart.
func (d *Driver) resume(sess *BookingSession) *Turn {
	if !sess.PassengersComplete() {
		sess.Stage = StageCollectPassengers
		return &Turn{Prompt: d.passengerPrompt(sess)}
	}

	sess.Stage = StageConfirm
	return &Turn{
		Messages: summaryMessages(sess),
		Prompt:   confirmPrompt(),
	}
}

func (d *Driver) passengerPrompt(sess *BookingSession) *Prompt {
	field := passengerFields[sess.PendingField]
	return &Prompt{
		Field: field.name,
		Text: fmt.Sprintf("Passenger %d of %d: %s",
			sess.CurrentPassengerIndex()+1, sess.Search.PassengerCount, field.text),
	}
}

func cardPrompt(sess *BookingSession) *Prompt {
	field := cardFields[sess.CardField]
	return &Prompt{Field: field.name, Text: field.text}
}

func confirmPrompt() *Prompt {
	return &Prompt{
		Field:   "confirm",
		Text:    "Shall I proceed with this booking?",
		Choices: []string{"yes", "no"},
	}
}

func paymentMethodPrompt() *Prompt {
	choices := make([]string, 0, len(paymentMethodChoices))
	for _, m := range paymentMethodChoices {
		choices = append(choices, string(m))
	}
	return &Prompt{
		Field:   "payment_method",
		Text:    "How would you like to pay?",
		Choices: choices,
	}
}

func parsePaymentMethod(reply string) (domain.PaymentMethod, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(reply), " ", "_"))
	for _, m := range paymentMethodChoices {
		if normalized == string(m) {
			return m, true
		}
	}
	return "", false
}

// summaryMessages renders the booking summary. Reachable only once
// every passenger slot is fully populated.
func summaryMessages(sess *BookingSession) []string {
	msgs := []string{fmt.Sprintf(
		"Here is your booking summary for %s flight %s, %s -> %s on %s (price %s per passenger):",
		sess.Flight.Airline, sess.Flight.FlightNumber,
		sess.Flight.Departure.Airport, sess.Flight.Arrival.Airport,
		sess.Flight.Departure.Date, sess.Flight.Price,
	)}
	for i, p := range sess.Passengers {
		msgs = append(msgs, fmt.Sprintf("Passenger %d: %s, %s, %s", i+1, p.FullName, p.Email, p.Phone))
	}
	return msgs
}
