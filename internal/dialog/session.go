package dialog

import (
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/money"
)

// Stage identifies where in the fixed step order the conversation is.
type Stage string

const (
	StageCollectPassengers Stage = "collect_passengers"
	StageConfirm           Stage = "confirm"
	StagePaymentMethod     Stage = "payment_method"
	StageCardDetails       Stage = "card_details"
	StageDone              Stage = "done"
)

// SessionState is the overall lifecycle of the conversation.
type SessionState string

const (
	SessionActive    SessionState = "active"
	SessionCompleted SessionState = "completed"
	SessionCancelled SessionState = "cancelled"
	SessionFailed    SessionState = "failed"
)

// BookingSession is the in-progress booking record carried across turns.
// It is fully serializable so the session store can persist it between
// user replies; it is never persisted as a booking itself.
type BookingSession struct {
	ConversationID string              `json:"conversation_id"`
	Flight         *domain.FlightOffer `json:"flight"`
	Search         domain.SearchParams `json:"search"`

	// Passengers holds only fully populated records; the one being
	// collected lives in Pending until its last field is stored.
	Passengers   []domain.Passenger `json:"passengers"`
	Pending      domain.Passenger   `json:"pending"`
	PendingField int                `json:"pending_field"`

	PaymentMethod domain.PaymentMethod `json:"payment_method,omitempty"`
	Card          domain.CardDetails   `json:"card,omitempty"`
	CardField     int                  `json:"card_field"`

	Amount *money.Amount `json:"amount,omitempty"`

	Stage Stage        `json:"stage"`
	State SessionState `json:"state"`
}

// CurrentPassengerIndex is the 0-based cursor over passenger slots.
// Invariant: 0 <= index <= Search.PassengerCount.
func (s *BookingSession) CurrentPassengerIndex() int {
	return len(s.Passengers)
}

// PassengersComplete reports whether every slot holds a fully populated
// passenger. The summary step is unreachable until this is true.
func (s *BookingSession) PassengersComplete() bool {
	if len(s.Passengers) < s.Search.PassengerCount {
		return false
	}
	for _, p := range s.Passengers {
		if !p.Complete() {
			return false
		}
	}
	return true
}

// restart rewinds the session to step 1 keeping the original start
// arguments. Completed passengers ride through the restart; the
// in-progress passenger's partial fields, any card details and the
// chosen payment method are discarded and re-collected on replay.
func (s *BookingSession) restart() {
	s.Pending = domain.Passenger{}
	s.PendingField = 0
	s.PaymentMethod = ""
	s.Card = domain.CardDetails{}
	s.CardField = 0
	s.Stage = StageCollectPassengers
}
