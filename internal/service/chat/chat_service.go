package chat

import (
	"context"

	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/service/flights"
	"go.uber.org/zap"
)

type ChatUseCase interface {
	StartConversation(ctx context.Context, conversationID string, flightID int64, search domain.SearchParams) (*dialog.Turn, error)
	HandleMessage(ctx context.Context, conversationID, text string) (*dialog.Turn, error)
}

// SessionStore persists sessions between turns, keyed by conversation
// id. A nil session with nil error means no session exists.
type SessionStore interface {
	GetSession(ctx context.Context, conversationID string) (*dialog.BookingSession, error)
	SetSession(ctx context.Context, sess *dialog.BookingSession) error
	DeleteSession(ctx context.Context, conversationID string) error
}

// ChatService glues the transport to the dialog driver: it loads the
// session for the conversation, processes exactly one reply and stores
// the session back.
type ChatService struct {
	driver   *dialog.Driver
	sessions SessionStore
	flights  flights.FlightUseCase
	logger   *zap.Logger
}

func NewChatService(driver *dialog.Driver, sessions SessionStore, flightSvc flights.FlightUseCase, logger *zap.Logger) *ChatService {
	return &ChatService{driver: driver, sessions: sessions, flights: flightSvc, logger: logger}
}

func (s *ChatService) StartConversation(ctx context.Context, conversationID string, flightID int64, search domain.SearchParams) (*dialog.Turn, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		s.logger.Warn("flight lookup failed",
			zap.String("conversation_id", conversationID),
			zap.Int64("flight_id", flightID),
			zap.Error(err))
		flight = nil // missing flight is a dialog precondition failure, not a transport error
	}

	sess, turn := s.driver.Start(conversationID, flight, search)
	if sess == nil || turn.Done {
		return turn, nil
	}

	if err := s.sessions.SetSession(ctx, sess); err != nil {
		return nil, err
	}
	return turn, nil
}

func (s *ChatService) HandleMessage(ctx context.Context, conversationID, text string) (*dialog.Turn, error) {
	sess, err := s.sessions.GetSession(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &dialog.Turn{
			Messages: []string{"There is no booking in progress. Select a flight to start one."},
			Done:     true,
		}, nil
	}

	turn := s.driver.Advance(ctx, sess, text)

	if turn.Done {
		if err := s.sessions.DeleteSession(ctx, conversationID); err != nil {
			s.logger.Warn("failed to delete finished session",
				zap.String("conversation_id", conversationID),
				zap.Error(err))
		}
		return turn, nil
	}

	if err := s.sessions.SetSession(ctx, sess); err != nil {
		return nil, err
	}
	return turn, nil
}

var _ ChatUseCase = (*ChatService)(nil)
