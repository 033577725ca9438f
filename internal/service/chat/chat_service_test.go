package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetSession(ctx context.Context, conversationID string) (*dialog.BookingSession, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dialog.BookingSession), args.Error(1)
}

func (m *MockSessionStore) SetSession(ctx context.Context, sess *dialog.BookingSession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.FlightOffer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.FlightOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightOffer), args.Error(1)
}

type stubFinalizer struct{}

func (stubFinalizer) Finalize(ctx context.Context, sess *dialog.BookingSession) (*domain.BookingRecord, error) {
	return &domain.BookingRecord{BookingID: "bk-1", Status: domain.BookingStatusConfirmed}, nil
}

func newTestService(sessions *MockSessionStore, flightSvc *MockFlightUseCase) *ChatService {
	driver := dialog.NewDriver(stubFinalizer{}, zap.NewNop())
	return NewChatService(driver, sessions, flightSvc, zap.NewNop())
}

func testOffer() *domain.FlightOffer {
	return &domain.FlightOffer{ID: 7, Airline: "IndiGo", FlightNumber: "6E-201", Price: "$485"}
}

func TestChatService_StartConversation(t *testing.T) {
	sessions := &MockSessionStore{}
	flightSvc := &MockFlightUseCase{}
	service := newTestService(sessions, flightSvc)

	ctx := context.Background()
	flightSvc.On("GetByID", ctx, int64(7)).Return(testOffer(), nil).Once()
	sessions.On("SetSession", ctx, mock.AnythingOfType("*dialog.BookingSession")).Return(nil).Once()

	turn, err := service.StartConversation(ctx, "conv-1", 7, domain.SearchParams{PassengerCount: 1})

	assert.NoError(t, err)
	assert.False(t, turn.Done)
	assert.Equal(t, "full_name", turn.Prompt.Field)
	sessions.AssertExpectations(t)
	flightSvc.AssertExpectations(t)
}

func TestChatService_StartConversation_FlightMissing(t *testing.T) {
	sessions := &MockSessionStore{}
	flightSvc := &MockFlightUseCase{}
	service := newTestService(sessions, flightSvc)

	ctx := context.Background()
	flightSvc.On("GetByID", ctx, int64(99)).Return(nil, errors.New("not found")).Once()

	turn, err := service.StartConversation(ctx, "conv-1", 99, domain.SearchParams{PassengerCount: 1})

	assert.NoError(t, err)
	assert.True(t, turn.Done)
	assert.Contains(t, turn.Messages[0], "No flight selected")
	sessions.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}

func TestChatService_HandleMessage_NoSession(t *testing.T) {
	sessions := &MockSessionStore{}
	flightSvc := &MockFlightUseCase{}
	service := newTestService(sessions, flightSvc)

	ctx := context.Background()
	sessions.On("GetSession", ctx, "conv-1").Return(nil, nil).Once()

	turn, err := service.HandleMessage(ctx, "conv-1", "hello")

	assert.NoError(t, err)
	assert.True(t, turn.Done)
	assert.Contains(t, turn.Messages[0], "no booking in progress")
}

func TestChatService_HandleMessage_AdvancesAndStores(t *testing.T) {
	sessions := &MockSessionStore{}
	flightSvc := &MockFlightUseCase{}
	service := newTestService(sessions, flightSvc)

	ctx := context.Background()
	sess := &dialog.BookingSession{
		ConversationID: "conv-1",
		Flight:         testOffer(),
		Search:         domain.SearchParams{PassengerCount: 1},
		Stage:          dialog.StageCollectPassengers,
		State:          dialog.SessionActive,
	}
	sessions.On("GetSession", ctx, "conv-1").Return(sess, nil).Once()
	sessions.On("SetSession", ctx, sess).Return(nil).Once()

	turn, err := service.HandleMessage(ctx, "conv-1", "John Doe")

	assert.NoError(t, err)
	assert.False(t, turn.Done)
	assert.Equal(t, "email", turn.Prompt.Field)
	sessions.AssertExpectations(t)
}

func TestChatService_HandleMessage_TerminalDeletesSession(t *testing.T) {
	sessions := &MockSessionStore{}
	flightSvc := &MockFlightUseCase{}
	service := newTestService(sessions, flightSvc)

	ctx := context.Background()
	sess := &dialog.BookingSession{
		ConversationID: "conv-1",
		Flight:         testOffer(),
		Search:         domain.SearchParams{PassengerCount: 1},
		Passengers: []domain.Passenger{{
			FullName: "John Doe", Email: "john@example.com", Phone: "+1555",
			IDNumber: "ID-1", Address: "1 Main St", EmergencyContact: "EC",
		}},
		Stage: dialog.StageConfirm,
		State: dialog.SessionActive,
	}
	sessions.On("GetSession", ctx, "conv-1").Return(sess, nil).Once()
	sessions.On("DeleteSession", ctx, "conv-1").Return(nil).Once()

	turn, err := service.HandleMessage(ctx, "conv-1", "no")

	assert.NoError(t, err)
	assert.True(t, turn.Done)
	sessions.AssertExpectations(t)
	sessions.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}
