package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockChatUseCase is a mock implementation of chat.ChatUseCase
type MockChatUseCase struct {
	mock.Mock
}

func (m *MockChatUseCase) StartConversation(ctx context.Context, conversationID string, flightID int64, search domain.SearchParams) (*dialog.Turn, error) {
	args := m.Called(ctx, conversationID, flightID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dialog.Turn), args.Error(1)
}

func (m *MockChatUseCase) HandleMessage(ctx context.Context, conversationID, text string) (*dialog.Turn, error) {
	args := m.Called(ctx, conversationID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dialog.Turn), args.Error(1)
}

func TestChatHandler_start(t *testing.T) {
	mockService := &MockChatUseCase{}
	handler := NewChatHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(startConversationRequest{
		FlightID:       7,
		From:           "DEL",
		To:             "BOM",
		DepartureDate:  "2026-09-10",
		PassengerCount: 2,
	})
	c.Request = httptest.NewRequest("POST", "/conversations/conv-1/start", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "conv-1"}}

	turn := &dialog.Turn{
		Messages: []string{"Booking IndiGo flight 6E-201"},
		Prompt:   &dialog.Prompt{Field: "full_name", Text: "Passenger 1 of 2: Please enter the passenger's full name."},
	}
	mockService.On("StartConversation", c.Request.Context(), "conv-1", int64(7), domain.SearchParams{
		From:           "DEL",
		To:             "BOM",
		DepartureDate:  "2026-09-10",
		PassengerCount: 2,
	}).Return(turn, nil)

	handler.start(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response turnResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response.Done)
	assert.Equal(t, "full_name", response.Prompt.Field)

	mockService.AssertExpectations(t)
}

func TestChatHandler_start_badRequest(t *testing.T) {
	mockService := &MockChatUseCase{}
	handler := NewChatHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/conversations/conv-1/start", bytes.NewReader([]byte("not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "conv-1"}}

	handler.start(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "StartConversation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChatHandler_message(t *testing.T) {
	mockService := &MockChatUseCase{}
	handler := NewChatHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(messageRequest{Text: "john@example.com"})
	c.Request = httptest.NewRequest("POST", "/conversations/conv-1/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "conv-1"}}

	turn := &dialog.Turn{Prompt: &dialog.Prompt{Field: "phone", Text: "Please enter the passenger's phone number."}}
	mockService.On("HandleMessage", c.Request.Context(), "conv-1", "john@example.com").Return(turn, nil)

	handler.message(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response turnResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "phone", response.Prompt.Field)

	mockService.AssertExpectations(t)
}

func TestChatHandler_message_terminal(t *testing.T) {
	mockService := &MockChatUseCase{}
	handler := NewChatHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(messageRequest{Text: "no"})
	c.Request = httptest.NewRequest("POST", "/conversations/conv-1/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "conv-1"}}

	turn := &dialog.Turn{
		Messages: []string{"Booking cancelled. No payment was taken and nothing was saved."},
		Done:     true,
	}
	mockService.On("HandleMessage", c.Request.Context(), "conv-1", "no").Return(turn, nil)

	handler.message(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response turnResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Done)
	assert.Nil(t, response.Prompt)

	mockService.AssertExpectations(t)
}
