package api

import (
	"net/http"

	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/service/chat"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service chat.ChatUseCase
}

type startConversationRequest struct {
	FlightID       int64  `json:"flight_id"`
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureDate  string `json:"departure_date"`
	PassengerCount int    `json:"passenger_count"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type turnResponse struct {
	Messages []string              `json:"messages"`
	Prompt   *dialog.Prompt        `json:"prompt,omitempty"`
	Done     bool                  `json:"done"`
	Record   *domain.BookingRecord `json:"record,omitempty"`
}

func NewChatHandler(service chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/start", h.start)
	router.POST("/:id/messages", h.message)
}

func (h *ChatHandler) start(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turn, err := h.service.StartConversation(c.Request.Context(), c.Param("id"), req.FlightID, domain.SearchParams{
		From:           req.From,
		To:             req.To,
		DepartureDate:  req.DepartureDate,
		PassengerCount: req.PassengerCount,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toTurnResponse(turn))
}

func (h *ChatHandler) message(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turn, err := h.service.HandleMessage(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toTurnResponse(turn))
}

func toTurnResponse(turn *dialog.Turn) turnResponse {
	return turnResponse{
		Messages: turn.Messages,
		Prompt:   turn.Prompt,
		Done:     turn.Done,
		Record:   turn.Record,
	}
}
