package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/service"
)

type ChatHandler struct {
	chatSvc   *service.ChatService
	answerSvc *service.AnswerService
}

func NewChatHandler(chatSvc *service.ChatService, answerSvc *service.AnswerService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, answerSvc: answerSvc}
}

type createChatRequest struct {
	VideoIDs []uuid.UUID `json:"video_ids" binding:"required,min=1"`
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatSvc.Create(c.Request.Context(), req.VideoIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": chat.ID})
}

type askRequest struct {
	ChatID   uuid.UUID `json:"chat_id" binding:"required"`
	Question string    `json:"question" binding:"required,min=1,max=10000"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.answerSvc.Ask(c.Request.Context(), req.ChatID, req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AskStream answers over SSE: token events as deltas arrive, then one
// terminal done or error event.
func (h *ChatHandler) AskStream(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	events := h.answerSvc.AskStream(c.Request.Context(), req.ChatID, req.Question)
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		c.Writer.WriteString("data: " + string(data) + "\n\n")
		c.Writer.Flush()
	}
}

func (h *ChatHandler) Messages(c *gin.Context) {
	chatID, err := uuid.Parse(c.Query("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_id"})
		return
	}

	msgs, err := h.chatSvc.Messages(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.chatSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, err := uuid.Parse(c.Query("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_id"})
		return
	}

	if err := h.chatSvc.Delete(c.Request.Context(), chatID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChatNotFound), errors.Is(err, service.ErrVideoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrVideoAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoVideos):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
