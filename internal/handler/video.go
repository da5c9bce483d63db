package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tgo/tubechat/internal/ingest"
	"github.com/tgo/tubechat/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

type importVideoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *VideoHandler) Import(c *gin.Context) {
	var req importVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.svc.Import(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidURL), errors.Is(err, ingest.ErrNoTranscript):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      video.ID,
		"message": "video imported successfully",
	})
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, err := uuid.Parse(c.Query("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), videoID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}
