package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/request"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/response"
	"github.com/linyuhan/hotel-ops-backend/internal/roomstatus"
)

type Handler struct {
	service roomstatus.Service
}

func NewHandler(service roomstatus.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rs, err := h.service.Get(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newStatusResponse(rs))
}

// Transition applies a room state change. A stale expected_version yields 409
// with no write; the caller decides whether to reload and retry.
func (h *Handler) Transition(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body TransitionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	state, err := roomstatus.ParseState(body.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	rs, err := h.service.Transition(c.Request.Context(), roomstatus.TransitionRequest{
		RoomID:          uri.ID,
		To:              state,
		Reason:          body.Reason,
		ActorID:         auth.GetUserID(c),
		LinkedOrderID:   body.LinkedOrderID,
		ExpectedVersion: *body.ExpectedVersion,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newStatusResponse(rs))
}

func (h *Handler) History(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	entries, err := h.service.History(c.Request.Context(), uri.ID, roomstatus.HistoryFilter{
		From:  req.From,
		To:    req.To,
		Limit: req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = newLogEntryResponse(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var body AvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	availability, err := h.service.CheckMany(c.Request.Context(), body.RoomIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Availability: availability})
}
