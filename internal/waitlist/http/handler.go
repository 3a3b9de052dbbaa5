package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/request"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/response"
	"github.com/linyuhan/hotel-ops-backend/internal/waitlist"
)

type Handler struct {
	service waitlist.Service
}

func NewHandler(service waitlist.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Join(c *gin.Context) {
	var body JoinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	checkIn, err := request.ParseDate(body.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := request.ParseDate(body.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}

	e, err := h.service.Join(c.Request.Context(), waitlist.JoinRequest{
		RoomID:     body.RoomID,
		UserID:     auth.GetUserID(c),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: body.GuestCount,
		Priority:   body.Priority,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, newEntryResponse(e))
}

func (h *Handler) Position(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	pos, err := h.service.Position(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, PositionResponse{Position: pos})
}

func (h *Handler) Confirm(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body ConfirmRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	e, err := h.service.Confirm(c.Request.Context(), uri.ID, body.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(e))
}

func (h *Handler) Leave(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Leave(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sweep triggers an expiry pass on demand, in addition to the background
// ticker. Handy for operations and tests; safe because the sweep is idempotent.
func (h *Handler) Sweep(c *gin.Context) {
	count, err := h.service.SweepExpired(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SweepResponse{Swept: count})
}
