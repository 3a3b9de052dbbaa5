package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/request"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/response"
)

type Handler struct {
	service conflict.Service
}

func NewHandler(service conflict.Service) *Handler {
	return &Handler{service: service}
}

// Detect answers whether the requested stay clashes with an existing
// reservation. A clash is a normal 200 response, not an error.
func (h *Handler) Detect(c *gin.Context) {
	var body DetectRequest
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

	resolution, err := h.service.Resolve(c.Request.Context(), conflict.Window{
		RoomID:      body.RoomID,
		RequesterID: auth.GetUserID(c),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := DetectResponse{
		HasConflict: !resolution.Free,
		Conflicting: make([]WindowResponse, len(resolution.Conflicting)),
		RecordID:    resolution.RecordID,
	}
	for i, w := range resolution.Conflicting {
		resp.Conflicting[i] = newWindowResponse(w)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	records, total, err := h.service.ListRecords(c.Request.Context(), conflict.Filter{
		RoomID:   req.RoomID,
		UserID:   req.UserID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RecordResponse, len(records))
	for i, rec := range records {
		items[i] = newRecordResponse(rec)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Moderate(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body ModerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rec, err := h.service.Moderate(c.Request.Context(), uri.ID, conflict.RecordStatus(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordResponse(rec))
}
