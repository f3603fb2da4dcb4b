package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"attendance_backend/internal/attendances/service"
	"attendance_backend/internal/attendances/transport"
	"attendance_backend/platform/httpkit"
	"attendance_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidCourseID  = "invalid course day id"
)

// Handler handles HTTP requests for attendances.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new attendances handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the participant endpoints and the admin roster.
func (h *Handler) RegisterRoutes(participant, admin *gin.RouterGroup) {
	participant.POST("/attendances/check-in", h.CheckIn)
	participant.GET("/attendances/me", h.ListMine)

	admin.GET("/course-days/:id/attendances", h.Roster)
}

// CheckIn records the caller's attendance from a check-in code.
// POST /api/v1/attendances/check-in
func (h *Handler) CheckIn(c *gin.Context) {
	var req transport.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	caller := httpkit.MustGetIdentity(c)
	if caller == nil {
		return
	}

	resp, err := h.svc.CheckIn(c.Request.Context(), caller.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "attendance recorded", resp)
}

// ListMine returns the caller's attendance history.
// GET /api/v1/attendances/me
func (h *Handler) ListMine(c *gin.Context) {
	caller := httpkit.MustGetIdentity(c)
	if caller == nil {
		return
	}

	items, err := h.svc.ListMine(c.Request.Context(), caller.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}

// Roster returns every check-in for a course day.
// GET /api/v1/admin/course-days/:id/attendances
func (h *Handler) Roster(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidCourseID)
		return
	}

	items, err := h.svc.Roster(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}
