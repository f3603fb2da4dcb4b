package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"attendance_backend/internal/coursedays/service"
	"attendance_backend/internal/coursedays/transport"
	"attendance_backend/platform/httpkit"
	"attendance_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidCourseID  = "invalid course day id"
	msgCourseDayDeleted = "course day deleted"
	qrImageSize         = 256
)

// Handler handles HTTP requests for course days.
type Handler struct {
	svc     *service.Service
	val     *validator.Validator
	baseURL string
}

// New creates a new course days handler. baseURL is the frontend origin
// encoded into check-in QR codes.
func New(svc *service.Service, val *validator.Validator, baseURL string) *Handler {
	return &Handler{svc: svc, val: val, baseURL: baseURL}
}

// RegisterRoutes mounts the read/write endpoints on the mixed-access group
// and the QR endpoint on the admin group.
func (h *Handler) RegisterRoutes(group, adminGroup *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)

	adminGroup.GET("/course-days/:id/qr", h.CheckinQR)
}

// List returns course days, optionally only upcoming ones.
// GET /api/v1/course-days
func (h *Handler) List(c *gin.Context) {
	var query transport.ListCourseDaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	identity := httpkit.GetIdentity(c)
	items, err := h.svc.List(c.Request.Context(), query.Upcoming, identity.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}

// Get returns a single course day.
// GET /api/v1/course-days/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := httpkit.GetIdentity(c)
	resp, err := h.svc.Get(c.Request.Context(), id, identity.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Create schedules a new course day.
// POST /api/v1/course-days
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCourseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "course day created", resp)
}

// Update applies a partial course day update.
// PATCH /api/v1/course-days/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCourseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Delete removes a course day.
// DELETE /api/v1/course-days/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgCourseDayDeleted, nil)
}

// CheckinQR renders the course day's check-in link as a PNG QR code.
// GET /api/v1/admin/course-days/:id/qr
func (h *Handler) CheckinQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	content, err := h.svc.CheckinContent(c.Request.Context(), id, h.baseURL)
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidCourseID)
		return uuid.Nil, false
	}
	return id, true
}
