package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"attendance_backend/internal/admin/service"
	"attendance_backend/internal/admin/transport"
	"attendance_backend/platform/httpkit"
	"attendance_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidUserID    = "invalid user id"
	msgUserDeleted      = "user deleted"
)

// Handler handles HTTP requests for admin user management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new admin handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the admin endpoints on the admin-only group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/dashboard", h.Dashboard)

	group.GET("/users", h.List)
	group.POST("/users", h.Create)
	group.GET("/users/:id", h.Get)
	group.PUT("/users/:id", h.Update)
	group.PATCH("/users/:id", h.Update)
	group.DELETE("/users/:id", h.Delete)
	group.POST("/users/:id/promote", h.Promote)
	group.POST("/users/:id/demote", h.Demote)

	group.GET("/admins", h.ListAdmins)
	group.GET("/participants", h.ListParticipants)
}

// Dashboard returns the aggregate counters and recent signups.
// GET /api/v1/admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// List returns users matching the query filters.
// GET /api/v1/admin/users
func (h *Handler) List(c *gin.Context) {
	var query transport.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	items, err := h.svc.List(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}

// ListAdmins returns every administrator.
// GET /api/v1/admin/admins
func (h *Handler) ListAdmins(c *gin.Context) {
	items, err := h.svc.ListAdmins(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}

// ListParticipants returns every participant.
// GET /api/v1/admin/participants
func (h *Handler) ListParticipants(c *gin.Context) {
	items, err := h.svc.ListParticipants(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKCount(c, items, len(items))
}

// Get returns a single user.
// GET /api/v1/admin/users/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Create registers a new account.
// POST /api/v1/admin/users
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateUserRequest
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
	httpkit.Created(c, "user created", resp)
}

// Update applies a partial profile update.
// PATCH /api/v1/admin/users/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateUserRequest
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

// Delete removes an account.
// DELETE /api/v1/admin/users/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	caller := httpkit.MustGetIdentity(c)
	if caller == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgUserDeleted, nil)
}

// Promote grants the administrator role.
// POST /api/v1/admin/users/:id/promote
func (h *Handler) Promote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	caller := httpkit.MustGetIdentity(c)
	if caller == nil {
		return
	}

	resp, err := h.svc.Promote(c.Request.Context(), caller.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "user promoted to administrator", resp)
}

// Demote reverts an administrator to participant.
// POST /api/v1/admin/users/:id/demote
func (h *Handler) Demote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	caller := httpkit.MustGetIdentity(c)
	if caller == nil {
		return
	}

	resp, err := h.svc.Demote(c.Request.Context(), caller.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "user demoted to participant", resp)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Fail(c, http.StatusBadRequest, msgInvalidUserID)
		return uuid.Nil, false
	}
	return id, true
}
