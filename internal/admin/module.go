// Package admin provides the user-management bounded context: the admin
// dashboard, account CRUD, and the guarded promote/demote/delete
// operations.
package admin

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/internal/admin/handler"
	"attendance_backend/internal/admin/repository"
	"attendance_backend/internal/admin/service"
	"attendance_backend/internal/events"
	apphttp "attendance_backend/internal/http"
	"attendance_backend/platform/logger"
	"attendance_backend/platform/validator"
)

// Module is the admin bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the admin module with all its
// dependencies. The course day and attendance counters come from their
// respective modules.
func NewModule(pool *pgxpool.Pool, courseDays service.CourseDayCounter, attendances service.AttendanceCounter, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, courseDays, attendances, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "admin"
}

// Repository exposes the user store for the worker's reminder pipeline.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts the admin routes on the admin-only group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
