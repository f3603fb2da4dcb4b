// Package coursedays provides the course day bounded context: scheduling
// lesson days, check-in codes and QR rendering, and reminder queuing.
// Course days are readable by any authenticated user but writable only by
// administrators.
package coursedays

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/internal/coursedays/handler"
	"attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/coursedays/service"
	apphttp "attendance_backend/internal/http"
	"attendance_backend/platform/httpkit"
	"attendance_backend/platform/logger"
	"attendance_backend/platform/validator"
)

// Module is the course days bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the course days module. scheduler may
// be nil when no Redis connection is configured.
func NewModule(pool *pgxpool.Pool, scheduler service.ReminderScheduler, leadTime time.Duration, baseURL string, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, scheduler, leadTime, log)
	h := handler.New(svc, val, baseURL)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "coursedays"
}

// Service returns the course days service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the course day store for the worker's reminder
// pipeline.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts course day routes: reads for any authenticated
// user, writes for administrators only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/course-days")
	group.Use(httpkit.AdminWriteAnyRead())
	m.handler.RegisterRoutes(group, ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
