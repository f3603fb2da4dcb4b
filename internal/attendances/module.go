// Package attendances provides the attendance bounded context: participant
// check-ins by code and the admin roster per course day.
package attendances

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/internal/attendances/handler"
	"attendance_backend/internal/attendances/repository"
	"attendance_backend/internal/attendances/service"
	"attendance_backend/internal/events"
	apphttp "attendance_backend/internal/http"
	"attendance_backend/platform/logger"
	"attendance_backend/platform/validator"
)

// Module is the attendances bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the attendances module. The resolver
// comes from the course days module.
func NewModule(pool *pgxpool.Pool, resolver service.CourseDayResolver, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "attendances"
}

// Service returns the attendances service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts check-in routes for participants and the roster
// for administrators.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Participant, ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
