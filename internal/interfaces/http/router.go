package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/crm-farma/internal/application/territory"
	"github.com/jhoicas/crm-farma/pkg/jwt"
	"github.com/jhoicas/crm-farma/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BulkAssignment     *territory.BulkAssignmentUseCase
	ProvinceAssignment *territory.ProvinceAssignmentUseCase
	AssignmentUC       *territory.AssignmentUseCase
	JWTSecret          string
	Gatherer           prometheus.Gatherer // nil = sin /metrics
	Logger             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(jwt.RoleAdmin, jwt.RoleGestor)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleGestor, jwt.RoleComercial)

	h := NewAssignmentHandler(deps.BulkAssignment, deps.ProvinceAssignment, deps.AssignmentUC, deps.Logger)

	// Assignments
	assignments := protected.Group("/assignments")
	assignments.Post("/bulk", canWrite, h.BulkAssign)
	assignments.Post("/province", canWrite, h.ProvinceAssign)
	assignments.Post("/", canWrite, h.Create)
	assignments.Get("/", anyRole, h.List)
	assignments.Get("/:id", anyRole, h.GetByID)
	assignments.Put("/:id", canWrite, h.Update)
	assignments.Post("/:id/deactivate", canWrite, h.Deactivate)
	assignments.Delete("/:id", RequireRole(jwt.RoleAdmin), h.Delete)

	// Commercials
	commercials := protected.Group("/commercials")
	commercials.Get("/:id/priority", anyRole, h.EffectivePriority)
}
