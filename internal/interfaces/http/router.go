package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/auth"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Actions      *actions.Service
	Dashboard    *dashboard.Service
	AuthUC       *auth.AuthUseCase
	Metrics      *metrics.Metrics // opcional
	Logger       *logger.Logger
	JWTSecret    string
	SecureCookie bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.SecureCookie, deps.Logger)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// API de lectura (público)
	api := app.Group("/api")
	apiHandler := NewAPIHandler(deps.Dashboard, deps.Logger)
	api.Get("/customers/:id", apiHandler.GetCustomer)
	api.Get("/revenue", apiHandler.GetRevenue)

	// Dashboard (requiere sesión)
	protected := app.Group("/dashboard", AuthMiddleware(deps.JWTSecret))

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Actions, deps.Dashboard, deps.Logger)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Post("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Actions, deps.Dashboard, deps.Logger)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Put("/:id", customerHandler.Update)
	customers.Post("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
}
