package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Products    ProductService
	Register    MovementRegistrar
	Movements   MovementQueries
	Predictions PredictionService
	Alerts      AlertService
	JWTSecret   string

	// MetricsHandler se monta en MetricsPath si no es nil.
	MetricsHandler nethttp.Handler
	MetricsPath    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RolePlanner, jwt.RoleViewer)
	writers := RequireRole(jwt.RoleAdmin, jwt.RolePlanner)
	admins := RequireRole(jwt.RoleAdmin)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Products, deps.Predictions)
	products.Get("/", anyRole, productHandler.List)
	products.Post("/", writers, productHandler.Create)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Get("/:id/forecast", anyRole, productHandler.Forecast)

	// Transactions (movimientos de stock)
	transactions := api.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Register, deps.Movements)
	transactions.Get("/", anyRole, txHandler.List)
	transactions.Post("/", writers, txHandler.Create)
	transactions.Get("/:id", anyRole, txHandler.GetByID)
	transactions.Delete("/:id", admins, txHandler.Delete)

	// Predictions
	predictions := api.Group("/predictions")
	predictionHandler := NewPredictionHandler(deps.Predictions)
	predictions.Get("/", anyRole, predictionHandler.List)
	predictions.Get("/report", anyRole, predictionHandler.Report)
	predictions.Get("/product/:productId", anyRole, predictionHandler.ListByProduct)
	predictions.Post("/calculate/:productId", writers, predictionHandler.Calculate)
	predictions.Post("/calculate", writers, predictionHandler.CalculateAll)
	predictions.Post("/sweep-low-stock", writers, predictionHandler.SweepLowStock)

	// Alerts
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/", anyRole, alertHandler.List)
	alerts.Post("/", admins, alertHandler.Create)
	alerts.Patch("/:id", writers, alertHandler.UpdateStatus)
	alerts.Delete("/:id", admins, alertHandler.Delete)
}
