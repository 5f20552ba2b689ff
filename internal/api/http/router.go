package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Customers *handlers.CustomersHandler
	Orders    *handlers.OrdersHandler
	Products  *handlers.ProductsHandler
	Session   *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. Every page except login/register and
// the health probes sits behind the session gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/login", cfg.Session.RedirectAuthenticated, cfg.Auth.LoginPage)
	app.Post("/login", cfg.Session.RedirectAuthenticated, cfg.Auth.Login)
	app.Get("/register", cfg.Session.RedirectAuthenticated, cfg.Auth.RegisterPage)
	app.Post("/register", cfg.Session.RedirectAuthenticated, cfg.Auth.Register)

	gated := app.Group("", cfg.Session.Handle)
	gated.Post("/logout", cfg.Auth.Logout)

	gated.Get("/", cfg.Dashboard.Home)
	gated.Get("/products", cfg.Products.List)
	gated.Get("/products/new", cfg.Products.NewProduct)
	gated.Post("/products/new", cfg.Products.CreateProduct)

	gated.Get("/customers/new", cfg.Customers.NewCustomer)
	gated.Post("/customers/new", cfg.Customers.CreateCustomer)
	gated.Get("/customers/:id", cfg.Customers.Detail)
	gated.Get("/customers/:id/delete", cfg.Customers.ConfirmDeleteCustomer)
	gated.Post("/customers/:id/delete", cfg.Customers.DeleteCustomer)

	gated.Get("/customers/:id/orders/new", cfg.Orders.NewOrders)
	gated.Post("/customers/:id/orders/new", cfg.Orders.CreateOrders)
	gated.Get("/orders/:id/edit", cfg.Orders.EditOrder)
	gated.Post("/orders/:id/edit", cfg.Orders.UpdateOrder)
	gated.Get("/orders/:id/delete", cfg.Orders.ConfirmDeleteOrder)
	gated.Post("/orders/:id/delete", cfg.Orders.DeleteOrder)
}
