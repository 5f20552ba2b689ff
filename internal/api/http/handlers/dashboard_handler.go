package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/service"
)

const recentOrderLimit = 5

// DashboardHandler serves the home page with aggregate counts, the
// customer roster and the most recent orders.
type DashboardHandler struct {
	dashboard *service.DashboardService
	customers *service.CustomerService
	renderer  *render.Renderer
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, customers *service.CustomerService, renderer *render.Renderer) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, customers: customers, renderer: renderer}
}

// Home GET /.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.Context())
	if err != nil {
		return err
	}
	customers, err := h.customers.List(c.Context())
	if err != nil {
		return err
	}
	recent, err := h.dashboard.RecentOrders(c.Context(), recentOrderLimit)
	if err != nil {
		return err
	}

	ctx := render.Context{
		"Title":     "Dashboard",
		"Stats":     stats,
		"Customers": customers,
		"Orders":    recent,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		ctx["User"] = principal.User
	}
	return h.renderer.Render(c, fiber.StatusOK, "dashboard.html", ctx)
}
