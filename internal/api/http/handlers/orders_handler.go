package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/forms"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// OrdersHandler drives the order workflow pages: batch creation for a
// customer, single-order edit, and delete with confirmation. Every handler
// sits behind the session middleware.
type OrdersHandler struct {
	orders   *service.OrderService
	products repository.ProductRepository
	renderer *render.Renderer
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, products repository.ProductRepository, renderer *render.Renderer) *OrdersHandler {
	return &OrdersHandler{orders: orders, products: products, renderer: renderer}
}

// NewOrders GET /customers/:id/orders/new renders the blank formset.
func (h *OrdersHandler) NewOrders(c *fiber.Ctx) error {
	customer, err := h.orders.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	formset := forms.NewOrderFormSet(h.products, customer, 0)
	return h.renderFormSet(c, fiber.StatusOK, customer, formset)
}

// CreateOrders POST /customers/:id/orders/new validates the submitted
// formset and persists every non-blank row in one transaction.
func (h *OrdersHandler) CreateOrders(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("sign in required")
	}
	customer, err := h.orders.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	values, err := formBody(c)
	if err != nil {
		return errorutil.NewValidationError("malformed form body", nil)
	}

	formset := forms.NewOrderFormSet(h.products, customer, 0)
	formset.Bind(values)
	if !formset.Validate(c.Context()) {
		return h.renderFormSet(c, fiber.StatusBadRequest, customer, formset)
	}

	if err := h.orders.CreateOrders(c.Context(), principal.User.ID, formset.Orders()); err != nil {
		return err
	}
	return c.Redirect("/customers/"+customer.ID, fiber.StatusFound)
}

// EditOrder GET /orders/:id/edit renders the pre-filled single-order form.
// A missing order surfaces as a not-found page.
func (h *OrdersHandler) EditOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	form := forms.NewOrderFormFor(h.products, order)
	return h.renderForm(c, fiber.StatusOK, order, form)
}

// UpdateOrder POST /orders/:id/edit persists a valid mutation and returns
// to the dashboard; an invalid one re-renders with inline errors.
func (h *OrdersHandler) UpdateOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("sign in required")
	}
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	oldStatus := order.Status

	form := forms.NewOrderFormFor(h.products, order)
	form.Bind(forms.OrderFormValues{
		Product: c.FormValue("product"),
		Status:  c.FormValue("status"),
		Note:    c.FormValue("note"),
	})
	if !form.Validate(c.Context()) {
		return h.renderForm(c, fiber.StatusBadRequest, order, form)
	}

	updated := form.Order(order.CustomerID)
	if err := h.orders.UpdateOrder(c.Context(), principal.User.ID, updated, oldStatus); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// ConfirmDeleteOrder GET /orders/:id/delete renders the confirmation page
// without mutating anything.
func (h *OrdersHandler) ConfirmDeleteOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderer.Render(c, fiber.StatusOK, "order_delete.html", render.Context{
		"Title": "Delete order",
		"Order": order,
	})
}

// DeleteOrder POST /orders/:id/delete removes the order and returns to the
// dashboard.
func (h *OrdersHandler) DeleteOrder(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("sign in required")
	}
	if err := h.orders.DeleteOrder(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (h *OrdersHandler) renderFormSet(c *fiber.Ctx, status int, customer *domain.Customer, formset *forms.OrderFormSet) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return err
	}
	return h.renderer.Render(c, status, "order_formset.html", render.Context{
		"Title":    "Create orders",
		"Customer": customer,
		"FormSet":  formset,
		"Products": products,
		"Statuses": domain.OrderStatuses(),
	})
}

func (h *OrdersHandler) renderForm(c *fiber.Ctx, status int, order *domain.Order, form *forms.OrderForm) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return err
	}
	return h.renderer.Render(c, status, "order_form.html", render.Context{
		"Title":    "Update order",
		"Order":    order,
		"Form":     form,
		"Products": products,
		"Statuses": domain.OrderStatuses(),
	})
}

// formBody parses an urlencoded POST body, keeping repeated and indexed
// keys the formset needs.
func formBody(c *fiber.Ctx) (url.Values, error) {
	return url.ParseQuery(string(c.Body()))
}
