package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/filters"
	"github.com/spec-kit/crm-service/internal/forms"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// CustomersHandler serves the customer pages.
type CustomersHandler struct {
	customers *service.CustomerService
	orders    *service.OrderService
	renderer  *render.Renderer
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService, orders *service.OrderService, renderer *render.Renderer) *CustomersHandler {
	return &CustomersHandler{customers: customers, orders: orders, renderer: renderer}
}

// Detail GET /customers/:id shows the customer with their order history,
// narrowed by any filter criteria in the query string.
func (h *CustomersHandler) Detail(c *fiber.Ctx) error {
	customer, err := h.orders.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}
	filter := filters.ParseOrderFilter(query)

	orders, err := h.orders.CustomerOrders(c.Context(), customer.ID, filter)
	if err != nil {
		return err
	}

	return h.renderer.Render(c, fiber.StatusOK, "customer.html", render.Context{
		"Title":      customer.Name,
		"Customer":   customer,
		"Orders":     orders,
		"OrderCount": len(orders),
		"Filter":     filter,
	})
}

// NewCustomer GET /customers/new renders the blank customer form.
func (h *CustomersHandler) NewCustomer(c *fiber.Ctx) error {
	return h.renderCustomerForm(c, fiber.StatusOK, forms.NewCustomerForm())
}

// CreateCustomer POST /customers/new persists a valid submission.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	form := forms.NewCustomerForm()
	form.Bind(forms.CustomerFormValues{
		Name:  c.FormValue("name"),
		Phone: c.FormValue("phone"),
		Email: c.FormValue("email"),
	})
	if !form.Validate() {
		return h.renderCustomerForm(c, fiber.StatusBadRequest, form)
	}

	customer := form.Customer()
	if err := h.customers.Create(c.Context(), customer); err != nil {
		return err
	}
	return c.Redirect("/customers/"+customer.ID, fiber.StatusFound)
}

// ConfirmDeleteCustomer GET /customers/:id/delete renders the confirmation
// page. Deleting a customer also deletes their orders.
func (h *CustomersHandler) ConfirmDeleteCustomer(c *fiber.Ctx) error {
	customer, err := h.orders.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderer.Render(c, fiber.StatusOK, "customer_delete.html", render.Context{
		"Title":    "Delete customer",
		"Customer": customer,
	})
}

// DeleteCustomer POST /customers/:id/delete removes the customer and, via
// the store's cascade, their orders.
func (h *CustomersHandler) DeleteCustomer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("sign in required")
	}
	if err := h.customers.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (h *CustomersHandler) renderCustomerForm(c *fiber.Ctx, status int, form *forms.CustomerForm) error {
	return h.renderer.Render(c, status, "customer_form.html", render.Context{
		"Title": "Create customer",
		"Form":  form,
	})
}
