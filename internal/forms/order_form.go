// Package forms binds submitted request values to typed records and
// validates them field by field. Handlers re-render invalid forms with the
// per-field messages collected here; nothing is persisted until a form
// validates.
package forms

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// ProductResolver checks that a submitted product reference exists.
type ProductResolver interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// OrderFormValues carries the raw submitted fields of a single order row.
type OrderFormValues struct {
	Product string
	Status  string
	Note    string
}

// IsBlank reports whether every field was left empty. Blank rows in a
// formset are skipped, not rejected.
func (v OrderFormValues) IsBlank() bool {
	return strings.TrimSpace(v.Product) == "" &&
		strings.TrimSpace(v.Status) == "" &&
		strings.TrimSpace(v.Note) == ""
}

// OrderForm validates one order record. It may be bound to an existing
// order (edit) or build a new one (create).
type OrderForm struct {
	products ProductResolver

	Values   OrderFormValues
	Instance *domain.Order
	Errors   map[string]string
	bound    bool
}

// NewOrderForm returns an unbound form rendering blank fields.
func NewOrderForm(products ProductResolver) *OrderForm {
	return &OrderForm{products: products, Errors: map[string]string{}}
}

// NewOrderFormFor returns an unbound form pre-filled from an existing order.
func NewOrderFormFor(products ProductResolver, instance *domain.Order) *OrderForm {
	form := NewOrderForm(products)
	form.Instance = instance
	form.Values = OrderFormValues{
		Product: instance.ProductID,
		Status:  string(instance.Status),
		Note:    instance.Note,
	}
	return form
}

// Bind attaches submitted data to the form.
func (f *OrderForm) Bind(values OrderFormValues) {
	f.Values = values
	f.bound = true
}

// Validate runs field validation and populates Errors. It returns true only
// when the form is bound and every field passes.
func (f *OrderForm) Validate(ctx context.Context) bool {
	f.Errors = map[string]string{}
	if !f.bound {
		f.Errors["__all__"] = "no data submitted"
		return false
	}

	product := strings.TrimSpace(f.Values.Product)
	if product == "" {
		f.Errors["product"] = "this field is required"
	} else if _, err := f.products.GetByID(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			f.Errors["product"] = "select a valid product"
		} else {
			f.Errors["product"] = "product lookup failed"
		}
	}

	status := domain.OrderStatus(strings.TrimSpace(f.Values.Status))
	if status == "" {
		f.Errors["status"] = "this field is required"
	} else if !domain.ValidOrderStatus(status) {
		f.Errors["status"] = "select a valid status"
	}

	return len(f.Errors) == 0
}

// Order materializes the validated values. With a bound instance the
// existing order is mutated in place; otherwise a new order owned by
// customerID is returned. Call only after Validate reports true.
func (f *OrderForm) Order(customerID string) *domain.Order {
	order := f.Instance
	if order == nil {
		order = &domain.Order{CustomerID: customerID}
	}
	order.ProductID = strings.TrimSpace(f.Values.Product)
	order.Status = domain.OrderStatus(strings.TrimSpace(f.Values.Status))
	order.Note = strings.TrimSpace(f.Values.Note)
	return order
}
