package forms

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

type fakeProducts struct {
	known map[string]*domain.Product
}

func newFakeProducts(ids ...string) *fakeProducts {
	known := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		known[id] = &domain.Product{ID: id, Name: "product-" + id}
	}
	return &fakeProducts{known: known}
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if product, ok := f.known[id]; ok {
		return product, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeUsers struct {
	usernames map[string]bool
	emails    map[string]bool
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.usernames[username] {
		return &domain.User{Username: username}, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.emails[email] {
		return &domain.User{Email: email}, nil
	}
	return nil, pgx.ErrNoRows
}

func TestOrderFormValid(t *testing.T) {
	form := NewOrderForm(newFakeProducts("p1"))
	form.Bind(OrderFormValues{Product: "p1", Status: "Pending", Note: "call first"})

	require.True(t, form.Validate(context.Background()))

	order := form.Order("c1")
	assert.Equal(t, "c1", order.CustomerID)
	assert.Equal(t, "p1", order.ProductID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "call first", order.Note)
}

func TestOrderFormUnknownProduct(t *testing.T) {
	form := NewOrderForm(newFakeProducts("p1"))
	form.Bind(OrderFormValues{Product: "missing", Status: "Pending"})

	require.False(t, form.Validate(context.Background()))
	assert.Equal(t, "select a valid product", form.Errors["product"])
}

func TestOrderFormStatusOutsideEnum(t *testing.T) {
	form := NewOrderForm(newFakeProducts("p1"))
	form.Bind(OrderFormValues{Product: "p1", Status: "Shipped"})

	require.False(t, form.Validate(context.Background()))
	assert.Equal(t, "select a valid status", form.Errors["status"])
}

func TestOrderFormUnboundInvalid(t *testing.T) {
	form := NewOrderForm(newFakeProducts("p1"))
	assert.False(t, form.Validate(context.Background()))
}

func TestOrderFormMutatesBoundInstance(t *testing.T) {
	existing := &domain.Order{ID: "o1", CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending}
	form := NewOrderFormFor(newFakeProducts("p1", "p2"), existing)

	assert.Equal(t, "p1", form.Values.Product)

	form.Bind(OrderFormValues{Product: "p2", Status: "Done"})
	require.True(t, form.Validate(context.Background()))

	order := form.Order(existing.CustomerID)
	assert.Same(t, existing, order)
	assert.Equal(t, "p2", order.ProductID)
	assert.Equal(t, domain.OrderStatusDone, order.Status)
}

func TestSignupFormDuplicateEmail(t *testing.T) {
	users := &fakeUsers{emails: map[string]bool{"taken@example.com": true}}
	form := NewSignupForm(users)
	form.Bind(SignupFormValues{
		Username:  "newuser",
		Email:     "taken@example.com",
		Password1: "supersecret",
		Password2: "supersecret",
	})

	require.False(t, form.Validate(context.Background()))
	assert.Equal(t, "a user with that email already exists", form.Errors["email"])
}

func TestSignupFormPasswordMismatch(t *testing.T) {
	form := NewSignupForm(&fakeUsers{})
	form.Bind(SignupFormValues{
		Username:  "newuser",
		Email:     "new@example.com",
		Password1: "supersecret",
		Password2: "different",
	})

	require.False(t, form.Validate(context.Background()))
	assert.Contains(t, form.Errors, "password2")
}

func TestCustomerFormRequiresName(t *testing.T) {
	form := NewCustomerForm()
	form.Bind(CustomerFormValues{Email: "joe@example.com"})

	require.False(t, form.Validate())
	assert.Contains(t, form.Errors, "name")
}
