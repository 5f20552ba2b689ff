package forms

import (
	"net/mail"
	"strings"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CustomerFormValues carries the raw submitted customer fields.
type CustomerFormValues struct {
	Name  string
	Phone string
	Email string
}

// CustomerForm validates a submitted customer record.
type CustomerForm struct {
	Values CustomerFormValues
	Errors map[string]string
	bound  bool
}

// NewCustomerForm returns an unbound form.
func NewCustomerForm() *CustomerForm {
	return &CustomerForm{Errors: map[string]string{}}
}

// Bind attaches submitted data to the form.
func (f *CustomerForm) Bind(values CustomerFormValues) {
	f.Values = values
	f.bound = true
}

// Validate populates Errors and reports overall validity.
func (f *CustomerForm) Validate() bool {
	f.Errors = map[string]string{}
	if !f.bound {
		f.Errors["__all__"] = "no data submitted"
		return false
	}
	if strings.TrimSpace(f.Values.Name) == "" {
		f.Errors["name"] = "this field is required"
	}
	if email := strings.TrimSpace(f.Values.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			f.Errors["email"] = "enter a valid email address"
		}
	}
	return len(f.Errors) == 0
}

// Customer materializes the validated values.
func (f *CustomerForm) Customer() *domain.Customer {
	return &domain.Customer{
		Name:  strings.TrimSpace(f.Values.Name),
		Phone: strings.TrimSpace(f.Values.Phone),
		Email: strings.TrimSpace(f.Values.Email),
	}
}
