package forms

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// UserResolver answers uniqueness checks during signup.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

const minPasswordLength = 8

// SignupFormValues carries the raw submitted registration fields.
type SignupFormValues struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// SignupForm validates a new account submission, including username and
// email uniqueness.
type SignupForm struct {
	users UserResolver

	Values SignupFormValues
	Errors map[string]string
	bound  bool
}

// NewSignupForm returns an unbound form.
func NewSignupForm(users UserResolver) *SignupForm {
	return &SignupForm{users: users, Errors: map[string]string{}}
}

// Bind attaches submitted data to the form.
func (f *SignupForm) Bind(values SignupFormValues) {
	f.Values = values
	f.bound = true
}

// Validate populates Errors and reports overall validity.
func (f *SignupForm) Validate(ctx context.Context) bool {
	f.Errors = map[string]string{}
	if !f.bound {
		f.Errors["__all__"] = "no data submitted"
		return false
	}

	username := strings.TrimSpace(f.Values.Username)
	if username == "" {
		f.Errors["username"] = "this field is required"
	} else if _, err := f.users.GetByUsername(ctx, username); err == nil {
		f.Errors["username"] = "a user with that username already exists"
	} else if !errors.Is(err, pgx.ErrNoRows) {
		f.Errors["username"] = "username lookup failed"
	}

	email := strings.TrimSpace(f.Values.Email)
	if email == "" {
		f.Errors["email"] = "this field is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		f.Errors["email"] = "enter a valid email address"
	} else if _, err := f.users.GetByEmail(ctx, email); err == nil {
		f.Errors["email"] = "a user with that email already exists"
	} else if !errors.Is(err, pgx.ErrNoRows) {
		f.Errors["email"] = "email lookup failed"
	}

	switch {
	case f.Values.Password1 == "":
		f.Errors["password1"] = "this field is required"
	case len(f.Values.Password1) < minPasswordLength:
		f.Errors["password1"] = "password must be at least 8 characters"
	case f.Values.Password1 != f.Values.Password2:
		f.Errors["password2"] = "the two password fields did not match"
	}

	return len(f.Errors) == 0
}

// Username returns the cleaned username.
func (f *SignupForm) Username() string { return strings.TrimSpace(f.Values.Username) }

// Email returns the cleaned email.
func (f *SignupForm) Email() string { return strings.TrimSpace(f.Values.Email) }
