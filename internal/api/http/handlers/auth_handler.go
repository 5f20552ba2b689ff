package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/forms"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
)

// AuthHandler serves login, signup and logout.
type AuthHandler struct {
	auth     *service.AuthService
	users    repository.UserRepository
	renderer *render.Renderer
	cfg      config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, users repository.UserRepository, renderer *render.Renderer, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, users: users, renderer: renderer, cfg: cfg}
}

// LoginPage GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.renderer.Render(c, fiber.StatusOK, "login.html", render.Context{
		"Title": "Login",
	})
}

// Login POST /login authenticates and sets the session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	_, token, exp, err := h.auth.Login(c.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return h.renderer.Render(c, fiber.StatusBadRequest, "login.html", render.Context{
				"Title":    "Login",
				"Error":    "username or password is incorrect",
				"Username": username,
			})
		}
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.Redirect("/", fiber.StatusFound)
}

// RegisterPage GET /register.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.renderSignupForm(c, fiber.StatusOK, forms.NewSignupForm(h.users))
}

// Register POST /register validates the signup form, creates the account
// and signs the new user in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	form := forms.NewSignupForm(h.users)
	form.Bind(forms.SignupFormValues{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	})
	if !form.Validate(c.Context()) {
		return h.renderSignupForm(c, fiber.StatusBadRequest, form)
	}

	_, token, exp, err := h.auth.Register(c.Context(), form.Username(), form.Email(), c.FormValue("password1"))
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.Redirect("/", fiber.StatusFound)
}

// Logout POST /logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if err := h.auth.Logout(c.Context(), principal); err != nil {
			return err
		}
	}
	c.ClearCookie(h.cfg.CookieName)
	return c.Redirect(auth.LoginPath, fiber.StatusFound)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Expires:  exp,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) renderSignupForm(c *fiber.Ctx, status int, form *forms.SignupForm) error {
	return h.renderer.Render(c, status, "register.html", render.Context{
		"Title": "Register",
		"Form":  form,
	})
}
