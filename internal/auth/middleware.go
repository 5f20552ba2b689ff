package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

const principalKey = "auth_principal"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Principal represents the authenticated caller.
type Principal struct {
	User     *domain.User
	TokenID  string
	TokenExp int64
}

// SessionMiddleware validates session cookies and loads principals. Any
// failure redirects to the login page before a handler can touch the store.
type SessionMiddleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	revocation RevocationStore
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, users repository.UserRepository, revocation RevocationStore, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, users: users, revocation: revocation, cookieName: cookieName}
}

// Handle enforces authentication for gated routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return c.Redirect(LoginPath, fiber.StatusFound)
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		c.ClearCookie(m.cookieName)
		return c.Redirect(LoginPath, fiber.StatusFound)
	}

	if m.revocation != nil {
		revoked, err := m.revocation.IsRevoked(c.Context(), claims.ID)
		if err == nil && revoked {
			c.ClearCookie(m.cookieName)
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.ClearCookie(m.cookieName)
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		return err
	}

	c.Locals(principalKey, &Principal{
		User:     user,
		TokenID:  claims.ID,
		TokenExp: claims.ExpiresAt.Unix(),
	})
	return c.Next()
}

// RedirectAuthenticated sends signed-in users from the login and register
// pages back to the dashboard.
func (m *SessionMiddleware) RedirectAuthenticated(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return c.Next()
	}
	if _, err := m.tokens.ParseToken(token); err != nil {
		return c.Next()
	}
	return c.Redirect("/", fiber.StatusFound)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
