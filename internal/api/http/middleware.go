package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, renderer *render.Renderer, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics, renderer))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware converts escaped errors into user-facing pages:
// unauthorized callers go to the login page, everything else renders the
// error template with the mapped status.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, renderer *render.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = errorutil.NewInternalError(nil)
			}
			if err != nil {
				domainErr := errorutil.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}

				if domainErr.Code == "UNAUTHORIZED" {
					err = c.Redirect(auth.LoginPath, fiber.StatusFound)
					return
				}
				err = renderer.Render(c, domainErr.HTTPStatus, "error.html", render.Context{
					"Title":   "Error",
					"Status":  domainErr.HTTPStatus,
					"Message": domainErr.Message,
				})
			}
		}()
		return c.Next()
	}
}
