package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	pg    *persistence.Postgres
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pg *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{pg: pg, redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready verifies both backing stores.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.pg == nil || h.pg.PoolHandle() == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "postgres not configured"})
	}
	if err := h.pg.PoolHandle().Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "postgres unreachable"})
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "redis unreachable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
