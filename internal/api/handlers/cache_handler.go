package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clubstats/backend/pkg/logger"
)

// ResponseInvalidator drops every cached answer. Called after a statistics
// import so stale aggregates are not served for the rest of the TTL.
type ResponseInvalidator interface {
	InvalidateResponses(ctx context.Context) error
}

type CacheHandler struct {
	cache ResponseInvalidator
}

func NewCacheHandler(cache ResponseInvalidator) *CacheHandler {
	return &CacheHandler{cache: cache}
}

func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	if err := h.cache.InvalidateResponses(c.Context()); err != nil {
		logger.Error("Failed to invalidate response cache", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to invalidate response cache",
		})
	}
	return c.JSON(fiber.Map{"status": "invalidated"})
}
