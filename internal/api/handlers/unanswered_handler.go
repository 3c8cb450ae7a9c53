package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/recorder"
	"github.com/clubstats/backend/internal/storage/models"
	"github.com/clubstats/backend/pkg/logger"
)

// UnansweredHandler is the admin surface over the unanswered-question store,
// consumed by the club admin UI.
type UnansweredHandler struct {
	recorder *recorder.Recorder
}

func NewUnansweredHandler(rec *recorder.Recorder) *UnansweredHandler {
	return &UnansweredHandler{recorder: rec}
}

func (h *UnansweredHandler) List(c *fiber.Ctx) error {
	var filter models.UnansweredFilter

	if v := c.Query("handled"); v != "" {
		handled, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "handled must be true or false")
		}
		filter.Handled = &handled
	}
	if v := c.Query("confidence_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "confidence_min must be a number")
		}
		filter.MinConfidence = &f
	}
	if v := c.Query("confidence_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "confidence_max must be a number")
		}
		filter.MaxConfidence = &f
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "date_from must be RFC3339")
		}
		filter.From = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "date_to must be RFC3339")
		}
		filter.To = &t
	}
	filter.Limit = c.QueryInt("limit", 50)
	filter.Offset = c.QueryInt("offset", 0)

	records, err := h.recorder.List(filter)
	if err != nil {
		logger.Error("Failed to list unanswered questions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list unanswered questions",
		})
	}

	if records == nil {
		records = []models.UnansweredQuestion{}
	}
	return c.JSON(fiber.Map{
		"records": records,
		"count":   len(records),
	})
}

func (h *UnansweredHandler) MarkHandled(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.recorder.MarkHandled(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unanswered question not found",
		})
	}
	return c.JSON(fiber.Map{"status": "handled"})
}

func (h *UnansweredHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.recorder.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unanswered question not found",
		})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *UnansweredHandler) DeleteAll(c *fiber.Ctx) error {
	deleted, err := h.recorder.DeleteAll()
	if err != nil {
		logger.Error("Failed to delete unanswered questions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete unanswered questions",
		})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (h *UnansweredHandler) PurgeHandled(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 {
		return badRequest(c, "days must be at least 1")
	}

	deleted, err := h.recorder.PurgeHandledOlderThan(days)
	if err != nil {
		logger.Error("Failed to purge handled questions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to purge handled questions",
		})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
