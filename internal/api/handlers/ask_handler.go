package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clubstats/backend/internal/chatbot"
)

type AskHandler struct {
	engine            *chatbot.Engine
	maxQuestionLength int
	maxContextLength  int
}

func NewAskHandler(engine *chatbot.Engine, maxQuestionLength, maxContextLength int) *AskHandler {
	if maxQuestionLength <= 0 {
		maxQuestionLength = 500
	}
	if maxContextLength <= 0 {
		maxContextLength = 100
	}
	return &AskHandler{
		engine:            engine,
		maxQuestionLength: maxQuestionLength,
		maxContextLength:  maxContextLength,
	}
}

type askRequest struct {
	Question    string `json:"question"`
	UserContext string `json:"user_context"`
}

func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}
	if len(req.Question) > h.maxQuestionLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question exceeds maximum length",
		})
	}
	if len(req.UserContext) > h.maxContextLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User context exceeds maximum length",
		})
	}

	response := h.engine.Ask(c.Context(), chatbot.QuestionContext{
		Question:    req.Question,
		UserContext: strings.TrimSpace(req.UserContext),
	})

	return c.JSON(response)
}
