package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/chatbot"
	"github.com/clubstats/backend/pkg/logger"
)

// WebSocketHandler streams answers word by word so the club site can render a
// typing effect.
type WebSocketHandler struct {
	engine *chatbot.Engine
}

func NewWebSocketHandler(engine *chatbot.Engine) *WebSocketHandler {
	return &WebSocketHandler{engine: engine}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type        string `json:"type"`
			Question    string `json:"question"`
			UserContext string `json:"user_context"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "question" || strings.TrimSpace(msg.Question) == "" {
			continue
		}

		if err := h.streamAnswer(c, msg.Question, msg.UserContext); err != nil {
			logger.Error("Failed to stream answer", zap.Error(err))
			h.sendError(c, "Failed to process question")
		}
	}
}

func (h *WebSocketHandler) streamAnswer(c *websocket.Conn, question, userContext string) error {
	response := h.engine.Ask(context.Background(), chatbot.QuestionContext{
		Question:    question,
		UserContext: userContext,
	})

	words := strings.Fields(response.Answer)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]any{
		"type":          "complete",
		"sources":       response.Sources,
		"visualization": response.Visualization,
		"confidence":    response.Confidence,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]any{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]any{
		"type":  "error",
		"error": errorMsg,
	})
}
