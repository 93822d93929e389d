package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pregai/pregai-backend/internal/chatbot"
)

type ChatbotHandler struct {
	responder *chatbot.Responder
}

func NewChatbotHandler(responder *chatbot.Responder) *ChatbotHandler {
	return &ChatbotHandler{responder: responder}
}

func (ch *ChatbotHandler) Message(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	reply := ch.responder.Reply(req.Message)
	RespondOK(c, gin.H{"response": reply, "suggestions": chatbot.MessageSuggestions})
}

func (ch *ChatbotHandler) Suggestions(c *gin.Context) {
	RespondOK(c, gin.H{"suggestions": chatbot.StarterSuggestions})
}
