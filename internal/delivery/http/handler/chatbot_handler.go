package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/service"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"
)

type ChatbotHandler struct {
	chatbotService *service.ChatbotService
	validator      *validator.CustomValidator
}

func NewChatbotHandler(chatbotService *service.ChatbotService, validator *validator.CustomValidator) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		validator:      validator,
	}
}

func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.NotAuthenticated(w)
		return
	}

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reply, err := h.chatbotService.Chat(r.Context(), principal.Role, req.Messages)
	if err != nil {
		if errors.Is(err, service.ErrChatbotNotConfigured) {
			response.Error(w, http.StatusServiceUnavailable, "Chatbot is not configured", nil)
			return
		}
		response.InternalServerError(w, "Failed to get chatbot reply")
		return
	}

	response.Success(w, http.StatusOK, "Reply generated successfully", &dto.ChatResponse{Reply: reply})
}

func (h *ChatbotHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Chatbot status retrieved", map[string]bool{
		"configured": h.chatbotService.Configured(),
	})
}
