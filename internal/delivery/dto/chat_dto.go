package dto

import "mediconnect/internal/service"

type ChatRequest struct {
	Messages []service.ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
