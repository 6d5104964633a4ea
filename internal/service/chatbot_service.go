package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mediconnect/config"
	"mediconnect/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

var ErrChatbotNotConfigured = errors.New("chatbot API key is not configured")

// ChatMessage is one turn of a chatbot conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatbotService is a stateless pass-through to an OpenRouter-compatible
// chat-completions API. The caller's role selects the system prompt; no
// conversation state is kept server-side.
type ChatbotService struct {
	cfg        config.ChatbotConfig
	log        *logrus.Logger
	httpClient *http.Client
}

func NewChatbotService(cfg config.ChatbotConfig, log *logrus.Logger) *ChatbotService {
	return &ChatbotService{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *ChatbotService) Configured() bool {
	return s.cfg.APIKey != ""
}

// Chat forwards the conversation and returns the assistant reply.
func (s *ChatbotService) Chat(ctx context.Context, role entity.Role, messages []ChatMessage) (string, error) {
	if !s.Configured() {
		return "", ErrChatbotNotConfigured
	}

	type apiMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	apiMessages := make([]apiMessage, 0, len(messages)+1)
	apiMessages = append(apiMessages, apiMessage{Role: "system", Content: systemPrompt(role)})
	for _, m := range messages {
		apiMessages = append(apiMessages, apiMessage{Role: m.Role, Content: m.Content})
	}

	payload := map[string]interface{}{
		"model":       s.cfg.Model,
		"messages":    apiMessages,
		"temperature": 0.7,
		"max_tokens":  1000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warnf("Chat completion request failed: %+v", err)
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.log.Warnf("Chat completion returned status %d: %s", resp.StatusCode, raw)
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func systemPrompt(role entity.Role) string {
	switch role {
	case entity.RoleDoctor:
		return "You are a clinical assistant for a doctor using the MediConnect platform. " +
			"Help with scheduling questions, documentation wording, and general medical reference. " +
			"Never fabricate patient data and remind the doctor to verify clinical decisions."
	case entity.RolePharmacy:
		return "You are an assistant for a pharmacy using the MediConnect platform. " +
			"Help with prescription workflow and inventory questions. " +
			"Do not give dosing advice beyond standard labeling."
	default:
		return "You are a friendly health assistant for a patient using the MediConnect platform. " +
			"Answer general health questions, help with booking appointments, and always advise " +
			"consulting a doctor for medical concerns. Never provide a diagnosis."
	}
}
