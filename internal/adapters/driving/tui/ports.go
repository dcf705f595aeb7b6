// Package tui provides an interactive terminal user interface for chatting
// with trained chatbots. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// UserID scopes every chatbot operation.
	UserID int64

	// Chatbot lists and deletes the user's chatbots.
	Chatbot driving.ChatbotService

	// Answer answers questions from a chatbot's index.
	Answer driving.AnswerService

	// Settings shows the active configuration. Optional.
	Settings driving.SettingsService

	// APIKey overrides the configured LLM key for every question. Optional.
	APIKey string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(userID int64, chatbot driving.ChatbotService, answer driving.AnswerService) *Ports {
	return &Ports{
		UserID:  userID,
		Chatbot: chatbot,
		Answer:  answer,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Chatbot == nil {
		return ErrMissingChatbotService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.UserID <= 0 {
		return ErrInvalidUser
	}
	return nil
}
