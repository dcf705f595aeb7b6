package mcp

import (
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against a chatbot's index.
	Answer driving.AnswerService

	// Chatbot lists chatbots and exposes their history.
	Chatbot driving.ChatbotService

	// Training rebuilds a chatbot's index.
	Training driving.TrainingService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Chatbot and Training are optional; their tools report unavailability.
	return nil
}
