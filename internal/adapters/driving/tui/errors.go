package tui

import "errors"

// ErrMissingChatbotService is returned when the chatbot service is not provided.
var ErrMissingChatbotService = errors.New("tui: chatbot service is required")

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("tui: answer service is required")

// ErrInvalidUser is returned when the ports are not scoped to a valid user.
var ErrInvalidUser = errors.New("tui: user id must be positive")
