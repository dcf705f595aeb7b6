// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/botly/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChatbots lists the user's chatbots.
	ViewChatbots ViewType = iota
	// ViewChat is the conversation with one chatbot.
	ViewChat
	// ViewSettings shows the current configuration.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChatbots:
		return "chatbots"
	case ViewChat:
		return "chat"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ChatbotsLoaded carries the user's chatbots from the service.
type ChatbotsLoaded struct {
	Chatbots []domain.Chatbot
	Err      error
}

// ChatbotSelected signals a chatbot was opened for chatting.
type ChatbotSelected struct {
	Chatbot domain.Chatbot
}

// ChatbotDeleted signals a chatbot was removed.
type ChatbotDeleted struct {
	Key domain.ChatbotKey
	Err error
}

// QuestionSubmitted is sent when the user asks a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the answer to a submitted question.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
