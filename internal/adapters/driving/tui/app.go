package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/views/chatbots"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/botly/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chatbotsView lists the user's chatbots and is the start view.
	chatbotsView *chatbots.View

	// chatView is the conversation with the selected chatbot.
	chatView *chat.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		chatbotsView: chatbots.NewView(s, ports.Chatbot, ports.UserID),
		chatView:     chat.NewView(s, km, ports.Answer, ports.APIKey),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewChatbots,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatbotsView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("botly"),
		a.chatbotsView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewChatbots:
			a.chatbotsView, cmd = a.chatbotsView.Update(msg)
			return a, cmd

		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?" {
				a.currentView = messages.ViewChatbots
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewChatbots:
			return a, a.chatbotsView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewHelp:
		}
		return a, nil

	case messages.ChatbotSelected:
		a.chatView.SetChatbot(msg.Chatbot)
		a.currentView = messages.ViewChat
		return a, a.chatView.Init()

	case messages.ChatbotsLoaded, messages.ChatbotDeleted:
		a.chatbotsView, cmd = a.chatbotsView.Update(msg)
		a.err = a.chatbotsView.Err()
		return a, cmd

	case messages.AnswerReceived:
		// Answers land in the chat view even if the user navigated away.
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewChat {
			a.chatView, cmd = a.chatView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, cursor blinks) to the active view.
	switch a.currentView {
	case messages.ViewChatbots:
		a.chatbotsView, cmd = a.chatbotsView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chatbotsView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Chatbots:
  j/k, ↑/↓    Navigate chatbots
  enter       Chat with chatbot
  d           Delete chatbot
  r           Reload
  s           Settings
  q           Quit

Chat:
  enter       Ask question
  pgup/pgdn   Scroll conversation
  ctrl+s      Show or hide sources
  esc         Back to chatbots

Global:
  ctrl+c      Quit

` + a.styles.Help.Render("[esc] back to chatbots")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// OpenChatbot starts the app in a conversation with bot.
func (a *App) OpenChatbot(bot domain.Chatbot) {
	a.chatView.SetChatbot(bot)
	a.currentView = messages.ViewChat
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Chatbot returns the chatbot open in the chat view, or nil.
func (a *App) Chatbot() *domain.Chatbot {
	return a.chatView.Chatbot()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatbotsView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
