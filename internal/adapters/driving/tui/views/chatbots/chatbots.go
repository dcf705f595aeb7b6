// Package chatbots provides the chatbot list view for the TUI.
package chatbots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// ErrNoChatbotService indicates that no chatbot service was provided.
var ErrNoChatbotService = errors.New("chatbot service not available")

// View lists the user's chatbots.
type View struct {
	styles         *styles.Styles
	chatbotService driving.ChatbotService
	userID         int64
	ctx            context.Context

	chatbots      []domain.Chatbot
	selected      int
	confirmDelete bool
	width         int
	height        int
	ready         bool
	err           error
	loading       bool
}

// NewView creates a new chatbot list view scoped to userID.
func NewView(s *styles.Styles, chatbotService driving.ChatbotService, userID int64) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		chatbotService: chatbotService,
		userID:         userID,
		ctx:            context.Background(),
		chatbots:       []domain.Chatbot{},
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads chatbots.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadChatbots()
}

// loadChatbots returns a command that loads chatbots from the service.
func (v *View) loadChatbots() tea.Cmd {
	return func() tea.Msg {
		if v.chatbotService == nil {
			return messages.ChatbotsLoaded{Err: ErrNoChatbotService}
		}
		bots, err := v.chatbotService.List(v.ctx, v.userID)
		return messages.ChatbotsLoaded{Chatbots: bots, Err: err}
	}
}

// Update handles messages for the chatbot list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatbotsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.chatbots = msg.Chatbots
		v.err = nil
		if v.selected >= len(v.chatbots) {
			v.selected = max(len(v.chatbots)-1, 0)
		}
		return v, nil

	case messages.ChatbotDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadChatbots()
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirmDelete {
		v.confirmDelete = false
		if msg.String() == "y" && v.selected < len(v.chatbots) {
			return v, v.deleteChatbot(v.chatbots[v.selected].Key())
		}
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.chatbots)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.chatbots) {
			bot := v.chatbots[v.selected]
			return v, func() tea.Msg {
				return messages.ChatbotSelected{Chatbot: bot}
			}
		}
	case "d", "delete":
		if v.selected < len(v.chatbots) {
			v.confirmDelete = true
		}
	case "r":
		v.loading = true
		return v, v.loadChatbots()
	case "s":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSettings}
		}
	case "?":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case "q":
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

// deleteChatbot returns a command that deletes a chatbot.
func (v *View) deleteChatbot(key domain.ChatbotKey) tea.Cmd {
	return func() tea.Msg {
		if v.chatbotService == nil {
			return messages.ChatbotDeleted{Key: key, Err: ErrNoChatbotService}
		}
		return messages.ChatbotDeleted{Key: key, Err: v.chatbotService.Delete(v.ctx, key)}
	}
}

// View renders the chatbot list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Botly"))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  user %d", v.userID)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chatbots..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.chatbots) == 0:
		b.WriteString(v.styles.Muted.Render("No chatbots yet. Create one with: botly chatbot create <name>"))
	default:
		for i := range v.chatbots {
			b.WriteString(v.renderChatbot(i, &v.chatbots[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	if v.confirmDelete && v.selected < len(v.chatbots) {
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete %q and its data? [y/N]", v.chatbots[v.selected].Name)))
		return b.String()
	}
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderChatbot renders a single chatbot line.
func (v *View) renderChatbot(index int, bot *domain.Chatbot) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	status := fmt.Sprintf("[%s]", bot.Status())
	name := bot.Name
	if bot.DataSource != "" {
		name = fmt.Sprintf("%s - %s", name, bot.DataSource)
	}

	maxNameLen := v.width - len(status) - 12
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-10s %s", indicator, status, name))
	}

	statusStyle := v.styles.Warning
	if bot.HasData {
		statusStyle = v.styles.Success
	}
	return v.styles.Normal.Render(indicator) +
		statusStyle.Render(fmt.Sprintf("%-10s ", status)) +
		v.styles.Normal.Render(name)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] chat  [d] delete  [r] reload  [s] settings  [?] help  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Chatbots returns the current list of chatbots.
func (v *View) Chatbots() []domain.Chatbot {
	return v.chatbots
}

// SelectedIndex returns the currently selected chatbot index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
