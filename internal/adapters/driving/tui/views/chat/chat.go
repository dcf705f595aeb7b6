// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// ErrNoAnswerService indicates that no answer service was provided.
var ErrNoAnswerService = errors.New("answer service is required")

// chromeHeight is the rows taken by the header, input and status bar.
const chromeHeight = 9

// View is the conversation with a single chatbot.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	answerService driving.AnswerService
	apiKey        string
	ctx           context.Context

	chatbot *domain.Chatbot
	width   int
	height  int
	ready   bool
	answers int
}

// NewView creates a new chat view. apiKey, when set, is sent with every question.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	apiKey string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		transcript:    transcript.New(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		apiKey:        apiKey,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetChatbot starts a fresh conversation with bot.
func (v *View) SetChatbot(bot domain.Chatbot) {
	v.chatbot = &bot
	v.answers = 0
	v.transcript.Clear()
	v.transcript.SetBotName(bot.Name)
	v.input.Reset()
	v.input.Focus()
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateChatting)
	if !bot.HasData {
		v.statusbar.SetMessage("This chatbot has no data yet. Train it with: botly train")
	}
}

// Chatbot returns the chatbot being chatted with, or nil.
func (v *View) Chatbot() *domain.Chatbot {
	return v.chatbot
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, v.input.Focus()

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChatbots}
		}

	case keymap.Matches(msg.String(), v.keymap.Sources):
		v.transcript.ToggleSources()
		if v.transcript.ShowSources() {
			v.statusbar.SetMessage("Sources shown")
		} else {
			v.statusbar.SetMessage("Sources hidden")
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.ScrollUp),
		keymap.Matches(msg.String(), v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case msg.Type == tea.KeyEnter:
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question unless one is already pending.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.transcript.Pending() || v.chatbot == nil {
		return nil
	}

	v.input.Reset()
	v.input.Blur()
	v.transcript.Ask(question)
	return tea.Batch(v.statusbar.StartThinking(), v.ask(question))
}

// ask returns a command that answers question against the current chatbot.
func (v *View) ask(question string) tea.Cmd {
	bot := *v.chatbot
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.AnswerReceived{
				Question: question,
				Answer:   domain.Answer{Outcome: domain.OutcomeProviderFailed, Err: ErrNoAnswerService},
			}
		}

		ans := v.answerService.Answer(v.ctx, domain.Question{
			Key:     bot.Key(),
			Text:    question,
			APIKey:  v.apiKey,
			Persona: bot.Persona(),
		})
		return messages.AnswerReceived{Question: question, Answer: ans}
	}
}

// handleAnswer records an answer in the transcript.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.transcript.Resolve(msg.Question, msg.Answer)
	v.answers++
	v.statusbar.SetState(status.StateChatting)
	v.statusbar.SetMessage("")
	v.statusbar.SetAnswerCount(v.answers)
	if msg.Answer.Outcome.IsFailure() {
		v.statusbar.SetMessage(fmt.Sprintf("last answer failed: %s", msg.Answer.Outcome))
	}
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := "Chat"
	subtitle := ""
	if v.chatbot != nil {
		title = v.chatbot.Name
		subtitle = v.chatbot.Description
	}

	sections := make([]string, 0, 8)
	header := v.styles.Title.Render(title)
	if subtitle != "" {
		header += v.styles.Muted.Render("  " + subtitle)
	}
	sections = append(sections,
		header, "",
		v.transcript.View(), "",
		v.input.View(), "",
		v.statusbar.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-chromeHeight)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Transcript returns the conversation component.
func (v *View) Transcript() *transcript.Transcript {
	return v.transcript
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// Input returns the current question text.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the question text.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}
