package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/botly/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AnswerFunc func(ctx context.Context, q domain.Question) domain.Answer
	questions  []domain.Question
}

func (m *MockAnswerService) Answer(ctx context.Context, q domain.Question) domain.Answer {
	m.questions = append(m.questions, q)
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, q)
	}
	return domain.Answer{Outcome: domain.OutcomeAnswered, Text: "Five business days."}
}

func (m *MockAnswerService) Ask(ctx context.Context, q domain.Question) string {
	return m.Answer(ctx, q).Display()
}

var trained = domain.Chatbot{
	ID:           2,
	UserID:       9,
	Name:         "Helper",
	Description:  "the store's assistant",
	Instructions: "Be brief.",
	HasData:      true,
}

func newChatView(svc *MockAnswerService, apiKey string) *View {
	view := NewView(nil, nil, svc, apiKey)
	view.SetDimensions(100, 30)
	view.SetChatbot(trained)
	return view
}

// findAnswer runs a batched command tree and returns the first AnswerReceived.
func findAnswer(t *testing.T, cmd tea.Cmd) messages.AnswerReceived {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case messages.AnswerReceived:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if ans, ok := c().(messages.AnswerReceived); ok {
				return ans
			}
		}
	}
	t.Fatal("no AnswerReceived message produced")
	return messages.AnswerReceived{}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, &MockAnswerService{}, "")

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.Nil(t, view.Chatbot())
	assert.Equal(t, "Initialising...", view.View())
}

func TestView_SetChatbot(t *testing.T) {
	view := newChatView(&MockAnswerService{}, "")

	require.NotNil(t, view.Chatbot())
	assert.Equal(t, "Helper", view.Chatbot().Name)
	assert.Equal(t, status.StateChatting, view.StatusState())
	rendered := view.View()
	assert.Contains(t, rendered, "Helper")
	assert.Contains(t, rendered, "the store's assistant")
	assert.Contains(t, rendered, "No messages yet")
}

func TestView_SetChatbot_WithoutData(t *testing.T) {
	view := NewView(nil, nil, &MockAnswerService{}, "")
	view.SetDimensions(160, 30)

	view.SetChatbot(domain.Chatbot{ID: 3, UserID: 9, Name: "Fresh"})

	assert.Contains(t, view.View(), "no data yet")
}

func TestView_Submit_AsksWithPersonaAndKey(t *testing.T) {
	svc := &MockAnswerService{}
	view := newChatView(svc, "sk-tui")
	view.SetInput("  how long do refunds take?  ")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "", view.Input())
	assert.Equal(t, status.StateThinking, view.StatusState())
	assert.True(t, view.Transcript().Pending())

	ans := findAnswer(t, cmd)
	require.Len(t, svc.questions, 1)
	q := svc.questions[0]
	assert.Equal(t, domain.ChatbotKey{UserID: 9, ChatbotID: 2}, q.Key)
	assert.Equal(t, "how long do refunds take?", q.Text)
	assert.Equal(t, "sk-tui", q.APIKey)
	require.NotNil(t, q.Persona)
	assert.Equal(t, "Be brief.", q.Persona.Instructions)

	view, _ = view.Update(ans)

	assert.False(t, view.Transcript().Pending())
	assert.Equal(t, status.StateChatting, view.StatusState())
	assert.Contains(t, view.Transcript().Content(), "Helper: Five business days.")
}

func TestView_Submit_IgnoresBlankAndPending(t *testing.T) {
	svc := &MockAnswerService{}
	view := newChatView(svc, "")

	view.SetInput("   ")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	view.SetInput("first")
	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	view.SetInput("second")
	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "no new question while one is pending")
	assert.Equal(t, 1, view.Transcript().Len())
}

func TestView_FailedAnswer(t *testing.T) {
	svc := &MockAnswerService{
		AnswerFunc: func(context.Context, domain.Question) domain.Answer {
			return domain.Answer{Outcome: domain.OutcomeNoData, Err: domain.ErrNoData}
		},
	}
	view := newChatView(svc, "")
	view.SetInput("anything?")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view, _ = view.Update(findAnswer(t, cmd))

	assert.Contains(t, view.Transcript().Content(), domain.ErrorMarker)
	assert.Contains(t, view.View(), "last answer failed: no_data")
}

func TestView_NoAnswerService(t *testing.T) {
	view := NewView(nil, nil, nil, "")
	view.SetDimensions(100, 30)
	view.SetChatbot(trained)
	view.SetInput("hello")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ans := findAnswer(t, cmd)

	assert.ErrorIs(t, ans.Answer.Err, ErrNoAnswerService)
	assert.True(t, ans.Answer.Outcome.IsFailure())
}

func TestView_Esc_ReturnsToChatbots(t *testing.T) {
	view := newChatView(&MockAnswerService{}, "")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChatbots}, cmd())
}

func TestView_ToggleSources(t *testing.T) {
	view := newChatView(&MockAnswerService{}, "")

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, view.Transcript().ShowSources())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, view.Transcript().ShowSources())
}

func TestView_TypingGoesToInput(t *testing.T) {
	view := newChatView(&MockAnswerService{}, "")

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("quit")})

	assert.Equal(t, "quit", view.Input())
}

func TestView_ErrorOccurred(t *testing.T) {
	view := newChatView(&MockAnswerService{}, "")

	view, _ = view.Update(messages.ErrorOccurred{Err: assert.AnError})

	assert.Equal(t, status.StateError, view.StatusState())
}

func TestView_SetDimensions(t *testing.T) {
	view := NewView(nil, nil, nil, "")

	view.SetDimensions(120, 40)

	assert.Equal(t, 120, view.Width())
	assert.Equal(t, 40, view.Height())
	assert.Equal(t, 40-chromeHeight, view.Transcript().Height())
}
