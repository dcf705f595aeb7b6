package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.AnswerCount())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	assert.Nil(t, NewBar(nil, nil).Init())
}

func TestStatusBar_Update_IgnoresTicksWhenIdle(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(spinner.TickMsg{})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Update_IgnoresOtherMessages(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.StartThinking()

	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestStatusBar_StartThinking(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetMessage("old")

	cmd := bar.StartThinking()

	assert.NotNil(t, cmd)
	assert.Equal(t, StateThinking, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Contains(t, bar.View(), "Thinking...")
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	assert.Equal(t, 80, bar.Width()) // Default

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetAnswerCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.AnswerCount())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    []string
		notWant []string
	}{
		{
			name:  "ready",
			setup: func(*Bar) {},
			want:  []string{"Ready", "quit"},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("connection failed")
			},
			want: []string{"Error", "connection failed"},
		},
		{
			name:  "help",
			setup: func(b *Bar) { b.SetState(StateHelp) },
			want:  []string{"Help"},
		},
		{
			name: "chatting with answers",
			setup: func(b *Bar) {
				b.SetState(StateChatting)
				b.SetAnswerCount(5)
			},
			want:    []string{"5 answers", "ask", "sources"},
			notWant: []string{"quit"},
		},
		{
			name: "chatting with message",
			setup: func(b *Bar) {
				b.SetState(StateChatting)
				b.SetMessage("Sources shown")
			},
			want: []string{"Sources shown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()

			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, view, w)
			}
		})
	}
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("ready"), StateReady)
	assert.Equal(t, State("thinking"), StateThinking)
	assert.Equal(t, State("error"), StateError)
	assert.Equal(t, State("help"), StateHelp)
	assert.Equal(t, State("chatting"), StateChatting)
}
