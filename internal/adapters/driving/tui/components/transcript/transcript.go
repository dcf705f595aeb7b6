// Package transcript provides the scrollable conversation component for the TUI.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/botly/internal/core/domain"
)

// sourcePreview is the rune length of a source line under an answer.
const sourcePreview = 120

// Entry is one question and, once it arrives, its answer.
type Entry struct {
	Question string
	Answer   domain.Answer
	Pending  bool
}

// Transcript displays the conversation in a scrollable viewport.
type Transcript struct {
	entries     []Entry
	viewport    viewport.Model
	styles      *styles.Styles
	botName     string
	showSources bool
	width       int
	height      int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Transcript{
		viewport: viewport.New(80, 10),
		styles:   s,
		botName:  "Bot",
		width:    80,
		height:   10,
	}
	t.refresh()
	return t
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling keys and mouse events to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the conversation.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// Ask appends a pending entry for question.
func (t *Transcript) Ask(question string) {
	t.entries = append(t.entries, Entry{Question: question, Pending: true})
	t.refresh()
}

// Resolve fills the oldest pending entry for question with its answer.
// An answer with no matching pending entry is appended.
func (t *Transcript) Resolve(question string, answer domain.Answer) {
	for i := range t.entries {
		if t.entries[i].Pending && t.entries[i].Question == question {
			t.entries[i].Answer = answer
			t.entries[i].Pending = false
			t.refresh()
			return
		}
	}
	t.entries = append(t.entries, Entry{Question: question, Answer: answer})
	t.refresh()
}

// Pending reports whether any question is still awaiting its answer.
func (t *Transcript) Pending() bool {
	for i := range t.entries {
		if t.entries[i].Pending {
			return true
		}
	}
	return false
}

// ToggleSources shows or hides retrieved chunks under answers.
func (t *Transcript) ToggleSources() {
	t.showSources = !t.showSources
	t.refresh()
}

// ShowSources reports whether retrieved chunks are shown.
func (t *Transcript) ShowSources() bool {
	return t.showSources
}

// SetBotName sets the label used for answers.
func (t *Transcript) SetBotName(name string) {
	if name == "" {
		name = "Bot"
	}
	t.botName = name
	t.refresh()
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.refresh()
}

// Entries returns the conversation so far.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 3 {
		height = 3
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Width returns the current width.
func (t *Transcript) Width() int {
	return t.width
}

// Height returns the current height.
func (t *Transcript) Height() int {
	return t.height
}

// Content returns the full rendered conversation, including scrolled-off lines.
func (t *Transcript) Content() string {
	return t.render()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
	t.viewport.GotoBottom()
}

func (t *Transcript) render() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("No messages yet. Type a question and press enter.")
	}

	wrap := lipgloss.NewStyle().Width(t.width)
	blocks := make([]string, 0, len(t.entries))
	for i := range t.entries {
		blocks = append(blocks, wrap.Render(t.renderEntry(&t.entries[i])))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) renderEntry(e *Entry) string {
	lines := []string{t.styles.Question.Render("You: " + e.Question)}

	switch {
	case e.Pending:
		lines = append(lines, t.styles.Muted.Render("  "+t.botName+" is thinking..."))
	case e.Answer.Outcome.IsFailure():
		lines = append(lines, t.styles.Error.Render("  "+e.Answer.Display()))
	default:
		lines = append(lines, t.styles.Answer.Render(t.botName+": "+e.Answer.Display()))
	}

	if t.showSources && !e.Pending {
		for _, src := range e.Answer.Sources {
			lines = append(lines, t.styles.Source.Render(fmt.Sprintf("[%d] %.3f  %s",
				src.ChunkID, src.Distance, preview(src.Content))))
		}
	}
	return strings.Join(lines, "\n")
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) > sourcePreview {
		return string(runes[:sourcePreview-3]) + "..."
	}
	return content
}
