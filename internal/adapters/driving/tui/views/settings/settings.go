// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/botly/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionLLM
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// overviewItems are the editable rows of the overview.
const overviewItems = 2

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	section      Section
	selected     int
	keyFocused   bool
	apiKeyInput  textinput.Model
	validateNote string

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChatbots}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEmbedding, SectionLLM:
		return v.handleProviderKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case "v":
		v.validateNote = v.validate()
	case keyEnter:
		if v.selected == 0 {
			v.section = SectionEmbedding
		} else {
			v.section = SectionLLM
		}
		v.selected = v.currentProviderIndex()
	}
	return v, nil
}

// handleProviderKeys drives both provider pickers.
func (v *View) handleProviderKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := v.providers()

	if v.keyFocused {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.keyFocused = false
			v.apiKeyInput.Blur()
			return v, nil
		case keyEnter:
			return v, v.saveProvider(providers[v.selected], v.apiKeyInput.Value())
		default:
			var cmd tea.Cmd
			v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab, keyEnter:
		provider := providers[v.selected]
		if provider.RequiresAPIKey() {
			v.keyFocused = true
			return v, v.apiKeyInput.Focus()
		}
		if msg.String() == keyEnter {
			return v, v.saveProvider(provider, "")
		}
	}
	return v, nil
}

// saveProvider returns a command that stores the selected provider with its default model.
func (v *View) saveProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	section := v.section
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		if section == SectionEmbedding {
			model := domain.DefaultEmbeddingModels()[provider]
			return messages.SettingsSaved{Err: v.settingsService.SetEmbeddingProvider(provider, model, apiKey)}
		}
		model := domain.DefaultLLMModels()[provider]
		return messages.SettingsSaved{Err: v.settingsService.SetLLMProvider(provider, model, apiKey)}
	}
}

func (v *View) validate() string {
	if v.settingsService == nil {
		return ""
	}
	if err := v.settingsService.Validate(); err != nil {
		return fmt.Sprintf("Warning: %s", err.Error())
	}
	return "Configuration is valid"
}

func (v *View) providers() []domain.AIProvider {
	if v.section == SectionEmbedding {
		return domain.AllEmbeddingProviders()
	}
	return domain.AllLLMProviders()
}

func (v *View) currentProviderIndex() int {
	if v.settings == nil {
		return 0
	}
	current := v.settings.LLM.Provider
	if v.section == SectionEmbedding {
		current = v.settings.Embedding.Provider
	}
	for i, p := range v.providers() {
		if p == current {
			return i
		}
	}
	return 0
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.keyFocused = false
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEmbedding:
		b.WriteString(v.renderProviderSelect("Select Embedding Provider",
			v.settings.Embedding.Provider, domain.DefaultEmbeddingModels()))
	case SectionLLM:
		b.WriteString(v.renderProviderSelect("Select LLM Provider",
			v.settings.LLM.Provider, domain.DefaultLLMModels()))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	s := v.settings

	editable := []struct {
		label  string
		value  string
		status string
	}{
		{
			label:  "Embedding Provider",
			value:  fmt.Sprintf("%s (%s)", s.Embedding.Provider.Description(), s.Embedding.Model),
			status: configuredStatus(v.styles, s.Embedding.IsConfigured()),
		},
		{
			label:  "LLM Provider",
			value:  fmt.Sprintf("%s (%s)", s.LLM.Provider.Description(), s.LLM.Model),
			status: configuredStatus(v.styles, s.LLM.IsConfigured()),
		},
	}

	for i, item := range editable {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString(" " + item.status + "\n")
	}

	b.WriteString("\n")
	readonly := []string{
		fmt.Sprintf("Crawl: up to %d pages, %s delay, %s per page", s.Crawl.MaxPages, s.Crawl.Delay, s.Crawl.FetchTimeout),
		fmt.Sprintf("Chunks: %d characters, %d overlap", s.Chunk.Size, s.Chunk.Overlap),
		fmt.Sprintf("Retrieval: top %d, temperature %.2f", s.Retrieval.TopK, s.Retrieval.Temperature),
	}
	if s.Storage.Root != "" {
		readonly = append(readonly, "Storage: "+s.Storage.Root)
	}
	for _, line := range readonly {
		b.WriteString(v.styles.Muted.Render("  " + line))
		b.WriteString("\n")
	}

	if v.validateNote != "" {
		b.WriteString("\n")
		if strings.HasPrefix(v.validateNote, "Warning") {
			b.WriteString(v.styles.Warning.Render(v.validateNote))
		} else {
			b.WriteString(v.styles.Success.Render(v.validateNote))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func configuredStatus(s *styles.Styles, ok bool) string {
	if ok {
		return s.Success.Render("[configured]")
	}
	return s.Warning.Render("[needs API key]")
}

func (v *View) renderProviderSelect(title string, current domain.AIProvider, models map[domain.AIProvider]string) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	providers := v.providers()
	for i, provider := range providers {
		highlighted := i == v.selected && !v.keyFocused
		indicator := "  "
		if highlighted {
			indicator = "> "
		}

		marker := ""
		if provider == current {
			marker = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s", indicator, provider.Description())
		if highlighted {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString(marker + "\n")

		if model, ok := models[provider]; ok {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
			b.WriteString("\n")
		}
	}

	if providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(v.apiKeyInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [v] validate  [esc] back")
	case SectionEmbedding, SectionLLM:
		if v.keyFocused {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.validateNote = ""
}
