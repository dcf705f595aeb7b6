package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/adapters/driving/tui"
)

var chatAPIKey string

var chatCmd = &cobra.Command{
	Use:   "chat [chatbot-id]",
	Short: "Chat with your chatbots in the terminal UI",
	Long: `Launch the interactive terminal user interface.

Without an ID the UI opens on the list of your chatbots. With an ID it opens
straight into a conversation with that chatbot.

Controls:
  ↑/k, ↓/j  - Navigate chatbots
  Enter     - Open chatbot / Ask question
  PgUp/PgDn - Scroll conversation
  Ctrl+S    - Show or hide sources
  Esc       - Back
  q         - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatAPIKey, "api-key", "k", "", "LLM API key for every question")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(userID, chatbotService, answerService)
	ports.Settings = settingsService
	ports.APIKey = chatAPIKey

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if len(args) == 1 {
		key, err := parseChatbotKey(args[0])
		if err != nil {
			return err
		}
		bot, err := chatbotService.Get(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to open chatbot: %w", err)
		}
		app.OpenChatbot(*bot)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
