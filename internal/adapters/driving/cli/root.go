// Package cli provides the botly command-line interface. It is a driving
// adapter: every command talks to the core through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
	"github.com/custodia-labs/botly/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	userID  int64
)

var (
	chatbotService  driving.ChatbotService
	trainingService driving.TrainingService
	answerService   driving.AnswerService
	settingsService driving.SettingsService
)

// Services groups the driving ports the commands depend on.
type Services struct {
	Chatbot  driving.ChatbotService
	Training driving.TrainingService
	Answer   driving.AnswerService
	Settings driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "botly",
	Short: "Chatbots over your documents and websites",
	Long: `Botly builds question-answering chatbots from a document or a website.

Create a chatbot, train it on a PDF, DOCX, text or HTML file or on a crawled
website, then ask it questions from the command line, the interactive chat
UI or an MCP client.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Int64VarP(&userID, "user", "u", 1, "user that owns the chatbots")
}

// SetServices injects the core services used by the commands.
func SetServices(s Services) {
	chatbotService = s.Chatbot
	trainingService = s.Training
	answerService = s.Answer
	settingsService = s.Settings
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// parseChatbotKey scopes a chatbot ID argument to the --user flag.
func parseChatbotKey(arg string) (domain.ChatbotKey, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return domain.ChatbotKey{}, fmt.Errorf("invalid chatbot ID %q: %w", arg, domain.ErrInvalidInput)
	}
	key := domain.ChatbotKey{UserID: userID, ChatbotID: id}
	if err := key.Validate(); err != nil {
		return domain.ChatbotKey{}, fmt.Errorf("invalid chatbot %s: %w", key, err)
	}
	return key, nil
}

var errChatbotServiceMissing = errors.New("chatbot service not configured")
