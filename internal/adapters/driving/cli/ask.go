package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/core/domain"
)

var errAnswerServiceMissing = errors.New("answer service not configured")

var (
	askAPIKey  string
	askTopK    int
	askSources bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [chatbot-id] [question...]",
	Short: "Ask a chatbot a question",
	Long: `Answers a question from the chatbot's trained data.

The most similar chunks are retrieved and passed to the configured LLM,
together with the chatbot's name, description and instructions.
Failures are printed as an error line rather than returned.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askAPIKey, "api-key", "k", "", "LLM API key for this question")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "n", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "print the retrieved chunks")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errAnswerServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	q := domain.Question{
		Key:    key,
		Text:   strings.Join(args[1:], " "),
		APIKey: askAPIKey,
		TopK:   askTopK,
	}
	if chatbotService != nil {
		bot, err := chatbotService.Get(cmd.Context(), key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("chatbot %s: %w", key, err)
		case err == nil:
			q.Persona = bot.Persona()
		}
	}

	ans := answerService.Answer(cmd.Context(), q)

	if askJSON {
		return printJSON(cmd, newAnswerView(ans))
	}

	cmd.Println(ans.Display())
	if askSources && len(ans.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range ans.Sources {
			cmd.Printf("  [%d] chunk %d (distance %.3f)\n", i+1, src.ChunkID, src.Distance)
			cmd.Printf("      %s\n", preview(src.Content, 160))
		}
	}
	return nil
}

// answerView is the JSON shape of an answer.
type answerView struct {
	Outcome string       `json:"outcome"`
	Answer  string       `json:"answer"`
	Sources []sourceView `json:"sources,omitempty"`
}

type sourceView struct {
	ChunkID  int     `json:"chunk_id"`
	Distance float64 `json:"distance"`
	Content  string  `json:"content"`
}

func newAnswerView(ans domain.Answer) answerView {
	v := answerView{Outcome: string(ans.Outcome), Answer: ans.Display()}
	for _, src := range ans.Sources {
		v.Sources = append(v.Sources, sourceView{
			ChunkID:  src.ChunkID,
			Distance: src.Distance,
			Content:  src.Content,
		})
	}
	return v
}

// preview flattens whitespace and truncates s to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
