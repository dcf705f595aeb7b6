package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [chatbot-id]",
	Short: "Show recent questions and answers",
	Long:  `Lists the questions a chatbot was asked and what it answered, newest first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	records, err := chatbotService.History(cmd.Context(), key, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Printf("No questions asked of chatbot %d yet.\n", key.ChatbotID)
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("%s  [%s]\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Outcome)
		cmd.Printf("  Q: %s\n", r.Question)
		cmd.Printf("  A: %s\n\n", preview(r.Answer, 300))
	}
	cmd.Printf("Total: %d records\n", len(records))
	return nil
}
