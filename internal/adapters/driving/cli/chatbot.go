package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/core/domain"
)

var chatbotCmd = &cobra.Command{
	Use:     "chatbot",
	Aliases: []string{"bot"},
	Short:   "Manage chatbots",
	Long:    `Create, list, show, update or delete the chatbots owned by a user.`,
}

var chatbotCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a chatbot",
	Long: `Creates a chatbot with no data. Train it with 'botly train' before asking
questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runChatbotCreate,
}

var chatbotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chatbots",
	Args:  cobra.NoArgs,
	RunE:  runChatbotList,
}

var chatbotShowCmd = &cobra.Command{
	Use:   "show [chatbot-id]",
	Short: "Show chatbot details",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatbotShow,
}

var chatbotUpdateCmd = &cobra.Command{
	Use:   "update [chatbot-id]",
	Short: "Update chatbot fields",
	Long:  `Updates only the fields whose flags are given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runChatbotUpdate,
}

var chatbotDeleteCmd = &cobra.Command{
	Use:   "delete [chatbot-id]",
	Short: "Delete a chatbot and its data",
	Long:  `Removes the chatbot, its index and its answer history.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runChatbotDelete,
}

var (
	chatbotDescription  string
	chatbotInstructions string
	chatbotPublic       bool
	chatbotName         string
	chatbotJSON         bool
	chatbotForce        bool
)

func init() {
	for _, c := range []*cobra.Command{chatbotCreateCmd, chatbotUpdateCmd} {
		c.Flags().StringVarP(&chatbotDescription, "description", "d", "", "one-line persona description")
		c.Flags().StringVarP(&chatbotInstructions, "instructions", "i", "", "custom instructions for answers")
		c.Flags().BoolVar(&chatbotPublic, "public", false, "allow use without the owner's session")
	}
	chatbotUpdateCmd.Flags().StringVarP(&chatbotName, "name", "n", "", "new display name")
	chatbotListCmd.Flags().BoolVar(&chatbotJSON, "json", false, "output as JSON")
	chatbotShowCmd.Flags().BoolVar(&chatbotJSON, "json", false, "output as JSON")
	chatbotDeleteCmd.Flags().BoolVarP(&chatbotForce, "force", "f", false, "skip confirmation")

	chatbotCmd.AddCommand(chatbotCreateCmd)
	chatbotCmd.AddCommand(chatbotListCmd)
	chatbotCmd.AddCommand(chatbotShowCmd)
	chatbotCmd.AddCommand(chatbotUpdateCmd)
	chatbotCmd.AddCommand(chatbotDeleteCmd)
	rootCmd.AddCommand(chatbotCmd)
}

func runChatbotCreate(cmd *cobra.Command, args []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	bot, err := chatbotService.Create(cmd.Context(), userID, args[0],
		chatbotDescription, chatbotInstructions, chatbotPublic)
	if err != nil {
		return fmt.Errorf("failed to create chatbot: %w", err)
	}

	cmd.Printf("Created chatbot %d: %s\n", bot.ID, bot.Name)
	cmd.Printf("Train it with: botly train %d --file <path> or --url <url>\n", bot.ID)
	return nil
}

func runChatbotList(cmd *cobra.Command, _ []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	bots, err := chatbotService.List(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to list chatbots: %w", err)
	}

	if chatbotJSON {
		return printJSON(cmd, chatbotViews(bots))
	}

	if len(bots) == 0 {
		cmd.Println("No chatbots yet. Create one with: botly chatbot create <name>")
		return nil
	}

	cmd.Printf("Chatbots for user %d:\n\n", userID)
	for i := range bots {
		cmd.Printf("  [%d] %s (%s)\n", bots[i].ID, bots[i].Name, bots[i].Status())
		if bots[i].DataSource != "" {
			cmd.Printf("      Data: %s (%s)\n", bots[i].DataSource, bots[i].DataType)
		}
	}
	cmd.Printf("\nTotal: %d chatbots\n", len(bots))
	return nil
}

func runChatbotShow(cmd *cobra.Command, args []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	bot, err := chatbotService.Get(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("failed to get chatbot: %w", err)
	}

	if chatbotJSON {
		return printJSON(cmd, newChatbotView(bot))
	}

	cmd.Printf("Chatbot: %d\n\n", bot.ID)
	cmd.Printf("  Name:         %s\n", bot.Name)
	if bot.Description != "" {
		cmd.Printf("  Description:  %s\n", bot.Description)
	}
	if bot.Instructions != "" {
		cmd.Printf("  Instructions: %s\n", bot.Instructions)
	}
	cmd.Printf("  Status:       %s\n", bot.Status())
	cmd.Printf("  Public:       %t\n", bot.IsPublic)
	if bot.HasData {
		cmd.Printf("  Data:         %s (%s)\n", bot.DataSource, bot.DataType)
		cmd.Printf("  Model:        %s\n", bot.EmbeddingModel)
	}
	if bot.LastTrained != nil {
		cmd.Printf("  Trained:      %s\n", bot.LastTrained.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("  Created:      %s\n", bot.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runChatbotUpdate(cmd *cobra.Command, args []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	var update domain.ChatbotUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		update.Name = &chatbotName
	}
	if flags.Changed("description") {
		update.Description = &chatbotDescription
	}
	if flags.Changed("instructions") {
		update.Instructions = &chatbotInstructions
	}
	if flags.Changed("public") {
		update.IsPublic = &chatbotPublic
	}
	if update == (domain.ChatbotUpdate{}) {
		return fmt.Errorf("nothing to update: %w", domain.ErrInvalidInput)
	}

	bot, err := chatbotService.Update(cmd.Context(), key, update)
	if err != nil {
		return fmt.Errorf("failed to update chatbot: %w", err)
	}

	cmd.Printf("Updated chatbot %d: %s\n", bot.ID, bot.Name)
	return nil
}

func runChatbotDelete(cmd *cobra.Command, args []string) error {
	if chatbotService == nil {
		return errChatbotServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	if !chatbotForce {
		cmd.Printf("Delete chatbot %d and all of its data? [y/N]: ", key.ChatbotID)
		if !confirm(cmd) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := chatbotService.Delete(cmd.Context(), key); err != nil {
		return fmt.Errorf("failed to delete chatbot: %w", err)
	}

	cmd.Printf("Deleted chatbot %d\n", key.ChatbotID)
	return nil
}

// chatbotView is the JSON shape of a chatbot.
type chatbotView struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Instructions   string  `json:"instructions,omitempty"`
	IsPublic       bool    `json:"is_public"`
	Status         string  `json:"status"`
	DataSource     string  `json:"data_source,omitempty"`
	DataType       string  `json:"data_type,omitempty"`
	EmbeddingModel string  `json:"embedding_model,omitempty"`
	LastTrained    *string `json:"last_trained,omitempty"`
}

func newChatbotView(bot *domain.Chatbot) chatbotView {
	v := chatbotView{
		ID:             bot.ID,
		UserID:         bot.UserID,
		Name:           bot.Name,
		Description:    bot.Description,
		Instructions:   bot.Instructions,
		IsPublic:       bot.IsPublic,
		Status:         bot.Status(),
		DataSource:     bot.DataSource,
		DataType:       string(bot.DataType),
		EmbeddingModel: bot.EmbeddingModel,
	}
	if bot.LastTrained != nil {
		ts := bot.LastTrained.Format("2006-01-02T15:04:05Z07:00")
		v.LastTrained = &ts
	}
	return v
}

func chatbotViews(bots []domain.Chatbot) []chatbotView {
	views := make([]chatbotView, len(bots))
	for i := range bots {
		views[i] = newChatbotView(&bots[i])
	}
	return views
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
