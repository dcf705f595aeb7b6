package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	UserID    int64  `json:"user_id" jsonschema:"the id of the user owning the chatbot"`
	ChatbotID int64  `json:"chatbot_id" jsonschema:"the id of the chatbot to ask"`
	Question  string `json:"question" jsonschema:"the question to answer from the chatbot's data"`
	APIKey    string `json:"api_key,omitempty" jsonschema:"language model API key, defaults to the configured key"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Outcome string         `json:"outcome"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one retrieved chunk backing an answer.
type SourceOutput struct {
	ChunkID  int     `json:"chunk_id"`
	Distance float64 `json:"distance"`
	Content  string  `json:"content"`
}

// ListChatbotsInput is the input schema for the list_chatbots tool.
type ListChatbotsInput struct {
	UserID int64 `json:"user_id" jsonschema:"the id of the user whose chatbots are listed"`
}

// ListChatbotsOutput is the output schema for the list_chatbots tool.
type ListChatbotsOutput struct {
	Chatbots []ChatbotOutput `json:"chatbots"`
	Count    int             `json:"count"`
}

// ChatbotOutput summarises a chatbot.
type ChatbotOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	DataSource  string `json:"data_source,omitempty"`
	DataType    string `json:"data_type,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// TrainInput is the input schema for the train tool.
type TrainInput struct {
	UserID    int64  `json:"user_id" jsonschema:"the id of the user owning the chatbot"`
	ChatbotID int64  `json:"chatbot_id" jsonschema:"the id of the chatbot to train"`
	File      string `json:"file,omitempty" jsonschema:"path to a pdf, docx, txt, md or html file"`
	URL       string `json:"url,omitempty" jsonschema:"website start URL crawled on the same host"`
	MaxPages  int    `json:"max_pages,omitempty" jsonschema:"maximum number of pages to crawl"`
}

// TrainOutput is the output schema for the train tool.
type TrainOutput struct {
	Chunks     int    `json:"chunks"`
	Characters int    `json:"characters"`
	Pages      int    `json:"pages,omitempty"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Truncated  bool   `json:"truncated,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a trained chatbot a question answered from its uploaded data",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_chatbots",
		Description: "List a user's chatbots and whether they have been trained",
	}, s.handleListChatbots)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "train",
		Description: "Replace a chatbot's data with a document or a crawled website",
	}, s.handleTrain)
}

// handleAsk handles the ask tool invocation.
// Answer failures are reported in the output, not as tool errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	q := domain.Question{
		Key:    domain.ChatbotKey{UserID: input.UserID, ChatbotID: input.ChatbotID},
		Text:   input.Question,
		APIKey: input.APIKey,
		TopK:   input.TopK,
	}

	var ans domain.Answer
	if s.ports.Chatbot != nil {
		bot, err := s.ports.Chatbot.Get(ctx, q.Key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ans = domain.Answer{Outcome: domain.OutcomeNotFound, Err: err}
		case err == nil:
			q.Persona = bot.Persona()
		}
	}
	if ans.Outcome == "" {
		ans = s.ports.Answer.Answer(ctx, q)
	}

	output := AskOutput{
		Answer:  ans.Display(),
		Outcome: string(ans.Outcome),
		Sources: make([]SourceOutput, len(ans.Sources)),
	}
	for i, src := range ans.Sources {
		output.Sources[i] = SourceOutput{
			ChunkID:  src.ChunkID,
			Distance: src.Distance,
			Content:  src.Content,
		}
	}

	return nil, output, nil
}

// handleListChatbots handles the list_chatbots tool invocation.
func (s *Server) handleListChatbots(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListChatbotsInput,
) (*mcp.CallToolResult, ListChatbotsOutput, error) {
	if s.ports.Chatbot == nil {
		return nil, ListChatbotsOutput{}, ErrChatbotToolsUnavailable
	}

	bots, err := s.ports.Chatbot.List(ctx, input.UserID)
	if err != nil {
		return nil, ListChatbotsOutput{}, err
	}

	output := ListChatbotsOutput{
		Chatbots: make([]ChatbotOutput, len(bots)),
		Count:    len(bots),
	}
	for i := range bots {
		output.Chatbots[i] = chatbotOutput(&bots[i])
	}

	return nil, output, nil
}

// handleTrain handles the train tool invocation.
func (s *Server) handleTrain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TrainInput,
) (*mcp.CallToolResult, TrainOutput, error) {
	if s.ports.Training == nil {
		return nil, TrainOutput{}, ErrTrainingUnavailable
	}

	result, err := s.ports.Training.Train(ctx, domain.TrainRequest{
		Key:     domain.ChatbotKey{UserID: input.UserID, ChatbotID: input.ChatbotID},
		File:    input.File,
		Website: input.URL,
		Crawl:   domain.CrawlOptions{MaxPages: input.MaxPages},
	})
	if err != nil {
		return nil, TrainOutput{}, err
	}

	return nil, TrainOutput{
		Chunks:     result.Chunks,
		Characters: result.Characters,
		Pages:      result.Pages,
		Model:      result.Model,
		Dimensions: result.Dimensions,
		Truncated:  result.Truncated,
	}, nil
}

func chatbotOutput(bot *domain.Chatbot) ChatbotOutput {
	return ChatbotOutput{
		ID:          bot.ID,
		Name:        bot.Name,
		Description: bot.Description,
		Status:      bot.Status(),
		DataSource:  bot.DataSource,
		DataType:    string(bot.DataType),
		IsPublic:    bot.IsPublic,
	}
}
