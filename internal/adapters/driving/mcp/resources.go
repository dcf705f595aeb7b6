package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/botly/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Botly resources.
	uriScheme = "botly://"

	// historyLimit caps the answers returned by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "users/{userId}/chatbots",
		Name:        "chatbots",
		Description: "Chatbots owned by a user",
		MIMEType:    "application/json",
	}, s.handleChatbotsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "users/{userId}/chatbots/{chatbotId}/history",
		Name:        "chatbot-history",
		Description: "Recent questions and answers for a chatbot, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleChatbotsResource returns the chatbots owned by a user.
func (s *Server) handleChatbotsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chatbot == nil {
		return jsonResource(req.Params.URI, []ChatbotOutput{})
	}

	userID, ok := parseChatbotsURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	bots, err := s.ports.Chatbot.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chatbots: %w", err)
	}

	infos := make([]ChatbotOutput, len(bots))
	for i := range bots {
		infos[i] = chatbotOutput(&bots[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleHistoryResource returns recent answers for a chatbot.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chatbot == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	key, ok := parseHistoryURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Chatbot.History(ctx, key, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	type answerInfo struct {
		Question  string    `json:"question"`
		Answer    string    `json:"answer"`
		Outcome   string    `json:"outcome"`
		CreatedAt time.Time `json:"created_at"`
	}

	infos := make([]answerInfo, len(records))
	for i := range records {
		infos[i] = answerInfo{
			Question:  records[i].Question,
			Answer:    records[i].Answer,
			Outcome:   string(records[i].Outcome),
			CreatedAt: records[i].CreatedAt,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseChatbotsURI extracts the user ID from botly://users/{userId}/chatbots.
func parseChatbotsURI(uri string) (int64, bool) {
	parts, ok := uriParts(uri)
	if !ok || len(parts) != 3 || parts[2] != "chatbots" {
		return 0, false
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// parseHistoryURI extracts the chatbot key from
// botly://users/{userId}/chatbots/{chatbotId}/history.
func parseHistoryURI(uri string) (domain.ChatbotKey, bool) {
	parts, ok := uriParts(uri)
	if !ok || len(parts) != 5 || parts[2] != "chatbots" || parts[4] != "history" {
		return domain.ChatbotKey{}, false
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.ChatbotKey{}, false
	}
	chatbotID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return domain.ChatbotKey{}, false
	}
	key := domain.ChatbotKey{UserID: userID, ChatbotID: chatbotID}
	if key.Validate() != nil {
		return domain.ChatbotKey{}, false
	}
	return key, true
}

func uriParts(uri string) ([]string, bool) {
	const prefix = uriScheme + "users/"
	if !strings.HasPrefix(uri, prefix) {
		return nil, false
	}
	return append([]string{"users"}, strings.Split(strings.TrimPrefix(uri, prefix), "/")...), true
}
