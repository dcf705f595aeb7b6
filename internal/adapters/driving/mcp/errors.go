// Package mcp provides an MCP (Model Context Protocol) server adapter for Botly.
// It lets AI assistants ask trained chatbots questions and manage their data.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrChatbotToolsUnavailable is returned by chatbot tools when no chatbot service is wired.
var ErrChatbotToolsUnavailable = errors.New("mcp: chatbot service not configured")

// ErrTrainingUnavailable is returned by the train tool when no training service is wired.
var ErrTrainingUnavailable = errors.New("mcp: training service not configured")
