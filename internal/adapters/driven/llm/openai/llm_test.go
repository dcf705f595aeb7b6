package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

func TestNewLLMService_Credentials(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = NewLLMService(LLMConfig{APIKey: "not a key"})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", svc.ModelName())
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.7, *req.Temperature, 1e-9)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris"}}]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "capital of France?", driven.GenerateOptions{Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Paris", out)
}

func TestGenerate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-wrong", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrAuthInvalid)
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
	assert.Error(t, err)
}
