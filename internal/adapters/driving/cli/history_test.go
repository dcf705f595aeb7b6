package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestHistoryCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chatbot.add(domain.Chatbot{UserID: 1, Name: "Docs"})
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	ts.chatbot.history = []domain.AnswerRecord{
		{ID: "b", Question: "second?", Answer: "two", Outcome: domain.OutcomeAnswered, CreatedAt: at},
		{ID: "a", Question: "first?", Answer: domain.ErrorMarker + " no data", Outcome: domain.OutcomeNoData, CreatedAt: at},
	}

	out, err := executeCommand("", "history", "1")

	require.NoError(t, err)
	assert.Equal(t, 20, ts.chatbot.historyLimit)
	assert.Contains(t, out, "2024-06-01 12:30:00  [answered]")
	assert.Contains(t, out, "Q: second?")
	assert.Contains(t, out, "[no_data]")
	assert.Less(t, strings.Index(out, "second?"), strings.Index(out, "first?"))
	assert.Contains(t, out, "Total: 2 records")
}

func TestHistoryCmd_Limit(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chatbot.add(domain.Chatbot{UserID: 1, Name: "Docs"})
	ts.chatbot.history = []domain.AnswerRecord{{ID: "b"}, {ID: "a"}}

	out, err := executeCommand("", "history", "1", "--limit", "1")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.chatbot.historyLimit)
	assert.Contains(t, out, "Total: 1 records")
}

func TestHistoryCmd_Empty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chatbot.add(domain.Chatbot{UserID: 1, Name: "Docs"})

	out, err := executeCommand("", "history", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "No questions asked of chatbot 1 yet.")
}

func TestHistoryCmd_UnknownChatbot(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "history", "8")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
