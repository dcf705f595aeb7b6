package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestChatbotStore_SaveAssignsIDs(t *testing.T) {
	ctx := context.Background()
	store := NewChatbotStore()

	a := &domain.Chatbot{UserID: 1, Name: "a"}
	b := &domain.Chatbot{UserID: 1, Name: "b"}
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestChatbotStore_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewChatbotStore()
	bot := &domain.Chatbot{UserID: 1, Name: "mine"}
	require.NoError(t, store.Save(ctx, bot))

	_, err := store.Get(ctx, domain.ChatbotKey{UserID: 2, ChatbotID: bot.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stolen := *bot
	stolen.UserID = 2
	assert.ErrorIs(t, store.Save(ctx, &stolen), domain.ErrNotFound)

	require.NoError(t, store.Delete(ctx, domain.ChatbotKey{UserID: 2, ChatbotID: bot.ID}))
	got, err := store.Get(ctx, bot.Key())
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)

	others, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestChatbotStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewChatbotStore()
	bot := &domain.Chatbot{UserID: 3, Name: "old"}
	require.NoError(t, store.Save(ctx, bot))

	bot.Name = "new"
	require.NoError(t, store.Save(ctx, bot))
	got, err := store.Get(ctx, bot.Key())
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	require.NoError(t, store.Delete(ctx, bot.Key()))
	_, err = store.Get(ctx, bot.Key())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatbotStore_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewChatbotStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, &domain.Chatbot{UserID: 1}))
	}

	bots, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bots, 5)
	for i := range bots {
		assert.Equal(t, int64(i+1), bots[i].ID)
	}
}

func TestAnswerStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewAnswerStore()
	key := domain.ChatbotKey{UserID: 1, ChatbotID: 1}
	other := domain.ChatbotKey{UserID: 1, ChatbotID: 2}

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Record(ctx, &domain.AnswerRecord{ID: id, UserID: 1, ChatbotID: 1}))
	}
	require.NoError(t, store.Record(ctx, &domain.AnswerRecord{ID: "x", UserID: 1, ChatbotID: 2}))

	all, err := store.List(ctx, key, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := store.List(ctx, key, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	require.NoError(t, store.DeleteByChatbot(ctx, key))
	gone, err := store.List(ctx, key, 0)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := store.List(ctx, other, 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestAnswerStore_RejectsMissingID(t *testing.T) {
	err := NewAnswerStore().Record(context.Background(), &domain.AnswerRecord{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
