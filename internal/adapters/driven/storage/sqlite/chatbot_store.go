package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// chatbotStore implements driven.ChatbotStore.
type chatbotStore struct {
	store *Store
}

var _ driven.ChatbotStore = (*chatbotStore)(nil)

const chatbotColumns = `id, user_id, name, description, instructions, is_public, has_data,
	data_source, data_type, embedding_model, last_trained, created_at, updated_at`

// Save inserts a new chatbot (ID zero) or updates an existing one.
func (s *chatbotStore) Save(ctx context.Context, bot *domain.Chatbot) error {
	if bot == nil {
		return fmt.Errorf("%w: nil chatbot", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if bot.CreatedAt.IsZero() {
		bot.CreatedAt = now
	}
	bot.UpdatedAt = now

	var lastTrained sql.NullTime
	if bot.LastTrained != nil {
		lastTrained = sql.NullTime{Time: bot.LastTrained.UTC(), Valid: true}
	}

	if bot.ID == 0 {
		res, err := s.store.db.ExecContext(ctx, `
			INSERT INTO chatbots (user_id, name, description, instructions, is_public, has_data,
				data_source, data_type, embedding_model, last_trained, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, bot.UserID, bot.Name, bot.Description, bot.Instructions, bot.IsPublic, bot.HasData,
			bot.DataSource, string(bot.DataType), bot.EmbeddingModel, lastTrained,
			bot.CreatedAt, bot.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting chatbot: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading chatbot id: %w", err)
		}
		bot.ID = id
		return nil
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE chatbots SET
			name = ?, description = ?, instructions = ?, is_public = ?, has_data = ?,
			data_source = ?, data_type = ?, embedding_model = ?, last_trained = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, bot.Name, bot.Description, bot.Instructions, bot.IsPublic, bot.HasData,
		bot.DataSource, string(bot.DataType), bot.EmbeddingModel, lastTrained, bot.UpdatedAt,
		bot.ID, bot.UserID)
	if err != nil {
		return fmt.Errorf("updating chatbot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get retrieves a chatbot owned by key.UserID.
func (s *chatbotStore) Get(ctx context.Context, key domain.ChatbotKey) (*domain.Chatbot, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+chatbotColumns+` FROM chatbots WHERE id = ? AND user_id = ?`,
		key.ChatbotID, key.UserID)

	bot, err := scanChatbot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chatbot: %w", err)
	}
	return bot, nil
}

// List returns a user's chatbots ordered by ID.
func (s *chatbotStore) List(ctx context.Context, userID int64) ([]domain.Chatbot, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+chatbotColumns+` FROM chatbots WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chatbots: %w", err)
	}
	defer rows.Close()

	var bots []domain.Chatbot
	for rows.Next() {
		bot, err := scanChatbot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chatbot: %w", err)
		}
		bots = append(bots, *bot)
	}
	return bots, rows.Err()
}

// Delete removes a chatbot.
func (s *chatbotStore) Delete(ctx context.Context, key domain.ChatbotKey) error {
	_, err := s.store.db.ExecContext(ctx,
		`DELETE FROM chatbots WHERE id = ? AND user_id = ?`, key.ChatbotID, key.UserID)
	if err != nil {
		return fmt.Errorf("deleting chatbot: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChatbot(row scanner) (*domain.Chatbot, error) {
	var bot domain.Chatbot
	var dataType string
	var lastTrained, createdAt, updatedAt sql.NullTime
	if err := row.Scan(&bot.ID, &bot.UserID, &bot.Name, &bot.Description, &bot.Instructions,
		&bot.IsPublic, &bot.HasData, &bot.DataSource, &dataType, &bot.EmbeddingModel,
		&lastTrained, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	bot.DataType = domain.DataType(dataType)
	if lastTrained.Valid {
		t := lastTrained.Time
		bot.LastTrained = &t
	}
	if createdAt.Valid {
		bot.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		bot.UpdatedAt = updatedAt.Time
	}
	return &bot, nil
}
