package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// answerStore implements driven.AnswerStore.
type answerStore struct {
	store *Store
}

var _ driven.AnswerStore = (*answerStore)(nil)

// Record stores one answer record.
func (s *answerStore) Record(ctx context.Context, rec *domain.AnswerRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("%w: answer record without id", domain.ErrInvalidInput)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO answers (id, user_id, chatbot_id, question, answer, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.ChatbotID, rec.Question, rec.Answer, string(rec.Outcome), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}

// List returns up to limit records for a chatbot, newest first.
func (s *answerStore) List(ctx context.Context, key domain.ChatbotKey, limit int) ([]domain.AnswerRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, chatbot_id, question, answer, outcome, created_at
		FROM answers WHERE user_id = ? AND chatbot_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, key.UserID, key.ChatbotID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w", err)
	}
	defer rows.Close()

	var records []domain.AnswerRecord
	for rows.Next() {
		var rec domain.AnswerRecord
		var outcome string
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ChatbotID, &rec.Question, &rec.Answer,
			&outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		rec.Outcome = domain.AnswerOutcome(outcome)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteByChatbot removes every record for a chatbot.
func (s *answerStore) DeleteByChatbot(ctx context.Context, key domain.ChatbotKey) error {
	_, err := s.store.db.ExecContext(ctx,
		`DELETE FROM answers WHERE user_id = ? AND chatbot_id = ?`, key.UserID, key.ChatbotID)
	if err != nil {
		return fmt.Errorf("deleting answers: %w", err)
	}
	return nil
}
