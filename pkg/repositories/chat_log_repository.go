package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// IntentCount is one row of the popular-intents aggregate.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int64  `json:"count"`
}

// ChatLogRepository provides append-only access to the conversation log.
// Rows are never updated except for the classification backfill on an
// inbound turn, and never deleted.
type ChatLogRepository interface {
	Insert(ctx context.Context, entry *models.ChatLog) error
	// BackfillClassification sets intent and confidence on an inbound turn
	// after classification has run. It is the only permitted mutation.
	BackfillClassification(ctx context.Context, id uuid.UUID, intent string, confidence float64) error
	// ListByPhone returns turns for a phone number, oldest first.
	ListByPhone(ctx context.Context, phone string, limit int) ([]*models.ChatLog, error)
	// PopularIntents aggregates classified inbound turns by intent,
	// most frequent first.
	PopularIntents(ctx context.Context, limit int) ([]IntentCount, error)
}

type chatLogRepository struct {
	db *database.DB
}

// NewChatLogRepository creates a new ChatLogRepository.
func NewChatLogRepository(db *database.DB) ChatLogRepository {
	return &chatLogRepository{db: db}
}

var _ ChatLogRepository = (*chatLogRepository)(nil)

func (r *chatLogRepository) Insert(ctx context.Context, entry *models.ChatLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO chat_logs (id, phone_number, citizen_id, message_text,
		                       direction, intent, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.PhoneNumber, entry.CitizenID, entry.MessageText,
		entry.Direction, entry.Intent, entry.Confidence,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat log: %w", err)
	}

	return nil
}

func (r *chatLogRepository) BackfillClassification(ctx context.Context, id uuid.UUID, intent string, confidence float64) error {
	query := `
		UPDATE chat_logs
		SET intent = $2, confidence = $3
		WHERE id = $1 AND direction = 'IN'`

	result, err := r.db.Exec(ctx, query, id, intent, confidence)
	if err != nil {
		return fmt.Errorf("failed to backfill classification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *chatLogRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]*models.ChatLog, error) {
	query := `
		SELECT id, phone_number, citizen_id, message_text, direction,
		       intent, confidence, created_at
		FROM chat_logs
		WHERE phone_number = $1
		ORDER BY created_at, id
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ChatLog
	for rows.Next() {
		var l models.ChatLog
		if err := rows.Scan(
			&l.ID, &l.PhoneNumber, &l.CitizenID, &l.MessageText, &l.Direction,
			&l.Intent, &l.Confidence, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, nil
}

func (r *chatLogRepository) PopularIntents(ctx context.Context, limit int) ([]IntentCount, error) {
	query := `
		SELECT intent, COUNT(*) AS total
		FROM chat_logs
		WHERE direction = 'IN' AND intent IS NOT NULL
		GROUP BY intent
		ORDER BY total DESC, intent
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular intents: %w", err)
	}
	defer rows.Close()

	var counts []IntentCount
	for rows.Next() {
		var c IntentCount
		if err := rows.Scan(&c.Intent, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan intent count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
