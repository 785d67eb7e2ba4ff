package mysql

import (
	"context"
	"database/sql"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
        INSERT INTO messages (id, conversation_id, sender_id, text, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.ConversationID, message.SenderID,
		message.Text, message.CreatedAt)
	return err
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	query := `
        SELECT id, conversation_id, sender_id, text, created_at
        FROM messages WHERE conversation_id = ? ORDER BY created_at ASC
    `
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var message domain.Message
		if err := rows.Scan(&message.ID, &message.ConversationID,
			&message.SenderID, &message.Text, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, rows.Err()
}
