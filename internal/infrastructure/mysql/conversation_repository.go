package mysql

import (
	"context"
	"database/sql"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

const conversationColumns = `
    c.id, c.seller_id, c.customer_id,
    s.name, COALESCE(s.avatar_key, ''),
    cu.name, COALESCE(cu.avatar_key, ''),
    c.created_at
`

// ConversationRepository joins in both parties' names and avatar keys so the
// chat roster renders without extra lookups.
type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
        INSERT INTO conversations (id, seller_id, customer_id, created_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		conversation.ID, conversation.SellerID, conversation.CustomerID,
		conversation.CreatedAt)
	return err
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `
        SELECT ` + conversationColumns + `
        FROM conversations c
        JOIN sellers s ON s.id = c.seller_id
        JOIN customers cu ON cu.id = c.customer_id
        WHERE c.id = ?
    `
	return scanConversation(r.db.QueryRowContext(ctx, query, id))
}

func (r *ConversationRepository) GetByPair(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error) {
	query := `
        SELECT ` + conversationColumns + `
        FROM conversations c
        JOIN sellers s ON s.id = c.seller_id
        JOIN customers cu ON cu.id = c.customer_id
        WHERE c.customer_id = ? AND c.seller_id = ?
    `
	return scanConversation(r.db.QueryRowContext(ctx, query, customerID, sellerID))
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	query := `
        SELECT ` + conversationColumns + `
        FROM conversations c
        JOIN sellers s ON s.id = c.seller_id
        JOIN customers cu ON cu.id = c.customer_id
        WHERE c.customer_id = ? OR c.seller_id = ?
        ORDER BY c.created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*domain.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	return conversations, rows.Err()
}

func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := row.Scan(&conversation.ID, &conversation.SellerID, &conversation.CustomerID,
		&conversation.SellerName, &conversation.SellerAvatar,
		&conversation.CustomerName, &conversation.CustomerAvatar,
		&conversation.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
