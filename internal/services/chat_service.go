package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"
)

var ErrSelfConversation = errors.New("a conversation needs two distinct parties")

// ChatService persists conversations and messages. Real-time delivery runs
// over the websocket gateway; this service is the durable side of the same
// exchange.
type ChatService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	sellers       domain.AccountRepository
	publisher     domain.EventPublisher
	log           logger.Logger
}

func NewChatService(conversations domain.ConversationRepository, messages domain.MessageRepository,
	sellers domain.AccountRepository, publisher domain.EventPublisher, log logger.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		sellers:       sellers,
		publisher:     publisher,
		log:           log,
	}
}

// OpenConversation returns the customer-seller conversation, creating it on
// first contact. The seller must exist and differ from the caller.
func (s *ChatService) OpenConversation(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error) {
	if customerID == sellerID {
		return nil, ErrSelfConversation
	}
	if _, err := s.sellers.GetByID(ctx, sellerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	conversation, err := s.conversations.GetByPair(ctx, customerID, sellerID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	created := &domain.Conversation{
		ID:         utils.GenerateID("conv"),
		SellerID:   sellerID,
		CustomerID: customerID,
		CreatedAt:  time.Now(),
	}
	if err := s.conversations.Create(ctx, created); err != nil {
		return nil, err
	}

	// Re-read to pick up the joined party names.
	return s.conversations.GetByID(ctx, created.ID)
}

func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}

func (s *ChatService) ListMessages(ctx context.Context, conversationID, userID string) ([]*domain.Message, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if conversation.CustomerID != userID && conversation.SellerID != userID {
		return nil, ErrNotFound
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

// SendMessage stores the message for a conversation the sender belongs to
// and emits a message_sent activity event.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if conversation.CustomerID != senderID && conversation.SellerID != senderID {
		return nil, ErrNotFound
	}

	message := &domain.Message{
		ID:             utils.GenerateID("msg"),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	recipientID := conversation.CustomerID
	if senderID == conversation.CustomerID {
		recipientID = conversation.SellerID
	}
	if err := s.publisher.PublishActivity(ctx, &domain.ActivityEvent{
		Type:      domain.ActivityMessageSent,
		ActorID:   senderID,
		SubjectID: recipientID,
		Timestamp: message.CreatedAt,
	}); err != nil {
		s.log.Warn("Failed to publish message activity", "message_id", message.ID, "error", err)
	}

	return message, nil
}
