package services

import (
	"context"
	"database/sql"
	"testing"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConversationRepo struct {
	conversations map[string]*domain.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*domain.Conversation)}
}

func (f *fakeConversationRepo) Create(_ context.Context, conversation *domain.Conversation) error {
	copied := *conversation
	f.conversations[conversation.ID] = &copied
	return nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	conversation, ok := f.conversations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *conversation
	return &copied, nil
}

func (f *fakeConversationRepo) GetByPair(_ context.Context, customerID, sellerID string) (*domain.Conversation, error) {
	for _, conversation := range f.conversations {
		if conversation.CustomerID == customerID && conversation.SellerID == sellerID {
			copied := *conversation
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeConversationRepo) ListForUser(_ context.Context, userID string) ([]*domain.Conversation, error) {
	var result []*domain.Conversation
	for _, conversation := range f.conversations {
		if conversation.CustomerID == userID || conversation.SellerID == userID {
			copied := *conversation
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeMessageRepo struct {
	messages []*domain.Message
}

func (f *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]*domain.Message, error) {
	var result []*domain.Message
	for _, message := range f.messages {
		if message.ConversationID == conversationID {
			result = append(result, message)
		}
	}
	return result, nil
}

type fakePublisher struct {
	events []*domain.ActivityEvent
}

func (f *fakePublisher) PublishActivity(_ context.Context, event *domain.ActivityEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newChatFixture() (*ChatService, *fakeConversationRepo, *fakeMessageRepo, *fakePublisher) {
	conversations := newFakeConversationRepo()
	messages := &fakeMessageRepo{}
	publisher := &fakePublisher{}

	sellers := newFakeAccountRepo()
	sellers.accounts["sell-1"] = &domain.Account{ID: "sell-1", Name: "Anna", Role: domain.RoleSeller}

	svc := NewChatService(conversations, messages, sellers, publisher, logger.New())
	return svc, conversations, messages, publisher
}

func TestOpenConversationRejectsSelfAndUnknownSeller(t *testing.T) {
	svc, _, _, _ := newChatFixture()

	_, err := svc.OpenConversation(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, ErrSelfConversation)

	_, err = svc.OpenConversation(context.Background(), "cust-1", "sell-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenConversationCreatesOnce(t *testing.T) {
	svc, conversations, _, _ := newChatFixture()

	first, err := svc.OpenConversation(context.Background(), "cust-1", "sell-1")
	require.NoError(t, err)
	require.Len(t, conversations.conversations, 1)

	second, err := svc.OpenConversation(context.Background(), "cust-1", "sell-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, conversations.conversations, 1)
}

func TestSendMessagePublishesActivity(t *testing.T) {
	svc, _, messages, publisher := newChatFixture()

	conversation, err := svc.OpenConversation(context.Background(), "cust-1", "sell-1")
	require.NoError(t, err)

	message, err := svc.SendMessage(context.Background(), conversation.ID, "cust-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", message.Text)
	require.Len(t, messages.messages, 1)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.ActivityMessageSent, publisher.events[0].Type)
	assert.Equal(t, "cust-1", publisher.events[0].ActorID)
	assert.Equal(t, "sell-1", publisher.events[0].SubjectID)
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	svc, _, messages, _ := newChatFixture()

	conversation, err := svc.OpenConversation(context.Background(), "cust-1", "sell-1")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), conversation.ID, "cust-2", "intruding")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, messages.messages)
}

func TestListMessagesScopedToParticipants(t *testing.T) {
	svc, _, _, _ := newChatFixture()

	conversation, err := svc.OpenConversation(context.Background(), "cust-1", "sell-1")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conversation.ID, "sell-1", "hi")
	require.NoError(t, err)

	listed, err := svc.ListMessages(context.Background(), conversation.ID, "cust-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListMessages(context.Background(), conversation.ID, "cust-2")
	assert.ErrorIs(t, err, ErrNotFound)
}
