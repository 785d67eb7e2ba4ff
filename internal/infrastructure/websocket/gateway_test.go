package websocket

import (
	"testing"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	id       string
	messages []interface{}
	closed   bool
}

func (f *fakeConnection) Send(message interface{}) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeConnection) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConnection) ID() string {
	return f.id
}

func (f *fakeConnection) receivedMessages() []messageEvent {
	var events []messageEvent
	for _, msg := range f.messages {
		if event, ok := msg.(messageEvent); ok {
			events = append(events, event)
		}
	}
	return events
}

func (f *fakeConnection) lastRoster() (rosterEvent, bool) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if event, ok := f.messages[i].(rosterEvent); ok {
			return event, true
		}
	}
	return rosterEvent{}, false
}

func newTestGateway() *Gateway {
	return NewGateway(NewPresenceRegistry(), time.Second, 2*time.Second, logger.New())
}

func TestEndToEndDelivery(t *testing.T) {
	gateway := newTestGateway()

	sock1 := &fakeConnection{id: "sock-1"}
	sock2 := &fakeConnection{id: "sock-2"}
	gateway.Attach(sock1)
	gateway.Attach(sock2)

	gateway.HandleRegister(sock1, "u1")
	gateway.HandleRegister(sock2, "u2")

	gateway.HandleSendMessage("u1", "u2", "hi")

	received := sock2.receivedMessages()
	require.Len(t, received, 1)
	assert.Equal(t, eventReceiveMessage, received[0].Event)
	assert.Equal(t, "u1", received[0].SenderID)
	assert.Equal(t, "hi", received[0].Text)

	assert.Empty(t, sock1.receivedMessages(), "sender must not receive its own message")
}

func TestOfflineRecipientDropsSilently(t *testing.T) {
	gateway := newTestGateway()

	sock1 := &fakeConnection{id: "sock-1"}
	gateway.Attach(sock1)
	gateway.HandleRegister(sock1, "u1")

	gateway.HandleSendMessage("u1", "u3", "anyone there?")

	assert.Empty(t, sock1.receivedMessages())
}

func TestRegisterBroadcastsRoster(t *testing.T) {
	gateway := newTestGateway()

	sock1 := &fakeConnection{id: "sock-1"}
	sock2 := &fakeConnection{id: "sock-2"}
	gateway.Attach(sock1)
	gateway.Attach(sock2)

	gateway.HandleRegister(sock1, "u1")

	// Both connections see the roster, including the not-yet-registered one.
	for _, sock := range []*fakeConnection{sock1, sock2} {
		roster, ok := sock.lastRoster()
		require.True(t, ok)
		require.Len(t, roster.Users, 1)
		assert.Equal(t, "u1", roster.Users[0].UserID)
	}
}

func TestDisconnectBroadcastsUpdatedRoster(t *testing.T) {
	gateway := newTestGateway()

	sock1 := &fakeConnection{id: "sock-1"}
	sock2 := &fakeConnection{id: "sock-2"}
	gateway.Attach(sock1)
	gateway.Attach(sock2)
	gateway.HandleRegister(sock1, "u1")
	gateway.HandleRegister(sock2, "u2")

	gateway.HandleDisconnect(sock1)

	roster, ok := sock2.lastRoster()
	require.True(t, ok)
	require.Len(t, roster.Users, 1)
	assert.Equal(t, "u2", roster.Users[0].UserID)
	assert.Equal(t, "sock-2", roster.Users[0].ConnectionID)

	// The departed connection no longer receives broadcasts.
	countBefore := len(sock1.messages)
	gateway.HandleRegister(sock2, "u2")
	assert.Equal(t, countBefore, len(sock1.messages))
}

func TestDeliveryAfterRecipientDisconnects(t *testing.T) {
	gateway := newTestGateway()

	sock1 := &fakeConnection{id: "sock-1"}
	sock2 := &fakeConnection{id: "sock-2"}
	gateway.Attach(sock1)
	gateway.Attach(sock2)
	gateway.HandleRegister(sock1, "u1")
	gateway.HandleRegister(sock2, "u2")
	gateway.HandleDisconnect(sock2)

	gateway.HandleSendMessage("u1", "u2", "too late")

	assert.Empty(t, sock2.receivedMessages())
}

var _ domain.ChatConnection = (*fakeConnection)(nil)
