package websocket

import (
	"net/http"
	"sync"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

const (
	eventRegisterUser   = "registerUser"
	eventSendMessage    = "sendMessage"
	eventGetUsers       = "getUsers"
	eventReceiveMessage = "receiveMessage"
)

type clientEvent struct {
	Event       string `json:"event"`
	UserID      string `json:"userId,omitempty"`
	SenderID    string `json:"senderId,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
	Text        string `json:"text,omitempty"`
}

type rosterEvent struct {
	Event string                 `json:"event"`
	Users []domain.PresenceEntry `json:"users"`
}

type messageEvent struct {
	Event    string `json:"event"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// Gateway bridges websocket connections to the presence registry. Each
// connection runs its own read loop, so a connection's events are handled in
// arrival order; the registry's mutex serializes cross-connection access.
type Gateway struct {
	registry     *PresenceRegistry
	pingInterval time.Duration
	pongTimeout  time.Duration
	log          logger.Logger

	mu    sync.RWMutex
	conns map[string]domain.ChatConnection
}

func NewGateway(registry *PresenceRegistry, pingInterval, pongTimeout time.Duration,
	log logger.Logger) *Gateway {
	return &Gateway{
		registry:     registry,
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		log:          log,
		conns:        make(map[string]domain.ChatConnection),
	}
}

// Attach makes a connection reachable for broadcasts and deliveries. No
// presence entry exists until the client sends registerUser.
func (g *Gateway) Attach(conn domain.ChatConnection) {
	g.mu.Lock()
	g.conns[conn.ID()] = conn
	g.mu.Unlock()

	g.log.Info("Connection attached", "connection_id", conn.ID())
}

// HandleRegister records the client's declared identity and broadcasts the
// online roster to every attached connection.
func (g *Gateway) HandleRegister(conn domain.ChatConnection, userID string) {
	snapshot := g.registry.Register(userID, conn.ID())
	g.log.Info("User registered", "user_id", userID, "connection_id", conn.ID())
	g.broadcast(snapshot)
}

// HandleSendMessage delivers the message to the recipient's connection only.
// An offline recipient drops the message silently; the sender is not told.
func (g *Gateway) HandleSendMessage(senderID, recipientID, text string) {
	connectionID, online := g.registry.Resolve(recipientID)
	if !online {
		g.log.Debug("Recipient offline, dropping message", "recipient_id", recipientID)
		return
	}

	g.mu.RLock()
	conn, exists := g.conns[connectionID]
	g.mu.RUnlock()
	if !exists {
		return
	}

	if err := conn.Send(messageEvent{
		Event:    eventReceiveMessage,
		SenderID: senderID,
		Text:     text,
	}); err != nil {
		g.log.Error("Failed to deliver message", "recipient_id", recipientID, "error", err)
	}
}

// HandleDisconnect removes the connection's presence entry and broadcasts
// the updated roster to the remaining connections. Every way a connection
// ends (clean close, read error, liveness timeout) funnels through here.
func (g *Gateway) HandleDisconnect(conn domain.ChatConnection) {
	g.mu.Lock()
	delete(g.conns, conn.ID())
	g.mu.Unlock()

	snapshot := g.registry.Unregister(conn.ID())
	g.log.Info("Connection detached", "connection_id", conn.ID())
	g.broadcast(snapshot)
}

func (g *Gateway) broadcast(snapshot []domain.PresenceEntry) {
	g.mu.RLock()
	conns := make([]domain.ChatConnection, 0, len(g.conns))
	for _, conn := range g.conns {
		conns = append(conns, conn)
	}
	g.mu.RUnlock()

	event := rosterEvent{Event: eventGetUsers, Users: snapshot}
	for _, conn := range conns {
		if err := conn.Send(event); err != nil {
			g.log.Error("Failed to broadcast roster", "connection_id", conn.ID(), "error", err)
			// Continue to other connections
		}
	}
}

// HandleConnection upgrades the request and starts the connection's read and
// ping loops.
func (g *Gateway) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := newWSConnection(conn, utils.GenerateID("conn"))
	g.Attach(wsConn)

	conn.SetReadDeadline(time.Now().Add(g.pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.pongTimeout))
	})

	go g.pingLoop(wsConn)
	go g.readLoop(wsConn)
}

func (g *Gateway) readLoop(conn *wsConnection) {
	defer func() {
		g.HandleDisconnect(conn)
		conn.Close()
	}()

	for {
		var event clientEvent
		if err := conn.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Error("Failed to read message", "connection_id", conn.ID(), "error", err)
			}
			return
		}

		switch event.Event {
		case eventRegisterUser:
			if event.UserID == "" {
				continue
			}
			g.HandleRegister(conn, event.UserID)
		case eventSendMessage:
			g.HandleSendMessage(event.SenderID, event.RecipientID, event.Text)
		}
	}
}

// pingLoop keeps the liveness check going: a connection that stops answering
// pings exceeds its read deadline and takes the normal disconnect path.
func (g *Gateway) pingLoop(conn *wsConnection) {
	ticker := time.NewTicker(g.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(g.pingInterval / 2)
			if err := conn.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-conn.done:
			return
		}
	}
}

type wsConnection struct {
	conn      *websocket.Conn
	id        string
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func newWSConnection(conn *websocket.Conn, id string) *wsConnection {
	return &wsConnection{
		conn: conn,
		id:   id,
		done: make(chan struct{}),
	}
}

func (c *wsConnection) Send(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(message)
}

func (c *wsConnection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConnection) ID() string {
	return c.id
}
