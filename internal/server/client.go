package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection bound to a match, either as one
// of the two players or as a spectator (empty playerID).
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan ServerMessage
	matchID   string
	playerID  string
	spectator bool
	logger    *zap.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, matchID, playerID string, logger *zap.Logger) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan ServerMessage, 32),
		matchID:   matchID,
		playerID:  playerID,
		spectator: playerID == "",
		logger:    logger,
	}
}

// enqueue drops the message onto the send queue. A full queue means a
// consumer too slow to keep up; the client is dropped on the spot.
// Going through the unregister channel here would deadlock the hub,
// which calls enqueue from its own run loop during broadcasts.
func (c *Client) enqueue(msg ServerMessage) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.logger.Warn("client send queue full, dropping connection",
			zap.String("match_id", c.matchID),
			zap.String("player_id", c.playerID),
		)
		c.hub.drop(c)
	}
}

// closeSend shuts the send queue exactly once. Safe against
// concurrent enqueues; writePump sees the close and hangs up.
func (c *Client) closeSend() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// readPump consumes client messages until the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.enqueue(ServerMessage{Type: MsgError, Error: "malformed message"})
			continue
		}
		c.hub.handleClientMessage(c, msg)
	}
}

// writePump flushes the send queue and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
