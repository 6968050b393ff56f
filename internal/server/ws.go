package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/duelforge/duel-server-go/internal/duel"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types on the wire.
const (
	// client -> server
	MsgAction = "action"

	// server -> client
	MsgJoined   = "joined"
	MsgEvents   = "events"
	MsgRejected = "rejected"
	MsgError    = "error"
)

// ClientMessage is the inbound JSON envelope.
type ClientMessage struct {
	Type   string      `json:"type"`
	Action duel.Action `json:"action"`
}

// ServerMessage is the outbound JSON envelope.
type ServerMessage struct {
	Type     string         `json:"type"`
	MatchID  string         `json:"match_id,omitempty"`
	Version  int            `json:"version,omitempty"`
	Events   []duel.Event   `json:"events,omitempty"`
	Snapshot *duel.Snapshot `json:"snapshot,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Error    string         `json:"error,omitempty"`
	Finished bool           `json:"finished,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleClientMessage routes one inbound message from a client.
func (h *Hub) handleClientMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case MsgAction:
		if c.spectator {
			c.enqueue(ServerMessage{Type: MsgError, Error: "spectators cannot submit actions"})
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result, err := h.mgr.Submit(ctx, c.matchID, c.playerID, msg.Action)
		if err != nil {
			h.logger.Error("action submission failed",
				zap.String("match_id", c.matchID),
				zap.String("player_id", c.playerID),
				zap.Error(err),
			)
			c.enqueue(ServerMessage{Type: MsgError, Error: "internal engine error"})
			return
		}
		if !result.Accepted {
			// Rejections go only to the submitting client.
			c.enqueue(ServerMessage{
				Type:    MsgRejected,
				MatchID: c.matchID,
				Version: result.Version,
				Reason:  result.Reason,
			})
		}
		// Accepted actions fan out through the notifier broadcast.
	default:
		c.enqueue(ServerMessage{Type: MsgError, Error: "unknown message type " + strconv.Quote(msg.Type)})
	}
}

// Routes registers the HTTP surface on a mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/matches", h.handleCreateMatch)
	mux.HandleFunc("/ws", h.handleWS)
}

type createMatchRequest struct {
	Players [2]struct {
		ID   string `json:"id"`
		Deck []int  `json:"deck,omitempty"`
	} `json:"players"`
	Seed int64 `json:"seed"`
}

func (h *Hub) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	setups := [2]duel.PlayerSetup{
		{ID: req.Players[0].ID, DeckTemplateIDs: req.Players[0].Deck},
		{ID: req.Players[1].ID, DeckTemplateIDs: req.Players[1].Deck},
	}
	matchID, _, err := h.mgr.CreateMatch(setups, seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"match_id": matchID})
}

// handleWS upgrades the connection and binds it to a match given by
// query parameters. With a player_id the client joins as that player;
// without one it joins as a spectator and gets the neutral view.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("match_id")
	playerID := r.URL.Query().Get("player_id")
	if matchID == "" {
		http.Error(w, "match_id is required", http.StatusBadRequest)
		return
	}
	players, err := h.mgr.Players(matchID)
	if err != nil {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	if playerID != "" && playerID != players[0] && playerID != players[1] {
		http.Error(w, "player not in match", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn, matchID, playerID, h.logger)
	h.register <- client
	go client.writePump()
	go client.readPump()

	snap, err := h.snapshotFor(client)
	if err == nil {
		client.enqueue(ServerMessage{Type: MsgJoined, MatchID: matchID, Version: snap.Version, Snapshot: &snap})
	}
}
