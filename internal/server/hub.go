// Package server exposes the match manager over websockets: clients
// join a match as a player or spectator, submit actions as JSON
// messages, and receive per-viewer snapshots plus event lists after
// every applied action.
package server

import (
	"sync"

	"github.com/duelforge/duel-server-go/internal/duel"
	"github.com/duelforge/duel-server-go/internal/match"
	"go.uber.org/zap"
)

// Hub tracks connected clients per match and fans match updates out to
// them with per-viewer redaction applied.
type Hub struct {
	logger *zap.Logger
	mgr    *match.Manager

	register   chan *Client
	unregister chan *Client
	updates    chan match.Update

	mu      sync.RWMutex
	byMatch map[string]map[*Client]bool
}

// NewHub wires a hub over the match manager's notifier.
func NewHub(mgr *match.Manager, logger *zap.Logger) *Hub {
	h := &Hub{
		logger:     logger,
		mgr:        mgr,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		updates:    make(chan match.Update, 64),
		byMatch:    make(map[string]map[*Client]bool),
	}
	mgr.Notifier().Subscribe(func(u match.Update) {
		h.updates <- u
	})
	return h
}

// Run processes registrations and match updates until the channel
// owner shuts the process down.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.byMatch[client.matchID]
			if !ok {
				clients = make(map[*Client]bool)
				h.byMatch[client.matchID] = clients
			}
			clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client joined",
				zap.String("match_id", client.matchID),
				zap.String("player_id", client.playerID),
			)

		case client := <-h.unregister:
			h.drop(client)

		case update := <-h.updates:
			h.broadcast(update)
		}
	}
}

// drop removes a client from its match and closes its send queue.
// Idempotent, and callable from any goroutine: the run loop on
// disconnect, or enqueue when a consumer falls behind.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	if clients, ok := h.byMatch[client.matchID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.byMatch, client.matchID)
		}
	}
	h.mu.Unlock()
	client.closeSend()
}

// snapshotFor projects the match for one client: the player view for
// players, the neutral fully redacted view for spectators.
func (h *Hub) snapshotFor(c *Client) (duel.Snapshot, error) {
	if c.spectator {
		return h.mgr.SpectatorSnapshot(c.matchID)
	}
	return h.mgr.Snapshot(c.matchID, c.playerID)
}

// broadcast sends the applied events plus a freshly projected snapshot
// to every client in the match. Each viewer gets their own redaction.
func (h *Hub) broadcast(update match.Update) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byMatch[update.MatchID]))
	for c := range h.byMatch[update.MatchID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		snap, err := h.snapshotFor(c)
		if err != nil {
			h.logger.Warn("snapshot for broadcast failed",
				zap.String("match_id", update.MatchID),
				zap.String("viewer", c.playerID),
				zap.Error(err),
			)
			continue
		}
		c.enqueue(ServerMessage{
			Type:     MsgEvents,
			MatchID:  update.MatchID,
			Version:  update.Version,
			Events:   update.Events,
			Snapshot: &snap,
			Finished: update.Finished,
		})
	}
}
