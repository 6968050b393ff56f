// Package match owns live duels: it serializes action processing per
// match, drives the rules engine through its validate-then-apply
// protocol, records event history for replay, and writes finished
// results and fusion discoveries to the store.
package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/duelforge/duel-server-go/internal/catalog"
	"github.com/duelforge/duel-server-go/internal/duel"
	"github.com/duelforge/duel-server-go/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppliedAction is one history entry: the action, the events it
// produced, and the version the state reached.
type AppliedAction struct {
	Action  duel.Action
	Player  string
	Events  []duel.Event
	Version int
}

// Result is the manager's answer to a submitted action.
type Result struct {
	Accepted bool
	Reason   string // rejection reason when not accepted
	Version  int
	Events   []duel.Event
	Finished bool
}

type liveMatch struct {
	mu      sync.Mutex
	id      string
	state   *duel.MatchState
	history []AppliedAction
	started time.Time
}

// Manager owns every live match in the process. Matches are fully
// independent; each has its own lock, so distinct matches process
// actions in parallel without coordination.
type Manager struct {
	logger   *zap.Logger
	catalog  duel.Catalog
	store    repository.Store
	rules    duel.Rules
	notifier *Notifier

	mu      sync.RWMutex
	matches map[string]*liveMatch
}

// NewManager wires a manager over a catalog and store.
func NewManager(cat duel.Catalog, store repository.Store, rules duel.Rules, logger *zap.Logger) *Manager {
	return &Manager{
		logger:   logger,
		catalog:  cat,
		store:    store,
		rules:    rules,
		notifier: NewNotifier(),
		matches:  make(map[string]*liveMatch),
	}
}

// Notifier exposes the update fanout for transport subscribers.
func (m *Manager) Notifier() *Notifier { return m.notifier }

// CreateMatch validates both decks, seeds the engine, and registers
// the live match. Empty deck lists fall back to the catalog default.
func (m *Manager) CreateMatch(players [2]duel.PlayerSetup, seed int64) (string, *duel.MatchState, error) {
	for _, p := range players {
		if len(p.DeckTemplateIDs) == 0 {
			continue
		}
		if err := catalog.ValidateDeck(m.catalog, p.DeckTemplateIDs); err != nil {
			return "", nil, fmt.Errorf("deck for %s: %w", p.ID, err)
		}
	}

	state, events, err := duel.NewMatch(players, seed, m.catalog, m.rules)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	lm := &liveMatch{id: id, state: state, started: time.Now()}
	lm.history = append(lm.history, AppliedAction{Events: events, Version: state.Version})

	m.mu.Lock()
	m.matches[id] = lm
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", id),
		zap.String("player_a", players[0].ID),
		zap.String("player_b", players[1].ID),
		zap.Int64("seed", seed),
	)
	return id, state, nil
}

func (m *Manager) get(matchID string) (*liveMatch, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lm, ok := m.matches[matchID]
	return lm, ok
}

// Submit processes one action to completion under the match lock,
// which is the per-match serialization the engine expects. Rule
// rejections come back as data; an engine integrity error is fatal for
// the match and is returned as an error.
func (m *Manager) Submit(ctx context.Context, matchID, playerID string, action duel.Action) (Result, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return Result{}, fmt.Errorf("match %s not found", matchID)
	}

	lm.mu.Lock()

	if v := duel.Validate(lm.state, m.catalog, action, playerID); !v.OK {
		version := lm.state.Version
		lm.mu.Unlock()
		m.logger.Debug("action rejected",
			zap.String("match_id", matchID),
			zap.String("player_id", playerID),
			zap.String("action", string(action.Type)),
			zap.String("reason", v.Reason),
		)
		return Result{Reason: v.Reason, Version: version}, nil
	}

	next, events, err := duel.Apply(lm.state, m.catalog, action, playerID, m.rules)
	if err != nil {
		lm.mu.Unlock()
		m.logger.Error("engine integrity failure",
			zap.String("match_id", matchID),
			zap.String("action", string(action.Type)),
			zap.Error(err),
		)
		return Result{}, err
	}
	lm.state = next
	lm.history = append(lm.history, AppliedAction{
		Action:  action,
		Player:  playerID,
		Events:  events,
		Version: next.Version,
	})

	finished := next.Status == duel.StatusFinished
	m.afterApply(ctx, lm, playerID, events, finished)
	lm.mu.Unlock()

	// Subscribers run outside the match lock.
	m.notifier.Publish(Update{
		MatchID:  matchID,
		PlayerID: playerID,
		Version:  next.Version,
		Events:   events,
		Finished: finished,
	})
	return Result{Accepted: true, Version: next.Version, Events: events, Finished: finished}, nil
}

// afterApply handles the bookkeeping side effects of applied events:
// fusion discoveries and the terminal match record.
func (m *Manager) afterApply(ctx context.Context, lm *liveMatch, playerID string, events []duel.Event, finished bool) {
	for _, ev := range events {
		if ev.Fusion == nil {
			continue
		}
		d := repository.Discovery{
			PlayerID:     playerID,
			Key:          ev.Fusion.DiscoveryKey,
			ResultCardID: ev.Fusion.ResultTemplateID,
			FirstFusedAt: time.Now(),
		}
		if err := m.store.RecordDiscovery(ctx, d); err != nil {
			m.logger.Warn("failed to record discovery",
				zap.String("match_id", lm.id),
				zap.String("key", d.Key),
				zap.Error(err),
			)
		}
	}

	if !finished {
		return
	}
	winner := lm.state.WinnerID
	loser := lm.state.Opponent(winner).ID
	result := repository.MatchResult{
		MatchID:    lm.id,
		WinnerID:   winner,
		LoserID:    loser,
		Turns:      lm.state.Turn.Number,
		FinishedAt: time.Now(),
	}
	if err := m.store.SaveMatchResult(ctx, result); err != nil {
		m.logger.Warn("failed to save match result",
			zap.String("match_id", lm.id),
			zap.Error(err),
		)
	}
	m.logger.Info("match finished",
		zap.String("match_id", lm.id),
		zap.String("winner_id", winner),
		zap.Int("turns", lm.state.Turn.Number),
		zap.Duration("duration", time.Since(lm.started)),
		zap.String("checksum", lm.state.Checksum()),
	)
}

// Snapshot returns the redacted view of a match for one viewer.
func (m *Manager) Snapshot(matchID, viewerID string) (duel.Snapshot, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return duel.Snapshot{}, fmt.Errorf("match %s not found", matchID)
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.state.Player(viewerID) == nil {
		return duel.Snapshot{}, fmt.Errorf("player %s not in match %s", viewerID, matchID)
	}
	return duel.SnapshotFor(lm.state, m.catalog, viewerID), nil
}

// SpectatorSnapshot returns the neutral view of a match for a viewer
// who is not one of the players. Both sides are fully redacted.
func (m *Manager) SpectatorSnapshot(matchID string) (duel.Snapshot, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return duel.Snapshot{}, fmt.Errorf("match %s not found", matchID)
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return duel.SnapshotSpectator(lm.state, m.catalog), nil
}

// History returns the applied-action log for replay or audit.
func (m *Manager) History(matchID string) ([]AppliedAction, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return nil, fmt.Errorf("match %s not found", matchID)
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return append([]AppliedAction(nil), lm.history...), nil
}

// Players returns the two player ids of a match.
func (m *Manager) Players(matchID string) ([2]string, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return [2]string{}, fmt.Errorf("match %s not found", matchID)
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return [2]string{lm.state.Players[0].ID, lm.state.Players[1].ID}, nil
}

// Replay re-applies the recorded action sequence onto a fresh match
// seeded identically and reports whether the checksums converge. This
// is the divergence guard used by integration tests and audits.
func (m *Manager) Replay(matchID string, players [2]duel.PlayerSetup, seed int64) (bool, error) {
	lm, ok := m.get(matchID)
	if !ok {
		return false, fmt.Errorf("match %s not found", matchID)
	}
	lm.mu.Lock()
	history := append([]AppliedAction(nil), lm.history...)
	want := lm.state.Checksum()
	lm.mu.Unlock()

	state, _, err := duel.NewMatch(players, seed, m.catalog, m.rules)
	if err != nil {
		return false, err
	}
	for _, entry := range history {
		if entry.Player == "" {
			continue // match-creation entry
		}
		state, _, err = duel.Apply(state, m.catalog, entry.Action, entry.Player, m.rules)
		if err != nil {
			return false, fmt.Errorf("replay diverged at version %d: %w", entry.Version, err)
		}
	}
	return state.Checksum() == want, nil
}
