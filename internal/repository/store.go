// Package repository persists match outcomes and fusion discovery
// progression. The rules engine never imports it; the match manager
// writes through the Store interface after applying actions.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MatchResult is the durable record of one finished match.
type MatchResult struct {
	MatchID    string
	WinnerID   string
	LoserID    string
	Turns      int
	FinishedAt time.Time
}

// Discovery records that a player has fused a materials-profile,
// identified by its order-independent key.
type Discovery struct {
	PlayerID     string
	Key          string
	ResultCardID int
	FirstFusedAt time.Time
}

// Store is the persistence surface consumed by the match manager.
type Store interface {
	SaveMatchResult(ctx context.Context, result MatchResult) error
	// RecordDiscovery is idempotent per (player, key); re-fusing a
	// known profile is not an error.
	RecordDiscovery(ctx context.Context, d Discovery) error
	ListDiscoveries(ctx context.Context, playerID string) ([]Discovery, error)
}

// MemoryStore is the in-process Store used in tests and DSN-less runs.
type MemoryStore struct {
	mu          sync.RWMutex
	results     []MatchResult
	discoveries map[string]map[string]Discovery // playerID -> key -> record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{discoveries: make(map[string]map[string]Discovery)}
}

func (s *MemoryStore) SaveMatchResult(ctx context.Context, result MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *MemoryStore) RecordDiscovery(ctx context.Context, d Discovery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.discoveries[d.PlayerID]
	if !ok {
		byKey = make(map[string]Discovery)
		s.discoveries[d.PlayerID] = byKey
	}
	if _, seen := byKey[d.Key]; !seen {
		byKey[d.Key] = d
	}
	return nil
}

func (s *MemoryStore) ListDiscoveries(ctx context.Context, playerID string) ([]Discovery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byKey := s.discoveries[playerID]
	out := make([]Discovery, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Results returns a copy of all saved match results.
func (s *MemoryStore) Results() []MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MatchResult(nil), s.results...)
}
