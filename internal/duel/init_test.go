package duel

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch_StartingState(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 0, h.state.Version)
	assert.Equal(t, StatusRunning, h.state.Status)
	assert.Equal(t, alice, h.state.Turn.ActivePlayerID)
	assert.Equal(t, PhaseMain, h.state.Turn.Phase)
	assert.Equal(t, 1, h.state.Turn.Number)

	for _, p := range h.state.Players {
		assert.Equal(t, 8000, p.LP)
		assert.Len(t, p.Hand, 5)
		assert.Len(t, p.Deck, catalog.DeckSize-5)
		assert.Empty(t, p.Graveyard)
	}
	require.NoError(t, h.state.CheckIntegrity(h.cat))
}

// TestNewMatch_Deterministic verifies that the same seed and inputs
// always produce the same shuffled decks and opening hands.
func TestNewMatch_Deterministic(t *testing.T) {
	cat := catalog.NewBuiltin()
	rules := DefaultRules()
	setup := [2]PlayerSetup{{ID: alice}, {ID: bob}}

	a, eventsA, err := NewMatch(setup, 1234, cat, rules)
	require.NoError(t, err)
	b, eventsB, err := NewMatch(setup, 1234, cat, rules)
	require.NoError(t, err)

	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.Equal(t, eventsA, eventsB)

	c, _, err := NewMatch(setup, 5678, cat, rules)
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum(), c.Checksum())
}

func TestNewMatch_DrawEventsCoverOpeningHands(t *testing.T) {
	cat := catalog.NewBuiltin()
	_, events, err := NewMatch([2]PlayerSetup{{ID: alice}, {ID: bob}}, 7, cat, DefaultRules())
	require.NoError(t, err)

	drawn := map[string]int{}
	for _, ev := range events {
		require.Equal(t, EventCardDrawn, ev.Type)
		assert.NotZero(t, ev.InstanceID)
		assert.NotZero(t, ev.TemplateID)
		drawn[ev.PlayerID]++
	}
	assert.Equal(t, 5, drawn[alice])
	assert.Equal(t, 5, drawn[bob])
}

// TestNewMatch_PadsShortDeck verifies a short custom list is filled out
// from the catalog default up to the full deck size.
func TestNewMatch_PadsShortDeck(t *testing.T) {
	cat := catalog.NewBuiltin()
	setup := [2]PlayerSetup{
		{ID: alice, DeckTemplateIDs: []int{catalog.TplBlueEyes, catalog.TplDarkMagician}},
		{ID: bob},
	}
	state, _, err := NewMatch(setup, 9, cat, DefaultRules())
	require.NoError(t, err)

	p := state.Player(alice)
	assert.Equal(t, catalog.DeckSize, len(p.Deck)+len(p.Hand))

	found := map[int]bool{}
	for _, id := range append(append([]InstanceID(nil), p.Deck...), p.Hand...) {
		found[state.Instances[id].TemplateID] = true
	}
	assert.True(t, found[catalog.TplBlueEyes])
	assert.True(t, found[catalog.TplDarkMagician])
}

func TestNewMatch_RejectsBadPlayers(t *testing.T) {
	cat := catalog.NewBuiltin()
	_, _, err := NewMatch([2]PlayerSetup{{ID: "same"}, {ID: "same"}}, 1, cat, DefaultRules())
	assert.Error(t, err)

	_, _, err = NewMatch([2]PlayerSetup{{ID: ""}, {ID: bob}}, 1, cat, DefaultRules())
	assert.Error(t, err)
}

func TestNewMatch_RejectsUnknownTemplate(t *testing.T) {
	cat := catalog.NewBuiltin()
	setup := [2]PlayerSetup{
		{ID: alice, DeckTemplateIDs: []int{99999}},
		{ID: bob},
	}
	_, _, err := NewMatch(setup, 1, cat, DefaultRules())
	assert.Error(t, err)
}

// TestNewMatch_OpeningFatigueCanFinishTheMatch: an opening hand larger
// than the deck fatigues through it, and the win condition applies
// before the first action is ever submitted.
func TestNewMatch_OpeningFatigueCanFinishTheMatch(t *testing.T) {
	rules := DefaultRules()
	rules.DeckSize = 5
	rules.OpeningHandSize = 10
	rules.StartingLP = 1000

	setup := [2]PlayerSetup{{ID: alice}, {ID: bob}}
	cat := catalog.NewBuiltin()
	state, events, err := NewMatch(setup, 7, cat, rules)
	require.NoError(t, err)

	require.True(t, hasEvent(events, EventDeckFatigue))
	require.True(t, hasEvent(events, EventGameFinished))
	assert.Equal(t, StatusFinished, state.Status)
	assert.NotEmpty(t, state.WinnerID)
	assert.Equal(t, 0, state.Player(alice).LP)
	require.NoError(t, state.CheckIntegrity(cat))
}

// TestEndTurn_FatigueOnEmptyDeck verifies that ending a turn into a
// player with no deck burns life instead of drawing.
func TestEndTurn_FatigueOnEmptyDeck(t *testing.T) {
	h := newHarness(t)
	h.state.Player(bob).Deck = nil

	events := h.apply(alice, Action{Type: ActionEndTurn})

	require.True(t, hasEvent(events, EventDeckFatigue))
	lp := findEvent(t, events, EventLPChanged)
	assert.Equal(t, -500, lp.Amount)
	assert.Equal(t, 7500, lp.LP)
	assert.Equal(t, 7500, h.state.Player(bob).LP)
	assert.Len(t, h.state.Player(bob).Hand, 5)
}

// TestEndTurn_FatigueCanFinishTheMatch runs a player's life out through
// repeated empty draws.
func TestEndTurn_FatigueCanFinishTheMatch(t *testing.T) {
	h := newHarness(t)
	h.state.Player(bob).Deck = nil
	h.state.Player(bob).LP = 400

	events := h.apply(alice, Action{Type: ActionEndTurn})

	require.True(t, hasEvent(events, EventGameFinished))
	assert.Equal(t, StatusFinished, h.state.Status)
	assert.Equal(t, alice, h.state.WinnerID)
	assert.Equal(t, 0, h.state.Player(bob).LP)
}
