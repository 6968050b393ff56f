package duel

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/catalog"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
)

// duelHarness wires a running match with direct board access so tests
// can stage exact scenarios without scripting full games.
type duelHarness struct {
	t     *testing.T
	cat   *catalog.Memory
	rules Rules
	state *MatchState
}

func newHarness(t *testing.T) *duelHarness {
	t.Helper()
	cat := catalog.NewBuiltin()
	rules := DefaultRules()
	state, _, err := NewMatch([2]PlayerSetup{{ID: alice}, {ID: bob}}, 42, cat, rules)
	require.NoError(t, err)
	return &duelHarness{t: t, cat: cat, rules: rules, state: state}
}

// setTurn hand-sets whose turn it is without playing through END_TURNs.
func (h *duelHarness) setTurn(playerID string, number int, phase Phase) {
	h.state.Turn = TurnState{ActivePlayerID: playerID, Phase: phase, Number: number}
}

// giveCard mints a fresh instance of the template into a player's hand.
func (h *duelHarness) giveCard(playerID string, templateID int) InstanceID {
	h.t.Helper()
	p := h.state.Player(playerID)
	require.NotNil(h.t, p)
	ci := h.state.newInstance(playerID, templateID)
	p.Hand = append(p.Hand, ci.InstanceID)
	return ci.InstanceID
}

// placeMonster puts a fresh monster instance straight onto the board.
func (h *duelHarness) placeMonster(playerID string, slot, templateID int, face Face, pos Position) *MonsterOnBoard {
	h.t.Helper()
	p := h.state.Player(playerID)
	require.NotNil(h.t, p)
	require.Nil(h.t, p.MonsterZone[slot], "slot %d already occupied", slot)
	ci := h.state.newInstance(playerID, templateID)
	m := &MonsterOnBoard{
		InstanceID: ci.InstanceID,
		TemplateID: templateID,
		OwnerID:    playerID,
		Slot:       slot,
		Face:       face,
		Position:   pos,
	}
	p.MonsterZone[slot] = m
	return m
}

// placeSpellTrap puts a fresh spell/trap instance straight into a zone
// slot, face-down unless told otherwise.
func (h *duelHarness) placeSpellTrap(playerID string, slot, templateID int, face Face, setThisTurn bool) *SpellTrapOnBoard {
	h.t.Helper()
	p := h.state.Player(playerID)
	require.NotNil(h.t, p)
	require.Nil(h.t, p.SpellTrapZone[slot], "slot %d already occupied", slot)
	card, ok := h.cat.Lookup(templateID)
	require.True(h.t, ok)
	kind := CardSpell
	if card.Kind == catalog.KindTrap {
		kind = CardTrap
	}
	ci := h.state.newInstance(playerID, templateID)
	st := &SpellTrapOnBoard{
		InstanceID:  ci.InstanceID,
		TemplateID:  templateID,
		OwnerID:     playerID,
		Slot:        slot,
		Kind:        kind,
		Face:        face,
		SetThisTurn: setThisTurn,
	}
	p.SpellTrapZone[slot] = st
	return st
}

// apply validates and applies an action, failing the test on any
// engine error or integrity violation, and advances the harness state.
func (h *duelHarness) apply(playerID string, action Action) []Event {
	h.t.Helper()
	next, events, err := Apply(h.state, h.cat, action, playerID, h.rules)
	require.NoError(h.t, err)
	require.NoError(h.t, next.CheckIntegrity(h.cat))
	h.state = next
	return events
}

// reject asserts that the validator refuses the action and returns the
// verdict for reason inspection.
func (h *duelHarness) reject(playerID string, action Action) Verdict {
	h.t.Helper()
	v := Validate(h.state, h.cat, action, playerID)
	require.False(h.t, v.OK, "expected rejection of %s, got acceptance", action.Type)
	require.NotEmpty(h.t, v.Reason)
	return v
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func hasEvent(events []Event, typ EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func findEvent(t *testing.T, events []Event, typ EventType) Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == typ {
			return ev
		}
	}
	t.Fatalf("no %s event in %v", typ, eventTypes(events))
	return Event{}
}
