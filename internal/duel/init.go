package duel

import (
	"fmt"
	"math/rand"

	"github.com/duelforge/duel-server-go/internal/catalog"
)

// Rules holds the tunable match constants.
type Rules struct {
	StartingLP      int
	OpeningHandSize int
	FatigueDamage   int
	DeckSize        int
}

// DefaultRules returns the standard duel constants.
func DefaultRules() Rules {
	return Rules{
		StartingLP:      8000,
		OpeningHandSize: 5,
		FatigueDamage:   500,
		DeckSize:        catalog.DeckSize,
	}
}

// PlayerSetup seeds one player into a new match. An empty or short
// DeckTemplateIDs list is padded from the catalog's default deck.
type PlayerSetup struct {
	ID              string
	DeckTemplateIDs []int
}

// NewMatch builds the starting state: decks instantiated and
// deterministically shuffled with the given seed, then opening hands
// drawn through the shared draw primitive. The same seed and inputs
// always produce the same order.
func NewMatch(players [2]PlayerSetup, seed int64, cat Catalog, rules Rules) (*MatchState, []Event, error) {
	if players[0].ID == "" || players[1].ID == "" || players[0].ID == players[1].ID {
		return nil, nil, fmt.Errorf("duel: two distinct player ids required")
	}

	state := &MatchState{
		Version: 0,
		Status:  StatusRunning,
		Turn: TurnState{
			ActivePlayerID: players[0].ID,
			Phase:          PhaseMain,
			Number:         1,
		},
		Instances: make(map[InstanceID]*CardInstance),
		Seed:      seed,
	}

	rng := rand.New(rand.NewSource(seed))
	for i, setup := range players {
		deckList := normalizeDeckList(setup.DeckTemplateIDs, cat.DefaultDeck(), rules.DeckSize)
		for _, templateID := range deckList {
			if _, ok := cat.Lookup(templateID); !ok {
				return nil, nil, errIntegrity("deck references unknown template %d", templateID)
			}
		}
		p := &PlayerState{ID: setup.ID, LP: rules.StartingLP}
		for _, templateID := range deckList {
			ci := state.newInstance(setup.ID, templateID)
			p.Deck = append(p.Deck, ci.InstanceID)
		}
		rng.Shuffle(len(p.Deck), func(a, b int) {
			p.Deck[a], p.Deck[b] = p.Deck[b], p.Deck[a]
		})
		state.Players[i] = p
	}

	var events []Event
	for i := 0; i < rules.OpeningHandSize; i++ {
		for _, p := range state.Players {
			events = append(events, drawCard(state, p, rules)...)
		}
	}
	// An oversized opening hand can fatigue a player straight through
	// their deck, so the win condition holds here too.
	events = append(events, checkWin(state)...)
	return state, events, nil
}

// normalizeDeckList pads a short custom list from the base list, or
// replaces an absent one entirely, and truncates overlong lists.
func normalizeDeckList(custom, base []int, size int) []int {
	out := append([]int(nil), custom...)
	if len(out) > size {
		out = out[:size]
	}
	for i := 0; len(out) < size; i++ {
		out = append(out, base[i%len(base)])
	}
	return out
}

// drawCard pops the front of the deck into the hand. An empty deck
// inflicts fatigue damage instead; drawing never blocks or errors.
func drawCard(state *MatchState, p *PlayerState, rules Rules) []Event {
	if len(p.Deck) == 0 {
		p.LP -= rules.FatigueDamage
		if p.LP < 0 {
			p.LP = 0
		}
		return []Event{
			{Type: EventDeckFatigue, PlayerID: p.ID, Amount: -rules.FatigueDamage},
			{Type: EventLPChanged, PlayerID: p.ID, Amount: -rules.FatigueDamage, LP: p.LP},
		}
	}
	id := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, id)
	return []Event{{
		Type:       EventCardDrawn,
		PlayerID:   p.ID,
		InstanceID: id,
		TemplateID: state.Instances[id].TemplateID,
	}}
}
