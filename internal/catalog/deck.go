package catalog

import "fmt"

// Deck composition rules. A deck must pass these checks before it may
// seed a match; the engine initializer assumes this already happened.
const (
	DeckSize    = 40
	MaxCopies   = 3
	MinMonsters = 20
)

// ValidateDeck checks a template-id list against the fixed composition
// rules: exact size, per-template copy cap, minimum monster count, and
// every id resolvable in the catalog.
func ValidateDeck(cat Catalog, templateIDs []int) error {
	if len(templateIDs) != DeckSize {
		return fmt.Errorf("deck must contain exactly %d cards, got %d", DeckSize, len(templateIDs))
	}
	copies := make(map[int]int)
	monsters := 0
	for _, id := range templateIDs {
		card, ok := cat.Lookup(id)
		if !ok {
			return fmt.Errorf("unknown card template %d", id)
		}
		copies[id]++
		if copies[id] > MaxCopies {
			return fmt.Errorf("more than %d copies of %q", MaxCopies, card.Name)
		}
		if card.Kind == KindMonster {
			monsters++
		}
	}
	if monsters < MinMonsters {
		return fmt.Errorf("deck needs at least %d monsters, got %d", MinMonsters, monsters)
	}
	return nil
}
