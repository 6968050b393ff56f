package duel

import "github.com/duelforge/duel-server-go/internal/catalog"

// CatalogView is the read surface the engine needs for template lookup.
type CatalogView interface {
	Lookup(templateID int) (catalog.Card, bool)
}

// Catalog is the full injected catalog dependency: template lookup plus
// the fusion recipe table and the base deck list. It must be total over
// every template id ever placed into the instance map; a failed lookup
// during reduction is a fatal integrity error, not a validation failure.
type Catalog interface {
	CatalogView
	FusionResult(seqA, seqB int) (resultTemplateID int, ok bool)
	FallbackWeak() int
	FallbackLocked() int
	DefaultDeck() []int
}

// mustLookup resolves a template the engine has already admitted into
// the instance map. The catalog contract makes a miss a fatal error.
func mustLookup(cat CatalogView, templateID int) catalog.Card {
	card, ok := cat.Lookup(templateID)
	if !ok {
		panic(errIntegrity("unknown card template %d", templateID))
	}
	return card
}
