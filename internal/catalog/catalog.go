package catalog

import "fmt"

// Kind classifies a card template.
type Kind string

const (
	KindMonster Kind = "MONSTER"
	KindSpell   Kind = "SPELL"
	KindTrap    Kind = "TRAP"
)

// EffectCode identifies the fixed behavior of a spell or trap template.
// The set is closed; the reducer switches exhaustively over it.
type EffectCode string

const (
	EffectNone EffectCode = ""

	// Spell effects
	EffectDamage          EffectCode = "DAMAGE"            // opponent loses Amount LP
	EffectHeal            EffectCode = "HEAL"              // activator gains Amount LP
	EffectDestroyAll      EffectCode = "DESTROY_ALL"       // destroy every monster on both sides
	EffectDestroyOpponent EffectCode = "DESTROY_OPPONENT"  // destroy every opponent monster
	EffectDestroyTag      EffectCode = "DESTROY_TAG"       // destroy every monster bearing Tag
	EffectDestroyBackRow  EffectCode = "DESTROY_BACK_ROW"  // destroy opponent's spell/trap zone
	EffectDestroyFaceDown EffectCode = "DESTROY_FACE_DOWN" // reveal and destroy opponent's face-down monsters
	EffectLockAttacks     EffectCode = "LOCK_ATTACKS"      // opponent may not attack for Amount turns
	EffectClearModifiers  EffectCode = "CLEAR_MODIFIERS"   // strip every equip and stat modifier on the field
	EffectLockTagAttacks  EffectCode = "LOCK_TAG_ATTACKS"  // monsters bearing Tag may not attack this turn
	EffectEquip           EffectCode = "EQUIP"             // continuous: target gains +Amount ATK and DEF

	// Trap effects (resolved against a declared attacker)
	EffectTrapDestroyAttacker     EffectCode = "TRAP_DESTROY_ATTACKER"      // destroy the attacker unconditionally
	EffectTrapDestroyAttackerBig  EffectCode = "TRAP_DESTROY_ATTACKER_BIG"  // destroy the attacker if its ATK < 3000
	EffectTrapDestroyAttackerWeak EffectCode = "TRAP_DESTROY_ATTACKER_WEAK" // destroy the attacker if its ATK <= 500
	EffectTrapLockAttacker        EffectCode = "TRAP_LOCK_ATTACKER"         // attacker may not attack for one turn
)

// Card is the static definition behind a card template id.
type Card struct {
	TemplateID int
	Name       string
	Kind       Kind
	ATK        int
	DEF        int
	Tags       []string
	EffectCode EffectCode
	// EffectAmount parameterizes DAMAGE/HEAL/LOCK_ATTACKS/EQUIP codes.
	EffectAmount int
	// EffectTag parameterizes DESTROY_TAG and LOCK_TAG_ATTACKS.
	EffectTag string
	// Sequence is the stable per-template number used as the fusion
	// recipe lookup key. Distinct from TemplateID.
	Sequence int
}

// Catalog resolves card template ids to their static definitions.
// Implementations must be immutable once constructed; every component
// of the engine shares a single catalog for the life of a match.
type Catalog interface {
	// Lookup returns the definition for a template id. A false return
	// means the id is unknown to the catalog; the engine treats that as
	// a fatal integrity error, never a rule violation.
	Lookup(templateID int) (Card, bool)

	// FusionResult resolves an unordered pair of sequence numbers
	// against the recipe table.
	FusionResult(seqA, seqB int) (resultTemplateID int, ok bool)

	// FallbackWeak is the template produced by a failed two-material
	// fusion (or a failed second chain step).
	FallbackWeak() int

	// FallbackLocked is the stronger template produced when the first
	// step of a three-material chain fails.
	FallbackLocked() int

	// DefaultDeck is the base template-id list used to pad or replace
	// absent custom decks.
	DefaultDeck() []int
}

type pairKey struct {
	lo, hi int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Memory is the built-in immutable catalog implementation.
type Memory struct {
	cards          map[int]Card
	recipes        map[pairKey]int
	fallbackWeak   int
	fallbackLocked int
	defaultDeck    []int
}

// NewMemory builds a catalog from explicit card and recipe tables.
// Recipe keys are unordered: (a,b) and (b,a) resolve identically.
func NewMemory(cards []Card, recipes []Recipe, fallbackWeak, fallbackLocked int, defaultDeck []int) (*Memory, error) {
	m := &Memory{
		cards:          make(map[int]Card, len(cards)),
		recipes:        make(map[pairKey]int, len(recipes)),
		fallbackWeak:   fallbackWeak,
		fallbackLocked: fallbackLocked,
		defaultDeck:    append([]int(nil), defaultDeck...),
	}
	seqs := make(map[int]int)
	for _, c := range cards {
		if _, dup := m.cards[c.TemplateID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %d", c.TemplateID)
		}
		if prev, dup := seqs[c.Sequence]; dup {
			return nil, fmt.Errorf("catalog: sequence %d shared by templates %d and %d", c.Sequence, prev, c.TemplateID)
		}
		seqs[c.Sequence] = c.TemplateID
		m.cards[c.TemplateID] = c
	}
	for _, r := range recipes {
		m.recipes[makePairKey(r.SeqA, r.SeqB)] = r.Result
	}
	if _, ok := m.cards[fallbackWeak]; !ok {
		return nil, fmt.Errorf("catalog: weak fallback template %d not in card table", fallbackWeak)
	}
	if _, ok := m.cards[fallbackLocked]; !ok {
		return nil, fmt.Errorf("catalog: locked fallback template %d not in card table", fallbackLocked)
	}
	return m, nil
}

// Recipe pairs two catalog sequence numbers with a result template id.
type Recipe struct {
	SeqA, SeqB int
	Result     int
}

func (m *Memory) Lookup(templateID int) (Card, bool) {
	c, ok := m.cards[templateID]
	return c, ok
}

func (m *Memory) FusionResult(seqA, seqB int) (int, bool) {
	result, ok := m.recipes[makePairKey(seqA, seqB)]
	return result, ok
}

func (m *Memory) FallbackWeak() int { return m.fallbackWeak }

func (m *Memory) FallbackLocked() int { return m.fallbackLocked }

func (m *Memory) DefaultDeck() []int {
	return append([]int(nil), m.defaultDeck...)
}
