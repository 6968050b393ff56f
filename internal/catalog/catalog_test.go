package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory_RejectsDuplicateTemplateIDs(t *testing.T) {
	cards := []Card{
		monster(1, "A", 100, 100),
		{TemplateID: 1, Name: "B", Kind: KindMonster, Sequence: 900},
	}
	_, err := NewMemory(cards, nil, 1, 1, nil)
	assert.ErrorContains(t, err, "duplicate template id")
}

func TestNewMemory_RejectsSharedSequences(t *testing.T) {
	cards := []Card{
		{TemplateID: 1, Name: "A", Kind: KindMonster, Sequence: 800},
		{TemplateID: 2, Name: "B", Kind: KindMonster, Sequence: 800},
	}
	_, err := NewMemory(cards, nil, 1, 1, nil)
	assert.ErrorContains(t, err, "sequence")
}

func TestNewMemory_RejectsMissingFallbacks(t *testing.T) {
	cards := []Card{monster(1, "A", 100, 100)}
	_, err := NewMemory(cards, nil, 42, 1, nil)
	assert.ErrorContains(t, err, "weak fallback")
	_, err = NewMemory(cards, nil, 1, 42, nil)
	assert.ErrorContains(t, err, "locked fallback")
}

// TestFusionResult_Unordered: recipe keys must resolve both ways round.
func TestFusionResult_Unordered(t *testing.T) {
	cat := NewBuiltin()
	a, okA := cat.FusionResult(seq(TplGaiaKnight), seq(TplCurseOfDragon))
	b, okB := cat.FusionResult(seq(TplCurseOfDragon), seq(TplGaiaKnight))
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, TplGaiaChampion, a)
	assert.Equal(t, a, b)

	_, ok := cat.FusionResult(seq(TplBlueEyes), seq(TplSkullServant))
	assert.False(t, ok)
}

// TestBuiltin_TablesAreCoherent audits the shipped data: recipe inputs
// and results resolve, fallbacks exist, and the default deck is legal.
func TestBuiltin_TablesAreCoherent(t *testing.T) {
	cat := NewBuiltin()

	for _, r := range builtinRecipes {
		result, ok := cat.Lookup(r.Result)
		require.True(t, ok, "recipe result %d missing from card table", r.Result)
		assert.Equal(t, KindMonster, result.Kind)
	}

	weak, ok := cat.Lookup(cat.FallbackWeak())
	require.True(t, ok)
	assert.Equal(t, KindMonster, weak.Kind)
	locked, ok := cat.Lookup(cat.FallbackLocked())
	require.True(t, ok)
	assert.Equal(t, KindMonster, locked.Kind)

	require.NoError(t, ValidateDeck(cat, cat.DefaultDeck()))
}

func TestDefaultDeck_ReturnsCopy(t *testing.T) {
	cat := NewBuiltin()
	deck := cat.DefaultDeck()
	deck[0] = -1
	assert.NotEqual(t, -1, cat.DefaultDeck()[0])
}

func TestValidateDeck_Size(t *testing.T) {
	cat := NewBuiltin()
	err := ValidateDeck(cat, cat.DefaultDeck()[:39])
	assert.ErrorContains(t, err, "exactly")
}

func TestValidateDeck_CopyCap(t *testing.T) {
	cat := NewBuiltin()
	deck := make([]int, DeckSize)
	for i := range deck {
		deck[i] = TplBlueEyes
	}
	err := ValidateDeck(cat, deck)
	assert.ErrorContains(t, err, "copies")
}

func TestValidateDeck_MinimumMonsters(t *testing.T) {
	cat := NewBuiltin()
	deck := cat.DefaultDeck()
	// Swap monsters out for spells until the floor is broken.
	spells := []int{TplSparks, TplHinotama, TplRedMedicine, TplDarkHole, TplRaigeki, TplFeatherDuster, TplSwordsOfLight, TplWarriorElim, TplCeasefire}
	replaced := 0
	for i, id := range deck {
		card, _ := cat.Lookup(id)
		if card.Kind == KindMonster && replaced < len(spells) {
			deck[i] = spells[replaced]
			replaced++
		}
	}
	err := ValidateDeck(cat, deck)
	assert.ErrorContains(t, err, "monsters")
}

func TestValidateDeck_UnknownTemplate(t *testing.T) {
	cat := NewBuiltin()
	deck := cat.DefaultDeck()
	deck[0] = 99999
	err := ValidateDeck(cat, deck)
	assert.ErrorContains(t, err, "unknown")
}
