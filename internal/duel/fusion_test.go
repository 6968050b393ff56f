package duel

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFusion_KnownPair(t *testing.T) {
	cat := catalog.NewBuiltin()
	out := ResolveFusion(cat, []int{catalog.TplThunderDragon, catalog.TplThunderDragon}, 0)

	assert.False(t, out.Failed)
	assert.Equal(t, catalog.TplTwinThunder, out.ResultTemplateID)
	require.Len(t, out.Steps, 1)
	assert.False(t, out.Steps[0].Failed)
}

// TestResolveFusion_PairIsUnordered checks that recipe lookup ignores
// material order for a single pair.
func TestResolveFusion_PairIsUnordered(t *testing.T) {
	cat := catalog.NewBuiltin()
	a := ResolveFusion(cat, []int{catalog.TplGaiaKnight, catalog.TplCurseOfDragon}, 0)
	b := ResolveFusion(cat, []int{catalog.TplCurseOfDragon, catalog.TplGaiaKnight}, 0)

	assert.Equal(t, catalog.TplGaiaChampion, a.ResultTemplateID)
	assert.Equal(t, a.ResultTemplateID, b.ResultTemplateID)
}

func TestResolveFusion_TwoMaterialMissWeakFallback(t *testing.T) {
	cat := catalog.NewBuiltin()
	out := ResolveFusion(cat, []int{catalog.TplBlueEyes, catalog.TplFeralImp}, 0)

	assert.True(t, out.Failed)
	assert.Equal(t, FallbackWeak, out.Fallback)
	assert.Equal(t, cat.FallbackWeak(), out.ResultTemplateID)
	require.Len(t, out.Steps, 1)
	assert.True(t, out.Steps[0].Failed)
}

// TestResolveFusion_ThreeMaterialChain resolves left-associatively:
// the first pair's result feeds the second lookup.
func TestResolveFusion_ThreeMaterialChain(t *testing.T) {
	cat := catalog.NewBuiltin()
	out := ResolveFusion(cat, []int{
		catalog.TplPetitDragon, catalog.TplBabyDragon, catalog.TplSkullServant,
	}, 0)

	assert.False(t, out.Failed)
	assert.Equal(t, catalog.TplDragonZombie, out.ResultTemplateID)
	require.Len(t, out.Steps, 2)
	assert.Equal(t, catalog.TplCurseOfDragon, out.Steps[0].ResultTemplateID)
	assert.Equal(t, catalog.TplCurseOfDragon, out.Steps[1].LeftTemplateID)
	assert.Equal(t, catalog.TplSkullServant, out.Steps[1].RightTemplateID)
}

// TestResolveFusion_ChainFirstStepMiss yields the locked fallback and
// never attempts the second pairing.
func TestResolveFusion_ChainFirstStepMiss(t *testing.T) {
	cat := catalog.NewBuiltin()
	out := ResolveFusion(cat, []int{
		catalog.TplSkullServant, catalog.TplSkullServant, catalog.TplBabyDragon,
	}, 0)

	assert.True(t, out.Failed)
	assert.Equal(t, FallbackLocked, out.Fallback)
	assert.Equal(t, cat.FallbackLocked(), out.ResultTemplateID)
	assert.Len(t, out.Steps, 1)
}

func TestResolveFusion_ChainSecondStepMiss(t *testing.T) {
	cat := catalog.NewBuiltin()
	out := ResolveFusion(cat, []int{
		catalog.TplPetitDragon, catalog.TplBabyDragon, catalog.TplFeralImp,
	}, 0)

	assert.True(t, out.Failed)
	assert.Equal(t, FallbackWeak, out.Fallback)
	assert.Equal(t, cat.FallbackWeak(), out.ResultTemplateID)
	require.Len(t, out.Steps, 2)
	assert.False(t, out.Steps[0].Failed)
	assert.True(t, out.Steps[1].Failed)
}

// TestResolveFusion_SeedNeverMatters: resolution is a pure table
// lookup; wildly different seeds cannot change the outcome.
func TestResolveFusion_SeedNeverMatters(t *testing.T) {
	cat := catalog.NewBuiltin()
	materials := []int{catalog.TplSummonedSkull, catalog.TplRedEyes}
	for _, seed := range []int64{0, 1, -1, 1 << 40} {
		out := ResolveFusion(cat, materials, seed)
		assert.Equal(t, catalog.TplBSkullDragon, out.ResultTemplateID)
	}
}

func TestApplyFuse_FromHand(t *testing.T) {
	h := newHarness(t)
	a := h.giveCard(alice, catalog.TplThunderDragon)
	b := h.giveCard(alice, catalog.TplThunderDragon)

	events := h.apply(alice, Action{
		Type:      ActionFuse,
		Materials: []InstanceID{a, b},
		Order:     []InstanceID{a, b},
		Slot:      2,
	})

	result := h.state.Player(alice).MonsterZone[2]
	require.NotNil(t, result)
	assert.Equal(t, catalog.TplTwinThunder, result.TemplateID)
	assert.Equal(t, FaceUp, result.Face)
	assert.Equal(t, PositionAttack, result.Position)
	assert.True(t, h.state.Player(alice).UsedSummonOrFuseThisTurn)
	assert.Contains(t, h.state.Player(alice).Graveyard, a)
	assert.Contains(t, h.state.Player(alice).Graveyard, b)

	fusion := findEvent(t, events, EventFusionResolved)
	require.NotNil(t, fusion.Fusion)
	assert.Equal(t, catalog.TplTwinThunder, fusion.Fusion.ResultTemplateID)
	assert.NotEmpty(t, fusion.Fusion.DiscoveryKey)
	assert.True(t, hasEvent(events, EventMonsterSummoned))
}

// TestApplyFuse_FieldMaterial verifies field materials leave through
// the destroy path, shedding attached equips, and the result reuses
// the vacated slot.
func TestApplyFuse_FieldMaterial(t *testing.T) {
	h := newHarness(t)
	handCard := h.giveCard(alice, catalog.TplCurseOfDragon)
	field := h.placeMonster(alice, 3, catalog.TplGaiaKnight, FaceUp, PositionAttack)
	sword := h.giveCard(alice, catalog.TplLegendarySword)
	h.apply(alice, Action{Type: ActionActivateSpellFromHand, Card: sword, TargetSlot: 3, Slot: 0})

	events := h.apply(alice, Action{
		Type:      ActionFuse,
		Materials: []InstanceID{field.InstanceID, handCard},
		Order:     []InstanceID{field.InstanceID, handCard},
		Slot:      3,
	})

	result := h.state.Player(alice).MonsterZone[3]
	require.NotNil(t, result)
	assert.Equal(t, catalog.TplGaiaChampion, result.TemplateID)
	assert.Zero(t, result.ATKModifier)
	// The equip detached and went to the graveyard with the material.
	assert.Nil(t, h.state.Player(alice).SpellTrapZone[0])
	assert.True(t, hasEvent(events, EventEquipDetached))
	assert.Contains(t, h.state.Player(alice).Graveyard, field.InstanceID)
	assert.Contains(t, h.state.Player(alice).Graveyard, sword)
	require.NoError(t, h.state.CheckIntegrity(h.cat))
}

// TestApplyFuse_LockedFallback: a failed first chain step summons the
// locked fallback in defense, unable to attack or reposition until the
// player's next turn has passed.
func TestApplyFuse_LockedFallback(t *testing.T) {
	h := newHarness(t)
	a := h.giveCard(alice, catalog.TplSkullServant)
	b := h.giveCard(alice, catalog.TplSkullServant)
	c := h.giveCard(alice, catalog.TplBabyDragon)

	events := h.apply(alice, Action{
		Type:      ActionFuse,
		Materials: []InstanceID{a, b, c},
		Order:     []InstanceID{a, b, c},
		Slot:      0,
	})

	require.True(t, hasEvent(events, EventFusionFailed))
	result := h.state.Player(alice).MonsterZone[0]
	require.NotNil(t, result)
	assert.Equal(t, h.cat.FallbackLocked(), result.TemplateID)
	assert.Equal(t, PositionDefense, result.Position)
	assert.True(t, result.CannotAttackThisTurn)
	assert.Equal(t, h.state.Turn.Number+2, result.LockedPositionUntilTurn)

	h.reject(alice, Action{Type: ActionChangePosition, Slot: 0})
}

func TestApplyFuse_WeakFallbackStaysInAttack(t *testing.T) {
	h := newHarness(t)
	a := h.giveCard(alice, catalog.TplBlueEyes)
	b := h.giveCard(alice, catalog.TplFeralImp)

	events := h.apply(alice, Action{
		Type:      ActionFuse,
		Materials: []InstanceID{a, b},
		Order:     []InstanceID{a, b},
		Slot:      1,
	})

	require.True(t, hasEvent(events, EventFusionFailed))
	result := h.state.Player(alice).MonsterZone[1]
	require.NotNil(t, result)
	assert.Equal(t, h.cat.FallbackWeak(), result.TemplateID)
	assert.Equal(t, PositionAttack, result.Position)
	assert.False(t, result.CannotAttackThisTurn)
}

func TestDiscoveryKey_OrderIndependent(t *testing.T) {
	cat := catalog.NewBuiltin()
	a := DiscoveryKey(cat, []int{catalog.TplThunderDragon, catalog.TplGaiaKnight})
	b := DiscoveryKey(cat, []int{catalog.TplGaiaKnight, catalog.TplThunderDragon})
	assert.Equal(t, a, b)
	assert.Equal(t, "dragon,thunder,warrior#2", a)
}

// TestDiscoveryKey_CountDistinguishesArity: the same tag profile with a
// different material count is a different discovery.
func TestDiscoveryKey_CountDistinguishesArity(t *testing.T) {
	cat := catalog.NewBuiltin()
	two := DiscoveryKey(cat, []int{catalog.TplPetitDragon, catalog.TplBabyDragon})
	three := DiscoveryKey(cat, []int{catalog.TplPetitDragon, catalog.TplBabyDragon, catalog.TplPetitDragon})
	assert.Equal(t, "dragon#2", two)
	assert.Equal(t, "dragon#3", three)
	assert.NotEqual(t, two, three)
}
