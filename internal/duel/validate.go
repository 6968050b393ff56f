package duel

import (
	"fmt"

	"github.com/duelforge/duel-server-go/internal/catalog"
)

// Verdict is the validator's structured accept/reject answer. Rule
// violations are data, never errors or panics, so callers can show the
// player why an action was refused.
type Verdict struct {
	OK     bool
	Reason string
}

func allow() Verdict { return Verdict{OK: true} }

func reject(format string, args ...any) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Validate is a pure predicate over the current state, a proposed
// action, and the acting player. It never mutates.
func Validate(state *MatchState, cat Catalog, action Action, playerID string) Verdict {
	if state.Status != StatusRunning {
		return reject("match is finished")
	}
	actor := state.Player(playerID)
	if actor == nil {
		return reject("unknown player %q", playerID)
	}

	// An open response window gates everything: only the defender's
	// trap response is accepted until it closes.
	if state.PendingAttack != nil {
		if action.Type != ActionTrapResponse {
			return reject("a trap response window is open")
		}
		return validateTrapResponse(state, actor, action)
	}

	switch action.Type {
	case ActionSummonMonster, ActionSetMonster:
		return validatePlaceMonster(state, cat, actor, action)
	case ActionSetSpellTrap:
		return validateSetSpellTrap(state, cat, actor, action)
	case ActionActivateSpellFromHand:
		return validateActivateSpellFromHand(state, cat, actor, action)
	case ActionActivateSetCard:
		return validateActivateSetCard(state, cat, actor, action)
	case ActionFuse:
		return validateFuse(state, cat, actor, action)
	case ActionChangePosition:
		return validateChangePosition(state, actor, action)
	case ActionFlipSummon:
		return validateFlipSummon(state, actor, action)
	case ActionAttackDeclare:
		return validateAttackDeclare(state, actor, action)
	case ActionTrapResponse:
		return reject("no trap response window is open")
	case ActionEndTurn:
		if v := requireActive(state, actor); !v.OK {
			return v
		}
		return allow()
	default:
		return reject("unknown action type %q", action.Type)
	}
}

func requireActive(state *MatchState, actor *PlayerState) Verdict {
	if state.Turn.ActivePlayerID != actor.ID {
		return reject("not your turn")
	}
	return allow()
}

func requireMainPhase(state *MatchState) Verdict {
	if state.Turn.Phase != PhaseMain {
		return reject("only legal in the main phase")
	}
	return allow()
}

func slotInRange(slot int) bool { return slot >= 0 && slot < ZoneSize }

func handHolds(p *PlayerState, id InstanceID) bool {
	for _, h := range p.Hand {
		if h == id {
			return true
		}
	}
	return false
}

func validatePlaceMonster(state *MatchState, cat Catalog, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if actor.UsedSummonOrFuseThisTurn {
		return reject("already summoned or fused this turn")
	}
	if !handHolds(actor, action.Card) {
		return reject("card %d is not in your hand", action.Card)
	}
	card, ok := cat.Lookup(state.Instances[action.Card].TemplateID)
	if !ok {
		return reject("card %d has no catalog entry", action.Card)
	}
	if card.Kind != catalog.KindMonster {
		return reject("%s is not a monster", card.Name)
	}
	if !slotInRange(action.Slot) {
		return reject("monster slot %d out of range", action.Slot)
	}
	if actor.MonsterZone[action.Slot] != nil {
		return reject("monster slot %d is occupied", action.Slot)
	}
	return allow()
}

func validateSetSpellTrap(state *MatchState, cat Catalog, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if !handHolds(actor, action.Card) {
		return reject("card %d is not in your hand", action.Card)
	}
	card, ok := cat.Lookup(state.Instances[action.Card].TemplateID)
	if !ok {
		return reject("card %d has no catalog entry", action.Card)
	}
	if card.Kind != catalog.KindSpell && card.Kind != catalog.KindTrap {
		return reject("%s cannot be set in the spell/trap zone", card.Name)
	}
	if !slotInRange(action.Slot) {
		return reject("spell/trap slot %d out of range", action.Slot)
	}
	if actor.SpellTrapZone[action.Slot] != nil {
		return reject("spell/trap slot %d is occupied", action.Slot)
	}
	return allow()
}

func validateActivateSpellFromHand(state *MatchState, cat Catalog, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if !handHolds(actor, action.Card) {
		return reject("card %d is not in your hand", action.Card)
	}
	card, ok := cat.Lookup(state.Instances[action.Card].TemplateID)
	if !ok {
		return reject("card %d has no catalog entry", action.Card)
	}
	if card.Kind != catalog.KindSpell {
		return reject("%s is not a spell", card.Name)
	}
	if card.EffectCode == catalog.EffectEquip {
		return validateEquipTarget(actor, action)
	}
	return allow()
}

// validateEquipMonster checks that the equip's chosen target is a
// resolvable face-up monster of the activator's.
func validateEquipMonster(actor *PlayerState, action Action) Verdict {
	if !slotInRange(action.TargetSlot) {
		return reject("equip target slot %d out of range", action.TargetSlot)
	}
	target := actor.MonsterZone[action.TargetSlot]
	if target == nil {
		return reject("no monster in slot %d to equip", action.TargetSlot)
	}
	if target.Face != FaceUp {
		return reject("cannot equip a face-down monster")
	}
	return allow()
}

// validateEquipTarget additionally requires a free spell/trap slot for
// an equip arriving from the hand. A set equip keeps its own slot and
// goes through validateEquipMonster alone.
func validateEquipTarget(actor *PlayerState, action Action) Verdict {
	if v := validateEquipMonster(actor, action); !v.OK {
		return v
	}
	if !slotInRange(action.Slot) {
		return reject("spell/trap slot %d out of range", action.Slot)
	}
	if actor.SpellTrapZone[action.Slot] != nil {
		return reject("spell/trap slot %d is occupied", action.Slot)
	}
	return allow()
}

func validateActivateSetCard(state *MatchState, cat Catalog, actor *PlayerState, action Action) Verdict {
	if !slotInRange(action.Slot) {
		return reject("spell/trap slot %d out of range", action.Slot)
	}
	set := actor.SpellTrapZone[action.Slot]
	if set == nil {
		return reject("no set card in slot %d", action.Slot)
	}
	if set.Face != FaceDown {
		return reject("card in slot %d is already face-up", action.Slot)
	}
	card, ok := cat.Lookup(set.TemplateID)
	if !ok {
		return reject("set card %d has no catalog entry", set.InstanceID)
	}
	switch set.Kind {
	case CardSpell:
		// Spells resolve only on the owner's own main phase.
		if v := requireActive(state, actor); !v.OK {
			return v
		}
		if v := requireMainPhase(state); !v.OK {
			return v
		}
		if card.EffectCode == catalog.EffectEquip {
			return validateEquipMonster(actor, action)
		}
	case CardTrap:
		// Traps may fire on the opponent's turn by design, but never
		// the turn they were set.
		if set.SetThisTurn {
			return reject("a trap cannot be activated the turn it was set")
		}
	}
	return allow()
}

func validateFuse(state *MatchState, cat Catalog, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if actor.UsedSummonOrFuseThisTurn {
		return reject("already summoned or fused this turn")
	}
	if n := len(action.Materials); n < 2 || n > 3 {
		return reject("fusion requires 2 or 3 materials, got %d", n)
	}
	unique := make(map[InstanceID]struct{}, len(action.Materials))
	for _, m := range action.Materials {
		if _, dup := unique[m]; dup {
			return reject("duplicate fusion material %d", m)
		}
		unique[m] = struct{}{}
	}
	if len(action.Order) != len(action.Materials) {
		return reject("resolution order must list every material exactly once")
	}
	ordered := make(map[InstanceID]struct{}, len(action.Order))
	for _, m := range action.Order {
		if _, isMaterial := unique[m]; !isMaterial {
			return reject("resolution order contains non-material %d", m)
		}
		if _, dup := ordered[m]; dup {
			return reject("resolution order repeats material %d", m)
		}
		ordered[m] = struct{}{}
	}

	fieldSlots := make(map[int]struct{})
	for _, m := range action.Materials {
		ci, ok := state.Instances[m]
		if !ok || ci.OwnerID != actor.ID {
			return reject("material %d is not yours", m)
		}
		card, found := cat.Lookup(ci.TemplateID)
		if !found {
			return reject("material %d has no catalog entry", m)
		}
		if card.Kind != catalog.KindMonster {
			return reject("%s is not a monster", card.Name)
		}
		if handHolds(actor, m) {
			continue
		}
		slot := monsterSlotOf(actor, m)
		if slot < 0 {
			return reject("material %d is neither in your hand nor on your field", m)
		}
		fieldSlots[slot] = struct{}{}
	}

	if !slotInRange(action.Slot) {
		return reject("result slot %d out of range", action.Slot)
	}
	if len(fieldSlots) > 0 {
		if _, ok := fieldSlots[action.Slot]; !ok {
			return reject("result slot must reuse a field material's slot")
		}
	} else if actor.MonsterZone[action.Slot] != nil {
		return reject("monster slot %d is occupied", action.Slot)
	}
	return allow()
}

func monsterSlotOf(p *PlayerState, id InstanceID) int {
	for slot, m := range p.MonsterZone {
		if m != nil && m.InstanceID == id {
			return slot
		}
	}
	return -1
}

func validateChangePosition(state *MatchState, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if !slotInRange(action.Slot) {
		return reject("monster slot %d out of range", action.Slot)
	}
	m := actor.MonsterZone[action.Slot]
	if m == nil {
		return reject("no monster in slot %d", action.Slot)
	}
	if m.Face != FaceUp {
		return reject("use a flip summon to turn a set monster face-up")
	}
	if m.PositionChangedThisTurn {
		return reject("monster already changed position this turn")
	}
	if m.LockedPositionUntilTurn > state.Turn.Number {
		return reject("monster's position is locked")
	}
	return allow()
}

func validateFlipSummon(state *MatchState, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if v := requireMainPhase(state); !v.OK {
		return v
	}
	if !slotInRange(action.Slot) {
		return reject("monster slot %d out of range", action.Slot)
	}
	m := actor.MonsterZone[action.Slot]
	if m == nil {
		return reject("no monster in slot %d", action.Slot)
	}
	if m.Face != FaceDown || m.Position != PositionDefense {
		return reject("only a face-down defense monster can be flip summoned")
	}
	if m.PositionChangedThisTurn {
		return reject("monster already changed position this turn")
	}
	if m.LockedPositionUntilTurn > state.Turn.Number {
		return reject("monster's position is locked")
	}
	return allow()
}

func validateAttackDeclare(state *MatchState, actor *PlayerState, action Action) Verdict {
	if v := requireActive(state, actor); !v.OK {
		return v
	}
	if state.Turn.Phase != PhaseMain && state.Turn.Phase != PhaseBattle {
		return reject("attacks are only legal in the main or battle phase")
	}
	if state.Turn.Number == 1 {
		return reject("no attacks on the first turn")
	}
	if actor.CannotAttackUntilTurn > state.Turn.Number {
		return reject("your attacks are locked until turn %d", actor.CannotAttackUntilTurn)
	}
	if !slotInRange(action.Slot) {
		return reject("attacker slot %d out of range", action.Slot)
	}
	attacker := actor.MonsterZone[action.Slot]
	if attacker == nil {
		return reject("no monster in slot %d", action.Slot)
	}
	if attacker.Face != FaceUp || attacker.Position != PositionAttack {
		return reject("only a face-up attack-position monster can attack")
	}
	if attacker.HasAttackedThisTurn {
		return reject("monster has already attacked this turn")
	}
	if attacker.CannotAttackThisTurn {
		return reject("monster cannot attack this turn")
	}

	defender := state.Opponent(actor.ID)
	hasDefenders := false
	for _, m := range defender.MonsterZone {
		if m != nil {
			hasDefenders = true
			break
		}
	}
	if action.TargetSlot == DirectTarget {
		if hasDefenders {
			return reject("cannot attack directly while the opponent controls monsters")
		}
		return allow()
	}
	if !slotInRange(action.TargetSlot) {
		return reject("target slot %d out of range", action.TargetSlot)
	}
	if defender.MonsterZone[action.TargetSlot] == nil {
		return reject("no monster in opponent slot %d", action.TargetSlot)
	}
	return allow()
}

// validateTrapResponse is the documented turn-ownership exception: only
// the defender may act while the window is open.
func validateTrapResponse(state *MatchState, actor *PlayerState, action Action) Verdict {
	pa := state.PendingAttack
	if actor.ID != pa.DefenderPlayerID {
		return reject("only the defender may respond")
	}
	if pa.Window != WindowTrapResponse {
		return reject("window %q does not accept trap responses", pa.Window)
	}
	switch action.Response {
	case ResponsePass:
		return allow()
	case ResponseActivate:
		if !slotInRange(action.TrapSlot) {
			return reject("trap slot %d out of range", action.TrapSlot)
		}
		set := actor.SpellTrapZone[action.TrapSlot]
		if set == nil {
			return reject("no set card in slot %d", action.TrapSlot)
		}
		if set.Kind != CardTrap {
			return reject("card in slot %d is not a trap", action.TrapSlot)
		}
		if set.Face != FaceDown {
			return reject("trap in slot %d is already face-up", action.TrapSlot)
		}
		if set.SetThisTurn {
			return reject("a trap cannot be activated the turn it was set")
		}
		return allow()
	default:
		return reject("trap response must be PASS or ACTIVATE")
	}
}
