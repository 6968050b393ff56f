package duel

import "github.com/duelforge/duel-server-go/internal/catalog"

// Combat runs a small state machine per attack:
//
//	DECLARED -> (TRAP_RESPONSE) -> RESOLVED
//
// Declaration opens a response window only when the defender holds an
// eligible face-down trap; otherwise the attack auto-resolves with an
// implicit PASS.

// eligibleTrapSlots returns the defender's face-down traps that were
// not set this same turn.
func eligibleTrapSlots(defender *PlayerState) []int {
	var slots []int
	for slot, st := range defender.SpellTrapZone {
		if st != nil && st.Kind == CardTrap && st.Face == FaceDown && !st.SetThisTurn {
			slots = append(slots, slot)
		}
	}
	return slots
}

// declareAttack transitions the turn into the battle phase, records the
// pending attack, and either opens the response window or resolves the
// battle immediately.
func declareAttack(state *MatchState, cat Catalog, actor *PlayerState, action Action) []Event {
	defender := state.Opponent(actor.ID)
	state.Turn.Phase = PhaseBattle

	target := AttackTarget{Direct: action.TargetSlot == DirectTarget, Slot: action.TargetSlot}
	mayRespond := len(eligibleTrapSlots(defender)) > 0
	state.PendingAttack = &PendingAttack{
		AttackerPlayerID:   actor.ID,
		DefenderPlayerID:   defender.ID,
		AttackerSlot:       action.Slot,
		Target:             target,
		DefenderMayRespond: mayRespond,
		Window:             WindowTrapResponse,
	}

	events := []Event{{
		Type:       EventAttackDeclared,
		PlayerID:   actor.ID,
		Slot:       action.Slot,
		TargetSlot: action.TargetSlot,
	}}
	if mayRespond {
		events = append(events, Event{
			Type:     EventAttackWaiting,
			PlayerID: defender.ID,
			Slot:     action.Slot,
		})
		return events
	}
	return append(events, resolvePendingBattle(state, cat)...)
}

// resolveTrapResponse handles the defender's reply. A PASS proceeds to
// battle; an ACTIVATE applies the trap's fixed anti-attacker effect,
// cancels the attack, and flags the attacker as having attacked this
// turn so the attack cannot be redirected.
func resolveTrapResponse(state *MatchState, cat Catalog, action Action) []Event {
	pa := state.PendingAttack
	if pa == nil {
		panic(errIntegrity("trap response with no pending attack"))
	}
	if action.Response == ResponsePass {
		return resolvePendingBattle(state, cat)
	}

	defender := state.Player(pa.DefenderPlayerID)
	attackerOwner := state.Player(pa.AttackerPlayerID)
	attacker := attackerOwner.MonsterZone[pa.AttackerSlot]
	if attacker == nil {
		panic(errIntegrity("pending attack references empty slot %d", pa.AttackerSlot))
	}

	set := defender.SpellTrapZone[action.TrapSlot]
	card := mustLookup(cat, set.TemplateID)

	events := []Event{{
		Type:       EventTrapActivated,
		PlayerID:   defender.ID,
		InstanceID: set.InstanceID,
		TemplateID: set.TemplateID,
		Slot:       action.TrapSlot,
	}}

	// Trap leaves the field before its effect lands.
	defender.SpellTrapZone[action.TrapSlot] = nil
	defender.Graveyard = append(defender.Graveyard, set.InstanceID)

	atk := effectiveATK(cat, attacker)
	destroyAttacker := false
	switch card.EffectCode {
	case catalog.EffectTrapDestroyAttacker:
		destroyAttacker = true
	case catalog.EffectTrapDestroyAttackerBig:
		destroyAttacker = atk < 3000
	case catalog.EffectTrapDestroyAttackerWeak:
		destroyAttacker = atk <= 500
	case catalog.EffectTrapLockAttacker:
		attacker.CannotAttackThisTurn = true
	default:
		panic(errIntegrity("template %d has non-trap effect %q", set.TemplateID, card.EffectCode))
	}

	if destroyAttacker {
		events = append(events, destroyMonster(state, attackerOwner, pa.AttackerSlot)...)
	} else {
		attacker.HasAttackedThisTurn = true
	}

	state.PendingAttack = nil
	events = append(events, Event{
		Type:     EventAttackNegated,
		PlayerID: pa.AttackerPlayerID,
		Slot:     pa.AttackerSlot,
	})
	return events
}

// resolvePendingBattle applies the battle math once no response has
// cancelled the attack. A face-down defender is flipped face-up as a
// side effect before the comparison, regardless of outcome.
func resolvePendingBattle(state *MatchState, cat Catalog) []Event {
	pa := state.PendingAttack
	if pa == nil {
		panic(errIntegrity("battle resolution with no pending attack"))
	}
	attackerOwner := state.Player(pa.AttackerPlayerID)
	defenderOwner := state.Player(pa.DefenderPlayerID)
	attacker := attackerOwner.MonsterZone[pa.AttackerSlot]
	if attacker == nil {
		panic(errIntegrity("pending attack references empty slot %d", pa.AttackerSlot))
	}

	attacker.HasAttackedThisTurn = true
	atk := effectiveATK(cat, attacker)

	detail := &BattleDetail{
		AttackerSlot: pa.AttackerSlot,
		Direct:       pa.Target.Direct,
		TargetSlot:   pa.Target.Slot,
		AttackerATK:  atk,
	}
	var events []Event

	if pa.Target.Direct {
		detail.DamagedPlayerID = defenderOwner.ID
		detail.Damage = atk
		events = append(events, adjustLP(defenderOwner, -atk))
		state.PendingAttack = nil
		events = append(events, Event{Type: EventBattleResolved, PlayerID: pa.AttackerPlayerID, Battle: detail})
		return events
	}

	target := defenderOwner.MonsterZone[pa.Target.Slot]
	if target == nil {
		panic(errIntegrity("pending attack targets empty slot %d", pa.Target.Slot))
	}
	if target.Face == FaceDown {
		target.Face = FaceUp
		events = append(events, Event{
			Type:       EventMonsterRevealed,
			PlayerID:   defenderOwner.ID,
			InstanceID: target.InstanceID,
			TemplateID: target.TemplateID,
			Slot:       target.Slot,
		})
	}

	detail.TargetATK = effectiveATK(cat, target)
	detail.TargetDEF = effectiveDEF(cat, target)
	detail.TargetPosition = target.Position

	switch target.Position {
	case PositionAttack:
		switch {
		case atk > detail.TargetATK:
			surplus := atk - detail.TargetATK
			detail.TargetDestroyed = true
			detail.DamagedPlayerID = defenderOwner.ID
			detail.Damage = surplus
			events = append(events, destroyMonster(state, defenderOwner, pa.Target.Slot)...)
			events = append(events, adjustLP(defenderOwner, -surplus))
		case atk < detail.TargetATK:
			deficit := detail.TargetATK - atk
			detail.AttackerDestroyed = true
			detail.DamagedPlayerID = attackerOwner.ID
			detail.Damage = deficit
			events = append(events, destroyMonster(state, attackerOwner, pa.AttackerSlot)...)
			events = append(events, adjustLP(attackerOwner, -deficit))
		default:
			// Equal attack values: both destroyed, no damage.
			detail.AttackerDestroyed = true
			detail.TargetDestroyed = true
			events = append(events, destroyMonster(state, defenderOwner, pa.Target.Slot)...)
			events = append(events, destroyMonster(state, attackerOwner, pa.AttackerSlot)...)
		}
	case PositionDefense:
		switch {
		case atk > detail.TargetDEF:
			// Breaking a defender never deals life-point damage.
			detail.TargetDestroyed = true
			events = append(events, destroyMonster(state, defenderOwner, pa.Target.Slot)...)
		case atk < detail.TargetDEF:
			deficit := detail.TargetDEF - atk
			detail.DamagedPlayerID = attackerOwner.ID
			detail.Damage = deficit
			events = append(events, adjustLP(attackerOwner, -deficit))
		}
	}

	state.PendingAttack = nil
	events = append(events, Event{Type: EventBattleResolved, PlayerID: pa.AttackerPlayerID, Battle: detail})
	return events
}
