package duel

import "github.com/duelforge/duel-server-go/internal/catalog"

// Spell and trap behavior is a finite, closed catalog of effect codes,
// dispatched with an exhaustive switch. Anti-attacker trap codes are
// handled by the combat resolver; everything else lands here.

func applyActivateSpellFromHand(state *MatchState, cat Catalog, actor *PlayerState, action Action) []Event {
	removeFromHand(actor, action.Card)
	ci := state.Instances[action.Card]
	card := mustLookup(cat, ci.TemplateID)

	events := []Event{{
		Type:       EventSpellActivated,
		PlayerID:   actor.ID,
		InstanceID: ci.InstanceID,
		TemplateID: ci.TemplateID,
	}}

	if card.EffectCode == catalog.EffectEquip {
		return append(events, attachEquip(state, actor, ci, card, action)...)
	}

	// Non-equip spells resolve immediately and go to the graveyard.
	actor.Graveyard = append(actor.Graveyard, ci.InstanceID)
	return append(events, applySpellEffect(state, cat, actor, card)...)
}

func applyActivateSetCard(state *MatchState, cat Catalog, actor *PlayerState, action Action) []Event {
	set := actor.SpellTrapZone[action.Slot]
	card := mustLookup(cat, set.TemplateID)

	if set.Kind == CardTrap {
		// A trap fired outside a response window still reveals and
		// spends itself; its anti-attacker effect has nothing to hit.
		actor.SpellTrapZone[action.Slot] = nil
		actor.Graveyard = append(actor.Graveyard, set.InstanceID)
		return []Event{{
			Type:       EventTrapActivated,
			PlayerID:   actor.ID,
			InstanceID: set.InstanceID,
			TemplateID: set.TemplateID,
			Slot:       action.Slot,
		}}
	}

	events := []Event{{
		Type:       EventSpellActivated,
		PlayerID:   actor.ID,
		InstanceID: set.InstanceID,
		TemplateID: set.TemplateID,
		Slot:       action.Slot,
	}}

	if card.EffectCode == catalog.EffectEquip {
		// The set card stays in its slot, turns face-up, and becomes
		// a continuous equip.
		target := actor.MonsterZone[action.TargetSlot]
		set.Face = FaceUp
		set.Continuous = true
		set.EquipTargetInstanceID = target.InstanceID
		set.EquipATKBoost = card.EffectAmount
		set.EquipDEFBoost = card.EffectAmount
		target.ATKModifier += card.EffectAmount
		target.DEFModifier += card.EffectAmount
		return append(events, Event{
			Type:       EventEquipAttached,
			PlayerID:   actor.ID,
			InstanceID: set.InstanceID,
			TemplateID: set.TemplateID,
			TargetSlot: target.Slot,
			Amount:     card.EffectAmount,
		})
	}

	actor.SpellTrapZone[action.Slot] = nil
	actor.Graveyard = append(actor.Graveyard, set.InstanceID)
	return append(events, applySpellEffect(state, cat, actor, card)...)
}

// attachEquip places an equip activated from hand onto the field
// face-up and writes the back-reference plus the exact boost onto the
// chosen target. Equips never visit the graveyard on activation.
func attachEquip(state *MatchState, actor *PlayerState, ci *CardInstance, card catalog.Card, action Action) []Event {
	target := actor.MonsterZone[action.TargetSlot]
	actor.SpellTrapZone[action.Slot] = &SpellTrapOnBoard{
		InstanceID:            ci.InstanceID,
		TemplateID:            ci.TemplateID,
		OwnerID:               actor.ID,
		Slot:                  action.Slot,
		Kind:                  CardSpell,
		Face:                  FaceUp,
		Continuous:            true,
		EquipTargetInstanceID: target.InstanceID,
		EquipATKBoost:         card.EffectAmount,
		EquipDEFBoost:         card.EffectAmount,
	}
	target.ATKModifier += card.EffectAmount
	target.DEFModifier += card.EffectAmount
	return []Event{{
		Type:       EventEquipAttached,
		PlayerID:   actor.ID,
		InstanceID: ci.InstanceID,
		TemplateID: ci.TemplateID,
		TargetSlot: target.Slot,
		Amount:     card.EffectAmount,
	}}
}

func applySpellEffect(state *MatchState, cat Catalog, actor *PlayerState, card catalog.Card) []Event {
	opponent := state.Opponent(actor.ID)

	switch card.EffectCode {
	case catalog.EffectDamage:
		return []Event{adjustLP(opponent, -card.EffectAmount)}

	case catalog.EffectHeal:
		return []Event{adjustLP(actor, card.EffectAmount)}

	case catalog.EffectDestroyAll:
		var events []Event
		for _, p := range state.Players {
			events = append(events, destroyMonsters(state, p, func(*MonsterOnBoard) bool { return true })...)
		}
		return events

	case catalog.EffectDestroyOpponent:
		return destroyMonsters(state, opponent, func(*MonsterOnBoard) bool { return true })

	case catalog.EffectDestroyTag:
		var events []Event
		for _, p := range state.Players {
			events = append(events, destroyMonsters(state, p, func(m *MonsterOnBoard) bool {
				return hasTag(cat, m.TemplateID, card.EffectTag)
			})...)
		}
		return events

	case catalog.EffectDestroyBackRow:
		var events []Event
		for slot, st := range opponent.SpellTrapZone {
			if st != nil {
				events = append(events, destroySpellTrap(state, opponent, slot)...)
			}
		}
		return events

	case catalog.EffectDestroyFaceDown:
		var events []Event
		for slot, m := range opponent.MonsterZone {
			if m == nil || m.Face != FaceDown {
				continue
			}
			m.Face = FaceUp
			events = append(events, Event{
				Type:       EventMonsterRevealed,
				PlayerID:   opponent.ID,
				InstanceID: m.InstanceID,
				TemplateID: m.TemplateID,
				Slot:       slot,
			})
			events = append(events, destroyMonster(state, opponent, slot)...)
		}
		return events

	case catalog.EffectLockAttacks:
		opponent.CannotAttackUntilTurn = state.Turn.Number + card.EffectAmount + 1
		return []Event{{
			Type:     EventAttacksLocked,
			PlayerID: opponent.ID,
			Amount:   card.EffectAmount,
			Turn:     opponent.CannotAttackUntilTurn,
		}}

	case catalog.EffectClearModifiers:
		// Stripping modifiers means detaching every equip; the equip
		// accounting invariant keeps the two in lockstep.
		var events []Event
		for _, p := range state.Players {
			for slot, st := range p.SpellTrapZone {
				if st != nil && st.Continuous {
					events = append(events, destroySpellTrap(state, p, slot)...)
				}
			}
		}
		return events

	case catalog.EffectLockTagAttacks:
		var events []Event
		for _, p := range state.Players {
			locked := false
			for _, m := range p.MonsterZone {
				if m != nil && hasTag(cat, m.TemplateID, card.EffectTag) {
					m.CannotAttackThisTurn = true
					locked = true
				}
			}
			if locked {
				events = append(events, Event{
					Type:     EventAttacksLocked,
					PlayerID: p.ID,
					Tag:      card.EffectTag,
				})
			}
		}
		return events

	default:
		panic(errIntegrity("template %d carries unhandled effect code %q", card.TemplateID, card.EffectCode))
	}
}

func destroyMonsters(state *MatchState, p *PlayerState, match func(*MonsterOnBoard) bool) []Event {
	var events []Event
	for slot, m := range p.MonsterZone {
		if m != nil && match(m) {
			events = append(events, destroyMonster(state, p, slot)...)
		}
	}
	return events
}

func hasTag(cat CatalogView, templateID int, tag string) bool {
	for _, t := range mustLookup(cat, templateID).Tags {
		if t == tag {
			return true
		}
	}
	return false
}
