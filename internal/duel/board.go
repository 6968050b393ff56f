package duel

// Board mutation helpers shared by the reducer and the combat resolver.
// All of them operate on the reducer's private clone.

// effectiveATK is the catalog base plus the summed equip boosts.
func effectiveATK(cat CatalogView, m *MonsterOnBoard) int {
	return mustLookup(cat, m.TemplateID).ATK + m.ATKModifier
}

func effectiveDEF(cat CatalogView, m *MonsterOnBoard) int {
	return mustLookup(cat, m.TemplateID).DEF + m.DEFModifier
}

// destroyMonster removes the monster in the given slot to its owner's
// graveyard. Any continuous equip attached to it is destroyed too, its
// boost reversed exactly once before the monster leaves.
func destroyMonster(state *MatchState, p *PlayerState, slot int) []Event {
	m := p.MonsterZone[slot]
	if m == nil {
		panic(errIntegrity("destroyMonster on empty slot %d", slot))
	}
	var events []Event
	for _, owner := range state.Players {
		for equipSlot, st := range owner.SpellTrapZone {
			if st != nil && st.Continuous && st.EquipTargetInstanceID == m.InstanceID {
				events = append(events, destroySpellTrap(state, owner, equipSlot)...)
			}
		}
	}
	p.MonsterZone[slot] = nil
	p.Graveyard = append(p.Graveyard, m.InstanceID)
	events = append(events, Event{
		Type:       EventMonsterDestroyed,
		PlayerID:   p.ID,
		InstanceID: m.InstanceID,
		TemplateID: m.TemplateID,
		Slot:       slot,
	})
	return events
}

// destroySpellTrap removes a spell/trap zone entry to the graveyard,
// reversing an attached equip's boost on its target first.
func destroySpellTrap(state *MatchState, p *PlayerState, slot int) []Event {
	st := p.SpellTrapZone[slot]
	if st == nil {
		panic(errIntegrity("destroySpellTrap on empty slot %d", slot))
	}
	var events []Event
	if st.Continuous {
		if target := findMonster(state, st.EquipTargetInstanceID); target != nil {
			target.ATKModifier -= st.EquipATKBoost
			target.DEFModifier -= st.EquipDEFBoost
			events = append(events, Event{
				Type:       EventEquipDetached,
				PlayerID:   p.ID,
				InstanceID: st.InstanceID,
				TemplateID: st.TemplateID,
				TargetSlot: target.Slot,
				Amount:     -st.EquipATKBoost,
			})
		}
	}
	p.SpellTrapZone[slot] = nil
	p.Graveyard = append(p.Graveyard, st.InstanceID)
	events = append(events, Event{
		Type:       EventSpellTrapDestroyed,
		PlayerID:   p.ID,
		InstanceID: st.InstanceID,
		TemplateID: st.TemplateID,
		Slot:       slot,
	})
	return events
}

// findMonster locates a board monster by instance id on either side.
func findMonster(state *MatchState, id InstanceID) *MonsterOnBoard {
	for _, p := range state.Players {
		for _, m := range p.MonsterZone {
			if m != nil && m.InstanceID == id {
				return m
			}
		}
	}
	return nil
}

// removeFromHand drops an instance from a hand, preserving order.
func removeFromHand(p *PlayerState, id InstanceID) bool {
	for i, h := range p.Hand {
		if h == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// adjustLP applies a signed delta with a floor of zero and emits the
// LP_CHANGED event carrying the new total.
func adjustLP(p *PlayerState, delta int) Event {
	p.LP += delta
	if p.LP < 0 {
		p.LP = 0
	}
	return Event{Type: EventLPChanged, PlayerID: p.ID, Amount: delta, LP: p.LP}
}
