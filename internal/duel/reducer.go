package duel

import "github.com/duelforge/duel-server-go/internal/catalog"

// Apply is the single mutating entry point. It clones the state,
// re-validates the action against the clone, mutates only the clone,
// and returns it with the ordered event list. The caller's state is
// never touched, so a failed application cannot corrupt it.
//
// A returned error is an integrity violation (the validate-then-apply
// protocol was bypassed, or state is internally inconsistent) and is
// fatal for the match; ordinary rule violations never reach this far
// when callers validate first.
func Apply(state *MatchState, cat Catalog, action Action, playerID string, rules Rules) (next *MatchState, events []Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*IntegrityError); ok {
				next, events, err = nil, nil, ie
				return
			}
			panic(r)
		}
	}()

	next = state.Clone()
	if v := Validate(next, cat, action, playerID); !v.OK {
		return nil, nil, errIntegrity("unvalidated action %q: %s", action.Type, v.Reason)
	}
	actor := next.Player(playerID)

	switch action.Type {
	case ActionSummonMonster:
		events = applySummon(next, actor, action)
	case ActionSetMonster:
		events = applySetMonster(next, actor, action)
	case ActionSetSpellTrap:
		events = applySetSpellTrap(next, cat, actor, action)
	case ActionActivateSpellFromHand:
		events = applyActivateSpellFromHand(next, cat, actor, action)
	case ActionActivateSetCard:
		events = applyActivateSetCard(next, cat, actor, action)
	case ActionFuse:
		events = applyFuse(next, cat, actor, action)
	case ActionChangePosition:
		events = applyChangePosition(next, actor, action)
	case ActionFlipSummon:
		events = applyFlipSummon(next, actor, action)
	case ActionAttackDeclare:
		events = declareAttack(next, cat, actor, action)
	case ActionTrapResponse:
		events = resolveTrapResponse(next, cat, action)
	case ActionEndTurn:
		events = applyEndTurn(next, actor, rules)
	default:
		return nil, nil, errIntegrity("unknown action type %q", action.Type)
	}

	events = append(events, checkWin(next)...)
	next.Version++
	return next, events, nil
}

func applySummon(state *MatchState, actor *PlayerState, action Action) []Event {
	removeFromHand(actor, action.Card)
	ci := state.Instances[action.Card]
	actor.MonsterZone[action.Slot] = &MonsterOnBoard{
		InstanceID: ci.InstanceID,
		TemplateID: ci.TemplateID,
		OwnerID:    actor.ID,
		Slot:       action.Slot,
		Face:       FaceUp,
		Position:   PositionAttack,
	}
	actor.UsedSummonOrFuseThisTurn = true
	return []Event{{
		Type:       EventMonsterSummoned,
		PlayerID:   actor.ID,
		InstanceID: ci.InstanceID,
		TemplateID: ci.TemplateID,
		Slot:       action.Slot,
		Position:   PositionAttack,
	}}
}

func applySetMonster(state *MatchState, actor *PlayerState, action Action) []Event {
	removeFromHand(actor, action.Card)
	ci := state.Instances[action.Card]
	actor.MonsterZone[action.Slot] = &MonsterOnBoard{
		InstanceID: ci.InstanceID,
		TemplateID: ci.TemplateID,
		OwnerID:    actor.ID,
		Slot:       action.Slot,
		Face:       FaceDown,
		Position:   PositionDefense,
		// Setting counts as this turn's position change, so the
		// monster cannot also flip or reposition the same turn.
		PositionChangedThisTurn: true,
	}
	actor.UsedSummonOrFuseThisTurn = true
	return []Event{{
		Type:       EventMonsterSet,
		PlayerID:   actor.ID,
		InstanceID: ci.InstanceID,
		Slot:       action.Slot,
		Position:   PositionDefense,
	}}
}

func applySetSpellTrap(state *MatchState, cat Catalog, actor *PlayerState, action Action) []Event {
	removeFromHand(actor, action.Card)
	ci := state.Instances[action.Card]
	card := mustLookup(cat, ci.TemplateID)
	kind := CardSpell
	if card.Kind == catalog.KindTrap {
		kind = CardTrap
	}
	actor.SpellTrapZone[action.Slot] = &SpellTrapOnBoard{
		InstanceID:  ci.InstanceID,
		TemplateID:  ci.TemplateID,
		OwnerID:     actor.ID,
		Slot:        action.Slot,
		Kind:        kind,
		Face:        FaceDown,
		SetThisTurn: true,
	}
	return []Event{{
		Type:       EventSpellTrapSet,
		PlayerID:   actor.ID,
		InstanceID: ci.InstanceID,
		Slot:       action.Slot,
	}}
}

func applyChangePosition(state *MatchState, actor *PlayerState, action Action) []Event {
	m := actor.MonsterZone[action.Slot]
	if m.Position == PositionAttack {
		m.Position = PositionDefense
	} else {
		m.Position = PositionAttack
	}
	m.PositionChangedThisTurn = true
	return []Event{{
		Type:       EventPositionChanged,
		PlayerID:   actor.ID,
		InstanceID: m.InstanceID,
		Slot:       action.Slot,
		Position:   m.Position,
	}}
}

func applyFlipSummon(state *MatchState, actor *PlayerState, action Action) []Event {
	m := actor.MonsterZone[action.Slot]
	m.Face = FaceUp
	m.Position = PositionAttack
	m.PositionChangedThisTurn = true
	return []Event{{
		Type:       EventMonsterFlipSummoned,
		PlayerID:   actor.ID,
		InstanceID: m.InstanceID,
		TemplateID: m.TemplateID,
		Slot:       action.Slot,
		Position:   PositionAttack,
	}}
}

func applyFuse(state *MatchState, cat Catalog, actor *PlayerState, action Action) []Event {
	ordered := make([]int, len(action.Order))
	for i, id := range action.Order {
		ordered[i] = state.Instances[id].TemplateID
	}
	outcome := ResolveFusion(cat, ordered, state.Seed)
	key := DiscoveryKey(cat, ordered)

	// Materials leave their zones for the graveyard. Field materials
	// go through the destroy path so attached equips detach cleanly.
	var events []Event
	for _, id := range action.Materials {
		if removeFromHand(actor, id) {
			actor.Graveyard = append(actor.Graveyard, id)
			continue
		}
		events = append(events, destroyMonster(state, actor, monsterSlotOf(actor, id))...)
	}

	result := state.newInstance(actor.ID, outcome.ResultTemplateID)
	m := &MonsterOnBoard{
		InstanceID: result.InstanceID,
		TemplateID: result.TemplateID,
		OwnerID:    actor.ID,
		Slot:       action.Slot,
		Face:       FaceUp,
		Position:   PositionAttack,
	}
	if outcome.Fallback == FallbackLocked {
		m.Position = PositionDefense
		m.CannotAttackThisTurn = true
		m.LockedPositionUntilTurn = state.Turn.Number + 2
	}
	actor.MonsterZone[action.Slot] = m
	actor.UsedSummonOrFuseThisTurn = true

	detail := &FusionDetail{
		MaterialTemplateIDs: ordered,
		ResultTemplateID:    outcome.ResultTemplateID,
		Failed:              outcome.Failed,
		Fallback:            outcome.Fallback,
		Steps:               outcome.Steps,
		DiscoveryKey:        key,
	}
	eventType := EventFusionResolved
	if outcome.Failed {
		eventType = EventFusionFailed
	}
	events = append(events, Event{
		Type:       eventType,
		PlayerID:   actor.ID,
		InstanceID: result.InstanceID,
		TemplateID: result.TemplateID,
		Slot:       action.Slot,
		Fusion:     detail,
	})
	events = append(events, Event{
		Type:       EventMonsterSummoned,
		PlayerID:   actor.ID,
		InstanceID: result.InstanceID,
		TemplateID: result.TemplateID,
		Slot:       action.Slot,
		Position:   m.Position,
	})
	return events
}

func applyEndTurn(state *MatchState, actor *PlayerState, rules Rules) []Event {
	// Per-turn flags expire when their owner's turn ends. Clearing
	// SetThisTurn here is what makes the ending player's traps
	// eligible against the opponent's attacks next turn; clearing
	// CannotAttackThisTurn here (not at the victim's turn start) is
	// what lets attack locks placed during the opponent's turn cover
	// one full turn of the locked monster's owner.
	actor.UsedSummonOrFuseThisTurn = false
	for _, st := range actor.SpellTrapZone {
		if st != nil {
			st.SetThisTurn = false
		}
	}
	for _, m := range actor.MonsterZone {
		if m == nil {
			continue
		}
		m.HasAttackedThisTurn = false
		m.PositionChangedThisTurn = false
		m.CannotAttackThisTurn = false
	}

	next := state.Opponent(actor.ID)
	state.Turn.ActivePlayerID = next.ID
	state.Turn.Number++
	state.Turn.Phase = PhaseMain

	if next.CannotAttackUntilTurn != 0 && next.CannotAttackUntilTurn <= state.Turn.Number {
		next.CannotAttackUntilTurn = 0
	}
	for _, m := range next.MonsterZone {
		if m != nil && m.LockedPositionUntilTurn != 0 && m.LockedPositionUntilTurn <= state.Turn.Number {
			m.LockedPositionUntilTurn = 0
		}
	}

	events := []Event{{
		Type:     EventTurnChanged,
		PlayerID: next.ID,
		Turn:     state.Turn.Number,
	}}
	return append(events, drawCard(state, next, rules)...)
}

// checkWin flips the match to FINISHED the instant a life total is
// exhausted, appending the terminal event.
func checkWin(state *MatchState) []Event {
	if state.Status != StatusRunning {
		return nil
	}
	for _, p := range state.Players {
		if p.LP <= 0 {
			winner := state.Opponent(p.ID)
			state.Status = StatusFinished
			state.WinnerID = winner.ID
			return []Event{{Type: EventGameFinished, WinnerID: winner.ID}}
		}
	}
	return nil
}
