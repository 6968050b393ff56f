// Package duel implements the authoritative rules engine for a
// two-player duel: match state, action validation, deterministic state
// transitions, structured events, and per-viewer redacted snapshots.
//
// The engine is a pure synchronous transformation. Callers follow a
// strict validate-then-apply protocol: Validate never mutates, Apply
// clones the state before touching anything, so a rejected or failed
// application can never corrupt the caller's reference.
package duel

import (
	"fmt"
	"sort"
)

// ZoneSize is the fixed number of monster and spell/trap slots per player.
const ZoneSize = 5

// InstanceID identifies one physical card within a single match.
type InstanceID int

// Status of the match as a whole.
type Status string

const (
	StatusRunning  Status = "RUNNING"
	StatusFinished Status = "FINISHED"
)

// Phase of the active player's turn.
type Phase string

const (
	PhaseMain   Phase = "MAIN"
	PhaseBattle Phase = "BATTLE"
	PhaseEnd    Phase = "END"
)

// Face of a board card.
type Face string

const (
	FaceUp   Face = "FACE_UP"
	FaceDown Face = "FACE_DOWN"
)

// Position of a monster on the board.
type Position string

const (
	PositionAttack  Position = "ATTACK"
	PositionDefense Position = "DEFENSE"
)

// CardKind of a spell/trap zone entry.
type CardKind string

const (
	CardSpell CardKind = "SPELL"
	CardTrap  CardKind = "TRAP"
)

// ResponseWindow names the kind of open response window.
type ResponseWindow string

// WindowTrapResponse is currently the only response window kind.
const WindowTrapResponse ResponseWindow = "TRAP_RESPONSE"

// CardInstance is one physical card of the match. Instances are created
// at match start (one per deck card) and at fusion time; they are never
// deleted, only relocated between deck, hand, board and graveyard.
type CardInstance struct {
	InstanceID InstanceID
	OwnerID    string
	TemplateID int
}

// MonsterOnBoard occupies one monster-zone slot.
type MonsterOnBoard struct {
	InstanceID InstanceID
	TemplateID int
	OwnerID    string
	Slot       int
	Face       Face
	Position   Position

	// ATKModifier and DEFModifier hold the summed boosts of every
	// equip card currently attached to this monster, separate from
	// the catalog's base stats.
	ATKModifier int
	DEFModifier int

	HasAttackedThisTurn     bool
	PositionChangedThisTurn bool
	CannotAttackThisTurn    bool
	LockedPositionUntilTurn int
}

// SpellTrapOnBoard occupies one spell/trap-zone slot.
type SpellTrapOnBoard struct {
	InstanceID InstanceID
	TemplateID int
	OwnerID    string
	Slot       int
	Kind       CardKind
	Face       Face

	// SetThisTurn is true for the turn the card was placed; traps may
	// not activate the turn they are set.
	SetThisTurn bool

	// Continuous equip bookkeeping. The equip holds the target's id
	// and the exact boost it granted so detaching is a pure arithmetic
	// reversal.
	Continuous            bool
	EquipTargetInstanceID InstanceID
	EquipATKBoost         int
	EquipDEFBoost         int
}

// AttackTarget describes what a pending attack is aimed at.
type AttackTarget struct {
	Direct bool
	Slot   int
}

// PendingAttack exists between attack declaration and resolution.
type PendingAttack struct {
	AttackerPlayerID   string
	DefenderPlayerID   string
	AttackerSlot       int
	Target             AttackTarget
	DefenderMayRespond bool
	Window             ResponseWindow
}

// PlayerState is one player's half of the match.
type PlayerState struct {
	ID string
	LP int

	Deck      []InstanceID // front = next draw
	Hand      []InstanceID // order significant for UI only
	Graveyard []InstanceID // append-only

	MonsterZone   [ZoneSize]*MonsterOnBoard
	SpellTrapZone [ZoneSize]*SpellTrapOnBoard

	UsedSummonOrFuseThisTurn bool
	CannotAttackUntilTurn    int
}

// TurnState tracks whose turn it is and where in it we are.
type TurnState struct {
	ActivePlayerID string
	Phase          Phase
	Number         int
}

// MatchState is the root aggregate. Version increments by exactly one
// per successfully applied action and never on validation-only calls.
type MatchState struct {
	Version int
	Status  Status
	Turn    TurnState

	PendingAttack *PendingAttack

	Players   [2]*PlayerState
	Instances map[InstanceID]*CardInstance

	// Seed drove the initial deterministic shuffle; kept for replay.
	Seed int64

	WinnerID string

	nextInstanceID InstanceID
}

// Player returns the player state for an id, or nil.
func (s *MatchState) Player(id string) *PlayerState {
	for _, p := range s.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other player's state, or nil for an unknown id.
func (s *MatchState) Opponent(id string) *PlayerState {
	for _, p := range s.Players {
		if p != nil && p.ID != id {
			return p
		}
	}
	return nil
}

// newInstance mints a fresh card instance owned by the given player.
func (s *MatchState) newInstance(ownerID string, templateID int) *CardInstance {
	s.nextInstanceID++
	ci := &CardInstance{
		InstanceID: s.nextInstanceID,
		OwnerID:    ownerID,
		TemplateID: templateID,
	}
	s.Instances[ci.InstanceID] = ci
	return ci
}

// Clone produces a fully independent deep copy. This is the isolation
// boundary the reducer relies on before mutating.
func (s *MatchState) Clone() *MatchState {
	out := &MatchState{
		Version:        s.Version,
		Status:         s.Status,
		Turn:           s.Turn,
		Seed:           s.Seed,
		WinnerID:       s.WinnerID,
		Instances:      make(map[InstanceID]*CardInstance, len(s.Instances)),
		nextInstanceID: s.nextInstanceID,
	}
	if s.PendingAttack != nil {
		pa := *s.PendingAttack
		out.PendingAttack = &pa
	}
	for id, ci := range s.Instances {
		c := *ci
		out.Instances[id] = &c
	}
	for i, p := range s.Players {
		if p == nil {
			continue
		}
		cp := &PlayerState{
			ID:                       p.ID,
			LP:                       p.LP,
			Deck:                     append([]InstanceID(nil), p.Deck...),
			Hand:                     append([]InstanceID(nil), p.Hand...),
			Graveyard:                append([]InstanceID(nil), p.Graveyard...),
			UsedSummonOrFuseThisTurn: p.UsedSummonOrFuseThisTurn,
			CannotAttackUntilTurn:    p.CannotAttackUntilTurn,
		}
		for slot, m := range p.MonsterZone {
			if m != nil {
				mc := *m
				cp.MonsterZone[slot] = &mc
			}
		}
		for slot, st := range p.SpellTrapZone {
			if st != nil {
				sc := *st
				cp.SpellTrapZone[slot] = &sc
			}
		}
		out.Players[i] = cp
	}
	return out
}

// CheckIntegrity audits the structural invariants that must hold after
// every reducer call. A non-nil return indicates a programming error in
// the engine, never a rule violation.
func (s *MatchState) CheckIntegrity(cat CatalogView) error {
	seen := make(map[InstanceID]string, len(s.Instances))
	note := func(id InstanceID, where string) error {
		if _, ok := s.Instances[id]; !ok {
			return fmt.Errorf("dangling instance %d in %s", id, where)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("instance %d appears in both %s and %s", id, prev, where)
		}
		seen[id] = where
		return nil
	}

	for _, p := range s.Players {
		if p == nil {
			return fmt.Errorf("missing player state")
		}
		for _, zone := range []struct {
			name string
			ids  []InstanceID
		}{
			{"deck", p.Deck}, {"hand", p.Hand}, {"graveyard", p.Graveyard},
		} {
			for _, id := range zone.ids {
				if err := note(id, p.ID+"/"+zone.name); err != nil {
					return err
				}
			}
		}
		for slot, m := range p.MonsterZone {
			if m == nil {
				continue
			}
			if m.Slot != slot {
				return fmt.Errorf("monster %d slot field %d disagrees with index %d", m.InstanceID, m.Slot, slot)
			}
			if err := note(m.InstanceID, p.ID+"/monster"); err != nil {
				return err
			}
		}
		for slot, st := range p.SpellTrapZone {
			if st == nil {
				continue
			}
			if st.Slot != slot {
				return fmt.Errorf("spell/trap %d slot field %d disagrees with index %d", st.InstanceID, st.Slot, slot)
			}
			if err := note(st.InstanceID, p.ID+"/spelltrap"); err != nil {
				return err
			}
		}
	}

	// Equip accounting: every monster's modifiers must equal the sum
	// of boosts from equips currently targeting it.
	type boost struct{ atk, def int }
	boosts := make(map[InstanceID]boost)
	for _, p := range s.Players {
		for _, st := range p.SpellTrapZone {
			if st == nil || !st.Continuous {
				continue
			}
			b := boosts[st.EquipTargetInstanceID]
			b.atk += st.EquipATKBoost
			b.def += st.EquipDEFBoost
			boosts[st.EquipTargetInstanceID] = b
		}
	}
	for _, p := range s.Players {
		for _, m := range p.MonsterZone {
			if m == nil {
				continue
			}
			b := boosts[m.InstanceID]
			if m.ATKModifier != b.atk || m.DEFModifier != b.def {
				return fmt.Errorf("monster %d modifiers (%d/%d) disagree with equip boosts (%d/%d)",
					m.InstanceID, m.ATKModifier, m.DEFModifier, b.atk, b.def)
			}
		}
	}

	if s.PendingAttack != nil && s.Turn.Phase != PhaseBattle {
		return fmt.Errorf("pending attack outside battle phase %q", s.Turn.Phase)
	}
	bothAlive := s.Players[0].LP > 0 && s.Players[1].LP > 0
	if bothAlive && s.Status != StatusRunning {
		return fmt.Errorf("status %q with both players alive", s.Status)
	}
	if !bothAlive && s.Status != StatusFinished {
		return fmt.Errorf("status %q after a life total reached zero", s.Status)
	}

	if cat != nil {
		ids := make([]InstanceID, 0, len(s.Instances))
		for id := range s.Instances {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if _, ok := cat.Lookup(s.Instances[id].TemplateID); !ok {
				return fmt.Errorf("instance %d references unknown template %d", id, s.Instances[id].TemplateID)
			}
		}
	}
	return nil
}
