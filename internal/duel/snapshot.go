package duel

// Per-viewer redacted views. The projector is read-only and never
// leaks hidden information: the opponent's hand is a count, and any
// face-down board card is replaced by a generic hidden placeholder.

// CardView is a board or hand card as one viewer may see it.
type CardView struct {
	InstanceID InstanceID `json:"instance_id"`
	TemplateID int        `json:"template_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	Kind       string     `json:"kind,omitempty"`
	ATK        int        `json:"atk"`
	DEF        int        `json:"def"`
	Tags       []string   `json:"tags,omitempty"`
	Hidden     bool       `json:"hidden,omitempty"`
}

// MonsterView is one monster-zone slot in a snapshot.
type MonsterView struct {
	CardView
	Slot        int      `json:"slot"`
	Face        Face     `json:"face"`
	Position    Position `json:"position"`
	ATKModifier int      `json:"atk_modifier"`
	DEFModifier int      `json:"def_modifier"`
	HasAttacked bool     `json:"has_attacked"`
}

// SpellTrapView is one spell/trap-zone slot in a snapshot.
type SpellTrapView struct {
	CardView
	Slot       int  `json:"slot"`
	Face       Face `json:"face"`
	Continuous bool `json:"continuous,omitempty"`
	TargetSlot int  `json:"target_slot,omitempty"`
}

// SideView is one player's half as seen by the viewer.
type SideView struct {
	PlayerID       string           `json:"player_id"`
	LP             int              `json:"lp"`
	DeckCount      int              `json:"deck_count"`
	HandCount      int              `json:"hand_count"`
	Hand           []CardView       `json:"hand,omitempty"`
	Graveyard      []CardView       `json:"graveyard"`
	MonsterZone    []*MonsterView   `json:"monster_zone"`
	SpellTrapZone  []*SpellTrapView `json:"spell_trap_zone"`
	UsedSummonGate bool             `json:"used_summon_gate"`
}

// ResponsePrompt tells the player allowed to respond just enough to
// render a decision UI: the attack coordinates and which of their own
// trap slots are eligible.
type ResponsePrompt struct {
	Window        ResponseWindow `json:"window"`
	AttackerSlot  int            `json:"attacker_slot"`
	Direct        bool           `json:"direct"`
	TargetSlot    int            `json:"target_slot"`
	EligibleTraps []int          `json:"eligible_traps"`
}

// Snapshot is the full redacted view for one player.
type Snapshot struct {
	Version  int             `json:"version"`
	Status   Status          `json:"status"`
	Turn     TurnState       `json:"turn"`
	ViewerID string          `json:"viewer_id"`
	You      SideView        `json:"you"`
	Opponent SideView        `json:"opponent"`
	Prompt   *ResponsePrompt `json:"prompt,omitempty"`
	WinnerID string          `json:"winner_id,omitempty"`
}

// hiddenCard is the placeholder shown in place of any face-down card:
// no name, zero stats, no tags.
func hiddenCard(id InstanceID) CardView {
	return CardView{InstanceID: id, Hidden: true}
}

func cardView(state *MatchState, cat CatalogView, id InstanceID) CardView {
	ci := state.Instances[id]
	card := mustLookup(cat, ci.TemplateID)
	return CardView{
		InstanceID: id,
		TemplateID: ci.TemplateID,
		Name:       card.Name,
		Kind:       string(card.Kind),
		ATK:        card.ATK,
		DEF:        card.DEF,
		Tags:       append([]string(nil), card.Tags...),
	}
}

// SnapshotFor derives the redacted view of the match for one viewer.
func SnapshotFor(state *MatchState, cat CatalogView, viewerID string) Snapshot {
	viewer := state.Player(viewerID)
	if viewer == nil {
		panic(errIntegrity("snapshot for unknown player %q", viewerID))
	}
	opponent := state.Opponent(viewerID)

	snap := Snapshot{
		Version:  state.Version,
		Status:   state.Status,
		Turn:     state.Turn,
		ViewerID: viewerID,
		You:      sideView(state, cat, viewer, true),
		Opponent: sideView(state, cat, opponent, false),
		WinnerID: state.WinnerID,
	}

	if pa := state.PendingAttack; pa != nil && pa.DefenderPlayerID == viewerID && pa.DefenderMayRespond {
		snap.Prompt = &ResponsePrompt{
			Window:        pa.Window,
			AttackerSlot:  pa.AttackerSlot,
			Direct:        pa.Target.Direct,
			TargetSlot:    pa.Target.Slot,
			EligibleTraps: eligibleTrapSlots(viewer),
		}
	}
	return snap
}

// SnapshotSpectator derives the neutral view for a viewer who is not a
// player: both sides are redacted exactly like an opponent view, no
// hand contents, no response prompt. You holds the first seat.
func SnapshotSpectator(state *MatchState, cat CatalogView) Snapshot {
	return Snapshot{
		Version:  state.Version,
		Status:   state.Status,
		Turn:     state.Turn,
		You:      sideView(state, cat, state.Players[0], false),
		Opponent: sideView(state, cat, state.Players[1], false),
		WinnerID: state.WinnerID,
	}
}

func sideView(state *MatchState, cat CatalogView, p *PlayerState, own bool) SideView {
	side := SideView{
		PlayerID:       p.ID,
		LP:             p.LP,
		DeckCount:      len(p.Deck),
		HandCount:      len(p.Hand),
		Graveyard:      make([]CardView, 0, len(p.Graveyard)),
		MonsterZone:    make([]*MonsterView, ZoneSize),
		SpellTrapZone:  make([]*SpellTrapView, ZoneSize),
		UsedSummonGate: p.UsedSummonOrFuseThisTurn,
	}
	if own {
		for _, id := range p.Hand {
			side.Hand = append(side.Hand, cardView(state, cat, id))
		}
	}
	// The graveyard is public for both sides.
	for _, id := range p.Graveyard {
		side.Graveyard = append(side.Graveyard, cardView(state, cat, id))
	}
	for slot, m := range p.MonsterZone {
		if m == nil {
			continue
		}
		mv := &MonsterView{
			Slot:        slot,
			Face:        m.Face,
			Position:    m.Position,
			HasAttacked: m.HasAttackedThisTurn,
		}
		if own || m.Face == FaceUp {
			mv.CardView = cardView(state, cat, m.InstanceID)
			mv.ATKModifier = m.ATKModifier
			mv.DEFModifier = m.DEFModifier
		} else {
			mv.CardView = hiddenCard(m.InstanceID)
		}
		side.MonsterZone[slot] = mv
	}
	for slot, st := range p.SpellTrapZone {
		if st == nil {
			continue
		}
		sv := &SpellTrapView{
			Slot: slot,
			Face: st.Face,
		}
		if own || st.Face == FaceUp {
			sv.CardView = cardView(state, cat, st.InstanceID)
			sv.Continuous = st.Continuous
			if st.Continuous {
				if target := findMonster(state, st.EquipTargetInstanceID); target != nil {
					sv.TargetSlot = target.Slot
				}
			}
		} else {
			sv.CardView = hiddenCard(st.InstanceID)
		}
		side.SpellTrapZone[slot] = sv
	}
	return side
}
