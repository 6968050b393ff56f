package duel

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Checksum computes a deterministic fingerprint of the match state.
// Two states that applied the same action sequence from the same seed
// hash identically, which guards against divergence across replays or
// network transmission. Map iteration order never leaks into the hash.
func (s *MatchState) Checksum() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MATCH:%d|%s|%s|%s|%d|%d|%s\n",
		s.Version, s.Status, s.Turn.ActivePlayerID, s.Turn.Phase, s.Turn.Number, s.Seed, s.WinnerID)

	if pa := s.PendingAttack; pa != nil {
		fmt.Fprintf(&buf, "PENDING:%s|%s|%d|%t|%d|%t\n",
			pa.AttackerPlayerID, pa.DefenderPlayerID, pa.AttackerSlot,
			pa.Target.Direct, pa.Target.Slot, pa.DefenderMayRespond)
	}

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%d|%t|%d\n", p.ID, p.LP, p.UsedSummonOrFuseThisTurn, p.CannotAttackUntilTurn)
		fmt.Fprintf(&buf, "  DECK:%v\n  HAND:%v\n  GRAVE:%v\n", p.Deck, p.Hand, p.Graveyard)
		for slot, m := range p.MonsterZone {
			if m == nil {
				continue
			}
			fmt.Fprintf(&buf, "  MON:%d|%d|%d|%s|%s|%d|%d|%t|%t|%t|%d\n",
				slot, m.InstanceID, m.TemplateID, m.Face, m.Position,
				m.ATKModifier, m.DEFModifier, m.HasAttackedThisTurn,
				m.PositionChangedThisTurn, m.CannotAttackThisTurn, m.LockedPositionUntilTurn)
		}
		for slot, st := range p.SpellTrapZone {
			if st == nil {
				continue
			}
			fmt.Fprintf(&buf, "  ST:%d|%d|%d|%s|%s|%t|%t|%d|%d|%d\n",
				slot, st.InstanceID, st.TemplateID, st.Kind, st.Face,
				st.SetThisTurn, st.Continuous, st.EquipTargetInstanceID,
				st.EquipATKBoost, st.EquipDEFBoost)
		}
	}

	ids := make([]InstanceID, 0, len(s.Instances))
	for id := range s.Instances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		ci := s.Instances[id]
		fmt.Fprintf(&buf, "CARD:%d|%s|%d\n", ci.InstanceID, ci.OwnerID, ci.TemplateID)
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
