package duel

// ActionType tags the closed set of player-submitted actions.
type ActionType string

const (
	ActionSummonMonster         ActionType = "SUMMON_MONSTER"
	ActionSetMonster            ActionType = "SET_MONSTER"
	ActionSetSpellTrap          ActionType = "SET_SPELL_TRAP"
	ActionActivateSpellFromHand ActionType = "ACTIVATE_SPELL_FROM_HAND"
	ActionActivateSetCard       ActionType = "ACTIVATE_SET_CARD"
	ActionFuse                  ActionType = "FUSE"
	ActionChangePosition        ActionType = "CHANGE_POSITION"
	ActionFlipSummon            ActionType = "FLIP_SUMMON"
	ActionAttackDeclare         ActionType = "ATTACK_DECLARE"
	ActionTrapResponse          ActionType = "TRAP_RESPONSE"
	ActionEndTurn               ActionType = "END_TURN"
)

// TrapResponseChoice is the defender's reply to an open window.
type TrapResponseChoice string

const (
	ResponsePass     TrapResponseChoice = "PASS"
	ResponseActivate TrapResponseChoice = "ACTIVATE"
)

// DirectTarget marks an attack aimed at the defending player instead of
// a monster slot.
const DirectTarget = -1

// Action is a player-submitted move. Fields beyond Type are read per
// action kind:
//
//	SUMMON_MONSTER, SET_MONSTER, SET_SPELL_TRAP:
//	    Card = hand instance, Slot = destination slot.
//	ACTIVATE_SPELL_FROM_HAND:
//	    Card = hand instance; for equip spells TargetSlot = own
//	    face-up monster and Slot = empty spell/trap slot.
//	ACTIVATE_SET_CARD:
//	    Slot = own spell/trap slot; for equip spells TargetSlot as above.
//	FUSE:
//	    Materials = 2-3 unique instances, Order = declared resolution
//	    order (a permutation of Materials), Slot = result monster slot.
//	CHANGE_POSITION, FLIP_SUMMON:
//	    Slot = own monster slot.
//	ATTACK_DECLARE:
//	    Slot = attacker slot, TargetSlot = defending monster slot or
//	    DirectTarget.
//	TRAP_RESPONSE:
//	    Response = PASS or ACTIVATE, TrapSlot = own trap slot when
//	    activating.
//	END_TURN: no payload.
type Action struct {
	// ActionID is a caller-supplied unique id for idempotency and
	// audit at the transport layer; the engine never interprets it.
	ActionID string `json:"action_id"`

	Type ActionType `json:"type"`

	Card       InstanceID   `json:"card,omitempty"`
	Slot       int          `json:"slot"`
	TargetSlot int          `json:"target_slot"`
	Materials  []InstanceID `json:"materials,omitempty"`
	Order      []InstanceID `json:"order,omitempty"`

	Response TrapResponseChoice `json:"response,omitempty"`
	TrapSlot int                `json:"trap_slot"`
}
