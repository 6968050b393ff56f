package duel

// EventType tags the ordered events emitted per applied action.
type EventType string

const (
	EventCardDrawn           EventType = "CARD_DRAWN"
	EventDeckFatigue         EventType = "DECK_FATIGUE"
	EventMonsterSummoned     EventType = "MONSTER_SUMMONED"
	EventMonsterSet          EventType = "MONSTER_SET"
	EventSpellTrapSet        EventType = "SPELL_TRAP_SET"
	EventSpellActivated      EventType = "SPELL_ACTIVATED"
	EventTrapActivated       EventType = "TRAP_ACTIVATED"
	EventEquipAttached       EventType = "EQUIP_ATTACHED"
	EventEquipDetached       EventType = "EQUIP_DETACHED"
	EventMonsterFlipSummoned EventType = "MONSTER_FLIP_SUMMONED"
	EventMonsterRevealed     EventType = "MONSTER_REVEALED"
	EventMonsterDestroyed    EventType = "MONSTER_DESTROYED"
	EventSpellTrapDestroyed  EventType = "SPELL_TRAP_DESTROYED"
	EventAttackDeclared      EventType = "ATTACK_DECLARED"
	EventAttackWaiting       EventType = "ATTACK_WAITING_RESPONSE"
	EventAttackNegated       EventType = "ATTACK_NEGATED"
	EventBattleResolved      EventType = "BATTLE_RESOLVED"
	EventAttacksLocked       EventType = "ATTACKS_LOCKED"
	EventLPChanged           EventType = "LP_CHANGED"
	EventFusionResolved      EventType = "FUSION_RESOLVED"
	EventFusionFailed        EventType = "FUSION_FAILED"
	EventPositionChanged     EventType = "POSITION_CHANGED"
	EventTurnChanged         EventType = "TURN_CHANGED"
	EventGameFinished        EventType = "GAME_FINISHED"
)

// BattleDetail carries everything a UI needs to replay one battle
// without re-deriving it from state.
type BattleDetail struct {
	AttackerSlot      int      `json:"attacker_slot"`
	Direct            bool     `json:"direct"`
	TargetSlot        int      `json:"target_slot"`
	AttackerATK       int      `json:"attacker_atk"`
	TargetATK         int      `json:"target_atk"`
	TargetDEF         int      `json:"target_def"`
	TargetPosition    Position `json:"target_position,omitempty"`
	AttackerDestroyed bool     `json:"attacker_destroyed"`
	TargetDestroyed   bool     `json:"target_destroyed"`
	DamagedPlayerID   string   `json:"damaged_player_id,omitempty"`
	Damage            int      `json:"damage"`
}

// FusionStep is one pairing in a fusion chain: two inputs and either a
// result template or a failed lookup.
type FusionStep struct {
	LeftTemplateID   int  `json:"left_template_id"`
	RightTemplateID  int  `json:"right_template_id"`
	ResultTemplateID int  `json:"result_template_id"`
	Failed           bool `json:"failed"`
}

// FusionDetail describes a fusion resolution for events and logging.
type FusionDetail struct {
	MaterialTemplateIDs []int        `json:"material_template_ids"`
	ResultTemplateID    int          `json:"result_template_id"`
	Failed              bool         `json:"failed"`
	Fallback            FallbackKind `json:"fallback,omitempty"`
	Steps               []FusionStep `json:"steps"`
	DiscoveryKey        string       `json:"discovery_key"`
}

// Event is one discrete change produced by the reducer. Fields beyond
// Type are populated per event kind; zero values mean "not applicable".
type Event struct {
	Type EventType `json:"type"`

	PlayerID   string     `json:"player_id,omitempty"`
	InstanceID InstanceID `json:"instance_id,omitempty"`
	TemplateID int        `json:"template_id,omitempty"`
	Slot       int        `json:"slot,omitempty"`
	TargetSlot int        `json:"target_slot,omitempty"`

	// Amount carries LP deltas (negative for damage), lock durations,
	// and equip boosts.
	Amount int `json:"amount,omitempty"`
	// LP is the player's life total after an LP_CHANGED event.
	LP int `json:"lp,omitempty"`

	Position Position `json:"position,omitempty"`
	WinnerID string   `json:"winner_id,omitempty"`
	Turn     int      `json:"turn,omitempty"`
	// Tag names the affected monster tag on ATTACKS_LOCKED events.
	Tag string `json:"tag,omitempty"`

	Battle *BattleDetail `json:"battle,omitempty"`
	Fusion *FusionDetail `json:"fusion,omitempty"`
}
