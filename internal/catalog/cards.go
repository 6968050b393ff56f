package catalog

// Built-in card table. Template ids are stable; sequence numbers are
// offset so the two id spaces can never be confused in recipe keys.

const seqOffset = 700

// Template ids referenced by name elsewhere in the codebase.
const (
	TplPetitDragon    = 1
	TplBabyDragon     = 2
	TplCurseOfDragon  = 3
	TplFeralImp       = 4
	TplSummonedSkull  = 5
	TplCelticGuardian = 6
	TplFlameSwordsman = 7
	TplMysticalElf    = 8
	TplSkullServant   = 9
	TplThunderDragon  = 10
	TplTwinThunder    = 11
	TplDarkMagician   = 12
	TplGaiaKnight     = 13
	TplGaiaChampion   = 14
	TplZombieWarrior  = 15
	TplBlueEyes       = 16
	TplBSkullDragon   = 17
	TplDragonZombie   = 19
	TplRedEyes        = 20

	TplSparks         = 30
	TplHinotama       = 31
	TplRedMedicine    = 32
	TplDarkHole       = 33
	TplRaigeki        = 34
	TplFeatherDuster  = 35
	TplSwordsOfLight  = 36
	TplWarriorElim    = 37
	TplCeasefire      = 38
	TplEternalRest    = 39
	TplDragonJar      = 40
	TplLegendarySword = 41
	TplDragonTreasure = 42

	TplWidespreadRuin     = 50
	TplAcidTrapHole       = 51
	TplAdhesiveTape       = 52
	TplSpellbindingCircle = 53
)

func monster(id int, name string, atk, def int, tags ...string) Card {
	return Card{TemplateID: id, Name: name, Kind: KindMonster, ATK: atk, DEF: def, Tags: tags, Sequence: seqOffset + id}
}

func spell(id int, name string, code EffectCode, amount int, tag string) Card {
	return Card{TemplateID: id, Name: name, Kind: KindSpell, EffectCode: code, EffectAmount: amount, EffectTag: tag, Sequence: seqOffset + id}
}

func trap(id int, name string, code EffectCode) Card {
	return Card{TemplateID: id, Name: name, Kind: KindTrap, EffectCode: code, Sequence: seqOffset + id}
}

var builtinCards = []Card{
	monster(TplPetitDragon, "Petit Dragon", 600, 700, "dragon"),
	monster(TplBabyDragon, "Baby Dragon", 1200, 700, "dragon"),
	monster(TplCurseOfDragon, "Curse of Dragon", 2000, 1500, "dragon"),
	monster(TplFeralImp, "Feral Imp", 1300, 1400, "fiend"),
	monster(TplSummonedSkull, "Summoned Skull", 2500, 1200, "fiend"),
	monster(TplCelticGuardian, "Celtic Guardian", 1400, 1200, "warrior"),
	monster(TplFlameSwordsman, "Flame Swordsman", 1800, 1600, "warrior", "pyro"),
	monster(TplMysticalElf, "Mystical Elf", 800, 2000, "spellcaster"),
	monster(TplSkullServant, "Skull Servant", 300, 200, "zombie"),
	monster(TplThunderDragon, "Thunder Dragon", 1600, 1500, "dragon", "thunder"),
	monster(TplTwinThunder, "Twin-Headed Thunder Dragon", 2800, 2100, "dragon", "thunder"),
	monster(TplDarkMagician, "Dark Magician", 2500, 2100, "spellcaster"),
	monster(TplGaiaKnight, "Gaia the Fierce Knight", 2300, 2100, "warrior"),
	monster(TplGaiaChampion, "Gaia the Dragon Champion", 2600, 2100, "dragon", "warrior"),
	monster(TplZombieWarrior, "Zombie Warrior", 1200, 900, "zombie", "warrior"),
	monster(TplBlueEyes, "Blue-Eyes White Dragon", 3000, 2500, "dragon"),
	monster(TplBSkullDragon, "B. Skull Dragon", 3200, 2500, "dragon", "fiend"),
	monster(TplDragonZombie, "Dragon Zombie", 1600, 0, "dragon", "zombie"),
	monster(TplRedEyes, "Red-Eyes B. Dragon", 2400, 2000, "dragon"),

	spell(TplSparks, "Sparks", EffectDamage, 200, ""),
	spell(TplHinotama, "Hinotama", EffectDamage, 500, ""),
	spell(TplRedMedicine, "Red Medicine", EffectHeal, 500, ""),
	spell(TplDarkHole, "Dark Hole", EffectDestroyAll, 0, ""),
	spell(TplRaigeki, "Raigeki", EffectDestroyOpponent, 0, ""),
	spell(TplFeatherDuster, "Harpie's Feather Duster", EffectDestroyBackRow, 0, ""),
	spell(TplSwordsOfLight, "Swords of Revealing Light", EffectLockAttacks, 3, ""),
	spell(TplWarriorElim, "Warrior Elimination", EffectDestroyTag, 0, "warrior"),
	spell(TplCeasefire, "Ceasefire", EffectDestroyFaceDown, 0, ""),
	spell(TplEternalRest, "Eternal Rest", EffectClearModifiers, 0, ""),
	spell(TplDragonJar, "Dragon Capture Jar", EffectLockTagAttacks, 0, "dragon"),
	spell(TplLegendarySword, "Legendary Sword", EffectEquip, 300, ""),
	spell(TplDragonTreasure, "Dragon Treasure", EffectEquip, 500, ""),

	trap(TplWidespreadRuin, "Widespread Ruin", EffectTrapDestroyAttacker),
	trap(TplAcidTrapHole, "Acid Trap Hole", EffectTrapDestroyAttackerBig),
	trap(TplAdhesiveTape, "House of Adhesive Tape", EffectTrapDestroyAttackerWeak),
	trap(TplSpellbindingCircle, "Spellbinding Circle", EffectTrapLockAttacker),
}

func seq(templateID int) int { return seqOffset + templateID }

var builtinRecipes = []Recipe{
	{SeqA: seq(TplThunderDragon), SeqB: seq(TplThunderDragon), Result: TplTwinThunder},
	{SeqA: seq(TplGaiaKnight), SeqB: seq(TplCurseOfDragon), Result: TplGaiaChampion},
	{SeqA: seq(TplSummonedSkull), SeqB: seq(TplRedEyes), Result: TplBSkullDragon},
	{SeqA: seq(TplSkullServant), SeqB: seq(TplCelticGuardian), Result: TplZombieWarrior},
	{SeqA: seq(TplPetitDragon), SeqB: seq(TplBabyDragon), Result: TplCurseOfDragon},
	{SeqA: seq(TplSkullServant), SeqB: seq(TplCurseOfDragon), Result: TplDragonZombie},
}

var builtinDeck = []int{
	TplPetitDragon, TplPetitDragon, TplPetitDragon,
	TplBabyDragon, TplBabyDragon, TplBabyDragon,
	TplCurseOfDragon, TplCurseOfDragon,
	TplFeralImp, TplFeralImp, TplFeralImp,
	TplSummonedSkull, TplSummonedSkull,
	TplCelticGuardian, TplCelticGuardian, TplCelticGuardian,
	TplFlameSwordsman, TplFlameSwordsman,
	TplMysticalElf, TplMysticalElf,
	TplSkullServant, TplSkullServant, TplSkullServant,
	TplThunderDragon, TplThunderDragon, TplThunderDragon,
	TplDragonZombie, TplDragonZombie,
	TplSparks, TplSparks,
	TplHinotama,
	TplRedMedicine, TplRedMedicine,
	TplDarkHole,
	TplSwordsOfLight,
	TplLegendarySword, TplLegendarySword,
	TplWidespreadRuin,
	TplAcidTrapHole,
	TplSpellbindingCircle,
}

// NewBuiltin returns the catalog backed by the built-in card table.
func NewBuiltin() *Memory {
	m, err := NewMemory(builtinCards, builtinRecipes, TplSkullServant, TplMysticalElf, builtinDeck)
	if err != nil {
		// The built-in tables are compile-time data; a construction
		// failure is a programming error.
		panic(err)
	}
	return m
}
