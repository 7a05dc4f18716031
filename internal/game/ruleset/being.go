package ruleset

import "gopkg.in/yaml.v3"

// Holiness classifies what a creature is made of.
type Holiness int

const (
	HolinessNatural Holiness = iota
	HolinessUndead
	HolinessDemonic
	HolinessHoly
	HolinessNonliving
	HolinessPlant
)

var holinessNames = []string{"natural", "undead", "demonic", "holy", "nonliving", "plant"}

func (h Holiness) String() string { return enumName("holiness", holinessNames, int(h)) }

// UnmarshalYAML decodes a holiness name.
func (h *Holiness) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "holiness", holinessNames)
	if err != nil {
		return err
	}
	*h = Holiness(v)
	return nil
}

// HolyWrathSusceptible reports whether holy damage hurts this creature.
func (h Holiness) HolyWrathSusceptible() bool {
	return h == HolinessUndead || h == HolinessDemonic
}

// Attitude is a creature's standing toward the player.
type Attitude int

const (
	AttitudeHostile Attitude = iota
	AttitudeNeutral
	AttitudeFriendly
)

var attitudeNames = []string{"hostile", "neutral", "friendly"}

func (a Attitude) String() string { return enumName("attitude", attitudeNames, int(a)) }

// UnmarshalYAML decodes an attitude name.
func (a *Attitude) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "attitude", attitudeNames)
	if err != nil {
		return err
	}
	*a = Attitude(v)
	return nil
}

// Desc selects how a creature's name is rendered.
type Desc int

const (
	DescThe Desc = iota
	DescA
	DescPlain
	DescIts
)

// Pronoun selects a pronoun form.
type Pronoun int

const (
	PronounSubjective Pronoun = iota
	PronounObjective
	PronounPossessive
	PronounReflexive
)

// MonsterFlag marks monster behaviour the melee engine special-cases.
type MonsterFlag int

const (
	FlagFighter MonsterFlag = iota
	FlagHydra
	FlagLernaean
	FlagMultitarget
	FlagIgnoresShields
	FlagAutoHit
	FlagSuicideAttack
	FlagStrongParalysis
	FlagWeakParalysis
	FlagMinotaur
	FlagSpectralWeapon
	FlagDancingWeapon
	FlagProjectile
	FlagAcidSplash
	FlagWarding
	FlagSpines
	FlagSpellcaster
	FlagEyeballs
	FlagSlimeImmune
	FlagNoEnergy
	FlagDragon
)

var monsterFlagNames = []string{
	"fighter", "hydra", "lernaean", "multitarget", "ignores_shields",
	"auto_hit", "suicide_attack", "strong_paralysis", "weak_paralysis",
	"minotaur", "spectral_weapon", "dancing_weapon", "projectile",
	"acid_splash", "warding", "spines", "spellcaster", "eyeballs",
	"slime_immune", "no_energy", "dragon",
}

func (f MonsterFlag) String() string { return enumName("monster flag", monsterFlagNames, int(f)) }

// UnmarshalYAML decodes a monster flag name.
func (f *MonsterFlag) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "monster flag", monsterFlagNames)
	if err != nil {
		return err
	}
	*f = MonsterFlag(v)
	return nil
}
