package ruleset

import "gopkg.in/yaml.v3"

// AttackType is the delivery of a monster's natural attack.
type AttackType int

const (
	AttackNone AttackType = iota
	AttackHit
	AttackBite
	AttackSting
	AttackSpore
	AttackTouch
	AttackEngulf
	AttackClaw
	AttackPeck
	AttackHeadbutt
	AttackPunch
	AttackKick
	AttackTentacleSlap
	AttackTailSlap
	AttackGore
	AttackConstrict
	AttackTrample
	AttackTrunkSlap
	AttackWeapon
)

var attackTypeNames = []string{
	"none", "hit", "bite", "sting", "spore", "touch", "engulf", "claw", "peck",
	"headbutt", "punch", "kick", "tentacle_slap", "tail_slap", "gore",
	"constrict", "trample", "trunk_slap", "weapon",
}

func (a AttackType) String() string { return enumName("attack type", attackTypeNames, int(a)) }

// UnmarshalYAML decodes an attack type name.
func (a *AttackType) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "attack type", attackTypeNames)
	if err != nil {
		return err
	}
	*a = AttackType(v)
	return nil
}

// Verb returns the present-tense verb used to narrate the attack type.
func (a AttackType) Verb() string {
	switch a {
	case AttackBite:
		return "bite"
	case AttackSting:
		return "sting"
	case AttackSpore:
		return "release spores at"
	case AttackTouch:
		return "touch"
	case AttackEngulf:
		return "engulf"
	case AttackClaw:
		return "claw"
	case AttackPeck:
		return "peck"
	case AttackHeadbutt:
		return "headbutt"
	case AttackPunch:
		return "punch"
	case AttackKick:
		return "kick"
	case AttackTentacleSlap, AttackTailSlap, AttackTrunkSlap:
		return "slap"
	case AttackGore:
		return "gore"
	case AttackConstrict:
		return "constrict"
	case AttackTrample:
		return "trample"
	default:
		return "hit"
	}
}

// Flavour is the special effect riding on a monster's natural attack.
type Flavour int

const (
	FlavourPlain Flavour = iota
	FlavourAcid
	FlavourBlink
	FlavourCold
	FlavourConfuse
	FlavourDrainDex
	FlavourDrainStr
	FlavourDrainInt
	FlavourDrainXP
	FlavourElec
	FlavourFire
	FlavourHunger
	FlavourMutate
	FlavourParalyse
	FlavourPoison
	FlavourPoisonStrong
	FlavourRot
	FlavourVampiric
	FlavourDistort
	FlavourRage
	FlavourStickyFlame
	FlavourChaos
	FlavourSteal
	FlavourHoly
	FlavourAntimagic
	FlavourPain
	FlavourEnsnare
	FlavourEngulf
	FlavourPureFire
	FlavourDrainSpeed
	FlavourVuln
	FlavourWeaknessPoison
	FlavourShadowstab
	FlavourDrown
	FlavourFirebrand
	FlavourCrush
	FlavourReach
	flavourCount
)

var flavourNames = []string{
	"plain", "acid", "blink", "cold", "confuse", "drain_dex", "drain_str",
	"drain_int", "drain_xp", "elec", "fire", "hunger", "mutate", "paralyse",
	"poison", "poison_strong", "rot", "vampiric", "distort", "rage",
	"sticky_flame", "chaos", "steal", "holy", "antimagic", "pain", "ensnare",
	"engulf", "pure_fire", "drain_speed", "vuln", "weakness_poison",
	"shadowstab", "drown", "firebrand", "crush", "reach",
}

func (f Flavour) String() string { return enumName("flavour", flavourNames, int(f)) }

// AllFlavours returns every defined flavour in declaration order.
func AllFlavours() []Flavour {
	out := make([]Flavour, flavourCount)
	for i := range out {
		out[i] = Flavour(i)
	}
	return out
}

// UnmarshalYAML decodes a flavour name.
func (f *Flavour) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "flavour", flavourNames)
	if err != nil {
		return err
	}
	*f = Flavour(v)
	return nil
}

// Damageless reports whether a hit with this flavour counts as landing even
// when it deals no physical damage.
func (f Flavour) Damageless() bool {
	switch f {
	case FlavourCrush, FlavourEngulf, FlavourPureFire, FlavourShadowstab, FlavourDrown:
		return true
	default:
		return false
	}
}

// MonsterAttack is one natural attack slot of a monster.
type MonsterAttack struct {
	Type    AttackType `yaml:"type"`
	Flavour Flavour    `yaml:"flavour"`
	Damage  int        `yaml:"damage"`
}
