package ruleset

import "gopkg.in/yaml.v3"

// Skill is a trainable player skill.
type Skill int

const (
	SkillFighting Skill = iota
	SkillShortBlades
	SkillLongBlades
	SkillAxes
	SkillMacesFlails
	SkillPolearms
	SkillStaves
	SkillUnarmedCombat
	SkillShields
	SkillStealth
	SkillNecromancy
	SkillEvocations
	SkillFireMagic
	SkillIceMagic
	SkillEarthMagic
	SkillPoisonMagic
	SkillAirMagic
)

var skillNames = []string{
	"fighting", "short_blades", "long_blades", "axes", "maces_flails",
	"polearms", "staves", "unarmed_combat", "shields", "stealth", "necromancy",
	"evocations", "fire_magic", "ice_magic", "earth_magic", "poison_magic",
	"air_magic",
}

func (s Skill) String() string { return enumName("skill", skillNames, int(s)) }

// ParseSkill converts a content name to a Skill.
func ParseSkill(name string) (Skill, error) {
	v, err := parseEnum("skill", skillNames, name)
	return Skill(v), err
}

// UnmarshalYAML decodes a skill name.
func (s *Skill) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "skill", skillNames)
	if err != nil {
		return err
	}
	*s = Skill(v)
	return nil
}

// Stat is one of the three primary player attributes.
type Stat int

const (
	StatStr Stat = iota
	StatInt
	StatDex
)

var statNames = []string{"strength", "intelligence", "dexterity"}

func (s Stat) String() string { return enumName("stat", statNames, int(s)) }

// Hunger is the player's nutrition state.
type Hunger int

const (
	HungerStarving Hunger = iota
	HungerNearStarving
	HungerVeryHungry
	HungerHungry
	HungerSatiated
	HungerFull
	HungerEngorged
)

// Starving reports whether the state carries the starvation combat penalty.
func (h Hunger) Starving() bool { return h <= HungerStarving }
