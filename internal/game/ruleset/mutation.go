package ruleset

import "gopkg.in/yaml.v3"

// Mutation is a player mutation relevant to melee.
type Mutation int

const (
	MutHooves Mutation = iota
	MutTalons
	MutTentacleSpike
	MutBeak
	MutHorns
	MutStinger
	MutTail
	MutFangs
	MutAcidicBite
	MutAntimagicBite
	MutClaws
	MutPseudopods
	MutTentacles
	MutConstrictingTail
	MutBlackMark
	MutEyeballs
	MutPassiveFreeze
	MutFoulStench
	MutSpines
	MutTendrils
	MutShadowstab
)

var mutationNames = []string{
	"hooves", "talons", "tentacle_spike", "beak", "horns", "stinger", "tail",
	"fangs", "acidic_bite", "antimagic_bite", "claws", "pseudopods", "tentacles",
	"constricting_tail", "black_mark", "eyeballs", "passive_freeze",
	"foul_stench", "spines", "tendrils", "shadowstab",
}

func (m Mutation) String() string { return enumName("mutation", mutationNames, int(m)) }

// ParseMutation converts a content name to a Mutation.
func ParseMutation(s string) (Mutation, error) {
	v, err := parseEnum("mutation", mutationNames, s)
	return Mutation(v), err
}

// UnmarshalYAML decodes a mutation name.
func (m *Mutation) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "mutation", mutationNames)
	if err != nil {
		return err
	}
	*m = Mutation(v)
	return nil
}

// UnmarshalText lets mutations be used as YAML map keys.
func (m *Mutation) UnmarshalText(text []byte) error {
	v, err := ParseMutation(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
