package actor

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// Nutrition thresholds: a player below a threshold is in the matching
// hunger state.
const (
	nutritionStarving     = 500
	nutritionNearStarving = 1000
	nutritionVeryHungry   = 1500
	nutritionHungry       = 2600
	nutritionSatiated     = 7000
	nutritionFull         = 11000
)

// DefaultNutrition is a comfortably fed player.
const DefaultNutrition = 6000

// PlayerSpec describes a player character in YAML.
type PlayerSpec struct {
	Name       string                   `yaml:"name"`
	Species    string                   `yaml:"species"`
	Level      int                      `yaml:"level"`
	HP         int                      `yaml:"hp"`
	MP         int                      `yaml:"mp"`
	Strength   int                      `yaml:"strength"`
	Dexterity  int                      `yaml:"dexterity"`
	Intellect  int                      `yaml:"intellect"`
	Skills     map[string]int           `yaml:"skills"`
	Form       ruleset.Form             `yaml:"form"`
	Mutations  map[ruleset.Mutation]int `yaml:"mutations"`
	Weapon     string                   `yaml:"weapon"`
	Offhand    string                   `yaml:"offhand"`
	Armour     []string                 `yaml:"armour"`
	Resists    map[ruleset.Element]int  `yaml:"resists"`
	Statuses   []string                 `yaml:"statuses"`
	Slaying    int                      `yaml:"slaying"`
	Inaccuracy bool                     `yaml:"inaccuracy"`
	Penance    bool                     `yaml:"penance"`
	Nutrition  int                      `yaml:"nutrition"`
	Items      []string                 `yaml:"items"`
	AIDomain   string                   `yaml:"ai_domain"`
}

// Validate reports every problem with the spec.
func (s *PlayerSpec) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.Species == "" {
		errs = append(errs, errors.New("species must not be empty"))
	}
	if s.Level < 1 || s.Level > 27 {
		errs = append(errs, fmt.Errorf("level must be 1-27, got %d", s.Level))
	}
	if s.HP < 1 {
		errs = append(errs, fmt.Errorf("hp must be >= 1, got %d", s.HP))
	}
	for name, lvl := range s.Skills {
		if _, err := ruleset.ParseSkill(name); err != nil {
			errs = append(errs, err)
		}
		if lvl < 0 || lvl > 27 {
			errs = append(errs, fmt.Errorf("skill %s must be 0-27, got %d", name, lvl))
		}
	}
	return errors.Join(errs...)
}

// LoadPlayerSpec reads and validates a player spec from path.
//
// Precondition: path names a readable YAML file.
// Postcondition: Returns a validated spec or a non-nil error.
func LoadPlayerSpec(path string) (*PlayerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading player file %s: %w", path, err)
	}
	var s PlayerSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing player file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("player file %s: %w", path, err)
	}
	return &s, nil
}

// Player is the player character.
type Player struct {
	Base
	species    *ruleset.SpeciesDef
	level      int
	str        int
	dex        int
	intel      int
	skills     map[ruleset.Skill]int
	form       ruleset.Form
	mutations  map[ruleset.Mutation]int
	equipment  *inventory.Equipment
	baseAC     int
	slaying    int
	inaccuracy bool
	penance    bool
	nutrition  int
	items      []string
	timeSpent  int
	interrupts int
}

// NewPlayer builds a player from spec, resolving its species and gear.
//
// Precondition: spec must be validated.
// Postcondition: Returns a living player at full HP, or an error naming
// every unresolved reference.
func NewPlayer(id string, spec *PlayerSpec, species map[string]*ruleset.SpeciesDef, gear *inventory.Registry, oracle *dice.Oracle, conditions *condition.Registry) (*Player, error) {
	sp, ok := species[spec.Species]
	if !ok {
		return nil, fmt.Errorf("player %q: unknown species %q", spec.Name, spec.Species)
	}
	p := &Player{
		Base:       newBase(id, spec.Name, oracle, conditions),
		species:    sp,
		level:      spec.Level,
		str:        sp.Strength + spec.Strength,
		dex:        sp.Dexterity + spec.Dexterity,
		intel:      sp.Intellect + spec.Intellect,
		skills:     make(map[ruleset.Skill]int, len(spec.Skills)),
		form:       spec.Form,
		mutations:  make(map[ruleset.Mutation]int),
		equipment:  &inventory.Equipment{},
		slaying:    spec.Slaying,
		inaccuracy: spec.Inaccuracy,
		penance:    spec.Penance,
		nutrition:  spec.Nutrition,
		items:      append([]string(nil), spec.Items...),
	}
	if p.nutrition == 0 {
		p.nutrition = DefaultNutrition
	}
	p.hp, p.maxHP, p.mp = spec.HP, spec.HP, spec.MP
	p.attitude = ruleset.AttitudeFriendly
	p.holiness = ruleset.HolinessNatural
	for name, lvl := range spec.Skills {
		sk, err := ruleset.ParseSkill(name)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", spec.Name, err)
		}
		p.skills[sk] = lvl
	}
	for m, lvl := range sp.Mutations {
		p.mutations[m] = lvl
	}
	for m, lvl := range spec.Mutations {
		p.mutations[m] = lvl
	}
	for el, lvl := range spec.Resists {
		p.resists[el] = lvl
	}

	var errs []error
	if spec.Weapon != "" {
		if err := p.equipFromRegistry(gear, spec.Weapon, p.equipment.Wield); err != nil {
			errs = append(errs, err)
		}
	}
	if spec.Offhand != "" {
		if err := p.equipFromRegistry(gear, spec.Offhand, p.equipment.WieldOffhand); err != nil {
			errs = append(errs, err)
		}
	}
	for _, id := range spec.Armour {
		a, ok := lookupArmour(gear, id)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown armour %q", id))
			continue
		}
		if err := p.equipment.Wear(a); err != nil {
			errs = append(errs, err)
		}
	}
	for _, st := range spec.Statuses {
		if !p.ApplyStatus(st, 1, 100, id) {
			errs = append(errs, fmt.Errorf("unknown status %q", st))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("player %q: %w", spec.Name, err)
	}
	p.weapon = p.equipment.Weapon
	return p, nil
}

func (p *Player) equipFromRegistry(gear *inventory.Registry, id string, equip func(*inventory.WeaponDef) error) error {
	if gear == nil {
		return fmt.Errorf("weapon %q requested without a registry", id)
	}
	w := gear.Weapon(id)
	if w == nil {
		return fmt.Errorf("unknown weapon %q", id)
	}
	if p.species.NoWeapons {
		return fmt.Errorf("species %s cannot wield weapons", p.species.ID)
	}
	return equip(w)
}

func lookupArmour(gear *inventory.Registry, id string) (*inventory.ArmourDef, bool) {
	if gear == nil {
		return nil, false
	}
	return gear.Armour(id)
}

// Name renders the player as "you".
func (p *Player) Name(desc ruleset.Desc) string {
	if desc == ruleset.DescIts {
		return "your"
	}
	return "you"
}

// CharacterName returns the player's own name.
func (p *Player) CharacterName() string { return p.name }

// ConjVerb returns verb unchanged; the player is addressed in the second person.
func (p *Player) ConjVerb(verb string) string { return verb }

// Pronoun returns the second-person pronoun.
func (p *Player) Pronoun(pr ruleset.Pronoun) string {
	switch pr {
	case ruleset.PronounPossessive:
		return "your"
	case ruleset.PronounReflexive:
		return "yourself"
	default:
		return "you"
	}
}

// IsPlayer is always true for players.
func (p *Player) IsPlayer() bool { return true }

// ArmourClass sums worn armour, reduced by corrosion.
//
// Postcondition: result >= 0.
func (p *Player) ArmourClass() int {
	ac := p.baseAC + p.equipment.ComputedDefenses().AC - condition.ACPenalty(p.statuses)
	if ac < 0 {
		return 0
	}
	return ac
}

// Evasion returns 10 + dex/2 less armour and status penalties. Helpless
// players cannot dodge.
func (p *Player) Evasion(ignorePhase bool) int {
	if p.Incapacitated() {
		return 0
	}
	ev := 10 + p.dex/2 - p.equipment.ComputedDefenses().EvasionPenalty - condition.EvasionPenalty(p.statuses)
	if ev < 0 {
		return 0
	}
	return ev
}

// ShieldBonus returns the shield's block value scaled by shields skill,
// or 0 without a shield.
func (p *Player) ShieldBonus() int {
	d := p.equipment.ComputedDefenses()
	if p.equipment.Shield == nil || p.Incapacitated() {
		return 0
	}
	return d.ShieldBonus*2 + p.skills[ruleset.SkillShields] + p.dex/5
}

// ShieldBlockPenalty returns the block penalty of the worn shield.
func (p *Player) ShieldBlockPenalty() int {
	return p.equipment.ComputedDefenses().BlockPenalty
}

// ShieldExhausted reports whether the player has blocked as often as
// shields skill allows this turn.
func (p *Player) ShieldExhausted() bool {
	return p.statuses.Stacks(condition.ShieldBlocks) >= 1+p.skills[ruleset.SkillShields]/5
}

// ShieldBlocked records a successful block.
func (p *Player) ShieldBlocked() {
	p.ApplyStatus(condition.ShieldBlocks, 1, 1, "")
}

// MagicResistance scales with experience level.
func (p *Player) MagicResistance() int {
	mr := p.level * 3
	if p.statuses.Has(condition.LoweredMR) {
		return mr / 2
	}
	return mr
}

// Poison poisons the player. Poison resistance blocks it unless force is set.
func (p *Player) Poison(sourceID string, amount int, force bool) bool {
	if amount <= 0 || p.dead {
		return false
	}
	if p.Resist(ruleset.ElementPoison) > 0 && !force {
		return false
	}
	return p.ApplyStatus(condition.Poisoned, amount, amount, sourceID)
}

// DrainExp drains the player's experience. Each level of negative energy
// resistance gives a one-in-three chance to resist unless force is set.
func (p *Player) DrainExp(sourceID string, force bool) bool {
	rn := p.Resist(ruleset.ElementNeg)
	if rn >= 3 {
		return false
	}
	if rn > 0 && !force && p.oracle.XChanceInY(rn, 3) {
		return false
	}
	return p.ApplyStatus(condition.Drained, 1, 50, sourceID)
}

// DrainStat lowers stat by amount, never below zero.
func (p *Player) DrainStat(stat ruleset.Stat, amount int) bool {
	if amount <= 0 {
		return false
	}
	var v *int
	switch stat {
	case ruleset.StatStr:
		v = &p.str
	case ruleset.StatDex:
		v = &p.dex
	default:
		v = &p.intel
	}
	if *v == 0 {
		return false
	}
	*v -= amount
	if *v < 0 {
		*v = 0
	}
	return true
}

// MakeHungry burns amount nutrition.
func (p *Player) MakeHungry(amount int) bool {
	if amount <= 0 || p.nutrition == 0 {
		return false
	}
	p.nutrition -= amount
	if p.nutrition < 0 {
		p.nutrition = 0
	}
	return true
}

// Nutrition returns the player's remaining nutrition.
func (p *Player) Nutrition() int { return p.nutrition }

// Hunger maps the nutrition level to a hunger state.
func (p *Player) Hunger() ruleset.Hunger {
	switch {
	case p.nutrition < nutritionStarving:
		return ruleset.HungerStarving
	case p.nutrition < nutritionNearStarving:
		return ruleset.HungerNearStarving
	case p.nutrition < nutritionVeryHungry:
		return ruleset.HungerVeryHungry
	case p.nutrition < nutritionHungry:
		return ruleset.HungerHungry
	case p.nutrition < nutritionSatiated:
		return ruleset.HungerSatiated
	case p.nutrition < nutritionFull:
		return ruleset.HungerFull
	default:
		return ruleset.HungerEngorged
	}
}

// Strength returns the current strength.
func (p *Player) Strength() int { return p.str }

// Dexterity returns the current dexterity.
func (p *Player) Dexterity() int { return p.dex }

// Intellect returns the current intelligence.
func (p *Player) Intellect() int { return p.intel }

// Skill returns the trained level of s.
func (p *Player) Skill(s ruleset.Skill) int { return p.skills[s] }

// Species returns the player's species definition.
func (p *Player) Species() *ruleset.SpeciesDef { return p.species }

// Form returns the current transformation.
func (p *Player) Form() ruleset.Form { return p.form }

// SetForm transforms the player.
func (p *Player) SetForm(f ruleset.Form) { p.form = f }

// MutationLevel returns the level of m, 0 when absent.
func (p *Player) MutationLevel(m ruleset.Mutation) int { return p.mutations[m] }

// ExperienceLevel returns the player's experience level.
func (p *Player) ExperienceLevel() int { return p.level }

// ArmourToHitPenalty returns the body armour's to-hit penalty.
func (p *Player) ArmourToHitPenalty() int { return p.equipment.ComputedDefenses().ToHitPenalty }

// ShieldToHitPenalty returns the shield's to-hit penalty.
func (p *Player) ShieldToHitPenalty() int { return p.equipment.ComputedDefenses().ShieldToHit }

// Slaying returns the player's slaying bonus from jewellery.
func (p *Player) Slaying() int { return p.slaying }

// Inaccuracy reports whether the player wears something that spoils aim.
func (p *Player) Inaccuracy() bool { return p.inaccuracy }

// Penance reports whether an angry god may interfere with the player's attacks.
func (p *Player) Penance() bool { return p.penance }

// HasUsableOffhand reports whether the off hand is free to punch.
func (p *Player) HasUsableOffhand() bool {
	if p.equipment.Shield != nil || p.equipment.Offhand != nil {
		return false
	}
	return p.equipment.Weapon == nil || !p.equipment.Weapon.TwoHanded
}

// Equipment returns the player's worn and wielded gear.
func (p *Player) Equipment() *inventory.Equipment { return p.equipment }

// SpendTime charges the player delay tenths of a turn.
func (p *Player) SpendTime(delay int) { p.timeSpent += delay }

// TimeSpent returns the total time the player has spent acting.
func (p *Player) TimeSpent() int { return p.timeSpent }

// SpendMagic pays n magic points if the player has them.
func (p *Player) SpendMagic(n int) bool {
	if n > p.mp {
		return false
	}
	p.mp -= n
	return true
}

// LoseItem removes the most recently acquired item and returns its name.
func (p *Player) LoseItem() (string, bool) {
	if len(p.items) == 0 {
		return "", false
	}
	last := p.items[len(p.items)-1]
	p.items = p.items[:len(p.items)-1]
	return last, true
}

// Items returns the player's carried items.
func (p *Player) Items() []string { return p.items }

// InterruptActivity stops travel or resting.
func (p *Player) InterruptActivity() { p.interrupts++ }

// Interrupts returns how many times the player's activity was interrupted.
func (p *Player) Interrupts() int { return p.interrupts }
