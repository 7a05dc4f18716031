// Package combat resolves melee attacks between players and monsters: the
// to-hit and evasion model, the damage pipeline, weapon brands and monster
// attack flavours, auxiliary unarmed attacks, cleaving and the monster
// multi-attack loop.
package combat

import (
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Combatant is the view of a fighter the engine reads and mutates.
type Combatant interface {
	ID() string
	Name(desc ruleset.Desc) string
	ConjVerb(verb string) string
	Pronoun(p ruleset.Pronoun) string
	IsPlayer() bool
	Attitude() ruleset.Attitude
	Holiness() ruleset.Holiness

	Alive() bool
	Pos() world.Coord
	MoveTo(c world.Coord)

	HP() int
	MaxHP() int
	// Hurt deals amount damage and returns what was actually taken.
	Hurt(sourceID string, amount int, el ruleset.Element) int
	Heal(amount int) bool
	Kill(sourceID string)
	Banish(sourceID string)
	Banished() bool

	ArmourClass() int
	// Evasion returns the dodge score; ignorePhase leaves out phase shifting.
	Evasion(ignorePhase bool) int
	// ShieldBonus is the block value of a carried shield; 0 means no shield.
	ShieldBonus() int
	ShieldBlockPenalty() int
	ShieldExhausted() bool
	ShieldBlocked()
	Resist(el ruleset.Element) int
	MagicResistance() int
	Warding() bool

	CanBleed() bool
	Summoned() bool
	Flies() bool
	Invisible() bool
	SeeInvisible() bool
	Incapacitated() bool
	StabTier() int
	StatusToHitPenalty() int

	// Weapon returns the wielded weapon or nil.
	Weapon() *inventory.WeaponDef

	HasStatus(id string) bool
	StatusDegree(id string) int
	ApplyStatus(id string, degree, turns int, sourceID string) bool
	RemoveStatus(id string)

	Poison(sourceID string, amount int, force bool) bool
	DrainExp(sourceID string, force bool) bool
	DrainStat(stat ruleset.Stat, amount int) bool
	Rot(sourceID string, amount int) bool
	Malmutate(sourceID string) bool
	MakeHungry(amount int) bool
	ExposeToElement(el ruleset.Element, strength int)

	Constrict(targetID string) bool
	Constricting() string

	MagicPoints() int
	DrainMagic(n int) int
}

// PlayerView adds what the engine needs to know only about the player.
type PlayerView interface {
	Combatant
	Strength() int
	Dexterity() int
	Intellect() int
	Skill(s ruleset.Skill) int
	Species() *ruleset.SpeciesDef
	Form() ruleset.Form
	MutationLevel(m ruleset.Mutation) int
	Hunger() ruleset.Hunger
	ExperienceLevel() int
	ArmourToHitPenalty() int
	ShieldToHitPenalty() int
	Slaying() int
	Inaccuracy() bool
	Penance() bool
	HasUsableOffhand() bool
	SpendTime(delay int)
	SpendMagic(n int) bool
	LoseItem() (string, bool)
	InterruptActivity()
}

// MonsterView adds what the engine needs to know only about monsters.
type MonsterView interface {
	Combatant
	HitDice() int
	SetHitDice(n int)
	Attacks() []ruleset.MonsterAttack
	HasFlag(f ruleset.MonsterFlag) bool
	Heads() int
	SetHeads(n int)
	Speed() int
	SpendEnergy(n int)
	// Owner is the ID of whoever binds a spectral weapon or slime, or "".
	Owner() string
	Slimify(ownerID string) bool
	DropWeapon() (string, bool)
}

func asPlayer(c Combatant) (PlayerView, bool) {
	p, ok := c.(PlayerView)
	return p, ok && c.IsPlayer()
}

func asMonster(c Combatant) (MonsterView, bool) {
	m, ok := c.(MonsterView)
	return m, ok && !c.IsPlayer()
}

func hasFlag(c Combatant, f ruleset.MonsterFlag) bool {
	m, ok := asMonster(c)
	return ok && m.HasFlag(f)
}

// canSee reports whether viewer perceives target.
func canSee(viewer, target Combatant) bool {
	return !target.Invisible() || viewer.SeeInvisible()
}

// aligned reports whether a and b fight on the same side. The player and
// friendly monsters form one side; hostile monsters the other; neutrals
// stand with neither.
func aligned(a, b Combatant) bool {
	if a.ID() == b.ID() {
		return true
	}
	return side(a) == side(b) && side(a) != ruleset.AttitudeNeutral
}

func side(c Combatant) ruleset.Attitude {
	if c.IsPlayer() {
		return ruleset.AttitudeFriendly
	}
	return c.Attitude()
}

// wontAttack reports whether c is friendly toward the player.
func wontAttack(c Combatant) bool {
	return side(c) == ruleset.AttitudeFriendly
}
