// Package actor provides the concrete player and monster combatants the
// melee engine fights with. Both kinds share a Base that owns hit points,
// position, statuses and resistances.
package actor

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Base holds the state common to players and monsters.
// It is not safe for concurrent use.
type Base struct {
	id       string
	name     string
	pos      world.Coord
	hp       int
	maxHP    int
	mp       int
	attitude ruleset.Attitude
	holiness ruleset.Holiness
	resists  map[ruleset.Element]int
	weapon   *inventory.WeaponDef

	bloodless    bool
	flies        bool
	summoned     bool
	invisible    bool
	seeInvisible bool
	warding      bool

	statuses   *condition.ActiveSet
	conditions *condition.Registry
	oracle     *dice.Oracle

	dead         bool
	banished     bool
	killer       string
	constricting string
	mutations    int
	exposures    []ruleset.Element
}

func newBase(id, name string, oracle *dice.Oracle, conditions *condition.Registry) Base {
	if conditions == nil {
		conditions = condition.DefaultRegistry()
	}
	return Base{
		id:         id,
		name:       name,
		resists:    make(map[ruleset.Element]int),
		statuses:   condition.NewActiveSet(),
		conditions: conditions,
		oracle:     oracle,
	}
}

// ID returns the unique identifier of the combatant.
func (b *Base) ID() string { return b.id }

// Attitude returns the combatant's standing toward the player.
func (b *Base) Attitude() ruleset.Attitude { return b.attitude }

// SetAttitude changes the combatant's standing toward the player.
func (b *Base) SetAttitude(a ruleset.Attitude) { b.attitude = a }

// Holiness returns what the combatant is made of.
func (b *Base) Holiness() ruleset.Holiness { return b.holiness }

// Alive reports whether the combatant is still in the fight.
func (b *Base) Alive() bool { return !b.dead && !b.banished && b.hp > 0 }

// Pos returns the combatant's cell.
func (b *Base) Pos() world.Coord { return b.pos }

// MoveTo places the combatant on c.
func (b *Base) MoveTo(c world.Coord) { b.pos = c }

// HP returns current hit points.
func (b *Base) HP() int { return b.hp }

// MaxHP returns maximum hit points.
func (b *Base) MaxHP() int { return b.maxHP }

// Hurt subtracts amount from the combatant's hit points and returns the
// damage actually taken. Waking is a side effect of any damage.
//
// Postcondition: HP() == previous HP - result.
func (b *Base) Hurt(sourceID string, amount int, el ruleset.Element) int {
	if amount <= 0 || b.dead {
		return 0
	}
	b.hp -= amount
	b.statuses.Remove(condition.Asleep)
	if b.hp <= 0 && b.killer == "" {
		b.killer = sourceID
	}
	return amount
}

// Heal restores up to amount hit points without exceeding MaxHP.
//
// Postcondition: returns true iff HP increased.
func (b *Base) Heal(amount int) bool {
	if amount <= 0 || b.hp >= b.maxHP || b.dead {
		return false
	}
	b.hp += amount
	if b.hp > b.maxHP {
		b.hp = b.maxHP
	}
	return true
}

// Kill finalises the death of the combatant.
//
// Postcondition: Alive() is false.
func (b *Base) Kill(sourceID string) {
	if b.hp > 0 {
		b.hp = 0
	}
	b.dead = true
	if b.killer == "" {
		b.killer = sourceID
	}
}

// Killer returns the ID of whoever dealt the killing blow, if any.
func (b *Base) Killer() string { return b.killer }

// Banish removes the combatant from the arena.
func (b *Base) Banish(sourceID string) {
	b.banished = true
	if b.killer == "" {
		b.killer = sourceID
	}
}

// Banished reports whether the combatant was sent away.
func (b *Base) Banished() bool { return b.banished }

// Resist returns the resistance level against el, checked against the
// element's resistance key.
func (b *Base) Resist(el ruleset.Element) int {
	return b.resists[el.ResistKey()]
}

// SetResist overrides the resistance level against el.
func (b *Base) SetResist(el ruleset.Element, level int) { b.resists[el] = level }

// CanBleed reports whether wounds spill blood.
func (b *Base) CanBleed() bool {
	return !b.bloodless && b.holiness == ruleset.HolinessNatural
}

// Summoned reports whether the combatant is a temporary summon.
func (b *Base) Summoned() bool { return b.summoned }

// Flies reports whether the combatant is airborne.
func (b *Base) Flies() bool { return b.flies }

// Invisible reports whether the combatant is currently unseen by ordinary eyes.
func (b *Base) Invisible() bool {
	return b.invisible || b.statuses.Has(condition.Invisible)
}

// SeeInvisible reports whether the combatant perceives invisible things.
func (b *Base) SeeInvisible() bool { return b.seeInvisible }

// Warding reports whether summoned attackers must overcome a ward.
func (b *Base) Warding() bool { return b.warding }

// Weapon returns the wielded weapon or nil when fighting unarmed.
func (b *Base) Weapon() *inventory.WeaponDef { return b.weapon }

// HasStatus reports whether status id is active.
func (b *Base) HasStatus(id string) bool { return b.statuses.Has(id) }

// StatusDegree returns the stack count of status id.
func (b *Base) StatusDegree(id string) int { return b.statuses.Stacks(id) }

// StatusTurns returns the remaining turns of status id.
func (b *Base) StatusTurns(id string) int { return b.statuses.Turns(id) }

// ApplyStatus applies degree stacks of status id for turns turns.
//
// Postcondition: returns true iff the status was unknown before or its
// degree or duration grew.
func (b *Base) ApplyStatus(id string, degree, turns int, sourceID string) bool {
	def, ok := b.conditions.Get(id)
	if !ok || b.dead {
		return false
	}
	beforeStacks, beforeTurns, had := b.statuses.Stacks(id), b.statuses.Turns(id), b.statuses.Has(id)
	if err := b.statuses.Apply(def, degree, turns, sourceID); err != nil {
		return false
	}
	return !had || b.statuses.Stacks(id) > beforeStacks || b.statuses.Turns(id) > beforeTurns
}

// RemoveStatus clears status id.
func (b *Base) RemoveStatus(id string) { b.statuses.Remove(id) }

// StabTier returns the best stab opportunity the combatant's statuses offer
// an attacker; 0 means none.
func (b *Base) StabTier() int { return condition.StabTier(b.statuses) }

// Incapacitated reports whether a status stops the combatant defending itself.
func (b *Base) Incapacitated() bool { return condition.Incapacitated(b.statuses) }

// StatusToHitPenalty is the accuracy lost to active statuses.
func (b *Base) StatusToHitPenalty() int { return condition.ToHitPenalty(b.statuses) }

// Rot lowers maximum hit points by amount. Only living flesh rots.
func (b *Base) Rot(sourceID string, amount int) bool {
	if amount <= 0 || b.holiness != ruleset.HolinessNatural {
		return false
	}
	b.maxHP -= amount
	if b.maxHP < 1 {
		b.maxHP = 1
	}
	if b.hp > b.maxHP {
		b.hp = b.maxHP
	}
	return true
}

// Malmutate twists the combatant's body. Only living flesh mutates.
func (b *Base) Malmutate(sourceID string) bool {
	if b.holiness != ruleset.HolinessNatural {
		return false
	}
	b.mutations++
	return true
}

// Malmutations returns how many times the combatant was malmutated.
func (b *Base) Malmutations() int { return b.mutations }

// ExposeToElement records exposure to el. Water douses sticky flame.
func (b *Base) ExposeToElement(el ruleset.Element, strength int) {
	if strength <= 0 {
		return
	}
	b.exposures = append(b.exposures, el)
	if el == ruleset.ElementWater {
		b.statuses.Remove(condition.StickyFlame)
	}
}

// Exposures returns the elements the combatant was exposed to, in order.
func (b *Base) Exposures() []ruleset.Element { return b.exposures }

// Constrict starts constricting targetID. A combatant constricts one
// target at a time.
func (b *Base) Constrict(targetID string) bool {
	if b.constricting != "" {
		return false
	}
	b.constricting = targetID
	return true
}

// Constricting returns the ID of the constricted target, or "".
func (b *Base) Constricting() string { return b.constricting }

// ReleaseConstriction stops constricting.
func (b *Base) ReleaseConstriction() { b.constricting = "" }

// MagicPoints returns the current magic reserve.
func (b *Base) MagicPoints() int { return b.mp }

// DrainMagic removes up to n magic points and returns how many were lost.
//
// Postcondition: 0 <= result <= n.
func (b *Base) DrainMagic(n int) int {
	if n <= 0 {
		return 0
	}
	if n > b.mp {
		n = b.mp
	}
	b.mp -= n
	return n
}

// Tick advances the combatant's statuses by one turn, applying poison and
// sticky flame damage first. It returns the IDs of expired statuses.
func (b *Base) Tick() []string {
	if b.statuses.Has(condition.Poisoned) {
		b.Hurt(b.statuses.Source(condition.Poisoned), 1, ruleset.ElementPoison)
		b.statuses.Reduce(condition.Poisoned, 1)
	}
	if b.statuses.Has(condition.StickyFlame) && b.oracle != nil {
		dmg := 1 + b.oracle.Random2(3)
		if b.Resist(ruleset.ElementFire) > 0 {
			dmg /= 2
		}
		b.Hurt(b.statuses.Source(condition.StickyFlame), dmg, ruleset.ElementNapalm)
	}
	return b.statuses.Tick()
}
