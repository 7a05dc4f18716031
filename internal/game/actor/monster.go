package actor

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// Monster is a live creature spawned from an npc.Template.
type Monster struct {
	Base
	tmpl       *npc.Template
	hitDice    int
	heads      int
	energy     int
	owner      string
	phaseShift int
	mr         int
	ac         int
	ev         int
	shield     int
}

// NewMonster spawns a monster from tmpl, rolling its hit points with oracle
// and arming it from weapons when the template names a weapon.
//
// Precondition: tmpl must be validated; oracle must be non-nil.
// Postcondition: Returns a living monster with 1 <= HP <= tmpl.HitPoints.Max(),
// or an error when the template's weapon is not registered.
func NewMonster(id string, tmpl *npc.Template, oracle *dice.Oracle, weapons *inventory.Registry, conditions *condition.Registry) (*Monster, error) {
	m := &Monster{
		Base:       newBase(id, tmpl.Name, oracle, conditions),
		tmpl:       tmpl,
		hitDice:    tmpl.HitDice,
		heads:      tmpl.Heads,
		phaseShift: tmpl.PhaseShift,
		mr:         tmpl.MagicResistance,
		ac:         tmpl.AC,
		ev:         tmpl.EV,
		shield:     tmpl.Shield,
	}
	if tmpl.Weapon != "" {
		if weapons == nil {
			return nil, fmt.Errorf("monster %q wields %q but no weapon registry was supplied", tmpl.ID, tmpl.Weapon)
		}
		w := weapons.Weapon(tmpl.Weapon)
		if w == nil {
			return nil, fmt.Errorf("monster %q wields unknown weapon %q", tmpl.ID, tmpl.Weapon)
		}
		m.weapon = w
	}
	if m.mr == 0 {
		m.mr = tmpl.HitDice * 10
	}
	hp := oracle.Roll(tmpl.HitPoints).Total()
	if hp < 1 {
		hp = 1
	}
	m.hp, m.maxHP = hp, hp
	m.mp = tmpl.MagicPoints
	m.holiness = tmpl.Holiness
	for el, lvl := range tmpl.Resists {
		m.resists[el] = lvl
	}
	m.bloodless = tmpl.Bloodless
	m.flies = tmpl.Flies
	m.summoned = tmpl.Summoned
	m.invisible = tmpl.Invisible
	m.seeInvisible = tmpl.SeeInvisible
	m.warding = tmpl.HasFlag(ruleset.FlagWarding)
	return m, nil
}

// Template returns the template the monster was spawned from.
func (m *Monster) Template() *npc.Template { return m.tmpl }

// Name renders the monster's name.
func (m *Monster) Name(desc ruleset.Desc) string {
	switch desc {
	case ruleset.DescA:
		return article(m.name) + " " + m.name
	case ruleset.DescPlain:
		return m.name
	case ruleset.DescIts:
		return "the " + m.name + "'s"
	default:
		return "the " + m.name
	}
}

// ConjVerb conjugates verb for a third-person subject.
func (m *Monster) ConjVerb(verb string) string { return conjugate(verb) }

// Pronoun returns the monster's pronoun.
func (m *Monster) Pronoun(p ruleset.Pronoun) string {
	switch p {
	case ruleset.PronounPossessive:
		return "its"
	case ruleset.PronounReflexive:
		return "itself"
	default:
		return "it"
	}
}

// IsPlayer is always false for monsters.
func (m *Monster) IsPlayer() bool { return false }

// ArmourClass returns the template AC reduced by corrosion and statuses.
//
// Postcondition: result >= 0.
func (m *Monster) ArmourClass() int {
	ac := m.ac - condition.ACPenalty(m.statuses)
	if ac < 0 {
		return 0
	}
	return ac
}

// Evasion returns the monster's dodge score. Helpless monsters have none.
func (m *Monster) Evasion(ignorePhase bool) int {
	if m.Incapacitated() {
		return 0
	}
	ev := m.ev - condition.EvasionPenalty(m.statuses)
	if !ignorePhase {
		ev += m.phaseShift
	}
	if ev < 0 {
		return 0
	}
	return ev
}

// ShieldBonus returns the block value of the monster's shield, 0 if none.
func (m *Monster) ShieldBonus() int {
	if m.shield <= 0 || m.Incapacitated() {
		return 0
	}
	return m.shield
}

// ShieldBlockPenalty returns the block roll penalty of the shield.
func (m *Monster) ShieldBlockPenalty() int { return 0 }

// ShieldExhausted reports whether the monster has already blocked as often
// as it can this turn.
func (m *Monster) ShieldExhausted() bool {
	return m.statuses.Stacks(condition.ShieldBlocks) >= 1+m.hitDice/5
}

// ShieldBlocked records a successful block.
func (m *Monster) ShieldBlocked() {
	m.ApplyStatus(condition.ShieldBlocks, 1, 1, "")
}

// MagicResistance returns the monster's resistance to hostile magic.
// Lowered magic resistance halves it.
func (m *Monster) MagicResistance() int {
	if m.statuses.Has(condition.LoweredMR) {
		return m.mr / 2
	}
	return m.mr
}

// Poison poisons the monster. Poison-resistant monsters shrug it off unless
// force is set.
func (m *Monster) Poison(sourceID string, amount int, force bool) bool {
	if amount <= 0 || m.dead {
		return false
	}
	if m.Resist(ruleset.ElementPoison) > 0 && !force {
		return false
	}
	return m.ApplyStatus(condition.Poisoned, amount, amount, sourceID)
}

// DrainExp drains one hit die from a living monster. Negative energy
// resistance gives a level-in-3 chance to resist unless force is set.
func (m *Monster) DrainExp(sourceID string, force bool) bool {
	if m.holiness != ruleset.HolinessNatural {
		return false
	}
	if rn := m.Resist(ruleset.ElementNeg); rn > 0 && !force && m.oracle.XChanceInY(rn, 3) {
		return false
	}
	if m.hitDice > 1 {
		lost := m.maxHP / m.hitDice
		m.hitDice--
		m.maxHP -= lost
		if m.maxHP < 1 {
			m.maxHP = 1
		}
		if m.hp > m.maxHP {
			m.hp = m.maxHP
		}
	}
	m.ApplyStatus(condition.Drained, 1, 20, sourceID)
	return true
}

// DrainStat weakens the monster when strength is drained; monsters have no
// other stats to lose.
func (m *Monster) DrainStat(stat ruleset.Stat, amount int) bool {
	if stat != ruleset.StatStr || amount <= 0 {
		return false
	}
	return m.ApplyStatus(condition.Weak, 1, 10*amount, "")
}

// MakeHungry has no effect on monsters.
func (m *Monster) MakeHungry(amount int) bool { return false }

// HitDice returns the monster's current hit dice.
func (m *Monster) HitDice() int { return m.hitDice }

// SetHitDice overrides the monster's hit dice.
func (m *Monster) SetHitDice(n int) { m.hitDice = n }

// Attacks returns the monster's natural attack slots.
func (m *Monster) Attacks() []ruleset.MonsterAttack { return m.tmpl.Attacks }

// HasFlag reports whether the monster's template carries f.
func (m *Monster) HasFlag(f ruleset.MonsterFlag) bool { return m.tmpl.HasFlag(f) }

// Heads returns the current head count.
func (m *Monster) Heads() int { return m.heads }

// SetHeads sets the head count.
func (m *Monster) SetHeads(n int) {
	if n < 0 {
		n = 0
	}
	m.heads = n
}

// Speed returns the energy cost of a normal-speed action for the monster.
func (m *Monster) Speed() int { return m.tmpl.Speed }

// SpendEnergy deducts n energy.
func (m *Monster) SpendEnergy(n int) { m.energy -= n }

// Energy returns the accumulated energy balance.
func (m *Monster) Energy() int { return m.energy }

// GainEnergy adds n energy; the simulator calls it at the start of a turn.
func (m *Monster) GainEnergy(n int) { m.energy += n }

// Owner returns the ID of the combatant that binds this monster, or "".
func (m *Monster) Owner() string { return m.owner }

// SetOwner binds the monster to ownerID.
func (m *Monster) SetOwner(ownerID string) { m.owner = ownerID }

// Slimify turns a living monster into a friendly slime creature owned by
// ownerID.
//
// Postcondition: returns true iff the monster changed.
func (m *Monster) Slimify(ownerID string) bool {
	if m.holiness != ruleset.HolinessNatural || m.tmpl.HasFlag(ruleset.FlagSlimeImmune) || !m.Alive() {
		return false
	}
	m.name = "slime creature"
	m.attitude = ruleset.AttitudeFriendly
	m.owner = ownerID
	m.statuses.Remove(condition.Confused)
	return true
}

// DropWeapon releases the wielded weapon and returns its name.
func (m *Monster) DropWeapon() (string, bool) {
	if m.weapon == nil {
		return "", false
	}
	name := m.weapon.Name
	m.weapon = nil
	return name, true
}
