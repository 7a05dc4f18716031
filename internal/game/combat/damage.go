package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// ApplyDefenderAC reduces damage by a random share of ac. Under the half-AC
// rule only half the armour counts.
//
// Postcondition: 0 <= result <= max(damage, 0).
func ApplyDefenderAC(o *dice.Oracle, damage, ac int, half bool) int {
	if damage <= 0 {
		return 0
	}
	if ac <= 0 {
		return damage
	}
	saved := o.Random2(1 + ac)
	if half {
		saved /= 2
	}
	if saved >= damage {
		return 0
	}
	return damage - saved
}

// calcDamage runs the attacker's damage pipeline. It may only run once per
// attack.
func (a *Attack) calcDamage() int {
	if a.damageCalculated {
		panic(fmt.Sprintf("combat: damage calculated twice for %s attacking %s", a.Attacker.ID(), a.Defender.ID()))
	}
	a.damageCalculated = true
	return a.strat.damage(a)
}

// playerDamage runs the player pipeline: base roll, stat, skills, misc,
// slaying, stab, final multipliers, then armour.
func playerDamage(a *Attack) int {
	p := a.Attacker.(PlayerView)
	o := a.sim.Oracle

	dmg := o.Random2(a.playerDamagePotential(p) + 1)

	stat := p.Strength()
	if a.Weapon != nil && a.Weapon.Skill == ruleset.SkillShortBlades {
		stat = p.Dexterity()
	}
	dmg = statModifyDamage(o, dmg, stat)

	if a.Weapon != nil {
		dmg = dmg * (2500 + o.Random2(p.Skill(a.Weapon.Skill)*100+1)) / 2500
	}
	dmg = dmg * (3000 + o.Random2(p.Skill(ruleset.SkillFighting)*100+1)) / 3000

	if p.HasStatus(condition.Berserk) || p.HasStatus(condition.Might) {
		dmg += 1 + o.Random2(10)
	}
	if p.Hunger().Starving() && !bloodFeeder(p) {
		dmg -= o.Random2(5)
	}

	plus := p.Slaying()
	if a.Weapon != nil {
		plus += a.Weapon.Enchantment
	}
	dmg = applySlaying(o, dmg, plus)

	if a.StabAttempt && a.StabBonus > 0 {
		dmg = a.stabDamage(p, dmg)
	}

	dmg = a.playerFinalMultipliers(p, dmg)
	if dmg < 0 {
		dmg = 0
	}
	return ApplyDefenderAC(o, dmg, a.Defender.ArmourClass(), false)
}

// playerDamagePotential is the top of the base damage roll.
func (a *Attack) playerDamagePotential(p PlayerView) int {
	if a.Weapon != nil {
		return a.Weapon.Damage
	}
	form := p.Form()
	dmg := form.BaseUnarmedDamage()
	switch form {
	case ruleset.FormNone:
		dmg += p.MutationLevel(ruleset.MutClaws) * 2
	case ruleset.FormBladeHands:
		dmg += 6
	}
	return dmg + p.Skill(ruleset.SkillUnarmedCombat)
}

// statModifyDamage scales damage by a strength or dexterity roll around 10.
func statModifyDamage(o *dice.Oracle, dmg, stat int) int {
	dammod := 39
	switch {
	case stat > 10:
		dammod += o.Random2(stat-9) * 2
	case stat < 10:
		dammod -= o.Random2(11-stat) * 3
	}
	return dmg * dammod / 39
}

func applySlaying(o *dice.Oracle, dmg, plus int) int {
	switch {
	case plus > 0:
		return dmg + o.Random2(1+plus)
	case plus < 0:
		return dmg - o.Random2(1-plus)
	}
	return dmg
}

// stabDamage scales a stab by stealth and weapon skill.
//
// Precondition: a.StabBonus > 0.
func (a *Attack) stabDamage(p PlayerView, dmg int) int {
	o := a.sim.Oracle
	stabSkill := (p.Skill(a.wpnSkill) + p.Skill(ruleset.SkillStealth)) * 50
	if a.Weapon != nil && a.Weapon.Skill == ruleset.SkillShortBlades {
		dmg += p.Dexterity() * (stabSkill + 100) / 1000
	}
	if dmg < 1 {
		dmg = 1
	}
	dmg = dmg * (10 + o.DivRandRound(stabSkill, a.StabBonus*100)) / 10
	dmg = dmg * (12 + o.DivRandRound(stabSkill, 100*a.StabBonus)) / 12
	return dmg
}

func (a *Attack) playerFinalMultipliers(p PlayerView, dmg int) int {
	o := a.sim.Oracle
	t := &a.sim.Tuning
	if a.Cleaving {
		dmg = o.DivRandRound(dmg*t.CleaveNumerator, t.CleaveDenominator)
	}
	switch p.Form() {
	case ruleset.FormStatue:
		dmg = dmg * 3 / 2
	case ruleset.FormShadow:
		dmg /= 2
	}
	if p.HasStatus(condition.Weak) {
		dmg = dmg * 3 / 4
	}
	if a.Weapon == nil && p.HasStatus(condition.ConfusingTouch) {
		dmg = 0
	}
	return dmg
}

// monsterDamage runs the monster pipeline: weapon and natural attack
// rolls, status multipliers, stab and cleave, then armour.
func monsterDamage(a *Attack) int {
	if a.Flavour == ruleset.FlavourCrush {
		return 0
	}
	m := a.Attacker.(MonsterView)
	o := a.sim.Oracle
	t := &a.sim.Tuning

	dmg := 0
	if a.Weapon != nil {
		dmg = o.Random2(a.Weapon.Damage) + a.Weapon.Enchantment
		if dmg < 0 {
			dmg = 0
		}
	}
	dmg += 1 + o.Random2(a.AttackDamage)

	switch {
	case m.HasStatus(condition.Berserk) || m.HasStatus(condition.Might):
		dmg = dmg * 3 / 2
	case m.HasStatus(condition.Frenzied):
		dmg = dmg * (115 + 15*m.StatusDegree(condition.Frenzied)) / 100
	}
	if m.HasStatus(condition.Weak) {
		dmg = dmg * 2 / 3
	}
	d := a.Defender
	if d.HasStatus(condition.Asleep) || d.HasStatus(condition.Paralysed) ||
		(a.Flavour == ruleset.FlavourShadowstab && !canSee(d, m)) {
		dmg = dmg * t.SleepStabNum / t.SleepStabDen
	}
	if a.Cleaving {
		dmg = dmg * t.CleaveNumerator / t.CleaveDenominator
	}
	return ApplyDefenderAC(o, dmg, d.ArmourClass(), m.HasFlag(ruleset.FlagIgnoresShields))
}

// damageType is the kind of wound the attack inflicts.
func (a *Attack) damageType() ruleset.DamageType {
	if a.Weapon != nil {
		return a.Weapon.DamageType
	}
	if p, ok := asPlayer(a.Attacker); ok {
		switch {
		case p.Form() == ruleset.FormBladeHands:
			return ruleset.DamageSlicing
		case p.MutationLevel(ruleset.MutClaws) > 0 && p.Form() == ruleset.FormNone,
			p.Form() == ruleset.FormDragon:
			return ruleset.DamageClawing
		}
		return ruleset.DamageCrushing
	}
	switch a.AttackType {
	case ruleset.AttackClaw:
		return ruleset.DamageClawing
	case ruleset.AttackBite, ruleset.AttackSting, ruleset.AttackGore, ruleset.AttackPeck:
		return ruleset.DamagePiercing
	}
	return ruleset.DamageCrushing
}
