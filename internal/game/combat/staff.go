package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// staffSkill maps the element a staff channels to the school that powers it.
var staffSkill = map[ruleset.Element]ruleset.Skill{
	ruleset.ElementFire:     ruleset.SkillFireMagic,
	ruleset.ElementCold:     ruleset.SkillIceMagic,
	ruleset.ElementElec:     ruleset.SkillAirMagic,
	ruleset.ElementPhysical: ruleset.SkillEarthMagic,
	ruleset.ElementPoison:   ruleset.SkillPoisonMagic,
	ruleset.ElementNeg:      ruleset.SkillNecromancy,
}

// staffDamage rolls the bonus damage of a staff powered by skill s.
func (a *Attack) staffDamage(s ruleset.Skill) int {
	o := a.sim.Oracle
	evo := attackerPower(a, ruleset.SkillEvocations)
	sk := attackerPower(a, s)
	if !o.XChanceInY(evo*200+sk*100, 3000) {
		return 0
	}
	return o.Random2((sk*100 + evo*50) / 80)
}

// applyStaffDamage queues the special damage of a wielded staff.
func (a *Attack) applyStaffDamage() {
	if a.Weapon == nil || !a.Weapon.IsStaff() {
		return
	}
	el := *a.Weapon.Staff
	s, ok := staffSkill[el]
	if !ok {
		return
	}
	o := a.sim.Oracle
	d := a.Defender
	at := a.Attacker

	switch el {
	case ruleset.ElementElec:
		if dmg := adjustFor(d, el, a.staffDamage(s)); dmg > 0 {
			a.setSpecial(dmg, el, fmt.Sprintf("%s %s electrocuted!", capitalise(the(d)), d.ConjVerb("are")))
		}
	case ruleset.ElementCold, ruleset.ElementFire:
		verb := "freeze"
		if el == ruleset.ElementFire {
			verb = "burn"
		}
		if dmg := adjustFor(d, el, a.staffDamage(s)); dmg > 0 {
			a.setSpecial(dmg, el, fmt.Sprintf("%s %s %s!", capitalise(the(at)), at.ConjVerb(verb), the(d)))
		}
	case ruleset.ElementPhysical:
		if dmg := ApplyDefenderAC(o, a.staffDamage(s), d.ArmourClass(), false); dmg > 0 {
			a.setSpecial(dmg, el, fmt.Sprintf("%s %s %s!", capitalise(the(at)), at.ConjVerb("crush"), the(d)))
		}
	case ruleset.ElementPoison:
		evo := attackerPower(a, ruleset.SkillEvocations)
		sk := attackerPower(a, s)
		if o.Random2(300) >= evo*20+sk*10 {
			return
		}
		if o.Coinflip() || o.XChanceInY(sk*10, 80) {
			force := d.Holiness() == ruleset.HolinessNatural && o.XChanceInY(sk*10, 160)
			d.Poison(at.ID(), 2, force)
		}
	case ruleset.ElementNeg:
		if d.Resist(ruleset.ElementNeg) > 0 {
			return
		}
		if dmg := a.staffDamage(s); dmg > 0 {
			a.setSpecial(dmg, el, fmt.Sprintf("%s %s in agony!", capitalise(the(d)), d.ConjVerb("convulse")))
			if at.IsPlayer() {
				a.sim.conduct(ConductNecromancy, 4)
			}
		}
	}
}
