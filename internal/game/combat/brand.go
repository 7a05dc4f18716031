package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// brandHandler applies one weapon brand. It reports whether the defender
// left the fight (banishment) so the attack must stop.
type brandHandler func(a *Attack) bool

var brandHandlers map[ruleset.Brand]brandHandler

func init() {
	brandHandlers = map[ruleset.Brand]brandHandler{
		ruleset.BrandNormal:        func(*Attack) bool { return false },
		ruleset.BrandFlaming:       brandFlaming,
		ruleset.BrandFreezing:      brandFreezing,
		ruleset.BrandHolyWrath:     brandHolyWrath,
		ruleset.BrandElectrocution: brandElectrocution,
		ruleset.BrandVenom:         brandVenom,
		ruleset.BrandDraining:      brandDraining,
		ruleset.BrandVorpal:        brandVorpal,
		ruleset.BrandVampirism:     brandVampirism,
		ruleset.BrandPain:          brandPain,
		ruleset.BrandDistortion:    func(a *Attack) bool { return a.distortionAffectsDefender() },
		ruleset.BrandConfuse:       brandConfuse,
		ruleset.BrandChaos:         brandChaos,
		ruleset.BrandAntimagic:     brandAntimagic,
		ruleset.BrandDragonSlaying: brandDragonSlaying,
		ruleset.BrandAcid:          brandAcid,
	}
}

// applyDamageBrand runs the weapon brand after a hit and deals its special
// damage. It reports whether the attack must stop.
//
// Precondition: every ruleset.Brand has a handler; an unknown brand panics.
func (a *Attack) applyDamageBrand() bool {
	if !a.Defender.Alive() {
		return false
	}
	a.clearSpecial()
	h, ok := brandHandlers[a.Brand]
	if !ok {
		panic(fmt.Sprintf("combat: no handler for brand %v", a.Brand))
	}
	stop := h(a)
	if stop {
		a.clearSpecial()
		return true
	}
	a.flushSpecial(0)
	return !a.Defender.Alive()
}

func brandFlaming(a *Attack) bool {
	a.elementalSpecial(ruleset.ElementFire, a.sim.Oracle.Random2(a.DamageDone)/2+1, "burn")
	a.Defender.ExposeToElement(ruleset.ElementFire, 2)
	if a.Attacker.IsPlayer() {
		a.sim.conduct(ConductFire, 1)
	}
	return false
}

func brandFreezing(a *Attack) bool {
	a.elementalSpecial(ruleset.ElementCold, a.sim.Oracle.Random2(a.DamageDone)/2+1, "freeze")
	a.Defender.ExposeToElement(ruleset.ElementCold, 2)
	return false
}

func brandHolyWrath(a *Attack) bool {
	d := a.Defender
	if !d.Holiness().HolyWrathSusceptible() {
		return false
	}
	dmg := 1 + a.sim.Oracle.Random2(a.DamageDone*15)/10
	msg := ""
	if dmg > 0 {
		msg = fmt.Sprintf("%s %s%s", capitalise(the(d)), d.ConjVerb("convulse"), strengthPunctuation(dmg))
	}
	a.setSpecial(dmg, ruleset.ElementHoly, msg)
	return false
}

func brandElectrocution(a *Attack) bool {
	o := a.sim.Oracle
	d := a.Defender
	if d.Flies() || d.Resist(ruleset.ElementElec) > 0 {
		return false
	}
	if !o.OneChanceIn(a.sim.Tuning.ElectrocutionOneIn) {
		return false
	}
	a.setSpecial(8+o.Random2(13), ruleset.ElementElec, "There is a sudden explosion of sparks!")
	return false
}

func brandVenom(a *Attack) bool {
	o := a.sim.Oracle
	if o.OneChanceIn(a.sim.Tuning.VenomSkipOneIn) {
		return false
	}
	if a.Defender.Poison(a.Attacker.ID(), 1+o.Random2(a.DamageDone/2+3), false) && a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s poisoned.", capitalise(the(a.Defender)), a.Defender.ConjVerb("are"))
	}
	return false
}

func brandDraining(a *Attack) bool {
	o := a.sim.Oracle
	d := a.Defender
	if d.Holiness() != ruleset.HolinessNatural {
		return false
	}
	if !d.IsPlayer() && o.OneChanceIn(a.sim.Tuning.DrainMonsterSkipOneIn) {
		return false
	}
	if !d.DrainExp(a.Attacker.ID(), false) {
		return false
	}
	dmg := 1 + o.Random2(a.DamageDone)/(2+d.Resist(ruleset.ElementNeg))
	a.setSpecial(dmg, ruleset.ElementNeg,
		fmt.Sprintf("%s %s %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("drain"), the(d)))
	return false
}

func brandVorpal(a *Attack) bool {
	a.setSpecial(1+a.sim.Oracle.Random2(a.DamageDone)/3, ruleset.ElementPhysical, "")
	return false
}

// brandVampirism heals the attacker from the wound it just dealt.
func brandVampirism(a *Attack) bool {
	o := a.sim.Oracle
	d := a.Defender
	at := a.Attacker
	if a.DamageDone < 1 || !d.CanBleed() || d.Summoned() || at.HP() >= at.MaxHP() {
		return false
	}
	if a.sim.Tuning.VampirismFail.Roll(o) {
		return false
	}
	heal := 1 + o.Random2(a.DamageDone)
	if heal > 0 && at.Heal(heal) && a.NeedsMessage {
		if at.IsPlayer() {
			a.say(ChannelFlavour, "You feel better.")
		} else {
			a.say(ChannelFlavour, "%s %s healthier.", capitalise(the(at)), at.ConjVerb("look"))
		}
	}
	return false
}

func brandPain(a *Attack) bool {
	o := a.sim.Oracle
	d := a.Defender
	if d.Resist(ruleset.ElementNeg) > 0 || d.Holiness() != ruleset.HolinessNatural {
		return false
	}
	skill := attackerPower(a, ruleset.SkillNecromancy)
	if !o.XChanceInY(skill, a.sim.Tuning.PainSkillDenom) {
		return false
	}
	a.setSpecial(o.Random2(1+skill), ruleset.ElementNeg,
		fmt.Sprintf("%s %s in agony.", capitalise(the(d)), d.ConjVerb("writhe")))
	if a.Attacker.IsPlayer() {
		a.sim.conduct(ConductNecromancy, 4)
	}
	return false
}

// attackerPower is the attacker's skill for a brand, or its hit dice for
// monsters.
func attackerPower(a *Attack, s ruleset.Skill) int {
	if p, ok := asPlayer(a.Attacker); ok {
		return p.Skill(s)
	}
	if m, ok := asMonster(a.Attacker); ok {
		return m.HitDice()
	}
	return 0
}

// brandConfuse is the confusing touch: a magic check, then confusion.
func brandConfuse(a *Attack) bool {
	o := a.sim.Oracle
	d := a.Defender
	power := attackerPower(a, ruleset.SkillEvocations)*5 + 40
	if p, ok := asPlayer(a.Attacker); ok {
		power = p.StatusDegree(condition.ConfusingTouch)*5 + 40
		p.RemoveStatus(condition.ConfusingTouch)
		a.say(ChannelPlain, "Your hands stop glowing.")
	}
	if !d.IsPlayer() && resistsMagic(a, d.MagicResistance(), power) {
		a.say(ChannelFlavour, "%s %s.", capitalise(the(d)), d.ConjVerb("resist"))
		return false
	}
	if d.ApplyStatus(condition.Confused, 1, 1+o.Random2(3+power/20), a.Attacker.ID()) && a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s confused.", capitalise(the(d)), d.ConjVerb("look"))
	}
	return false
}

// brandChaos borrows a random brand for this hit.
func brandChaos(a *Attack) bool {
	chosen := dice.Choose(a.sim.Oracle, chaosBrands)
	a.FakeChaosAttack = true
	a.sim.stimulateXom(1)
	if a.Attacker.IsPlayer() {
		a.sim.conduct(ConductChaos, 1)
	}
	return brandHandlers[chosen](a)
}

func brandAntimagic(a *Attack) bool {
	a.antimagicAffectsDefender(a.DamageDone * a.sim.Tuning.AntimagicBrandMult)
	return false
}

func brandDragonSlaying(a *Attack) bool {
	d := a.Defender
	dragon := hasFlag(d, ruleset.FlagDragon)
	if p, ok := asPlayer(d); ok {
		dragon = p.Form() == ruleset.FormDragon
	}
	if !dragon {
		return false
	}
	a.setSpecial(1+a.sim.Oracle.Random2(3*a.DamageDone/2), ruleset.ElementPhysical,
		fmt.Sprintf("%s weapon pierces %s deeply!", capitalise(possessive(a.Attacker)), the(d)))
	return false
}

func brandAcid(a *Attack) bool {
	o := a.sim.Oracle
	a.elementalSpecial(ruleset.ElementAcid, o.Random2(a.DamageDone)/2+1, "corrode")
	if o.OneChanceIn(a.sim.Tuning.AcidCorrodeOneIn) {
		a.Defender.ApplyStatus(condition.Corroded, 1, 10+o.Random2(10), a.Attacker.ID())
	}
	return false
}
