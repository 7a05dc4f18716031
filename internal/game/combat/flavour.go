package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// flavourHandler applies one monster attack flavour. hd is the attacker's
// hit dice.
type flavourHandler func(a *Attack, hd int)

var flavourHandlers map[ruleset.Flavour]flavourHandler

func init() {
	flavourHandlers = map[ruleset.Flavour]flavourHandler{
		ruleset.FlavourPlain:          func(*Attack, int) {},
		ruleset.FlavourReach:          func(*Attack, int) {},
		ruleset.FlavourMutate:         flavourMutate,
		ruleset.FlavourPoison:         flavourPoison,
		ruleset.FlavourPoisonStrong:   flavourPoison,
		ruleset.FlavourRot:            flavourRot,
		ruleset.FlavourFire:           flavourFire,
		ruleset.FlavourCold:           flavourCold,
		ruleset.FlavourElec:           flavourElec,
		ruleset.FlavourVampiric:       flavourVampiric,
		ruleset.FlavourDrainStr:       flavourDrainStat(ruleset.StatStr),
		ruleset.FlavourDrainInt:       flavourDrainStat(ruleset.StatInt),
		ruleset.FlavourDrainDex:       flavourDrainStat(ruleset.StatDex),
		ruleset.FlavourHunger:         flavourHunger,
		ruleset.FlavourBlink:          flavourBlink,
		ruleset.FlavourConfuse:        flavourConfuse,
		ruleset.FlavourDrainXP:        flavourDrainXP,
		ruleset.FlavourParalyse:       flavourParalyse,
		ruleset.FlavourAcid:           func(a *Attack, _ int) { a.splashWithAcid(a.Defender, a.Attacker, 3) },
		ruleset.FlavourDistort:        func(a *Attack, _ int) { a.distortionAffectsDefender() },
		ruleset.FlavourRage:           flavourRage,
		ruleset.FlavourStickyFlame:    flavourStickyFlame,
		ruleset.FlavourChaos:          flavourChaos,
		ruleset.FlavourSteal:          flavourSteal,
		ruleset.FlavourHoly:           flavourHoly,
		ruleset.FlavourAntimagic:      flavourAntimagic,
		ruleset.FlavourPain:           func(a *Attack, _ int) { brandPain(a) },
		ruleset.FlavourEnsnare:        flavourEnsnare,
		ruleset.FlavourCrush:          flavourCrush,
		ruleset.FlavourEngulf:         flavourEngulf,
		ruleset.FlavourPureFire:       flavourPureFire,
		ruleset.FlavourDrainSpeed:     flavourDrainSpeed,
		ruleset.FlavourVuln:           flavourVuln,
		ruleset.FlavourWeaknessPoison: flavourWeaknessPoison,
		ruleset.FlavourShadowstab:     func(a *Attack, _ int) { a.Attacker.RemoveStatus(condition.Invisible) },
		ruleset.FlavourDrown:          flavourDrown,
		ruleset.FlavourFirebrand:      flavourFirebrand,
	}
}

// monsterAttackEffects runs after a monster's blow has landed: the attack
// flavour, staff damage, decapitation and trampling.
func monsterAttackEffects(a *Attack) PhaseResult {
	if p, ok := asPlayer(a.Defender); ok {
		p.InterruptActivity()
	}
	if !a.self() && a.Defender.Alive() {
		a.applyAttackFlavour()
		a.flushSpecial(0)
		a.applyStaffDamage()
		a.flushSpecial(2)
	}

	if a.decapitateHydra(a.DamageDone) {
		if a.Defender.Alive() {
			return Continue
		}
		return EndCombat
	}
	if !a.self() && a.AttackType == ruleset.AttackTrample && a.Defender.Alive() {
		a.knockback(a.Defender)
	}
	a.clearSpecial()

	chaos := a.Brand == ruleset.BrandChaos || (a.Flavour == ruleset.FlavourChaos && !a.self())
	if chaos && a.Attacker.Alive() {
		a.chaosAffectsAttacker()
	}
	if a.Defender.Banished() || !a.Defender.Alive() || !a.Attacker.Alive() {
		return EndCombat
	}
	if a.self() && a.Weapon == nil {
		return EndCombat
	}
	return Continue
}

// applyAttackFlavour dispatches the monster's attack flavour.
//
// Precondition: every ruleset.Flavour has a handler; an unknown flavour
// panics.
func (a *Attack) applyAttackFlavour() {
	h, ok := flavourHandlers[a.Flavour]
	if !ok {
		panic(fmt.Sprintf("combat: no handler for attack flavour %v", a.Flavour))
	}
	hd := 0
	if m, ok := asMonster(a.Attacker); ok {
		hd = m.HitDice()
	}
	h(a, hd)
}

func flavourMutate(a *Attack, _ int) {
	if a.sim.Oracle.OneChanceIn(a.sim.Tuning.MutateOneIn) {
		a.Defender.Malmutate(a.Attacker.ID())
	}
}

func flavourPoison(a *Attack, hd int) {
	if a.sim.Oracle.OneChanceIn(a.sim.Tuning.PoisonOneIn) {
		a.monsterPoison(hd)
	}
}

// monsterPoison poisons the defender by the attacker's hit dice. Strong
// poison pierces a monster's resistance at half strength.
func (a *Attack) monsterPoison(hd int) bool {
	o := a.sim.Oracle
	d := a.Defender
	force := false
	var amount int
	if a.Flavour == ruleset.FlavourPoisonStrong {
		amount = o.RandomRange(hd*11/3, hd*13/2)
		if d.Resist(ruleset.ElementPoison) > 0 && !d.IsPlayer() && d.Holiness() == ruleset.HolinessNatural {
			amount /= 2
			force = true
		}
	} else {
		amount = o.RandomRange(hd*2, hd*4)
	}
	if !d.Poison(a.Attacker.ID(), amount, force) {
		return false
	}
	if a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("poison"), the(d))
		if force {
			a.say(ChannelFlavour, "%s partially %s.", capitalise(the(d)), d.ConjVerb("resist"))
		}
	}
	return true
}

func flavourRot(a *Attack, _ int) {
	o := a.sim.Oracle
	if !a.sim.Tuning.Rot.Fires(o, a.DamageDone) {
		return
	}
	d := a.Defender
	if !d.Rot(a.Attacker.ID(), 2+o.Random2(3)) {
		return
	}
	if d.IsPlayer() {
		a.SpecialDamageMessage = "You feel your flesh rotting away!"
	} else {
		a.SpecialDamageMessage = capitalise(the(d)) + " rots!"
	}
}

// flavourElemental queues the fire, cold and shock flavours.
func (a *Attack) flavourElemental(el ruleset.Element, base int, message func(dmg int) string) {
	dmg := adjustFor(a.Defender, el, base)
	a.SpecialDamage = dmg
	a.SpecialDamageElement = el
	if a.NeedsMessage && base > 0 {
		a.say(ChannelFlavour, "%s", message(dmg))
		a.resistMessage(el, base)
	}
	a.Defender.ExposeToElement(el, 2)
}

// resistMessage notes a defender shrugging off part of an elemental hit.
func (a *Attack) resistMessage(el ruleset.Element, base int) {
	if res := a.Defender.Resist(el); res > 0 && base > 0 {
		verb := "resist"
		if adjustFor(a.Defender, el, base) == 0 {
			verb = "completely resist"
		}
		a.say(ChannelFlavour, "%s %s.", capitalise(the(a.Defender)), a.Defender.ConjVerb(verb))
	} else if res < 0 {
		a.say(ChannelFlavour, "%s %s terribly!", capitalise(the(a.Defender)), a.Defender.ConjVerb("suffer"))
	}
}

func flavourFire(a *Attack, hd int) {
	base := hd + a.sim.Oracle.Random2(hd)
	a.flavourElemental(ruleset.ElementFire, base, func(dmg int) string {
		return fmt.Sprintf("%s %s engulfed in flames%s", the(a.Defender), a.Defender.ConjVerb("are"), strengthPunctuation(dmg))
	})
}

func flavourCold(a *Attack, hd int) {
	base := hd + a.sim.Oracle.Random2(2*hd)
	a.flavourElemental(ruleset.ElementCold, base, func(dmg int) string {
		return fmt.Sprintf("%s %s %s%s", the(a.Attacker), a.Attacker.ConjVerb("freeze"), the(a.Defender), strengthPunctuation(dmg))
	})
}

func flavourElec(a *Attack, hd int) {
	base := hd + a.sim.Oracle.Random2(hd/2)
	a.flavourElemental(ruleset.ElementElec, base, func(dmg int) string {
		return fmt.Sprintf("%s %s %s%s", the(a.Attacker), a.Attacker.ConjVerb("shock"), the(a.Defender), strengthPunctuation(dmg))
	})
}

func flavourVampiric(a *Attack, _ int) {
	o := a.sim.Oracle
	d := a.Defender
	if !d.CanBleed() || d.Summoned() {
		return
	}
	if o.XChanceInY(d.Resist(ruleset.ElementNeg), a.sim.Tuning.VampiricResistDenom) {
		return
	}
	if d.HP() >= d.MaxHP() {
		return
	}
	heal := 1 + o.Random2(a.DamageDone)
	// Raising maximum HP is not modelled; the draw keeps replays aligned.
	o.Coinflip()
	if a.Attacker.Heal(heal) && a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s strength from %s injuries!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("draw"), possessive(d))
	}
}

func flavourDrainStat(stat ruleset.Stat) flavourHandler {
	return func(a *Attack, _ int) {
		o := a.sim.Oracle
		if a.sim.Tuning.DrainStat.Fires(o, a.DamageDone) && a.Defender.Resist(ruleset.ElementNeg) < o.Random2(4) {
			a.Defender.DrainStat(stat, 1)
		}
	}
}

func flavourHunger(a *Attack, _ int) {
	if a.Defender.Holiness() == ruleset.HolinessUndead {
		return
	}
	if a.sim.Tuning.Hunger.Fires(a.sim.Oracle, a.DamageDone) {
		a.Defender.MakeHungry(250)
	}
}

func flavourBlink(a *Attack, _ int) {
	if a.sim.Oracle.OneChanceIn(a.sim.Tuning.BlinkOneIn) {
		a.blink(a.Attacker)
	}
}

func flavourConfuse(a *Attack, hd int) {
	o := a.sim.Oracle
	if a.AttackType == ruleset.AttackSpore {
		if m, ok := asMonster(a.Attacker); ok {
			m.SetHitDice(m.HitDice() - 1)
			if m.HitDice() <= 0 {
				m.Kill(m.ID())
			}
		}
		a.say(ChannelFlavour, "%s %s engulfed in a cloud of spores!", capitalise(the(a.Defender)), a.Defender.ConjVerb("are"))
	}
	if a.sim.Tuning.Confuse.Fires(o, a.DamageDone) {
		a.Defender.ApplyStatus(condition.Confused, 1, 1+o.Random2(3+hd), a.Attacker.ID())
	}
}

func flavourDrainXP(a *Attack, _ int) {
	if a.sim.Tuning.DrainXP.Fires(a.sim.Oracle, a.DamageDone) {
		if a.Defender.DrainExp(a.Attacker.ID(), false) && a.NeedsMessage {
			a.say(ChannelFlavour, "%s %s drained.", capitalise(the(a.Defender)), a.Defender.ConjVerb("are"))
		}
	}
}

// flavourParalyse is the wasp sting: poison, then paralysis or slowing.
func flavourParalyse(a *Attack, hd int) {
	o := a.sim.Oracle
	t := &a.sim.Tuning
	d := a.Defender
	rPois := d.Resist(ruleset.ElementPoison)
	if rPois >= 3 || (!d.IsPlayer() && rPois >= 1) {
		return
	}
	strongFlag := hasFlag(a.Attacker, ruleset.FlagStrongParalysis)
	if strongFlag || o.OneChanceIn(t.ParalysePoisonOneIn) {
		d.Poison(a.Attacker.ID(), o.RandomRange(hd*3/2, hd*5/2), false)
	}
	roll := t.ParalyseRollLow
	if a.DamageDone > t.ParalyseDamage {
		roll = t.ParalyseRollHigh
	}
	if hasFlag(a.Attacker, ruleset.FlagWeakParalysis) {
		roll += t.ParalyseWeakBonus
	}
	flat := 0
	if strongFlag {
		flat = 1
	}
	strong := o.OneChanceIn(roll)
	switch {
	case strong && rPois <= 0:
		if d.ApplyStatus(condition.Paralysed, 1, flat+o.RollDice(1, 3), a.Attacker.ID()) {
			a.say(ChannelWarning, "%s suddenly %s paralysed!", capitalise(the(d)), d.ConjVerb("are"))
		}
	case strong || rPois <= 0:
		if d.ApplyStatus(condition.Slowed, 1, flat+o.RollDice(1, 3), a.Attacker.ID()) {
			a.say(ChannelFlavour, "%s %s to slow down.", capitalise(the(d)), d.ConjVerb("seem"))
		}
	}
}

func flavourRage(a *Attack, _ int) {
	d := a.Defender
	if !a.sim.Oracle.OneChanceIn(a.sim.Tuning.RageOneIn) || d.HasStatus(condition.Berserk) {
		return
	}
	if a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("infuriate"), the(d))
	}
	d.ApplyStatus(condition.Berserk, 1, 10+a.sim.Oracle.Random2(10), a.Attacker.ID())
}

func flavourStickyFlame(a *Attack, hd int) {
	o := a.sim.Oracle
	d := a.Defender
	if d.Resist(ruleset.ElementNapalm) > 0 {
		return
	}
	if !a.sim.Tuning.StickyFlame.Fires(o, a.DamageDone) {
		return
	}
	if a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s covered in liquid flames%s", capitalise(the(d)), d.ConjVerb("are"), strengthPunctuation(a.SpecialDamage))
	}
	var stacks int
	if d.IsPlayer() {
		stacks = o.Random2Avg(7, 3) + 1
	} else {
		stacks = min(4, 1+o.Random2(hd)/2)
	}
	d.ApplyStatus(condition.StickyFlame, stacks, stacks, a.Attacker.ID())
}

// flavourChaos picks a random effect from the chaos table.
func flavourChaos(a *Attack, _ int) {
	brandChaos(a)
}

func flavourSteal(a *Attack, _ int) {
	p, ok := asPlayer(a.Defender)
	if !ok {
		return
	}
	if item, ok := p.LoseItem(); ok {
		a.say(ChannelWarning, "%s %s your %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("steal"), item)
	}
}

func flavourHoly(a *Attack, _ int) {
	if a.Defender.Holiness().HolyWrathSusceptible() {
		a.SpecialDamage = a.AttackDamage * 3 / 4
		a.SpecialDamageElement = ruleset.ElementHoly
	}
	if a.NeedsMessage && a.SpecialDamage > 0 {
		a.say(ChannelFlavour, "%s %s %s%s", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("sear"), the(a.Defender), strengthPunctuation(a.SpecialDamage))
	}
}

func flavourAntimagic(a *Attack, hd int) {
	a.antimagicAffectsDefender(hd * a.sim.Tuning.AntimagicPerHD)
}

func flavourEnsnare(a *Attack, _ int) {
	if !a.sim.Oracle.OneChanceIn(a.sim.Tuning.EnsnareOneIn) {
		return
	}
	if a.Defender.ApplyStatus(condition.Caught, 1, 5+a.sim.Oracle.Random2(5), a.Attacker.ID()) {
		a.say(ChannelFlavour, "%s %s caught in a web!", capitalise(the(a.Defender)), a.Defender.ConjVerb("are"))
	}
}

func flavourCrush(a *Attack, _ int) {
	if a.NeedsMessage {
		a.say(ChannelCombat, "%s %s %s.", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("grab"), the(a.Defender))
	}
	if a.Attacker.Constrict(a.Defender.ID()) {
		a.Defender.ApplyStatus(condition.Constricted, 1, 0, a.Attacker.ID())
	}
	if p, ok := asPlayer(a.Defender); ok {
		p.InterruptActivity()
	}
}

func flavourEngulf(a *Attack, _ int) {
	d := a.Defender
	if a.sim.Tuning.Engulf.Roll(a.sim.Oracle) && !d.HasStatus(condition.WaterHold) {
		d.ApplyStatus(condition.WaterHold, 1, 10, a.Attacker.ID())
		if a.NeedsMessage {
			a.say(ChannelCombat, "%s %s %s in water!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("engulf"), the(d))
		}
	}
	d.ExposeToElement(ruleset.ElementWater, 0)
}

func flavourPureFire(a *Attack, hd int) {
	o := a.sim.Oracle
	dmg := hd*3/2 + o.Random2(hd)
	dmg = ApplyDefenderAC(o, dmg, a.Defender.ArmourClass(), true)
	dmg = adjustFor(a.Defender, ruleset.ElementFire, dmg)
	a.SpecialDamage = dmg
	a.SpecialDamageElement = ruleset.ElementFire
	if a.NeedsMessage && dmg > 0 {
		a.say(ChannelFlavour, "%s %s %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("burn"), the(a.Defender))
		a.resistMessage(ruleset.ElementFire, dmg)
	}
	a.Defender.ExposeToElement(ruleset.ElementFire, 2)
}

func flavourDrainSpeed(a *Attack, _ int) {
	o := a.sim.Oracle
	d := a.Defender
	if !a.sim.Tuning.DrainSpeed.Roll(o) || d.Resist(ruleset.ElementNeg) != 0 {
		return
	}
	if a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s %s vigor!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("drain"), possessive(d))
	}
	a.SpecialDamage = 1 + o.Random2(a.DamageDone)/2
	d.ApplyStatus(condition.Slowed, 1, 5+o.Random2(7), a.Attacker.ID())
}

func flavourVuln(a *Attack, _ int) {
	o := a.sim.Oracle
	if !o.OneChanceIn(a.sim.Tuning.VulnOneIn) {
		return
	}
	d := a.Defender
	fresh := !d.HasStatus(condition.LoweredMR)
	d.ApplyStatus(condition.LoweredMR, 1, 20+o.Random2(20), a.Attacker.ID())
	if a.NeedsMessage && fresh {
		a.say(ChannelFlavour, "%s magical defenses are stripped away!", capitalise(possessive(d)))
	}
}

func flavourWeaknessPoison(a *Attack, hd int) {
	if a.sim.Oracle.OneChanceIn(a.sim.Tuning.WeaknessPoisonOneIn) && a.monsterPoison(hd) {
		a.Defender.ApplyStatus(condition.Weak, 1, 12, a.Attacker.ID())
	}
}

func flavourDrown(a *Attack, hd int) {
	if a.Defender.Resist(ruleset.ElementWater) > 0 {
		return
	}
	a.SpecialDamage = hd*3/4 + a.sim.Oracle.Random2(hd*3/4)
	a.SpecialDamageElement = ruleset.ElementWater
	if a.NeedsMessage {
		a.say(ChannelFlavour, "%s %s %s%s", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("drown"), the(a.Defender), strengthPunctuation(a.SpecialDamage))
	}
}

// flavourFirebrand sets the air around the defender alight, sparing allies
// of the attacker that would burn.
func flavourFirebrand(a *Attack, hd int) {
	o := a.sim.Oracle
	d := a.Defender
	base := hd + o.Random2(hd)
	a.SpecialDamage = adjustFor(d, ruleset.ElementFire, base)
	a.SpecialDamageElement = ruleset.ElementFire
	if base > 0 {
		if a.NeedsMessage {
			a.say(ChannelFlavour, "The air around %s erupts in flames!", the(d))
		}
		g := a.sim.Grid
		for _, cell := range g.Neighbours(d.Pos()) {
			if g.IsSolid(cell) {
				continue
			}
			if cl, ok := g.CloudAt(cell); ok && cl.Kind != world.FireCloud {
				continue
			}
			if c, ok := a.sim.Roster.At(cell); ok && aligned(a.Attacker, c) && c.Resist(ruleset.ElementFire) < 1 {
				continue
			}
			g.PlaceCloud(cell, world.FireCloud, 4+o.Random2(9), a.Attacker.ID())
		}
		if a.NeedsMessage {
			a.resistMessage(ruleset.ElementFire, base)
		}
	}
	d.ExposeToElement(ruleset.ElementFire, 2)
}
