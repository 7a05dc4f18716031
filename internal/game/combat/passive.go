package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Passive defences: reactions a defender gets for free when attacked.

// doSpines pricks an adjacent attacker on a spiny defender. Monsters are
// only pricked on their first real attack of a round.
func (a *Attack) doSpines() {
	if !a.Attacker.IsPlayer() && a.EffectiveAttackNumber > 0 {
		return
	}
	o := a.sim.Oracle
	if p, ok := asPlayer(a.Defender); ok {
		mut := p.MutationLevel(ruleset.MutSpines)
		if p.Form() == ruleset.FormPorcupine {
			mut = 3
		}
		if mut == 0 || !a.Attacker.Alive() || !o.XChanceInY(2, (13-mut*2)*3) {
			return
		}
		dmg := o.RollDice(2+o.DivRandRound(mut-1, 2), 5)
		hurt := ApplyDefenderAC(o, dmg, a.Attacker.ArmourClass(), false)
		if hurt <= 0 {
			return
		}
		a.say(ChannelCombat, "%s %s struck by your spines.", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("are"))
		a.hurtAttacker(p, hurt, ruleset.ElementPhysical)
		return
	}

	m, ok := asMonster(a.Defender)
	if !ok || !m.HasFlag(ruleset.FlagSpines) {
		return
	}
	degree := spineDegree(m)
	if !a.Attacker.Alive() || !o.XChanceInY(degree, 15) {
		return
	}
	hurt := ApplyDefenderAC(o, o.RollDice(degree, 4), a.Attacker.ArmourClass(), false)
	if hurt <= 0 {
		return
	}
	a.say(ChannelCombat, "%s %s struck by %s spines.",
		capitalise(the(a.Attacker)), a.Attacker.ConjVerb("are"), possessive(m))
	a.hurtAttacker(m, hurt, ruleset.ElementPhysical)
}

// hurtAttacker deals a passive defence's damage to the attacker on behalf of
// src and finishes the attacker off when the blow was fatal. It reports
// whether the attacker died.
func (a *Attack) hurtAttacker(src Combatant, amount int, el ruleset.Element) bool {
	at := a.Attacker
	if !at.Alive() {
		return false
	}
	at.Hurt(src.ID(), amount, el)
	if at.Alive() || at.Banished() {
		return false
	}
	a.finishOff(at, src)
	return true
}

// spineDegree grows with hit dice, from 1 to 5.
func spineDegree(m MonsterView) int {
	return min(max(m.HitDice()/4, 1), 5)
}

// sustainPassiveDamage burns an attacker that struck an acidic defender.
// A weapon or gloves take the splash as corrosion instead.
func (a *Attack) sustainPassiveDamage() {
	if a.self() || !a.DidHit || !hasFlag(a.Defender, ruleset.FlagAcidSplash) || !a.Attacker.Alive() {
		return
	}
	at := a.Attacker
	rA := at.Resist(ruleset.ElementAcid)
	if rA >= 3 {
		return
	}
	o := a.sim.Oracle
	strength := ResistAdjustDamage(!at.IsPlayer(), ruleset.ElementAcid, rA, 5, false)
	if a.Weapon != nil && !hasFlag(at, ruleset.FlagSpectralWeapon) {
		if o.XChanceInY(strength+1, 30) {
			at.ApplyStatus(condition.Corroded, 1, 10+o.Random2(10), a.Defender.ID())
			a.say(ChannelFlavour, "%s %s is corroded!", capitalise(possessive(at)), a.Weapon.Name)
		}
		return
	}
	if strength < 1 {
		return
	}
	if at.IsPlayer() {
		a.say(ChannelWarning, "Your hands burn!")
	} else {
		a.say(ChannelFlavour, "%s %s burned by acid!", capitalise(the(at)), at.ConjVerb("are"))
	}
	a.hurtAttacker(a.Defender, o.RollDice(1, strength), ruleset.ElementAcid)
}

// passiveFreeze chills a monster that hit a player with icy skin.
func (a *Attack) passiveFreeze(p PlayerView) {
	m, ok := asMonster(a.Attacker)
	if !ok || p.MutationLevel(ruleset.MutPassiveFreeze) == 0 || !m.Alive() || !p.Pos().Adjacent(m.Pos()) {
		return
	}
	o := a.sim.Oracle
	orig := o.Random2(11)
	hurt := adjustFor(m, ruleset.ElementCold, orig)
	if hurt <= 0 {
		return
	}
	a.say(ChannelFlavour, "%s %s very cold.", capitalise(the(m)), m.ConjVerb("are"))
	if a.hurtAttacker(p, hurt, ruleset.ElementCold) {
		return
	}
	m.ExposeToElement(ruleset.ElementCold, orig)
	if res := m.Resist(ruleset.ElementCold); res <= 0 {
		m.SpendEnergy((1 - res) * o.Random2(7))
	}
}

// foulStench sickens a monster that hit a smelly player and may leave a
// miasma cloud on it.
func (a *Attack) foulStench(p PlayerView) {
	m, ok := asMonster(a.Attacker)
	mut := p.MutationLevel(ruleset.MutFoulStench)
	if !ok || mut == 0 || !m.Alive() || !p.Pos().Adjacent(m.Pos()) {
		return
	}
	o := a.sim.Oracle
	if o.OneChanceIn(a.sim.Tuning.FoulStenchWeakOneIn) {
		m.ApplyStatus(condition.Weak, 1, 5+o.Random2(10), p.ID())
	}
	if a.DamageDone > 4 && o.XChanceInY(mut, 5) && !a.sim.Grid.IsSolid(m.Pos()) {
		if _, clouded := a.sim.Grid.CloudAt(m.Pos()); clouded {
			return
		}
		a.say(ChannelFlavour, "You emit a cloud of foul miasma!")
		a.sim.Grid.PlaceCloud(m.Pos(), world.MiasmaCloud, 5+o.Random2(6), p.ID())
	}
}

// eyeballConfusion lets the eyeballs on a mutated player daze an adjacent
// attacker.
func (a *Attack) eyeballConfusion(p PlayerView, m MonsterView) {
	level := p.MutationLevel(ruleset.MutEyeballs)
	o := a.sim.Oracle
	if level == 0 || !m.Alive() || !p.Pos().Adjacent(m.Pos()) ||
		!o.XChanceInY(level, a.sim.Tuning.EyeballDenom) {
		return
	}
	if resistsMagic(a, m.MagicResistance(), level*30) {
		return
	}
	a.say(ChannelFlavour, "The eyeballs on your body gaze at %s.", the(m))
	m.ApplyStatus(condition.Confused, 1, 3+o.Random2(10), p.ID())
}

// tendrilDisarm may rip the weapon out of an adjacent attacker's hands.
func (a *Attack) tendrilDisarm(p PlayerView, m MonsterView) {
	w := m.Weapon()
	if p.MutationLevel(ruleset.MutTendrils) == 0 || w == nil || !m.Alive() ||
		m.HasFlag(ruleset.FlagDancingWeapon) || m.HasFlag(ruleset.FlagSpectralWeapon) ||
		!p.Pos().Adjacent(m.Pos()) || !canSee(p, m) || a.sim.Grid.Feature(m.Pos()) == world.Lava ||
		!a.sim.Oracle.OneChanceIn(a.sim.Tuning.TendrilDisarmOneIn) {
		return
	}
	o := a.sim.Oracle
	hd := m.HitDice()
	if m.HasFlag(ruleset.FlagFighter) {
		hd = hd * 3 / 2
	}
	if o.Random2(p.Dexterity()) <= hd && o.Random2(p.Strength()) <= hd {
		return
	}
	name, ok := m.DropWeapon()
	if !ok {
		return
	}
	a.say(ChannelFlavour, "Your tendrils lash around %s %s and pull it to the ground!", possessive(m), w.Name)
	to := m.Pos()
	if f := a.sim.Grid.Feature(p.Pos()); f != world.DeepWater && f != world.Lava {
		to = p.Pos()
	}
	a.sim.Grid.DropItem(to, name)
}

// minotaurRetaliation headbutts an attacker that just missed a horned
// defender.
func (a *Attack) minotaurRetaliation() {
	d := a.Defender
	at := a.Attacker
	if d.Incapacitated() || d.HasStatus(condition.Confused) || !at.Alive() {
		return
	}
	o := a.sim.Oracle

	p, ok := asPlayer(d)
	if !ok {
		if !a.sim.Tuning.MinotaurRetaliate.Roll(o) {
			return
		}
		hurt := ApplyDefenderAC(o, o.Random2(21), at.ArmourClass(), false)
		a.say(ChannelCombat, "%s furiously %s!", capitalise(the(d)), d.ConjVerb("retaliate"))
		if hurt <= 0 {
			a.say(ChannelCombat, "%s %s %s, but %s no damage.",
				capitalise(the(d)), d.ConjVerb("headbutt"), the(at), d.ConjVerb("do"))
			return
		}
		a.say(ChannelCombat, "%s %s %s%s", capitalise(the(d)), d.ConjVerb("headbutt"), the(at), strengthPunctuation(hurt))
		a.hurtAttacker(d, hurt, ruleset.ElementPhysical)
		return
	}

	if !p.Form().KeepsMutations() {
		return
	}
	if 5*p.Strength()+7*p.Dexterity() <= o.Random2(600) {
		return
	}
	dmg := a.auxDamage(p, 5+p.MutationLevel(ruleset.MutHorns)*3)
	hurt := ApplyDefenderAC(o, dmg, at.ArmourClass(), false)
	a.say(ChannelCombat, "You furiously retaliate!")
	if hurt <= 0 {
		a.say(ChannelCombat, "You headbutt %s, but do no damage.", the(at))
		return
	}
	a.say(ChannelCombat, "You headbutt %s%s", the(at), strengthPunctuation(hurt))
	a.hurtAttacker(p, hurt, ruleset.ElementPhysical)
}
