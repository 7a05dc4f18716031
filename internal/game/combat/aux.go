package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// auxKind is one of the player's auxiliary unarmed attacks.
type auxKind int

const (
	auxConstrict auxKind = iota
	auxKick
	auxHeadbutt
	auxPeck
	auxTailSlap
	auxPunch
	auxBite
	auxPseudopods
	auxTentacles
	auxNone
)

// auxOrder is the order the aux attacks are tried in.
var auxOrder = []auxKind{
	auxConstrict, auxKick, auxHeadbutt, auxPeck, auxTailSlap,
	auxPunch, auxBite, auxPseudopods, auxTentacles,
}

// auxSwing is the setup of one aux attack.
type auxSwing struct {
	kind   auxKind
	name   string
	verb   string
	damage int
	brand  ruleset.Brand
	noise  int
}

// playerAux runs the follow-up unarmed attacks after a player's primary hit.
// The primary swing's brand, hit flag and damage are restored when the loop
// ends; what the auxes dealt is totalled in AuxDealt.
func playerAux(a *Attack) {
	p := a.Attacker.(PlayerView)
	if a.Defender.Attitude() == ruleset.AttitudeFriendly || !a.Defender.Pos().Adjacent(a.AttackPosition) {
		return
	}
	brand, hit, done := a.Brand, a.DidHit, a.DamageDone
	defer func() { a.Brand, a.DidHit, a.DamageDone = brand, hit, done }()

	uc := auxNone
	if a.fightsWellUnarmed(p) {
		uc = a.chooseUCAttack(p)
	}
	for _, kind := range auxOrder {
		if !a.Defender.Alive() {
			return
		}
		if !a.extraAuxAttack(p, kind, kind == uc) {
			continue
		}
		swing := a.auxSetup(p, kind)
		if kind == auxConstrict && (p.Constricting() != "" || a.Defender.HasStatus(condition.Constricted)) {
			continue
		}
		a.Brand = swing.brand
		a.noiseFactor = swing.noise
		a.ToHit = a.sim.Oracle.Random2(a.auxToHit(p))
		a.handleNoise()
		if !a.auxTestHit(swing) {
			continue
		}
		if a.shieldBlocked() {
			a.DamageDone = 0
			a.say(ChannelCombat, "%s %s your %s.", capitalise(the(a.Defender)), a.Defender.ConjVerb("block"), swing.name)
			continue
		}
		if a.auxApply(p, swing) {
			return
		}
	}
}

// fightsWellUnarmed reports whether unarmed skill earns a bonus aux this
// round.
func (a *Attack) fightsWellUnarmed(p PlayerView) bool {
	o := a.sim.Oracle
	penalty := p.ArmourToHitPenalty() + p.ShieldToHitPenalty()
	return o.XChanceInY(p.Skill(ruleset.SkillUnarmedCombat)*10, 200) && o.XChanceInY(2, 1+penalty)
}

// chooseUCAttack picks the aux that unarmed skill grants: an offhand punch,
// or nothing.
func (a *Attack) chooseUCAttack(p PlayerView) auxKind {
	o := a.sim.Oracle
	tentacled := p.Species() != nil && p.Species().Tentacles
	uc := auxNone
	if o.Coinflip() {
		uc = auxPunch
	}
	if tentacled && o.Coinflip() {
		uc = auxPunch
	}
	if uc == auxPunch && !tentacled && !p.HasUsableOffhand() {
		uc = auxNone
	}
	if uc != auxNone && formForbidsAux(p, uc) {
		uc = auxNone
	}
	return uc
}

func formForbidsAux(p PlayerView, kind auxKind) bool {
	switch kind {
	case auxKick, auxPeck, auxHeadbutt, auxPunch:
		switch p.Form() {
		case ruleset.FormIceBeast, ruleset.FormDragon, ruleset.FormSpider, ruleset.FormBat:
			return true
		}
	case auxConstrict:
		return !p.Form().KeepsMutations()
	}
	return false
}

// usableMutation is the level of a body mutation the current form keeps.
func usableMutation(p PlayerView, m ruleset.Mutation) int {
	if !p.Form().KeepsMutations() {
		return 0
	}
	return p.MutationLevel(m)
}

func hasTentacles(p PlayerView) bool {
	return p.Species() != nil && p.Species().Tentacles && p.Form().KeepsMutations()
}

// extraAuxAttack decides whether the aux of kind fires this round. isUC
// marks the aux granted by unarmed skill.
func (a *Attack) extraAuxAttack(p PlayerView, kind auxKind, isUC bool) bool {
	if formForbidsAux(p, kind) {
		return false
	}
	o := a.sim.Oracle
	t := &a.sim.Tuning
	if kind == auxConstrict {
		naga := p.Species() != nil && p.Species().ID == "naga" && p.ExperienceLevel() > 12
		return isUC || naga || usableMutation(p, ruleset.MutConstrictingTail) > 0 || hasTentacles(p)
	}
	if p.Strength()+p.Dexterity() <= o.Random2(t.AuxStatRoll) {
		return false
	}
	switch kind {
	case auxKick:
		return isUC || usableMutation(p, ruleset.MutHooves) > 0 || usableMutation(p, ruleset.MutTalons) > 0 ||
			p.MutationLevel(ruleset.MutTentacleSpike) > 0
	case auxPeck:
		return (isUC || p.MutationLevel(ruleset.MutBeak) > 0) && !o.OneChanceIn(t.AuxSkipOneIn)
	case auxHeadbutt:
		return (isUC || p.MutationLevel(ruleset.MutHorns) > 0) && !o.OneChanceIn(t.AuxSkipOneIn)
	case auxTailSlap:
		return (isUC || usableMutation(p, ruleset.MutTail) > 0) && o.OneChanceIn(t.TailSlapOneIn)
	case auxPseudopods:
		return (isUC || usableMutation(p, ruleset.MutPseudopods) > 0) && !o.OneChanceIn(t.AuxSkipOneIn)
	case auxTentacles:
		return (isUC || usableMutation(p, ruleset.MutTentacles) > 0) && !o.OneChanceIn(t.AuxSkipOneIn)
	case auxBite:
		fangs := isUC || usableMutation(p, ruleset.MutFangs) > 0 || p.MutationLevel(ruleset.MutAcidicBite) > 0
		return (fangs && t.Bite.Roll(o)) || p.MutationLevel(ruleset.MutAntimagicBite) > 0
	case auxPunch:
		return isUC && !o.OneChanceIn(t.PunchSkipOneIn)
	}
	return false
}

// auxSetup fills in the names, base damage, brand and noise of an aux.
func (a *Attack) auxSetup(p PlayerView, kind auxKind) auxSwing {
	o := a.sim.Oracle
	s := auxSwing{kind: kind, noise: 100, brand: ruleset.BrandNormal}
	switch kind {
	case auxConstrict:
		s.name, s.verb, s.noise = "grab", "grab", 10
	case auxKick:
		s.name, s.verb, s.damage = "kick", "kick", 5
		switch {
		case usableMutation(p, ruleset.MutHooves) > 0:
			s.damage += p.MutationLevel(ruleset.MutHooves) * 5 / 3
		case usableMutation(p, ruleset.MutTalons) > 0:
			s.verb = "claw"
			s.damage += 1 + p.MutationLevel(ruleset.MutTalons)
		case p.MutationLevel(ruleset.MutTentacleSpike) > 0:
			s.name, s.verb = "tentacle spike", "pierce"
			s.damage += p.MutationLevel(ruleset.MutTentacleSpike)
		}
	case auxPeck:
		s.name, s.verb, s.damage, s.noise = "peck", "peck", 6, 75
	case auxHeadbutt:
		s.name, s.verb = "headbutt", "headbutt"
		s.damage = 5 + p.MutationLevel(ruleset.MutHorns)*3
	case auxTailSlap:
		s.name, s.verb, s.noise = "tail-slap", "tail-slap", 125
		if usableMutation(p, ruleset.MutTail) > 0 {
			s.damage = 6
		}
		if st := p.MutationLevel(ruleset.MutStinger); st > 0 {
			s.damage += st*2 - 1
			s.brand = ruleset.BrandVenom
		}
	case auxPunch:
		s.name, s.verb = "punch", "punch"
		s.damage = 5 + o.DivRandRound(p.Skill(ruleset.SkillUnarmedCombat), 2)
		switch {
		case p.Form() == ruleset.FormBladeHands:
			s.verb = "slash"
			s.damage += 6
			s.noise = 75
		case usableMutation(p, ruleset.MutClaws) > 0:
			s.verb = "claw"
			s.damage += o.RollDice(p.MutationLevel(ruleset.MutClaws), 3)
		case hasTentacles(p):
			s.name, s.verb, s.noise = "tentacle-slap", "tentacle-slap", 125
		}
	case auxBite:
		s.name, s.verb, s.noise = "bite", "bite", 75
		s.damage = usableMutation(p, ruleset.MutFangs) * 2
		strBite := o.DivRandRound(max(p.Strength()-10, 0), 5)
		s.damage += strBite
		if bloodFeeder(p) && a.Defender.CanBleed() && !a.Defender.Summoned() {
			h := p.Hunger()
			t := &a.sim.Tuning
			if h.Starving() || (h < ruleset.HungerSatiated && t.BiteVampirism.Roll(o)) ||
				(h >= ruleset.HungerSatiated && t.BiteVampirismSated.Roll(o)) {
				s.brand = ruleset.BrandVampirism
			}
		}
		if p.MutationLevel(ruleset.MutAntimagicBite) > 0 {
			s.damage += o.DivRandRound(2*p.ExperienceLevel(), 3) - strBite
			s.brand = ruleset.BrandAntimagic
		}
		if p.MutationLevel(ruleset.MutAcidicBite) > 0 {
			s.brand = ruleset.BrandAcid
			s.damage += o.RollDice(2, 4)
		}
	case auxPseudopods:
		s.name, s.verb, s.noise = "bludgeon", "bludgeon", 125
		s.damage = 4 * usableMutation(p, ruleset.MutPseudopods)
	case auxTentacles:
		s.name, s.verb = "squeeze", "squeeze"
		if usableMutation(p, ruleset.MutTentacles) > 0 {
			s.damage = 12
		}
	default:
		panic("combat: unknown aux attack")
	}
	return s
}

// auxToHit is the unrolled accuracy of an aux attack.
func (a *Attack) auxToHit(p PlayerView) int {
	hit := (1300 + p.Dexterity()*60 + p.Strength()*15 + p.Skill(ruleset.SkillFighting)*30) / 100
	if p.Inaccuracy() {
		hit -= 5
	}
	if lvl := p.MutationLevel(ruleset.MutEyeballs); lvl > 0 {
		hit += 2*lvl + 1
	}
	if p.Hunger().Starving() && !bloodFeeder(p) {
		hit -= 3
	}
	return hit + p.Slaying()
}

// auxTestHit rolls the aux against the defender's evasion.
func (a *Attack) auxTestHit(s auxSwing) bool {
	a.DidHit = false
	o := a.sim.Oracle
	d := a.Defender
	ev := d.Evasion(false)
	if p, ok := asPlayer(a.Attacker); ok && p.Penance() && a.ToHit >= ev && o.OneChanceIn(a.sim.Tuning.PenanceBlockOneIn) {
		a.say(ChannelGod, "Elyvilon blocks your attack.")
		return false
	}
	autoHit := o.OneChanceIn(a.sim.Tuning.AuxAutoHitOneIn)
	if a.ToHit >= ev || autoHit {
		return true
	}
	if a.ToHit >= d.Evasion(true) && canSee(a.Attacker, d) {
		a.say(ChannelCombat, "Your %s passes through %s as %s momentarily phases out.",
			s.name, the(d), d.Pronoun(ruleset.PronounSubjective))
	} else {
		a.say(ChannelCombat, "Your %s misses %s.", s.name, the(d))
	}
	return false
}

// auxDamage runs the unarmed damage pipeline on base, up to but not
// including armour.
func (a *Attack) auxDamage(p PlayerView, base int) int {
	o := a.sim.Oracle
	stat := (7*p.Strength() + 3*p.Dexterity()) / 10
	dammod := 20
	switch {
	case stat > 10:
		dammod += o.Random2(stat - 9)
	case stat < 10:
		dammod -= o.Random2(11 - stat)
	}
	dmg := base * dammod / 20
	dmg = o.Random2(dmg)
	dmg = dmg * (3000 + o.Random2(p.Skill(ruleset.SkillFighting)*100+1)) / 3000
	if p.HasStatus(condition.Berserk) || p.HasStatus(condition.Might) {
		dmg += 1 + o.Random2(10)
	}
	if p.Hunger().Starving() && !bloodFeeder(p) {
		dmg -= o.Random2(5)
	}
	dmg = applySlaying(o, dmg, p.Slaying())
	return max(a.playerFinalMultipliers(p, dmg), 0)
}

// auxApply lands an aux. It reports whether the defender died.
func (a *Attack) auxApply(p PlayerView, s auxSwing) bool {
	o := a.sim.Oracle
	d := a.Defender
	a.DidHit = true

	pre := a.auxDamage(p, s.damage)
	post := ApplyDefenderAC(o, pre, d.ArmourClass(), false)
	if s.kind == auxConstrict {
		post = 0
	}
	a.DamageDone = a.inflictDamage(post, ruleset.ElementPhysical)

	switch s.kind {
	case auxHeadbutt:
		if m, ok := asMonster(d); ok && a.DamageDone > 0 {
			m.SpendEnergy(o.BestRoll(min(a.DamageDone, 7), 1+p.MutationLevel(ruleset.MutHorns)))
		}
	case auxKick:
		if usableMutation(p, ruleset.MutHooves) > 0 && pre > post {
			extra := o.BestRoll(pre-post, p.MutationLevel(ruleset.MutHooves))
			a.DamageDone += a.inflictDamage(extra, ruleset.ElementPhysical)
		}
	case auxConstrict:
		if p.Constrict(d.ID()) {
			d.ApplyStatus(condition.Constricted, 1, 0, p.ID())
		}
	}

	a.AuxDealt += a.DamageDone

	if a.DamageDone > 0 || s.kind == auxConstrict {
		a.say(ChannelCombat, "You %s %s%s", s.verb, the(d), strengthPunctuation(a.DamageDone))
		a.auxBrand(p)
	} else if canSee(p, d) {
		a.say(ChannelCombat, "You %s %s, but do no damage.", s.verb, the(d))
	} else {
		a.say(ChannelCombat, "You %s %s.", s.verb, the(d))
	}

	if !d.Alive() {
		a.handleKilled()
		return true
	}
	return false
}

// auxBrand applies the side effect an aux brand carries.
func (a *Attack) auxBrand(p PlayerView) {
	o := a.sim.Oracle
	d := a.Defender
	switch a.Brand {
	case ruleset.BrandAcid:
		a.say(ChannelFlavour, "%s %s splashed with acid.", capitalise(the(d)), d.ConjVerb("are"))
		a.splashWithAcid(d, p, 4)
	case ruleset.BrandVenom:
		if a.sim.Tuning.AuxVenom.Roll(o) {
			d.Poison(p.ID(), 1+o.Random2(3), false)
		}
	case ruleset.BrandVampirism:
		if !a.StabAttempt || a.StabBonus <= 0 {
			brandVampirism(a)
		}
	case ruleset.BrandAntimagic:
		if a.DamageDone <= 0 || p.MutationLevel(ruleset.MutAntimagicBite) == 0 {
			return
		}
		a.antimagicAffectsDefender(a.DamageDone * 16)
		what := "power"
		if hasFlag(d, ruleset.FlagSpellcaster) {
			what = "magic"
		}
		a.say(ChannelFlavour, "You drain %s %s.", d.Pronoun(ruleset.PronounPossessive), what)
	}
}
