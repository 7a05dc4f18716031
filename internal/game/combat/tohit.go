package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// playerToHit returns the player's accuracy for the primary attack.
func playerToHit(a *Attack, random bool) int {
	p := a.Attacker.(PlayerView)
	o := a.sim.Oracle

	mhit := 15 + p.Dexterity()/2
	mhit += p.Skill(ruleset.SkillFighting)
	if a.Weapon != nil {
		mhit += p.Skill(a.Weapon.Skill)
		mhit += a.Weapon.Accuracy + a.Weapon.Enchantment
	} else {
		mhit += p.Skill(ruleset.SkillUnarmedCombat)
	}
	mhit += p.Slaying()
	if p.Inaccuracy() {
		mhit -= 5
	}
	if p.Hunger().Starving() && !bloodFeeder(p) {
		mhit -= 3
	}
	mhit -= p.ArmourToHitPenalty() + p.ShieldToHitPenalty()
	if lvl := p.MutationLevel(ruleset.MutEyeballs); lvl > 0 {
		mhit += 2*lvl + 1
	}
	mhit = o.MaybeRandom2(mhit, random)

	if a.Weapon == nil {
		if p.HasStatus(condition.ConfusingTouch) {
			mhit += o.MaybeRandom2(p.Dexterity(), random)
		}
		mhit += o.MaybeRandom2(p.Form().UnarmedToHit(), random)
	}
	return commonToHitPenalties(a, mhit)
}

// monsterToHit returns a monster's accuracy. Monster to-hit is never rolled
// here; the defender's evasion is randomised instead.
func monsterToHit(a *Attack, _ bool) int {
	m := a.Attacker.(MonsterView)
	mult := 15
	if m.HasFlag(ruleset.FlagFighter) {
		mult = 25
	}
	mhit := 18 + m.HitDice()*mult/10
	if a.Weapon != nil {
		mhit += a.Weapon.Accuracy + a.Weapon.Enchantment
	}
	return commonToHitPenalties(a, mhit)
}

func commonToHitPenalties(a *Attack, mhit int) int {
	t := &a.sim.Tuning
	if a.Attacker.HasStatus(condition.Confused) {
		mhit -= t.ConfusedToHit
	}
	mhit -= a.Attacker.StatusToHitPenalty()
	if !a.self() && !canSee(a.Attacker, a.Defender) {
		if a.Attacker.IsPlayer() {
			mhit -= t.UnseenToHit
		} else {
			mhit = mhit * 65 / 100
		}
	}
	return mhit
}

func bloodFeeder(p PlayerView) bool {
	return p.Species() != nil && p.Species().BloodFeeder
}

// testHit returns the evasion margin of toHit against ev. A small fixed
// share of attacks hit or miss regardless of the numbers.
func (a *Attack) testHit(toHit, ev int, randomiseEV bool) int {
	t := &a.sim.Tuning
	o := a.sim.Oracle
	if randomiseEV {
		ev = o.Random2Avg(2*ev, 2)
	}
	if toHit >= t.AutomaticHit {
		return t.AutomaticHit
	}
	if o.XChanceInY(t.ForcedRollPercent, 100) {
		if o.Coinflip() {
			return t.AutomaticHit
		}
		return -t.AutomaticHit
	}
	return toHit - ev
}

// shieldBlocked rolls the defender's shield against the attack.
//
// Postcondition: a defender without a shield never blocks and consumes no
// draw.
func (a *Attack) shieldBlocked() bool {
	d := a.Defender
	if a.self() || d.Incapacitated() || d.ShieldBonus() <= 0 {
		return false
	}
	con := a.sim.Oracle.Random2(a.sim.Tuning.ShieldBlockBase + a.ToHit/2 + d.ShieldBlockPenalty())
	pro := d.ShieldBonus()
	if !canSee(d, a.Attacker) {
		pro /= 3
	}
	if pro < con {
		return false
	}
	a.PerceivedAttack = true
	if hasFlag(a.Attacker, ruleset.FlagIgnoresShields) {
		if a.NeedsMessage {
			a.say(ChannelCombat, "%s attack pierces through %s shield.", capitalise(possessive(a.Attacker)), possessive(d))
		}
		return false
	}
	if d.ShieldExhausted() {
		return false
	}
	d.ShieldBlocked()
	return true
}

// stabCheck decides whether the player's attack is a stab and how strong.
func (a *Attack) stabCheck(p PlayerView) {
	if p.HasStatus(condition.Confused) {
		return
	}
	d := a.Defender
	unseen := !canSee(d, p)
	tier := d.StabTier()
	if tier == 0 && unseen {
		tier = 3
	}
	if tier == 0 {
		return
	}
	a.StabAttempt = true
	if tier > 1 {
		chance := p.Skill(a.wpnSkill)/2 + p.Skill(ruleset.SkillStealth)/2 + p.Dexterity() + 1
		outOf := 100
		if unseen {
			outOf = 90
		}
		if !a.sim.Oracle.XChanceInY(chance, outOf) {
			a.StabAttempt = false
			return
		}
	}
	a.StabBonus = tier
}

// stabMessage narrates a successful stab.
func (a *Attack) stabMessage() {
	d := a.Defender
	switch a.StabBonus {
	case 1:
		if d.HasStatus(condition.Asleep) {
			a.say(ChannelCombat, "You deliver a lethal blow to %s while %s sleeps!", the(d), d.Pronoun(ruleset.PronounSubjective))
		} else {
			a.say(ChannelCombat, "You strike %s with all your might!", the(d))
		}
	case 2, 3:
		if !canSee(d, a.Attacker) {
			a.say(ChannelCombat, "You strike %s from the shadows!", the(d))
		} else {
			a.say(ChannelCombat, "You catch %s completely off-guard!", the(d))
		}
	default:
		a.say(ChannelCombat, "You %s %s from a blind spot!", a.sim.pick("strike", "stab", "catch"), the(d))
	}
}
