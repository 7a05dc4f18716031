package combat

import (
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

var playerStrategy = strategy{
	kind:           "player",
	toHit:          playerToHit,
	damage:         playerDamage,
	payCost:        playerPayCost,
	fumbleOneIn:    func(a *Attack) int { return a.sim.Tuning.PlayerFumbleOneIn },
	announceHit:    playerAnnounceHit,
	announceMiss:   playerAnnounceMiss,
	hitEffects:     playerHitEffects,
	damagedEffects: playerDamagedEffects,
	aux:            playerAux,
}

var monsterStrategy = strategy{
	kind:           "monster",
	toHit:          monsterToHit,
	damage:         monsterDamage,
	payCost:        monsterPayCost,
	fumbleOneIn:    func(a *Attack) int { return a.sim.Tuning.MonsterFumbleOneIn },
	announceHit:    monsterAnnounceHit,
	announceMiss:   monsterAnnounceMiss,
	hitEffects:     func(*Attack) PhaseResult { return Continue },
	damagedEffects: monsterAttackEffects,
}

func playerPayCost(a *Attack) {
	p := a.Attacker.(PlayerView)
	delay := 10
	if a.Weapon != nil {
		delay = a.Weapon.AttackDelay(p.Skill(a.Weapon.Skill))
	}
	p.SpendTime(delay)
}

// monsterPayCost charges energy once per round, on the first slot that
// really attacks.
func monsterPayCost(a *Attack) {
	m := a.Attacker.(MonsterView)
	if a.EffectiveAttackNumber != 0 || m.HasFlag(ruleset.FlagNoEnergy) {
		return
	}
	delay := 10
	if a.Weapon != nil {
		delay = a.Weapon.AttackDelay(0)
	}
	m.SpendEnergy(a.sim.Oracle.DivRandRound(m.Speed()*delay, 10))
}

func playerAnnounceHit(a *Attack) {
	if a.StabAttempt && a.StabBonus > 0 {
		a.stabMessage()
	}
	if !a.NeedsMessage {
		return
	}
	vc := a.weaponVerb(a.DamageDone)
	degree := ""
	if vc.degree != "" {
		degree = " " + vc.degree
	}
	a.say(ChannelCombat, "You %s %s%s%s", vc.verb, the(a.Defender), degree, strengthPunctuation(a.DamageDone))
}

func playerAnnounceMiss(a *Attack) {
	a.say(ChannelCombat, "You%s miss %s.", evasionAdverb(a.EvasionMargin), the(a.Defender))
}

func monsterAnnounceHit(a *Attack) {
	if !a.NeedsMessage {
		return
	}
	with := ""
	if a.Weapon != nil {
		with = " with " + a.Attacker.Pronoun(ruleset.PronounPossessive) + " " + a.Weapon.Name
	}
	a.say(ChannelCombat, "%s %s %s%s%s",
		capitalise(the(a.Attacker)), a.Attacker.ConjVerb(a.AttackType.Verb()), the(a.Defender), with, strengthPunctuation(a.DamageDone))
}

func monsterAnnounceMiss(a *Attack) {
	a.say(ChannelCombat, "%s%s %s %s.",
		capitalise(the(a.Attacker)), evasionAdverb(a.EvasionMargin), a.Attacker.ConjVerb("miss"), the(a.Defender))
}

// playerHitEffects runs the player-only effects that precede damage:
// decapitation and staff damage.
func playerHitEffects(a *Attack) PhaseResult {
	if !a.Defender.Alive() {
		return EndCombat
	}
	if a.decapitateHydra(a.DamageDone) {
		if a.Defender.Alive() {
			return Continue
		}
		return EndCombat
	}
	// Staff damage replaces any brand damage queued so far.
	a.clearSpecial()
	a.applyStaffDamage()
	dealt := a.SpecialDealt
	a.flushSpecial(2)
	if !a.Defender.Alive() {
		return EndCombat
	}

	// A club stab can stun.
	if m, ok := asMonster(a.Defender); ok && a.StabAttempt && a.StabBonus > 0 &&
		a.Weapon != nil && a.Weapon.ID == "club" && !m.HasStatus(condition.Confused) &&
		a.DamageDone+a.SpecialDealt-dealt > a.sim.Oracle.Random2(m.HitDice()) {
		if m.ApplyStatus(condition.Confused, 1, 2+a.sim.Oracle.Random2(3), a.Attacker.ID()) {
			a.say(ChannelCombat, "%s is stunned!", capitalise(the(m)))
		}
	}
	return Continue
}

func playerDamagedEffects(a *Attack) PhaseResult {
	if !a.Defender.Alive() {
		return EndCombat
	}
	return Continue
}
