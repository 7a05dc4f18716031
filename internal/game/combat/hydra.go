package combat

import (
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// decapitateHydra tries to lop a head off a hydra defender. It reports
// whether the chop ended the attack's hit effects: the last head fell, or
// the wound was cauterised.
func (a *Attack) decapitateHydra(dmg int) bool {
	m, ok := asMonster(a.Defender)
	if !ok || !m.HasFlag(ruleset.FlagHydra) {
		return false
	}
	return a.chopHydraHead(m, dmg, a.damageType())
}

func (a *Attack) chopHydraHead(m MonsterView, dmg int, dt ruleset.DamageType) bool {
	o := a.sim.Oracle
	t := &a.sim.Tuning

	if !a.Attacker.IsPlayer() && !hasFlag(a.Attacker, ruleset.FlagSpectralWeapon) &&
		!o.OneChanceIn(t.ChopMonsterOneIn) {
		return false
	}
	if dmg <= 0 || (dt != ruleset.DamageSlicing && dt != ruleset.DamageChopping && dt != ruleset.DamageClawing) {
		return false
	}
	if dmg < t.SmallChopThreshold && a.Brand != ruleset.BrandVorpal && o.Coinflip() {
		return false
	}
	if dt == ruleset.DamageClawing && clawLevel(a.Attacker) < 3 {
		return false
	}

	verb := a.sim.pick("slice", "lop", "chop", "hack")
	if dt == ruleset.DamageClawing {
		verb = a.sim.pick("rip", "tear", "claw")
	}

	heads := m.Heads()
	if heads <= 1 {
		a.say(ChannelCombat, "%s %s %s last head off!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb(verb), possessive(m))
		m.SetHeads(0)
		if !m.Summoned() {
			a.sim.Grid.Bleed(m.Pos(), m.HP())
		}
		m.Kill(a.Attacker.ID())
		return true
	}

	a.say(ChannelCombat, "%s %s one of %s heads off!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb(verb), possessive(m))
	heads--
	m.SetHeads(heads)
	if m.Holiness() != ruleset.HolinessNatural {
		return false
	}
	if a.Brand == ruleset.BrandFlaming {
		a.say(ChannelCombat, "The flame cauterises the wound!")
		return true
	}
	limit := t.HydraHeadLimit
	if m.HasFlag(ruleset.FlagLernaean) {
		limit = t.LernaeanHeadLimit
	}
	if heads < limit-1 {
		a.say(ChannelCombat, "%s %s two more!", capitalise(the(m)), m.ConjVerb("grow"))
		m.SetHeads(heads + 2)
		m.Heal(8 + o.Random2(8))
	}
	return false
}

// clawLevel is how big the attacker's claws are. Monsters with a claw
// attack count as fully clawed.
func clawLevel(c Combatant) int {
	if p, ok := asPlayer(c); ok {
		if p.Form() == ruleset.FormDragon {
			return 3
		}
		return p.MutationLevel(ruleset.MutClaws)
	}
	if m, ok := asMonster(c); ok {
		for _, at := range m.Attacks() {
			if at.Type == ruleset.AttackClaw {
				return 3
			}
		}
	}
	return 0
}
