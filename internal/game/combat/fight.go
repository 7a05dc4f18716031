package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// AttackOptions tunes one call to AttemptAttack.
type AttackOptions struct {
	// Simu runs the attack as a dry run: state changes happen but no
	// narration is produced and no spectral weapon follows up.
	Simu bool
}

// AttackOutcome summarises one melee action.
type AttackOutcome struct {
	// Acted is false when the action never happened and no time passes.
	Acted bool
	// Cancelled is set when the player declined a confirmation prompt.
	Cancelled     bool
	DidHit        bool
	DamageDone    int
	DefenderAlive bool
	// Attacks counts the attack instances that ran, cleaves excluded.
	Attacks  int
	Messages []Message
}

// AttemptAttack resolves one melee action of attacker against defender: a
// single swing for the player, the full attack round for a monster.
//
// Precondition: sim, attacker and defender must be non-nil and registered
// in sim.Roster.
// Postcondition: Messages holds every line narrated during the action, in
// order, including cleave and spectral weapon follow-ups.
func AttemptAttack(sim *Sim, attacker, defender Combatant, opts AttackOptions) AttackOutcome {
	if sim == nil || attacker == nil || defender == nil {
		panic("combat: AttemptAttack requires a sim, an attacker and a defender")
	}
	var out AttackOutcome
	release := sim.capture(&out.Messages)
	defer release()

	if p, ok := asPlayer(attacker); ok {
		fightPlayer(sim, p, defender, opts, &out)
	} else {
		m, ok := asMonster(attacker)
		if !ok {
			panic(fmt.Sprintf("combat: attacker %q is neither player nor monster", attacker.ID()))
		}
		fightMonster(sim, m, defender, opts, &out, true)
	}
	out.DefenderAlive = defender.Alive()
	sim.Logger.Debug("melee action",
		zap.String("attacker", attacker.ID()),
		zap.String("defender", defender.ID()),
		zap.Bool("acted", out.Acted),
		zap.Bool("hit", out.DidHit),
		zap.Int("damage", out.DamageDone),
		zap.Int("attacks", out.Attacks),
	)
	return out
}

func fightPlayer(sim *Sim, p PlayerView, defender Combatant, opts AttackOptions, out *AttackOutcome) {
	if hasFlag(defender, ruleset.FlagProjectile) && !p.HasStatus(condition.Confused) {
		return
	}

	a := newAttack(sim, p, defender, 0, 0)
	a.Simu = opts.Simu

	p.InterruptActivity()

	if canSee(p, defender) && !sim.wieldedWeaponCheck(p) {
		out.Cancelled = true
		return
	}

	res := a.run()
	out.Attacks++
	if res == Cancelled {
		out.Cancelled = true
		return
	}
	out.Acted = true
	out.DidHit = a.DidHit
	out.DamageDone = a.DamageDone + a.SpecialDealt + a.AuxDealt
	if res != Continue && !a.AttackOccurred {
		return
	}

	if !opts.Simu {
		triggerSpectralWeapon(sim, p, defender, out)
	}
}

// wieldedWeaponCheck asks before a player swings a weapon their species
// cannot use. A yes is remembered for the rest of the simulation.
func (s *Sim) wieldedWeaponCheck(p PlayerView) bool {
	w := p.Weapon()
	sp := p.Species()
	if w == nil || sp == nil || !sp.NoWeapons || s.weaponWarned || p.HasStatus(condition.Confused) {
		return true
	}
	if !s.confirm(fmt.Sprintf("Really attack while wielding %s?", w.Name)) {
		return false
	}
	s.weaponWarned = true
	return true
}

// fightMonster runs a monster's attack round: up to four natural attacks,
// or one per head for a hydra.
func fightMonster(sim *Sim, m MonsterView, defender Combatant, opts AttackOptions, out *AttackOutcome, followUp bool) {
	if defender.IsPlayer() {
		if wontAttack(m) && !m.HasStatus(condition.Confused) {
			return
		}
		if m.HasStatus(condition.Withdrawn) || m.HasStatus(condition.Rolling) {
			return
		}
	}

	if m.HasFlag(ruleset.FlagSpectralWeapon) && !spectralWeaponCanStrike(m, defender) {
		out.Acted = true
		return
	}

	rounds := sim.Tuning.MonsterAttacks
	if m.HasFlag(ruleset.FlagHydra) {
		rounds = m.Heads()
	}
	pos := defender.Pos()

	effective := 0
	n := 0
	for ; n < rounds && m.Alive(); n, effective = n+1, effective+1 {
		if !defender.Alive() || defender.Pos() != pos {
			if m.ID() == defender.ID() || !m.HasFlag(ruleset.FlagMultitarget) {
				break
			}
			next, ok := retarget(sim, m)
			if !ok {
				break
			}
			defender = next
			pos = next.Pos()
		}

		a := newAttack(sim, m, defender, n, effective)
		a.Simu = opts.Simu
		a.run()
		effective = a.EffectiveAttackNumber
		out.Attacks++
		out.DidHit = out.DidHit || a.DidHit
		out.DamageDone += a.DamageDone + a.SpecialDealt
	}
	out.Acted = true

	sim.Logger.Debug("monster attack round ended",
		zap.String("attacker", m.ID()),
		zap.Int("slots", n),
		zap.Int("rounds", rounds),
		zap.Bool("attacker_alive", m.Alive()),
	)

	if followUp && !opts.Simu {
		triggerSpectralWeapon(sim, m, defender, out)
	}
}

// retarget finds an adjacent hostile for a multitargeting monster whose
// defender died or moved away.
func retarget(sim *Sim, m MonsterView) (Combatant, bool) {
	for _, cell := range sim.Grid.Neighbours(m.Pos()) {
		c, ok := sim.Roster.At(cell)
		if ok && !aligned(m, c) {
			return c, true
		}
	}
	return nil, false
}

// spectralWeaponCanStrike reports whether a spectral weapon is in position
// to follow up on defender.
func spectralWeaponCanStrike(w MonsterView, defender Combatant) bool {
	return defender.Alive() && w.Pos().Adjacent(defender.Pos())
}

// triggerSpectralWeapon lets the spectral weapon bound to owner follow up
// on defender.
func triggerSpectralWeapon(sim *Sim, owner, defender Combatant, out *AttackOutcome) {
	for _, c := range sim.Roster.Living() {
		w, ok := asMonster(c)
		if !ok || !w.HasFlag(ruleset.FlagSpectralWeapon) || w.Owner() != owner.ID() {
			continue
		}
		if !spectralWeaponCanStrike(w, defender) {
			return
		}
		var follow AttackOutcome
		fightMonster(sim, w, defender, AttackOptions{}, &follow, false)
		out.DidHit = out.DidHit || follow.DidHit
		out.DamageDone += follow.DamageDone
		return
	}
}
