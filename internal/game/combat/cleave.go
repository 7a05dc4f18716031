package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/world"
)

// CollectCleaveTargets returns the combatants a cleaving swing at
// primaryCell also reaches on one side. It rotates the attack vector 45
// degrees at a time in direction dir (clockwise when positive), up to
// the configured reach, and stops at the first solid cell. Allies of the
// attacker are skipped.
//
// Precondition: sim and attacker must be non-nil.
// Postcondition: the result holds no duplicates, never the attacker or the
// occupant of primaryCell, and at most Tuning.CleaveReach entries.
func CollectCleaveTargets(sim *Sim, attacker Combatant, primaryCell world.Coord, dir int) []Combatant {
	if !attacker.Alive() {
		return nil
	}
	origin := attacker.Pos()
	vec := primaryCell.Sub(origin)
	if !origin.Adjacent(primaryCell) {
		return nil
	}
	var out []Combatant
	seen := map[string]bool{attacker.ID(): true}
	if primary, ok := sim.Roster.At(primaryCell); ok {
		seen[primary.ID()] = true
	}
	for i := 0; i < sim.Tuning.CleaveReach; i++ {
		vec = world.RotateAdjacent(vec, dir)
		cell := origin.Add(vec)
		if sim.Grid.IsSolid(cell) {
			break
		}
		target, ok := sim.Roster.At(cell)
		if !ok || seen[target.ID()] || cleaveSpares(attacker, target) {
			continue
		}
		seen[target.ID()] = true
		out = append(out, target)
	}
	return out
}

// cleaveSpares reports whether a cleave from attacker must not touch
// target.
func cleaveSpares(attacker, target Combatant) bool {
	return aligned(attacker, target) ||
		attacker.IsPlayer() && wontAttack(target) ||
		target.IsPlayer() && wontAttack(attacker)
}

// cleaveSetup strikes the targets on one side of the swing right away and
// queues the other side for End, while the primary target's cell is still
// known.
func (a *Attack) cleaveSetup() {
	if a.sim.Grid.IsSolid(a.Defender.Pos()) || a.self() || a.Attacker.Pos() == a.Defender.Pos() {
		return
	}
	dir := 1
	if a.sim.Oracle.Coinflip() {
		dir = -1
	}
	first := CollectCleaveTargets(a.sim, a.Attacker, a.Defender.Pos(), dir)
	for i, j := 0, len(first)-1; i < j; i, j = i+1, j-1 {
		first[i], first[j] = first[j], first[i]
	}
	a.strikeCleaveTargets(first)
	a.cleaveTargets = CollectCleaveTargets(a.sim, a.Attacker, a.Defender.Pos(), -dir)
}

// attackCleaveTargets strikes whatever cleaveSetup queued.
func (a *Attack) attackCleaveTargets() {
	targets := a.cleaveTargets
	a.cleaveTargets = nil
	a.strikeCleaveTargets(targets)
}

// strikeCleaveTargets runs one cleaving instance per target, in order,
// through an explicit work stack. Cleaving instances never cleave again.
func (a *Attack) strikeCleaveTargets(targets []Combatant) {
	if len(targets) == 0 {
		return
	}
	stack := make([]Combatant, 0, len(targets))
	for i := len(targets) - 1; i >= 0; i-- {
		stack = append(stack, targets[i])
	}
	effective := a.EffectiveAttackNumber
	for len(stack) > 0 {
		def := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !a.Attacker.Alive() || !def.Alive() || cleaveSpares(a.Attacker, def) {
			continue
		}
		effective++
		sub := newAttack(a.sim, a.Attacker, def, a.AttackNumber, effective)
		sub.Cleaving = true
		sub.Simu = a.Simu
		res := sub.run()
		a.sim.Logger.Debug("cleave",
			zap.String("attacker", a.Attacker.ID()),
			zap.String("target", def.ID()),
			zap.Stringer("result", res),
			zap.Bool("hit", sub.DidHit),
		)
	}
}
