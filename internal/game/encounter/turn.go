package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/ai"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// roundAuts is the length of a round in tenths of a turn.
const roundAuts = 10

// Turn is one combatant's action within a round.
type Turn struct {
	ActorID string
	// Action is one of the ai Action constants.
	Action   string
	TargetID string
	// Outcome is set for attacks only.
	Outcome *combat.AttackOutcome
	// Moved is set when an advance changed the actor's position.
	Moved bool
	To    world.Coord
	// Cost is the time the turn took in auts.
	Cost int
}

// PlayRound advances the encounter by one round. Combatants act in order of
// their next action time, ties going to spawn order, until every one has
// used up the round; statuses and clouds then age by one turn.
//
// Postcondition: Round() is incremented and the turns taken are returned in
// order. No turns are taken once the encounter is over.
func (e *Encounter) PlayRound() []Turn {
	e.round++
	end := e.round * roundAuts
	var turns []Turn
	for !e.Over() {
		next := e.nextActor(end)
		if next == nil {
			break
		}
		t := e.takeTurn(next)
		e.ready[next.ID()] += t.Cost
		turns = append(turns, t)
	}
	e.endRound()
	return turns
}

// nextActor returns the living combatant due to act earliest before end.
func (e *Encounter) nextActor(end int) combat.Combatant {
	var (
		best combat.Combatant
		at   int
	)
	for _, c := range e.Sim.Roster.Living() {
		if !e.acts(c) {
			continue
		}
		r := e.ready[c.ID()]
		if r >= end {
			continue
		}
		if best == nil || r < at {
			best, at = c, r
		}
	}
	return best
}

// acts reports whether c takes turns of its own. Neutral creatures stand by
// and spectral weapons only strike alongside their owner.
func (e *Encounter) acts(c combat.Combatant) bool {
	if ai.SideOf(c) == ai.SideNone {
		return false
	}
	if m, ok := c.(*actor.Monster); ok && m.HasFlag(ruleset.FlagSpectralWeapon) {
		return false
	}
	return true
}

func (e *Encounter) takeTurn(c combat.Combatant) Turn {
	t := Turn{ActorID: c.ID(), Action: ai.ActionWait}
	if c.Incapacitated() {
		t.Cost = baseCost(c)
		e.logger.Debug("turn lost", zap.String("actor", c.ID()))
		return t
	}

	action := e.plan(c)
	t.Action, t.TargetID = action.Action, action.Target
	target, ok := e.Sim.Roster.Get(action.Target)
	if !ok || !target.Alive() {
		t.Action, t.TargetID = ai.ActionWait, ""
	}

	switch t.Action {
	case ai.ActionAttack:
		t.Cost = e.attack(c, target, &t)
	case ai.ActionAdvance:
		t.To, t.Moved = e.step(c, target.Pos())
		t.Cost = baseCost(c)
	default:
		t.Cost = baseCost(c)
	}
	e.logger.Debug("turn",
		zap.String("actor", c.ID()),
		zap.String("action", t.Action),
		zap.String("target", t.TargetID),
		zap.Int("cost", t.Cost),
	)
	return t
}

// plan returns the first action of c's tactics plan, or a wait.
func (e *Encounter) plan(c combat.Combatant) ai.PlannedAction {
	p, ok := e.planners.PlannerFor(e.domains[c.ID()])
	if !ok {
		return ai.PlannedAction{Action: ai.ActionWait}
	}
	actions, err := p.Plan(ai.BuildWorldState(e.Sim, c))
	if err != nil || len(actions) == 0 {
		if err != nil {
			e.logger.Warn("planning failed", zap.String("actor", c.ID()), zap.Error(err))
		}
		return ai.PlannedAction{Action: ai.ActionWait}
	}
	return actions[0]
}

// attack resolves one melee action and returns the time it took.
func (e *Encounter) attack(c, target combat.Combatant, t *Turn) int {
	before := spent(c)
	out := combat.AttemptAttack(e.Sim, c, target, combat.AttackOptions{})
	t.Outcome = &out
	if cost := spent(c) - before; out.Acted && cost > 0 {
		return cost
	}
	return baseCost(c)
}

// spent returns the time c has used so far in auts.
func spent(c combat.Combatant) int {
	switch v := c.(type) {
	case *actor.Player:
		return v.TimeSpent()
	case *actor.Monster:
		return -v.Energy()
	}
	return 0
}

// baseCost is the time of a normal-speed action for c.
func baseCost(c combat.Combatant) int {
	if m, ok := c.(*actor.Monster); ok && m.Speed() > 0 {
		return m.Speed()
	}
	return roundAuts
}

// step moves c one cell closer to goal, preferring the first such cell
// clockwise from north. It reports the new position and whether c moved.
func (e *Encounter) step(c combat.Combatant, goal world.Coord) (world.Coord, bool) {
	from := c.Pos()
	bestDist := from.Distance(goal)
	best, moved := from, false
	for _, n := range e.Sim.Grid.Neighbours(from) {
		if !e.passable(c, n) {
			continue
		}
		if d := n.Distance(goal); d < bestDist {
			best, bestDist, moved = n, d, true
		}
	}
	if moved {
		c.MoveTo(best)
	}
	return best, moved
}

func (e *Encounter) passable(c combat.Combatant, at world.Coord) bool {
	g := e.Sim.Grid
	if g.IsSolid(at) {
		return false
	}
	if _, taken := e.Sim.Roster.At(at); taken {
		return false
	}
	switch g.Feature(at) {
	case world.DeepWater, world.Lava:
		return c.Flies()
	}
	return true
}

// endRound ages statuses and clouds by one turn.
func (e *Encounter) endRound() {
	for _, c := range e.Sim.Roster.Living() {
		ticker, ok := c.(interface{ Tick() []string })
		if !ok {
			continue
		}
		if expired := ticker.Tick(); len(expired) > 0 {
			e.logger.Debug("statuses expired",
				zap.String("combatant", c.ID()),
				zap.Strings("statuses", expired),
			)
		}
	}
	e.Sim.Grid.Tick()
}
