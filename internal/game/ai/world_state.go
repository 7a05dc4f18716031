package ai

import "github.com/cory-johannsen/melee/internal/game/world"

// Side groups combatants that fight together.
type Side int

const (
	// SideNone takes no part in the fight.
	SideNone Side = iota
	// SidePlayer is the player and its allies.
	SidePlayer
	// SideMonsters is every hostile monster.
	SideMonsters
)

// Opposes reports whether s and o are enemies.
func (s Side) Opposes(o Side) bool {
	return s != SideNone && o != SideNone && s != o
}

// CombatantState captures a combatant's planning-relevant state.
type CombatantState struct {
	ID    string
	Name  string
	Side  Side
	HP    int
	MaxHP int
	AC    int
	Pos   world.Coord
	Dead  bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// SelfState captures the planning combatant's own state.
type SelfState struct {
	CombatantState
	// Reach is the furthest distance the combatant can strike.
	Reach int
}

// WorldState is the snapshot passed to the planner for one combatant.
//
// Invariant: Self must not be nil.
type WorldState struct {
	Self       *SelfState
	Arena      string
	Combatants []*CombatantState // every combatant in spawn order, Self included
}

// Enemies returns the living combatants that oppose Self.
//
// Postcondition: returned slice contains no dead combatants and no allies.
func (ws *WorldState) Enemies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.ID != ws.Self.ID && ws.Self.Side.Opposes(c.Side) {
			out = append(out, c)
		}
	}
	return out
}

// Allies returns the living combatants on Self's side, excluding Self.
func (ws *WorldState) Allies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.ID != ws.Self.ID && c.Side == ws.Self.Side && c.Side != SideNone {
			out = append(out, c)
		}
	}
	return out
}

// Reachable returns the living enemies within Self's reach.
func (ws *WorldState) Reachable() []*CombatantState {
	reach := max(ws.Self.Reach, 1)
	var out []*CombatantState
	for _, e := range ws.Enemies() {
		if d := ws.Self.Pos.Distance(e.Pos); d >= 1 && d <= reach {
			out = append(out, e)
		}
	}
	return out
}

// nearest returns the closest of cs, ties broken by order; nil if empty.
func (ws *WorldState) nearest(cs []*CombatantState) *CombatantState {
	var best *CombatantState
	for _, c := range cs {
		if best == nil || ws.Self.Pos.Distance(c.Pos) < ws.Self.Pos.Distance(best.Pos) {
			best = c
		}
	}
	return best
}

// weakest returns the member of cs with the lowest HP percentage, ties broken
// by order; nil if empty.
func weakest(cs []*CombatantState) *CombatantState {
	var best *CombatantState
	for _, c := range cs {
		if best == nil || c.HPPercent() < best.HPPercent() {
			best = c
		}
	}
	return best
}

// NearestEnemy returns the closest living enemy, or nil.
func (ws *WorldState) NearestEnemy() *CombatantState { return ws.nearest(ws.Enemies()) }

// WeakestEnemy returns the living enemy with the lowest HP percentage, or nil.
func (ws *WorldState) WeakestEnemy() *CombatantState { return weakest(ws.Enemies()) }

// ResolveTarget maps a target token to a combatant ID.
//
// Postcondition: "nearest_enemy", "weakest_enemy", "reachable_enemy" and
// "weakest_reachable" resolve to an ID or ""; "self" resolves to Self.ID;
// "" stays ""; any other token is returned unchanged as a literal ID.
func (ws *WorldState) ResolveTarget(token string) string {
	var c *CombatantState
	switch token {
	case "":
		return ""
	case "self":
		return ws.Self.ID
	case "nearest_enemy":
		c = ws.NearestEnemy()
	case "weakest_enemy":
		c = ws.WeakestEnemy()
	case "reachable_enemy":
		c = ws.nearest(ws.Reachable())
	case "weakest_reachable":
		c = weakest(ws.Reachable())
	default:
		return token
	}
	if c == nil {
		return ""
	}
	return c.ID
}
