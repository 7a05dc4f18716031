package ai

import (
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// SideOf places c on the player's side, the monsters' side or neither.
func SideOf(c combat.Combatant) Side {
	if c.IsPlayer() {
		return SidePlayer
	}
	switch c.Attitude() {
	case ruleset.AttitudeFriendly:
		return SidePlayer
	case ruleset.AttitudeHostile:
		return SideMonsters
	}
	return SideNone
}

func snapshot(c combat.Combatant) CombatantState {
	return CombatantState{
		ID:    c.ID(),
		Name:  c.Name(ruleset.DescPlain),
		Side:  SideOf(c),
		HP:    c.HP(),
		MaxHP: c.MaxHP(),
		AC:    c.ArmourClass(),
		Pos:   c.Pos(),
		Dead:  !c.Alive(),
	}
}

// BuildWorldState constructs a WorldState snapshot of sim for self.
//
// Precondition: sim and self must not be nil.
// Postcondition: ws.Self.ID == self.ID(); every roster combatant is represented
// in spawn order.
func BuildWorldState(sim *combat.Sim, self combat.Combatant) *WorldState {
	reach := 1
	if w := self.Weapon(); w != nil && w.Reach > 1 {
		reach = w.Reach
	}
	ws := &WorldState{
		Self: &SelfState{CombatantState: snapshot(self), Reach: reach},
	}
	if sim.Grid != nil {
		ws.Arena = sim.Grid.ID
	}
	for _, c := range sim.Roster.All() {
		s := snapshot(c)
		ws.Combatants = append(ws.Combatants, &s)
	}
	return ws
}
