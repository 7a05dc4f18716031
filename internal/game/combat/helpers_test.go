package combat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// high makes every draw land on the top of its range: dice roll their
// maximum and one-in-n chances never fire.
const high = dice.Fixed(1 << 20)

var centre = world.Coord{X: 4, Y: 4}

func newTestSim(src dice.Source, logger *zap.Logger) *Sim {
	return NewSim(dice.NewOracle(src, nil), world.NewGrid(9, 9), logger)
}

func testGear(t testing.TB) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	for _, w := range []*inventory.WeaponDef{
		{ID: "long_sword", Name: "long sword", Damage: 10, Delay: 14, MinDelay: 7,
			Skill: ruleset.SkillLongBlades, DamageType: ruleset.DamageSlicing},
		{ID: "flaming_sword", Name: "flaming long sword", Damage: 10, Delay: 14, MinDelay: 7,
			Skill: ruleset.SkillLongBlades, DamageType: ruleset.DamageSlicing, Brand: ruleset.BrandFlaming},
		{ID: "war_axe", Name: "war axe", Damage: 10, Delay: 15, MinDelay: 7,
			Skill: ruleset.SkillAxes, DamageType: ruleset.DamageChopping, Cleaves: true},
	} {
		require.NoError(t, reg.RegisterWeapon(w))
	}
	return reg
}

func testSpecies() map[string]*ruleset.SpeciesDef {
	return map[string]*ruleset.SpeciesDef{
		"human": {ID: "human", Name: "Human", Strength: 8, Dexterity: 8, Intellect: 8},
	}
}

// addPlayer places a human fighter wielding weapon ("" for unarmed) at pos.
func addPlayer(t testing.TB, sim *Sim, weapon string, pos world.Coord) *actor.Player {
	t.Helper()
	return addPlayerSpec(t, sim, testPlayerSpec(weapon), pos)
}

func testPlayerSpec(weapon string) *actor.PlayerSpec {
	return &actor.PlayerSpec{Name: "Tester", Species: "human", Level: 5, HP: 60, Weapon: weapon}
}

func addPlayerSpec(t testing.TB, sim *Sim, spec *actor.PlayerSpec, pos world.Coord) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayer("player", spec, testSpecies(), testGear(t), sim.Oracle, nil)
	require.NoError(t, err)
	p.MoveTo(pos)
	require.NoError(t, sim.Roster.Add(p))
	return p
}

func goblinTemplate() *npc.Template {
	return &npc.Template{
		ID:        "goblin",
		Name:      "goblin",
		HitDice:   2,
		HitPoints: dice.MustParse("10d10"),
		Speed:     10,
		Attacks:   []ruleset.MonsterAttack{{Type: ruleset.AttackHit, Damage: 4}},
	}
}

func hydraTemplate(heads int) *npc.Template {
	return &npc.Template{
		ID:        "hydra",
		Name:      "hydra",
		HitDice:   8,
		HitPoints: dice.MustParse("5d10"),
		Speed:     10,
		Heads:     heads,
		Flags:     []ruleset.MonsterFlag{ruleset.FlagHydra},
		Attacks:   []ruleset.MonsterAttack{{Type: ruleset.AttackBite, Damage: 6}},
	}
}

func addMonster(t testing.TB, sim *Sim, id string, tmpl *npc.Template, pos world.Coord) *actor.Monster {
	t.Helper()
	m, err := actor.NewMonster(id, tmpl, sim.Oracle, nil, nil)
	require.NoError(t, err)
	m.MoveTo(pos)
	require.NoError(t, sim.Roster.Add(m))
	return m
}

func texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

type promptFunc func(question string) bool

func (f promptFunc) Confirm(question string) bool { return f(question) }
