package effects_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/effects"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
	"github.com/cory-johannsen/melee/internal/scripting"
)

// high makes every draw land on the top of its range.
const high = dice.Fixed(1 << 20)

const hooks = `
function leech(damage, did_hit, weapon)
	if did_hit and engine.heal("attacker", damage) then
		engine.say("You feel better.")
	end
	engine.damage("defender", 4, "fire")
	engine.apply_status("defender", "slowed", 1, 3)
end

function backlash(damage)
	local me = engine.combatant("attacker")
	engine.damage("attacker", math.floor(me.max_hp / 10), "elec")
	engine.say(me.name .. " " .. engine.random(10))
end

function bad_element()
	engine.damage("defender", 3, "plasma")
end
`

type fixture struct {
	sim    *combat.Sim
	player *actor.Player
	goblin *actor.Monster
}

func newFixture(t *testing.T, hook string, logger *zap.Logger) fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weapons.lua"), []byte(hooks), 0644))
	mgr := scripting.NewManager(logger)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadGlobal(dir, 0))

	sim := combat.NewSim(dice.NewOracle(high, nil), world.NewGrid(5, 5), logger)
	sim.Effects = effects.NewScripted(mgr, "test_arena", logger)

	gear := inventory.NewRegistry()
	require.NoError(t, gear.RegisterWeapon(&inventory.WeaponDef{
		ID: "hooked_sword", Name: "hooked sword", Damage: 10, Delay: 14, MinDelay: 7,
		Skill: ruleset.SkillLongBlades, DamageType: ruleset.DamageSlicing, Hook: hook,
	}))
	species := map[string]*ruleset.SpeciesDef{
		"human": {ID: "human", Name: "Human", Strength: 8, Dexterity: 8, Intellect: 8},
	}
	spec := &actor.PlayerSpec{Name: "Tester", Species: "human", Level: 5, HP: 60, Weapon: "hooked_sword"}
	p, err := actor.NewPlayer("player", spec, species, gear, sim.Oracle, nil)
	require.NoError(t, err)
	p.MoveTo(world.Coord{X: 2, Y: 2})
	require.NoError(t, sim.Roster.Add(p))

	g, err := actor.NewMonster("goblin", &npc.Template{
		ID: "goblin", Name: "goblin", HitDice: 2, HitPoints: dice.MustParse("10d10"), Speed: 10,
		Attacks: []ruleset.MonsterAttack{{Type: ruleset.AttackHit, Damage: 4}},
	}, sim.Oracle, gear, nil)
	require.NoError(t, err)
	g.MoveTo(world.Coord{X: 2, Y: 1})
	require.NoError(t, sim.Roster.Add(g))
	return fixture{sim: sim, player: p, goblin: g}
}

func texts(msgs []combat.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestScripted_HookRunsOnHit(t *testing.T) {
	f := newFixture(t, "leech", zaptest.NewLogger(t))
	f.player.Hurt("trap", 20, ruleset.ElementPhysical)

	out := combat.AttemptAttack(f.sim, f.player, f.goblin, combat.AttackOptions{})

	require.True(t, out.DidHit)
	assert.Equal(t, 48, f.player.HP(), "healed by the 8 damage dealt")
	// 8 physical then 4 unresisted fire.
	assert.Equal(t, 88, f.goblin.HP())
	assert.True(t, f.goblin.HasStatus(condition.Slowed))
	assert.Contains(t, texts(out.Messages), "You feel better.")
}

func TestScripted_FireRespectsResistance(t *testing.T) {
	f := newFixture(t, "leech", zaptest.NewLogger(t))
	f.goblin.SetResist(ruleset.ElementFire, 1)

	combat.AttemptAttack(f.sim, f.player, f.goblin, combat.AttackOptions{})

	assert.Equal(t, 90, f.goblin.HP())
}

func TestScripted_AttackerRoleHurtsWielder(t *testing.T) {
	f := newFixture(t, "backlash", zaptest.NewLogger(t))

	out := combat.AttemptAttack(f.sim, f.player, f.goblin, combat.AttackOptions{})

	assert.Equal(t, 54, f.player.HP())
	assert.Equal(t, 92, f.goblin.HP())
	assert.Contains(t, texts(out.Messages), "You 9")
}

func TestScripted_ScriptErrorIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := newFixture(t, "bad_element", zap.New(core))

	out := combat.AttemptAttack(f.sim, f.player, f.goblin, combat.AttackOptions{})

	assert.True(t, out.DidHit)
	assert.Equal(t, 92, f.goblin.HP())
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestScripted_UndefinedHookIsReported(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := newFixture(t, "no_such_hook", zap.New(core))

	out := combat.AttemptAttack(f.sim, f.player, f.goblin, combat.AttackOptions{})

	assert.True(t, out.DidHit)
	failed := logs.FilterMessage("melee effect failed")
	require.Equal(t, 1, failed.Len())
	assert.Equal(t, "no_such_hook", failed.All()[0].ContextMap()["hook"])
}

func TestScripted_CallbacksOutsideAHitAreInert(t *testing.T) {
	mgr := scripting.NewManager(zap.NewNop())
	defer mgr.Close()
	effects.NewScripted(mgr, "", nil)

	assert.Nil(t, mgr.GetCombatant(scripting.RoleDefender))
	assert.False(t, mgr.HasStatus(scripting.RoleDefender, condition.Slowed))
	assert.False(t, mgr.ApplyStatus(scripting.RoleDefender, condition.Slowed, 1, 1))
	dealt, err := mgr.ApplyDamage(scripting.RoleDefender, 5, "fire")
	assert.NoError(t, err)
	assert.Zero(t, dealt)
	assert.False(t, mgr.Heal(scripting.RoleAttacker, 5))
	assert.Zero(t, mgr.Random(10))
	mgr.Say("nobody hears this")
}
