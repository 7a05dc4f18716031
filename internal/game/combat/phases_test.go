package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

func TestAttack_ShieldBlocksUntilExhausted(t *testing.T) {
	sim := newTestSim(high, zaptest.NewLogger(t))
	lines := recordNarration(sim)
	p := addPlayer(t, sim, "long_sword", centre)
	tmpl := goblinTemplate()
	tmpl.EV, tmpl.Shield = 10, 50
	g := addMonster(t, sim, "goblin", tmpl, north)

	first := newAttack(sim, p, g, 0, 0)
	first.run()

	assert.Equal(t, []Phase{PhaseAttempted, PhaseBlocked, PhaseEnd}, first.Trace())
	assert.False(t, first.DidHit)
	assert.True(t, first.PerceivedAttack)
	assert.Equal(t, 100, g.HP())
	assert.True(t, g.HasStatus(condition.ShieldBlocks))
	assert.Equal(t, []string{"The goblin blocks your attack."}, *lines)

	// Two hit dice allow one block per turn.
	second := newAttack(sim, p, g, 0, 0)
	second.run()

	assert.NotContains(t, second.Trace(), PhaseBlocked)
	assert.True(t, second.DidHit)
	assert.Equal(t, 92, g.HP())
}

func TestAttack_PhaseShiftDodge(t *testing.T) {
	sim := newTestSim(high, zaptest.NewLogger(t))
	lines := recordNarration(sim)
	p := addPlayer(t, sim, "long_sword", centre)
	tmpl := goblinTemplate()
	tmpl.EV, tmpl.PhaseShift = 10, 10
	g := addMonster(t, sim, "goblin", tmpl, north)

	a := newAttack(sim, p, g, 0, 0)
	a.run()

	assert.Equal(t, -2, a.EvasionMargin)
	assert.Equal(t, []Phase{PhaseAttempted, PhaseDodged, PhaseEnd}, a.Trace())
	assert.Equal(t, []string{"The goblin momentarily phases out as your attack passes through it."}, *lines)
	assert.Equal(t, 100, g.HP())
}

func TestAttack_Shroud(t *testing.T) {
	cases := []struct {
		name   string
		tune   func(s *Sim)
		hp     int
		hit    bool
		shroud bool
		line   string
	}{
		{
			name:   "bends the blow away",
			tune:   func(*Sim) {},
			hp:     100,
			shroud: true,
			line:   "The goblin's shroud bends your attack away!",
		},
		{
			name: "breaks",
			tune: func(s *Sim) { s.Tuning.ShroudBreakBase = 0 },
			hp:   92,
			hit:  true,
			line: "The goblin's shroud falls apart!",
		},
		{
			name:   "is bypassed",
			tune:   func(s *Sim) { s.Tuning.ShroudBypassOneIn = 1 },
			hp:     92,
			hit:    true,
			shroud: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(high, zaptest.NewLogger(t))
			tc.tune(sim)
			lines := recordNarration(sim)
			p := addPlayer(t, sim, "long_sword", centre)
			g := addMonster(t, sim, "goblin", goblinTemplate(), north)
			require.True(t, g.ApplyStatus(condition.Shroud, 1, 1, "test"))

			a := newAttack(sim, p, g, 0, 0)
			a.run()

			assert.Contains(t, a.Trace(), PhaseDamaged)
			assert.Equal(t, tc.hp, g.HP())
			assert.Equal(t, tc.hit, a.DidHit)
			assert.Equal(t, tc.shroud, g.HasStatus(condition.Shroud))
			if tc.line != "" {
				assert.Contains(t, *lines, tc.line)
			}
		})
	}
}

func TestAttack_StabIgnoresShieldAndEvasion(t *testing.T) {
	sim := newTestSim(high, zaptest.NewLogger(t))
	lines := recordNarration(sim)
	spec := testPlayerSpec("long_sword")
	spec.Dexterity = 92
	p := addPlayerSpec(t, sim, spec, centre)
	tmpl := goblinTemplate()
	tmpl.EV, tmpl.Shield = 200, 100
	g := addMonster(t, sim, "goblin", tmpl, north)
	require.True(t, g.ApplyStatus(condition.Caught, 1, 5, "net"))

	a := newAttack(sim, p, g, 0, 0)
	a.run()

	assert.True(t, a.StabAttempt)
	assert.Equal(t, 3, a.StabBonus)
	assert.Equal(t, sim.Tuning.AutomaticHit, a.EvasionMargin)
	assert.NotContains(t, a.Trace(), PhaseBlocked)
	assert.True(t, a.DidHit)
	assert.Equal(t, 92, g.HP())
	assert.Contains(t, *lines, "You catch the goblin completely off-guard!")
}

func TestAttack_WardingRepelsSummons(t *testing.T) {
	sim := newTestSim(high, zaptest.NewLogger(t))
	lines := recordNarration(sim)
	summon := goblinTemplate()
	summon.Summoned = true
	s := addMonster(t, sim, "summon", summon, centre)
	warden := goblinTemplate()
	warden.ID, warden.Name = "warden", "warden"
	warden.Flags = []ruleset.MonsterFlag{ruleset.FlagWarding}
	w := addMonster(t, sim, "warden", warden, north)

	a := newAttack(sim, s, w, 0, 0)
	res := a.run()

	assert.Equal(t, EndCombat, res)
	assert.Equal(t, []Phase{PhaseAttempted, PhaseEnd}, a.Trace())
	assert.False(t, a.DidHit)
	assert.True(t, a.PerceivedAttack)
	assert.Equal(t, w.MaxHP(), w.HP())
	assert.Equal(t, []string{"The goblin tries to attack the warden, but flinches away."}, *lines)
}

func TestAttack_BanishedDefenderIsNotKilled(t *testing.T) {
	cases := []struct {
		name     string
		banish   bool
		lines    []string
		dropped  []string
		conducts int
	}{
		{
			name:     "killed",
			lines:    []string{"You kill the dancing weapon!", "A long sword falls to the floor."},
			dropped:  []string{"long sword"},
			conducts: 1,
		},
		{name: "banished", banish: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(high, zaptest.NewLogger(t))
			lines := recordNarration(sim)
			p := addPlayer(t, sim, "long_sword", centre)
			tmpl := goblinTemplate()
			tmpl.ID, tmpl.Name, tmpl.Weapon = "dancing_weapon", "dancing weapon", "long_sword"
			tmpl.Flags = []ruleset.MonsterFlag{ruleset.FlagDancingWeapon}
			m, err := actor.NewMonster("dancer", tmpl, sim.Oracle, testGear(t), nil)
			require.NoError(t, err)
			m.MoveTo(north)
			require.NoError(t, sim.Roster.Add(m))
			if tc.banish {
				m.Banish(p.ID())
			}

			a := newAttack(sim, p, m, 0, 0)
			a.handleKilled()

			assert.Equal(t, []Phase{PhaseKilled}, a.Trace())
			assert.Equal(t, tc.lines, *lines)
			assert.Equal(t, tc.dropped, sim.Grid.ItemsAt(north))
			assert.Len(t, sim.Ledger.Conducts, tc.conducts)
			assert.Equal(t, tc.banish, m.Weapon() != nil)
		})
	}
}

func TestAttack_SpinesKillTheAttacker(t *testing.T) {
	t.Run("player on a spiny monster", func(t *testing.T) {
		sim := newTestSim(dice.Fixed(0), zaptest.NewLogger(t))
		lines := recordNarration(sim)
		p := addPlayer(t, sim, "long_sword", centre)
		p.Hurt("trap", p.HP()-1, ruleset.ElementPhysical)
		tmpl := goblinTemplate()
		tmpl.ID, tmpl.Name, tmpl.HitDice = "porcupine", "porcupine", 8
		tmpl.Flags = []ruleset.MonsterFlag{ruleset.FlagSpines}
		porcupine := addMonster(t, sim, "porcupine", tmpl, north)

		res := newAttack(sim, p, porcupine, 0, 0).run()

		assert.Equal(t, EndCombat, res)
		assert.False(t, p.Alive())
		assert.Equal(t, "porcupine", p.Killer())
		assert.Equal(t, []string{"You are struck by the porcupine's spines.", "You die..."}, *lines)
		assert.Empty(t, sim.Ledger.Conducts)
	})
	t.Run("monster on a spiny player", func(t *testing.T) {
		sim := newTestSim(dice.Fixed(0), zaptest.NewLogger(t))
		lines := recordNarration(sim)
		spec := testPlayerSpec("long_sword")
		spec.Mutations = map[ruleset.Mutation]int{ruleset.MutSpines: 3}
		p := addPlayerSpec(t, sim, spec, centre)
		g := addMonster(t, sim, "goblin", goblinTemplate(), north)
		g.Hurt("trap", g.HP()-1, ruleset.ElementPhysical)

		res := newAttack(sim, g, p, 0, 0).run()

		assert.Equal(t, EndCombat, res)
		assert.False(t, g.Alive())
		assert.Equal(t, []string{"The goblin is struck by your spines.", "You kill the goblin!"}, *lines)
		require.Len(t, sim.Ledger.Conducts, 1)
		assert.Equal(t, ConductKillLiving, sim.Ledger.Conducts[0].Conduct)
		assert.Equal(t, 60, p.HP())
	})
}

// flavouredGoblin hits for 1 through a Fixed(0) oracle.
func flavouredGoblin(f ruleset.Flavour) *npc.Template {
	tmpl := goblinTemplate()
	tmpl.Attacks = []ruleset.MonsterAttack{{Type: ruleset.AttackHit, Flavour: f, Damage: 4}}
	return tmpl
}

func TestMonsterFlavours(t *testing.T) {
	cases := []struct {
		name    string
		flavour ruleset.Flavour
		check   func(t *testing.T, p *actor.Player, lines []string)
	}{
		{"plain", ruleset.FlavourPlain, func(t *testing.T, p *actor.Player, _ []string) {
			assert.Equal(t, 60, p.MaxHP())
			assert.Equal(t, 59, p.HP())
		}},
		{"rot", ruleset.FlavourRot, func(t *testing.T, p *actor.Player, lines []string) {
			assert.Equal(t, 58, p.MaxHP())
			assert.Equal(t, 58, p.HP())
			assert.Contains(t, lines, "You feel your flesh rotting away!")
		}},
		{"poison", ruleset.FlavourPoison, func(t *testing.T, p *actor.Player, lines []string) {
			assert.True(t, p.HasStatus(condition.Poisoned))
			assert.Contains(t, lines, "The goblin poisons you!")
		}},
		{"mutate", ruleset.FlavourMutate, func(t *testing.T, p *actor.Player, _ []string) {
			assert.Equal(t, 1, p.Malmutations())
		}},
		{"confuse", ruleset.FlavourConfuse, func(t *testing.T, p *actor.Player, _ []string) {
			assert.True(t, p.HasStatus(condition.Confused))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(dice.Fixed(0), zaptest.NewLogger(t))
			sim.Tuning.ForcedRollPercent = 0
			p := addPlayer(t, sim, "long_sword", centre)
			g := addMonster(t, sim, "goblin", flavouredGoblin(tc.flavour), north)

			out := AttemptAttack(sim, g, p, AttackOptions{})

			require.True(t, out.DidHit)
			assert.Equal(t, 1, out.DamageDone)
			tc.check(t, p, texts(out.Messages))
		})
	}
}

func TestMonsterFlavours_RotNeedsDamage(t *testing.T) {
	sim := newTestSim(dice.Fixed(0), zaptest.NewLogger(t))
	sim.Tuning.ForcedRollPercent = 0
	p := addPlayer(t, sim, "long_sword", centre)
	g := addMonster(t, sim, "goblin", flavouredGoblin(ruleset.FlavourRot), north)
	// Weakness cuts the single point of damage to nothing.
	require.True(t, g.ApplyStatus(condition.Weak, 1, 10, "test"))

	for i := 0; i < 3; i++ {
		out := AttemptAttack(sim, g, p, AttackOptions{})
		assert.True(t, out.DidHit)
		assert.Equal(t, 0, out.DamageDone)
		assert.True(t, hasLine(texts(out.Messages), "The goblin hits you but does no damage"))
	}
	assert.Equal(t, 60, p.MaxHP())
	assert.Equal(t, 60, p.HP())
}

func TestMonsterFlavours_UnknownPanics(t *testing.T) {
	sim := newTestSim(dice.Fixed(0), zaptest.NewLogger(t))
	sim.Tuning.ForcedRollPercent = 0
	p := addPlayer(t, sim, "long_sword", centre)
	g := addMonster(t, sim, "goblin", flavouredGoblin(ruleset.Flavour(999)), north)

	assert.Panics(t, func() { AttemptAttack(sim, g, p, AttackOptions{}) })
}

func TestAttack_BlackMarkOdds(t *testing.T) {
	cases := []struct {
		name   string
		oneIn  int
		healed bool
	}{
		{name: "default odds miss under high rolls", oneIn: 5},
		{name: "certain", oneIn: 1, healed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(high, zaptest.NewLogger(t))
			sim.Tuning.BlackMarkOneIn = tc.oneIn
			lines := recordNarration(sim)
			spec := testPlayerSpec("long_sword")
			spec.Mutations = map[ruleset.Mutation]int{ruleset.MutBlackMark: 1}
			p := addPlayerSpec(t, sim, spec, centre)
			p.Hurt("trap", 10, ruleset.ElementPhysical)
			g := addMonster(t, sim, "goblin", goblinTemplate(), north)

			a := newAttack(sim, p, g, 0, 0)
			a.run()

			assert.Equal(t, 8, a.DamageDone)
			if tc.healed {
				assert.Contains(t, *lines, "You feel better.")
				assert.Equal(t, 57, p.HP())
			} else {
				assert.NotContains(t, *lines, "You feel better.")
				assert.Equal(t, 50, p.HP())
			}
		})
	}
}
