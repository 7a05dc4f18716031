package actor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

func goblinTemplate() *npc.Template {
	return &npc.Template{
		ID:        "goblin",
		Name:      "goblin",
		HitDice:   2,
		HitPoints: dice.MustParse("2d8"),
		AC:        1,
		EV:        9,
		Speed:     10,
		Attacks:   []ruleset.MonsterAttack{{Type: ruleset.AttackHit, Damage: 4}},
		Resists:   map[ruleset.Element]int{ruleset.ElementPoison: 1},
	}
}

func humanSpecies() map[string]*ruleset.SpeciesDef {
	return map[string]*ruleset.SpeciesDef{
		"human": {ID: "human", Name: "Human", Strength: 8, Dexterity: 8, Intellect: 8},
	}
}

func gearRegistry(t *testing.T) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(&inventory.WeaponDef{
		ID: "long_sword", Name: "long sword", Damage: 10, Delay: 14, MinDelay: 7,
		Skill: ruleset.SkillLongBlades, DamageType: ruleset.DamageSlicing,
	}))
	require.NoError(t, reg.RegisterArmour(&inventory.ArmourDef{
		ID: "leather", Name: "leather armour", Kind: inventory.KindBody, AC: 3, EvasionPenalty: 1,
	}))
	require.NoError(t, reg.RegisterArmour(&inventory.ArmourDef{
		ID: "buckler", Name: "buckler", Kind: inventory.KindShield, AC: 0, ShieldBonus: 3,
	}))
	return reg
}

func TestNewMonster_RollsHitPointsInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.NewSeededSource(seed), nil), nil, nil)
		if err != nil {
			rt.Fatalf("NewMonster: %v", err)
		}
		if m.HP() < 2 || m.HP() > 16 || m.HP() != m.MaxHP() {
			rt.Fatalf("hp %d/%d outside 2d8", m.HP(), m.MaxHP())
		}
	})
}

func TestNewMonster_UnknownWeapon(t *testing.T) {
	tmpl := goblinTemplate()
	tmpl.Weapon = "halberd"
	_, err := NewMonster("m1", tmpl, dice.NewOracle(dice.Fixed(0), nil), inventory.NewRegistry(), nil)
	assert.ErrorContains(t, err, "halberd")
}

func TestMonster_NameAndGrammar(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(3), nil), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "the goblin", m.Name(ruleset.DescThe))
	assert.Equal(t, "a goblin", m.Name(ruleset.DescA))
	assert.Equal(t, "the goblin's", m.Name(ruleset.DescIts))
	assert.Equal(t, "misses", m.ConjVerb("miss"))
	assert.Equal(t, "its", m.Pronoun(ruleset.PronounPossessive))
}

func TestConjugate(t *testing.T) {
	cases := map[string]string{
		"hit":               "hits",
		"miss":              "misses",
		"touch":             "touches",
		"parry":             "parries",
		"slay":              "slays",
		"release spores at": "releases spores at",
		"do":                "does",
		"are":               "is",
	}
	for in, want := range cases {
		assert.Equal(t, want, conjugate(in), in)
	}
}

func TestBase_HurtHealKill(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(7), nil), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 16, m.MaxHP())
	m.ApplyStatus(condition.Asleep, 1, 0, "")

	assert.Equal(t, 5, m.Hurt("p", 5, ruleset.ElementPhysical))
	assert.Equal(t, 11, m.HP())
	assert.False(t, m.HasStatus(condition.Asleep), "damage wakes")
	assert.True(t, m.Heal(100))
	assert.Equal(t, 16, m.HP())
	assert.False(t, m.Heal(1), "already at max")

	m.Hurt("p", 20, ruleset.ElementFire)
	assert.False(t, m.Alive())
	assert.Equal(t, "p", m.Killer())
	m.Kill("q")
	assert.Equal(t, "p", m.Killer(), "first killer sticks")
}

func TestMonster_PoisonRespectsResistance(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(0), nil), nil, nil)
	require.NoError(t, err)
	assert.False(t, m.Poison("p", 5, false))
	assert.True(t, m.Poison("p", 5, true))
	assert.Equal(t, 5, m.StatusDegree(condition.Poisoned))
}

func TestMonster_Slimify(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(0), nil), nil, nil)
	require.NoError(t, err)
	require.True(t, m.Slimify("p"))
	assert.Equal(t, ruleset.AttitudeFriendly, m.Attitude())
	assert.Equal(t, "p", m.Owner())
	assert.Equal(t, "the slime creature", m.Name(ruleset.DescThe))
}

func TestMonster_EvasionDropsWhenHelpless(t *testing.T) {
	tmpl := goblinTemplate()
	tmpl.PhaseShift = 4
	m, err := NewMonster("m1", tmpl, dice.NewOracle(dice.Fixed(0), nil), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 13, m.Evasion(false))
	assert.Equal(t, 9, m.Evasion(true))
	m.ApplyStatus(condition.Paralysed, 1, 3, "")
	assert.Equal(t, 0, m.Evasion(false))
}

func TestMonster_DrainExpLosesHitDie(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(7), nil), nil, nil)
	require.NoError(t, err)
	require.True(t, m.DrainExp("p", false))
	assert.Equal(t, 1, m.HitDice())
	assert.Equal(t, 8, m.MaxHP())
}

func TestNewPlayer_ResolvesGear(t *testing.T) {
	spec := &PlayerSpec{
		Name: "Ash", Species: "human", Level: 5, HP: 40, MP: 3,
		Skills: map[string]int{"long_blades": 6, "fighting": 4, "shields": 5},
		Weapon: "long_sword", Armour: []string{"leather", "buckler"},
		Items:  []string{"potion of curing"},
	}
	require.NoError(t, spec.Validate())
	p, err := NewPlayer("player", spec, humanSpecies(), gearRegistry(t), dice.NewOracle(dice.Fixed(0), nil), nil)
	require.NoError(t, err)

	assert.Equal(t, "long sword", p.Weapon().Name)
	assert.Equal(t, 3, p.ArmourClass())
	assert.Equal(t, 10+8/2-1, p.Evasion(false))
	assert.Equal(t, 3*2+5+8/5, p.ShieldBonus())
	assert.False(t, p.HasUsableOffhand())
	assert.Equal(t, 6, p.Skill(ruleset.SkillLongBlades))
	assert.Equal(t, "you", p.Name(ruleset.DescThe))
	assert.Equal(t, "miss", p.ConjVerb("miss"))

	item, ok := p.LoseItem()
	assert.True(t, ok)
	assert.Equal(t, "potion of curing", item)
	_, ok = p.LoseItem()
	assert.False(t, ok)
}

func TestNewPlayer_ReportsEveryBadReference(t *testing.T) {
	spec := &PlayerSpec{Name: "Ash", Species: "human", Level: 1, HP: 10, Weapon: "spork", Armour: []string{"cape"}}
	_, err := NewPlayer("player", spec, humanSpecies(), gearRegistry(t), dice.NewOracle(dice.Fixed(0), nil), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "spork")
	assert.ErrorContains(t, err, "cape")
}

func TestNewPlayer_UnknownSpecies(t *testing.T) {
	spec := &PlayerSpec{Name: "Ash", Species: "elf", Level: 1, HP: 10}
	_, err := NewPlayer("player", spec, humanSpecies(), nil, dice.NewOracle(dice.Fixed(0), nil), nil)
	assert.ErrorContains(t, err, "elf")
}

func TestPlayer_HungerStates(t *testing.T) {
	p, err := NewPlayer("player", &PlayerSpec{Name: "Ash", Species: "human", Level: 1, HP: 10, Nutrition: 800}, humanSpecies(), nil, dice.NewOracle(dice.Fixed(0), nil), nil)
	require.NoError(t, err)
	assert.Equal(t, ruleset.HungerNearStarving, p.Hunger())
	assert.True(t, p.MakeHungry(400))
	assert.True(t, p.Hunger().Starving())
}

func TestPlayer_SpendMagic(t *testing.T) {
	p, err := NewPlayer("player", &PlayerSpec{Name: "Ash", Species: "human", Level: 1, HP: 10, MP: 1}, humanSpecies(), nil, dice.NewOracle(dice.Fixed(0), nil), nil)
	require.NoError(t, err)
	assert.True(t, p.SpendMagic(1))
	assert.False(t, p.SpendMagic(1))
	assert.Equal(t, 0, p.DrainMagic(5))
}

func TestBase_TickPoison(t *testing.T) {
	m, err := NewMonster("m1", goblinTemplate(), dice.NewOracle(dice.Fixed(7), nil), nil, nil)
	require.NoError(t, err)
	m.Poison("p", 2, true)
	m.Tick()
	assert.Equal(t, 15, m.HP())
	assert.Equal(t, 1, m.StatusDegree(condition.Poisoned))
}

func TestLoadPlayerSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fighter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Ash
species: human
level: 3
hp: 30
skills:
  fighting: 3
mutations:
  horns: 2
`), 0o644))
	spec, err := LoadPlayerSpec(path)
	require.NoError(t, err)
	assert.Equal(t, 2, spec.Mutations[ruleset.MutHorns])

	require.NoError(t, os.WriteFile(path, []byte("name: Ash\nspecies: human\nlevel: 3\nhp: 30\ncolour: red\n"), 0o644))
	_, err = LoadPlayerSpec(path)
	assert.Error(t, err, "unknown fields are rejected")
}
