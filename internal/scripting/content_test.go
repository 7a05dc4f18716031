package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/ai"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t testing.TB) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

// contentManager loads content/scripts as the global namespace and the crypt
// overrides under "crypt". Every roll returns 0.
func contentManager(t testing.TB) *scripting.Manager {
	t.Helper()
	mgr, _ := newTestManager(t)
	scripts := filepath.Join(repoRoot(t), "content", "scripts")
	require.NoError(t, mgr.LoadGlobal(scripts, 0))
	require.NoError(t, mgr.LoadNamespace("crypt", filepath.Join(scripts, "arenas", "crypt"), 0))
	mgr.Random = func(int) int { return 0 }
	return mgr
}

func TestContentScripts_DefineEveryWeaponHook(t *testing.T) {
	mgr := contentManager(t)
	root := repoRoot(t)
	gear, err := inventory.LoadRegistry(filepath.Join(root, "content", "weapons"), filepath.Join(root, "content", "armour"))
	require.NoError(t, err)

	hooks := 0
	for _, w := range gear.AllWeapons() {
		if w.Hook == "" {
			continue
		}
		hooks++
		assert.True(t, mgr.HasHook(scripting.GlobalNamespace, w.Hook), "weapon %s hook %s", w.ID, w.Hook)
	}
	assert.Positive(t, hooks)
}

func TestContentScripts_DefineEveryTacticsPrecondition(t *testing.T) {
	mgr := contentManager(t)
	domains, err := ai.LoadDomains(filepath.Join(repoRoot(t), "content", "ai"))
	require.NoError(t, err)
	require.NotEmpty(t, domains)
	for _, d := range domains {
		for _, hook := range d.Preconditions() {
			assert.True(t, mgr.HasHook(scripting.GlobalNamespace, hook), "domain %s precondition %s", d.ID, hook)
		}
	}
}

func tactic(t *testing.T, mgr *scripting.Manager, ns, hook string, hp, reachable, enemies int) lua.LValue {
	t.Helper()
	ret, err := mgr.CallHook(ns, hook, lua.LString("x"), lua.LNumber(hp), lua.LNumber(reachable), lua.LNumber(enemies))
	require.NoError(t, err)
	return ret
}

func TestTactics_Preconditions(t *testing.T) {
	mgr := contentManager(t)
	g := scripting.GlobalNamespace

	assert.Equal(t, lua.LTrue, tactic(t, mgr, g, "enemy_in_reach", 100, 1, 3))
	assert.Equal(t, lua.LFalse, tactic(t, mgr, g, "enemy_in_reach", 100, 0, 3))
	assert.Equal(t, lua.LTrue, tactic(t, mgr, g, "enemy_exists", 100, 0, 1))
	assert.Equal(t, lua.LFalse, tactic(t, mgr, g, "enemy_exists", 100, 0, 0))
	assert.Equal(t, lua.LTrue, tactic(t, mgr, g, "badly_hurt", 10, 0, 1))
	assert.Equal(t, lua.LFalse, tactic(t, mgr, g, "badly_hurt", 25, 0, 1))
}

func TestTactics_CryptNeverCowers(t *testing.T) {
	mgr := contentManager(t)
	assert.Equal(t, lua.LTrue, tactic(t, mgr, scripting.GlobalNamespace, "badly_hurt", 5, 1, 1))
	assert.Equal(t, lua.LFalse, tactic(t, mgr, "crypt", "badly_hurt", 5, 1, 1))
	// Hooks the crypt does not override fall back to the global ones.
	assert.Equal(t, lua.LTrue, tactic(t, mgr, "crypt", "enemy_in_reach", 5, 1, 1))
}

func TestProperty_Tactics_BadlyHurtBelowQuarter(t *testing.T) {
	mgr := contentManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.IntRange(0, 100).Draw(rt, "hp")
		ret, err := mgr.CallHook(scripting.GlobalNamespace, "badly_hurt",
			lua.LString("x"), lua.LNumber(hp), lua.LNumber(0), lua.LNumber(1))
		if err != nil {
			rt.Fatal(err)
		}
		if want := lua.LBool(hp < 25); ret != want {
			rt.Fatalf("badly_hurt(%d) = %v, want %v", hp, ret, want)
		}
	})
}

type hookCalls struct {
	healed   map[string]int
	damage   []string
	statuses []string
	said     []string
}

// watch records every engine call the hooks make. The attacker is at hp of
// 10 and the defender is a goblin.
func watch(mgr *scripting.Manager, hp int) *hookCalls {
	calls := &hookCalls{healed: map[string]int{}}
	mgr.GetCombatant = func(role string) *scripting.CombatantInfo {
		if role == scripting.RoleAttacker {
			return &scripting.CombatantInfo{ID: "player", Name: "you", HP: hp, MaxHP: 10, Player: true}
		}
		return &scripting.CombatantInfo{ID: "goblin-2", Name: "the goblin", HP: 8, MaxHP: 8}
	}
	mgr.Heal = func(role string, n int) bool {
		calls.healed[role] += n
		return true
	}
	mgr.ApplyDamage = func(role string, n int, el string) (int, error) {
		calls.damage = append(calls.damage, role+":"+el)
		return n, nil
	}
	mgr.ApplyStatus = func(role, id string, degree, turns int) bool {
		calls.statuses = append(calls.statuses, role+":"+id)
		return true
	}
	mgr.Say = func(msg string) { calls.said = append(calls.said, msg) }
	return calls
}

func strike(t *testing.T, mgr *scripting.Manager, hook string, damage int, hit bool) {
	t.Helper()
	_, err := mgr.CallHook(scripting.GlobalNamespace, hook, lua.LNumber(damage), lua.LBool(hit), lua.LString(hook))
	require.NoError(t, err)
}

func TestWeaponHooks_Miss_DoNothing(t *testing.T) {
	mgr := contentManager(t)
	calls := watch(mgr, 5)
	for _, hook := range []string{"vampires_tooth", "snakebite", "singing_sword", "obsidian_axe"} {
		strike(t, mgr, hook, 6, false)
	}
	assert.Empty(t, calls.healed)
	assert.Empty(t, calls.damage)
	assert.Empty(t, calls.statuses)
	assert.Empty(t, calls.said)
}

func TestWeaponHooks_VampiresTooth(t *testing.T) {
	mgr := contentManager(t)
	calls := watch(mgr, 5)
	strike(t, mgr, "vampires_tooth", 4, true)
	assert.Equal(t, map[string]int{scripting.RoleAttacker: 1}, calls.healed)
	assert.Equal(t, []string{"You feel much better."}, calls.said)

	full := contentManager(t)
	calls = watch(full, 10)
	strike(t, full, "vampires_tooth", 4, true)
	assert.Empty(t, calls.healed, "a wielder at full health drinks nothing")
}

func TestWeaponHooks_Snakebite(t *testing.T) {
	mgr := contentManager(t)
	calls := watch(mgr, 10)
	strike(t, mgr, "snakebite", 3, true)
	assert.Equal(t, []string{"defender:poison"}, calls.damage)
	assert.Equal(t, []string{"defender:slowed"}, calls.statuses)
	assert.Equal(t, []string{"the goblin is poisoned by curare!"}, calls.said)
}

func TestWeaponHooks_SingingSword(t *testing.T) {
	mgr := contentManager(t)
	calls := watch(mgr, 10)
	strike(t, mgr, "singing_sword", 7, true)
	assert.Equal(t, []string{"defender:dazed"}, calls.statuses)
	assert.Equal(t, []string{"The Singing Sword lets out a piercing shriek!"}, calls.said)
}

func TestWeaponHooks_ObsidianAxe(t *testing.T) {
	mgr := contentManager(t)
	calls := watch(mgr, 10)
	strike(t, mgr, "obsidian_axe", 5, true)
	assert.Equal(t, []string{"defender:neg", "attacker:neg"}, calls.damage)
	assert.Equal(t, []string{"The axe whispers to you, and you feel drained."}, calls.said)
}
