package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/condition"
)

func def(t *testing.T, id string) *condition.ConditionDef {
	t.Helper()
	d, ok := condition.DefaultRegistry().Get(id)
	require.True(t, ok, "default status %q must exist", id)
	return d
}

func TestDefaults_AllValidate(t *testing.T) {
	for _, d := range condition.Defaults() {
		assert.NoError(t, d.Validate(), d.ID)
	}
}

func TestDefaultRegistry_ResolvesEngineStatuses(t *testing.T) {
	reg := condition.DefaultRegistry()
	for _, id := range []string{
		condition.Poisoned, condition.Confused, condition.Paralysed, condition.Shroud,
		condition.Berserk, condition.Frenzied, condition.Constricted, condition.ShieldBlocks,
	} {
		_, ok := reg.Get(id)
		assert.True(t, ok, id)
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	all := condition.DefaultRegistry().All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestActiveSet_PermanentIgnoresTurns(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(def(t, condition.Shroud), 1, 5, ""))
	assert.Equal(t, -1, s.Turns(condition.Shroud))
	assert.Empty(t, s.Tick())
	assert.True(t, s.Has(condition.Shroud))
}

func TestActiveSet_StacksCappedAndDurationExtended(t *testing.T) {
	s := condition.NewActiveSet()
	frenzy := def(t, condition.Frenzied)
	require.NoError(t, s.Apply(frenzy, 2, 3, "a"))
	require.NoError(t, s.Apply(frenzy, 2, 1, "b"))
	assert.Equal(t, 3, s.Stacks(condition.Frenzied))
	assert.Equal(t, 3, s.Turns(condition.Frenzied))
	assert.Equal(t, "b", s.Source(condition.Frenzied))
}

func TestActiveSet_UnstackableStaysAtOne(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(def(t, condition.Confused), 4, 2, ""))
	require.NoError(t, s.Apply(def(t, condition.Confused), 4, 6, ""))
	assert.Equal(t, 1, s.Stacks(condition.Confused))
	assert.Equal(t, 6, s.Turns(condition.Confused))
}

func TestActiveSet_ApplyNilDef(t *testing.T) {
	assert.Error(t, condition.NewActiveSet().Apply(nil, 1, 1, ""))
}

func TestActiveSet_TickExpires(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(def(t, condition.Slowed), 1, 2, ""))
	assert.Empty(t, s.Tick())
	assert.Equal(t, []string{condition.Slowed}, s.Tick())
	assert.False(t, s.Has(condition.Slowed))
}

func TestActiveSet_Reduce(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(def(t, condition.Poisoned), 10, 5, ""))
	s.Reduce(condition.Poisoned, 4)
	assert.Equal(t, 6, s.Stacks(condition.Poisoned))
	s.Reduce(condition.Poisoned, 10)
	assert.False(t, s.Has(condition.Poisoned))
	s.Reduce("absent", 1)
}

func TestActiveSet_TickNeverLeavesExpired(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := condition.NewActiveSet()
		turns := rapid.IntRange(1, 10).Draw(rt, "turns")
		require.NoError(rt, s.Apply(def(t, condition.Weak), 1, turns, ""))
		for i := 0; i < turns; i++ {
			for _, id := range s.Tick() {
				assert.False(rt, s.Has(id))
			}
		}
		assert.False(rt, s.Has(condition.Weak))
	})
}

func TestModifiers(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(def(t, condition.Corroded), 2, 5, ""))
	require.NoError(t, s.Apply(def(t, condition.Dazed), 1, 2, ""))
	require.NoError(t, s.Apply(def(t, condition.Caught), 1, 2, ""))
	assert.Equal(t, 4, condition.ACPenalty(s))
	assert.Equal(t, 5, condition.ToHitPenalty(s))
	assert.Equal(t, 10, condition.EvasionPenalty(s))
	assert.False(t, condition.Incapacitated(s))
	assert.Equal(t, 3, condition.StabTier(s))

	require.NoError(t, s.Apply(def(t, condition.Paralysed), 1, 2, ""))
	assert.True(t, condition.Incapacitated(s))
	assert.Equal(t, 1, condition.StabTier(s))
}

func TestLoadDirectory_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dazed.yaml"), []byte(`
id: dazed
name: Stunned
duration_type: turns
to_hit_penalty: 8
`), 0644))
	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	d, ok := reg.Get(condition.Dazed)
	require.True(t, ok)
	assert.Equal(t, 8, d.ToHitPenalty)
	_, ok = reg.Get(condition.Poisoned)
	assert.True(t, ok, "defaults must survive loading")
}

func TestLoadDirectory_RejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nduration_type: rounds\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.ErrorContains(t, err, "duration_type")
}

func TestLoadDirectory_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nduration_type: turns\nbogus: 1\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}
