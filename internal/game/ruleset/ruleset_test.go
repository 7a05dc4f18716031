package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadSpecies_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "minotaur.yaml"), `
id: minotaur
name: Minotaur
strength: 12
dexterity: 5
intellect: 5
mutations:
  horns: 2
`)
	species, err := ruleset.LoadSpecies(dir)
	require.NoError(t, err)
	require.Contains(t, species, "minotaur")
	m := species["minotaur"]
	assert.Equal(t, 12, m.Strength)
	assert.Equal(t, 2, m.Mutations[ruleset.MutHorns])
}

func TestLoadSpecies_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "id: x\nname: X\nwings: 2\n")
	_, err := ruleset.LoadSpecies(dir)
	assert.Error(t, err)
}

func TestLoadSpecies_RejectsBadMutationLevel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "id: x\nname: X\nmutations:\n  fangs: 5\n")
	_, err := ruleset.LoadSpecies(dir)
	assert.ErrorContains(t, err, "fangs")
}

func TestLoadSpecies_MissingDir(t *testing.T) {
	_, err := ruleset.LoadSpecies("/nonexistent")
	assert.Error(t, err)
}

func TestMonsterAttack_DecodesNames(t *testing.T) {
	var atk ruleset.MonsterAttack
	require.NoError(t, yaml.Unmarshal([]byte("type: bite\nflavour: poison_strong\ndamage: 7\n"), &atk))
	assert.Equal(t, ruleset.AttackBite, atk.Type)
	assert.Equal(t, ruleset.FlavourPoisonStrong, atk.Flavour)
	assert.Equal(t, 7, atk.Damage)
}

func TestFlavour_UnknownNameFails(t *testing.T) {
	var f ruleset.Flavour
	assert.Error(t, yaml.Unmarshal([]byte("lightning"), &f))
}

func TestFlavourNames_RoundTrip(t *testing.T) {
	for _, f := range ruleset.AllFlavours() {
		var got ruleset.Flavour
		require.NoError(t, yaml.Unmarshal([]byte(f.String()), &got), f.String())
		assert.Equal(t, f, got)
	}
}

func TestBrandNames_RoundTrip(t *testing.T) {
	for _, b := range ruleset.AllBrands() {
		got, err := ruleset.ParseBrand(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}

func TestDamageless(t *testing.T) {
	assert.True(t, ruleset.FlavourCrush.Damageless())
	assert.True(t, ruleset.FlavourDrown.Damageless())
	assert.False(t, ruleset.FlavourFire.Damageless())
}

func TestElement_ResistibleFraction(t *testing.T) {
	assert.Equal(t, 40, ruleset.ElementWater.ResistibleFraction())
	assert.Equal(t, 40, ruleset.ElementIce.ResistibleFraction())
	assert.Equal(t, 55, ruleset.ElementLava.ResistibleFraction())
	assert.Equal(t, 70, ruleset.ElementPoisonArrow.ResistibleFraction())
	assert.Equal(t, 100, ruleset.ElementFire.ResistibleFraction())
}

func TestElement_StringOutOfRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(100, 1000).Draw(rt, "v")
		assert.Contains(rt, ruleset.Element(v).String(), "element(")
	})
}

func TestForm_Tables(t *testing.T) {
	assert.Equal(t, 10, ruleset.FormDragon.UnarmedToHit())
	assert.Equal(t, 12, ruleset.FormBat.UnarmedToHit())
	assert.Equal(t, 9, ruleset.FormStatue.UnarmedToHit())
	assert.Equal(t, 0, ruleset.FormNone.UnarmedToHit())
	assert.True(t, ruleset.FormSpider.BlocksLimbAux())
	assert.False(t, ruleset.FormNone.BlocksLimbAux())
}
