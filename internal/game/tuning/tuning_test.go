package tuning_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/tuning"
)

func TestDefault_Validates(t *testing.T) {
	assert.NoError(t, tuning.Default().Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	tu := tuning.Default()
	tu.AutomaticHit = 0
	tu.CleaveReach = 9
	tu.Bite = tuning.Chance{X: 1, Y: 0}
	err := tu.Validate()
	assert.ErrorContains(t, err, "automatic_hit")
	assert.ErrorContains(t, err, "cleave_reach")
	assert.ErrorContains(t, err, "bite.y")
}

func TestValidate_ReportsInDeclarationOrder(t *testing.T) {
	tu := tuning.Default()
	tu.AutomaticHit = 0
	tu.EyeballDenom = 0
	tu.AcidCorrodeOneIn = -1
	tu.FoulStenchWeakOneIn = -3
	tu.AuxVenom = tuning.Chance{X: 1}
	tu.BiteVampirismSated = tuning.Chance{X: 1, Y: -4}

	want := strings.Join([]string{
		"combat.automatic_hit must be > 0, got 0",
		"combat.eyeball_denom must be > 0, got 0",
		"combat.acid_corrode_one_in must be >= 0, got -1",
		"combat.foul_stench_weak_one_in must be >= 0, got -3",
		"combat.aux_venom.y must be > 0, got 0",
		"combat.bite_vampirism_sated.y must be > 0, got -4",
	}, "\n")
	for i := 0; i < 10; i++ {
		err := tu.Validate()
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}

func TestValidate_OneInZeroIsAllowed(t *testing.T) {
	tu := tuning.Default()
	tu.BlackMarkOneIn = 0
	tu.AcidCorrodeOneIn = 1
	assert.NoError(t, tu.Validate())
}

func TestGate_FlatBranch(t *testing.T) {
	g := tuning.Gate{Flat: 20, Threshold: 2, Boosted: 3}
	o := dice.NewOracle(dice.NewSequence(0), nil)
	assert.True(t, g.Fires(o, 0))
}

func TestGate_ZeroDamageOnlyFlat(t *testing.T) {
	g := tuning.Gate{Flat: 20, Threshold: 2, Boosted: 3}
	seq := dice.NewSequence(5, 0)
	o := dice.NewOracle(seq, nil)
	assert.False(t, g.Fires(o, 0))
	assert.Equal(t, 1, seq.Remaining(), "boosted branch must not roll below the threshold")
}

func TestGate_BoostedBranch(t *testing.T) {
	g := tuning.Gate{Flat: 20, Threshold: 2, Boosted: 3}
	o := dice.NewOracle(dice.NewSequence(5, 0), nil)
	assert.True(t, g.Fires(o, 3))
}

func TestGate_Disabled(t *testing.T) {
	g := tuning.Gate{}
	o := dice.NewOracle(dice.Fixed(0), nil)
	assert.False(t, g.Fires(o, 100))
}

func TestChance_Roll(t *testing.T) {
	assert.True(t, tuning.Chance{X: 2, Y: 3}.Roll(dice.NewOracle(dice.Fixed(1), nil)))
	assert.False(t, tuning.Chance{X: 2, Y: 3}.Roll(dice.NewOracle(dice.Fixed(2), nil)))
}
