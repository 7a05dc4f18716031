package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/dice"
)

func newOracle(src dice.Source) *dice.Oracle {
	return dice.NewOracle(src, nil)
}

func TestOracle_Random2_SmallMaxDoesNotDraw(t *testing.T) {
	seq := dice.NewSequence(3)
	o := newOracle(seq)
	assert.Equal(t, 0, o.Random2(1))
	assert.Equal(t, 0, o.Random2(0))
	assert.Equal(t, 0, o.Random2(-4))
	assert.Equal(t, 1, seq.Remaining(), "no draw should be consumed for max <= 1")
}

func TestOracle_Random2_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		max := rapid.IntRange(2, 500).Draw(rt, "max")
		o := newOracle(dice.NewSeededSource(seed))
		v := o.Random2(max)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, max)
	})
}

func TestOracle_XChanceInY_Edges(t *testing.T) {
	seq := dice.NewSequence()
	o := newOracle(seq)
	assert.False(t, o.XChanceInY(0, 10))
	assert.False(t, o.XChanceInY(-2, 10))
	assert.True(t, o.XChanceInY(10, 10))
	assert.True(t, o.XChanceInY(12, 10))

	assert.True(t, newOracle(dice.Fixed(2)).XChanceInY(3, 10))
	assert.False(t, newOracle(dice.Fixed(3)).XChanceInY(3, 10))
}

func TestOracle_OneChanceIn(t *testing.T) {
	assert.True(t, newOracle(dice.Fixed(0)).OneChanceIn(20))
	assert.False(t, newOracle(dice.Fixed(1)).OneChanceIn(20))
	assert.True(t, newOracle(dice.Fixed(9)).OneChanceIn(1), "1-in-1 always fires")
}

func TestOracle_Coinflip(t *testing.T) {
	assert.True(t, newOracle(dice.Fixed(1)).Coinflip())
	assert.False(t, newOracle(dice.Fixed(0)).Coinflip())
}

func TestOracle_RollDice(t *testing.T) {
	assert.Equal(t, 0, newOracle(dice.Fixed(5)).RollDice(0, 6))
	assert.Equal(t, 0, newOracle(dice.Fixed(5)).RollDice(2, 0))
	assert.Equal(t, 2, newOracle(dice.Fixed(0)).RollDice(2, 6))
	assert.Equal(t, 12, newOracle(dice.Fixed(99)).RollDice(2, 6))
}

func TestOracle_RollDice_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		sides := rapid.IntRange(1, 20).Draw(rt, "sides")
		o := newOracle(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		v := o.RollDice(n, sides)
		assert.GreaterOrEqual(rt, v, n)
		assert.LessOrEqual(rt, v, n*sides)
	})
}

func TestOracle_RandomRange(t *testing.T) {
	assert.Equal(t, 3, newOracle(dice.Fixed(0)).RandomRange(3, 8))
	assert.Equal(t, 8, newOracle(dice.Fixed(99)).RandomRange(3, 8))
	assert.Equal(t, 3, newOracle(dice.Fixed(0)).RandomRange(8, 3))
}

func TestOracle_DivRandRound(t *testing.T) {
	assert.Equal(t, 3, newOracle(dice.Fixed(0)).DivRandRound(12, 4))
	assert.Equal(t, 4, newOracle(dice.Fixed(0)).DivRandRound(13, 4))
	assert.Equal(t, 3, newOracle(dice.Fixed(3)).DivRandRound(13, 4))
	assert.Panics(t, func() { newOracle(dice.Fixed(0)).DivRandRound(1, 0) })
}

func TestOracle_DivRandRound_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		num := rapid.IntRange(0, 10000).Draw(rt, "num")
		den := rapid.IntRange(1, 100).Draw(rt, "den")
		o := newOracle(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		v := o.DivRandRound(num, den)
		assert.GreaterOrEqual(rt, v, num/den)
		assert.LessOrEqual(rt, v, num/den+1)
	})
}

func TestOracle_MaybeRandom2(t *testing.T) {
	o := newOracle(dice.Fixed(0))
	assert.Equal(t, 0, o.MaybeRandom2(1, true))
	assert.Equal(t, 5, o.MaybeRandom2(10, false))
	assert.Equal(t, 0, o.MaybeRandom2(10, true))
}

func TestOracle_Random2Avg_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(1, 100).Draw(rt, "max")
		rolls := rapid.IntRange(1, 5).Draw(rt, "rolls")
		o := newOracle(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		v := o.Random2Avg(max, rolls)
		assert.GreaterOrEqual(rt, v, 0)
		assert.LessOrEqual(rt, v, max)
	})
}

func TestOracle_BestRoll(t *testing.T) {
	o := newOracle(dice.NewSequence(2, 7, 4))
	assert.Equal(t, 7, o.BestRoll(10, 3))
}

func TestOracle_ChooseWeighted(t *testing.T) {
	weights := []int{0, 3, 5}
	assert.Equal(t, 1, newOracle(dice.Fixed(0)).ChooseWeighted(weights))
	assert.Equal(t, 1, newOracle(dice.Fixed(2)).ChooseWeighted(weights))
	assert.Equal(t, 2, newOracle(dice.Fixed(3)).ChooseWeighted(weights))
	assert.Panics(t, func() { newOracle(dice.Fixed(0)).ChooseWeighted([]int{0, 0}) })
}

func TestChoose_Generic(t *testing.T) {
	got := dice.Choose(newOracle(dice.Fixed(4)), []dice.Weighted[string]{
		{Weight: 4, Value: "blink"},
		{Weight: 1, Value: "banish"},
	})
	assert.Equal(t, "banish", got)
}

func TestOracle_Roll_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	o := dice.NewOracle(dice.Fixed(2), zap.New(core))
	res := o.Roll(dice.MustParse("2d8+4"))
	assert.Equal(t, []int{3, 3}, res.Dice)
	assert.Equal(t, 10, res.Total())
	require.Equal(t, 1, logs.FilterMessage("dice roll").Len())
	assert.Equal(t, 2, logs.FilterMessage("oracle draw").Len())
}
