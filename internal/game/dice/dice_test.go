package dice_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/dice"
)

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d8+4", Dice: []int{3, 7}, Modifier: 4}
	assert.Equal(t, 14, r.Total())
	assert.Equal(t, "2d8+4 → [3 7] +4 = 14", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.IntRange(-50, 50).Draw(rt, "modifier")
		expected := modifier
		for _, d := range values {
			expected += d
		}
		r := dice.RollResult{Expression: "Nd20", Dice: values, Modifier: modifier}
		assert.Equal(rt, expected, r.Total())
	})
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want dice.Expression
	}{
		{"d8", dice.Expression{Raw: "d8", Count: 1, Sides: 8}},
		{"3d8", dice.Expression{Raw: "3d8", Count: 3, Sides: 8}},
		{"2d8+4", dice.Expression{Raw: "2d8+4", Count: 2, Sides: 8, Modifier: 4}},
		{"1D6-1", dice.Expression{Raw: "1D6-1", Count: 1, Sides: 6, Modifier: -1}},
		{"7", dice.Expression{Raw: "7", Modifier: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "xd6", "0d6", "2d", "2d0", "2d6+x", "abc"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestExpression_Max(t *testing.T) {
	assert.Equal(t, 20, dice.MustParse("2d8+4").Max())
	assert.Equal(t, 7, dice.MustParse("7").Max())
}

func TestParse_RoundTripsGeneratedExpressions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		sides := rapid.IntRange(1, 100).Draw(rt, "sides")
		mod := rapid.IntRange(-30, 30).Draw(rt, "mod")
		raw := fmt.Sprintf("%dd%d%+d", count, sides, mod)
		e, err := dice.Parse(raw)
		require.NoError(rt, err)
		assert.Equal(rt, count, e.Count)
		assert.Equal(rt, sides, e.Sides)
		assert.Equal(rt, mod, e.Modifier)
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 200; i++ {
		n := i%17 + 1
		require.Equal(t, a.Intn(n), b.Intn(n))
	}
}

func TestNewSeed_NonNegative(t *testing.T) {
	seed, err := dice.NewSeed()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed, int64(0))
}

func TestSequence_ClampsAndFallsBack(t *testing.T) {
	s := dice.NewSequence(5, -3, 100)
	s.Fallback = 2
	assert.Equal(t, 5, s.Intn(10))
	assert.Equal(t, 0, s.Intn(10))
	assert.Equal(t, 9, s.Intn(10))
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, 2, s.Intn(10))
	assert.Equal(t, 1, s.Intn(2))
}

func TestRecorder_ReplayMatches(t *testing.T) {
	rec := dice.NewRecorder(dice.NewSeededSource(7))
	var first []int
	for i := 2; i < 30; i++ {
		first = append(first, rec.Intn(i))
	}
	require.Len(t, rec.Draws(), 28)

	replay := rec.Replay()
	for i := 2; i < 30; i++ {
		assert.Equal(t, first[i-2], replay.Intn(i))
	}
}
