package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

func TestApplyDefenderAC(t *testing.T) {
	o := dice.NewOracle(dice.Fixed(3), nil)
	assert.Equal(t, 5, ApplyDefenderAC(o, 8, 3, false))
	assert.Equal(t, 7, ApplyDefenderAC(o, 8, 3, true), "half AC saves half")
	assert.Equal(t, 0, ApplyDefenderAC(o, 3, 10, false))
	assert.Equal(t, 8, ApplyDefenderAC(o, 8, 0, false))
	assert.Equal(t, 0, ApplyDefenderAC(o, -2, 0, false))
}

func TestApplyDefenderAC_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(0, 100).Draw(rt, "roll")
		dmg := rapid.IntRange(-5, 200).Draw(rt, "damage")
		lo := rapid.IntRange(0, 60).Draw(rt, "ac")
		hi := lo + rapid.IntRange(0, 60).Draw(rt, "extra_ac")
		half := rapid.Bool().Draw(rt, "half")
		o := dice.NewOracle(dice.Fixed(roll), nil)

		a := ApplyDefenderAC(o, dmg, lo, half)
		b := ApplyDefenderAC(o, dmg, hi, half)
		if a < 0 || a > max(dmg, 0) {
			rt.Fatalf("result %d outside [0, %d]", a, max(dmg, 0))
		}
		if b > a {
			rt.Fatalf("more armour let more damage through: ac %d -> %d, ac %d -> %d", lo, a, hi, b)
		}
		if full := ApplyDefenderAC(o, dmg, lo, false); full > a {
			rt.Fatalf("half AC blocked more than full AC")
		}
	})
}

func TestResistAdjustDamage(t *testing.T) {
	cases := []struct {
		name    string
		monster bool
		el      ruleset.Element
		res     int
		raw     int
		want    int
	}{
		{"no resistance passes through", true, ruleset.ElementFire, 0, 10, 10},
		{"monster rF+", true, ruleset.ElementFire, 1, 10, 5},
		{"monster rF++", true, ruleset.ElementFire, 2, 10, 2},
		{"monster immune at three", true, ruleset.ElementFire, 3, 10, 0},
		{"player rF+", false, ruleset.ElementFire, 1, 10, 5},
		{"player rF+++", false, ruleset.ElementFire, 3, 10, 2},
		{"boolean resist counts double", true, ruleset.ElementElec, 1, 12, 4},
		{"vulnerable doubles", true, ruleset.ElementCold, -1, 10, 20},
		{"water is partly physical", true, ruleset.ElementWater, 1, 10, 7},
		{"negative raw clamps", false, ruleset.ElementFire, 0, -4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResistAdjustDamage(tc.monster, tc.el, tc.res, tc.raw, false))
		})
	}
	assert.Equal(t, 15, ResistAdjustDamage(true, ruleset.ElementCold, -1, 10, true), "ranged vulnerability")
}

func TestResistAdjustDamage_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		monster := rapid.Bool().Draw(rt, "monster")
		el := ruleset.Element(rapid.IntRange(0, int(ruleset.ElementGhostlyFlame)).Draw(rt, "element"))
		res := rapid.IntRange(-3, 4).Draw(rt, "res")
		raw := rapid.IntRange(0, 500).Draw(rt, "raw")

		got := ResistAdjustDamage(monster, el, res, raw, false)
		switch {
		case got < 0:
			rt.Fatalf("negative damage %d", got)
		case res > 0 && got > raw:
			rt.Fatalf("resistance %d raised %d to %d", res, raw, got)
		case res < 0 && got < raw:
			rt.Fatalf("vulnerability %d lowered %d to %d", res, raw, got)
		case res == 0 && got != raw:
			rt.Fatalf("no resistance changed %d to %d", raw, got)
		}
	})
}

func TestCleaveDamageIsThreeQuarters(t *testing.T) {
	sim := newTestSim(high, nil)
	p := addPlayer(t, sim, "war_axe", centre)
	g := addMonster(t, sim, "goblin", goblinTemplate(), north)

	plain := newAttack(sim, p, g, 0, 0)
	cleaving := newAttack(sim, p, g, 0, 0)
	cleaving.Cleaving = true

	assert.Equal(t, 8, plain.calcDamage())
	assert.Equal(t, 6, cleaving.calcDamage())
}
