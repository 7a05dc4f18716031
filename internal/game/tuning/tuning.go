// Package tuning holds the named balance constants of the melee engine.
// Every probability the engine rolls is read from a Tuning value so tests and
// configuration files can override it.
package tuning

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/dice"
)

// Gate is a mixed probability/damage gate of the form
//
//	one_chance_in(Flat) || (damage > Threshold && one_chance_in(Boosted))
//
// A non-positive Flat or Boosted disables that branch.
type Gate struct {
	Flat      int `mapstructure:"flat"`
	Threshold int `mapstructure:"threshold"`
	Boosted   int `mapstructure:"boosted"`
}

// Fires evaluates the gate. The flat branch is rolled first and the boosted
// branch is only rolled when the flat one fails and damage clears the
// threshold.
func (g Gate) Fires(o *dice.Oracle, damage int) bool {
	if g.Flat > 0 && o.OneChanceIn(g.Flat) {
		return true
	}
	return g.Boosted > 0 && damage > g.Threshold && o.OneChanceIn(g.Boosted)
}

// Chance is an x-in-y probability.
type Chance struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// Roll evaluates the chance.
func (c Chance) Roll(o *dice.Oracle) bool {
	return o.XChanceInY(c.X, c.Y)
}

// Tuning is the full set of overridable combat constants.
type Tuning struct {
	AutomaticHit      int `mapstructure:"automatic_hit"`
	ForcedRollPercent int `mapstructure:"forced_roll_percent"`
	AuxAutoHitOneIn   int `mapstructure:"aux_auto_hit_one_in"`
	ConfusedToHit     int `mapstructure:"confused_to_hit"`
	UnseenToHit       int `mapstructure:"unseen_to_hit"`

	PlayerFumbleOneIn  int `mapstructure:"player_fumble_one_in"`
	MonsterFumbleOneIn int `mapstructure:"monster_fumble_one_in"`
	FumbleXom          int `mapstructure:"fumble_xom"`
	FumbleSelfXom      int `mapstructure:"fumble_self_xom"`
	FlinchOneIn        int `mapstructure:"flinch_one_in"`
	PenanceBlockOneIn  int `mapstructure:"penance_block_one_in"`
	WardingPower       int `mapstructure:"warding_power"`

	ShieldBlockBase   int `mapstructure:"shield_block_base"`
	ShroudBypassOneIn int `mapstructure:"shroud_bypass_one_in"`
	ShroudBreakBase   int `mapstructure:"shroud_break_base"`

	CleaveNumerator   int `mapstructure:"cleave_numerator"`
	CleaveDenominator int `mapstructure:"cleave_denominator"`
	CleaveReach       int `mapstructure:"cleave_reach"`
	SleepStabNum      int `mapstructure:"sleep_stab_num"`
	SleepStabDen      int `mapstructure:"sleep_stab_den"`
	MonsterAttacks    int `mapstructure:"monster_attacks"`

	ChopMonsterOneIn   int `mapstructure:"chop_monster_one_in"`
	HydraHeadLimit     int `mapstructure:"hydra_head_limit"`
	LernaeanHeadLimit  int `mapstructure:"lernaean_head_limit"`
	SmallChopThreshold int `mapstructure:"small_chop_threshold"`

	MutateOneIn          int    `mapstructure:"mutate_one_in"`
	PoisonOneIn          int    `mapstructure:"poison_one_in"`
	Rot                  Gate   `mapstructure:"rot"`
	DrainStat            Gate   `mapstructure:"drain_stat"`
	Hunger               Gate   `mapstructure:"hunger"`
	BlinkOneIn           int    `mapstructure:"blink_one_in"`
	Confuse              Gate   `mapstructure:"confuse"`
	DrainXP              Gate   `mapstructure:"drain_xp"`
	ParalysePoisonOneIn  int    `mapstructure:"paralyse_poison_one_in"`
	ParalyseDamage       int    `mapstructure:"paralyse_damage"`
	ParalyseRollHigh     int    `mapstructure:"paralyse_roll_high"`
	ParalyseRollLow      int    `mapstructure:"paralyse_roll_low"`
	ParalyseWeakBonus    int    `mapstructure:"paralyse_weak_bonus"`
	RageOneIn            int    `mapstructure:"rage_one_in"`
	StickyFlame          Gate   `mapstructure:"sticky_flame"`
	EnsnareOneIn         int    `mapstructure:"ensnare_one_in"`
	Engulf               Chance `mapstructure:"engulf"`
	DrainSpeed           Chance `mapstructure:"drain_speed"`
	VulnOneIn            int    `mapstructure:"vuln_one_in"`
	WeaknessPoisonOneIn  int    `mapstructure:"weakness_poison_one_in"`
	VampiricResistDenom  int    `mapstructure:"vampiric_resist_denom"`
	AntimagicPerHD       int    `mapstructure:"antimagic_per_hd"`

	ElectrocutionOneIn    int    `mapstructure:"electrocution_one_in"`
	VenomSkipOneIn        int    `mapstructure:"venom_skip_one_in"`
	VampirismFail         Chance `mapstructure:"vampirism_fail"`
	DrainMonsterSkipOneIn int    `mapstructure:"drain_monster_skip_one_in"`
	PainSkillDenom        int    `mapstructure:"pain_skill_denom"`
	ChaosCloudOneIn       int    `mapstructure:"chaos_cloud_one_in"`
	ChaosNoiseOneIn       int    `mapstructure:"chaos_noise_one_in"`
	AntimagicBrandMult    int    `mapstructure:"antimagic_brand_mult"`
	AcidCorrodeOneIn      int    `mapstructure:"acid_corrode_one_in"`
	BlackMarkOneIn        int    `mapstructure:"black_mark_one_in"`
	FoulStenchWeakOneIn   int    `mapstructure:"foul_stench_weak_one_in"`

	AuxStatRoll    int    `mapstructure:"aux_stat_roll"`
	AuxSkipOneIn   int    `mapstructure:"aux_skip_one_in"`
	TailSlapOneIn  int    `mapstructure:"tail_slap_one_in"`
	Bite           Chance `mapstructure:"bite"`
	PunchSkipOneIn int    `mapstructure:"punch_skip_one_in"`
	AuxVenom       Chance `mapstructure:"aux_venom"`
	// BiteVampirism is the vampiric bite odds for a feeder that is not
	// starving; BiteVampirismSated replaces it once the feeder is satiated.
	BiteVampirism      Chance `mapstructure:"bite_vampirism"`
	BiteVampirismSated Chance `mapstructure:"bite_vampirism_sated"`

	NoiseCap           int    `mapstructure:"noise_cap"`
	EyeballDenom       int    `mapstructure:"eyeball_denom"`
	TendrilDisarmOneIn int    `mapstructure:"tendril_disarm_one_in"`
	MinotaurRetaliate  Chance `mapstructure:"minotaur_retaliate"`
}

// Default returns the stock constants.
//
// Postcondition: Default().Validate() == nil.
func Default() Tuning {
	return Tuning{
		AutomaticHit:      1500,
		ForcedRollPercent: 5,
		AuxAutoHitOneIn:   30,
		ConfusedToHit:     5,
		UnseenToHit:       6,

		PlayerFumbleOneIn:  5,
		MonsterFumbleOneIn: 4,
		FumbleXom:          10,
		FumbleSelfXom:      200,
		FlinchOneIn:        3,
		PenanceBlockOneIn:  20,
		WardingPower:       60,

		ShieldBlockBase:   15,
		ShroudBypassOneIn: 3,
		ShroudBreakBase:   10,

		CleaveNumerator:   3,
		CleaveDenominator: 4,
		CleaveReach:       3,
		SleepStabNum:      5,
		SleepStabDen:      2,
		MonsterAttacks:    4,

		ChopMonsterOneIn:   4,
		HydraHeadLimit:     20,
		LernaeanHeadLimit:  27,
		SmallChopThreshold: 4,

		MutateOneIn:         4,
		PoisonOneIn:         3,
		Rot:                 Gate{Flat: 20, Threshold: 2, Boosted: 3},
		DrainStat:           Gate{Flat: 20, Threshold: 0, Boosted: 3},
		Hunger:              Gate{Flat: 20, Threshold: 0, Boosted: 1},
		BlinkOneIn:          3,
		Confuse:             Gate{Flat: 10, Threshold: 2, Boosted: 3},
		DrainXP:             Gate{Flat: 30, Threshold: 5, Boosted: 2},
		ParalysePoisonOneIn: 3,
		ParalyseDamage:      4,
		ParalyseRollHigh:    3,
		ParalyseRollLow:     20,
		ParalyseWeakBonus:   3,
		RageOneIn:           3,
		StickyFlame:         Gate{Flat: 20, Threshold: 2, Boosted: 3},
		EnsnareOneIn:        3,
		Engulf:              Chance{X: 2, Y: 3},
		DrainSpeed:          Chance{X: 3, Y: 5},
		VulnOneIn:           3,
		WeaknessPoisonOneIn: 2,
		VampiricResistDenom: 3,
		AntimagicPerHD:      12,

		ElectrocutionOneIn:    3,
		VenomSkipOneIn:        4,
		VampirismFail:         Chance{X: 2, Y: 5},
		DrainMonsterSkipOneIn: 2,
		PainSkillDenom:        8,
		ChaosCloudOneIn:       1000,
		ChaosNoiseOneIn:       200,
		AntimagicBrandMult:    8,
		AcidCorrodeOneIn:      3,
		BlackMarkOneIn:        5,
		FoulStenchWeakOneIn:   3,

		AuxStatRoll:    50,
		AuxSkipOneIn:   3,
		TailSlapOneIn:  2,
		Bite:           Chance{X: 2, Y: 5},
		PunchSkipOneIn: 3,
		AuxVenom:       Chance{X: 1, Y: 2},

		BiteVampirism:      Chance{X: 1, Y: 2},
		BiteVampirismSated: Chance{X: 1, Y: 4},

		NoiseCap:           12,
		EyeballDenom:       20,
		TendrilDisarmOneIn: 5,
		MinotaurRetaliate:  Chance{X: 2, Y: 5},
	}
}

// check is one named constraint on a Tuning value.
type check struct {
	name string
	v    int
}

// Validate checks that the denominators the engine divides by are positive
// and that every one-in-n gate and x-in-y chance is in range.
//
// Postcondition: Returns nil or an error joining every violation, in a
// stable order.
func (t Tuning) Validate() error {
	var errs []error
	for _, c := range []check{
		{"automatic_hit", t.AutomaticHit},
		{"cleave_denominator", t.CleaveDenominator},
		{"sleep_stab_den", t.SleepStabDen},
		{"monster_attacks", t.MonsterAttacks},
		{"hydra_head_limit", t.HydraHeadLimit},
		{"lernaean_head_limit", t.LernaeanHeadLimit},
		{"pain_skill_denom", t.PainSkillDenom},
		{"aux_stat_roll", t.AuxStatRoll},
		{"eyeball_denom", t.EyeballDenom},
	} {
		if c.v <= 0 {
			errs = append(errs, fmt.Errorf("combat.%s must be > 0, got %d", c.name, c.v))
		}
	}
	// One-in-n gates: n <= 1 always fires, which is allowed; negative n is
	// a typo.
	for _, c := range []check{
		{"electrocution_one_in", t.ElectrocutionOneIn},
		{"shroud_bypass_one_in", t.ShroudBypassOneIn},
		{"acid_corrode_one_in", t.AcidCorrodeOneIn},
		{"black_mark_one_in", t.BlackMarkOneIn},
		{"foul_stench_weak_one_in", t.FoulStenchWeakOneIn},
	} {
		if c.v < 0 {
			errs = append(errs, fmt.Errorf("combat.%s must be >= 0, got %d", c.name, c.v))
		}
	}
	if t.ForcedRollPercent < 0 || t.ForcedRollPercent > 100 {
		errs = append(errs, fmt.Errorf("combat.forced_roll_percent must be 0-100, got %d", t.ForcedRollPercent))
	}
	if t.CleaveReach < 0 || t.CleaveReach > 3 {
		errs = append(errs, fmt.Errorf("combat.cleave_reach must be 0-3, got %d", t.CleaveReach))
	}
	for _, c := range []struct {
		name string
		c    Chance
	}{
		{"engulf", t.Engulf},
		{"drain_speed", t.DrainSpeed},
		{"vampirism_fail", t.VampirismFail},
		{"bite", t.Bite},
		{"aux_venom", t.AuxVenom},
		{"bite_vampirism", t.BiteVampirism},
		{"bite_vampirism_sated", t.BiteVampirismSated},
		{"minotaur_retaliate", t.MinotaurRetaliate},
	} {
		if c.c.Y <= 0 {
			errs = append(errs, fmt.Errorf("combat.%s.y must be > 0, got %d", c.name, c.c.Y))
		}
	}
	return errors.Join(errs...)
}
