package combat

import "github.com/cory-johannsen/melee/internal/game/ruleset"

// ResistAdjustDamage scales raw elemental damage by a resistance level.
//
// Only the element's resistible fraction is affected; the rest passes
// through untouched. Monsters and players use different curves for
// positive resistance and the two must stay distinct.
//
// Postcondition: result >= 0, and result == raw when res == 0 and raw >= 0.
func ResistAdjustDamage(defenderIsMonster bool, el ruleset.Element, res, raw int, ranged bool) int {
	if res == 0 {
		if raw < 0 {
			return 0
		}
		return raw
	}
	resistible := raw * el.ResistibleFraction() / 100
	irresistible := raw - resistible

	switch {
	case res > 0:
		immune := (defenderIsMonster && res >= 3) || (!defenderIsMonster && res > 3)
		if immune {
			resistible = 0
			break
		}
		bonus := 0
		if el.BooleanResist() {
			bonus = 1
		}
		if defenderIsMonster {
			resistible /= 1 + bonus + res*res
		} else {
			resistible /= resistFraction(res, bonus)
		}
	case res < 0:
		mult := 20
		if ranged {
			mult = 15
		}
		resistible = resistible * mult / 10
	}

	if total := resistible + irresistible; total > 0 {
		return total
	}
	return 0
}

// resistFraction is the player's divisor for resistance level res.
func resistFraction(res, bonus int) int {
	return (3*res+1)/2 + bonus
}

func adjustFor(defender Combatant, el ruleset.Element, raw int) int {
	return ResistAdjustDamage(!defender.IsPlayer(), el, defender.Resist(el), raw, false)
}
