package condition

// ToHitPenalty returns the total to-hit penalty from active statuses,
// multiplied by stacks for stackable ones.
//
// Postcondition: Returns >= 0.
func ToHitPenalty(s *ActiveSet) int {
	total := 0
	for _, ac := range s.conditions {
		if ac.Def.ToHitPenalty > 0 {
			total += ac.Def.ToHitPenalty * ac.Stacks
		}
	}
	return total
}

// EvasionPenalty returns the total evasion penalty from active statuses.
//
// Postcondition: Returns >= 0.
func EvasionPenalty(s *ActiveSet) int {
	total := 0
	for _, ac := range s.conditions {
		if ac.Def.EvasionPenalty > 0 {
			total += ac.Def.EvasionPenalty * ac.Stacks
		}
	}
	return total
}

// ACPenalty returns the total armour class penalty from active statuses.
//
// Postcondition: Returns >= 0.
func ACPenalty(s *ActiveSet) int {
	total := 0
	for _, ac := range s.conditions {
		if ac.Def.ACPenalty > 0 {
			total += ac.Def.ACPenalty * ac.Stacks
		}
	}
	return total
}

// Incapacitated reports whether any active status prevents the combatant
// from defending itself.
func Incapacitated(s *ActiveSet) bool {
	for _, ac := range s.conditions {
		if ac.Def.Incapacitates {
			return true
		}
	}
	return false
}

// StabTier returns the best (lowest non-zero) stab tier granted by the
// active statuses, or 0 when none applies.
func StabTier(s *ActiveSet) int {
	best := 0
	for _, ac := range s.conditions {
		t := ac.Def.StabTier
		if t > 0 && (best == 0 || t < best) {
			best = t
		}
	}
	return best
}
