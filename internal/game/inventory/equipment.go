package inventory

import "fmt"

// Equipment is what a combatant currently has readied for melee. A nil
// field means the slot is empty.
type Equipment struct {
	Weapon  *WeaponDef
	Offhand *WeaponDef
	Body    *ArmourDef
	Shield  *ArmourDef
}

// Wield readies w in the main hand. Passing nil empties the hand.
//
// Postcondition: returns an error and leaves Equipment unchanged when w is
// two-handed while a shield or off-hand weapon is held.
func (e *Equipment) Wield(w *WeaponDef) error {
	if w != nil && w.TwoHanded && (e.Shield != nil || e.Offhand != nil) {
		return fmt.Errorf("cannot wield two-handed %s with the off hand occupied", w.Name)
	}
	e.Weapon = w
	return nil
}

// WieldOffhand readies w in the off hand.
//
// Postcondition: returns an error when a shield or two-handed weapon occupies the hand.
func (e *Equipment) WieldOffhand(w *WeaponDef) error {
	switch {
	case e.Shield != nil:
		return fmt.Errorf("cannot wield %s: a shield occupies the off hand", w.Name)
	case e.Weapon != nil && e.Weapon.TwoHanded:
		return fmt.Errorf("cannot wield %s alongside two-handed %s", w.Name, e.Weapon.Name)
	case w.TwoHanded:
		return fmt.Errorf("%s cannot be wielded in the off hand", w.Name)
	}
	e.Offhand = w
	return nil
}

// Wear puts on a piece of armour in its slot.
//
// Postcondition: returns an error when a shield would share hands with a
// two-handed weapon or an off-hand weapon.
func (e *Equipment) Wear(a *ArmourDef) error {
	if !a.IsShield() {
		e.Body = a
		return nil
	}
	if e.Offhand != nil || (e.Weapon != nil && e.Weapon.TwoHanded) {
		return fmt.Errorf("cannot wear %s: both hands are in use", a.Name)
	}
	e.Shield = a
	return nil
}

// DefenseStats aggregates the combat-relevant numbers of worn armour.
type DefenseStats struct {
	AC             int // body armour AC plus enchantment
	EvasionPenalty int
	ToHitPenalty   int // body armour only; shields report theirs separately
	ShieldToHit    int
	ShieldBonus    int
	BlockPenalty   int
}

// ComputedDefenses sums the worn armour into DefenseStats.
//
// Postcondition: all fields are >= 0.
func (e *Equipment) ComputedDefenses() DefenseStats {
	var s DefenseStats
	if b := e.Body; b != nil {
		s.AC = b.AC + b.Enchantment
		s.EvasionPenalty += b.EvasionPenalty
		s.ToHitPenalty = b.ToHitPenalty
	}
	if sh := e.Shield; sh != nil {
		s.AC += sh.Enchantment
		s.EvasionPenalty += sh.EvasionPenalty
		s.ShieldToHit = sh.ToHitPenalty
		s.ShieldBonus = sh.ShieldBonus + sh.Enchantment
		s.BlockPenalty = sh.BlockPenalty
	}
	if s.AC < 0 {
		s.AC = 0
	}
	if s.ShieldBonus < 0 {
		s.ShieldBonus = 0
	}
	return s
}
