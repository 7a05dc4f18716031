package inventory

import (
	"errors"
	"fmt"
)

// ArmourKind distinguishes body armour from shields.
type ArmourKind string

const (
	// KindBody is worn on the torso and supplies AC.
	KindBody ArmourKind = "body"
	// KindShield occupies the off hand and supplies block chance.
	KindShield ArmourKind = "shield"
)

// ArmourDef defines the static properties of an armour piece loaded from YAML.
type ArmourDef struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Description    string     `yaml:"description"`
	Kind           ArmourKind `yaml:"kind"`
	AC             int        `yaml:"ac"`
	Enchantment    int        `yaml:"enchantment"`
	EvasionPenalty int        `yaml:"evasion_penalty"` // non-negative
	ToHitPenalty   int        `yaml:"to_hit_penalty"`  // non-negative
	ShieldBonus    int        `yaml:"shield_bonus"`    // shields only
	BlockPenalty   int        `yaml:"block_penalty"`   // added to the attacker's block roll
}

// IsShield reports whether the armour is worn in the off hand.
func (a *ArmourDef) IsShield() bool {
	return a.Kind == KindShield
}

// Validate reports an error if the ArmourDef is missing required fields or contains illegal values.
// Precondition: def is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmourDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Kind != KindBody && a.Kind != KindShield {
		errs = append(errs, fmt.Errorf("kind %q must be %q or %q", a.Kind, KindBody, KindShield))
	}
	if a.AC < 0 {
		errs = append(errs, errors.New("ac must be >= 0"))
	}
	if a.EvasionPenalty < 0 {
		errs = append(errs, errors.New("evasion_penalty must be >= 0"))
	}
	if a.ToHitPenalty < 0 {
		errs = append(errs, errors.New("to_hit_penalty must be >= 0"))
	}
	if a.Kind == KindBody && a.ShieldBonus != 0 {
		errs = append(errs, errors.New("shield_bonus is only valid on shields"))
	}
	if a.Kind == KindShield && a.ShieldBonus <= 0 {
		errs = append(errs, errors.New("shields need shield_bonus > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armour %q validation failed: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// LoadArmour reads all .yaml files in dir and returns parsed ArmourDef slice.
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned defs pass Validate.
func LoadArmour(dir string) ([]*ArmourDef, error) {
	paths, err := yamlPaths(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmour: %w", err)
	}
	armour := []*ArmourDef{}
	for _, path := range paths {
		var a ArmourDef
		if err := decodeStrict(path, &a); err != nil {
			return nil, fmt.Errorf("LoadArmour: %w", err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArmour: invalid armour in %q: %w", path, err)
		}
		armour = append(armour, &a)
	}
	return armour, nil
}
