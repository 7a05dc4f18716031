// Package inventory provides definitions and loaders for the weapons and
// armour combatants carry into melee.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// WeaponDef defines the static properties of a melee weapon loaded from YAML.
type WeaponDef struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Damage      int                `yaml:"damage"`
	Accuracy    int                `yaml:"accuracy"`
	Delay       int                `yaml:"delay"`     // base delay in tenths of a turn
	MinDelay    int                `yaml:"min_delay"` // 0 = no skill-based speedup
	Skill       ruleset.Skill      `yaml:"skill"`
	DamageType  ruleset.DamageType `yaml:"damage_type"`
	Brand       ruleset.Brand      `yaml:"brand"`
	Enchantment int                `yaml:"enchantment"`
	Reach       int                `yaml:"reach"` // 0 or 1 = adjacent only
	TwoHanded   bool               `yaml:"two_handed"`
	Cleaves     bool               `yaml:"cleaves"`
	// Staff is the element a magical staff channels on hit; nil for ordinary weapons.
	Staff *ruleset.Element `yaml:"staff"`
	// Hook names a Lua function in the scripts directory fired on every melee hit.
	Hook string `yaml:"hook"`
}

// IsStaff reports whether the weapon is a magical staff.
func (w *WeaponDef) IsStaff() bool {
	return w.Staff != nil
}

// Reaches reports whether the weapon can strike a target at distance dist.
func (w *WeaponDef) Reaches(dist int) bool {
	reach := w.Reach
	if reach < 1 {
		reach = 1
	}
	return dist >= 1 && dist <= reach
}

// AttackDelay returns the weapon's delay in tenths of a turn after skill
// training: one tenth faster per two skill levels, down to MinDelay.
//
// Postcondition: MinDelay <= result <= Delay when MinDelay > 0.
func (w *WeaponDef) AttackDelay(skill int) int {
	d := w.Delay - skill/2
	floor := w.MinDelay
	if floor <= 0 {
		floor = w.Delay
	}
	if d < floor {
		d = floor
	}
	return d
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Damage <= 0 {
		errs = append(errs, errors.New("damage must be > 0"))
	}
	if w.Delay <= 0 {
		errs = append(errs, errors.New("delay must be > 0"))
	}
	if w.MinDelay < 0 || w.MinDelay > w.Delay {
		errs = append(errs, fmt.Errorf("min_delay %d must be between 0 and delay %d", w.MinDelay, w.Delay))
	}
	if w.Reach < 0 || w.Reach > 2 {
		errs = append(errs, fmt.Errorf("reach %d must be between 0 and 2", w.Reach))
	}
	if w.Staff != nil && w.Brand != ruleset.BrandNormal {
		errs = append(errs, errors.New("staves cannot carry a brand"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	paths, err := yamlPaths(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: %w", err)
	}
	weapons := []*WeaponDef{}
	for _, path := range paths {
		var w WeaponDef
		if err := decodeStrict(path, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: %w", err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}

// yamlPaths lists the .yaml files directly inside dir.
func yamlPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// decodeStrict parses the YAML file at path into out, rejecting unknown fields.
func decodeStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read file %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("cannot parse file %q: %w", path, err)
	}
	return nil
}
