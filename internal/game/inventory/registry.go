package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon and armour definitions indexed by ID.
type Registry struct {
	weapons map[string]*WeaponDef
	armour  map[string]*ArmourDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		armour:  make(map[string]*ArmourDef),
	}
}

// LoadRegistry loads every weapon in weaponsDir and every armour piece in
// armourDir into a new Registry. An empty armourDir skips armour loading.
//
// Postcondition: returns a populated Registry or the first load/registration error.
func LoadRegistry(weaponsDir, armourDir string) (*Registry, error) {
	reg := NewRegistry()
	weapons, err := LoadWeapons(weaponsDir)
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	if armourDir == "" {
		return reg, nil
	}
	armour, err := LoadArmour(armourDir)
	if err != nil {
		return nil, err
	}
	for _, a := range armour {
		if err := reg.RegisterArmour(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmour adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Armour(a.ID) returns (a, true); returns error if a.ID already registered.
func (r *Registry) RegisterArmour(a *ArmourDef) error {
	if _, exists := r.armour[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmour: armour ID %q already registered", a.ID)
	}
	r.armour[a.ID] = a
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Armour returns the ArmourDef for the given id and whether it was found.
func (r *Registry) Armour(id string) (*ArmourDef, bool) {
	a, ok := r.armour[id]
	return a, ok
}

// AllWeapons returns all registered WeaponDefs sorted by ID.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
