// Package condition tracks timed status effects (poison, confusion,
// paralysis, berserk, shrouds, ...) on combatants.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status identifiers the melee engine applies and queries.
const (
	Poisoned       = "poisoned"
	Confused       = "confused"
	Slowed         = "slowed"
	Paralysed      = "paralysed"
	Petrified      = "petrified"
	Berserk        = "berserk"
	Might          = "might"
	Frenzied       = "frenzied"
	Weak           = "weak"
	Haste          = "haste"
	Shroud         = "shroud"
	WaterHold      = "water_hold"
	LoweredMR      = "lowered_mr"
	StickyFlame    = "sticky_flame"
	Invisible      = "invisible"
	Asleep         = "asleep"
	Caught         = "caught"
	Afraid         = "afraid"
	Dazed          = "dazed"
	Infusion       = "infusion"
	Slimify        = "slimify"
	ConfusingTouch = "confusing_touch"
	Antimagic      = "antimagic"
	Withdrawn      = "withdrawn"
	Rolling        = "rolling"
	Corroded       = "corroded"
	Drained        = "drained"
	ShieldBlocks   = "shield_blocks"
	Constricted    = "constricted"
)

// Duration types.
const (
	DurationTurns     = "turns"
	DurationPermanent = "permanent"
)

// ConditionDef is the static definition of a status effect, loaded from YAML
// or taken from Defaults.
type ConditionDef struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	DurationType   string `yaml:"duration_type"` // "turns" | "permanent"
	MaxStacks      int    `yaml:"max_stacks"`    // 0 = unstackable
	ToHitPenalty   int    `yaml:"to_hit_penalty"`
	EvasionPenalty int    `yaml:"evasion_penalty"`
	ACPenalty      int    `yaml:"ac_penalty"`
	Incapacitates  bool   `yaml:"incapacitates"`
	StabTier       int    `yaml:"stab_tier"` // 0 = no stab; 1 is the strongest
	ApplyMessage   string `yaml:"apply_message"`
	ExpireMessage  string `yaml:"expire_message"`
}

// Validate reports every problem with the definition.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.DurationType != DurationTurns && d.DurationType != DurationPermanent {
		errs = append(errs, fmt.Errorf("duration_type must be turns or permanent, got %q", d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, errors.New("max_stacks must be >= 0"))
	}
	if d.StabTier < 0 {
		errs = append(errs, errors.New("stab_tier must be >= 0"))
	}
	return errors.Join(errs...)
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered definition sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultRegistry returns a Registry populated with Defaults.
//
// Postcondition: every status constant in this package resolves.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range Defaults() {
		reg.Register(d)
	}
	return reg
}

// Defaults returns fresh copies of the built-in status definitions.
func Defaults() []*ConditionDef {
	turns := func(id, name string) *ConditionDef {
		return &ConditionDef{ID: id, Name: name, DurationType: DurationTurns}
	}
	defs := []*ConditionDef{
		{ID: Poisoned, Name: "Poisoned", DurationType: DurationTurns, MaxStacks: 200},
		{ID: Confused, Name: "Confused", DurationType: DurationTurns, StabTier: 4},
		turns(Slowed, "Slowed"),
		{ID: Paralysed, Name: "Paralysed", DurationType: DurationTurns, Incapacitates: true, StabTier: 1},
		{ID: Petrified, Name: "Petrified", DurationType: DurationTurns, Incapacitates: true, StabTier: 1},
		turns(Berserk, "Berserk"),
		turns(Might, "Might"),
		{ID: Frenzied, Name: "Frenzied", DurationType: DurationTurns, MaxStacks: 3},
		turns(Weak, "Weak"),
		turns(Haste, "Hasted"),
		{ID: Shroud, Name: "Shroud of Golubria", DurationType: DurationPermanent},
		{ID: WaterHold, Name: "Engulfed", DurationType: DurationTurns, EvasionPenalty: 5},
		turns(LoweredMR, "Vulnerable"),
		{ID: StickyFlame, Name: "On fire", DurationType: DurationTurns, MaxStacks: 20},
		turns(Invisible, "Invisible"),
		{ID: Asleep, Name: "Asleep", DurationType: DurationPermanent, Incapacitates: true, StabTier: 1},
		{ID: Caught, Name: "Caught", DurationType: DurationTurns, EvasionPenalty: 10, StabTier: 3},
		turns(Afraid, "Afraid"),
		{ID: Dazed, Name: "Dazed", DurationType: DurationTurns, ToHitPenalty: 5},
		turns(Infusion, "Infused"),
		turns(Slimify, "Slimy touch"),
		turns(ConfusingTouch, "Confusing touch"),
		turns(Antimagic, "Magic leaking"),
		turns(Withdrawn, "Withdrawn"),
		turns(Rolling, "Rolling"),
		{ID: Corroded, Name: "Corroded", DurationType: DurationTurns, MaxStacks: 4, ACPenalty: 2},
		{ID: Drained, Name: "Drained", DurationType: DurationTurns, MaxStacks: 100, ToHitPenalty: 1},
		{ID: ShieldBlocks, Name: "Shield fatigue", DurationType: DurationTurns, MaxStacks: 10},
		{ID: Constricted, Name: "Constricted", DurationType: DurationPermanent, EvasionPenalty: 5, StabTier: 4},
	}
	return defs
}

// LoadDirectory reads every *.yaml file in dir, parses each as a ConditionDef,
// and returns a Registry seeded with Defaults and overridden by the files.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
