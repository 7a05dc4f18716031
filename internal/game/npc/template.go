// Package npc provides monster template definitions loaded from YAML.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// MaxAttacks is the number of natural attack slots a monster may define.
const MaxAttacks = 4

// Template defines a reusable monster archetype loaded from YAML.
type Template struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	HitDice     int             `yaml:"hit_dice"`
	HitPoints   dice.Expression `yaml:"hit_points"`
	AC          int             `yaml:"ac"`
	EV          int             `yaml:"ev"`
	// Shield is the block bonus of a carried shield; 0 = none.
	Shield int `yaml:"shield"`
	// Speed is the energy a normal action costs; 10 is normal speed.
	Speed    int                     `yaml:"speed"`
	Attacks  []ruleset.MonsterAttack `yaml:"attacks"`
	Flags    []ruleset.MonsterFlag   `yaml:"flags"`
	Holiness ruleset.Holiness        `yaml:"holiness"`
	Resists  map[ruleset.Element]int `yaml:"resists"`
	// Heads is the starting head count of a hydra; ignored otherwise.
	Heads int `yaml:"heads"`
	// Weapon is the ID of the weapon the monster spawns wielding, if any.
	Weapon       string `yaml:"weapon"`
	MagicPoints  int    `yaml:"magic_points"`
	Bloodless    bool   `yaml:"bloodless"`
	Flies        bool   `yaml:"flies"`
	SeeInvisible bool   `yaml:"see_invisible"`
	Invisible    bool   `yaml:"invisible"`
	Summoned     bool   `yaml:"summoned"`
	// PhaseShift is evasion gained from flickering out of phase.
	PhaseShift int `yaml:"phase_shift"`
	// MagicResistance defaults to ten per hit die when zero.
	MagicResistance int `yaml:"magic_resistance"`
	// AIDomain names the tactics domain the monster fights with; empty
	// selects the encounter default.
	AIDomain string `yaml:"ai_domain"`
}

// HasFlag reports whether the template carries f.
func (t *Template) HasFlag(f ruleset.MonsterFlag) bool {
	for _, have := range t.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every field is in range; otherwise returns
// all violations joined.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.HitDice < 1 {
		errs = append(errs, errors.New("hit_dice must be >= 1"))
	}
	if t.HitPoints.Raw == "" || t.HitPoints.Max() < 1 {
		errs = append(errs, errors.New("hit_points must be a dice expression with a maximum >= 1"))
	}
	if t.AC < 0 || t.EV < 0 || t.Shield < 0 {
		errs = append(errs, errors.New("ac, ev and shield must be >= 0"))
	}
	if t.Speed < 0 {
		errs = append(errs, errors.New("speed must be >= 0"))
	}
	if len(t.Attacks) == 0 || len(t.Attacks) > MaxAttacks {
		errs = append(errs, fmt.Errorf("attacks must list 1-%d entries, got %d", MaxAttacks, len(t.Attacks)))
	}
	for i, a := range t.Attacks {
		if a.Type == ruleset.AttackNone {
			errs = append(errs, fmt.Errorf("attack %d: type must not be none", i))
		}
		if a.Damage < 0 {
			errs = append(errs, fmt.Errorf("attack %d: damage must be >= 0", i))
		}
	}
	if t.HasFlag(ruleset.FlagHydra) && t.Heads < 1 {
		errs = append(errs, errors.New("hydras need heads >= 1"))
	}
	for el, lvl := range t.Resists {
		if lvl < -1 || lvl > 3 {
			errs = append(errs, fmt.Errorf("resist %s must be between -1 and 3, got %d", el, lvl))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("npc template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template with Speed defaulted to 10, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if tmpl.Speed == 0 {
		tmpl.Speed = 10
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse, validate
// or duplicate-ID failure; on error, the partial result is discarded.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}

// HealthDescription returns a visible health state string for hp out of max.
//
// Postcondition: Returns a non-empty string.
func HealthDescription(hp, max int) string {
	if hp <= 0 {
		return "dead"
	}
	pct := float64(hp) / float64(max)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "almost dead"
	}
}
