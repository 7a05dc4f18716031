package encounter

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/game/ai"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Content is every definition an encounter draws on. It is read-only once
// loaded and may seed any number of encounters.
type Content struct {
	Gear       *inventory.Registry
	Templates  map[string]*npc.Template
	Species    map[string]*ruleset.SpeciesDef
	Conditions *condition.Registry
	Arenas     map[string]*world.Arena
	Domains    []*ai.Domain
	// ScriptsDir holds the global Lua hooks; arena overrides live in
	// ScriptsDir/arenas/<arena id>. Empty disables scripting.
	ScriptsDir string
}

// LoadContent reads every content directory named by cfg.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns fully loaded Content or the first loader error.
func LoadContent(cfg config.ContentConfig, logger *zap.Logger) (*Content, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	c := &Content{ScriptsDir: cfg.ScriptsDir, Species: map[string]*ruleset.SpeciesDef{}}

	var err error
	if c.Gear, err = inventory.LoadRegistry(cfg.WeaponsDir, cfg.ArmourDir); err != nil {
		return nil, fmt.Errorf("loading gear: %w", err)
	}
	if c.Templates, err = npc.LoadTemplates(cfg.MonstersDir); err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	if cfg.SpeciesDir != "" {
		if c.Species, err = ruleset.LoadSpecies(cfg.SpeciesDir); err != nil {
			return nil, fmt.Errorf("loading species: %w", err)
		}
	}
	if c.Conditions, err = condition.LoadDirectory(cfg.ConditionsDir); err != nil {
		return nil, fmt.Errorf("loading conditions: %w", err)
	}
	if c.Arenas, err = world.LoadArenasFromDir(cfg.ArenasDir); err != nil {
		return nil, fmt.Errorf("loading arenas: %w", err)
	}
	if c.Domains, err = ai.LoadDomains(cfg.AIDir); err != nil {
		return nil, fmt.Errorf("loading tactics: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}

	logger.Info("content loaded",
		zap.Int("monsters", len(c.Templates)),
		zap.Int("species", len(c.Species)),
		zap.Int("arenas", len(c.Arenas)),
		zap.Int("domains", len(c.Domains)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, nil
}

// check cross-references the loaded definitions.
func (c *Content) check() error {
	for id, a := range c.Arenas {
		for i, sp := range a.Spawns {
			if sp.Player {
				continue
			}
			if _, ok := c.Templates[sp.Template]; !ok {
				return fmt.Errorf("arena %q spawn %d: unknown monster %q", id, i, sp.Template)
			}
		}
	}
	for id, t := range c.Templates {
		if t.Weapon != "" && c.Gear.Weapon(t.Weapon) == nil {
			return fmt.Errorf("monster %q: unknown weapon %q", id, t.Weapon)
		}
		if t.AIDomain != "" && c.domain(t.AIDomain) == nil {
			return fmt.Errorf("monster %q: unknown tactics domain %q", id, t.AIDomain)
		}
	}
	return nil
}

func (c *Content) domain(id string) *ai.Domain {
	for _, d := range c.Domains {
		if d.ID == id {
			return d
		}
	}
	return nil
}
