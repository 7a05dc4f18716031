// Package encounter populates an arena from content and plays it out: every
// combatant chooses its action through a tactics planner, melee is resolved
// by the combat package, and weapon hooks run as Lua.
package encounter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/actor"
	"github.com/cory-johannsen/melee/internal/game/ai"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/combatlog"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/effects"
	"github.com/cory-johannsen/melee/internal/game/tuning"
	"github.com/cory-johannsen/melee/internal/scripting"
)

// PlayerID is the roster ID of the player.
const PlayerID = "player"

// DefaultDomain is the tactics domain used when neither the player spec nor
// the monster template names one.
const DefaultDomain = "melee"

// Options configures a new Encounter.
type Options struct {
	ArenaID string
	// Player is required when the arena has a player spawn.
	Player *actor.PlayerSpec
	Oracle *dice.Oracle
	// Tuning overrides the default combat constants when non-nil.
	Tuning *tuning.Tuning
	// InstructionLimit bounds each Lua hook call; 0 selects the default.
	InstructionLimit int
	// Narrator receives every combat message; nil discards narration.
	Narrator combat.Narrator
	// DefaultDomain overrides DefaultDomain when non-empty.
	DefaultDomain string
	Logger        *zap.Logger
}

// Encounter is one populated arena. It is not safe for concurrent use.
type Encounter struct {
	Sim    *combat.Sim
	Player *actor.Player

	arena    string
	scripts  *scripting.Manager
	planners *ai.Registry
	domains  map[string]string // combatant ID -> domain ID
	ready    map[string]int    // combatant ID -> next action time in auts
	round    int
	logger   *zap.Logger
}

// New builds the arena named by opts.ArenaID from c and spawns its
// combatants.
//
// Precondition: c must be non-nil and opts.Oracle must be non-nil.
// Postcondition: Returns a ready Encounter at round 0, or an error if the
// arena, a spawn, a tactics domain or a Lua hook cannot be resolved. The
// caller must Close the Encounter.
func New(c *Content, opts Options) (*Encounter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Oracle == nil {
		return nil, errors.New("encounter: an oracle is required")
	}
	arena, ok := c.Arenas[opts.ArenaID]
	if !ok {
		return nil, fmt.Errorf("encounter: unknown arena %q", opts.ArenaID)
	}

	sim := combat.NewSim(opts.Oracle, arena.Grid.Clone(), logger)
	if opts.Tuning != nil {
		sim.Tuning = *opts.Tuning
	}
	sim.Narrator = opts.Narrator

	e := &Encounter{
		Sim:      sim,
		arena:    opts.ArenaID,
		scripts:  scripting.NewManager(logger),
		planners: ai.NewRegistry(),
		domains:  make(map[string]string),
		ready:    make(map[string]int),
		logger:   logger,
	}
	if err := e.loadScripts(c.ScriptsDir, opts.InstructionLimit); err != nil {
		e.Close()
		return nil, err
	}
	sim.Effects = effects.NewScripted(e.scripts, e.arena, logger)
	for _, d := range c.Domains {
		if err := e.planners.Register(d, e.scripts, e.arena); err != nil {
			e.Close()
			return nil, fmt.Errorf("encounter: %w", err)
		}
	}

	fallback := opts.DefaultDomain
	if fallback == "" {
		fallback = DefaultDomain
	}
	if err := e.spawn(c, opts, fallback); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.checkHooks(); err != nil {
		e.Close()
		return nil, err
	}

	logger.Info("encounter ready",
		zap.String("arena", e.arena),
		zap.Int("combatants", len(sim.Roster.All())),
	)
	return e, nil
}

// loadScripts loads the global hooks and, if present, the arena's overrides.
func (e *Encounter) loadScripts(dir string, limit int) error {
	if dir == "" {
		return nil
	}
	if err := e.scripts.LoadGlobal(dir, limit); err != nil {
		return fmt.Errorf("encounter: %w", err)
	}
	arenaDir := filepath.Join(dir, "arenas", e.arena)
	if info, err := os.Stat(arenaDir); err == nil && info.IsDir() {
		if err := e.scripts.LoadNamespace(e.arena, arenaDir, limit); err != nil {
			return fmt.Errorf("encounter: %w", err)
		}
	}
	return nil
}

func (e *Encounter) spawn(c *Content, opts Options, fallback string) error {
	arena := c.Arenas[e.arena]
	ids := make([]string, len(arena.Spawns))
	for i, sp := range arena.Spawns {
		var (
			cb     combat.Combatant
			domain string
		)
		if sp.Player {
			if opts.Player == nil {
				return fmt.Errorf("encounter: arena %q has a player spawn but no player was supplied", e.arena)
			}
			p, err := actor.NewPlayer(PlayerID, opts.Player, c.Species, c.Gear, opts.Oracle, c.Conditions)
			if err != nil {
				return fmt.Errorf("encounter: player: %w", err)
			}
			e.Player = p
			cb, domain = p, opts.Player.AIDomain
		} else {
			tmpl, ok := c.Templates[sp.Template]
			if !ok {
				return fmt.Errorf("encounter: spawn %d: unknown monster %q", i, sp.Template)
			}
			m, err := actor.NewMonster(fmt.Sprintf("%s-%d", sp.Template, i+1), tmpl, opts.Oracle, c.Gear, c.Conditions)
			if err != nil {
				return fmt.Errorf("encounter: spawn %d: %w", i, err)
			}
			m.SetAttitude(sp.Attitude)
			cb, domain = m, tmpl.AIDomain
		}
		if domain == "" {
			domain = fallback
		}
		if _, ok := e.planners.PlannerFor(domain); !ok {
			return fmt.Errorf("encounter: %s: unknown tactics domain %q", cb.ID(), domain)
		}
		cb.MoveTo(sp.At())
		if err := e.Sim.Roster.Add(cb); err != nil {
			return fmt.Errorf("encounter: %w", err)
		}
		ids[i] = cb.ID()
		e.domains[cb.ID()] = domain
		e.ready[cb.ID()] = 0
	}
	for i, sp := range arena.Spawns {
		if sp.Owner == 0 {
			continue
		}
		cb, _ := e.Sim.Roster.Get(ids[i])
		m, ok := cb.(*actor.Monster)
		if !ok {
			return fmt.Errorf("encounter: spawn %d: only monsters can be bound to an owner", i)
		}
		m.SetOwner(ids[sp.Owner-1])
	}
	return nil
}

// checkHooks fails fast on a weapon hook or tactics precondition that no
// script defines.
func (e *Encounter) checkHooks() error {
	var errs []error
	seen := make(map[string]bool)
	need := func(hook, what string) {
		if seen[hook] {
			return
		}
		seen[hook] = true
		if !e.scripts.HasHook(e.arena, hook) {
			errs = append(errs, fmt.Errorf("%s hook %q is not defined", what, hook))
		}
	}
	for _, cb := range e.Sim.Roster.All() {
		if w := cb.Weapon(); w != nil && w.Hook != "" {
			need(w.Hook, "weapon "+w.ID)
		}
		p, _ := e.planners.PlannerFor(e.domains[cb.ID()])
		for _, hook := range p.Domain().Preconditions() {
			need(hook, "tactics "+p.Domain().ID)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("encounter: %w", errors.Join(errs...))
	}
	return nil
}

// Close releases the encounter's Lua VMs.
func (e *Encounter) Close() {
	e.scripts.Close()
}

// Arena returns the arena ID.
func (e *Encounter) Arena() string { return e.arena }

// Round returns the number of rounds played.
func (e *Encounter) Round() int { return e.round }

// Domain returns the tactics domain driving the combatant with id.
func (e *Encounter) Domain(id string) string { return e.domains[id] }

// Winner reports the side left standing: combatlog.WinnerPlayer once no
// hostile monster lives, combatlog.WinnerMonsters once the player's side has
// fallen, and "" while both sides fight on.
func (e *Encounter) Winner() string {
	var players, monsters int
	for _, c := range e.Sim.Roster.Living() {
		switch ai.SideOf(c) {
		case ai.SidePlayer:
			players++
		case ai.SideMonsters:
			monsters++
		}
	}
	switch {
	case players == 0 && monsters > 0:
		return combatlog.WinnerMonsters
	case players > 0 && monsters == 0:
		return combatlog.WinnerPlayer
	}
	return ""
}

// Over reports whether the fight is decided or nobody is left to fight.
func (e *Encounter) Over() bool {
	if e.Winner() != "" {
		return true
	}
	for _, c := range e.Sim.Roster.Living() {
		if ai.SideOf(c) != ai.SideNone {
			return false
		}
	}
	return true
}

// playerName returns the name recorded for sessions.
func (e *Encounter) playerName() string {
	if e.Player != nil {
		return e.Player.CharacterName()
	}
	return "none"
}
