package world

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// legend maps map characters to terrain.
var legend = map[rune]Feature{
	'.': Floor,
	'#': Wall,
	'~': ShallowWater,
	'W': DeepWater,
	'l': Lava,
	'T': Tree,
	'S': Statue,
}

// Spawn places one combatant when an arena is populated.
type Spawn struct {
	// Template is the monster template ID; empty for the player.
	Template string           `yaml:"template"`
	Player   bool             `yaml:"player"`
	X        int              `yaml:"x"`
	Y        int              `yaml:"y"`
	Attitude ruleset.Attitude `yaml:"attitude"`
	// Owner binds a spectral weapon to the spawn at that 1-based position;
	// 0 means unowned.
	Owner int `yaml:"owner"`
}

// At returns the spawn position.
func (s Spawn) At() Coord { return Coord{s.X, s.Y} }

// Arena is a loaded grid plus its starting placements.
type Arena struct {
	Grid   *Grid
	Spawns []Spawn
}

// yamlArenaFile is the top-level YAML structure for arena files.
type yamlArenaFile struct {
	Arena yamlArena `yaml:"arena"`
}

type yamlArena struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Map       string         `yaml:"map"`
	Sanctuary *yamlSanctuary `yaml:"sanctuary"`
	Spawns    []Spawn        `yaml:"spawns"`
}

type yamlSanctuary struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Radius int `yaml:"radius"`
}

// LoadArenaFromFile reads and validates a single arena YAML file.
//
// Precondition: path must point to a valid YAML arena file.
// Postcondition: Returns a validated Arena or a non-nil error.
func LoadArenaFromFile(path string) (*Arena, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading arena file %s: %w", path, err)
	}
	return LoadArenaFromBytes(data)
}

// LoadArenaFromBytes parses and validates an arena from YAML bytes.
//
// Postcondition: Returns a validated Arena or a non-nil error.
func LoadArenaFromBytes(data []byte) (*Arena, error) {
	var file yamlArenaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing arena YAML: %w", err)
	}
	arena, err := convertYAMLArena(file.Arena)
	if err != nil {
		return nil, fmt.Errorf("validating arena %q: %w", file.Arena.ID, err)
	}
	return arena, nil
}

// LoadArenasFromDir loads every YAML file in dir keyed by arena ID.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated arenas or the first error encountered.
func LoadArenasFromDir(dir string) (map[string]*Arena, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading arena directory %s: %w", dir, err)
	}
	arenas := make(map[string]*Arena)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		a, err := LoadArenaFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading arena from %s: %w", name, err)
		}
		arenas[a.Grid.ID] = a
	}
	if len(arenas) == 0 {
		return nil, fmt.Errorf("no arena files found in %s", dir)
	}
	return arenas, nil
}

func convertYAMLArena(ya yamlArena) (*Arena, error) {
	var errs []error
	if ya.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	rows := strings.Split(strings.Trim(ya.Map, "\n"), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return nil, errors.Join(append(errs, errors.New("map must not be empty"))...)
	}
	width := len([]rune(rows[0]))
	for i, row := range rows {
		if n := len([]rune(row)); n != width {
			errs = append(errs, fmt.Errorf("map row %d has width %d, want %d", i, n, width))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g := NewGrid(width, len(rows))
	g.ID, g.Name = ya.ID, ya.Name
	for y, row := range rows {
		for x, ch := range []rune(row) {
			f, ok := legend[ch]
			if !ok {
				errs = append(errs, fmt.Errorf("unknown map character %q at (%d,%d)", ch, x, y))
				continue
			}
			g.SetFeature(Coord{x, y}, f)
		}
	}

	if s := ya.Sanctuary; s != nil {
		g.SetSanctuary(Coord{s.X, s.Y}, s.Radius)
	}

	players := 0
	occupied := make(map[Coord]bool)
	for i, sp := range ya.Spawns {
		at := sp.At()
		if sp.Player {
			players++
		} else if sp.Template == "" {
			errs = append(errs, fmt.Errorf("spawn %d needs a template or player: true", i))
		}
		if g.IsSolid(at) {
			errs = append(errs, fmt.Errorf("spawn %d at %s is inside solid terrain", i, at))
		}
		if occupied[at] {
			errs = append(errs, fmt.Errorf("spawn %d at %s overlaps another spawn", i, at))
		}
		occupied[at] = true
		if sp.Owner < 0 || sp.Owner > len(ya.Spawns) || sp.Owner == i+1 {
			errs = append(errs, fmt.Errorf("spawn %d owner %d must name another spawn", i, sp.Owner))
		}
	}
	if players > 1 {
		errs = append(errs, fmt.Errorf("at most one player spawn allowed, got %d", players))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Arena{Grid: g, Spawns: ya.Spawns}, nil
}
