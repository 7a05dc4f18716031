package world

import (
	"maps"
	"slices"
)

// Feature is the terrain occupying a cell.
type Feature int

const (
	Floor Feature = iota
	Wall
	ShallowWater
	DeepWater
	Lava
	Tree
	Statue
)

// Solid reports whether the feature blocks movement and cleave sweeps.
func (f Feature) Solid() bool {
	return f == Wall || f == Tree || f == Statue
}

// CloudKind is a cloud that can hang over a cell.
type CloudKind int

const (
	NoCloud CloudKind = iota
	FireCloud
	ColdCloud
	PoisonCloud
	SteamCloud
	MiasmaCloud
)

func (k CloudKind) String() string {
	switch k {
	case FireCloud:
		return "flames"
	case ColdCloud:
		return "freezing vapour"
	case PoisonCloud:
		return "noxious fumes"
	case SteamCloud:
		return "steam"
	case MiasmaCloud:
		return "foul pestilence"
	default:
		return "none"
	}
}

// Cloud is a cloud with its remaining lifetime and owner.
type Cloud struct {
	Kind   CloudKind
	Turns  int
	Source string
}

// Noise is one noise emitted during a turn.
type Noise struct {
	At       Coord
	Loudness int
	Source   string
}

// Grid is the arena. It is not safe for concurrent use.
type Grid struct {
	ID            string
	Name          string
	Width, Height int

	cells     []Feature
	clouds    map[Coord]Cloud
	blood     map[Coord]int
	sanctuary map[Coord]bool
	items     map[Coord][]string
	noises    []Noise
}

// NewGrid creates a width×height arena of open floor.
//
// Precondition: width and height must be > 0.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		cells:     make([]Feature, width*height),
		clouds:    make(map[Coord]Cloud),
		blood:     make(map[Coord]int),
		sanctuary: make(map[Coord]bool),
		items:     make(map[Coord][]string),
	}
}

// InBounds reports whether c lies inside the arena.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Feature returns the terrain at c. Out-of-bounds cells read as Wall.
func (g *Grid) Feature(c Coord) Feature {
	if !g.InBounds(c) {
		return Wall
	}
	return g.cells[c.Y*g.Width+c.X]
}

// SetFeature replaces the terrain at c. Out-of-bounds writes are ignored.
func (g *Grid) SetFeature(c Coord, f Feature) {
	if g.InBounds(c) {
		g.cells[c.Y*g.Width+c.X] = f
	}
}

// IsSolid reports whether c is out of bounds or blocked by terrain.
func (g *Grid) IsSolid(c Coord) bool {
	return g.Feature(c).Solid()
}

// Neighbours returns the in-bounds cells adjacent to c, clockwise from north.
func (g *Grid) Neighbours(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, d := range compass {
		if n := c.Add(d); g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// PlaceCloud puts a cloud on c unless the cell is solid. An existing cloud
// of a different kind is replaced; the same kind has its lifetime extended.
//
// Postcondition: returns true iff a cloud now covers c.
func (g *Grid) PlaceCloud(c Coord, kind CloudKind, turns int, source string) bool {
	if kind == NoCloud || g.IsSolid(c) {
		return false
	}
	if existing, ok := g.clouds[c]; ok && existing.Kind == kind && existing.Turns > turns {
		turns = existing.Turns
	}
	g.clouds[c] = Cloud{Kind: kind, Turns: turns, Source: source}
	return true
}

// CloudAt returns the cloud covering c, if any.
func (g *Grid) CloudAt(c Coord) (Cloud, bool) {
	cl, ok := g.clouds[c]
	return cl, ok
}

// Bleed adds amount of blood to c.
func (g *Grid) Bleed(c Coord, amount int) {
	if amount > 0 && !g.IsSolid(c) {
		g.blood[c] += amount
	}
}

// BloodAt returns how much blood has been spilled on c.
func (g *Grid) BloodAt(c Coord) int {
	return g.blood[c]
}

// SetSanctuary marks every cell within radius of centre as sanctuary.
func (g *Grid) SetSanctuary(centre Coord, radius int) {
	for y := centre.Y - radius; y <= centre.Y+radius; y++ {
		for x := centre.X - radius; x <= centre.X+radius; x++ {
			if c := (Coord{x, y}); g.InBounds(c) {
				g.sanctuary[c] = true
			}
		}
	}
}

// InSanctuary reports whether c is protected by a sanctuary.
func (g *Grid) InSanctuary(c Coord) bool {
	return g.sanctuary[c]
}

// HasSanctuary reports whether any sanctuary exists in the arena.
func (g *Grid) HasSanctuary() bool {
	return len(g.sanctuary) > 0
}

// RemoveSanctuary dispels the sanctuary entirely.
func (g *Grid) RemoveSanctuary() {
	g.sanctuary = make(map[Coord]bool)
}

// Noise records a noise at c. Non-positive loudness is ignored.
func (g *Grid) Noise(c Coord, loudness int, source string) {
	if loudness > 0 {
		g.noises = append(g.noises, Noise{At: c, Loudness: loudness, Source: source})
	}
}

// Noises returns the noises recorded since the last DrainNoises.
func (g *Grid) Noises() []Noise {
	out := make([]Noise, len(g.noises))
	copy(out, g.noises)
	return out
}

// DrainNoises returns and clears the recorded noises.
func (g *Grid) DrainNoises() []Noise {
	out := g.noises
	g.noises = nil
	return out
}

// DropItem leaves a named item on c.
func (g *Grid) DropItem(c Coord, name string) {
	g.items[c] = append(g.items[c], name)
}

// ItemsAt returns the items lying on c.
func (g *Grid) ItemsAt(c Coord) []string {
	return g.items[c]
}

// Tick ages every cloud by one turn and removes the ones that dissipate.
func (g *Grid) Tick() {
	for c, cl := range g.clouds {
		cl.Turns--
		if cl.Turns <= 0 {
			delete(g.clouds, c)
			continue
		}
		g.clouds[c] = cl
	}
}

// Clone returns an independent copy of g, so one loaded arena can seed many
// simulations.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		ID:        g.ID,
		Name:      g.Name,
		Width:     g.Width,
		Height:    g.Height,
		cells:     slices.Clone(g.cells),
		clouds:    maps.Clone(g.clouds),
		blood:     maps.Clone(g.blood),
		sanctuary: maps.Clone(g.sanctuary),
		items:     make(map[Coord][]string, len(g.items)),
		noises:    slices.Clone(g.noises),
	}
	for at, items := range g.items {
		c.items[at] = slices.Clone(items)
	}
	return c
}
