// Package world provides the arena the melee engine fights in: terrain,
// clouds, blood, sanctuary, noise, and dropped items on a square grid.
package world

import "fmt"

// Coord is a cell position. X grows east, Y grows south.
type Coord struct {
	X, Y int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c + d.
func (c Coord) Add(d Coord) Coord { return Coord{c.X + d.X, c.Y + d.Y} }

// Sub returns c - d.
func (c Coord) Sub(d Coord) Coord { return Coord{c.X - d.X, c.Y - d.Y} }

// Distance is the Chebyshev (king-move) distance between two cells.
func (c Coord) Distance(d Coord) int {
	dx, dy := abs(c.X-d.X), abs(c.Y-d.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Adjacent reports whether d is one of the eight neighbours of c.
func (c Coord) Adjacent(d Coord) bool {
	return c != d && c.Distance(d) == 1
}

// compass lists the eight unit vectors clockwise starting north.
var compass = [8]Coord{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Compass returns the eight unit vectors clockwise starting north.
func Compass() [8]Coord { return compass }

// RotateAdjacent turns a unit vector 45 degrees: clockwise for dir > 0,
// anticlockwise for dir < 0.
//
// Precondition: v is one of the eight unit vectors. Panics otherwise.
func RotateAdjacent(v Coord, dir int) Coord {
	for i, c := range compass {
		if c != v {
			continue
		}
		step := 1
		if dir < 0 {
			step = -1
		}
		return compass[(i+step+8)%8]
	}
	panic(fmt.Sprintf("world: RotateAdjacent called with non-unit vector %s", v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
