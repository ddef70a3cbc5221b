package world

import (
	"fmt"
	"strings"
)

// World bounds, longitude/latitude style. Coordinates outside this box
// do not exist and movement into them is rejected.
const (
	MinX = -180
	MaxX = 180
	MinY = -90
	MaxY = 90
)

// Coords addresses a room on the integer grid. The coordinate pair is the
// room's identity; there is no synthetic room id.
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is the crash site where every new character arrives.
var Origin = Coords{0, 0}

func (c Coords) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// InBounds reports whether the coordinate lies inside the world box.
func (c Coords) InBounds() bool {
	return c.X >= MinX && c.X <= MaxX && c.Y >= MinY && c.Y <= MaxY
}

// Step returns the neighboring coordinate in the given direction.
// North decreases Y.
func (c Coords) Step(d Direction) Coords {
	dx, dy := d.Delta()
	return Coords{c.X + dx, c.Y + dy}
}

// ParseCoords parses "x,y" into a coordinate pair.
func ParseCoords(s string) (Coords, error) {
	var c Coords
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return c, fmt.Errorf("malformed coordinate %q", s)
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &c.X); err != nil {
		return c, fmt.Errorf("malformed coordinate %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &c.Y); err != nil {
		return c, fmt.Errorf("malformed coordinate %q", s)
	}
	return c, nil
}

type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = map[Direction]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
}

func (d Direction) String() string {
	return directionNames[d]
}

// Delta returns the unit grid offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	}
	return East
}

// Directions lists all four directions in a stable order.
var Directions = []Direction{North, South, East, West}

// ParseDirection accepts full names and single-letter aliases.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "e", "east":
		return East, true
	case "w", "west":
		return West, true
	}
	return North, false
}

// DirectionBetween returns the direction from one coordinate to an adjacent
// one, and false if the two are not grid neighbors.
func DirectionBetween(from, to Coords) (Direction, bool) {
	for _, d := range Directions {
		if from.Step(d) == to {
			return d, true
		}
	}
	return North, false
}
