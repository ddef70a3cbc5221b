package session

import (
	"fmt"
	"strings"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/world"
)

// Census thresholds for classifying a generated room.
const (
	forestTreeThreshold = 3
	rockyRockThreshold  = 6
	meadowTotalMax      = 20
)

// Fixed narrative for the crash-site neighborhood.
var specialDescriptions = map[world.Coords]string{
	{X: 0, Y: 0}:  "You stand at the crash site. The wreck of your ship looms over the sand to the north.",
	{X: 0, Y: -1}: "You're on the ridge above the crash site. The broken hull of the ship blocks the way south.",
	{X: -1, Y: 0}: "Surf rolls in across the beach to the west of the crash site.",
	{X: 1, Y: 0}:  "A sheer cliff rises east of the crash site.",
}

// describeRoom derives the textual room description: a classifying first
// line, then notes on the creature, collectibles, station, and other
// occupants, in that order.
func (m *Manager) describeRoom(room *world.Room, others []*world.Character) string {
	lines := []string{m.classify(room)}

	coconuts := 0
	hasCreature, hasStation := false, false
	for _, obj := range room.Objects {
		tpl := m.catalog.Item(obj.Name)
		if tpl == nil {
			continue
		}
		switch tpl.Class {
		case assets.ClassCreature:
			hasCreature = true
		case assets.ClassStation:
			hasStation = true
		case assets.ClassCollectible:
			n := obj.Count
			if n < 1 {
				n = 1
			}
			coconuts += n
		}
	}

	if hasCreature {
		lines = append(lines, "A strange creature watches you from the undergrowth.")
	}
	if coconuts == 1 {
		lines = append(lines, "There is a coconut here.")
	} else if coconuts > 1 {
		lines = append(lines, fmt.Sprintf("There are %d coconuts here.", coconuts))
	}
	if hasStation {
		lines = append(lines, "Someone has built a collection hut here. You can drop coconuts off.")
	}
	for _, other := range others {
		lines = append(lines, fmt.Sprintf("%s is here.", other.Name))
	}

	return strings.Join(lines, "\n")
}

// classify picks the first line: fixed copy near the origin, otherwise a
// label from the object census.
func (m *Manager) classify(room *world.Room) string {
	if desc, ok := specialDescriptions[room.Coords]; ok {
		return desc
	}

	trees, rocks, total := 0, 0, 0
	for _, obj := range room.Objects {
		tpl := m.catalog.Item(obj.Name)
		if tpl == nil || tpl.Class == assets.ClassBackdrop {
			continue
		}
		total++
		switch tpl.Family {
		case "tree":
			trees++
		case "rock":
			rocks++
		}
	}

	switch {
	case trees > forestTreeThreshold:
		return "You are in a forest."
	case rocks > rockyRockThreshold:
		return "You are in a rocky area."
	case total < meadowTotalMax:
		return "You are in a grassy meadow."
	default:
		return "You are in the wilderness."
	}
}
