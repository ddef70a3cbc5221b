package world

import (
	"context"
	"errors"
	"fmt"
)

// ErrBlocked is returned when a move would leave the world or cross the
// fixed impassable edge at the crash site.
var ErrBlocked = errors.New("can't go that way")

// MoveStore is the slice of the persistent store the tracker needs.
type MoveStore interface {
	UpsertCharacter(ctx context.Context, c *Character) (*Character, error)
	AppendMove(ctx context.Context, m Move) error
	MovesTouching(ctx context.Context, c Coords) ([]Move, error)
}

// Tracker validates directional movement and records traversal history.
type Tracker struct {
	store MoveStore
}

func NewTracker(store MoveStore) *Tracker {
	return &Tracker{store: store}
}

// blockedEdge reports whether the edge between two adjacent coordinates is
// impassable. The only such edge is the one north of the crash site.
func blockedEdge(a, b Coords) bool {
	wreck := Coords{0, 0}
	ridge := Coords{0, -1}
	return (a == wreck && b == ridge) || (a == ridge && b == wreck)
}

// Move attempts to walk the character one room in the given direction. On
// success the character's room is updated and persisted, and a move record
// is appended. On rejection the character is untouched and ErrBlocked is
// returned.
func (t *Tracker) Move(ctx context.Context, char *Character, dir Direction) error {
	from := char.Room
	to := from.Step(dir)

	if !to.InBounds() || blockedEdge(from, to) {
		return ErrBlocked
	}

	char.Room = to
	if _, err := t.store.UpsertCharacter(ctx, char); err != nil {
		char.Room = from
		return fmt.Errorf("saving character position: %w", err)
	}

	// The move record is best-effort co-committed with the position
	// update; path intensity tolerates a missing record.
	err := t.store.AppendMove(ctx, Move{CharacterID: char.ID, From: from, To: to})
	if err != nil {
		return fmt.Errorf("recording move: %w", err)
	}

	return nil
}

// PathUsage aggregates the traversal history touching a coordinate into a
// per-direction intensity, bucketing each neighbor's total count and capping
// it at maxIntensity (the number of path sprite variants available).
func (t *Tracker) PathUsage(ctx context.Context, c Coords, maxIntensity int) (map[Direction]int, error) {
	moves, err := t.store.MovesTouching(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("aggregating moves: %w", err)
	}

	counts := map[Direction]int{}
	for _, m := range moves {
		other := m.From
		if other == c {
			other = m.To
		} else if m.To != c {
			continue
		}
		if dir, ok := DirectionBetween(c, other); ok {
			counts[dir]++
		}
	}

	usage := map[Direction]int{}
	for dir, n := range counts {
		if n > maxIntensity {
			n = maxIntensity
		}
		if n > 0 {
			usage[dir] = n
		}
	}
	return usage, nil
}
