// Package store is the durable world store adapter: users, characters,
// rooms, and the append-only move log live behind the Store interface.
package store

import (
	"context"
	"errors"

	"github.com/funmud/funmud/internal/world"
)

// ErrNotFound is returned when a keyed lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned by SwapRoomObjects when the room changed
// underneath the caller. Retry with a fresh read.
var ErrVersionConflict = errors.New("room version conflict")

// LeaderboardEntry is one row of a score aggregation.
type LeaderboardEntry struct {
	CharacterID string
	Name        string
	Count       int
}

type Store interface {
	// GetUser returns ErrNotFound for unknown ids.
	GetUser(ctx context.Context, id string) (*world.User, error)
	// UpsertUser writes the user keyed by id and returns the stored entity.
	UpsertUser(ctx context.Context, u *world.User) (*world.User, error)

	GetCharacter(ctx context.Context, id string) (*world.Character, error)
	UpsertCharacter(ctx context.Context, c *world.Character) (*world.Character, error)

	// CharactersAt lists named, active characters currently in the room,
	// excluding characters of disabled users and characters still in
	// onboarding.
	CharactersAt(ctx context.Context, c world.Coords) ([]*world.Character, error)

	GetRoom(ctx context.Context, c world.Coords) (*world.Room, error)
	// CreateRoom persists a freshly generated room. First writer wins: if
	// the coordinate is already populated the stored room is returned
	// unchanged, so generation is idempotent in effect.
	CreateRoom(ctx context.Context, r *world.Room) (*world.Room, error)
	// SwapRoomObjects replaces a room's object list only if version still
	// matches, returning ErrVersionConflict otherwise.
	SwapRoomObjects(ctx context.Context, c world.Coords, objects []world.Object, version int64) (*world.Room, error)

	// AppendMove records one traversal. Records are write-once and safely
	// concurrent.
	AppendMove(ctx context.Context, m world.Move) error
	// MovesTouching returns every move entering or leaving the coordinate.
	MovesTouching(ctx context.Context, c world.Coords) ([]world.Move, error)

	TopByRoomsVisited(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	TopByCoconutsReturned(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	Close(ctx context.Context) error
}
