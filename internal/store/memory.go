package store

import (
	"context"
	"sort"
	"sync"

	"github.com/funmud/funmud/internal/world"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and
// zero-config local runs; nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*world.User
	chars map[string]*world.Character
	rooms map[string]*world.Room
	moves []world.Move
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[string]*world.User{},
		chars: map[string]*world.Character{},
		rooms: map[string]*world.Room{},
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*world.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, u *world.User) (*world.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.users[u.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) GetCharacter(_ context.Context, id string) (*world.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chars[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) UpsertCharacter(_ context.Context, c *world.Character) (*world.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.chars[c.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) CharactersAt(_ context.Context, at world.Coords) ([]*world.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*world.Character
	for _, c := range s.chars {
		if c.Room != at || c.Name == "" {
			continue
		}
		u, ok := s.users[c.UserID]
		if !ok || u.Disabled || u.State != world.StateActive || u.CharacterID != c.ID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, c world.Coords) (*world.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[c.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(r), nil
}

func (s *MemoryStore) CreateRoom(_ context.Context, r *world.Room) (*world.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rooms[r.Coords.String()]; ok {
		return copyRoom(existing), nil
	}

	cp := copyRoom(r)
	cp.Version = 1
	s.rooms[r.Coords.String()] = cp
	return copyRoom(cp), nil
}

func (s *MemoryStore) SwapRoomObjects(_ context.Context, c world.Coords, objects []world.Object, version int64) (*world.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[c.String()]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Version != version {
		return nil, ErrVersionConflict
	}

	r.Objects = append([]world.Object(nil), objects...)
	r.Version++
	return copyRoom(r), nil
}

func (s *MemoryStore) AppendMove(_ context.Context, m world.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moves = append(s.moves, m)
	return nil
}

func (s *MemoryStore) MovesTouching(_ context.Context, c world.Coords) ([]world.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []world.Move
	for _, m := range s.moves {
		if m.From == c || m.To == c {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) TopByRoomsVisited(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visited := map[string]map[world.Coords]bool{}
	for _, m := range s.moves {
		if visited[m.CharacterID] == nil {
			visited[m.CharacterID] = map[world.Coords]bool{}
		}
		visited[m.CharacterID][m.To] = true
	}

	var entries []LeaderboardEntry
	for id, rooms := range visited {
		e := LeaderboardEntry{CharacterID: id, Count: len(rooms)}
		if c, ok := s.chars[id]; ok {
			e.Name = c.Name
		}
		entries = append(entries, e)
	}

	sortEntries(entries)
	return clipEntries(entries, limit), nil
}

func (s *MemoryStore) TopByCoconutsReturned(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []LeaderboardEntry
	for _, c := range s.chars {
		if c.CoconutsReturned == 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			CharacterID: c.ID,
			Name:        c.Name,
			Count:       c.CoconutsReturned,
		})
	}

	sortEntries(entries)
	return clipEntries(entries, limit), nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func copyRoom(r *world.Room) *world.Room {
	cp := *r
	cp.Objects = append([]world.Object(nil), r.Objects...)
	return &cp
}

func sortEntries(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].CharacterID < entries[j].CharacterID
	})
}

func clipEntries(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
