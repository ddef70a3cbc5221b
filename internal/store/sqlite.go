package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/funmud/funmud/internal/world"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// SQLiteStore implements Store on a local database file. Suitable for
// single-process deployments.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	goose.SetBaseFS(sqliteMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*world.User, error) {
	q := `SELECT id, character_id, state, disabled FROM users WHERE id = ?`

	var u world.User
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.CharacterID, &u.State, &u.Disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, u *world.User) (*world.User, error) {
	q := `
	INSERT INTO users (id, character_id, state, disabled)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET character_id = excluded.character_id,
	    state = excluded.state,
	    disabled = excluded.disabled`

	if _, err := s.db.ExecContext(ctx, q, u.ID, u.CharacterID, int(u.State), u.Disabled); err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *SQLiteStore) GetCharacter(ctx context.Context, id string) (*world.Character, error) {
	q := `
	SELECT id, user_id, type, name, name_pending, room_x, room_y, coconuts, coconuts_returned
	FROM characters WHERE id = ?`

	var c world.Character
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.UserID, &c.Type, &c.Name, &c.NamePending,
		&c.Room.X, &c.Room.Y, &c.Coconuts, &c.CoconutsReturned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

func (s *SQLiteStore) UpsertCharacter(ctx context.Context, c *world.Character) (*world.Character, error) {
	q := `
	INSERT INTO characters (id, user_id, type, name, name_pending, room_x, room_y, coconuts, coconuts_returned)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = excluded.name,
	    name_pending = excluded.name_pending,
	    room_x = excluded.room_x,
	    room_y = excluded.room_y,
	    coconuts = excluded.coconuts,
	    coconuts_returned = excluded.coconuts_returned`

	_, err := s.db.ExecContext(ctx, q,
		c.ID, c.UserID, c.Type, c.Name, c.NamePending,
		c.Room.X, c.Room.Y, c.Coconuts, c.CoconutsReturned)
	if err != nil {
		return nil, fmt.Errorf("upserting character: %w", err)
	}
	return s.GetCharacter(ctx, c.ID)
}

func (s *SQLiteStore) CharactersAt(ctx context.Context, at world.Coords) ([]*world.Character, error) {
	q := `
	SELECT c.id, c.user_id, c.type, c.name, c.name_pending, c.room_x, c.room_y, c.coconuts, c.coconuts_returned
	FROM characters c
	JOIN users u ON u.character_id = c.id
	WHERE c.room_x = ? AND c.room_y = ?
	  AND c.name <> ''
	  AND NOT u.disabled
	  AND u.state = ?
	ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, q, at.X, at.Y, int(world.StateActive))
	if err != nil {
		return nil, fmt.Errorf("querying occupants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*world.Character
	for rows.Next() {
		var c world.Character
		err := rows.Scan(&c.ID, &c.UserID, &c.Type, &c.Name, &c.NamePending,
			&c.Room.X, &c.Room.Y, &c.Coconuts, &c.CoconutsReturned)
		if err != nil {
			return nil, fmt.Errorf("scanning occupant: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetRoom(ctx context.Context, c world.Coords) (*world.Room, error) {
	q := `SELECT objects, version FROM rooms WHERE x = ? AND y = ?`

	var objectsJSON []byte
	r := world.Room{Coords: c}
	err := s.db.QueryRowContext(ctx, q, c.X, c.Y).Scan(&objectsJSON, &r.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying room: %w", err)
	}

	if err := json.Unmarshal(objectsJSON, &r.Objects); err != nil {
		return nil, fmt.Errorf("decoding room objects: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) CreateRoom(ctx context.Context, r *world.Room) (*world.Room, error) {
	objectsJSON, err := json.Marshal(r.Objects)
	if err != nil {
		return nil, fmt.Errorf("encoding room objects: %w", err)
	}

	q := `INSERT INTO rooms (x, y, objects, version) VALUES (?, ?, ?, 1) ON CONFLICT (x, y) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, r.Coords.X, r.Coords.Y, objectsJSON); err != nil {
		return nil, fmt.Errorf("inserting room: %w", err)
	}

	return s.GetRoom(ctx, r.Coords)
}

func (s *SQLiteStore) SwapRoomObjects(ctx context.Context, c world.Coords, objects []world.Object, version int64) (*world.Room, error) {
	objectsJSON, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("encoding room objects: %w", err)
	}

	q := `UPDATE rooms SET objects = ?, version = version + 1 WHERE x = ? AND y = ? AND version = ?`
	res, err := s.db.ExecContext(ctx, q, objectsJSON, c.X, c.Y, version)
	if err != nil {
		return nil, fmt.Errorf("swapping room objects: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking swap result: %w", err)
	}
	if n == 0 {
		if _, getErr := s.GetRoom(ctx, c); errors.Is(getErr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}

	return &world.Room{Coords: c, Objects: objects, Version: version + 1}, nil
}

func (s *SQLiteStore) AppendMove(ctx context.Context, m world.Move) error {
	q := `INSERT INTO moves (character_id, from_x, from_y, to_x, to_y) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, m.CharacterID, m.From.X, m.From.Y, m.To.X, m.To.Y); err != nil {
		return fmt.Errorf("inserting move: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MovesTouching(ctx context.Context, c world.Coords) ([]world.Move, error) {
	q := `
	SELECT character_id, from_x, from_y, to_x, to_y
	FROM moves
	WHERE (from_x = ? AND from_y = ?) OR (to_x = ? AND to_y = ?)`

	rows, err := s.db.QueryContext(ctx, q, c.X, c.Y, c.X, c.Y)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []world.Move
	for rows.Next() {
		var m world.Move
		if err := rows.Scan(&m.CharacterID, &m.From.X, &m.From.Y, &m.To.X, &m.To.Y); err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) TopByRoomsVisited(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := `
	SELECT m.character_id, COALESCE(c.name, ''), COUNT(DISTINCT m.to_x || ',' || m.to_y) AS rooms
	FROM moves m
	LEFT JOIN characters c ON c.id = m.character_id
	GROUP BY m.character_id, c.name
	ORDER BY rooms DESC, m.character_id
	LIMIT ?`

	return s.queryLeaderboard(ctx, q, limit)
}

func (s *SQLiteStore) TopByCoconutsReturned(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := `
	SELECT id, name, coconuts_returned
	FROM characters
	WHERE coconuts_returned > 0
	ORDER BY coconuts_returned DESC, id
	LIMIT ?`

	return s.queryLeaderboard(ctx, q, limit)
}

func (s *SQLiteStore) queryLeaderboard(ctx context.Context, q string, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.CharacterID, &e.Name, &e.Count); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close(_ context.Context) error {
	return s.db.Close()
}
