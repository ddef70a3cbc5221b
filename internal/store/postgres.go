package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/funmud/funmud/internal/world"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}

	config.MaxConns = 25
	config.MaxConnLifetime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Run migrations over a throwaway database/sql handle
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(postgresMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations/postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*world.User, error) {
	q := `SELECT id, character_id, state, disabled FROM users WHERE id = $1`

	var u world.User
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.CharacterID, &u.State, &u.Disabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u *world.User) (*world.User, error) {
	q := `
	INSERT INTO users (id, character_id, state, disabled)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET character_id = EXCLUDED.character_id,
	    state = EXCLUDED.state,
	    disabled = EXCLUDED.disabled
	RETURNING id, character_id, state, disabled`

	var out world.User
	err := s.pool.QueryRow(ctx, q, u.ID, u.CharacterID, int(u.State), u.Disabled).
		Scan(&out.ID, &out.CharacterID, &out.State, &out.Disabled)
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return &out, nil
}

func (s *PostgresStore) GetCharacter(ctx context.Context, id string) (*world.Character, error) {
	q := `
	SELECT id, user_id, type, name, name_pending, room_x, room_y, coconuts, coconuts_returned
	FROM characters WHERE id = $1`

	var c world.Character
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.UserID, &c.Type, &c.Name, &c.NamePending,
		&c.Room.X, &c.Room.Y, &c.Coconuts, &c.CoconutsReturned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) UpsertCharacter(ctx context.Context, c *world.Character) (*world.Character, error) {
	q := `
	INSERT INTO characters (id, user_id, type, name, name_pending, room_x, room_y, coconuts, coconuts_returned)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
	    name_pending = EXCLUDED.name_pending,
	    room_x = EXCLUDED.room_x,
	    room_y = EXCLUDED.room_y,
	    coconuts = EXCLUDED.coconuts,
	    coconuts_returned = EXCLUDED.coconuts_returned
	RETURNING id, user_id, type, name, name_pending, room_x, room_y, coconuts, coconuts_returned`

	var out world.Character
	err := s.pool.QueryRow(ctx, q,
		c.ID, c.UserID, c.Type, c.Name, c.NamePending,
		c.Room.X, c.Room.Y, c.Coconuts, c.CoconutsReturned).
		Scan(&out.ID, &out.UserID, &out.Type, &out.Name, &out.NamePending,
			&out.Room.X, &out.Room.Y, &out.Coconuts, &out.CoconutsReturned)
	if err != nil {
		return nil, fmt.Errorf("upserting character: %w", err)
	}
	return &out, nil
}

func (s *PostgresStore) CharactersAt(ctx context.Context, at world.Coords) ([]*world.Character, error) {
	q := `
	SELECT c.id, c.user_id, c.type, c.name, c.name_pending, c.room_x, c.room_y, c.coconuts, c.coconuts_returned
	FROM characters c
	JOIN users u ON u.character_id = c.id
	WHERE c.room_x = $1 AND c.room_y = $2
	  AND c.name <> ''
	  AND NOT u.disabled
	  AND u.state = $3
	ORDER BY c.id`

	rows, err := s.pool.Query(ctx, q, at.X, at.Y, int(world.StateActive))
	if err != nil {
		return nil, fmt.Errorf("querying occupants: %w", err)
	}
	defer rows.Close()

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

func (s *PostgresStore) GetRoom(ctx context.Context, c world.Coords) (*world.Room, error) {
	q := `SELECT objects, version FROM rooms WHERE x = $1 AND y = $2`

	var objectsJSON []byte
	r := world.Room{Coords: c}
	err := s.pool.QueryRow(ctx, q, c.X, c.Y).Scan(&objectsJSON, &r.Version)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresStore) CreateRoom(ctx context.Context, r *world.Room) (*world.Room, error) {
	objectsJSON, err := json.Marshal(r.Objects)
	if err != nil {
		return nil, fmt.Errorf("encoding room objects: %w", err)
	}

	// First writer wins; losers read back whatever got stored first.
	q := `INSERT INTO rooms (x, y, objects, version) VALUES ($1, $2, $3, 1) ON CONFLICT (x, y) DO NOTHING`
	if _, err := s.pool.Exec(ctx, q, r.Coords.X, r.Coords.Y, objectsJSON); err != nil {
		return nil, fmt.Errorf("inserting room: %w", err)
	}

	return s.GetRoom(ctx, r.Coords)
}

func (s *PostgresStore) SwapRoomObjects(ctx context.Context, c world.Coords, objects []world.Object, version int64) (*world.Room, error) {
	objectsJSON, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("encoding room objects: %w", err)
	}

	q := `
	UPDATE rooms SET objects = $3, version = version + 1
	WHERE x = $1 AND y = $2 AND version = $4
	RETURNING version`

	var newVersion int64
	err = s.pool.QueryRow(ctx, q, c.X, c.Y, objectsJSON, version).Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetRoom(ctx, c); errors.Is(getErr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("swapping room objects: %w", err)
	}

	return &world.Room{Coords: c, Objects: objects, Version: newVersion}, nil
}

func (s *PostgresStore) AppendMove(ctx context.Context, m world.Move) error {
	q := `INSERT INTO moves (character_id, from_x, from_y, to_x, to_y) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, q, m.CharacterID, m.From.X, m.From.Y, m.To.X, m.To.Y)
	if err != nil {
		return fmt.Errorf("inserting move: %w", err)
	}
	return nil
}

func (s *PostgresStore) MovesTouching(ctx context.Context, c world.Coords) ([]world.Move, error) {
	q := `
	SELECT character_id, from_x, from_y, to_x, to_y
	FROM moves
	WHERE (from_x = $1 AND from_y = $2) OR (to_x = $1 AND to_y = $2)`

	rows, err := s.pool.Query(ctx, q, c.X, c.Y)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	defer rows.Close()

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

func (s *PostgresStore) TopByRoomsVisited(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := `
	SELECT m.character_id, COALESCE(c.name, ''), COUNT(DISTINCT (m.to_x, m.to_y)) AS rooms
	FROM moves m
	LEFT JOIN characters c ON c.id = m.character_id
	GROUP BY m.character_id, c.name
	ORDER BY rooms DESC, m.character_id
	LIMIT $1`

	return s.queryLeaderboard(ctx, q, limit)
}

func (s *PostgresStore) TopByCoconutsReturned(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	q := `
	SELECT id, name, coconuts_returned
	FROM characters
	WHERE coconuts_returned > 0
	ORDER BY coconuts_returned DESC, id
	LIMIT $1`

	return s.queryLeaderboard(ctx, q, limit)
}

func (s *PostgresStore) queryLeaderboard(ctx context.Context, q string, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

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

func (s *PostgresStore) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}
