package command

import (
	"context"
	"fmt"

	"github.com/funmud/funmud/internal/store"
	"github.com/pixil98/go-errors"
)

type StoreDriver int

const (
	StoreDriverMemory StoreDriver = iota
	StoreDriverSQLite
	StoreDriverPostgres
)

func (d *StoreDriver) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "memory":
		*d = StoreDriverMemory
	case "sqlite":
		*d = StoreDriverSQLite
	case "postgres":
		*d = StoreDriverPostgres
	default:
		return fmt.Errorf("unknown store driver: %s", text)
	}
	return nil
}

type StoreConfig struct {
	// Driver selects the backend: memory (default), sqlite, or postgres.
	Driver StoreDriver `json:"driver"`

	// Path is the database file for the sqlite driver.
	Path string `json:"path,omitempty"`

	// DSN is the connection string for the postgres driver.
	DSN string `json:"dsn,omitempty"`
}

func (c *StoreConfig) Validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case StoreDriverSQLite:
		if c.Path == "" {
			el.Add(fmt.Errorf("path is required for the sqlite driver"))
		}
	case StoreDriverPostgres:
		if c.DSN == "" {
			el.Add(fmt.Errorf("dsn is required for the postgres driver"))
		}
	}

	return el.Err()
}

func (c *StoreConfig) BuildStore(ctx context.Context) (store.Store, error) {
	switch c.Driver {
	case StoreDriverMemory:
		return store.NewMemoryStore(), nil
	case StoreDriverSQLite:
		return store.NewSQLiteStore(ctx, c.Path)
	case StoreDriverPostgres:
		return store.NewPostgresStore(ctx, c.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %v", c.Driver)
	}
}
