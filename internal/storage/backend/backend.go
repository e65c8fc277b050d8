// Package backend opens a storage.LeadStore by driver name.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/FranksOps/leadburr/internal/storage"
	"github.com/FranksOps/leadburr/internal/storage/csvbackend"
	"github.com/FranksOps/leadburr/internal/storage/jsonbackend"
	"github.com/FranksOps/leadburr/internal/storage/memory"
	"github.com/FranksOps/leadburr/internal/storage/postgres"
	"github.com/FranksOps/leadburr/internal/storage/redis"
	"github.com/FranksOps/leadburr/internal/storage/sqlite"
)

// Drivers lists the accepted driver names.
var Drivers = []string{"memory", "sqlite", "postgres", "redis", "json", "csv"}

// Supported reports whether driver names a known backend.
func Supported(driver string) bool {
	driver = strings.ToLower(strings.TrimSpace(driver))
	for _, d := range Drivers {
		if d == driver {
			return true
		}
	}
	return false
}

// Open returns the store for driver. dsn is a file path for sqlite, json and
// csv, a connection string for postgres and a redis:// URL for redis; it is
// ignored by memory.
func Open(ctx context.Context, driver, dsn string) (storage.LeadStore, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver != "memory" && driver != "" && dsn == "" {
		return nil, fmt.Errorf("backend: driver %q requires a dsn", driver)
	}

	switch driver {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(dsn)
	case "postgres":
		return postgres.New(ctx, dsn)
	case "redis":
		return redis.NewFromURL(ctx, dsn)
	case "json":
		return jsonbackend.New(dsn)
	case "csv":
		return csvbackend.New(dsn)
	default:
		return nil, fmt.Errorf("backend: unknown driver %q", driver)
	}
}
