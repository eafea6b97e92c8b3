// Package store provides the persistence engines behind the scan
// history ledger. Both engines implement history.Store: load the full
// sequence once at startup, write the full sequence on every mutation.
package store

import (
	"errors"
	"strings"

	"github.com/example/partscan/internal/history"
)

const (
	EngineJSON   = "json"
	EngineSQLite = "sqlite"
)

// NewByEngine builds a history store for the configured engine.
// baseDir is the partscan data directory (e.g. ~/.partscan).
func NewByEngine(engine, baseDir string) (history.Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(baseDir)
	case EngineJSON:
		return NewJSONStore(baseDir)
	default:
		return nil, errors.New("unsupported store engine: " + engine)
	}
}
