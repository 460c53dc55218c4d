package repository

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeMemory = "memory"
	ModeSQLite = "sqlite"
	ModePostgres = "postgres"
)

func modeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("GAMES_REPOSITORY_MODE")))
	switch raw {
	case "", ModeSQLite, "sqlite3":
		return ModeSQLite
	case ModeMemory, "mem":
		return ModeMemory
	case ModePostgres, "postgresql", "pq":
		return ModePostgres
	default:
		return raw
	}
}

// NewRepositoryFromEnv picks a backend by GAMES_REPOSITORY_MODE (default
// sqlite), mirroring the auth package's mode-switched factory.
func NewRepositoryFromEnv() (Repository, string, error) {
	mode := modeFromEnv()

	switch mode {
	case ModeSQLite:
		repo, err := NewSQLiteRepositoryFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return repo, mode, nil
	case ModePostgres:
		repo, err := NewPostgresRepositoryFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return repo, mode, nil
	case ModeMemory:
		return NewMemoryRepository(), mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid GAMES_REPOSITORY_MODE %q (supported: %s, %s, %s)", mode, ModeMemory, ModeSQLite, ModePostgres)
	}
}
