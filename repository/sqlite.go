package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"truco-lite/truco"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "truco_local.db"

// SQLiteRepository persists games as JSON blobs in a single table. Good
// enough for a single-process deployment that wants durability without
// standing up postgres.
type SQLiteRepository struct {
	db *sql.DB
}

func gamesLocalDatabasePathFromEnv() (string, error) {
	if v := strings.TrimSpace(os.Getenv("GAMES_SQLITE_PATH")); v != "" {
		return v, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "truco-lite", defaultLocalDBName), nil
}

func NewSQLiteRepositoryFromEnv() (*SQLiteRepository, error) {
	path, err := gamesLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteRepository(path)
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS games (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	joinable   INTEGER NOT NULL,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_games_joinable ON games(joinable);
`)
	return err
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

func (r *SQLiteRepository) Load(ctx context.Context, id uint64) (*truco.Game, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM games WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeGame([]byte(data))
}

func (r *SQLiteRepository) Save(ctx context.Context, g *truco.Game) (uint64, error) {
	data, err := encodeGame(g)
	if err != nil {
		return 0, err
	}
	joinable := 0
	if isJoinable(g) {
		joinable = 1
	}

	if g.Id == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO games(joinable, data, updated_at) VALUES (?, ?, ?)`,
			joinable, string(data), time.Now().UTC())
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(id), nil
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO games(id, joinable, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET joinable = excluded.joinable, data = excluded.data, updated_at = excluded.updated_at`,
		g.Id, joinable, string(data), time.Now().UTC()); err != nil {
		return 0, err
	}
	return g.Id, nil
}

func (r *SQLiteRepository) ListJoinable(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM games WHERE joinable = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
