package counter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "captioner"
	dbFileName = "captioner.db"

	// Key of the total number of generated images.
	TotalKey = "subtitle_gen_total"
)

// Counter is the process-wide generation counter. It is cosmetic telemetry; callers
// should not fail a render because the counter failed.
type Counter interface {
	Get(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
}

type sqliteCounter struct {
	db  *sql.DB
	key string
}

// DefaultPath is the counter database under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (creating if needed) the SQLite database at path. ":memory:" gives a
// private in-memory store.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// New returns a counter stored under key in db.
func New(db *sql.DB, key string) Counter {
	return &sqliteCounter{db: db, key: key}
}

// Get returns the stored count. A missing or unparsable value counts as zero.
func (c *sqliteCounter) Get(ctx context.Context) (int64, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE key = ?`, c.key).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", c.key, err)
	}
	return parseCount(raw), nil
}

func (c *sqliteCounter) Increment(ctx context.Context) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin counter update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT value FROM counters WHERE key = ?`, c.key).Scan(&raw)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to read counter %s: %w", c.key, err)
	}
	next := parseCount(raw) + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO counters (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, c.key, strconv.FormatInt(next, 10))
	if err != nil {
		return 0, fmt.Errorf("failed to write counter %s: %w", c.key, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit counter %s: %w", c.key, err)
	}
	return next, nil
}

func parseCount(raw string) int64 {
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// Format renders count with the digit grouping of locale, e.g. "1,234" for zh-CN.
// An unparsable locale falls back to the root locale.
func Format(count int64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return message.NewPrinter(tag).Sprintf("%d", count)
}
