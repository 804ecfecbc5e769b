// Package db owns the SQLite case store. Opening it brings the schema up to
// the embedded version and refuses a store that cannot answer unknown case
// ids.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoPlaceholder means no record is flagged as the placeholder that unknown
// case ids are answered with.
var ErrNoPlaceholder = errors.New("case store has no placeholder record")

type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// schemaStep is one embedded migration file, named NNN_description.sql.
type schemaStep struct {
	version int
	name    string
	body    string
}

// New opens the case store at dbPath, upgrades its schema (seed cases
// included) and checks that a placeholder case exists.
func New(dbPath string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas ride on the DSN so every pooled connection gets them.
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	d := &DB{conn: conn, logger: logger}
	if err := d.open(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) open() error {
	if err := d.conn.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	steps, err := schemaSteps()
	if err != nil {
		return err
	}
	if err := d.upgrade(steps); err != nil {
		return err
	}
	return d.checkPlaceholder()
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Conn() *sql.DB {
	return d.conn
}

// SchemaVersion reports the last applied migration, kept in user_version.
func (d *DB) SchemaVersion() (int, error) {
	var v int
	if err := d.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func schemaSteps() ([]schemaStep, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(entries))
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()
		prefix, _, ok := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if !ok || err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: name must start with a positive version", name)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, name, version)
		}
		seen[version] = name

		body, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		steps = append(steps, schemaStep{version: version, name: name, body: string(body)})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// upgrade applies every step newer than the stored version. Each step and
// its version bump commit together.
func (d *DB) upgrade(steps []schemaStep) error {
	current, err := d.SchemaVersion()
	if err != nil {
		return err
	}
	for _, s := range steps {
		if s.version <= current {
			continue
		}
		if err := d.apply(s); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", s.name, err)
		}
		d.logger.Info("case store upgraded", "version", s.version, "migration", s.name)
	}
	return nil
}

func (d *DB) apply(s schemaStep) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.body); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", s.version)); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) checkPlaceholder() error {
	var n int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM cases WHERE placeholder = 1").Scan(&n); err != nil {
		return fmt.Errorf("count placeholder cases: %w", err)
	}
	if n == 0 {
		return ErrNoPlaceholder
	}
	return nil
}
