package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one numbered schema change.
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
	Checksum    string
	Applied     bool
	AppliedAt   time.Time
	// Drifted is set when the applied checksum differs from the embedded file.
	Drifted bool
}

// MigrationResult contains the result of running migrations.
type MigrationResult struct {
	Applied        []Migration
	CurrentVersion int
}

// Migrator applies embedded migrations to a database.
type Migrator struct {
	db         *DB
	migrations []Migration
}

var migrationName = regexp.MustCompile(`^(\d{3})_(.+)\.sql$`)

// NewMigrator creates a Migrator over the embedded migrations.
func NewMigrator(db *DB) (*Migrator, error) {
	return NewMigratorFS(db, migrationsFS, "migrations")
}

// NewMigratorFS creates a Migrator reading NNN_description.sql files from dir in fsys.
func NewMigratorFS(db *DB, fsys fs.FS, dir string) (*Migrator, error) {
	migrations, err := loadMigrations(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	m := &Migrator{db: db, migrations: migrations}
	if err := m.ensureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}
	return m, nil
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := migrationName.FindStringSubmatch(entry.Name())
		if matches == nil {
			slog.Warn("skipping invalid migration filename", "name", entry.Name())
			continue
		}

		version, _ := strconv.Atoi(matches[1])
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, entry.Name())
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		up, down := parseMigration(string(content))
		sum := sha256.Sum256([]byte(up))
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.ReplaceAll(matches[2], "_", " "),
			UpSQL:       up,
			DownSQL:     down,
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigration splits a file into its Up and Down sections:
//
//	-- +migrate Up
//	...
//	-- +migrate Down
//	...
//
// A file without markers is all Up.
func parseMigration(content string) (upSQL, downSQL string) {
	const upMarker = "-- +migrate Up"
	const downMarker = "-- +migrate Down"

	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)

	switch {
	case upIdx == -1:
		return strings.TrimSpace(content), ""
	case downIdx == -1:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), ""
	case upIdx < downIdx:
		return strings.TrimSpace(content[upIdx+len(upMarker) : downIdx]),
			strings.TrimSpace(content[downIdx+len(downMarker):])
	default:
		return strings.TrimSpace(content[upIdx+len(upMarker):]),
			strings.TrimSpace(content[downIdx+len(downMarker) : upIdx])
	}
}

func (m *Migrator) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			checksum TEXT NOT NULL DEFAULT '',
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// CurrentVersion returns the highest applied version, 0 if none.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := m.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("querying schema version: %w", err)
	}
	return int(version.Int64), nil
}

// Latest returns the highest embedded version.
func (m *Migrator) Latest() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

// PendingMigrations returns migrations newer than the current version.
func (m *Migrator) PendingMigrations(ctx context.Context) ([]Migration, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// MigrateUp applies all pending migrations, each in its own transaction.
func (m *Migrator) MigrateUp(ctx context.Context) (*MigrationResult, error) {
	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{}
	for _, mig := range pending {
		slog.Info("applying migration", "version", mig.Version, "description", mig.Description)
		if err := m.apply(ctx, mig); err != nil {
			return result, fmt.Errorf("migration %03d (%s): %w", mig.Version, mig.Description, err)
		}
		mig.Applied = true
		result.Applied = append(result.Applied, mig)
	}

	result.CurrentVersion, err = m.CurrentVersion(ctx)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(mig.UpSQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, description, checksum, applied_at) VALUES (?, ?, ?, ?)",
			mig.Version, mig.Description, mig.Checksum, time.Now().UTC().Format(time.RFC3339))
		return err
	})
}

// MigrateDown rolls back the most recently applied migration.
func (m *Migrator) MigrateDown(ctx context.Context) (*MigrationResult, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	result := &MigrationResult{CurrentVersion: current}
	if current == 0 {
		return result, nil
	}

	var mig *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == current {
			mig = &m.migrations[i]
			break
		}
	}
	if mig == nil {
		return result, fmt.Errorf("migration %03d not found", current)
	}
	if mig.DownSQL == "" {
		return result, fmt.Errorf("migration %03d has no down section", current)
	}

	slog.Info("rolling back migration", "version", mig.Version, "description", mig.Description)
	err = m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(mig.DownSQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
			}
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", mig.Version)
		return err
	})
	if err != nil {
		return result, fmt.Errorf("rolling back %03d: %w", mig.Version, err)
	}

	result.Applied = append(result.Applied, *mig)
	result.CurrentVersion, err = m.CurrentVersion(ctx)
	return result, err
}

// Status lists every embedded migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, checksum, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	type applied struct {
		checksum string
		at       time.Time
	}
	done := make(map[int]applied)
	for rows.Next() {
		var version int
		var checksum, at string
		if err := rows.Scan(&version, &checksum, &at); err != nil {
			return nil, fmt.Errorf("scanning migration: %w", err)
		}
		t, _ := time.Parse(time.RFC3339, at)
		done[version] = applied{checksum: checksum, at: t}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	status := make([]Migration, len(m.migrations))
	for i, mig := range m.migrations {
		if a, ok := done[mig.Version]; ok {
			mig.Applied = true
			mig.AppliedAt = a.at
			mig.Drifted = a.checksum != "" && a.checksum != mig.Checksum
		}
		status[i] = mig
	}
	return status, nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}

// splitStatements splits SQL on semicolons outside of quoted strings.
// Line comments are dropped.
func splitStatements(src string) []string {
	var statements []string
	var current strings.Builder
	var quote rune
	inComment := false

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
				current.WriteRune(ch)
			}
		case quote != 0:
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
		case ch == '-' && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
			i++
		case ch == '\'' || ch == '"':
			quote = ch
			current.WriteRune(ch)
		case ch == ';':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return statements
}
