package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/brewops/brewops/internal/config"
)

func TestOpenMemoryMigrates(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer db.Close()

	for _, table := range []string{"breweries", "inventory_items", "recipes", "scheduled_brews", "work_shifts", "log_entries", "tasks", "employees"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	m, err := NewMigrator(db)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}
	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		t.Fatalf("PendingMigrations() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}
}

func TestMigratorUpDownStatus(t *testing.T) {
	ctx := context.Background()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_first.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE a (x TEXT);\n-- +migrate Down\nDROP TABLE a;")},
		"m/002_second.sql": {Data: []byte("-- +migrate Up\n-- note; with semicolon\nCREATE TABLE b (y TEXT DEFAULT 'p;q');\n-- +migrate Down\nDROP TABLE b;")},
		"m/readme.txt":      {Data: []byte("ignored")},
	}

	m, err := NewMigratorFS(db, fsys, "m")
	if err != nil {
		t.Fatalf("NewMigratorFS() error = %v", err)
	}
	if m.Latest() != 2 {
		t.Errorf("Latest() = %d, want 2", m.Latest())
	}

	res, err := m.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if len(res.Applied) != 2 || res.CurrentVersion != 2 {
		t.Errorf("MigrateUp() applied %d to version %d", len(res.Applied), res.CurrentVersion)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO b DEFAULT VALUES"); err != nil {
		t.Fatalf("insert into b: %v", err)
	}

	res, err = m.MigrateDown(ctx)
	if err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}
	if res.CurrentVersion != 1 {
		t.Errorf("version after down = %d, want 1", res.CurrentVersion)
	}

	status, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status[0].Applied || status[1].Applied {
		t.Errorf("Status() applied = %v, %v; want true, false", status[0].Applied, status[1].Applied)
	}
	if status[0].Drifted {
		t.Error("unchanged migration reported as drifted")
	}
}

func TestStatusDetectsDrift(t *testing.T) {
	ctx := context.Background()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	defer db.Close()

	orig := fstest.MapFS{"m/001_a.sql": {Data: []byte("CREATE TABLE a (x TEXT)")}}
	m, err := NewMigratorFS(db, orig, "m")
	if err != nil {
		t.Fatalf("NewMigratorFS() error = %v", err)
	}
	if _, err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	edited := fstest.MapFS{"m/001_a.sql": {Data: []byte("CREATE TABLE a (x TEXT, y TEXT)")}}
	m2, err := NewMigratorFS(db, edited, "m")
	if err != nil {
		t.Fatalf("NewMigratorFS() error = %v", err)
	}
	status, err := m2.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status[0].Drifted {
		t.Error("edited migration not reported as drifted")
	}
}

func TestDuplicateMigrationVersion(t *testing.T) {
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_a.sql": {Data: []byte("SELECT 1")},
		"m/001_b.sql": {Data: []byte("SELECT 2")},
	}
	if _, err := NewMigratorFS(db, fsys, "m"); err == nil {
		t.Error("expected error for duplicate version")
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"single", "SELECT 1", 1},
		{"two", "SELECT 1; SELECT 2;", 2},
		{"quoted semicolon", "INSERT INTO t VALUES ('a;b'); SELECT 1", 2},
		{"comment semicolon", "-- a; b\nSELECT 1;", 1},
		{"cyrillic", "INSERT INTO t VALUES ('Солод; Pilsner');", 1},
		{"empty", "  ;  ; ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitStatements(tt.in); len(got) != tt.want {
				t.Errorf("splitStatements(%q) = %q, want %d statements", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMigration(t *testing.T) {
	up, down := parseMigration("-- +migrate Down\nDROP TABLE x;\n-- +migrate Up\nCREATE TABLE x (a INT);")
	if up != "CREATE TABLE x (a INT);" {
		t.Errorf("up = %q", up)
	}
	if down != "DROP TABLE x;" {
		t.Errorf("down = %q", down)
	}

	up, down = parseMigration("SELECT 1")
	if up != "SELECT 1" || down != "" {
		t.Errorf("unmarked file parsed as (%q, %q)", up, down)
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx)
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO breweries (tenant, created_at, updated_at) VALUES ('x', '', '')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction() error = %v, want boom", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM breweries").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("breweries = %d after rollback, want 0", n)
	}
}

func TestClosedDatabase(t *testing.T) {
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() on closed database succeeded")
	}
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "brewops.db")
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0750); err != nil {
		t.Fatal(err)
	}

	db, err := Open(dbPath, &config.DatabaseConfig{}, backupDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	m, err := NewMigrator(db)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}
	if _, err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO breweries (tenant, created_at, updated_at) VALUES ('main', '', '')"); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Tenants != 1 || stats.JournalMode != "wal" {
		t.Errorf("GetStats() = %+v", stats)
	}

	backupPath, err := db.Backup(ctx)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	backups, err := ListBackups(backupDir)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 || backups[0].Path != backupPath {
		t.Fatalf("ListBackups() = %+v", backups)
	}

	restored, err := RestoreLatestBackup(dbPath, backupDir)
	if err != nil {
		t.Fatalf("RestoreLatestBackup() error = %v", err)
	}
	if restored != backupPath {
		t.Errorf("restored from %s, want %s", restored, backupPath)
	}

	db, err = Open(dbPath, &config.DatabaseConfig{}, backupDir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	var tenant string
	if err := db.QueryRowContext(ctx, "SELECT tenant FROM breweries").Scan(&tenant); err != nil {
		t.Fatalf("reading restored data: %v", err)
	}
	if tenant != "main" {
		t.Errorf("tenant = %q, want main", tenant)
	}

	removed, err := PruneBackups(backupDir, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneBackups() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("PruneBackups() removed %d, want 1", removed)
	}
}
