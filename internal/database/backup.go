package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupPrefix = "brewops-"

// Backup writes a consistent copy of the database into the backup directory
// and returns its path.
func (db *DB) Backup(ctx context.Context) (string, error) {
	if db.backupDir == "" {
		return "", errors.New("backup directory not configured")
	}

	backupPath := filepath.Join(db.backupDir, backupPrefix+time.Now().Format("20060102-150405")+".db")

	if err := db.Checkpoint(ctx); err != nil {
		slog.Warn("checkpoint before backup failed", "error", err)
	}

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}

	slog.Info("database backup created", "path", backupPath)

	if db.config.BackupRetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -db.config.BackupRetentionDays)
		if removed, err := PruneBackups(db.backupDir, cutoff); err != nil {
			slog.Warn("pruning old backups", "error", err)
		} else if removed > 0 {
			slog.Debug("pruned old backups", "removed", removed)
		}
	}

	return backupPath, nil
}

func (db *DB) startBackupScheduler(interval time.Duration) {
	db.backupTicker = time.NewTicker(interval)
	db.backupDone = make(chan struct{})

	go func() {
		for {
			select {
			case <-db.backupTicker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if _, err := db.Backup(ctx); err != nil {
					slog.Error("scheduled backup failed", "error", err)
				}
				cancel()
			case <-db.backupDone:
				return
			}
		}
	}()
}

// BackupFile describes one backup on disk.
type BackupFile struct {
	Path    string
	ModTime time.Time
}

// ListBackups returns the backups in dir, newest first.
func ListBackups(dir string) ([]BackupFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var backups []BackupFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupFile{Path: filepath.Join(dir, name), ModTime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

// PruneBackups removes backups older than cutoff and returns how many went.
func PruneBackups(dir string, cutoff time.Time) (int, error) {
	backups, err := ListBackups(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range backups {
		if !b.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			slog.Warn("removing old backup", "path", b.Path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// RestoreLatestBackup replaces the database file at dbPath with the newest
// backup in dir that passes an integrity check. The replaced file is kept
// alongside with a ".replaced" suffix. The database must not be open.
func RestoreLatestBackup(dbPath, dir string) (string, error) {
	backups, err := ListBackups(dir)
	if err != nil {
		return "", err
	}

	for _, b := range backups {
		if err := checkFile(b.Path); err != nil {
			slog.Warn("skipping damaged backup", "path", b.Path, "error", err)
			continue
		}

		if _, err := os.Stat(dbPath); err == nil {
			replaced := dbPath + ".replaced." + time.Now().Format("20060102-150405")
			if err := os.Rename(dbPath, replaced); err != nil {
				return "", fmt.Errorf("moving current database aside: %w", err)
			}
		}
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")

		if err := copyFile(b.Path, dbPath); err != nil {
			return "", fmt.Errorf("copying backup: %w", err)
		}
		slog.Info("database restored from backup", "path", dbPath, "backup", b.Path)
		return b.Path, nil
	}

	return "", errors.New("no valid backup found")
}

func checkFile(path string) error {
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return quickCheck(ctx, conn)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
