package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Download is a cached audio file for a track.
type Download struct {
	TrackID   string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// DB holds the download cache index and persisted page state.
type DB struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates encore.db in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "encore.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			track_id   TEXT PRIMARY KEY,
			path       TEXT NOT NULL,
			size       INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		return fmt.Errorf("create downloads table: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pages (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		return fmt.Errorf("create pages table: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (d *DB) Path() string { return d.path }

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordDownload indexes a downloaded file, replacing any earlier entry for
// the track.
func (d *DB) RecordDownload(ctx context.Context, dl Download) error {
	if dl.TrackID == "" || dl.Path == "" {
		return fmt.Errorf("download needs a track id and a path")
	}
	if dl.CreatedAt.IsZero() {
		dl.CreatedAt = time.Now().UTC()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO downloads (track_id, path, size, created_at) VALUES (?, ?, ?, ?)`,
		dl.TrackID, dl.Path, dl.Size, dl.CreatedAt)
	if err != nil {
		return fmt.Errorf("record download %s: %w", dl.TrackID, err)
	}
	return nil
}

// Downloads lists indexed files, oldest first.
func (d *DB) Downloads(ctx context.Context) ([]Download, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows, err := d.db.QueryContext(ctx, `SELECT track_id, path, size, created_at FROM downloads ORDER BY created_at, track_id`)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var out []Download
	for rows.Next() {
		var dl Download
		if err := rows.Scan(&dl.TrackID, &dl.Path, &dl.Size, &dl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		out = append(out, dl)
	}
	return out, rows.Err()
}

// ClearArtifacts deletes every downloaded file and its index row. Files
// already gone are not an error.
func (d *DB) ClearArtifacts() error {
	ctx := context.Background()
	downloads, err := d.Downloads(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for _, dl := range downloads {
		if err := os.Remove(dl.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", dl.Path, err))
		}
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM downloads`); err != nil {
		errs = append(errs, fmt.Errorf("clear downloads: %w", err))
	}
	return errors.Join(errs...)
}

// SavePage persists a page's serialized state under key.
func (d *DB) SavePage(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO pages (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save page %s: %w", key, err)
	}
	return nil
}

// LoadPage returns the stored value for key. ok is false when nothing is
// stored.
func (d *DB) LoadPage(ctx context.Context, key string) (value string, ok bool, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	err = d.db.QueryRowContext(ctx, `SELECT value FROM pages WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load page %s: %w", key, err)
	}
	return value, true, nil
}

// ResetPages drops every persisted page.
func (d *DB) ResetPages() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.db.Exec(`DELETE FROM pages`); err != nil {
		return fmt.Errorf("reset pages: %w", err)
	}
	return nil
}
