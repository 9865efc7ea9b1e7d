// Package sources records where each collection's dataset is fetched from
// and the outcome of the last load and availability check.
package sources

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

// ErrNotFound is returned for a collection with no dataset_sources row.
var ErrNotFound = errors.New("source not found")

// Source is a row of the dataset_sources table.
type Source struct {
	CollectionID string  `json:"collection_id"`
	Schema       string  `json:"schema"`
	Description  string  `json:"description"`
	DatasetURL   string  `json:"dataset_url"`
	// Overridden is set by SetURL; such a URL survives reseeding.
	Overridden bool `json:"overridden"`
	LastLoad     *int64  `json:"last_load,omitempty"`
	LastRows     *int    `json:"last_rows,omitempty"`
	LoadError    *string `json:"load_error,omitempty"`
	LastCheck    *int64  `json:"last_check,omitempty"`
	LastStatus   *int    `json:"last_status,omitempty"`
	LastError    *string `json:"last_error,omitempty"`
	UpdatedAt    int64   `json:"updated_at"`
}

// DB wraps the sqlite database holding dataset_sources.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the table exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sources db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS dataset_sources (
		collection_id TEXT PRIMARY KEY,
		schema_ver    TEXT NOT NULL,
		description   TEXT NOT NULL,
		dataset_url   TEXT NOT NULL,
		overridden    INTEGER NOT NULL DEFAULT 0,
		last_load     INTEGER,
		last_rows     INTEGER,
		load_error    TEXT,
		last_check    INTEGER,
		last_status   INTEGER,
		last_error    TEXT,
		updated_at    INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dataset_sources table: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// migrate adds columns missing from databases created by earlier versions.
func migrate(db *sql.DB) error {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('dataset_sources') WHERE name = 'overridden'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspect dataset_sources: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE dataset_sources ADD COLUMN overridden INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("add overridden column: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// Seed upserts a row per collection. The configured dataset replaces the
// stored one unless it was set with SetURL.
func (s *DB) Seed(collections []catalogue.Collection) error {
	const q = `INSERT INTO dataset_sources
		(collection_id, schema_ver, description, dataset_url, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection_id) DO UPDATE SET
			schema_ver  = excluded.schema_ver,
			description = excluded.description,
			updated_at  = CASE WHEN overridden = 0 AND dataset_url <> excluded.dataset_url
				THEN excluded.updated_at ELSE updated_at END,
			dataset_url = CASE WHEN overridden = 0 THEN excluded.dataset_url ELSE dataset_url END`

	now := time.Now().Unix()
	for _, c := range collections {
		if _, err := s.db.Exec(q, c.ID, c.Schema, c.Description, c.Dataset, now); err != nil {
			return fmt.Errorf("seed %s: %w", c.ID, err)
		}
	}
	return nil
}

// GetURL returns the dataset location of a collection.
func (s *DB) GetURL(collectionID string) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT dataset_url FROM dataset_sources WHERE collection_id = ?`, collectionID).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", collectionID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", collectionID, err)
	}
	return url, nil
}

// SetURL overrides the dataset location of a collection. The override
// survives reseeding until ResetURL.
func (s *DB) SetURL(collectionID, url string) error {
	res, err := s.db.Exec(
		`UPDATE dataset_sources SET dataset_url = ?, overridden = 1, updated_at = ? WHERE collection_id = ?`,
		url, time.Now().Unix(), collectionID,
	)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", collectionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", collectionID, ErrNotFound)
	}
	return nil
}

// ResetURL drops the override of a collection and restores the configured
// dataset location.
func (s *DB) ResetURL(c catalogue.Collection) error {
	res, err := s.db.Exec(
		`UPDATE dataset_sources SET dataset_url = ?, overridden = 0, updated_at = ? WHERE collection_id = ?`,
		c.Dataset, time.Now().Unix(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("reset url for %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", c.ID, ErrNotFound)
	}
	return nil
}

// Resolve returns where loc is read from: URLs and absolute paths as is,
// relative paths under root.
func Resolve(root, loc string) string {
	if IsURL(loc) || filepath.IsAbs(loc) || root == "" {
		return loc
	}
	return filepath.Join(root, loc)
}

// IsURL reports whether loc is an http(s) URL.
func IsURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// UpdateLoad records a load attempt: the row count on success, the error
// message on failure.
func (s *DB) UpdateLoad(collectionID string, rows int, loadErr error) error {
	var errPtr *string
	var rowsPtr *int
	if loadErr != nil {
		msg := loadErr.Error()
		errPtr = &msg
	} else {
		rowsPtr = &rows
	}
	_, err := s.db.Exec(
		`UPDATE dataset_sources SET last_load = ?, last_rows = COALESCE(?, last_rows), load_error = ? WHERE collection_id = ?`,
		time.Now().Unix(), rowsPtr, errPtr, collectionID,
	)
	if err != nil {
		return fmt.Errorf("update load for %s: %w", collectionID, err)
	}
	return nil
}

// UpdateCheck records the result of an availability check.
func (s *DB) UpdateCheck(collectionID string, status int, checkErr string) error {
	var errPtr *string
	if checkErr != "" {
		errPtr = &checkErr
	}
	_, err := s.db.Exec(
		`UPDATE dataset_sources SET last_check = ?, last_status = ?, last_error = ? WHERE collection_id = ?`,
		time.Now().Unix(), status, errPtr, collectionID,
	)
	if err != nil {
		return fmt.Errorf("update check for %s: %w", collectionID, err)
	}
	return nil
}

// List returns every row ordered by collection.
func (s *DB) List() ([]Source, error) {
	rows, err := s.db.Query(`SELECT collection_id, schema_ver, description, dataset_url, overridden,
		last_load, last_rows, load_error, last_check, last_status, last_error, updated_at
		FROM dataset_sources ORDER BY collection_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.CollectionID, &src.Schema, &src.Description, &src.DatasetURL, &src.Overridden,
			&src.LastLoad, &src.LastRows, &src.LoadError,
			&src.LastCheck, &src.LastStatus, &src.LastError, &src.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}
