package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// collectionKey is the only row ever written to the collections table.
const collectionKey = "books"

// SqliteStore keeps the serialized collection as one row in a SQLite database.
//
// Tables:
//
//	collections(name, content)  PRIMARY KEY (name)
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		content BLOB
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Load() ([]byte, error) {
	var content []byte
	err := s.db.QueryRow("SELECT content FROM collections WHERE name = ?", collectionKey).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotPresent
	}
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, ErrNotPresent
	}
	return content, nil
}

// Save upserts the single row; SQLite commits the statement atomically.
func (s *SqliteStore) Save(content []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO collections (name, content) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content`,
		collectionKey, content,
	)
	return err
}
