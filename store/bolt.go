package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var booksBucket = []byte("collections")

// BoltStore keeps the serialized collection under a single key in a bbolt file.
// Reads run in db.View, writes in db.Update, so a reader sees either the
// previous or the new value.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", dbPath, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(booksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load() ([]byte, error) {
	var content []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(booksBucket).Get([]byte(collectionKey))
		// v is only valid inside the transaction.
		content = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, ErrNotPresent
	}
	return content, nil
}

func (s *BoltStore) Save(content []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).Put([]byte(collectionKey), content)
	})
}
