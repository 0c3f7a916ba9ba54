// Package store persists a collection's graph to disk so a server process
// can restart without rebuilding the index from scratch. It is new relative
// to the teacher: the teacher had no on-disk collection snapshot path at
// all, only a DatabaseConfig describing one. The encoding is msgpack
// (github.com/vmihailenco/msgpack/v5) over a badger (github.com/dgraph-io/
// badger/v4) embedded key-value store, both drawn from the wider example
// pack rather than the teacher itself (see DESIGN.md).
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/therealutkarshpriyadarshi/vector/pkg/hnsw"
)

// Store wraps a badger database used to hold one or more named snapshots.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database rooted at dir.
func Open(dir string, syncWrites bool) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithSyncWrites(syncWrites).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot encodes snap with msgpack and writes it under key.
func SaveSnapshot[D any](s *Store, key string, snap hnsw.Snapshot[D]) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// LoadSnapshot reads and decodes the snapshot stored under key.
func LoadSnapshot[D any](s *Store, key string) (hnsw.Snapshot[D], error) {
	var snap hnsw.Snapshot[D]
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			return msgpack.Unmarshal(data, &snap)
		})
	})
	if err != nil {
		return snap, fmt.Errorf("loading snapshot %s: %w", key, err)
	}
	return snap, nil
}

// Exists reports whether key currently has a stored snapshot.
func (s *Store) Exists(key string) bool {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	return err == nil
}
