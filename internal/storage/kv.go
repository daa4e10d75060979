package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// KV is the key/value contract the level and daily managers persist
// through.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// LocalNamespace holds the progress of the local player.
const LocalNamespace = "local"

// Namespace is a KV view of the kv table scoped to one player.
type Namespace struct {
	db   *sql.DB
	name string
}

// KV returns the key/value view for namespace name.
func (s *Store) KV(name string) *Namespace {
	return &Namespace{db: s.db, name: name}
}

// Get returns the value for key and whether it exists.
func (n *Namespace) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := n.db.QueryRow(
		"SELECT value FROM kv WHERE namespace = ? AND key = ?",
		n.name, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read %s/%s: %w", n.name, key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (n *Namespace) Put(key string, value []byte) error {
	_, err := n.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		n.name, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s/%s: %w", n.name, key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (n *Namespace) Delete(key string) error {
	_, err := n.db.Exec("DELETE FROM kv WHERE namespace = ? AND key = ?", n.name, key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete %s/%s: %w", n.name, key, err)
	}
	return nil
}

// MemoryKV is an in-process KV, used when no database is available.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value for key.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value.
func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var (
	_ KV = (*Namespace)(nil)
	_ KV = (*MemoryKV)(nil)
)
