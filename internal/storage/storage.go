// Package storage provides the durable key-value medium behind the
// entity store and the sync queue. Collections are JSON-encoded and
// written under well-known keys in a single SQLite file exclusively
// owned by this process.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

// KV is a SQLite-backed key-value store.
type KV struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (or creates) the SQLite database at the given path.
func Open(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &KV{
		db:     db,
		logger: log.New(os.Stderr, "[storage] ", log.LstdFlags),
	}, nil
}

// Close closes the database connection.
func (k *KV) Close() error {
	return k.db.Close()
}

// Save durably serializes v under key, replacing any prior value.
func (k *KV) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if _, err := k.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, data,
	); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load reads the value saved under key into dest. It reports
// found=false when the key was never saved; a corrupt payload is
// logged and treated as absent, never as a fatal error.
func (k *KV) Load(key string, dest any) (bool, error) {
	var data []byte
	err := k.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		k.logger.Printf("corrupt payload under %s: %v (treating as absent)", key, err)
		return false, nil
	}
	return true, nil
}

// Delete removes the value saved under key. Deleting an absent key is
// a no-op.
func (k *KV) Delete(key string) error {
	if _, err := k.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Reset removes every stored value.
func (k *KV) Reset() error {
	if _, err := k.db.Exec(`DELETE FROM kv`); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
