// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/logging"
)

// entryKeyPrefix namespaces provider-cache entries inside BadgerDB.
const entryKeyPrefix = "pcache:"

// Entry is a cached payload with its lifecycle timestamps.
// An entry whose ExpiresAt has passed is treated as absent and is purged
// eagerly on read.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed at time now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is a durable key→value store with per-entry TTL, backed by
// BadgerDB. At most one live entry exists per key; Set overwrites.
//
// Thread Safety: BadgerDB transactions provide per-key write atomicity,
// so concurrent Get/Set/CleanExpired never observe a half-written entry.
// Last writer wins on concurrent Set for the same key.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a Store at the given directory. An empty path
// opens an in-memory store, used by tests and credential-less dev setups.
func Open(path string) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	// Badger's own logger is noisy at INFO; the store logs what matters.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing BadgerDB handle. The caller keeps ownership
// of the handle's lifecycle.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the value stored under key.
//
// Get fails open: any storage error is treated as a miss and never
// propagated. Detecting an expired entry deletes it as a side effect
// before reporting absence.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	var entry Entry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(entryKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return nil, false
	}

	if entry.Expired(time.Now()) {
		// Eager purge; a failed delete is retried by the next sweep.
		if err := s.delete(key); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("failed to purge expired cache entry")
		}
		return nil, false
	}

	return entry.Value, true
}

// Set stores value under key with the given TTL, overwriting any existing
// entry for the same key. ExpiresAt is computed as now + ttl.
func (s *Store) Set(key string, value json.RawMessage, ttl time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(entryKeyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// delete removes a single entry by key.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(entryKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// CleanExpired removes every entry whose expiry is strictly before now
// and returns the count removed. It is an on-demand maintenance
// operation, safe to run concurrently with Get/Set.
func (s *Store) CleanExpired() (int, error) {
	now := time.Now()
	var expiredKeys []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(entryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var entry Entry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				// An undecodable entry is garbage; collect it too.
				expiredKeys = append(expiredKeys, string(item.KeyCopy(nil)))
				continue
			}

			if entry.ExpiresAt.Before(now) {
				expiredKeys = append(expiredKeys, string(item.KeyCopy(nil)))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan cache entries: %w", err)
	}

	count := 0
	for _, rawKey := range expiredKeys {
		err := s.db.Update(func(txn *badger.Txn) error {
			e := txn.Delete([]byte(rawKey))
			if errors.Is(e, badger.ErrKeyNotFound) {
				return nil
			}
			return e
		})
		if err != nil {
			continue
		}
		count++
	}

	return count, nil
}

// Len returns the number of entries currently stored, including any not
// yet swept expired entries. Used by tests and the maintenance surface.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(entryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
