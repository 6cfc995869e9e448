// Launcher Core
// Copyright (c) 2025 The Open Launcher Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Launcher Core.
//
// Launcher Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Launcher Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Launcher Core.  If not, see <http://www.gnu.org/licenses/>.

// Package store persists session artifacts (user session, settings,
// last selected profile) as JSON blobs in a bolt database. Pure
// key/value access, no business logic. There is no multi-key
// transaction API: callers must tolerate a crash landing between two
// related writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// Keys used by the session controller.
const (
	KeyUser        = "user"
	KeySettings    = "settings"
	KeyLastProfile = "lastProfile"
)

const bucketSession = "session"

// Store is a typed key/value store backed by bbolt.
type Store struct {
	bdb *bolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	bdb, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = bdb.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists([]byte(bucketSession))
		return err //nolint:wrapcheck // wrapped by the caller below
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Store{bdb: bdb}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.bdb.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

// Get reads the value stored under key. The second return value is
// false when the key has never been written.
func Get[T any](s *Store, key string) (T, bool, error) {
	var value T
	found := false

	err := s.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(bucketSession))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketSession)
		}

		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("failed to unmarshal value for %q: %w", key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return value, false, fmt.Errorf("failed to read store: %w", err)
	}

	return value, found, nil
}

// Put writes value under key, replacing any previous value.
func Put[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	err = s.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(bucketSession))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketSession)
		}
		return b.Put([]byte(key), data) //nolint:wrapcheck // wrapped below
	})
	if err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	return nil
}

// Delete removes key from the store. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	err := s.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(bucketSession))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketSession)
		}
		return b.Delete([]byte(key)) //nolint:wrapcheck // wrapped below
	})
	if err != nil {
		return fmt.Errorf("failed to delete from store: %w", err)
	}
	return nil
}
