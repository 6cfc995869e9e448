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

// Package sessiondb records launch attempts: which profile started
// when, and how the process ended. Used for the launch history view
// and for diagnosing crashes on startup.
package sessiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("session database is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

// LaunchRecord is one row of launch history. EndedAt and ExitCode are
// nil while the process is still running (or if the launcher died
// before recording the exit).
type LaunchRecord struct {
	EndedAt   *time.Time
	ExitCode  *int
	AttemptID string
	Profile   string
	StartedAt time.Time
}

// SessionDB stores launch history in sqlite.
type SessionDB struct {
	sql  *sql.DB
	path string
}

// Open opens (or creates and migrates) the database at path.
func Open(path string) (*SessionDB, error) {
	db := &SessionDB{path: path}
	if err := db.open(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *SessionDB) open() error {
	if err := os.MkdirAll(filepath.Dir(db.path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", db.path+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance

	return db.Allocate()
}

// Allocate runs pending migrations.
func (db *SessionDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

// Close closes the underlying database.
func (db *SessionDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.sql = nil
	return nil
}

// RecordLaunchStart inserts a history row for a new launch attempt.
func (db *SessionDB) RecordLaunchStart(ctx context.Context, attemptID, profile string, at time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlInsertLaunch(ctx, db.sql, attemptID, profile, at)
}

// RecordLaunchEnd closes out a launch attempt with its exit code.
func (db *SessionDB) RecordLaunchEnd(ctx context.Context, attemptID string, exitCode int, at time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlEndLaunch(ctx, db.sql, attemptID, exitCode, at)
}

// History returns the most recent launch attempts, newest first.
func (db *SessionDB) History(ctx context.Context, limit int) ([]LaunchRecord, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlLaunchHistory(ctx, db.sql, limit)
}
