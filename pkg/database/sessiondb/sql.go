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

package sessiondb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/OpenLauncherProject/launcher-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlAllocate(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run session database migrations: %w", err)
	}
	return nil
}

func sqlInsertLaunch(ctx context.Context, db *sql.DB, attemptID, profile string, at time.Time) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Launches(AttemptID, Profile, StartedAt) values (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare launch insert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, attemptID, profile, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert launch record: %w", err)
	}
	return nil
}

func sqlEndLaunch(ctx context.Context, db *sql.DB, attemptID string, exitCode int, at time.Time) error {
	stmt, err := db.PrepareContext(ctx, `
		update Launches set EndedAt = ?, ExitCode = ? where AttemptID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare launch update statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, at.Unix(), exitCode, attemptID)
	if err != nil {
		return fmt.Errorf("failed to update launch record: %w", err)
	}
	return nil
}

func sqlLaunchHistory(ctx context.Context, db *sql.DB, limit int) ([]LaunchRecord, error) {
	if limit <= 0 {
		limit = 25
	}

	rows, err := db.QueryContext(ctx, `
		select AttemptID, Profile, StartedAt, EndedAt, ExitCode
		from Launches order by StartedAt desc limit ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query launch history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	var records []LaunchRecord
	for rows.Next() {
		var rec LaunchRecord
		var startedAt int64
		var endedAt sql.NullInt64
		var exitCode sql.NullInt64

		err := rows.Scan(&rec.AttemptID, &rec.Profile, &startedAt, &endedAt, &exitCode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan launch record: %w", err)
		}

		rec.StartedAt = time.Unix(startedAt, 0)
		if endedAt.Valid {
			t := time.Unix(endedAt.Int64, 0)
			rec.EndedAt = &t
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			rec.ExitCode = &code
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate launch history: %w", err)
	}

	return records, nil
}

func closeStmt(stmt *sql.Stmt) {
	if closeErr := stmt.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql statement")
	}
}
