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

package remote

import "context"

// ProgressFunc receives integrity sync progress as percentages 0..100.
type ProgressFunc func(percent int)

// Client is the backend contract the launcher core consumes. Every call
// is network-bound and may fail with a transient error (see
// IsTransient). Implementations must be safe for concurrent use.
type Client interface {
	// Authenticate exchanges credentials and the device fingerprint for
	// a user identity. A rejected login is NOT an error: the result's
	// User.IsAuthenticated is false and Message/Details say why.
	Authenticate(ctx context.Context, login, password, hardwareID string) (AuthResult, error)

	// ListProfiles returns the launchable profile catalog in catalog
	// order.
	ListProfiles(ctx context.Context) ([]Profile, error)

	// ResolveLaunch asks the backend for the manifest of a profile. A
	// resolution with a nil Manifest means the profile cannot be
	// launched; the resolution message says why.
	ResolveLaunch(ctx context.Context, req LaunchRequest) (LaunchResolution, error)

	// SyncFiles reconciles local files against the manifest, downloading
	// missing or mismatched entries. Long-running and cancellable via
	// ctx; onProgress may be nil. Partial downloads are re-verified on
	// the next sync.
	SyncFiles(ctx context.Context, manifest *Manifest, onProgress ProgressFunc) error

	// BuildLaunchDescriptor materializes the concrete executable,
	// arguments and working directory for a synced manifest.
	BuildLaunchDescriptor(ctx context.Context, manifest *Manifest) (LaunchDescriptor, error)

	// CleanupStaleFiles removes local files no longer referenced by the
	// manifest. Best-effort.
	CleanupStaleFiles(ctx context.Context, manifest *Manifest) error

	// UpdatePresence relays the user's current activity text.
	UpdatePresence(ctx context.Context, text string) error

	// LoadPresenceIntegration initializes the presence relay. Called
	// once per session.
	LoadPresenceIntegration(ctx context.Context) error
}
