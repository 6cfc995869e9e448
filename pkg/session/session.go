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

// Package session implements the top-level state machine behind the
// launcher: authentication state, the profile catalog with its
// reconnect loop, and orchestration of the launch pipeline and process
// supervisor. It is the only package presentation talks to.
package session

import "github.com/OpenLauncherProject/launcher-core/pkg/remote"

// State is the controller's authentication state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"

	// StatePendingSecondFactor is entered when the backend demands a
	// second authentication step. Terminal: resolving the challenge is
	// not implemented.
	StatePendingSecondFactor State = "pendingSecondFactor"
)

// Session is the persisted authentication state. Replaced on login,
// cleared (persisted empty) on logout.
type Session struct {
	User            remote.UserIdentity `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

// Valid reports whether the persisted session can be restored without
// re-authenticating.
func (s Session) Valid() bool {
	return s.IsAuthenticated && s.User.AccessToken != ""
}
