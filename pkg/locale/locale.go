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

// Package locale provides localized text lookup for the strings the
// session controller surfaces to presentation.
package locale

// Keys for every string the controller emits.
const (
	KeyError                 = "error"
	KeyUpdating              = "updating"
	KeyUpdatingDescription   = "updating.description"
	KeyCheckingFileIntegrity = "updating.integrity"
	KeyLaunching             = "launching"
	KeyPreparingLaunch       = "launching.preparing"
	KeyRunning               = "running"
	KeyLostConnection        = "connection.lost"
	KeyReconnecting          = "connection.reconnecting"
	KeyInvalidCredentials    = "auth.invalid"
	KeySettingsMissing       = "settings.missing"
	KeyProfileNotConfigured  = "profile.notConfigured"
	KeyNoProfileSelected     = "profile.noneSelected"
	KeyPresenceIdle          = "presence.idle"
	KeyPresencePlaying       = "presence.playing"
)

// Provider is a pure key to text lookup. Implementations return the key
// itself when no translation exists so missing entries stay visible.
type Provider interface {
	GetString(key string) string
}

// Static is a map-backed Provider.
type Static map[string]string

// GetString implements Provider.
func (s Static) GetString(key string) string {
	if text, ok := s[key]; ok {
		return text
	}
	return key
}

// English is the built-in default catalog.
var English = Static{
	KeyError:                 "Error",
	KeyUpdating:              "Updating",
	KeyUpdatingDescription:   "Fetching profile details",
	KeyCheckingFileIntegrity: "Checking file integrity",
	KeyLaunching:             "Launching",
	KeyPreparingLaunch:       "Preparing launch",
	KeyRunning:               "Running",
	KeyLostConnection:        "Lost connection",
	KeyReconnecting:          "Reconnecting",
	KeyInvalidCredentials:    "Invalid login or password",
	KeySettingsMissing:       "Settings have not been configured",
	KeyProfileNotConfigured:  "Profile is not configured on the server",
	KeyNoProfileSelected:     "No profile selected",
	KeyPresenceIdle:          "In the launcher",
	KeyPresencePlaying:       "Playing",
}
