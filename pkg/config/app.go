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

package config

const (
	AppName    = "launcher-core"
	AppVersion = "1.0.0"

	CfgFile       = "launcher.toml"
	LogFile       = "core.log"
	SessionDBFile = "session.db"
	HistoryDBFile = "history.db"

	// ProfilesDir is the subdirectory of the data dir where profile
	// files are synced to and launched from.
	ProfilesDir = "profiles"
)
