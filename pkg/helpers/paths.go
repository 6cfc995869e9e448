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

package helpers

import (
	"path/filepath"

	"github.com/OpenLauncherProject/launcher-core/pkg/config"
	"github.com/adrg/xdg"
)

// ConfigDir returns the directory the launcher config file lives in.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the directory for databases, logs and synced profile
// files. Created on demand by the components that write to it.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// ProfilesDir returns the directory profile files are synced into.
func ProfilesDir() string {
	return filepath.Join(DataDir(), config.ProfilesDir)
}
