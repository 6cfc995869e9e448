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

package launcher

// Settings are the user's launch preferences, persisted by the
// presentation layer via the session store. A profile cannot launch
// until settings exist.
type Settings struct {
	RAMSizeMB    int  `json:"ramSizeMb"    validate:"required,gte=512,lte=262144"`
	WindowWidth  int  `json:"windowWidth,omitempty"  validate:"omitempty,gte=640"`
	WindowHeight int  `json:"windowHeight,omitempty" validate:"omitempty,gte=480"`
	Fullscreen   bool `json:"fullscreen"`
}
