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

// Package remote defines the typed contract with the launcher's backend
// service: authentication, the profile catalog, launch resolution, file
// integrity sync and the presence relay.
package remote

// UserIdentity is an authenticated user as returned by the backend.
// Immutable once constructed from an authentication response.
type UserIdentity struct {
	Name            string `json:"name"`
	UUID            string `json:"uuid"`
	AccessToken     string `json:"accessToken"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// AuthResult is the outcome of an authentication attempt. When the
// backend rejects credentials it may attach field-level details;
// otherwise Message carries a single human-readable reason.
type AuthResult struct {
	User            UserIdentity `json:"user"`
	Message         string       `json:"message"`
	Details         []string     `json:"details"`
	HasSecondFactor bool         `json:"has2Fa"`
}

// Profile is a named launch configuration from the remote catalog.
type Profile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

// LaunchRequest describes everything the backend needs to resolve a
// profile into a runnable manifest.
type LaunchRequest struct {
	ProfileName string `json:"profileName"       validate:"required,profilename"`
	OSType      string `json:"osType"            validate:"required"`
	OSArch      string `json:"osArchitecture"    validate:"oneof=32 64"`
	AccessToken string `json:"userAccessToken"   validate:"required"`
	UserName    string `json:"userName"          validate:"required"`
	UserUUID    string `json:"userUuid"          validate:"required"`
	RAMSizeMB   int    `json:"ramSizeMb"         validate:"gte=512,lte=262144"`
	Fullscreen  bool   `json:"isFullScreen"`
}

// FileEntry is a single file required by a profile. Path is relative to
// the profile directory.
type FileEntry struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
}

// Manifest is the resolved launch data for a profile: the files needed
// on disk and the command template the descriptor is built from.
type Manifest struct {
	ProfileName string      `json:"profileName"`
	Executable  string      `json:"executable"`
	Arguments   []string    `json:"arguments"`
	Files       []FileEntry `json:"files"`
}

// LaunchResolution is the backend's answer to a launch request. A nil
// Manifest means the profile has no usable launch data; Message then
// says why.
type LaunchResolution struct {
	Manifest *Manifest `json:"data"`
	Message  string    `json:"message"`
}

// LaunchDescriptor is the ready-to-run process specification produced
// from a synced manifest. Constructed fresh per launch attempt, never
// persisted.
type LaunchDescriptor struct {
	Exec string   `json:"exec"`
	Dir  string   `json:"dir"`
	Args []string `json:"args"`
}
