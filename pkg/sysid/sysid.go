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

// Package sysid identifies the local machine: a stable hardware
// fingerprint used to scope authentication sessions, plus OS type and
// architecture for launch requests.
package sysid

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// OSType is the operating system family reported to the remote service.
type OSType string

const (
	OSTypeWindows OSType = "windows"
	OSTypeLinux   OSType = "linux"
	OSTypeMac     OSType = "macos"
	OSTypeUnknown OSType = "unknown"
)

// Identity is the system identification contract consumed by the
// session controller and launch pipeline.
type Identity interface {
	HardwareID() string
	OSType() OSType
	OSArch() string
}

// System implements Identity against the real machine.
type System struct{}

// HardwareID returns a stable device fingerprint. gopsutil's host ID
// (machine-id on Linux, IOPlatformUUID on macOS, MachineGuid on Windows)
// is hashed so the raw platform identifier never leaves the device.
func (System) HardwareID() string {
	id, err := host.HostID()
	if err != nil || id == "" {
		// Degraded fallback, still deterministic per machine name.
		hostname, _ := os.Hostname()
		id = "hostname:" + hostname
	}
	sum := sha256.Sum256([]byte(strings.ToLower(id)))
	return hex.EncodeToString(sum[:])
}

// OSType returns the OS family of the local machine.
func (System) OSType() OSType {
	switch runtime.GOOS {
	case "windows":
		return OSTypeWindows
	case "linux":
		return OSTypeLinux
	case "darwin":
		return OSTypeMac
	default:
		return OSTypeUnknown
	}
}

// OSArch reports the pointer width the remote expects ("64" or "32").
func (System) OSArch() string {
	if strings.Contains(runtime.GOARCH, "64") {
		return "64"
	}
	return "32"
}
