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

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCreatesDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, CfgFile))
	assert.NotEmpty(t, cfg.InstallID())
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout())
	assert.True(t, cfg.PresenceEnabled())
	assert.False(t, cfg.DebugLogging())
}

func TestNewConfigKeepsInstallID(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	first, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	second, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, first.InstallID(), second.InstallID())
}

func TestEnvOverridesConfigPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(CfgEnv, cfgPath)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, cfg.ConfigPath())
	assert.FileExists(t, cfgPath)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	content := "config_schema = 1\n\n[remote]\nbase_url = \"https://launcher.example.com\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, "https://launcher.example.com", cfg.RemoteBaseURL())
	// Missing fields fall back to defaults.
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout())
	assert.True(t, cfg.PresenceEnabled())
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte("config_schema = 99\n"), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetRemoteBaseURL("https://launcher.example.com")
	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "https://launcher.example.com", reloaded.RemoteBaseURL())
	assert.True(t, reloaded.DebugLogging())
}
