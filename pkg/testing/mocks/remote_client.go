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

// Package mocks provides testify mocks for the launcher's collaborator
// interfaces.
package mocks

import (
	"context"

	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/OpenLauncherProject/launcher-core/pkg/sysid"
	"github.com/stretchr/testify/mock"
)

// MockRemoteClient is a testify mock for remote.Client.
//
// Example:
//
//	client := &MockRemoteClient{}
//	client.On("ListProfiles", mock.Anything).Return([]remote.Profile{{Name: "Survival"}}, nil)
type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) Authenticate(ctx context.Context, login, password, hardwareID string) (remote.AuthResult, error) {
	called := m.Called(ctx, login, password, hardwareID)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Get(0).(remote.AuthResult), called.Error(1)
}

func (m *MockRemoteClient) ListProfiles(ctx context.Context) ([]remote.Profile, error) {
	called := m.Called(ctx)
	var profiles []remote.Profile
	if called.Get(0) != nil {
		profiles = called.Get(0).([]remote.Profile)
	}
	//nolint:wrapcheck // mock returns caller-provided errors
	return profiles, called.Error(1)
}

func (m *MockRemoteClient) ResolveLaunch(ctx context.Context, req remote.LaunchRequest) (remote.LaunchResolution, error) {
	called := m.Called(ctx, req)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Get(0).(remote.LaunchResolution), called.Error(1)
}

func (m *MockRemoteClient) SyncFiles(ctx context.Context, manifest *remote.Manifest, onProgress remote.ProgressFunc) error {
	called := m.Called(ctx, manifest, onProgress)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Error(0)
}

func (m *MockRemoteClient) BuildLaunchDescriptor(ctx context.Context, manifest *remote.Manifest) (remote.LaunchDescriptor, error) {
	called := m.Called(ctx, manifest)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Get(0).(remote.LaunchDescriptor), called.Error(1)
}

func (m *MockRemoteClient) CleanupStaleFiles(ctx context.Context, manifest *remote.Manifest) error {
	called := m.Called(ctx, manifest)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Error(0)
}

func (m *MockRemoteClient) UpdatePresence(ctx context.Context, text string) error {
	called := m.Called(ctx, text)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Error(0)
}

func (m *MockRemoteClient) LoadPresenceIntegration(ctx context.Context) error {
	called := m.Called(ctx)
	//nolint:wrapcheck // mock returns caller-provided errors
	return called.Error(0)
}

// MockSystemIdentity is a fixed sysid.Identity for tests.
type MockSystemIdentity struct {
	HWID string
	OS   sysid.OSType
	Arch string
}

func (m MockSystemIdentity) HardwareID() string {
	if m.HWID == "" {
		return "test-hwid"
	}
	return m.HWID
}

func (m MockSystemIdentity) OSType() sysid.OSType {
	if m.OS == "" {
		return sysid.OSTypeLinux
	}
	return m.OS
}

func (m MockSystemIdentity) OSArch() string {
	if m.Arch == "" {
		return "64"
	}
	return m.Arch
}
