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

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
}

func shellDescriptor(t *testing.T, script string) remote.LaunchDescriptor {
	t.Helper()
	return remote.LaunchDescriptor{
		Exec: "sh",
		Args: []string{"-c", script},
		Dir:  t.TempDir(),
	}
}

func TestSupervisorStartAndAwaitExit(t *testing.T) {
	skipWithoutSh(t)
	t.Parallel()

	s := NewSupervisor()
	handle, err := s.Start(shellDescriptor(t, "exit 3"))
	require.NoError(t, err)
	require.Positive(t, handle.PID())

	code, err := s.AwaitExit(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.False(t, handle.Alive())
	assert.False(t, s.Running())
}

func TestSupervisorStartFailure(t *testing.T) {
	t.Parallel()

	s := NewSupervisor()
	_, err := s.Start(remote.LaunchDescriptor{Exec: "/nonexistent/game/binary"})
	require.ErrorIs(t, err, ErrProcessStart)
	assert.False(t, s.Running())
}

func TestSupervisorAwaitExitCancellation(t *testing.T) {
	skipWithoutSh(t)
	t.Parallel()

	s := NewSupervisor()
	handle, err := s.Start(shellDescriptor(t, "sleep 30"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	code, err := s.AwaitExit(ctx, handle)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, code)
	assert.False(t, handle.Alive())
}

func TestSupervisorSecondStartKillsFirst(t *testing.T) {
	skipWithoutSh(t)
	t.Parallel()

	s := NewSupervisor()
	first, err := s.Start(shellDescriptor(t, "sleep 30"))
	require.NoError(t, err)
	require.True(t, first.Alive())

	second, err := s.Start(shellDescriptor(t, "sleep 30"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Kill(second) })

	select {
	case <-first.done:
	case <-time.After(3 * time.Second):
		t.Fatal("first process was not terminated by second start")
	}
	assert.True(t, second.Alive())
}

func TestSupervisorKillIdempotent(t *testing.T) {
	skipWithoutSh(t)
	t.Parallel()

	s := NewSupervisor()
	handle, err := s.Start(shellDescriptor(t, "sleep 30"))
	require.NoError(t, err)

	s.Kill(handle)
	s.Kill(handle)

	select {
	case <-handle.done:
	case <-time.After(3 * time.Second):
		t.Fatal("killed process did not exit")
	}
	assert.Equal(t, -1, handle.ExitCode())
}

func TestSupervisorShutdown(t *testing.T) {
	skipWithoutSh(t)
	t.Parallel()

	s := NewSupervisor()
	handle, err := s.Start(shellDescriptor(t, "sleep 30"))
	require.NoError(t, err)
	require.True(t, s.Running())

	s.Shutdown()

	select {
	case <-handle.done:
	case <-time.After(3 * time.Second):
		t.Fatal("process survived shutdown")
	}
	assert.False(t, s.Running())
}
