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
	"errors"
	"fmt"
	"os/exec"

	"github.com/OpenLauncherProject/launcher-core/pkg/helpers"
	"github.com/OpenLauncherProject/launcher-core/pkg/helpers/syncutil"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/rs/zerolog/log"
)

// ErrProcessStart means the OS refused to spawn the game executable.
var ErrProcessStart = errors.New("failed to start game process")

// Handle wraps a single running game process. Owned by the Supervisor
// from start until exit or kill.
type Handle struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
	mu       syncutil.Mutex
	killed   bool
}

// PID returns the OS process id.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Alive reports whether the process is still running.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
	}
	return helpers.IsProcessRunning(h.cmd.Process)
}

// ExitCode returns the process exit code. Only meaningful after the
// done channel closed; -1 when the process was killed by signal.
func (h *Handle) ExitCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitCode
}

// Supervisor owns the lifecycle of at most one external game process
// at a time.
type Supervisor struct {
	current *Handle
	mu      syncutil.Mutex
}

// NewSupervisor creates an empty Supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

// Start spawns a new process from the descriptor. If a previous handle
// is still alive it is terminated first, best-effort: at most one live
// handle exists at any instant.
func (s *Supervisor) Start(descriptor remote.LaunchDescriptor) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Alive() {
		log.Warn().Int("pid", s.current.PID()).Msg("terminating previous game process")
		s.killLocked(s.current)
	}

	//nolint:gosec // the executable path comes from the verified manifest
	cmd := exec.Command(descriptor.Exec, descriptor.Args...)
	cmd.Dir = descriptor.Dir

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessStart, err)
	}

	handle := &Handle{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	go func() {
		err := cmd.Wait()
		handle.mu.Lock()
		if cmd.ProcessState != nil {
			handle.exitCode = cmd.ProcessState.ExitCode()
		} else {
			handle.exitCode = -1
		}
		handle.mu.Unlock()
		if err != nil {
			log.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("game process exited with error")
		}
		close(handle.done)
	}()

	s.current = handle
	log.Info().Int("pid", handle.PID()).Str("exec", descriptor.Exec).Msg("game process started")

	return handle, nil
}

// AwaitExit blocks until the process exits or ctx is cancelled.
// Cancellation kills the process immediately. Returns the exit code.
func (s *Supervisor) AwaitExit(ctx context.Context, handle *Handle) (int, error) {
	select {
	case <-handle.done:
		return handle.ExitCode(), nil
	case <-ctx.Done():
		s.Kill(handle)
		// Reap so the exit code is final before returning.
		<-handle.done
		return handle.ExitCode(), ctx.Err() //nolint:wrapcheck // context error is the contract
	}
}

// Kill forcibly terminates the process. Idempotent: killing an already
// exited handle is a no-op.
func (s *Supervisor) Kill(handle *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killLocked(handle)
}

func (s *Supervisor) killLocked(handle *Handle) {
	handle.mu.Lock()
	alreadyKilled := handle.killed
	handle.killed = true
	handle.mu.Unlock()

	if alreadyKilled || !helpers.IsProcessRunning(handle.cmd.Process) {
		return
	}

	if err := handle.cmd.Process.Kill(); err != nil {
		log.Warn().Err(err).Int("pid", handle.cmd.Process.Pid).Msg("failed to kill game process")
	}
}

// Running reports whether a supervised process is currently alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.Alive()
}

// Shutdown kills any live process. Called on session teardown; there
// is no graceful shutdown negotiation with the child.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.killLocked(s.current)
	}
}
