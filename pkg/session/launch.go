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

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/OpenLauncherProject/launcher-core/pkg/api/models"
	"github.com/OpenLauncherProject/launcher-core/pkg/api/notifications"
	"github.com/OpenLauncherProject/launcher-core/pkg/launcher"
	"github.com/OpenLauncherProject/launcher-core/pkg/locale"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/OpenLauncherProject/launcher-core/pkg/session/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrLaunchInProgress is returned when Launch is called while a launch
// is already in flight. The second call is a no-op, never queued.
var ErrLaunchInProgress = errors.New("launch already in progress")

// ErrNoProfileSelected is returned when Launch is called with no
// selected profile.
var ErrNoProfileSelected = errors.New("no profile selected")

// Launch runs the full launch sequence for the selected profile:
// settings validation, file integrity sync, process start, and
// supervision until the process exits. It blocks for the lifetime of
// the game process; presentation is expected to call it from its own
// goroutine and follow along via the notification stream.
func (c *Controller) Launch(ctx context.Context) (err error) {
	c.mu.Lock()
	if c.launching {
		c.mu.Unlock()
		log.Debug().Msg("ignoring launch request, launch already in progress")
		return ErrLaunchInProgress
	}
	c.launching = true
	profile, hasProfile := c.selectedLocked()
	user := c.session.User
	c.mu.Unlock()

	// The busy flag and progress state are cleared no matter how the
	// launch ends, including panics from unexpected bugs: the
	// controller must survive anything the pipeline throws at it.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("launch pipeline panicked")
			notifications.Error(c.ns,
				c.loc.GetString(locale.KeyError),
				fmt.Sprintf("unexpected error: %v", r),
			)
			err = fmt.Errorf("launch panicked: %v", r)
		}

		c.mu.Lock()
		c.launching = false
		c.mu.Unlock()

		c.resetProgress()
		c.updatePresence(c.loc.GetString(locale.KeyPresenceIdle))
	}()

	if !hasProfile {
		c.failLaunch(c.loc.GetString(locale.KeyNoProfileSelected))
		return ErrNoProfileSelected
	}

	c.updatePresence(fmt.Sprintf("%s %q", c.loc.GetString(locale.KeyPresencePlaying), profile.Name))

	c.progress(locale.KeyUpdating, locale.KeyUpdatingDescription, nil)

	settings := c.loadSettings()

	c.progress(locale.KeyUpdating, locale.KeyCheckingFileIntegrity, nil)
	descriptor, err := c.pipeline.Prepare(ctx, profile, settings, user, func(percent int) {
		c.progress(locale.KeyUpdating, locale.KeyCheckingFileIntegrity, &percent)
	})
	if err != nil {
		c.failLaunch(c.launchErrorMessage(err))
		return fmt.Errorf("launch preparation failed: %w", err)
	}

	c.progress(locale.KeyLaunching, locale.KeyPreparingLaunch, nil)

	handle, err := c.supervisor.Start(descriptor)
	if err != nil {
		c.failLaunch(c.launchErrorMessage(err))
		return fmt.Errorf("launch failed: %w", err)
	}

	attemptID := uuid.NewString()
	c.recordLaunchStart(ctx, attemptID, profile.Name)

	// Grace period before declaring success, to absorb processes that
	// crash right after startup. The process itself is already running.
	select {
	case <-ctx.Done():
		// AwaitExit on the cancelled context kills the process and
		// reaps it, so the history row still gets its exit code.
		exitCode, _ := c.supervisor.AwaitExit(ctx, handle)
		c.recordLaunchEnd(attemptID, exitCode)
		return ctx.Err() //nolint:wrapcheck // context error is the contract
	case <-c.clock.After(launchGracePeriod):
	}

	notifications.GameStarted(c.ns, models.GameStartedParams{
		Profile: profile.Name,
		PID:     handle.PID(),
	})
	c.resetProgress()

	exitCode, waitErr := c.supervisor.AwaitExit(ctx, handle)
	c.recordLaunchEnd(attemptID, exitCode)

	notifications.GameStopped(c.ns, models.GameStoppedParams{
		Profile:  profile.Name,
		ExitCode: exitCode,
	})

	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return fmt.Errorf("failed to await game exit: %w", waitErr)
	}
	return nil
}

// loadSettings reads the persisted launch settings, returning nil when
// they were never saved so the pipeline can fail the precondition
// without touching the network.
func (c *Controller) loadSettings() *launcher.Settings {
	settings, found, err := store.Get[launcher.Settings](c.store, store.KeySettings)
	if err != nil {
		log.Error().Err(err).Msg("failed to read settings")
		return nil
	}
	if !found {
		return nil
	}
	return &settings
}

// launchErrorMessage maps pipeline failures to user-facing text.
func (c *Controller) launchErrorMessage(err error) string {
	switch {
	case errors.Is(err, launcher.ErrNoSettings):
		return c.loc.GetString(locale.KeySettingsMissing)
	case errors.Is(err, remote.ErrProfileUnavailable):
		return c.loc.GetString(locale.KeyProfileNotConfigured)
	case remote.IsTransient(err):
		return c.loc.GetString(locale.KeyLostConnection)
	default:
		return err.Error()
	}
}

func (c *Controller) failLaunch(message string) {
	notifications.Error(c.ns, c.loc.GetString(locale.KeyError), message)
}

func (c *Controller) progress(headlineKey, descriptionKey string, percent *int) {
	notifications.Progress(c.ns, models.ProgressParams{
		Headline:    c.loc.GetString(headlineKey),
		Description: c.loc.GetString(descriptionKey),
		Busy:        true,
		Percent:     percent,
	})
}

func (c *Controller) resetProgress() {
	notifications.Progress(c.ns, models.ProgressParams{})
}

// updatePresence relays the user's activity, best-effort. Presence
// failures are never allowed to affect a launch.
func (c *Controller) updatePresence(text string) {
	ctx, cancelCtx := context.WithTimeout(c.ctx, reconnectDelay)
	defer cancelCtx()
	if err := c.client.UpdatePresence(ctx, text); err != nil {
		log.Warn().Err(err).Msg("failed to update presence")
	}
}

func (c *Controller) recordLaunchStart(ctx context.Context, attemptID, profile string) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordLaunchStart(ctx, attemptID, profile, c.clock.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to record launch start")
	}
}

func (c *Controller) recordLaunchEnd(attemptID string, exitCode int) {
	if c.history == nil {
		return
	}
	// Not tied to the launch context so the exit row is written even
	// when the launch was cancelled by teardown.
	ctx, cancelCtx := context.WithTimeout(context.Background(), reconnectDelay)
	defer cancelCtx()
	if err := c.history.RecordLaunchEnd(ctx, attemptID, exitCode, c.clock.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to record launch end")
	}
}
