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

// Package launcher turns a selected profile into a running game
// process: the pipeline resolves and syncs a profile into a launch
// descriptor, the supervisor owns the resulting OS process.
package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/OpenLauncherProject/launcher-core/pkg/api/validation"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/OpenLauncherProject/launcher-core/pkg/sysid"
	"github.com/rs/zerolog/log"
)

// ErrNoSettings means launch settings were never saved. A launch
// cannot proceed without them.
var ErrNoSettings = errors.New("settings have not been configured")

// Pipeline prepares launch descriptors. It performs no retries: any
// failure propagates immediately to the caller, which owns reconnect
// policy.
type Pipeline struct {
	client   remote.Client
	system   sysid.Identity
	validate *validation.Validator
}

// NewPipeline creates a Pipeline over the given backend client and
// system identity.
func NewPipeline(client remote.Client, system sysid.Identity) *Pipeline {
	return &Pipeline{
		client:   client,
		system:   system,
		validate: validation.DefaultValidator,
	}
}

// BuildRequest assembles the launch request for a profile from the
// user's settings, the machine identity and the session user.
func (p *Pipeline) BuildRequest(profile remote.Profile, settings *Settings, user remote.UserIdentity) remote.LaunchRequest {
	return remote.LaunchRequest{
		ProfileName: profile.Name,
		RAMSizeMB:   settings.RAMSizeMB,
		Fullscreen:  settings.Fullscreen,
		OSType:      string(p.system.OSType()),
		OSArch:      p.system.OSArch(),
		AccessToken: user.AccessToken,
		UserName:    user.Name,
		UserUUID:    user.UUID,
	}
}

// Prepare transforms (profile, settings, user) into a ready-to-run
// launch descriptor, syncing profile files as a side effect. Progress
// percentages from the file sync are forwarded to onProgress.
func (p *Pipeline) Prepare(
	ctx context.Context,
	profile remote.Profile,
	settings *Settings,
	user remote.UserIdentity,
	onProgress remote.ProgressFunc,
) (remote.LaunchDescriptor, error) {
	if settings == nil {
		return remote.LaunchDescriptor{}, ErrNoSettings
	}
	if err := p.validate.Validate(settings); err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("invalid settings: %w", err)
	}

	req := p.BuildRequest(profile, settings, user)
	if err := p.validate.Validate(&req); err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("invalid launch request: %w", err)
	}

	resolution, err := p.client.ResolveLaunch(ctx, req)
	if err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("failed to resolve launch: %w", err)
	}
	if resolution.Manifest == nil {
		msg := resolution.Message
		if msg == "" {
			msg = "no launch data returned"
		}
		return remote.LaunchDescriptor{}, fmt.Errorf("%s: %w", msg, remote.ErrProfileUnavailable)
	}

	if err := p.client.SyncFiles(ctx, resolution.Manifest, onProgress); err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("failed to sync profile files: %w", err)
	}

	descriptor, err := p.client.BuildLaunchDescriptor(ctx, resolution.Manifest)
	if err != nil {
		return remote.LaunchDescriptor{}, fmt.Errorf("failed to build launch descriptor: %w", err)
	}

	// Stale file cleanup is best-effort and never fails the launch.
	if err := p.client.CleanupStaleFiles(ctx, resolution.Manifest); err != nil {
		log.Warn().Err(err).Str("profile", profile.Name).Msg("stale file cleanup failed")
	}

	return descriptor, nil
}
