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

// Package models defines the notification contract between the launcher
// core and whatever presentation layer subscribes to it.
package models

// Notification methods emitted by the session controller.
const (
	NotificationAuthState        = "session.authState"
	NotificationProfilesChanged  = "session.profiles"
	NotificationSelectionChanged = "session.selection"
	NotificationProgress         = "session.progress"
	NotificationValidationErrors = "session.validationErrors"
	NotificationError            = "session.error"
	NotificationReconnecting     = "session.reconnecting"
	NotificationGameStarted      = "game.started"
	NotificationGameStopped      = "game.stopped"
)

// Notification is a single event delivered to presentation subscribers.
type Notification struct {
	Params any
	Method string
}

// AuthState values reported by NotificationAuthState.
const (
	AuthStateUnauthenticated   = "unauthenticated"
	AuthStateAuthenticated     = "authenticated"
	AuthStatePendingSecondStep = "pendingSecondFactor"
)

// AuthStateParams is the payload for NotificationAuthState.
type AuthStateParams struct {
	State    string `json:"state"`
	UserName string `json:"userName,omitempty"`
}

// ProgressParams is the payload for NotificationProgress. Percent is nil
// when the current step has no meaningful completion percentage.
type ProgressParams struct {
	Percent     *int   `json:"percent,omitempty"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Busy        bool   `json:"busy"`
}

// ProfilesParams is the payload for NotificationProfilesChanged.
type ProfilesParams struct {
	Names []string `json:"names"`
}

// SelectionParams is the payload for NotificationSelectionChanged.
// Name is empty when the selection was cleared.
type SelectionParams struct {
	Name string `json:"name,omitempty"`
}

// ValidationErrorsParams is the payload for NotificationValidationErrors.
type ValidationErrorsParams struct {
	Errors []string `json:"errors"`
}

// ErrorParams is the payload for NotificationError.
type ErrorParams struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
}

// GameStartedParams is the payload for NotificationGameStarted.
type GameStartedParams struct {
	Profile string `json:"profile"`
	PID     int    `json:"pid"`
}

// GameStoppedParams is the payload for NotificationGameStopped.
type GameStoppedParams struct {
	Profile  string `json:"profile"`
	ExitCode int    `json:"exitCode"`
}
