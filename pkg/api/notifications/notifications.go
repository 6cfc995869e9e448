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

package notifications

import (
	"github.com/OpenLauncherProject/launcher-core/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// send delivers a notification without blocking. A slow or absent
// subscriber must never stall the session controller, so a full channel
// drops the event and logs it.
func send(ns chan<- models.Notification, n models.Notification) {
	select {
	case ns <- n:
	default:
		log.Warn().Str("method", n.Method).Msg("notification channel full, dropping event")
	}
}

func AuthState(ns chan<- models.Notification, payload models.AuthStateParams) {
	send(ns, models.Notification{
		Method: models.NotificationAuthState,
		Params: payload,
	})
}

func ProfilesChanged(ns chan<- models.Notification, payload models.ProfilesParams) {
	send(ns, models.Notification{
		Method: models.NotificationProfilesChanged,
		Params: payload,
	})
}

func SelectionChanged(ns chan<- models.Notification, payload models.SelectionParams) {
	send(ns, models.Notification{
		Method: models.NotificationSelectionChanged,
		Params: payload,
	})
}

func Progress(ns chan<- models.Notification, payload models.ProgressParams) {
	send(ns, models.Notification{
		Method: models.NotificationProgress,
		Params: payload,
	})
}

func ValidationErrors(ns chan<- models.Notification, errs []string) {
	send(ns, models.Notification{
		Method: models.NotificationValidationErrors,
		Params: models.ValidationErrorsParams{Errors: errs},
	})
}

func Error(ns chan<- models.Notification, headline, message string) {
	send(ns, models.Notification{
		Method: models.NotificationError,
		Params: models.ErrorParams{Headline: headline, Message: message},
	})
}

func Reconnecting(ns chan<- models.Notification) {
	send(ns, models.Notification{
		Method: models.NotificationReconnecting,
	})
}

func GameStarted(ns chan<- models.Notification, payload models.GameStartedParams) {
	send(ns, models.Notification{
		Method: models.NotificationGameStarted,
		Params: payload,
	})
}

func GameStopped(ns chan<- models.Notification, payload models.GameStoppedParams) {
	send(ns, models.Notification{
		Method: models.NotificationGameStopped,
		Params: payload,
	})
}
